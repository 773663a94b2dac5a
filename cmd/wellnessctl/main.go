// Package main implements the wellnessctl CLI for operating a wellness
// portal session from the terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/healthbridge/wellness-client/internal/api"
	"github.com/healthbridge/wellness-client/internal/config"
	"github.com/healthbridge/wellness-client/internal/credstore"
	"github.com/healthbridge/wellness-client/internal/session"
	"github.com/healthbridge/wellness-client/pkg/observability"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wellnessctl",
	Short: "CLI for the wellness portal",
	Long: `wellnessctl operates a wellness portal session from the terminal:
sign in, track goals, and manage preventive-care reminders.

The session persists between invocations in the configured credential
store, so signing in once is enough until the refresh token expires.`,
	SilenceUsage: true,
}

// stack is the initialized client stack shared by every command.
type stack struct {
	logger *zap.Logger
	client *api.Client
	auth   *session.AuthSession
}

// initStack wires configuration, logging, telemetry, the credential store,
// and the portal client, then restores any persisted session.
func initStack(ctx context.Context) (*stack, func(), error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := observability.InitLogger(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	meterProvider, _, err := observability.InitTelemetry()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	metrics, err := observability.NewClientMetrics()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize client metrics: %w", err)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL, store, logger,
		api.WithTimeout(cfg.API.RequestTimeout.Duration),
		api.WithMetrics(metrics))
	auth := session.New(client, store, logger)

	if err := auth.Restore(ctx); err != nil {
		logger.Warn("Failed to restore session", zap.Error(err))
	}

	shutdown := func() {
		_ = observability.Shutdown(ctx, meterProvider, logger)
	}
	return &stack{logger: logger, client: client, auth: auth}, shutdown, nil
}

func newStore(ctx context.Context, cfg *config.Config) (credstore.Store, error) {
	switch cfg.Credentials.Backend {
	case "redis":
		return credstore.NewRedisStore(ctx, cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	case "memory":
		return credstore.NewMemoryStore(), nil
	default:
		return credstore.NewFileStore(cfg.Credentials.Path), nil
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
