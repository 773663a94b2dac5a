package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/healthbridge/wellness-client/internal/domain"
)

// credentialsKey is the fixed well-known key the credentials document lives
// under. The whole document is written in one SET, so readers never see a
// partial token/identity pair.
const credentialsKey = "wellness:client:credentials"

// RedisStore persists credentials in Redis, for headless deployments that
// share a session across processes.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Save(ctx context.Context, session *domain.Session, user *domain.UserIdentity) error {
	data, err := json.Marshal(credentials{Session: session, User: user})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := r.client.Set(ctx, credentialsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context) (*domain.Session, *domain.UserIdentity, error) {
	data, err := r.client.Get(ctx, credentialsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil, ErrNoSession
		}
		return nil, nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, nil, fmt.Errorf("failed to decode credentials: %w", err)
	}
	if creds.Session == nil || creds.Session.AccessToken == "" {
		return nil, nil, ErrNoSession
	}
	return creds.Session, creds.User, nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, credentialsKey).Err(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
