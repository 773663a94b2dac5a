// Package credstore persists the session credentials and cached identity
// across process restarts, the way a browser keeps them in local storage.
package credstore

import (
	"context"
	"errors"

	"github.com/healthbridge/wellness-client/internal/domain"
)

// ErrNoSession is returned by Load when no credentials are persisted.
var ErrNoSession = errors.New("no session stored")

// Store is the credential store contract. Save must be atomic: a reader
// never observes a partial token/identity write. Clear is idempotent.
type Store interface {
	Save(ctx context.Context, session *domain.Session, user *domain.UserIdentity) error
	Load(ctx context.Context) (*domain.Session, *domain.UserIdentity, error)
	Clear(ctx context.Context) error
}

// credentials is the single document every backend persists.
type credentials struct {
	Session *domain.Session      `json:"session"`
	User    *domain.UserIdentity `json:"user"`
}
