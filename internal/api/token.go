package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/healthbridge/wellness-client/internal/domain"
)

// NewSession builds a Session from a freshly issued token pair. The access
// token's exp claim is decoded without signature verification to record an
// approximate expiry; verification is the server's job.
func NewSession(access, refresh string) *domain.Session {
	return &domain.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    tokenExpiry(access),
	}
}

func tokenExpiry(token string) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
