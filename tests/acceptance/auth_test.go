package acceptance

import (
	"context"

	"github.com/healthbridge/wellness-client/internal/api"
	"github.com/healthbridge/wellness-client/internal/credstore"
	"github.com/healthbridge/wellness-client/internal/domain"
	"github.com/healthbridge/wellness-client/internal/dto"
	"github.com/healthbridge/wellness-client/internal/guard"
	"github.com/healthbridge/wellness-client/internal/session"
)

func registration(email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:           email,
		Password:        "Password123",
		PasswordConfirm: "Password123",
		FirstName:       "Pat",
		LastName:        "Jones",
		Role:            domain.RolePatient,
		DataConsent:     true,
	}
}

func (s *Suite) TestRegister_Success() {
	ctx := context.Background()

	user, err := s.Auth.Register(ctx, registration("register@example.com"))
	s.Require().NoError(err)

	s.Equal("register@example.com", user.Email)
	s.Equal(domain.RolePatient, user.Role)
	s.Equal(session.StateAuthenticated, s.Auth.State())

	sess, cached, err := s.Store.Load(ctx)
	s.Require().NoError(err)
	s.NotEmpty(sess.AccessToken)
	s.NotEmpty(sess.RefreshToken)
	s.Equal(user.ID, cached.ID)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	ctx := context.Background()

	_, err := s.Auth.Register(ctx, registration("duplicate@example.com"))
	s.Require().NoError(err)
	s.Require().NoError(s.Auth.Logout(ctx))

	_, err = s.Auth.Register(ctx, registration("duplicate@example.com"))
	s.Require().Error(err)

	var apiErr *api.Error
	s.Require().ErrorAs(err, &apiErr)
	s.Contains(apiErr.Fields["email"], "already exists")
	s.Equal(session.StateAnonymous, s.Auth.State())
}

func (s *Suite) TestLogin_Success() {
	ctx := context.Background()

	_, err := s.Auth.Register(ctx, registration("login@example.com"))
	s.Require().NoError(err)
	s.Require().NoError(s.Auth.Logout(ctx))

	user, err := s.Auth.Login(ctx, "login@example.com", "Password123")
	s.Require().NoError(err)
	s.Equal("login@example.com", user.Email)
	s.True(s.Auth.IsAuthenticated())
}

func (s *Suite) TestLogin_WrongPassword() {
	ctx := context.Background()

	_, err := s.Auth.Register(ctx, registration("wrongpass@example.com"))
	s.Require().NoError(err)
	s.Require().NoError(s.Auth.Logout(ctx))

	_, err = s.Auth.Login(ctx, "wrongpass@example.com", "NotThePassword")
	s.Require().Error(err)
	s.Equal(session.StateAnonymous, s.Auth.State())
	s.Nil(s.Auth.CurrentUser())
}

func (s *Suite) TestLogout_RevokesRefreshToken() {
	ctx := context.Background()

	_, err := s.Auth.Register(ctx, registration("logout@example.com"))
	s.Require().NoError(err)

	sess, _, err := s.Store.Load(ctx)
	s.Require().NoError(err)
	refreshToken := sess.RefreshToken

	s.Require().NoError(s.Auth.Logout(ctx))
	s.Equal(session.StateAnonymous, s.Auth.State())
	_, _, err = s.Store.Load(ctx)
	s.ErrorIs(err, credstore.ErrNoSession)

	// The revoked refresh token is dead server-side.
	s.Portal.mu.Lock()
	_, alive := s.Portal.refresh[refreshToken]
	s.Portal.mu.Unlock()
	s.False(alive)
}

func (s *Suite) TestTransparentRefresh() {
	ctx := context.Background()

	_, err := s.Auth.Register(ctx, registration("refresh@example.com"))
	s.Require().NoError(err)

	// Expire the access token; the next authed call heals itself without
	// surfacing an error.
	s.Portal.RevokeAccessTokens()

	profile, err := s.Auth.Profile(ctx)
	s.Require().NoError(err)
	s.Equal("refresh@example.com", profile.Email)
	s.True(s.Auth.IsAuthenticated())

	sess, _, err := s.Store.Load(ctx)
	s.Require().NoError(err)
	s.NotEmpty(sess.AccessToken)
	s.NotEmpty(sess.RefreshToken, "refresh token survives an access refresh")
}

func (s *Suite) TestTerminalRefreshFailure() {
	ctx := context.Background()

	_, err := s.Auth.Register(ctx, registration("terminal@example.com"))
	s.Require().NoError(err)

	// Both token kinds revoked: the refresh itself fails and the session is
	// torn down everywhere.
	s.Portal.RevokeAllTokens()

	_, err = s.Auth.Profile(ctx)
	s.Require().ErrorIs(err, api.ErrSessionExpired)

	s.Equal(session.StateAnonymous, s.Auth.State())
	s.Nil(s.Auth.CurrentUser())
	_, _, err = s.Store.Load(ctx)
	s.ErrorIs(err, credstore.ErrNoSession)

	// The route guard now sends the user to the login screen.
	decision := guard.Evaluate(s.Auth.State(), s.Auth.CurrentUser(), nil)
	s.Equal(guard.Decision{Kind: guard.Redirect, Target: guard.LoginPath}, decision)
}

func (s *Suite) TestRestoreAcrossRestarts() {
	ctx := context.Background()

	_, err := s.Auth.Register(ctx, registration("restore@example.com"))
	s.Require().NoError(err)

	// A second stack over the same store is the restarted app.
	client := api.NewClient(s.Portal.URL(), s.Store, s.logger)
	restarted := session.New(client, s.Store, s.logger)

	s.Require().NoError(restarted.Restore(ctx))
	s.True(restarted.IsAuthenticated())
	s.Require().NotNil(restarted.CurrentUser())
	s.Equal("restore@example.com", restarted.CurrentUser().Email)
}

func (s *Suite) TestProfileUpdate() {
	ctx := context.Background()

	_, err := s.Auth.Register(ctx, registration("profile@example.com"))
	s.Require().NoError(err)

	profile, err := s.Auth.Profile(ctx)
	s.Require().NoError(err)
	s.Equal("Pat", profile.FirstName)

	name := "Patricia"
	updated, err := s.Auth.UpdateProfile(ctx, dto.ProfileUpdateRequest{FirstName: &name})
	s.Require().NoError(err)
	s.Equal("Patricia", updated.FirstName)
	s.Equal("Patricia", s.Auth.CurrentUser().FirstName)
}
