package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicbook/api/internal/models"
	"clinicbook/api/internal/repository/inmem"
	"clinicbook/api/internal/service"
)

func newAuthService(ttl time.Duration) (*service.AuthService, *inmem.UserStore) {
	users := inmem.NewUserStore()
	sessions := inmem.NewSessionStore()
	return service.NewAuthService(users, sessions, ttl, zerolog.Nop()), users
}

func registerPatient(t *testing.T, auth *service.AuthService, username string) models.User {
	t.Helper()

	user, err := auth.Register(context.Background(), service.RegisterInput{
		Username: username,
		Password: "secret123",
		Name:     "Jane Doe",
		Email:    username + "@demo.com",
		Role:     "patient",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterValidation(t *testing.T) {
	auth, _ := newAuthService(time.Hour)
	ctx := context.Background()

	_, err := auth.Register(ctx, service.RegisterInput{Username: "jane", Password: "pw"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = auth.Register(ctx, service.RegisterInput{
		Username: "jane", Password: "pw", Name: "Jane", Email: "jane@demo.com", Role: "doctor",
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = auth.Register(ctx, service.RegisterInput{
		Username: "jane", Password: "pw", Name: "Jane", Email: "jane@demo.com", Role: "admin",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	auth, _ := newAuthService(time.Hour)

	registerPatient(t, auth, "jane")

	_, err := auth.Register(context.Background(), service.RegisterInput{
		Username: "jane", Password: "other", Name: "Other Jane", Email: "other@demo.com", Role: "patient",
	})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _ := newAuthService(time.Hour)
	ctx := context.Background()

	registerPatient(t, auth, "jane")

	_, _, err := auth.Login(ctx, "jane", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginAndAuthenticate(t *testing.T) {
	auth, _ := newAuthService(time.Hour)
	ctx := context.Background()

	user := registerPatient(t, auth, "jane")

	token, session, err := auth.Login(ctx, "jane", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, models.RolePatient, session.Role)

	resolved, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.UserID)
	assert.Equal(t, user.Name, resolved.Name)

	_, err = auth.Authenticate(ctx, "not-a-real-token")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestSessionIsSnapshotOfLoginTime(t *testing.T) {
	users := inmem.NewUserStore()
	sessions := inmem.NewSessionStore()
	auth := service.NewAuthService(users, sessions, time.Hour, zerolog.Nop())
	ctx := context.Background()

	user := registerPatient(t, auth, "jane")

	token, _, err := auth.Login(ctx, "jane", "secret123")
	require.NoError(t, err)

	// Deleting the account does not revoke the open session.
	require.NoError(t, users.Delete(ctx, user.ID))

	resolved, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", resolved.Name)
}

func TestAuthenticateExpired(t *testing.T) {
	auth, _ := newAuthService(-time.Minute)
	ctx := context.Background()

	registerPatient(t, auth, "jane")

	token, _, err := auth.Login(ctx, "jane", "secret123")
	require.NoError(t, err)

	_, err = auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	// The expired row is removed on first sight.
	_, err = auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestLogout(t *testing.T) {
	auth, _ := newAuthService(time.Hour)
	ctx := context.Background()

	registerPatient(t, auth, "jane")

	token, _, err := auth.Login(ctx, "jane", "secret123")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, token))

	_, err = auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	// Logging out twice is fine.
	assert.NoError(t, auth.Logout(ctx, token))
	assert.NoError(t, auth.Logout(ctx, ""))
}
