package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"clinicbook/api/internal/ids"
	"clinicbook/api/internal/models"
	"clinicbook/api/internal/repository"
	"clinicbook/api/internal/security"
)

// AuthService owns credential verification and the session lifecycle. A
// session is a snapshot of the user taken at login; it lives until logout,
// TTL expiry, or the background sweeper removes it.
type AuthService struct {
	users      repository.UserStore
	sessions   repository.SessionStore
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(users repository.UserStore, sessions repository.SessionStore, sessionTTL time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

type RegisterInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Phone    *string
	Role     string
}

// Register creates a patient account. Doctor and admin accounts are
// provisioned through the admin surface, so any other role value is rejected.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	input.Username = strings.TrimSpace(input.Username)

	if input.Username == "" || input.Password == "" || input.Name == "" || input.Email == "" || input.Role == "" {
		return models.User{}, validationf("username, password, name, email and role are required")
	}
	if models.Role(input.Role) != models.RolePatient {
		return models.User{}, validationf("self registration is limited to the patient role")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Username:     input.Username,
		PasswordHash: passwordHash,
		Role:         models.RolePatient,
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("patient registered")
	return user, nil
}

// Login verifies credentials and opens a session. The returned token is the
// raw cookie value; only its hash is persisted.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, models.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", models.Session{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", models.Session{}, ErrInvalidCredentials
		}
		return "", models.Session{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return "", models.Session{}, ErrInvalidCredentials
	}

	token, tokenHash, err := security.GenerateSessionToken(32)
	if err != nil {
		return "", models.Session{}, err
	}

	now := time.Now()
	session := models.Session{
		TokenHash:      tokenHash,
		UserID:         user.ID,
		Username:       user.Username,
		Role:           user.Role,
		Name:           user.Name,
		Email:          user.Email,
		Specialization: user.Specialization,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.sessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", models.Session{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("session opened")
	return token, session, nil
}

// Authenticate resolves the opaque cookie token into a live session. Expired
// sessions are removed on sight rather than waiting for the sweeper.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrUnauthenticated
	}

	hash := security.HashSessionToken(token)
	session, err := s.sessions.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.Session{}, ErrUnauthenticated
		}
		return models.Session{}, err
	}

	if session.Expired(time.Now()) {
		_ = s.sessions.DeleteByTokenHash(ctx, hash)
		return models.Session{}, ErrUnauthenticated
	}

	return session, nil
}

// Logout is idempotent: destroying an already-gone session is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	err := s.sessions.DeleteByTokenHash(ctx, security.HashSessionToken(token))
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return err
	}
	return nil
}
