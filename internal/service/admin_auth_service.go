package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/inhousecost/backend/pkg/auth"
)

// AdminAuthService checks the shared admin password and issues session tokens.
type AdminAuthService interface {
	// Login returns a signed session token and its expiry.
	Login(ctx context.Context, password string) (string, time.Time, error)
}

// AdminAuthConfig holds the admin credentials. PasswordHash (bcrypt) wins over
// Password when both are set.
type AdminAuthConfig struct {
	Password      string
	PasswordHash  string
	SessionSecret []byte
	Now           func() time.Time
}

type adminAuthServiceImpl struct {
	cfg AdminAuthConfig
}

// NewAdminAuthService creates an AdminAuthService.
func NewAdminAuthService(cfg AdminAuthConfig) AdminAuthService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &adminAuthServiceImpl{cfg: cfg}
}

func (s *adminAuthServiceImpl) Login(_ context.Context, password string) (string, time.Time, error) {
	if password == "" {
		return "", time.Time{}, invalid("password_required", "Password is required")
	}
	if err := s.check(password); err != nil {
		return "", time.Time{}, err
	}
	expiresAt := s.cfg.Now().Add(auth.SessionDuration)
	return auth.CreateSessionToken(auth.AdminSubject, expiresAt, s.cfg.SessionSecret), expiresAt, nil
}

func (s *adminAuthServiceImpl) check(password string) error {
	switch {
	case s.cfg.PasswordHash != "":
		err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	case s.cfg.Password != "":
		if subtle.ConstantTimeCompare([]byte(s.cfg.Password), []byte(password)) != 1 {
			return ErrInvalidPassword
		}
		return nil
	default:
		return ErrAuthNotConfigured
	}
}
