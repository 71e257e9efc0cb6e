package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"vastusite/internal/config"
	"vastusite/internal/security"
)

type SessionCodec interface {
	Sign(principal string, expiresAt time.Time) (string, error)
	Verify(token string) (string, error)
}

// AuthService checks the single configured admin credential pair and issues
// signed session tokens.
type AuthService struct {
	codec SessionCodec
	cfg   config.SecurityConfig
	log   zerolog.Logger
	now   func() time.Time
}

func NewAuthService(codec SessionCodec, cfg config.SecurityConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		codec: codec,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

type LoginResult struct {
	Token     string
	Principal string
	ExpiresAt time.Time
}

func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if !s.checkCredentials(username, password) {
		s.log.Warn().Str("username", username).Msg("admin login rejected")
		return LoginResult{}, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.cfg.SessionTTL)
	token, err := s.codec.Sign(s.cfg.AdminUsername, expiresAt)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Info().Str("username", s.cfg.AdminUsername).Time("expires_at", expiresAt).Msg("admin login")

	return LoginResult{
		Token:     token,
		Principal: s.cfg.AdminUsername,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate returns the principal for a session token or
// security.ErrInvalidSession.
func (s *AuthService) Authenticate(token string) (string, error) {
	return s.codec.Verify(token)
}

func (s *AuthService) checkCredentials(username, password string) bool {
	if username == "" || password == "" {
		return false
	}
	userOK := security.ConstantTimeEqual(username, s.cfg.AdminUsername)

	var passOK bool
	if s.cfg.AdminPasswordHash != "" {
		ok, err := security.VerifyPassword(password, s.cfg.AdminPasswordHash)
		if err != nil {
			s.log.Error().Err(err).Msg("admin password hash unusable")
		}
		passOK = ok
	} else {
		passOK = security.ConstantTimeEqual(password, s.cfg.AdminPassword)
	}

	return userOK && passOK
}
