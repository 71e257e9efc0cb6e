package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"vastusite/internal/config"
	"vastusite/internal/security"
)

func newAuthService(t *testing.T, mutate func(*config.SecurityConfig)) *AuthService {
	t.Helper()
	cfg := config.SecurityConfig{
		AdminUsername: "admin",
		AdminPassword: "vastu-pass",
		SessionSecret: strings.Repeat("s", 32),
		SessionTTL:    24 * time.Hour,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	codec, err := security.NewSessionCodec(cfg.SessionSecret)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return NewAuthService(codec, cfg, zerolog.Nop())
}

func TestLoginIssuesVerifiableSession(t *testing.T) {
	svc := newAuthService(t, nil)

	res, err := svc.Login(context.Background(), "admin", "vastu-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Principal != "admin" {
		t.Fatalf("principal = %q", res.Principal)
	}
	if d := time.Until(res.ExpiresAt); d < 23*time.Hour || d > 25*time.Hour {
		t.Fatalf("expiry %v not ~24h away", res.ExpiresAt)
	}

	principal, err := svc.Authenticate(res.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal != "admin" {
		t.Fatalf("principal = %q", principal)
	}
}

func TestLoginRejectsOtherCredentials(t *testing.T) {
	svc := newAuthService(t, nil)

	pairs := [][2]string{
		{"admin", "wrong"},
		{"Admin", "vastu-pass"},
		{"root", "vastu-pass"},
		{"", ""},
		{"admin", ""},
		{"", "vastu-pass"},
	}
	for _, p := range pairs {
		res, err := svc.Login(context.Background(), p[0], p[1])
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("login(%q,%q): expected ErrInvalidCredentials, got %v", p[0], p[1], err)
		}
		if res.Token != "" {
			t.Fatalf("login(%q,%q) returned a token", p[0], p[1])
		}
	}
}

func TestLoginWithPasswordHash(t *testing.T) {
	hash, err := security.HashPasswordWithParams("hashed-pass", security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	svc := newAuthService(t, func(c *config.SecurityConfig) {
		c.AdminPassword = ""
		c.AdminPasswordHash = hash
	})

	if _, err := svc.Login(context.Background(), "admin", "hashed-pass"); err != nil {
		t.Fatalf("login with hash: %v", err)
	}
	if _, err := svc.Login(context.Background(), "admin", "vastu-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, nil)
	if _, err := svc.Authenticate("garbage"); !errors.Is(err, security.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
