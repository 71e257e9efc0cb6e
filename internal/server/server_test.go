package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vastusite/internal/config"
	"vastusite/internal/handlers"
	"vastusite/internal/repository"
	"vastusite/internal/security"
)

func newTestServer(t *testing.T) (*HTTPServer, *security.SessionCodec) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			AdminUsername:    "admin",
			AdminPassword:    "pw",
			SessionSecret:    strings.Repeat("z", 32),
			SessionTTL:       time.Hour,
			SessionCookie:    "admin_session",
			PaymentKeySecret: "pay",
		},
		Leads: config.LeadsConfig{DataDir: t.TempDir(), FileName: "leads.json"},
	}
	codec, err := security.NewSessionCodec(cfg.Security.SessionSecret)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	repo := repository.NewLeadRepository(cfg.Leads.DataDir, cfg.Leads.FileName)
	set := handlers.NewHandlerSet(zerolog.Nop(), cfg, codec, repo, nil)
	return NewHTTPServer(cfg, zerolog.Nop(), set, codec), codec
}

func TestUnknownAdminPathIsGated(t *testing.T) {
	srv, codec := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/settings", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want redirect", w.Code)
	}

	token, _ := codec.Sign("admin", time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
	req.AddCookie(&http.Cookie{Name: "admin_session", Value: token})
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("authenticated unknown page status = %d", w.Code)
	}
}

func TestHealthWithoutRedis(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"cache":"disabled"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestPublicCaptureWithoutRedis(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(`{"name":"Asha","phone":"1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Request-Id"); got == "" {
		t.Fatalf("missing request id header")
	}
}
