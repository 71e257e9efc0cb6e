package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"vastusite/internal/security"
)

const (
	testCookie = "admin_session"
	testSecret = "0123456789abcdef0123456789abcdef"
)

type panickingVerifier struct{}

func (panickingVerifier) Verify(string) (string, error) { panic("boom") }

func newGateEngine(verifier SessionVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Gate(verifier, testCookie))

	ok := func(c *gin.Context) {
		principal, _ := Principal(c)
		c.String(http.StatusOK, "ok:"+principal)
	}
	r.GET("/admin/login", ok)
	r.GET("/admin", ok)
	r.GET("/admin/leads", ok)
	r.GET("/api/leads", ok)
	r.POST("/api/leads", ok)
	r.PATCH("/api/leads", ok)
	r.DELETE("/api/leads", ok)
	r.GET("/pricing", ok)
	return r
}

func do(r http.Handler, method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestClassify(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   Rule
	}{
		{http.MethodGet, "/admin/login", RuleForward},
		{http.MethodPost, "/admin/login", RuleForward},
		{http.MethodGet, "/admin", RuleAdminPage},
		{http.MethodGet, "/admin/", RuleAdminPage},
		{http.MethodGet, "/admin/leads", RuleAdminPage},
		{http.MethodGet, "/admin/login/../leads", RuleAdminPage},
		{http.MethodGet, "/administrator", RuleForward},
		{http.MethodGet, "/api/leads", RuleLeadsAPI},
		{http.MethodPatch, "/api/leads", RuleLeadsAPI},
		{http.MethodDelete, "/api/leads", RuleLeadsAPI},
		{http.MethodGet, "/api/leads/export", RuleLeadsAPI},
		{http.MethodPost, "/api/leads", RuleForward},
		{http.MethodGet, "/api/leadsx", RuleForward},
		{http.MethodPost, "/api/auth/login", RuleForward},
		{http.MethodGet, "/", RuleForward},
	}
	for _, tt := range tests {
		if got := Classify(tt.method, tt.path); got != tt.want {
			t.Errorf("Classify(%s %s) = %v, want %v", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestGateAdminPages(t *testing.T) {
	codec, err := security.NewSessionCodec(testSecret)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	r := newGateEngine(codec)

	valid, _ := codec.Sign("admin", time.Now().Add(time.Hour))
	expired, _ := codec.Sign("admin", time.Now().Add(-time.Minute))
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	if w := do(r, http.MethodGet, "/admin/login", nil); w.Code != http.StatusOK {
		t.Fatalf("login page must never be gated, got %d", w.Code)
	}

	for name, cookie := range map[string]*http.Cookie{
		"no cookie": nil,
		"expired":   {Name: testCookie, Value: expired},
		"tampered":  {Name: testCookie, Value: tampered},
		"empty":     {Name: testCookie, Value: ""},
	} {
		t.Run(name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/admin/leads", cookie)
			if w.Code != http.StatusFound {
				t.Fatalf("status = %d, want 302", w.Code)
			}
			loc := w.Header().Get("Location")
			if !strings.HasPrefix(loc, LoginPath) {
				t.Fatalf("redirect to %q, want login page", loc)
			}
			if strings.Contains(w.Body.String(), "ok:") {
				t.Fatalf("handler ran for unauthenticated request")
			}
		})
	}

	w := do(r, http.MethodGet, "/admin/leads", &http.Cookie{Name: testCookie, Value: valid})
	if w.Code != http.StatusOK || w.Body.String() != "ok:admin" {
		t.Fatalf("valid session: status=%d body=%q", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/admin", nil)
	if loc := w.Header().Get("Location"); loc != LoginPath {
		t.Fatalf("redirect from /admin = %q", loc)
	}
	w = do(r, http.MethodGet, "/admin/leads", nil)
	if loc := w.Header().Get("Location"); loc != LoginPath+"?next=%2Fadmin%2Fleads" {
		t.Fatalf("redirect from /admin/leads = %q", loc)
	}
}

func TestGateLeadsAPI(t *testing.T) {
	codec, _ := security.NewSessionCodec(testSecret)
	r := newGateEngine(codec)
	valid, _ := codec.Sign("admin", time.Now().Add(time.Hour))
	expired, _ := codec.Sign("admin", time.Now().Add(-time.Minute))

	if w := do(r, http.MethodPost, "/api/leads", nil); w.Code != http.StatusOK {
		t.Fatalf("lead capture must be public, got %d", w.Code)
	}

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		w := do(r, method, "/api/leads", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s without cookie: status = %d", method, w.Code)
		}
		if !strings.Contains(w.Body.String(), `"error":"Unauthorized"`) {
			t.Fatalf("%s without cookie: body = %s", method, w.Body.String())
		}

		w = do(r, method, "/api/leads", &http.Cookie{Name: testCookie, Value: expired})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s with expired cookie: status = %d", method, w.Code)
		}

		w = do(r, method, "/api/leads", &http.Cookie{Name: testCookie, Value: valid})
		if w.Code != http.StatusOK {
			t.Fatalf("%s with valid cookie: status = %d", method, w.Code)
		}
	}
}

func TestGateForwardsOtherPaths(t *testing.T) {
	r := newGateEngine(panickingVerifier{})
	if w := do(r, http.MethodGet, "/pricing", nil); w.Code != http.StatusOK {
		t.Fatalf("public path status = %d", w.Code)
	}
}

func TestGateFailsClosedOnVerifierPanic(t *testing.T) {
	r := newGateEngine(panickingVerifier{})
	w := do(r, http.MethodGet, "/api/leads", &http.Cookie{Name: testCookie, Value: "x"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
