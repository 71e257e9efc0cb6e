package middleware

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LoginPath     = "/admin/login"
	adminPrefix   = "/admin"
	leadsAPIPath  = "/api/leads"
	principalKey  = "principal"
	nextPathParam = "next"
)

type SessionVerifier interface {
	Verify(token string) (string, error)
}

type Rule int

const (
	RuleForward Rule = iota
	RuleAdminPage
	RuleLeadsAPI
)

// Classify decides which gate rule applies to a request. Rules are evaluated in
// order and the first match wins.
func Classify(method, rawPath string) Rule {
	p := cleanPath(rawPath)

	if p == LoginPath {
		return RuleForward
	}
	if p == adminPrefix || strings.HasPrefix(p, adminPrefix+"/") {
		return RuleAdminPage
	}
	if (p == leadsAPIPath || strings.HasPrefix(p, leadsAPIPath+"/")) && method != http.MethodPost {
		return RuleLeadsAPI
	}
	return RuleForward
}

// Gate guards admin pages and the privileged lead API methods with the signed
// session cookie. Pages redirect to the login page, the API answers 401.
func Gate(verifier SessionVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rule := Classify(c.Request.Method, c.Request.URL.Path)
		if rule == RuleForward {
			c.Next()
			return
		}

		principal, ok := authenticate(c, verifier, cookieName)
		if !ok {
			switch rule {
			case RuleAdminPage:
				c.Redirect(http.StatusFound, loginRedirect(c.Request.URL.Path))
				c.Abort()
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			}
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Principal returns the session principal established by Gate, if any.
func Principal(c *gin.Context) (string, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func authenticate(c *gin.Context, verifier SessionVerifier, cookieName string) (principal string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			principal, ok = "", false
		}
	}()

	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		return "", false
	}
	principal, err = verifier.Verify(token)
	if err != nil || principal == "" {
		return "", false
	}
	return principal, true
}

func loginRedirect(from string) string {
	p := cleanPath(from)
	if p == adminPrefix || p == "/" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{nextPathParam: {p}}.Encode()
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
