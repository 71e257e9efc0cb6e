package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, int(h.cfg.Security.SessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// Session reports whether the caller holds a valid session cookie. It never
// fails; an absent or invalid cookie is simply unauthenticated.
func (h HandlerSet) Session(c *gin.Context) {
	token, err := c.Cookie(h.cfg.Security.SessionCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, sessionResponse{})
		return
	}

	principal, err := h.authService.Authenticate(token)
	if err != nil {
		c.JSON(http.StatusOK, sessionResponse{})
		return
	}

	c.JSON(http.StatusOK, sessionResponse{Authenticated: true, Username: principal})
}

func (h HandlerSet) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Security.SessionCookie, value, maxAge, "/", "", h.cfg.IsProduction(), true)
}
