package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"vastusite/internal/middleware"
)

// The admin pages are bare shells; the lead table and login form are driven by
// client-side code against the JSON API.
var adminPage = template.Must(template.New("admin").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body data-page="{{.Page}}"{{if .Principal}} data-principal="{{.Principal}}"{{end}}{{if .Next}} data-next="{{.Next}}"{{end}}>
<main id="app"></main>
</body>
</html>
`))

type adminPageData struct {
	Title     string
	Page      string
	Principal string
	Next      string
}

func (h HandlerSet) AdminLoginPage(c *gin.Context) {
	h.renderAdmin(c, adminPageData{Title: "Admin Login", Page: "login", Next: c.Query("next")})
}

func (h HandlerSet) AdminDashboardPage(c *gin.Context) {
	principal, _ := middleware.Principal(c)
	h.renderAdmin(c, adminPageData{Title: "Admin", Page: "dashboard", Principal: principal})
}

func (h HandlerSet) AdminLeadsPage(c *gin.Context) {
	principal, _ := middleware.Principal(c)
	h.renderAdmin(c, adminPageData{Title: "Leads", Page: "leads", Principal: principal})
}

func (h HandlerSet) renderAdmin(c *gin.Context, data adminPageData) {
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := adminPage.Execute(c.Writer, data); err != nil {
		h.log.Error().Err(err).Str("page", data.Page).Msg("render admin page")
	}
}
