package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Cookie names the browser presents for navigation gating.
const (
	TokenCookie = "token"
	RoleCookie  = "role"
)

// Dashboard and login paths the guard redirects to.
const (
	LoginPath             = "/login"
	AdminDashboardPath    = "/admin/dashboard"
	EmployeeDashboardPath = "/employee/dashboard"
)

// publicPaths are reachable without a credential.
var publicPaths = map[string]bool{
	"/":               true,
	"/login":          true,
	"/admin/login":    true,
	"/employee/login": true,
}

// RouteGuard gates navigation between public and protected pages:
// a signed-in user landing on a public page is sent to their
// dashboard, an anonymous user on a protected page is sent to login.
// API and infrastructure paths are left alone; the backend's 401/403
// is authoritative there. The guard never validates the token itself.
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if strings.HasPrefix(path, "/api/") || path == "/health" || path == "/ready" {
			c.Next()
			return
		}

		token := guardToken(c)

		if publicPaths[path] {
			if token != "" {
				target := EmployeeDashboardPath
				if role, err := c.Cookie(RoleCookie); err == nil && role == "admin" {
					target = AdminDashboardPath
				}
				if path != target {
					c.Redirect(http.StatusFound, target)
					c.Abort()
					return
				}
			}
			c.Next()
			return
		}

		if token == "" && path != LoginPath {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		c.Next()
	}
}

// guardToken reads the credential the same way the proxy does: the
// token cookie, or a bearer Authorization header.
func guardToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	if auth := c.GetHeader("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
