package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func guardRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RouteGuard())
	router.NoRoute(func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func guardRequest(path string, cookies map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	return req
}

func TestRouteGuard(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		cookies      map[string]string
		wantStatus   int
		wantLocation string
	}{
		{
			name:       "anonymous user on a public page",
			path:       "/login",
			wantStatus: http.StatusOK,
		},
		{
			name:         "anonymous user on a protected page",
			path:         "/employee/dashboard",
			wantStatus:   http.StatusFound,
			wantLocation: LoginPath,
		},
		{
			name:         "signed-in employee on the login page",
			path:         "/login",
			cookies:      map[string]string{TokenCookie: "tok", RoleCookie: "employee"},
			wantStatus:   http.StatusFound,
			wantLocation: EmployeeDashboardPath,
		},
		{
			name:         "signed-in admin on the login page",
			path:         "/admin/login",
			cookies:      map[string]string{TokenCookie: "tok", RoleCookie: "admin"},
			wantStatus:   http.StatusFound,
			wantLocation: AdminDashboardPath,
		},
		{
			name:         "signed-in user on the landing page",
			path:         "/",
			cookies:      map[string]string{TokenCookie: "tok"},
			wantStatus:   http.StatusFound,
			wantLocation: EmployeeDashboardPath,
		},
		{
			name:       "signed-in user on a protected page",
			path:       "/employee/dashboard",
			cookies:    map[string]string{TokenCookie: "tok"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "api paths skip the guard",
			path:       "/api/leaves",
			wantStatus: http.StatusOK,
		},
		{
			name:       "health probe skips the guard",
			path:       "/health",
			wantStatus: http.StatusOK,
		},
	}

	router := guardRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, guardRequest(tt.path, tt.cookies))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if got := w.Header().Get("Location"); got != tt.wantLocation {
					t.Errorf("Location = %q, want %q", got, tt.wantLocation)
				}
			}
		})
	}
}

func TestGuardTokenFromBearerHeader(t *testing.T) {
	router := guardRouter()

	req := httptest.NewRequest(http.MethodGet, "/employee/dashboard", nil)
	req.Header.Set("Authorization", "Bearer tok")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
