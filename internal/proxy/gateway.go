// Package proxy is the boundary between the portal UI and the leave
// backend. Every endpoint follows the same contract: attach the
// caller's credential, forward verbatim, normalize the response where
// the resource calls for it, and fold transport failures into one
// uniform error envelope. Authentication is never enforced here; the
// backend's own 401/403 decides.
package proxy

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/leavehub/portal-gateway/internal/normalize"
	"github.com/leavehub/portal-gateway/internal/session"
	"github.com/leavehub/portal-gateway/internal/token"
	"github.com/leavehub/portal-gateway/pkg/logger"
	"github.com/leavehub/portal-gateway/pkg/response"
	"github.com/leavehub/portal-gateway/pkg/telemetry"
)

// TokenCookie is the cookie carrying the credential when no
// Authorization header is present.
const TokenCookie = "token"

// Config holds gateway configuration.
type Config struct {
	BackendURL     string
	DefaultTimeout time.Duration
	Routes         []Route
}

// Gateway forwards portal requests to the backend.
type Gateway struct {
	config Config
	client *http.Client
	store  session.Store
	log    *logger.Logger
}

// New creates a gateway with a tuned transport. The store may be nil;
// sessions are then neither captured on login nor used as a
// credential fallback.
func New(cfg Config, store session.Store, log *logger.Logger) *Gateway {
	if cfg.DefaultTimeout == 0 {
		cfg.DefaultTimeout = 30 * time.Second
	}
	if len(cfg.Routes) == 0 {
		cfg.Routes = DefaultRoutes()
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &Gateway{
		config: cfg,
		client: &http.Client{Transport: transport},
		store:  store,
		log:    log,
	}
}

// findRoute finds the matching route for a request.
func (g *Gateway) findRoute(path, method string) *Route {
	for i := range g.config.Routes {
		route := &g.config.Routes[i]
		if route.Exact {
			if path != route.Prefix {
				continue
			}
		} else if !strings.HasPrefix(path, route.Prefix) {
			continue
		}
		if len(route.Methods) > 0 {
			allowed := false
			for _, m := range route.Methods {
				if strings.EqualFold(m, method) {
					allowed = true
					break
				}
			}
			if !allowed {
				continue
			}
		}
		return route
	}
	return nil
}

// Handler returns the Gin handler serving every proxied route.
func (g *Gateway) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "gateway.proxy")
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.path", c.Request.URL.Path),
		)

		route := g.findRoute(c.Request.URL.Path, c.Request.Method)
		if route == nil {
			span.SetStatus(codes.Error, "no route configured for this path")
			response.NotFound(c, "Not found")
			return
		}
		span.SetAttributes(attribute.String("target.path", route.BackendPath))

		timeout := route.Timeout
		if timeout == 0 {
			timeout = g.config.DefaultTimeout
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		target := g.targetURL(route, c)

		var body io.Reader
		if hasBody(c.Request.Method) {
			body = c.Request.Body
		}

		req, err := http.NewRequestWithContext(ctx, c.Request.Method, target, body)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			response.BackendUnreachable(c, err)
			return
		}
		if auth := g.credential(ctx, c); auth != "" {
			req.Header.Set("Authorization", auth)
		}
		if hasBody(c.Request.Method) {
			ct := c.ContentType()
			if ct == "" {
				ct = "application/json"
			}
			req.Header.Set("Content-Type", ct)
		}

		resp, err := g.client.Do(req)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			g.log.Error("Backend request failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.BackendUnreachable(c, err)
			return
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			response.BackendUnreachable(c, err)
			return
		}

		if route.NoStore {
			noStore(c)
		}

		// Non-2xx bodies pass through untouched; the backend's own
		// rejection decides the caller's response code. 401/403 are
		// expected when not authenticated and are not logged.
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
				g.log.Warn("Backend error",
					zap.String("path", c.Request.URL.Path),
					zap.Int("status", resp.StatusCode),
				)
			}
			c.Data(resp.StatusCode, contentType(resp), raw)
			return
		}

		// A 2xx with an unparsable body is a backend fault on every
		// route, passthrough included. Status-only responses with an
		// empty body are allowed through.
		if len(raw) > 0 && !json.Valid(raw) {
			span.SetStatus(codes.Error, "invalid backend response")
			g.log.Error("Failed to parse backend response",
				zap.String("path", c.Request.URL.Path),
			)
			response.InvalidBackendResponse(c)
			return
		}

		g.trackSession(ctx, route, raw)

		if route.Transform == nil || c.Request.Method != http.MethodGet {
			c.Data(resp.StatusCode, contentType(resp), raw)
			return
		}

		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			span.SetStatus(codes.Error, "invalid backend response")
			g.log.Error("Failed to parse backend response",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.InvalidBackendResponse(c)
			return
		}

		c.JSON(resp.StatusCode, route.Transform(data))
	}
}

// targetURL builds the backend URL: the route target plus any
// remaining sub-path, with the original query string appended
// verbatim unless the route rewrites it.
func (g *Gateway) targetURL(route *Route, c *gin.Context) string {
	path := route.BackendPath
	if !route.Exact {
		path += strings.TrimPrefix(c.Request.URL.Path, route.Prefix)
	}

	query := c.Request.URL.RawQuery
	if route.RewriteQuery != nil {
		query = route.RewriteQuery(query)
	}

	target := g.config.BackendURL + path
	if query != "" {
		target += "?" + query
	}
	return target
}

// credential extracts the caller's credential: the Authorization
// header, the token cookie presented as a bearer token, or the stored
// session. Absent credentials stay absent; the backend's rejection
// decides the response.
func (g *Gateway) credential(ctx context.Context, c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return auth
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return "Bearer " + cookie
	}
	if g.store != nil {
		if sess, err := g.store.Get(ctx); err == nil && sess.Token != "" {
			return "Bearer " + sess.Token
		}
	}
	return ""
}

// trackSession keeps the session store in step with the auth
// endpoints: a successful login captures the token and profile, a
// logout clears them. Store failures are logged, never surfaced.
func (g *Gateway) trackSession(ctx context.Context, route *Route, raw []byte) {
	if g.store == nil {
		return
	}

	switch route.Prefix {
	case "/api/auth/login":
		sess, ok := sessionFromLogin(raw)
		if !ok {
			return
		}
		if err := g.store.Set(ctx, sess); err != nil {
			g.log.Warn("Failed to store session", zap.Error(err))
		}
	case "/api/auth/logout":
		if err := g.store.Clear(ctx); err != nil {
			g.log.Warn("Failed to clear session", zap.Error(err))
		}
	}
}

// sessionFromLogin builds a session from the backend's login response.
// The backend sends the credential as either `token` or `access_token`
// and a user object with the usual id aliasing.
func sessionFromLogin(raw []byte) (*session.Session, bool) {
	var body normalize.Record
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, false
	}

	tok, _ := body["token"].(string)
	if tok == "" {
		tok, _ = body["access_token"].(string)
	}
	if tok == "" {
		return nil, false
	}

	sess := &session.Session{
		Token:    tok,
		IssuedAt: time.Now(),
	}
	if exp, err := token.ExpiresAt(tok); err == nil {
		sess.ExpiresAt = exp
	}

	if user, ok := body["user"].(map[string]any); ok {
		u := normalize.User(user)
		sess.User = session.Profile{
			ID:    stringField(u, "id"),
			Name:  stringField(u, "name"),
			Email: stringField(u, "email"),
			Role:  stringField(u, "role"),
		}
	}
	return sess, true
}

func stringField(r normalize.Record, key string) string {
	s, _ := r[key].(string)
	return s
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func contentType(resp *http.Response) string {
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/json"
}

// noStore disables every caching layer for this response.
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}
