package proxy

import (
	"strings"
	"time"

	"github.com/leavehub/portal-gateway/internal/normalize"
)

// Transform reshapes a successful backend response body before it is
// returned to the caller.
type Transform func(data any) any

// Route maps one gateway path to its backend target.
type Route struct {
	// Prefix is the gateway path that triggers this route
	Prefix string
	// Exact requires the path to equal Prefix; otherwise the suffix
	// after Prefix is appended to BackendPath
	Exact bool
	// BackendPath is the target path on the backend
	BackendPath string
	// Methods restricts which HTTP methods are allowed (empty = all)
	Methods []string
	// Transform normalizes GET response bodies, nil = passthrough
	Transform Transform
	// NoStore disables caching on the response
	NoStore bool
	// RewriteQuery adjusts the forwarded query string, nil = verbatim
	RewriteQuery func(raw string) string
	// Timeout overrides the default backend timeout
	Timeout time.Duration
}

// DefaultRoutes returns the gateway's endpoint surface. Paths mirror
// what the portal UI calls; targets mirror what the backend serves.
func DefaultRoutes() []Route {
	return []Route{
		// Auth endpoints are straight passthroughs; the backend owns
		// credential checks and the gateway never rejects on its own.
		{Prefix: "/api/auth/login", Exact: true, BackendPath: "/api/auth/login", Methods: []string{"POST"}},
		{Prefix: "/api/auth/logout", Exact: true, BackendPath: "/api/auth/logout", Methods: []string{"POST"}},
		{Prefix: "/api/auth/register", Exact: true, BackendPath: "/api/auth/register", Methods: []string{"POST"}},
		{Prefix: "/api/auth/change-password", Exact: true, BackendPath: "/api/auth/change-password", Methods: []string{"POST"}},
		{Prefix: "/api/auth/me", Exact: true, BackendPath: "/api/auth/profile", Methods: []string{"GET"}},
		{Prefix: "/api/auth/profile", Exact: true, BackendPath: "/api/auth/profile", Methods: []string{"GET", "PUT"}},

		// Leave requests: the list endpoints normalize and sort,
		// by-id operations pass through.
		{Prefix: "/api/leaves/", BackendPath: "/api/leaves/", Methods: []string{"GET", "PUT", "DELETE"}},
		{Prefix: "/api/leaves", Exact: true, BackendPath: "/api/leave/", Methods: []string{"GET", "POST"}, Transform: TransformLeaveRequests},
		{Prefix: "/api/leave/my-requests", Exact: true, BackendPath: "/api/leave/my-requests", Methods: []string{"GET"}, Transform: TransformLeaveRequests},
		{Prefix: "/api/leave/calendar/", BackendPath: "/api/leave/calendar/", Methods: []string{"GET"}},
		{Prefix: "/api/leave", Exact: true, BackendPath: "/api/leave/all-requests", Methods: []string{"GET"}},

		// Admin console: the full request list plus approve/reject on
		// a single request.
		{Prefix: "/api/admin/leaves/", BackendPath: "/api/admin/leaves/", Methods: []string{"PUT"}},
		{Prefix: "/api/admin/leaves", Exact: true, BackendPath: "/api/admin/leaves/", Methods: []string{"GET"}, Transform: TransformLeaveRequests},
		{Prefix: "/api/admin/calendar/holidays", Exact: true, BackendPath: "/api/admin/calendar/holidays", Methods: []string{"GET"}},
		{Prefix: "/api/admin/calendar", Exact: true, BackendPath: "/api/admin/calendar", Methods: []string{"GET"}},

		// Employee directory; the users endpoint serves the same
		// backend resource under the user shape.
		{Prefix: "/api/employees", Exact: true, BackendPath: "/api/admin/employees", Methods: []string{"GET", "POST"}, Transform: TransformEmployees},
		{Prefix: "/api/users", Exact: true, BackendPath: "/api/admin/employees", Methods: []string{"GET"}, Transform: TransformUsers},

		// Audit logs must always reflect current state: caching is
		// disabled and the backend's pagination envelope is unwrapped.
		{Prefix: "/api/audit-logs/reset", Exact: true, BackendPath: "/api/logs/reset", Methods: []string{"POST"}},
		{Prefix: "/api/audit-logs", Exact: true, BackendPath: "/api/logs/", Methods: []string{"GET"}, Transform: TransformAuditLogs, NoStore: true, RewriteQuery: auditLogQuery},

		{Prefix: "/api/calendar", Exact: true, BackendPath: "/api/leave/calendar/all", Methods: []string{"GET"}},
		{Prefix: "/api/holidays", Exact: true, BackendPath: "/api/holidays", Methods: []string{"GET"}},
	}
}

// TransformLeaveRequests normalizes a leave request payload and sorts
// collections by applied time, newest first.
func TransformLeaveRequests(data any) any {
	out := normalize.Collection(data, normalize.LeaveRequest)
	if items, ok := out.([]any); ok {
		normalize.SortLeaveRequests(items)
	}
	return out
}

// TransformEmployees normalizes an employee payload.
func TransformEmployees(data any) any {
	return normalize.Collection(data, normalize.Employee)
}

// TransformUsers normalizes a user payload.
func TransformUsers(data any) any {
	return normalize.Collection(data, normalize.User)
}

// TransformAuditLogs normalizes an audit log payload. The backend
// returns either a bare array or a paginated {items: [...]} envelope;
// anything else yields an empty list. Entries are sorted latest first.
func TransformAuditLogs(data any) any {
	arr, ok := data.([]any)
	if !ok {
		arr, ok = normalize.Items(data).([]any)
	}
	if !ok {
		return []any{}
	}
	out := normalize.Collection(arr, normalize.AuditLog).([]any)
	normalize.SortAuditLogs(out)
	return out
}

// auditLogQuery forces a raw (non-paginated) listing and raises the
// backend's small default page size. The caller's parameters keep
// their original order.
func auditLogQuery(raw string) string {
	parts := make([]string, 0, 4)
	hasLimit := false
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		switch key {
		case "paginated":
			continue
		case "limit":
			hasLimit = true
		}
		parts = append(parts, pair)
	}
	parts = append(parts, "paginated=false")
	if !hasLimit {
		parts = append(parts, "limit=100")
	}
	return strings.Join(parts, "&")
}
