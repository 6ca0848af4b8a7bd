package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// UnknownUser is the display name used when no user field resolves.
const UnknownUser = "Unknown User"

var timestampAliases = []string{"timestamp", "created_at"}

var leaveTypeTag = regexp.MustCompile(`LeaveType\.\w+`)

// AuditLog normalizes an audit log entry into the fixed shape the
// portal renders: structured details (recovered from a JSON-encoded
// string when necessary), a resolved display name, and canonical
// timestamp and address keys.
func AuditLog(in Record) Record {
	details := auditDetails(in["details"])
	userName, userEmail := auditUser(in)

	out := Record{
		"userName":  userName,
		"userEmail": userEmail,
		"action":    in["action"],
		"details":   details,
	}
	resolve(out, in, "id")
	if v, ok := firstOf(in, "userId", "user_id"); ok {
		out["userId"] = v
	} else if user, isObject := asRecord(in["user"]); isObject {
		if v, ok := firstOf(user, "id", "_id"); ok {
			out["userId"] = v
		}
	}
	if _, ok := out["userId"]; !ok {
		if v, ok := firstOf(in, "employee_id"); ok {
			out["userId"] = v
		}
	}
	if user, ok := in["user"]; ok {
		out["user"] = user
	}
	resolve(out, in, timestampAliases...)
	resolve(out, in, "ipAddress", "ip_address")
	out["description"] = auditDescription(in, details, userName)

	return out
}

// auditDetails returns the entry's details as a structured record.
// A JSON-encoded string is parsed; a parse failure or a missing field
// yields an empty record rather than an error. Keys are collapsed to
// their canonical camelCase names.
func auditDetails(v any) Record {
	var raw Record
	switch t := v.(type) {
	case Record:
		raw = t
	case string:
		if err := json.Unmarshal([]byte(t), &raw); err != nil {
			return Record{}
		}
	default:
		return Record{}
	}
	if raw == nil {
		return Record{}
	}

	out := Record{}
	resolve(out, raw, "leaveRequestId", "leave_request_id")
	resolve(out, raw, "leaveType", "leave_type")
	resolve(out, raw, "startDate", "start_date")
	resolve(out, raw, "endDate", "end_date")
	resolve(out, raw, "previousStatus", "previous_status")
	resolve(out, raw, "newStatus", "new_status")
	resolve(out, raw, "comment", "admin_comment")
	resolve(out, raw, "employeeId", "employee_id")
	resolve(out, raw, "duration")
	return out
}

// auditUser resolves the acting user's display name and email. The
// backend sends a nested user, a nested employee, or flat fields in
// either case convention.
func auditUser(in Record) (string, string) {
	if user, ok := asRecord(in["user"]); ok {
		if name, ok := asString(user["name"]); ok && name != "" {
			email, _ := asString(user["email"])
			return name, email
		}
	}
	if name, ok := asString(in["user_name"]); ok && name != "" {
		email, _ := asString(in["user_email"])
		return name, email
	}
	if name, ok := asString(in["userName"]); ok && name != "" {
		email, _ := asString(in["userEmail"])
		return name, email
	}
	if employee, ok := asRecord(in["employee"]); ok {
		if name, ok := asString(employee["name"]); ok && name != "" {
			email, _ := asString(employee["email"])
			return name, email
		}
	}
	if name, ok := asString(in["employee_name"]); ok && name != "" {
		email, _ := asString(in["employee_email"])
		return name, email
	}
	return UnknownUser, ""
}

// auditDescription cleans up the backend's description text: raw enum
// tags like "LeaveType.SICK" become "SICK", and the acting user is
// named when the backend left them out.
func auditDescription(in, details Record, userName string) any {
	description, ok := asString(in["description"])
	if !ok || description == "" {
		return in["description"]
	}
	leaveType, ok := asString(details["leaveType"])
	if !ok || leaveType == "" {
		return description
	}

	leaveType = strings.Replace(leaveType, "LeaveType.", "", 1)
	description = leaveTypeTag.ReplaceAllString(description, leaveType)

	if !strings.Contains(description, userName) && userName != UnknownUser {
		action, _ := asString(in["action"])
		switch action {
		case "leave_requested":
			description = fmt.Sprintf("%s submitted %s leave request", userName, leaveType)
		case "leave_approved":
			description = strings.Replace(description, "Approved leave request", "Approved "+leaveType+" leave request", 1)
		case "leave_rejected":
			description = strings.Replace(description, "Rejected leave request", "Rejected "+leaveType+" leave request", 1)
		}
	}

	return description
}

// SortAuditLogs orders normalized audit logs by timestamp, latest
// first. Unparsable timestamps sort oldest.
func SortAuditLogs(items []any) {
	sort.SliceStable(items, func(i, j int) bool {
		a, aOK := asRecord(items[i])
		b, bOK := asRecord(items[j])
		if !aOK || !bOK {
			return aOK && !bOK
		}
		return activityTime(a, timestampAliases...).After(activityTime(b, timestampAliases...))
	})
}
