package normalize

import "sort"

// appliedAtAliases is the resolution order for a leave request's
// most-recent-activity timestamp. Changing this order changes the
// default list ordering users see.
var appliedAtAliases = []string{"appliedAt", "applied_at", "createdAt", "created_at"}

// LeaveRequest normalizes a leave request record. The embedded user may
// arrive as a full object or a bare identifier; objects are normalized
// recursively so their own id/employeeId aliases collapse too.
func LeaveRequest(in Record) Record {
	out := clone(in)
	resolve(out, in, "id", "_id")

	if v, ok := firstOf(in, "userId", "user_id"); ok {
		if user, isObject := asRecord(v); isObject {
			out["userId"] = User(user)
		} else {
			out["userId"] = v
		}
	}
	delete(out, "user_id")

	resolve(out, in, "leaveType", "leave_type")
	resolve(out, in, "startDate", "start_date")
	resolve(out, in, "endDate", "end_date")
	resolve(out, in, "adminComments", "admin_comments")

	appliedDate := append([]string{"appliedDate", "applied_date"}, appliedAtAliases...)
	if v, ok := firstOf(in, appliedDate...); ok {
		out["appliedDate"] = v
	}
	resolve(out, in, appliedAtAliases...)
	delete(out, "applied_date")

	return out
}

// SortLeaveRequests orders normalized leave requests by applied time,
// newest first. Entries whose timestamp cannot be parsed sort oldest.
func SortLeaveRequests(items []any) {
	sort.SliceStable(items, func(i, j int) bool {
		a, aOK := asRecord(items[i])
		b, bOK := asRecord(items[j])
		if !aOK || !bOK {
			return aOK && !bOK
		}
		return activityTime(a, appliedAtAliases...).After(activityTime(b, appliedAtAliases...))
	})
}
