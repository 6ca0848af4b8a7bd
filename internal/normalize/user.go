package normalize

// User normalizes a user record: one canonical `id` regardless of
// whether the backend sent `id` or `_id`, a canonical `employeeId`,
// and a `leaveBalance` object defaulted to zeros when absent.
func User(in Record) Record {
	out := clone(in)
	resolve(out, in, "id", "_id")
	resolve(out, in, "employeeId", "employee_id")
	out["leaveBalance"] = leaveBalance(in)
	return out
}

// Employee normalizes an employee record. Identical to User except the
// backend's `_id` takes priority over `id` for employees.
func Employee(in Record) Record {
	out := clone(in)
	resolveAs(out, in, "id", "_id", "id")
	resolve(out, in, "employeeId", "employee_id")
	out["leaveBalance"] = leaveBalance(in)
	return out
}

// leaveBalance keeps an existing balance object or assembles one from
// the backend's flat per-type fields, each defaulting to 0.
func leaveBalance(in Record) any {
	if v, ok := firstOf(in, "leaveBalance"); ok {
		return v
	}
	return Record{
		"annual":   numberOrZero(in, "annual_leave"),
		"sick":     numberOrZero(in, "sick_leave"),
		"personal": numberOrZero(in, "personal_leave"),
	}
}
