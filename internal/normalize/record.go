// Package normalize rewrites the backend's inconsistent response shapes
// into the canonical records the portal works with. The backend mixes
// snake_case and camelCase keys, `id` and `_id`, flat and nested user
// objects; every function here resolves those through ordered alias
// lists where the first present value wins. The canonical key is always
// the first alias, so normalizing already-normalized data is a no-op.
package normalize

import "time"

// Record is a decoded JSON object.
type Record = map[string]any

// firstOf returns the first non-nil value among the given aliases.
func firstOf(r Record, aliases ...string) (any, bool) {
	for _, key := range aliases {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// resolveAs collapses the aliases into the single canonical key: the
// first present alias value wins, the remaining alias keys are removed.
// Absent fields are left unset.
func resolveAs(out, in Record, canonical string, aliases ...string) {
	if v, ok := firstOf(in, aliases...); ok {
		out[canonical] = v
	}
	for _, a := range aliases {
		if a != canonical {
			delete(out, a)
		}
	}
}

// resolve is resolveAs with the first alias as the canonical key.
func resolve(out, in Record, aliases ...string) {
	resolveAs(out, in, aliases[0], aliases...)
}

// clone makes a shallow copy so normalization never mutates its input.
func clone(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// asRecord returns v as a Record when it is a JSON object.
func asRecord(v any) (Record, bool) {
	r, ok := v.(Record)
	return r, ok
}

// asString returns v as a string when it is one.
func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// numberOrZero returns a numeric field as float64, 0 when absent or
// not a number. JSON numbers decode as float64.
func numberOrZero(r Record, key string) float64 {
	if v, ok := r[key]; ok {
		if n, ok := v.(float64); ok {
			return n
		}
	}
	return 0
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime parses the timestamp formats the backend emits. The zero
// time is returned for anything unparsable, which sorts as oldest.
func parseTime(v any) time.Time {
	s, ok := asString(v)
	if !ok {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// activityTime resolves a record's most-recent-activity timestamp
// through the given alias priority list.
func activityTime(r Record, aliases ...string) time.Time {
	v, ok := firstOf(r, aliases...)
	if !ok {
		return time.Time{}
	}
	return parseTime(v)
}
