package normalize

// Fn normalizes a single record.
type Fn func(Record) Record

// Collection applies fn element-wise over an array, or to a single
// object. Elements that are not objects, and inputs of any other
// shape, pass through untouched.
func Collection(data any, fn Fn) any {
	switch t := data.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			if r, ok := asRecord(item); ok {
				out[i] = fn(r)
			} else {
				out[i] = item
			}
		}
		return out
	case Record:
		return fn(t)
	default:
		return data
	}
}

// Items unwraps the backend's paginated `{items: [...]}` envelope to
// the bare array; anything else is returned as-is.
func Items(data any) any {
	if r, ok := asRecord(data); ok {
		if items, ok := r["items"].([]any); ok {
			return items
		}
	}
	return data
}
