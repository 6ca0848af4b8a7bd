package normalize

import (
	"reflect"
	"testing"
)

func TestCollection(t *testing.T) {
	upper := func(r Record) Record {
		out := clone(r)
		out["seen"] = true
		return out
	}

	t.Run("array applies element-wise", func(t *testing.T) {
		got := Collection([]any{Record{"id": "a"}, "not an object"}, upper)
		arr, ok := got.([]any)
		if !ok {
			t.Fatalf("got %T, want []any", got)
		}
		if arr[0].(Record)["seen"] != true {
			t.Error("record element was not normalized")
		}
		if arr[1] != "not an object" {
			t.Errorf("non-object element changed: %v", arr[1])
		}
	})

	t.Run("single object normalized", func(t *testing.T) {
		got := Collection(Record{"id": "a"}, upper)
		if got.(Record)["seen"] != true {
			t.Error("single record was not normalized")
		}
	})

	t.Run("other shapes pass through", func(t *testing.T) {
		for _, v := range []any{"text", float64(3), true, nil} {
			if got := Collection(v, upper); !reflect.DeepEqual(got, v) {
				t.Errorf("Collection(%v) = %v, want unchanged", v, got)
			}
		}
	})
}

func TestItems(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"envelope unwrapped", Record{"items": []any{"a", "b"}}, []any{"a", "b"}},
		{"bare array untouched", []any{"a"}, []any{"a"}},
		{"object without items untouched", Record{"total": float64(2)}, Record{"total": float64(2)}},
		{"non-array items untouched", Record{"items": "nope"}, Record{"items": "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Items(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Items() = %v, want %v", got, tt.want)
			}
		})
	}
}
