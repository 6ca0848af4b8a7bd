package normalize

import (
	"reflect"
	"testing"
)

func TestUser(t *testing.T) {
	tests := []struct {
		name string
		in   Record
		want Record
	}{
		{
			name: "id preferred over _id",
			in:   Record{"id": "u1", "_id": "mongo1", "name": "Alice"},
			want: Record{
				"id": "u1", "name": "Alice",
				"leaveBalance": Record{"annual": float64(0), "sick": float64(0), "personal": float64(0)},
			},
		},
		{
			name: "falls back to _id",
			in:   Record{"_id": "mongo1"},
			want: Record{
				"id":           "mongo1",
				"leaveBalance": Record{"annual": float64(0), "sick": float64(0), "personal": float64(0)},
			},
		},
		{
			name: "employee_id collapses to employeeId",
			in:   Record{"id": "u1", "employee_id": "E1"},
			want: Record{
				"id": "u1", "employeeId": "E1",
				"leaveBalance": Record{"annual": float64(0), "sick": float64(0), "personal": float64(0)},
			},
		},
		{
			name: "employeeId wins over employee_id",
			in:   Record{"id": "u1", "employeeId": "E2", "employee_id": "E1"},
			want: Record{
				"id": "u1", "employeeId": "E2",
				"leaveBalance": Record{"annual": float64(0), "sick": float64(0), "personal": float64(0)},
			},
		},
		{
			name: "flat balance fields assemble the balance object",
			in:   Record{"id": "u1", "annual_leave": float64(10), "sick_leave": float64(5)},
			want: Record{
				"id": "u1", "annual_leave": float64(10), "sick_leave": float64(5),
				"leaveBalance": Record{"annual": float64(10), "sick": float64(5), "personal": float64(0)},
			},
		},
		{
			name: "existing balance object kept",
			in:   Record{"id": "u1", "leaveBalance": Record{"annual": float64(7)}, "annual_leave": float64(99)},
			want: Record{
				"id": "u1", "annual_leave": float64(99),
				"leaveBalance": Record{"annual": float64(7)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := User(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("User() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmployeeIDPriority(t *testing.T) {
	got := Employee(Record{"id": "pg1", "_id": "mongo1"})
	if got["id"] != "mongo1" {
		t.Errorf("Employee id = %v, want mongo1", got["id"])
	}
	if _, ok := got["_id"]; ok {
		t.Error("Employee left _id in the output")
	}
}

func TestUserDoesNotMutateInput(t *testing.T) {
	in := Record{"_id": "mongo1"}
	User(in)
	if _, ok := in["id"]; ok {
		t.Error("input record was mutated")
	}
}

func TestUserIdempotent(t *testing.T) {
	in := Record{
		"_id": "mongo1", "employee_id": "E1",
		"annual_leave": float64(12), "sick_leave": float64(6), "personal_leave": float64(3),
	}
	once := User(in)
	twice := User(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalizing twice changed the record: %v vs %v", once, twice)
	}
}

func TestEmployeeIdempotent(t *testing.T) {
	once := Employee(Record{"_id": "mongo1", "id": "pg1"})
	twice := Employee(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalizing twice changed the record: %v vs %v", once, twice)
	}
}
