package casework

import "testing"

func TestStatusNext(t *testing.T) {
	tests := []struct {
		from Status
		want Status
	}{
		{StatusPending, StatusImportant},
		{StatusImportant, StatusDone},
		{StatusDone, StatusPending},
		{"ARCHIVED", StatusPending},
		{"", StatusPending},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			if got := tt.from.Next(); got != tt.want {
				t.Errorf("%q.Next() = %q, want %q", tt.from, got, tt.want)
			}
		})
	}
}

func TestStatusNext_FullCycleReturnsToStart(t *testing.T) {
	for _, start := range []Status{StatusPending, StatusImportant, StatusDone} {
		s := start
		for i := 0; i < 3; i++ {
			s = s.Next()
		}
		if s != start {
			t.Errorf("three steps from %s ended at %s", start, s)
		}
	}
}

func TestWorkstreamValid(t *testing.T) {
	for _, w := range Workstreams {
		if !w.Valid() {
			t.Errorf("%s should be valid", w)
		}
	}
	for _, w := range []Workstream{"", "procedural", "LITIGATION"} {
		if w.Valid() {
			t.Errorf("%q should be invalid", w)
		}
	}
}

func TestColorValid(t *testing.T) {
	if !ColorIndigo.Valid() {
		t.Error("indigo should be in the palette")
	}
	if Color("magenta").Valid() {
		t.Error("magenta should not be in the palette")
	}
}

func TestStaffIdentityAssignable(t *testing.T) {
	tests := []struct {
		name string
		s    StaffIdentity
		want bool
	}{
		{"active lawyer", StaffIdentity{Role: RoleLawyer, Active: true}, true},
		{"active admin", StaffIdentity{Role: RoleAdmin, Active: true}, true},
		{"inactive paralegal", StaffIdentity{Role: RoleParalegal}, false},
		{"client", StaffIdentity{Role: RoleClient, Active: true}, false},
		{"owner", StaffIdentity{Role: RoleOwner, Active: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Assignable(); got != tt.want {
				t.Errorf("Assignable() = %v, want %v", got, tt.want)
			}
		})
	}
}
