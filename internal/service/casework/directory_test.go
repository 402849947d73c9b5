package casework

import (
	"errors"
	"testing"

	"casedesk/internal/domain"
)

func TestStaffDirectory(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		id      string
		wantErr error
	}{
		{lawyerID, nil},
		{paralegalID, nil},
		{clientID, domain.ErrNotFound},
		{ownerID, domain.ErrNotFound},
		{formerID, domain.ErrNotFound},
		{"nobody", domain.ErrNotFound},
		{"", domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := f.directory.ResolveStaff(f.ctx, tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveStaff(%q) error = %v, want %v", tt.id, err, tt.wantErr)
			}
			if tt.wantErr == nil && s.ID != tt.id {
				t.Errorf("resolved %q, want %q", s.ID, tt.id)
			}
		})
	}

	list, err := f.directory.ListAssignable(f.ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, s := range list {
		got[s.ID] = true
	}
	if len(list) != 3 || !got[lawyerID] || !got[paralegalID] || !got[outsiderID] {
		t.Errorf("assignable = %v", got)
	}
}
