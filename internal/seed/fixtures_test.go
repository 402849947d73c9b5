package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"casedesk/internal/domain"
	"casedesk/internal/repository/memory"
)

func TestLoadFile_DevFixtures(t *testing.T) {
	fx, err := LoadFile("../../fixtures/dev.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(fx.Staff) == 0 || len(fx.Cases) == 0 {
		t.Fatalf("fixtures are empty: %+v", fx)
	}
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "staff: ["},
		{"unknown role", "staff:\n  - {id: a, display_name: A, role: judge}\n"},
		{"duplicate staff", "staff:\n  - {id: a, display_name: A, role: lawyer}\n  - {id: a, display_name: B, role: lawyer}\n"},
		{"unknown member", "staff:\n  - {id: a, display_name: A, role: lawyer}\ncases:\n  - {id: c1, title: C, members: [b]}\n"},
		{"bad colour", "cases:\n  - id: c1\n    title: C\n    folders: [{name: F, color: magenta}]\n"},
		{"case without title", "cases:\n  - {id: c1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() expected error")
			}
		})
	}
}

func TestSeeder_Apply(t *testing.T) {
	ctx := context.Background()
	fx, err := Parse([]byte(`
staff:
  - {id: ana, display_name: Ana, role: lawyer}
  - {id: old, display_name: Old, role: assistant, active: false}
cases:
  - id: c1
    title: Ruiz c/ Gomez
    members: [ana]
    folders:
      - {name: Escritos, color: blue}
`))
	if err != nil {
		t.Fatal(err)
	}

	store := memory.NewStore()
	repos := store.Repositories()
	seeder := NewSeeder(store, repos.Folders, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// twice: the second run must be a no-op
	for i := 0; i < 2; i++ {
		if err := seeder.Apply(ctx, fx); err != nil {
			t.Fatalf("Apply() run %d error = %v", i+1, err)
		}
	}

	ana, err := repos.Staff.GetByID(ctx, "ana")
	if err != nil || !ana.Active {
		t.Errorf("ana = %+v, err %v", ana, err)
	}
	old, err := repos.Staff.GetByID(ctx, "old")
	if err != nil || old.Active {
		t.Errorf("old = %+v, err %v", old, err)
	}
	if ok, _ := repos.Cases.IsMember(ctx, "c1", "ana"); !ok {
		t.Error("ana should be a member of c1")
	}
	folders, err := repos.Folders.ListByCase(ctx, "c1")
	if err != nil || len(folders) != 1 {
		t.Errorf("folders = %+v, err %v", folders, err)
	}
	if _, err := repos.Cases.GetByID(ctx, "c2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown case error = %v", err)
	}
}
