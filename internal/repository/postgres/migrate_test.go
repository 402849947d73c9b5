package postgres

import (
	"strings"
	"testing"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := LoadMigrations("test_")
	if err != nil {
		t.Fatalf("LoadMigrations() error = %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}

	for i, m := range migrations {
		if i > 0 && m.Version <= migrations[i-1].Version {
			t.Errorf("migration %s out of order", m.Name)
		}
		if strings.Contains(m.UpSQL, prefixPlaceholder) {
			t.Errorf("migration %s still contains the prefix placeholder", m.Name)
		}
	}

	var all strings.Builder
	for _, m := range migrations {
		all.WriteString(m.UpSQL)
	}
	for _, table := range []string{"test_tasks", "test_task_annotations", "test_task_attachments", "test_case_folders", "test_task_cycle_keys"} {
		if !strings.Contains(all.String(), table) {
			t.Errorf("no migration creates %s", table)
		}
	}
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("dev_")
	tests := []struct {
		got  string
		want string
	}{
		{tables.Tasks, "dev_tasks"},
		{tables.Annotations, "dev_task_annotations"},
		{tables.Attachments, "dev_task_attachments"},
		{tables.Folders, "dev_case_folders"},
		{tables.Staff, "dev_staff_members"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("table name = %q, want %q", tt.got, tt.want)
		}
	}
}
