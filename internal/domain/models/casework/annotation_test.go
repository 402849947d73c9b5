package casework

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	def := Latest(2)
	tests := []struct {
		in      string
		want    Window
		wantErr bool
	}{
		{"", def, false},
		{"all", All(), false},
		{" ALL ", All(), false},
		{"latest", def, false},
		{"latest:5", Latest(5), false},
		{"latest:0", Window{}, true},
		{"latest:-1", Window{}, true},
		{"latest:x", Window{}, true},
		{"newest", Window{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWindow(tt.in, def)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWindow(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWindow(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWindowApply(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	thread := func() []Annotation {
		return []Annotation{
			{ID: "c", CreatedAt: base.Add(2 * time.Minute)},
			{ID: "b", CreatedAt: base},
			{ID: "a", CreatedAt: base},
			{ID: "d", CreatedAt: base.Add(3 * time.Minute)},
		}
	}

	tests := []struct {
		window Window
		want   []string
	}{
		{All(), []string{"a", "b", "c", "d"}},
		{Latest(2), []string{"c", "d"}},
		{Latest(3), []string{"b", "c", "d"}},
		{Latest(9), []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.window.String(), func(t *testing.T) {
			got := tt.window.Apply(thread())
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].ID != tt.want[i] {
					t.Errorf("[%d] = %s, want %s", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}
