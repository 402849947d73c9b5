package casework

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Annotation is one dated remark on a task. Only its author may change it.
type Annotation struct {
	ID                string    `json:"id" db:"id"`
	TaskID            string    `json:"task_id" db:"task_id"`
	AuthorID          string    `json:"author_id" db:"author_id"`
	AuthorDisplayName string    `json:"author_display_name" db:"author_display_name"`
	Text              string    `json:"text" db:"text"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	Edited            bool      `json:"edited" db:"edited"`
}

// Window caps how many annotations a read returns. The zero value means All.
type Window struct {
	Latest int
}

// All returns every annotation.
func All() Window { return Window{} }

// Latest returns the n most recent annotations.
func Latest(n int) Window { return Window{Latest: n} }

// IsAll reports whether the window is unbounded.
func (w Window) IsAll() bool { return w.Latest <= 0 }

func (w Window) String() string {
	if w.IsAll() {
		return "all"
	}
	return "latest:" + strconv.Itoa(w.Latest)
}

// ParseWindow parses "all", "latest" or "latest:N". An empty string yields def.
func ParseWindow(s string, def Window) (Window, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "":
		return def, nil
	case s == "all":
		return All(), nil
	case s == "latest":
		return def, nil
	case strings.HasPrefix(s, "latest:"):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "latest:"))
		if err != nil || n <= 0 {
			return Window{}, fmt.Errorf("invalid window %q: latest needs a positive count", s)
		}
		return Latest(n), nil
	}
	return Window{}, fmt.Errorf("invalid window %q: use all or latest:N", s)
}

// SortAnnotations orders annotations oldest-first, ties broken by id.
func SortAnnotations(annotations []Annotation) {
	sort.SliceStable(annotations, func(i, j int) bool {
		a, b := annotations[i], annotations[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Apply sorts annotations oldest-first and keeps the newest w.Latest of them.
// The result stays oldest-first.
func (w Window) Apply(annotations []Annotation) []Annotation {
	SortAnnotations(annotations)
	if w.IsAll() || len(annotations) <= w.Latest {
		return annotations
	}
	return annotations[len(annotations)-w.Latest:]
}
