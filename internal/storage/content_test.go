package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"casedesk/internal/domain"

	"github.com/spf13/afero"
)

func TestContentStore_PutOpenDiscard(t *testing.T) {
	ctx := context.Background()
	store := NewContentStore(afero.NewMemMapFs())

	loc, err := store.Put(ctx, "case-1/task-1/brief.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !strings.HasPrefix(loc, "/case-1/task-1/") || !strings.HasSuffix(loc, "-brief.pdf") {
		t.Errorf("Put() location = %q", loc)
	}

	rc, err := store.Open(ctx, loc)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "%PDF-1.4" {
		t.Errorf("Open() content = %q", data)
	}

	if err := store.Discard(ctx, loc); err != nil {
		t.Fatalf("Discard() error = %v", err)
	}
	if _, err := store.Open(ctx, loc); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Open() after discard error = %v, want ErrNotFound", err)
	}
	if err := store.Discard(ctx, loc); err != nil {
		t.Errorf("second Discard() error = %v, want nil", err)
	}
}

func TestContentStore_SameHintDistinctLocations(t *testing.T) {
	ctx := context.Background()
	store := NewContentStore(afero.NewMemMapFs())

	a, err := store.Put(ctx, "c/t/x.txt", strings.NewReader("a"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := store.Put(ctx, "c/t/x.txt", strings.NewReader("b"))
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("expected distinct locations, both %q", a)
	}
}

func TestContentStore_HintCannotEscapeRoot(t *testing.T) {
	loc := location("../../etc/passwd")
	if !strings.HasPrefix(loc, "/etc/") {
		t.Errorf("location() = %q, want it rooted", loc)
	}
}

func TestContentStore_ReadOnlyFsIsUnavailable(t *testing.T) {
	store := NewContentStore(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	_, err := store.Put(context.Background(), "c/t/x.txt", strings.NewReader("a"))
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("Put() error = %v, want ErrStoreUnavailable", err)
	}
}
