package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"casedesk/internal/domain"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ContentStore keeps attachment bytes on an afero filesystem. Locations are
// slash-separated paths relative to the filesystem root.
type ContentStore struct {
	fs afero.Fs
}

// NewContentStore wraps fs
func NewContentStore(fs afero.Fs) *ContentStore {
	return &ContentStore{fs: fs}
}

// NewDiskContentStore stores content below dir on the local disk
func NewDiskContentStore(dir string) (*ContentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}
	return NewContentStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// Put copies r to a fresh location derived from hint. A partial write is removed.
func (s *ContentStore) Put(ctx context.Context, hint string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	loc := location(hint)
	if err := s.fs.MkdirAll(path.Dir(loc), 0o755); err != nil {
		return "", &domain.StoreUnavailableError{Op: "create content dir", Err: err}
	}

	f, err := s.fs.OpenFile(loc, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", &domain.StoreUnavailableError{Op: "create content file", Err: err}
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		s.fs.Remove(loc)
		return "", &domain.StoreUnavailableError{Op: "write content", Err: err}
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(loc)
		return "", &domain.StoreUnavailableError{Op: "close content", Err: err}
	}
	return loc, nil
}

// Open returns the bytes stored at loc
func (s *ContentStore) Open(ctx context.Context, loc string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(clean(loc))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("content %s: %w", loc, domain.ErrNotFound)
		}
		return nil, &domain.StoreUnavailableError{Op: "open content", Err: err}
	}
	return f, nil
}

// Discard removes loc. A missing location is not an error.
func (s *ContentStore) Discard(ctx context.Context, loc string) error {
	err := s.fs.Remove(clean(loc))
	if err != nil && !os.IsNotExist(err) {
		return &domain.StoreUnavailableError{Op: "discard content", Err: err}
	}
	return nil
}

// location keeps the hint readable and appends a random suffix so two
// commits of the same file never collide.
func location(hint string) string {
	hint = clean(hint)
	if hint == "" || hint == "/" {
		hint = "unfiled"
	}
	dir, name := path.Split(hint)
	return path.Join("/", dir, uuid.NewString()[:8]+"-"+name)
}

func clean(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return path.Clean("/" + p)
}
