package casework

import (
	"fmt"
	"strings"
	"time"

	"casedesk/internal/domain"
)

// Attachment is a committed file tied to a task.
type Attachment struct {
	ID              string    `json:"id" db:"id"`
	TaskID          string    `json:"task_id" db:"task_id"`
	DisplayName     string    `json:"display_name" db:"display_name"`
	OriginalName    string    `json:"original_name" db:"original_name"`
	SizeBytes       int64     `json:"size_bytes" db:"size_bytes"`
	MimeType        string    `json:"mime_type" db:"mime_type"`
	FolderID        *string   `json:"folder_id,omitempty" db:"folder_id"` // NULL = unfiled
	UploaderID      string    `json:"uploader_id" db:"uploader_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	ContentLocation string    `json:"content_location" db:"content_location"`
}

// StagedAttachment is a file chosen by the caller but not yet committed.
type StagedAttachment struct {
	LocalID      string `json:"local_id"`
	DisplayName  string `json:"display_name"`
	OriginalName string `json:"original_name"`
	SizeBytes    int64  `json:"size_bytes"`
	MimeType     string `json:"mime_type"`
	Content      []byte `json:"-"`
}

// StagedSet is the caller-held scratch buffer of staged attachments for one
// task. It has no server-side representation and is not safe for concurrent
// use.
type StagedSet struct {
	TaskID string
	items  []StagedAttachment
}

// NewStagedSet returns an empty set for taskID.
func NewStagedSet(taskID string) *StagedSet {
	return &StagedSet{TaskID: taskID}
}

// Add appends a staged item after checking its label.
func (s *StagedSet) Add(item StagedAttachment) error {
	item.DisplayName = strings.TrimSpace(item.DisplayName)
	if item.DisplayName == "" {
		return fmt.Errorf("%w: display name is required", domain.ErrValidation)
	}
	s.items = append(s.items, item)
	return nil
}

// Relabel changes the display name of a staged item.
func (s *StagedSet) Relabel(localID, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("%w: display name is required", domain.ErrValidation)
	}
	for i := range s.items {
		if s.items[i].LocalID == localID {
			s.items[i].DisplayName = displayName
			return nil
		}
	}
	return fmt.Errorf("staged attachment %s: %w", localID, domain.ErrNotFound)
}

// Remove drops a staged item. It reports whether the item existed.
func (s *StagedSet) Remove(localID string) bool {
	for i := range s.items {
		if s.items[i].LocalID == localID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the staged items in staging order.
func (s *StagedSet) Items() []StagedAttachment {
	out := make([]StagedAttachment, len(s.items))
	copy(out, s.items)
	return out
}

func (s *StagedSet) Len() int { return len(s.items) }

// Clear empties the set. Called only after a successful commit.
func (s *StagedSet) Clear() { s.items = nil }
