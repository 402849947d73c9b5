package config

const (
	// MaxActionLength is the maximum length of a task's action text.
	MaxActionLength = 1000

	// MaxNoteLength bounds principal notes and annotation text.
	MaxNoteLength = 10000

	// MaxFolderNameLength is the maximum length for folder names.
	// Lengths here count characters, not bytes.
	MaxFolderNameLength = 255

	// MaxAttachmentNameLength bounds display and original attachment names.
	MaxAttachmentNameLength = 255

	// DefaultMaxAttachmentBytes caps a single staged file (25 MiB).
	DefaultMaxAttachmentBytes = 25 << 20

	// MaxAttachmentsPerCommit caps how many staged files one commit may carry.
	MaxAttachmentsPerCommit = 20

	// DefaultAnnotationWindow mirrors the task list, which shows the two most
	// recent notes.
	DefaultAnnotationWindow = 2

	// DateLayout and TimeLayout are the wire formats for task schedules.
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
