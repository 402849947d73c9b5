package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("already exists")
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidAssignee     = errors.New("invalid assignee")
	ErrNotAuthor           = errors.New("not the author")
	ErrReferentialConflict = errors.New("resource is still referenced")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, task)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// InvalidAssigneeError is returned when an assignee does not resolve to an
// eligible staff identity. It also matches ErrValidation.
type InvalidAssigneeError struct {
	AssigneeID string
}

func (e *InvalidAssigneeError) Error() string {
	return "assignee " + e.AssigneeID + " is not an eligible staff member"
}

func (e *InvalidAssigneeError) StatusCode() int { return http.StatusUnprocessableEntity }

func (e *InvalidAssigneeError) Is(target error) bool {
	return target == ErrInvalidAssignee || target == ErrValidation
}

// NotAuthorError is returned when someone other than an annotation's author
// tries to edit or delete it. It also matches ErrForbidden.
type NotAuthorError struct {
	AnnotationID string
	RequesterID  string
}

func (e *NotAuthorError) Error() string {
	return "annotation " + e.AnnotationID + " can only be changed by its author"
}

func (e *NotAuthorError) StatusCode() int { return http.StatusForbidden }

func (e *NotAuthorError) Is(target error) bool {
	return target == ErrNotAuthor || target == ErrForbidden
}

// ReferentialConflictError is returned when deleting a resource that other
// rows still reference. It also matches ErrConflict.
type ReferentialConflictError struct {
	ResourceType string
	ResourceID   string
	References   int
}

func (e *ReferentialConflictError) Error() string {
	return e.ResourceType + " " + e.ResourceID + " is still referenced"
}

func (e *ReferentialConflictError) StatusCode() int { return http.StatusConflict }

func (e *ReferentialConflictError) Is(target error) bool {
	return target == ErrReferentialConflict || target == ErrConflict
}

// StoreUnavailableError wraps a failed persistence call. Callers may retry.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return e.Op + ": store unavailable: " + e.Err.Error()
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

func (e *StoreUnavailableError) StatusCode() int { return http.StatusServiceUnavailable }

func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}
