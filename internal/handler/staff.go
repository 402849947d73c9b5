package handler

import (
	"net/http"

	svc "casedesk/internal/domain/services/casework"
	"casedesk/internal/httputil"
)

// StaffHandler serves the assignee directory
type StaffHandler struct {
	directory svc.StaffDirectory
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(directory svc.StaffDirectory) *StaffHandler {
	return &StaffHandler{directory: directory}
}

// ListAssignable lists identities that may be assigned tasks
// GET /api/staff
func (h *StaffHandler) ListAssignable(w http.ResponseWriter, r *http.Request) {
	staff, err := h.directory.ListAssignable(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, staff)
}

// GetStaff resolves one assignable identity
// GET /api/staff/{id}
func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Staff ID")
	if !ok {
		return
	}

	staff, err := h.directory.ResolveStaff(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, staff)
}
