package handler

import (
	"log/slog"
	"net/http"

	svc "casedesk/internal/domain/services/casework"
	"casedesk/internal/httputil"
)

// FolderHandler handles case folder HTTP requests
type FolderHandler struct {
	folders svc.FolderService
	logger  *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folders svc.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folders: folders,
		logger:  logger,
	}
}

// CreateFolder creates a folder in a case
// POST /api/cases/{caseId}/folders
// Returns 409 with the existing folder's id on a duplicate name
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	caseID, ok := PathParam(w, r, "caseId", "Case ID")
	if !ok {
		return
	}

	var req svc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	req.CaseID = caseID
	req.UserID = httputil.GetUserID(r)

	folder, err := h.folders.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// ListFolders lists a case's folders
// GET /api/cases/{caseId}/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	caseID, ok := PathParam(w, r, "caseId", "Case ID")
	if !ok {
		return
	}

	folders, err := h.folders.ListFolders(r.Context(), httputil.GetUserID(r), caseID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// DeleteFolder deletes an empty folder
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	folderID, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	if err := h.folders.DeleteFolder(r.Context(), httputil.GetUserID(r), folderID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondNoContent(w)
}
