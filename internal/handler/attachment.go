package handler

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"casedesk/internal/config"
	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
	svc "casedesk/internal/domain/services/casework"
	"casedesk/internal/httputil"
)

// multipartOverhead is headroom for form fields and part headers
const multipartOverhead = 1 << 20

// AttachmentHandler handles attachment HTTP requests
type AttachmentHandler struct {
	workflow svc.WorkflowService
	maxBytes int64
	logger   *slog.Logger
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(workflow svc.WorkflowService, maxBytes int64, logger *slog.Logger) *AttachmentHandler {
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxAttachmentBytes
	}
	return &AttachmentHandler{
		workflow: workflow,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// ListAttachments lists a task's committed attachments
// GET /api/tasks/{id}/attachments
func (h *AttachmentHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}

	attachments, err := h.workflow.ListAttachments(r.Context(), httputil.GetUserID(r), taskID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, attachments)
}

// CommitAttachments stages every uploaded file and commits them as one batch.
// POST /api/tasks/{id}/attachments/commit (multipart/form-data)
//
// Form fields: "files" (repeated), "display_names" (repeated, parallel to
// files; empty entries fall back to the file name), "folder_id" (optional).
func (h *AttachmentHandler) CommitAttachments(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}

	limit := h.maxBytes*config.MaxAttachmentsPerCommit + multipartOverhead
	if err := httputil.ParseMultipart(w, r, limit, multipartOverhead); err != nil {
		handleError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "at least one file is required")
		return
	}
	names := r.MultipartForm.Value["display_names"]

	set := models.NewStagedSet(taskID)
	for i, fh := range files {
		label := fh.Filename
		if i < len(names) && strings.TrimSpace(names[i]) != "" {
			label = names[i]
		}

		content, err := readPart(fh, h.maxBytes)
		if err != nil {
			handleError(w, err)
			return
		}

		if _, err := h.workflow.StageAttachment(set, svc.StagedFile{Name: fh.Filename, Content: content}, label); err != nil {
			handleError(w, err)
			return
		}
	}

	var folderID *string
	if v := strings.TrimSpace(r.FormValue("folder_id")); v != "" {
		folderID = &v
	}

	attachments, err := h.workflow.CommitAttachments(r.Context(), &svc.CommitAttachmentsRequest{
		TaskID:     taskID,
		UploaderID: httputil.GetUserID(r),
		FolderID:   folderID,
		Staged:     set,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, attachments)
}

// RemoveAttachment deletes a committed attachment
// DELETE /api/tasks/{id}/attachments/{attachmentId}
func (h *AttachmentHandler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}
	attachmentID, ok := PathParam(w, r, "attachmentId", "Attachment ID")
	if !ok {
		return
	}

	if err := h.workflow.RemoveAttachment(r.Context(), httputil.GetUserID(r), taskID, attachmentID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondNoContent(w)
}

func readPart(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if fh.Size > maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrValidation, fh.Filename, fh.Size, maxBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s", domain.ErrValidation, fh.Filename)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s", domain.ErrValidation, fh.Filename)
	}
	return content, nil
}
