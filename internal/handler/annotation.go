package handler

import (
	"net/http"

	models "casedesk/internal/domain/models/casework"
	"casedesk/internal/httputil"
)

type annotationRequest struct {
	Text string `json:"text"`
}

// ListAnnotations returns a task's thread oldest-first
// GET /api/tasks/{id}/annotations?window=latest:N|all
func (h *TaskHandler) ListAnnotations(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}

	window, err := models.ParseWindow(r.URL.Query().Get("window"), h.defaultWindow)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	annotations, err := h.workflow.ListAnnotations(r.Context(), httputil.GetUserID(r), taskID, window)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, annotations)
}

// AddAnnotation appends an annotation and updates the principal note
// POST /api/tasks/{id}/annotations
func (h *TaskHandler) AddAnnotation(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}

	var req annotationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	annotation, err := h.workflow.AddAnnotation(r.Context(), taskID, httputil.GetUserID(r), req.Text)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, annotation)
}

// EditAnnotation rewrites the caller's own annotation
// PATCH /api/tasks/{id}/annotations/{annotationId}
func (h *TaskHandler) EditAnnotation(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}
	annotationID, ok := PathParam(w, r, "annotationId", "Annotation ID")
	if !ok {
		return
	}

	var req annotationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	annotation, err := h.workflow.EditAnnotation(r.Context(), taskID, annotationID, httputil.GetUserID(r), req.Text)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, annotation)
}

// DeleteAnnotation removes the caller's own annotation
// DELETE /api/tasks/{id}/annotations/{annotationId}
func (h *TaskHandler) DeleteAnnotation(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}
	annotationID, ok := PathParam(w, r, "annotationId", "Annotation ID")
	if !ok {
		return
	}

	if err := h.workflow.DeleteAnnotation(r.Context(), taskID, annotationID, httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondNoContent(w)
}
