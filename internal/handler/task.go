package handler

import (
	"log/slog"
	"net/http"
	"strings"

	models "casedesk/internal/domain/models/casework"
	svc "casedesk/internal/domain/services/casework"
	"casedesk/internal/httputil"
)

// IdempotencyKeyHeader deduplicates retried status cycles
const IdempotencyKeyHeader = "Idempotency-Key"

// TaskHandler handles task HTTP requests
type TaskHandler struct {
	workflow      svc.WorkflowService
	defaultWindow models.Window
	logger        *slog.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(workflow svc.WorkflowService, defaultWindow models.Window, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		workflow:      workflow,
		defaultWindow: defaultWindow,
		logger:        logger,
	}
}

// CreateTask creates a task in a case
// POST /api/cases/{caseId}/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caseID, ok := PathParam(w, r, "caseId", "Case ID")
	if !ok {
		return
	}

	var req svc.CreateTaskRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	req.CaseID = caseID
	req.UserID = httputil.GetUserID(r)

	task, err := h.workflow.CreateTask(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, task)
}

// ListTasks lists a case's tasks
// GET /api/cases/{caseId}/tasks?workstream=PROCEDURAL|EXTRA_PROCEDURAL|AUDIT
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	caseID, ok := PathParam(w, r, "caseId", "Case ID")
	if !ok {
		return
	}

	var workstream *models.Workstream
	if v := strings.TrimSpace(r.URL.Query().Get("workstream")); v != "" {
		ws := models.Workstream(strings.ToUpper(v))
		workstream = &ws
	}

	tasks, err := h.workflow.ListTasks(r.Context(), httputil.GetUserID(r), caseID, workstream)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tasks)
}

// GetTask returns the task with its annotations and attachments
// GET /api/tasks/{id}?window=latest:N|all
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}

	window, err := models.ParseWindow(r.URL.Query().Get("window"), h.defaultWindow)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.workflow.GetTask(r.Context(), httputil.GetUserID(r), taskID, window)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, detail)
}

// EditTask partially updates a task
// PATCH /api/tasks/{id}
func (h *TaskHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}

	var req svc.EditTaskRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	task, err := h.workflow.EditTask(r.Context(), httputil.GetUserID(r), taskID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task
// DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}

	if err := h.workflow.DeleteTask(r.Context(), httputil.GetUserID(r), taskID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondNoContent(w)
}

// CycleStatus advances the task status
// POST /api/tasks/{id}/cycle-status
func (h *TaskHandler) CycleStatus(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if len(key) > 255 {
		httputil.RespondError(w, http.StatusBadRequest, IdempotencyKeyHeader+" exceeds 255 characters")
		return
	}

	task, err := h.workflow.CycleStatus(r.Context(), httputil.GetUserID(r), taskID, key)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, task)
}

// ToggleHighlight flips the highlighted flag
// POST /api/tasks/{id}/toggle-highlight
func (h *TaskHandler) ToggleHighlight(w http.ResponseWriter, r *http.Request) {
	taskID, ok := PathParam(w, r, "id", "Task ID")
	if !ok {
		return
	}

	task, err := h.workflow.ToggleHighlight(r.Context(), httputil.GetUserID(r), taskID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, task)
}
