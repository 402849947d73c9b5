package handler

import "net/http"

// Routes groups the handlers mounted by RegisterRoutes
type Routes struct {
	Tasks       *TaskHandler
	Attachments *AttachmentHandler
	Folders     *FolderHandler
	Staff       *StaffHandler
	Health      *HealthHandler
}

// RegisterRoutes mounts the API on mux (Go 1.22+ method patterns)
func RegisterRoutes(mux *http.ServeMux, r Routes) {
	mux.HandleFunc("GET /health", r.Health.HealthCheck)

	// Case-scoped routes
	mux.HandleFunc("GET /api/cases/{caseId}/tasks", r.Tasks.ListTasks)
	mux.HandleFunc("POST /api/cases/{caseId}/tasks", r.Tasks.CreateTask)
	mux.HandleFunc("GET /api/cases/{caseId}/folders", r.Folders.ListFolders)
	mux.HandleFunc("POST /api/cases/{caseId}/folders", r.Folders.CreateFolder)

	// Task routes
	mux.HandleFunc("GET /api/tasks/{id}", r.Tasks.GetTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", r.Tasks.EditTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", r.Tasks.DeleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/cycle-status", r.Tasks.CycleStatus)
	mux.HandleFunc("POST /api/tasks/{id}/toggle-highlight", r.Tasks.ToggleHighlight)

	// Annotation thread
	mux.HandleFunc("GET /api/tasks/{id}/annotations", r.Tasks.ListAnnotations)
	mux.HandleFunc("POST /api/tasks/{id}/annotations", r.Tasks.AddAnnotation)
	mux.HandleFunc("PATCH /api/tasks/{id}/annotations/{annotationId}", r.Tasks.EditAnnotation)
	mux.HandleFunc("DELETE /api/tasks/{id}/annotations/{annotationId}", r.Tasks.DeleteAnnotation)

	// Attachments
	mux.HandleFunc("GET /api/tasks/{id}/attachments", r.Attachments.ListAttachments)
	mux.HandleFunc("POST /api/tasks/{id}/attachments/commit", r.Attachments.CommitAttachments)
	mux.HandleFunc("DELETE /api/tasks/{id}/attachments/{attachmentId}", r.Attachments.RemoveAttachment)

	// Folders and directory
	mux.HandleFunc("DELETE /api/folders/{id}", r.Folders.DeleteFolder)
	mux.HandleFunc("GET /api/staff", r.Staff.ListAssignable)
	mux.HandleFunc("GET /api/staff/{id}", r.Staff.GetStaff)
}
