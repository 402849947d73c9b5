package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"casedesk/internal/domain"
	"casedesk/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var (
		assigneeErr    *domain.InvalidAssigneeError
		notAuthorErr   *domain.NotAuthorError
		refErr         *domain.ReferentialConflictError
		conflictErr    *domain.ConflictError
		unavailableErr *domain.StoreUnavailableError
		bodyErr        *httputil.BodyError
	)

	switch {
	case errors.As(err, &assigneeErr):
		httputil.RespondErrorWithExtras(w, http.StatusUnprocessableEntity, assigneeErr.Error(), map[string]interface{}{
			"assignee_id": assigneeErr.AssigneeID,
		})
	case errors.As(err, &bodyErr):
		httputil.RespondError(w, bodyErr.Status, bodyErr.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &notAuthorErr):
		httputil.RespondErrorWithExtras(w, http.StatusForbidden, notAuthorErr.Error(), map[string]interface{}{
			"annotation_id": notAuthorErr.AnnotationID,
		})
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &refErr):
		extras := map[string]interface{}{
			"resource_type": refErr.ResourceType,
			"resource_id":   refErr.ResourceID,
		}
		if refErr.References > 0 {
			extras["references"] = refErr.References
		}
		httputil.RespondErrorWithExtras(w, http.StatusConflict, refErr.Error(), extras)
	case errors.As(err, &conflictErr):
		extras := map[string]interface{}{}
		if conflictErr.ResourceType != "" {
			extras["resource_type"] = conflictErr.ResourceType
		}
		if conflictErr.ResourceID != "" {
			extras["resource_id"] = conflictErr.ResourceID
		}
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), extras)
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &unavailableErr):
		slog.Warn("store unavailable", "op", unavailableErr.Op, "error", unavailableErr.Err)
		httputil.RespondUnavailable(w, "storage is temporarily unavailable", time.Second, nil)
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// PathParam reads a required path wildcard, writing a 400 when it is empty
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	v := strings.TrimSpace(r.PathValue(name))
	if v == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return v, true
}
