package casework

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"casedesk/internal/config"
	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
	repo "casedesk/internal/domain/repositories/casework"
	svc "casedesk/internal/domain/services/casework"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	folderNamePattern = regexp.MustCompile(`^[^/]+$`)
	// time.Parse accepts a one-digit hour for "15"; stored times sort as text
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ResourceValidator checks that referenced resources exist in the right case
type ResourceValidator struct {
	folderRepo repo.FolderRepository
}

// NewResourceValidator creates a new resource validator
func NewResourceValidator(folderRepo repo.FolderRepository) *ResourceValidator {
	return &ResourceValidator{folderRepo: folderRepo}
}

// ValidateFolder ensures folderID names a folder of caseID.
// Returns nil for a nil folder (unfiled).
func (v *ResourceValidator) ValidateFolder(ctx context.Context, folderID *string, caseID string) error {
	if folderID == nil || *folderID == "" {
		return nil
	}
	if _, err := v.folderRepo.GetByID(ctx, *folderID, caseID); err != nil {
		return fmt.Errorf("invalid folder: %w", err)
	}
	return nil
}

func workstreamRules() []validation.Rule {
	elems := make([]interface{}, len(models.Workstreams))
	for i, w := range models.Workstreams {
		elems[i] = w
	}
	return []validation.Rule{
		validation.Required,
		validation.In(elems...).Error("must be PROCEDURAL, EXTRA_PROCEDURAL or AUDIT"),
	}
}

func colorRules() []validation.Rule {
	elems := make([]interface{}, len(models.Palette))
	for i, c := range models.Palette {
		elems[i] = c
	}
	return []validation.Rule{
		validation.Required,
		validation.In(elems...).Error("is not a palette colour"),
	}
}

func validationErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// normalizeCreateTask trims free-text fields in place.
func normalizeCreateTask(req *svc.CreateTaskRequest) {
	req.Action = strings.TrimSpace(req.Action)
	req.AssigneeID = strings.TrimSpace(req.AssigneeID)
	req.ScheduledDate = strings.TrimSpace(req.ScheduledDate)
	if req.ScheduledTime != nil {
		t := strings.TrimSpace(*req.ScheduledTime)
		if t == "" {
			req.ScheduledTime = nil
		} else {
			req.ScheduledTime = &t
		}
	}
	if req.PrincipalNote != nil {
		n := strings.TrimSpace(*req.PrincipalNote)
		if n == "" {
			req.PrincipalNote = nil
		} else {
			req.PrincipalNote = &n
		}
	}
}

func validateCreateTask(req *svc.CreateTaskRequest) error {
	return validationErr(validation.ValidateStruct(req,
		validation.Field(&req.CaseID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Workstream, workstreamRules()...),
		validation.Field(&req.Action, validation.Required, validation.RuneLength(1, config.MaxActionLength)),
		validation.Field(&req.AssigneeID, validation.Required),
		validation.Field(&req.ScheduledDate, validation.Required, validation.Date(config.DateLayout)),
		validation.Field(&req.ScheduledTime, validation.Match(timePattern).Error("must be HH:MM"), validation.Date(config.TimeLayout)),
		validation.Field(&req.PrincipalNote, validation.RuneLength(0, config.MaxNoteLength)),
	))
}

func validateEditTask(req *svc.EditTaskRequest) error {
	if req.Action == nil && req.ScheduledDate == nil && !req.ScheduledTime.Present &&
		req.AssigneeID == nil && !req.PrincipalNote.Present {
		return validationErr(fmt.Errorf("at least one field must be provided"))
	}
	if req.Action != nil {
		a := strings.TrimSpace(*req.Action)
		req.Action = &a
	}
	if req.AssigneeID != nil {
		id := strings.TrimSpace(*req.AssigneeID)
		req.AssigneeID = &id
	}
	if req.ScheduledDate != nil {
		d := strings.TrimSpace(*req.ScheduledDate)
		req.ScheduledDate = &d
	}
	if req.ScheduledTime.Value != nil {
		req.ScheduledTime.Value = trimmedOrNil(req.ScheduledTime.Value)
	}

	if err := validation.ValidateStruct(req,
		validation.Field(&req.Action, validation.NilOrNotEmpty, validation.RuneLength(1, config.MaxActionLength)),
		validation.Field(&req.ScheduledDate, validation.NilOrNotEmpty, validation.Date(config.DateLayout)),
		validation.Field(&req.AssigneeID, validation.NilOrNotEmpty),
	); err != nil {
		return validationErr(err)
	}

	if req.ScheduledTime.Value != nil {
		if err := validation.Validate(*req.ScheduledTime.Value,
			validation.Match(timePattern).Error("must be HH:MM"),
			validation.Date(config.TimeLayout),
		); err != nil {
			return validationErr(fmt.Errorf("scheduled_time: %v", err))
		}
	}
	if req.PrincipalNote.Value != nil {
		if err := validation.Validate(*req.PrincipalNote.Value, validation.RuneLength(0, config.MaxNoteLength)); err != nil {
			return validationErr(fmt.Errorf("principal_note: %v", err))
		}
	}
	return nil
}

func validateNoteText(text string) (string, error) {
	text = strings.TrimSpace(text)
	err := validation.Validate(text,
		validation.Required.Error("text is required"),
		validation.RuneLength(1, config.MaxNoteLength),
	)
	return text, validationErr(err)
}

func validateCreateFolder(req *svc.CreateFolderRequest) error {
	req.Name = strings.Join(strings.Fields(req.Name), " ")
	return validationErr(validation.ValidateStruct(req,
		validation.Field(&req.CaseID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxFolderNameLength),
			validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
		),
		validation.Field(&req.Color, colorRules()...),
	))
}
