package casework

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"casedesk/internal/config"
	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
	"casedesk/internal/domain/repositories"
	repo "casedesk/internal/domain/repositories/casework"
	"casedesk/internal/domain/services"
	svc "casedesk/internal/domain/services/casework"
)

// errNoChange aborts a task mutation without writing and without failing.
var errNoChange = errors.New("no change")

// WorkflowConfig holds the collaborators of the workflow service
type WorkflowConfig struct {
	Tasks       repo.TaskRepository
	Annotations repo.AnnotationRepository
	Attachments repo.AttachmentRepository
	Staff       repo.StaffRepository
	Directory   svc.StaffDirectory
	Content     svc.ContentStore
	TxManager   repositories.TransactionManager
	Validator   *ResourceValidator
	Authorizer  services.CaseAuthorizer
	Logger      *slog.Logger

	// MaxAttachmentBytes caps one staged file; zero means the default limit.
	MaxAttachmentBytes int64
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

type workflowService struct {
	taskRepo       repo.TaskRepository
	annotationRepo repo.AnnotationRepository
	attachmentRepo repo.AttachmentRepository
	staffRepo      repo.StaffRepository
	directory      svc.StaffDirectory
	content        svc.ContentStore
	txManager      repositories.TransactionManager
	validator      *ResourceValidator
	authorizer     services.CaseAuthorizer
	logger         *slog.Logger
	locks          *taskLocks
	maxBytes       int64
	clock          func() time.Time
}

// NewWorkflowService creates the task workflow controller
func NewWorkflowService(cfg WorkflowConfig) svc.WorkflowService {
	maxBytes := cfg.MaxAttachmentBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxAttachmentBytes
	}
	clock := cfg.Now
	if clock == nil {
		clock = time.Now
	}
	return &workflowService{
		taskRepo:       cfg.Tasks,
		annotationRepo: cfg.Annotations,
		attachmentRepo: cfg.Attachments,
		staffRepo:      cfg.Staff,
		directory:      cfg.Directory,
		content:        cfg.Content,
		txManager:      cfg.TxManager,
		validator:      cfg.Validator,
		authorizer:     cfg.Authorizer,
		logger:         cfg.Logger,
		locks:          newTaskLocks(),
		maxBytes:       maxBytes,
		clock:          clock,
	}
}

func (s *workflowService) now() time.Time {
	return s.clock().UTC()
}

// CreateTask creates a PENDING task and seeds the thread with the principal note
func (s *workflowService) CreateTask(ctx context.Context, req *svc.CreateTaskRequest) (*models.Task, error) {
	normalizeCreateTask(req)
	if err := validateCreateTask(req); err != nil {
		return nil, err
	}

	if err := s.authorizer.CanAccessCase(ctx, req.UserID, req.CaseID); err != nil {
		return nil, err
	}
	if err := s.resolveAssignee(ctx, req.AssigneeID); err != nil {
		return nil, err
	}

	now := s.now()
	task := &models.Task{
		CaseID:        req.CaseID,
		Workstream:    req.Workstream,
		Status:        models.StatusPending,
		Action:        req.Action,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		AssigneeID:    req.AssigneeID,
		PrincipalNote: req.PrincipalNote,
		Highlighted:   false,
		CreatedBy:     req.UserID,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var seeded *models.Annotation
	if req.PrincipalNote != nil {
		name, err := s.displayName(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		seeded = &models.Annotation{
			AuthorID:          req.UserID,
			AuthorDisplayName: name,
			Text:              *req.PrincipalNote,
			CreatedAt:         now,
		}
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.taskRepo.Create(txCtx, task); err != nil {
			return err
		}
		if seeded != nil {
			seeded.TaskID = task.ID
			if err := s.annotationRepo.Create(txCtx, seeded); err != nil {
				return fmt.Errorf("seed annotation: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"case_id", task.CaseID,
		"workstream", task.Workstream,
		"assignee_id", task.AssigneeID,
		"seeded_annotation", seeded != nil,
	)

	return task, nil
}

// GetTask returns the task aggregate
func (s *workflowService) GetTask(ctx context.Context, userID, taskID string, window models.Window) (*models.TaskDetail, error) {
	if err := s.authorizer.CanAccessTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	annotations, err := s.annotationRepo.ListByTask(ctx, taskID, window)
	if err != nil {
		return nil, err
	}
	count, err := s.annotationRepo.CountByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachmentRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return &models.TaskDetail{
		Task:            *task,
		Annotations:     annotations,
		AnnotationCount: count,
		Attachments:     attachments,
	}, nil
}

// ListTasks lists a case's tasks, optionally filtered by workstream
func (s *workflowService) ListTasks(ctx context.Context, userID, caseID string, workstream *models.Workstream) ([]models.Task, error) {
	if workstream != nil && !workstream.Valid() {
		return nil, fmt.Errorf("%w: unknown workstream %q", domain.ErrValidation, *workstream)
	}
	if err := s.authorizer.CanAccessCase(ctx, userID, caseID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListByCase(ctx, caseID, workstream)
}

// EditTask applies a partial update. Existing annotations are never touched.
func (s *workflowService) EditTask(ctx context.Context, userID, taskID string, req *svc.EditTaskRequest) (*models.Task, error) {
	if err := validateEditTask(req); err != nil {
		return nil, err
	}

	task, err := s.mutateTask(ctx, userID, taskID, func(txCtx context.Context, task *models.Task) error {
		if req.ExpectedVersion != nil && *req.ExpectedVersion != task.Version {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("task was modified (version %d, expected %d)", task.Version, *req.ExpectedVersion),
				ResourceType: "task",
				ResourceID:   task.ID,
			}
		}
		if req.AssigneeID != nil {
			if err := s.resolveAssignee(txCtx, *req.AssigneeID); err != nil {
				return err
			}
		}
		if req.Action != nil {
			task.Action = *req.Action
		}
		if req.ScheduledDate != nil {
			task.ScheduledDate = *req.ScheduledDate
		}
		if req.ScheduledTime.Present {
			task.ScheduledTime = trimmedOrNil(req.ScheduledTime.Value)
		}
		if req.AssigneeID != nil {
			task.AssigneeID = *req.AssigneeID
		}
		if req.PrincipalNote.Present {
			task.PrincipalNote = trimmedOrNil(req.PrincipalNote.Value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated",
		"task_id", task.ID,
		"case_id", task.CaseID,
		"version", task.Version,
	)
	return task, nil
}

// DeleteTask removes a task. Annotations and attachment records cascade;
// stored bytes stay with the content store.
func (s *workflowService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if err := s.authorizer.CanAccessTask(ctx, userID, taskID); err != nil {
		return err
	}

	unlock := s.locks.Lock(taskID)
	defer unlock()

	var caseID string
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		task, err := s.taskRepo.GetForUpdate(txCtx, taskID)
		if err != nil {
			return err
		}
		caseID = task.CaseID
		return s.taskRepo.Delete(txCtx, taskID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("task deleted",
		"task_id", taskID,
		"case_id", caseID,
		"user_id", userID,
	)
	return nil
}

// CycleStatus advances the status one step. A repeated idempotency key
// returns the current task unchanged.
func (s *workflowService) CycleStatus(ctx context.Context, userID, taskID, idempotencyKey string) (*models.Task, error) {
	var from models.Status
	replayed := false

	task, err := s.mutateTask(ctx, userID, taskID, func(txCtx context.Context, task *models.Task) error {
		if idempotencyKey != "" {
			claimed, err := s.taskRepo.ClaimCycleKey(txCtx, task.ID, idempotencyKey)
			if err != nil {
				return err
			}
			if !claimed {
				replayed = true
				return errNoChange
			}
		}
		from = task.Status
		task.Status = task.Status.Next()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replayed {
		s.logger.Debug("status cycle replayed",
			"task_id", task.ID,
			"idempotency_key", idempotencyKey,
			"status", task.Status,
		)
		return task, nil
	}

	s.logger.Info("task status cycled",
		"task_id", task.ID,
		"case_id", task.CaseID,
		"from", from,
		"to", task.Status,
	)
	return task, nil
}

// ToggleHighlight flips the highlighted flag
func (s *workflowService) ToggleHighlight(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.mutateTask(ctx, userID, taskID, func(_ context.Context, task *models.Task) error {
		task.Highlighted = !task.Highlighted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task highlight toggled",
		"task_id", task.ID,
		"highlighted", task.Highlighted,
	)
	return task, nil
}

// mutateTask runs fn on the locked task inside a transaction and writes the
// result. fn may return errNoChange to skip the write.
func (s *workflowService) mutateTask(ctx context.Context, userID, taskID string, fn func(ctx context.Context, task *models.Task) error) (*models.Task, error) {
	if err := s.authorizer.CanAccessTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(taskID)
	defer unlock()

	var out *models.Task
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		task, err := s.taskRepo.GetForUpdate(txCtx, taskID)
		if err != nil {
			return err
		}
		expected := task.Version

		if err := fn(txCtx, task); err != nil {
			if errors.Is(err, errNoChange) {
				out = task
				return nil
			}
			return err
		}

		task.UpdatedAt = s.now()
		if err := s.taskRepo.Update(txCtx, task, expected); err != nil {
			return err
		}
		out = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// resolveAssignee maps a directory miss to InvalidAssignee
func (s *workflowService) resolveAssignee(ctx context.Context, assigneeID string) error {
	if _, err := s.directory.ResolveStaff(ctx, assigneeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.InvalidAssigneeError{AssigneeID: assigneeID}
		}
		return fmt.Errorf("resolve assignee: %w", err)
	}
	return nil
}

// displayName looks up an author's name, falling back to the id for
// accounts missing from the directory.
func (s *workflowService) displayName(ctx context.Context, userID string) (string, error) {
	staff, err := s.staffRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return userID, nil
		}
		return "", fmt.Errorf("lookup author: %w", err)
	}
	return staff.DisplayName, nil
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
