package casework

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	models "casedesk/internal/domain/models/casework"
	svc "casedesk/internal/domain/services/casework"
	"casedesk/internal/repository/memory"
	serviceAuth "casedesk/internal/service/auth"
	"casedesk/internal/storage"

	"github.com/spf13/afero"
)

const (
	lawyerID    = "lawyer-1"
	paralegalID = "para-1"
	clientID    = "client-1"
	ownerID     = "owner"
	formerID    = "former-1"
	outsiderID  = "lawyer-2"
)

type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	ctx         context.Context
	store       *memory.Store
	repos       memory.Repositories
	fs          afero.Fs
	workflow    svc.WorkflowService
	folders     svc.FolderService
	directory   svc.StaffDirectory
	caseID      string
	otherCaseID string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	staff := []models.StaffIdentity{
		{ID: lawyerID, DisplayName: "Ana Ruiz", Role: models.RoleLawyer, Active: true},
		{ID: paralegalID, DisplayName: "Beto Gil", Role: models.RoleParalegal, Active: true},
		{ID: outsiderID, DisplayName: "Carla Paz", Role: models.RoleLawyer, Active: true},
		{ID: clientID, DisplayName: "Cliente SA", Role: models.RoleClient, Active: true},
		{ID: ownerID, DisplayName: "Estudio Ruiz", Role: models.RoleOwner, Active: true},
		{ID: formerID, DisplayName: "Dario Luna", Role: models.RoleAssistant, Active: false},
	}
	for _, s := range staff {
		if err := store.PutStaff(ctx, s); err != nil {
			t.Fatalf("PutStaff: %v", err)
		}
	}

	primary := &models.Case{Title: "Ruiz c/ Gomez s/ daños"}
	other := &models.Case{Title: "Sucesion Perez"}
	for _, c := range []*models.Case{primary, other} {
		if err := store.PutCase(ctx, c); err != nil {
			t.Fatalf("PutCase: %v", err)
		}
	}
	for _, m := range []struct{ caseID, userID string }{
		{primary.ID, lawyerID},
		{primary.ID, paralegalID},
		{other.ID, outsiderID},
	} {
		if err := store.AddMember(ctx, m.caseID, m.userID); err != nil {
			t.Fatalf("AddMember: %v", err)
		}
	}

	fs := afero.NewMemMapFs()
	clock := &tickClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	authorizer := serviceAuth.NewMembershipAuthorizer(repos.Cases, repos.Tasks, repos.Folders)
	directory := NewStaffDirectory(repos.Staff)

	workflow := NewWorkflowService(WorkflowConfig{
		Tasks:              repos.Tasks,
		Annotations:        repos.Annotations,
		Attachments:        repos.Attachments,
		Staff:              repos.Staff,
		Directory:          directory,
		Content:            storage.NewContentStore(fs),
		TxManager:          store,
		Validator:          NewResourceValidator(repos.Folders),
		Authorizer:         authorizer,
		Logger:             discardLogger(),
		MaxAttachmentBytes: 1024,
		Now:                clock.Now,
	})

	return &fixture{
		ctx:         ctx,
		store:       store,
		repos:       repos,
		fs:          fs,
		workflow:    workflow,
		folders:     NewFolderService(repos.Folders, repos.Attachments, authorizer, discardLogger()),
		directory:   directory,
		caseID:      primary.ID,
		otherCaseID: other.ID,
	}
}

func strPtr(s string) *string { return &s }

func (f *fixture) createTask(t *testing.T, mutate func(req *svc.CreateTaskRequest)) *models.Task {
	t.Helper()
	req := &svc.CreateTaskRequest{
		CaseID:        f.caseID,
		UserID:        lawyerID,
		Workstream:    models.WorkstreamProcedural,
		Action:        "File reply to motion",
		AssigneeID:    paralegalID,
		ScheduledDate: "2026-03-10",
	}
	if mutate != nil {
		mutate(req)
	}
	task, err := f.workflow.CreateTask(f.ctx, req)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	return task
}

// contentFiles counts files in the content store
func (f *fixture) contentFiles(t *testing.T) int {
	t.Helper()
	n := 0
	err := afero.Walk(f.fs, "/", func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk content: %v", err)
	}
	return n
}
