package casework

import (
	"errors"
	"strings"
	"testing"

	"casedesk/internal/config"
	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
	svc "casedesk/internal/domain/services/casework"
)

func TestAddAnnotation_UpdatesPrincipalNote(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, func(r *svc.CreateTaskRequest) { r.PrincipalNote = strPtr("first") })

	a, err := f.workflow.AddAnnotation(f.ctx, task.ID, paralegalID, "  Called the court clerk  ")
	if err != nil {
		t.Fatalf("AddAnnotation() error = %v", err)
	}
	if a.Text != "Called the court clerk" || a.AuthorDisplayName != "Beto Gil" || a.Edited {
		t.Errorf("annotation = %+v", a)
	}

	got, err := f.repos.Tasks.GetByID(f.ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.PrincipalNote == nil || *got.PrincipalNote != "Called the court clerk" {
		t.Errorf("principal note = %v", got.PrincipalNote)
	}
	if got.Version != task.Version+1 {
		t.Errorf("version = %d, want %d", got.Version, task.Version+1)
	}

	thread, _ := f.workflow.ListAnnotations(f.ctx, lawyerID, task.ID, models.All())
	if len(thread) != 2 || thread[0].Text != "first" || thread[1].ID != a.ID {
		t.Errorf("thread = %+v", thread)
	}
}

func TestAddAnnotation_Rejections(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil)

	tests := []struct {
		name     string
		taskID   string
		authorID string
		text     string
		wantErr  error
	}{
		{"blank text", task.ID, lawyerID, "   ", domain.ErrValidation},
		{"text too long", task.ID, lawyerID, strings.Repeat("ü", config.MaxNoteLength+1), domain.ErrValidation},
		{"outsider", task.ID, outsiderID, "hello", domain.ErrForbidden},
		{"no user", task.ID, "", "hello", domain.ErrUnauthorized},
		{"unknown task", "missing", lawyerID, "hello", domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.workflow.AddAnnotation(f.ctx, tt.taskID, tt.authorID, tt.text); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddAnnotation() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if n, _ := f.repos.Annotations.CountByTask(f.ctx, task.ID); n != 0 {
		t.Errorf("rejected adds left %d annotations", n)
	}

	long := strings.Repeat("ü", config.MaxNoteLength)
	if _, err := f.workflow.AddAnnotation(f.ctx, task.ID, lawyerID, long); err != nil {
		t.Errorf("AddAnnotation() with %d accented characters error = %v", config.MaxNoteLength, err)
	}
}

func TestAddAnnotation_StoreFailureKeepsNote(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, func(r *svc.CreateTaskRequest) { r.PrincipalNote = strPtr("original") })

	f.store.FailAfter("tasks.update", 0, &domain.StoreUnavailableError{Op: "update task", Err: errors.New("connection reset")})
	_, err := f.workflow.AddAnnotation(f.ctx, task.ID, lawyerID, "lost")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("error = %v, want ErrStoreUnavailable", err)
	}
	f.store.ClearFaults()

	got, _ := f.repos.Tasks.GetByID(f.ctx, task.ID)
	if got.PrincipalNote == nil || *got.PrincipalNote != "original" {
		t.Errorf("principal note = %v, want original", got.PrincipalNote)
	}
	if n, _ := f.repos.Annotations.CountByTask(f.ctx, task.ID); n != 1 {
		t.Errorf("annotation count = %d, want 1", n)
	}
}

func TestEditAnnotation_AuthorOnly(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil)
	a, err := f.workflow.AddAnnotation(f.ctx, task.ID, lawyerID, "draft")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.workflow.AddAnnotation(f.ctx, task.ID, paralegalID, "latest"); err != nil {
		t.Fatal(err)
	}

	_, err = f.workflow.EditAnnotation(f.ctx, task.ID, a.ID, paralegalID, "hijack")
	var notAuthor *domain.NotAuthorError
	if !errors.As(err, &notAuthor) || notAuthor.AnnotationID != a.ID {
		t.Fatalf("error = %v, want NotAuthorError", err)
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Error("NotAuthorError should match ErrForbidden")
	}

	edited, err := f.workflow.EditAnnotation(f.ctx, task.ID, a.ID, lawyerID, "final wording")
	if err != nil {
		t.Fatalf("EditAnnotation() error = %v", err)
	}
	if edited.Text != "final wording" || !edited.Edited {
		t.Errorf("edited = %+v", edited)
	}
	if !edited.CreatedAt.Equal(a.CreatedAt) {
		t.Errorf("created_at moved from %v to %v", a.CreatedAt, edited.CreatedAt)
	}

	got, _ := f.repos.Tasks.GetByID(f.ctx, task.ID)
	if got.PrincipalNote == nil || *got.PrincipalNote != "latest" {
		t.Errorf("principal note = %v, want latest", got.PrincipalNote)
	}

	if _, err := f.workflow.EditAnnotation(f.ctx, task.ID, "missing", lawyerID, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing annotation error = %v, want ErrNotFound", err)
	}
}

func TestDeleteAnnotation_AuthorOnly(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil)
	a, err := f.workflow.AddAnnotation(f.ctx, task.ID, lawyerID, "to remove")
	if err != nil {
		t.Fatal(err)
	}

	if err := f.workflow.DeleteAnnotation(f.ctx, task.ID, a.ID, paralegalID); !errors.Is(err, domain.ErrNotAuthor) {
		t.Fatalf("error = %v, want ErrNotAuthor", err)
	}
	if err := f.workflow.DeleteAnnotation(f.ctx, task.ID, a.ID, lawyerID); err != nil {
		t.Fatalf("DeleteAnnotation() error = %v", err)
	}
	if err := f.workflow.DeleteAnnotation(f.ctx, task.ID, a.ID, lawyerID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
	if n, _ := f.repos.Annotations.CountByTask(f.ctx, task.ID); n != 0 {
		t.Errorf("annotation count = %d, want 0", n)
	}
}

func TestListAnnotations_Window(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil)
	for _, text := range []string{"a", "b", "c", "d"} {
		if _, err := f.workflow.AddAnnotation(f.ctx, task.ID, lawyerID, text); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		window models.Window
		want   []string
	}{
		{models.All(), []string{"a", "b", "c", "d"}},
		{models.Latest(2), []string{"c", "d"}},
		{models.Latest(10), []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.window.String(), func(t *testing.T) {
			got, err := f.workflow.ListAnnotations(f.ctx, paralegalID, task.ID, tt.window)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].Text != w {
					t.Errorf("[%d] = %q, want %q", i, got[i].Text, w)
				}
			}
		})
	}
}
