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

func TestCreateFolder(t *testing.T) {
	f := newFixture(t)

	folder, err := f.folders.CreateFolder(f.ctx, &svc.CreateFolderRequest{CaseID: f.caseID, UserID: lawyerID, Name: " Escritos ", Color: models.ColorGreen})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if folder.Name != "Escritos" || folder.CaseID != f.caseID {
		t.Errorf("folder = %+v", folder)
	}

	tests := []struct {
		name    string
		req     svc.CreateFolderRequest
		wantErr error
	}{
		{"duplicate name", svc.CreateFolderRequest{Name: "Escritos", Color: models.ColorRed}, domain.ErrConflict},
		{"blank name", svc.CreateFolderRequest{Name: " ", Color: models.ColorRed}, domain.ErrValidation},
		{"slash in name", svc.CreateFolderRequest{Name: "a/b", Color: models.ColorRed}, domain.ErrValidation},
		{"off-palette colour", svc.CreateFolderRequest{Name: "Otros", Color: "magenta"}, domain.ErrValidation},
		{"name too long", svc.CreateFolderRequest{Name: strings.Repeat("é", config.MaxFolderNameLength+1), Color: models.ColorRed}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.CaseID = f.caseID
			req.UserID = lawyerID
			if _, err := f.folders.CreateFolder(f.ctx, &req); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateFolder() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// same name in another case is fine
	if _, err := f.folders.CreateFolder(f.ctx, &svc.CreateFolderRequest{CaseID: f.otherCaseID, UserID: outsiderID, Name: "Escritos", Color: models.ColorGray}); err != nil {
		t.Errorf("CreateFolder() in other case error = %v", err)
	}

	accented := strings.Repeat("é", config.MaxFolderNameLength)
	if _, err := f.folders.CreateFolder(f.ctx, &svc.CreateFolderRequest{CaseID: f.caseID, UserID: lawyerID, Name: accented, Color: models.ColorBlue}); err != nil {
		t.Errorf("CreateFolder() with %d accented characters error = %v", config.MaxFolderNameLength, err)
	}

	list, err := f.folders.ListFolders(f.ctx, lawyerID, f.caseID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("listed %d folders, want 2", len(list))
	}
}

func TestDeleteFolder(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, nil)
	used, err := f.folders.CreateFolder(f.ctx, &svc.CreateFolderRequest{CaseID: f.caseID, UserID: lawyerID, Name: "Usada", Color: models.ColorTeal})
	if err != nil {
		t.Fatal(err)
	}
	empty, err := f.folders.CreateFolder(f.ctx, &svc.CreateFolderRequest{CaseID: f.caseID, UserID: lawyerID, Name: "Vacia", Color: models.ColorPink})
	if err != nil {
		t.Fatal(err)
	}

	set := models.NewStagedSet(task.ID)
	f.stage(t, set, "a.txt", "A", []byte("a"))
	if _, err := f.workflow.CommitAttachments(f.ctx, &svc.CommitAttachmentsRequest{TaskID: task.ID, UploaderID: lawyerID, FolderID: &used.ID, Staged: set}); err != nil {
		t.Fatal(err)
	}

	err = f.folders.DeleteFolder(f.ctx, lawyerID, used.ID)
	var refErr *domain.ReferentialConflictError
	if !errors.As(err, &refErr) || refErr.References != 1 {
		t.Fatalf("error = %v, want ReferentialConflictError with 1 reference", err)
	}

	if err := f.folders.DeleteFolder(f.ctx, lawyerID, empty.ID); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}
	if err := f.folders.DeleteFolder(f.ctx, outsiderID, used.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("outsider delete error = %v, want ErrForbidden", err)
	}
}
