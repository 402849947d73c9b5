package memory

import (
	"context"
	"fmt"
	"sort"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"

	"github.com/google/uuid"
)

// FolderRepository implements the FolderRepository interface over a Store
type FolderRepository struct {
	store *Store
}

// Create creates a folder; names are unique per case
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	return r.store.write(ctx, "folders.create", func(st *state) error {
		if _, ok := st.cases[folder.CaseID]; !ok {
			return fmt.Errorf("case %s: %w", folder.CaseID, domain.ErrNotFound)
		}
		for _, f := range st.folders {
			if f.CaseID == folder.CaseID && f.Name == folder.Name {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("folder '%s' already exists", folder.Name),
					ResourceType: "folder",
					ResourceID:   f.ID,
				}
			}
		}
		if folder.ID == "" {
			folder.ID = uuid.NewString()
		}
		st.folders[folder.ID] = *folder
		return nil
	})
}

// GetByID retrieves a folder scoped to a case
func (r *FolderRepository) GetByID(ctx context.Context, id, caseID string) (*models.Folder, error) {
	folder, err := r.GetByIDOnly(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder.CaseID != caseID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return folder, nil
}

// GetByIDOnly retrieves a folder by ID without case scoping
func (r *FolderRepository) GetByIDOnly(ctx context.Context, id string) (*models.Folder, error) {
	var out *models.Folder
	err := r.store.read(ctx, func(st *state) error {
		f, ok := st.folders[id]
		if !ok {
			return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		out = &f
		return nil
	})
	return out, err
}

// ListByCase lists a case's folders ordered by name
func (r *FolderRepository) ListByCase(ctx context.Context, caseID string) ([]models.Folder, error) {
	folders := []models.Folder{}
	err := r.store.read(ctx, func(st *state) error {
		for _, f := range st.folders {
			if f.CaseID == caseID {
				folders = append(folders, f)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

// Delete deletes a folder no attachment references
func (r *FolderRepository) Delete(ctx context.Context, id, caseID string) error {
	return r.store.write(ctx, "folders.delete", func(st *state) error {
		f, ok := st.folders[id]
		if !ok || f.CaseID != caseID {
			return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		if refs := countFolderRefs(st, id); refs > 0 {
			return &domain.ReferentialConflictError{ResourceType: "folder", ResourceID: id, References: refs}
		}
		delete(st.folders, id)
		return nil
	})
}
