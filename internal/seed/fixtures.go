// Package seed loads registry fixtures (cases, members, staff, folders) from
// YAML and writes them through a Registry.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"casedesk/internal/domain"
	models "casedesk/internal/domain/models/casework"
	repo "casedesk/internal/domain/repositories/casework"

	"gopkg.in/yaml.v3"
)

// Fixtures is the root of a seed file
type Fixtures struct {
	Staff []StaffFixture `yaml:"staff"`
	Cases []CaseFixture  `yaml:"cases"`
}

// StaffFixture is one directory account
type StaffFixture struct {
	ID          string      `yaml:"id"`
	DisplayName string      `yaml:"display_name"`
	Email       string      `yaml:"email"`
	Role        models.Role `yaml:"role"`
	Active      *bool       `yaml:"active"` // omitted = true
}

// CaseFixture is one case with its members and folders
type CaseFixture struct {
	ID      string          `yaml:"id"`
	Title   string          `yaml:"title"`
	Members []string        `yaml:"members"`
	Folders []FolderFixture `yaml:"folders"`
}

// FolderFixture is one folder of a case
type FolderFixture struct {
	Name  string       `yaml:"name"`
	Color models.Color `yaml:"color"`
}

// Registry receives the registry records. The memory store implements it
// directly; postgres goes through casework.RegistryWriter.
type Registry interface {
	PutStaff(ctx context.Context, staff models.StaffIdentity) error
	PutCase(ctx context.Context, c *models.Case) error
	AddMember(ctx context.Context, caseID, userID string) error
}

// LoadFile reads and parses a fixture file
func LoadFile(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(data)
}

// Parse decodes fixtures and checks their references
func Parse(data []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate checks roles, colours and that members name declared staff
func (fx *Fixtures) Validate() error {
	known := make(map[string]bool, len(fx.Staff))
	for i, s := range fx.Staff {
		if s.ID == "" || s.DisplayName == "" {
			return fmt.Errorf("%w: staff[%d] needs id and display_name", domain.ErrValidation, i)
		}
		switch s.Role {
		case models.RoleAdmin, models.RoleLawyer, models.RoleParalegal,
			models.RoleAssistant, models.RoleClient, models.RoleOwner:
		default:
			return fmt.Errorf("%w: staff %s has unknown role %q", domain.ErrValidation, s.ID, s.Role)
		}
		if known[s.ID] {
			return fmt.Errorf("%w: staff %s declared twice", domain.ErrValidation, s.ID)
		}
		known[s.ID] = true
	}

	for i, c := range fx.Cases {
		if c.ID == "" || c.Title == "" {
			return fmt.Errorf("%w: cases[%d] needs id and title", domain.ErrValidation, i)
		}
		for _, m := range c.Members {
			if !known[m] {
				return fmt.Errorf("%w: case %s member %s is not in staff", domain.ErrValidation, c.ID, m)
			}
		}
		for _, f := range c.Folders {
			if f.Name == "" || !f.Color.Valid() {
				return fmt.Errorf("%w: case %s folder %q needs a name and palette colour", domain.ErrValidation, c.ID, f.Name)
			}
		}
	}
	return nil
}

// Seeder applies fixtures
type Seeder struct {
	registry Registry
	folders  repo.FolderRepository
	logger   *slog.Logger
}

// NewSeeder creates a seeder writing to registry and folders
func NewSeeder(registry Registry, folders repo.FolderRepository, logger *slog.Logger) *Seeder {
	return &Seeder{
		registry: registry,
		folders:  folders,
		logger:   logger,
	}
}

// Apply writes every record. Re-running it is safe: accounts and cases are
// upserted and existing folders are left alone.
func (s *Seeder) Apply(ctx context.Context, fx *Fixtures) error {
	for _, sf := range fx.Staff {
		active := sf.Active == nil || *sf.Active
		err := s.registry.PutStaff(ctx, models.StaffIdentity{
			ID:          sf.ID,
			DisplayName: sf.DisplayName,
			Email:       sf.Email,
			Role:        sf.Role,
			Active:      active,
		})
		if err != nil {
			return fmt.Errorf("seed staff %s: %w", sf.ID, err)
		}
	}

	folders := 0
	for _, cf := range fx.Cases {
		c := &models.Case{ID: cf.ID, Title: cf.Title}
		if err := s.registry.PutCase(ctx, c); err != nil {
			return fmt.Errorf("seed case %s: %w", cf.ID, err)
		}
		for _, m := range cf.Members {
			if err := s.registry.AddMember(ctx, c.ID, m); err != nil {
				return fmt.Errorf("seed member %s of case %s: %w", m, c.ID, err)
			}
		}
		for _, ff := range cf.Folders {
			err := s.folders.Create(ctx, &models.Folder{CaseID: c.ID, Name: ff.Name, Color: ff.Color, CreatedAt: time.Now().UTC()})
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			if err != nil {
				return fmt.Errorf("seed folder %q of case %s: %w", ff.Name, c.ID, err)
			}
			folders++
		}
	}

	s.logger.Info("fixtures applied",
		"staff", len(fx.Staff),
		"cases", len(fx.Cases),
		"folders_created", folders,
	)
	return nil
}
