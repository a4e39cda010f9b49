// Package project implements project CRUD. Deleting a project deletes every
// task that referenced it, not merely detaches them.
package project

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/pkg/optional"
	"github.com/prodhub/backend/pkg/pagination"
	"github.com/prodhub/backend/repository"
)

type UseCase struct {
	projects repository.ProjectRepository
	logger   *zap.Logger
}

func New(projects repository.ProjectRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		projects: projects,
		logger:   logger,
	}
}

// Patch is the raw project input for create and update.
type Patch struct {
	Name        optional.Field[string] `json:"name"`
	Description optional.Field[string] `json:"description"`
}

func validateName(f optional.Field[string]) (string, error) {
	name, ok := f.Value()
	if !ok {
		return "", domain.ErrProjectNameRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrProjectNameRequired
	}
	return name, nil
}

func (uc *UseCase) ListProjects(ctx context.Context, ownerID int64, params pagination.Params) (pagination.Page[domain.Project], error) {
	params = params.Normalize()

	total, err := uc.projects.Count(ctx, ownerID)
	if err != nil {
		return pagination.Page[domain.Project]{}, err
	}
	projects, err := uc.projects.List(ctx, ownerID, params.PerPage, params.Offset())
	if err != nil {
		return pagination.Page[domain.Project]{}, err
	}
	return pagination.NewPage(projects, total, params), nil
}

func (uc *UseCase) GetProject(ctx context.Context, ownerID, id int64) (*domain.Project, error) {
	return uc.projects.GetByID(ctx, ownerID, id)
}

func (uc *UseCase) CreateProject(ctx context.Context, ownerID int64, patch Patch) (*domain.Project, error) {
	name, err := validateName(patch.Name)
	if err != nil {
		return nil, err
	}

	description := ""
	if v, ok := patch.Description.Value(); ok {
		description = strings.TrimSpace(v)
	}

	return uc.projects.Create(ctx, &domain.Project{
		UserID:      ownerID,
		Name:        name,
		Description: description,
	})
}

func (uc *UseCase) UpdateProject(ctx context.Context, ownerID, id int64, patch Patch) (*domain.Project, error) {
	project, err := uc.projects.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	name, err := validateName(patch.Name)
	if err != nil {
		return nil, err
	}
	project.Name = name

	if patch.Description.IsSet() && !patch.Description.IsNull() {
		if v, ok := patch.Description.Value(); ok {
			project.Description = strings.TrimSpace(v)
		}
	}

	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (uc *UseCase) DeleteProject(ctx context.Context, ownerID, id int64) error {
	if _, err := uc.projects.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	if err := uc.projects.Delete(ctx, ownerID, id); err != nil {
		uc.logger.Error("project delete failed", zap.Int64("project_id", id), zap.Error(err))
		return err
	}
	return nil
}
