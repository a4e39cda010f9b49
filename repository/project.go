package repository

import (
	"context"

	"github.com/prodhub/backend/domain"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Project, error)
	List(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Project, error)
	Count(ctx context.Context, ownerID int64) (int64, error)
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	// Delete removes the project and every task referencing it.
	Delete(ctx context.Context, ownerID, id int64) error
}
