package repository

import (
	"context"

	"gorm.io/gorm"

	"tracker/internal/model"
)

// SprintFilter narrows List results. Nil fields are ignored.
type SprintFilter struct {
	ProjectID *uint
}

// SprintRepository defines sprint persistence operations.
type SprintRepository interface {
	Repository[model.Sprint]
	List(ctx context.Context, filter SprintFilter) ([]model.Sprint, error)
}

type sprintRepository struct {
	gormRepository[model.Sprint]
}

// NewSprintRepository creates a new sprint repository.
func NewSprintRepository(db *gorm.DB) SprintRepository {
	return &sprintRepository{gormRepository[model.Sprint]{db: db}}
}

// List lists sprints matching filter.
func (r *sprintRepository) List(ctx context.Context, filter SprintFilter) ([]model.Sprint, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		if filter.ProjectID != nil {
			db = db.Where("project_id = ?", *filter.ProjectID)
		}
		return db
	})
}
