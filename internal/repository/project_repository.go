package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tracker/internal/model"
)

// ProjectRepository defines project persistence operations.
type ProjectRepository interface {
	Repository[model.Project]
	List(ctx context.Context) ([]model.Project, error)
	FindByPrefix(ctx context.Context, prefix string) (*model.Project, error)
	// FindByIDForUpdate locks the project row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Project, error)
	SetStorySeq(ctx context.Context, id uint, seq int) error
	HasDependents(ctx context.Context, id uint) (bool, error)
}

type projectRepository struct {
	gormRepository[model.Project]
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{gormRepository[model.Project]{db: db}}
}

// List lists all projects.
func (r *projectRepository) List(ctx context.Context) ([]model.Project, error) {
	return r.find(ctx)
}

// FindByPrefix finds a project by its ticket prefix.
func (r *projectRepository) FindByPrefix(ctx context.Context, prefix string) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("prefix = ?", prefix).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDForUpdate finds a project by ID with row-level lock for update.
func (r *projectRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// SetStorySeq records the highest issued story sequence number.
func (r *projectRepository) SetStorySeq(ctx context.Context, id uint, seq int) error {
	return r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", id).
		UpdateColumn("story_seq", seq).Error
}

// HasDependents reports whether any sprint or story still references the project.
func (r *projectRepository) HasDependents(ctx context.Context, id uint) (bool, error) {
	var sprints, stories int64
	if err := r.db.WithContext(ctx).Model(&model.Sprint{}).Where("project_id = ?", id).Count(&sprints).Error; err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Story{}).Where("project_id = ?", id).Count(&stories).Error; err != nil {
		return false, err
	}
	return sprints+stories > 0, nil
}
