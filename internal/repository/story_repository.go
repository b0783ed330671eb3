package repository

import (
	"context"

	"gorm.io/gorm"

	"tracker/internal/model"
)

// StoryFilter narrows List results. Nil fields are ignored; set fields are ANDed.
type StoryFilter struct {
	ProjectID  *uint
	Status     *model.StoryStatus
	AssigneeID *uint
}

// StoryRepository defines story persistence operations.
type StoryRepository interface {
	Repository[model.Story]
	List(ctx context.Context, filter StoryFilter) ([]model.Story, error)
	// StoryNumbers returns the display identifiers of every story in a project.
	StoryNumbers(ctx context.Context, projectID uint) ([]string, error)
	// DetachSprint unschedules every story of a sprint.
	DetachSprint(ctx context.Context, sprintID uint) error
}

type storyRepository struct {
	gormRepository[model.Story]
}

// NewStoryRepository creates a new story repository.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{gormRepository[model.Story]{db: db}}
}

// List lists stories matching filter.
func (r *storyRepository) List(ctx context.Context, filter StoryFilter) ([]model.Story, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		if filter.ProjectID != nil {
			db = db.Where("project_id = ?", *filter.ProjectID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		if filter.AssigneeID != nil {
			db = db.Where("assignee_id = ?", *filter.AssigneeID)
		}
		return db
	})
}

func (r *storyRepository) StoryNumbers(ctx context.Context, projectID uint) ([]string, error) {
	numbers := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&model.Story{}).
		Where("project_id = ?", projectID).
		Pluck("story_number", &numbers).Error
	return numbers, err
}

func (r *storyRepository) DetachSprint(ctx context.Context, sprintID uint) error {
	return r.db.WithContext(ctx).Model(&model.Story{}).
		Where("sprint_id = ?", sprintID).
		UpdateColumn("sprint_id", nil).Error
}
