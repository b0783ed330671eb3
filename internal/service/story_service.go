package service

import (
	"context"
	"fmt"
	"time"

	"tracker/internal/auth"
	"tracker/internal/errors"
	"tracker/internal/model"
	"tracker/internal/patch"
	"tracker/internal/repository"
)

const defaultStoryPoints = 1

// CreateStoryInput is the payload for creating a story. The story number is
// always assigned by the server.
type CreateStoryInput struct {
	Title              string              `json:"title" validate:"required,max=255"`
	Description        *string             `json:"description"`
	AcceptanceCriteria *string             `json:"acceptance_criteria"`
	StoryPoints        *int                `json:"story_points" validate:"omitempty,min=0"`
	Status             model.StoryStatus   `json:"status" validate:"omitempty,enum"`
	Priority           model.StoryPriority `json:"priority" validate:"omitempty,enum"`
	StoryType          model.StoryType     `json:"story_type" validate:"omitempty,enum"`
	ProjectID          uint                `json:"project_id" validate:"required"`
	AssigneeID         *uint               `json:"assignee_id"`
	SprintID           *uint               `json:"sprint_id"`
	DueDate            *time.Time          `json:"due_date"`
}

// UpdateStoryInput is a partial story update.
type UpdateStoryInput struct {
	Title              patch.Field[string]              `json:"title" swaggertype:"string"`
	Description        patch.Field[string]              `json:"description" swaggertype:"string"`
	AcceptanceCriteria patch.Field[string]              `json:"acceptance_criteria" swaggertype:"string"`
	StoryPoints        patch.Field[int]                 `json:"story_points" swaggertype:"integer"`
	Status             patch.Field[model.StoryStatus]   `json:"status" swaggertype:"string"`
	Priority           patch.Field[model.StoryPriority] `json:"priority" swaggertype:"string"`
	StoryType          patch.Field[model.StoryType]     `json:"story_type" swaggertype:"string"`
	AssigneeID         patch.Field[uint]                `json:"assignee_id" swaggertype:"integer"`
	SprintID           patch.Field[uint]                `json:"sprint_id" swaggertype:"integer"`
	DueDate            patch.Field[time.Time]           `json:"due_date" swaggertype:"string"`
}

// StoryService exposes story operations.
type StoryService interface {
	List(ctx context.Context, p *auth.Principal, filter repository.StoryFilter) ([]model.Story, error)
	Get(ctx context.Context, p *auth.Principal, id uint) (*model.Story, error)
	Create(ctx context.Context, p *auth.Principal, in CreateStoryInput) (*model.Story, error)
	Update(ctx context.Context, p *auth.Principal, id uint, in UpdateStoryInput) (*model.Story, error)
	Delete(ctx context.Context, p *auth.Principal, id uint) error
}

type storyService struct {
	store    *repository.Store
	numberer TicketNumberer
}

// NewStoryService builds a StoryService that numbers new stories with numberer.
func NewStoryService(store *repository.Store, numberer TicketNumberer) StoryService {
	if numberer == nil {
		numberer = NewTicketNumberer()
	}
	return &storyService{store: store, numberer: numberer}
}

func (s *storyService) List(ctx context.Context, p *auth.Principal, filter repository.StoryFilter) ([]model.Story, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, errors.Validation("status has invalid value %q", string(*filter.Status))
	}
	return s.store.Repos().Stories.List(ctx, filter)
}

func (s *storyService) Get(ctx context.Context, p *auth.Principal, id uint) (*model.Story, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	story, err := s.store.Repos().Stories.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, errors.ErrStoryNotFound)
	}
	return story, nil
}

func (s *storyService) Create(ctx context.Context, p *auth.Principal, in CreateStoryInput) (*model.Story, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if blank(in.Title) {
		return nil, errors.Validation("title is required")
	}

	story := &model.Story{
		Title:              in.Title,
		Description:        in.Description,
		AcceptanceCriteria: in.AcceptanceCriteria,
		StoryPoints:        defaultStoryPoints,
		Status:             model.StoryStatusBacklog,
		Priority:           model.StoryPriorityMedium,
		StoryType:          model.StoryTypeStory,
		ProjectID:          in.ProjectID,
		AssigneeID:         in.AssigneeID,
		CreatedBy:          p.UserID,
		SprintID:           in.SprintID,
		DueDate:            in.DueDate,
	}
	if in.StoryPoints != nil {
		story.StoryPoints = *in.StoryPoints
	}
	if in.Status != "" {
		story.Status = in.Status
	}
	if in.Priority != "" {
		story.Priority = in.Priority
	}
	if in.StoryType != "" {
		story.StoryType = in.StoryType
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		_, number, err := s.numberer.Reserve(ctx, repos, in.ProjectID)
		if err != nil {
			return err
		}
		if err := ensureUser(ctx, repos, in.AssigneeID); err != nil {
			return err
		}
		if err := ensureSprintInProject(ctx, repos, in.SprintID, in.ProjectID); err != nil {
			return err
		}

		story.StoryNumber = number
		if err := repos.Stories.Create(ctx, story); err != nil {
			return fmt.Errorf("create story %s: %w", number, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

// Update applies only the members present in the payload; the story number
// and owning project never change.
func (s *storyService) Update(ctx context.Context, p *auth.Principal, id uint, in UpdateStoryInput) (*model.Story, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	var story *model.Story
	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		story, err = repos.Stories.FindByID(ctx, id)
		if err != nil {
			return translateNotFound(err, errors.ErrStoryNotFound)
		}

		if err := validateStoryUpdate(in); err != nil {
			return err
		}
		if in.AssigneeID.Present() {
			if err := ensureUser(ctx, repos, &in.AssigneeID.Value); err != nil {
				return err
			}
		}
		if in.SprintID.Present() {
			if err := ensureSprintInProject(ctx, repos, &in.SprintID.Value, story.ProjectID); err != nil {
				return err
			}
		}

		in.Title.Apply(&story.Title)
		in.Description.ApplyNullable(&story.Description)
		in.AcceptanceCriteria.ApplyNullable(&story.AcceptanceCriteria)
		in.StoryPoints.Apply(&story.StoryPoints)
		in.Status.Apply(&story.Status)
		in.Priority.Apply(&story.Priority)
		in.StoryType.Apply(&story.StoryType)
		in.AssigneeID.ApplyNullable(&story.AssigneeID)
		in.SprintID.ApplyNullable(&story.SprintID)
		in.DueDate.ApplyNullable(&story.DueDate)

		if err := repos.Stories.Update(ctx, story); err != nil {
			return fmt.Errorf("update story: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

// Delete lets privileged roles remove any story and everyone else only their own.
func (s *storyService) Delete(ctx context.Context, p *auth.Principal, id uint) error {
	if err := auth.RequireAuthenticated(p); err != nil {
		return err
	}

	return s.store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		story, err := repos.Stories.FindByID(ctx, id)
		if err != nil {
			return translateNotFound(err, errors.ErrStoryNotFound)
		}
		if err := auth.CanDeleteStory(p, story); err != nil {
			return err
		}
		if err := repos.Stories.Delete(ctx, id); err != nil {
			return translateNotFound(err, errors.ErrStoryNotFound)
		}
		return nil
	})
}

func validateStoryUpdate(in UpdateStoryInput) error {
	if err := checkText("title", in.Title, maxNameLength); err != nil {
		return err
	}
	if err := notNull("story_points", in.StoryPoints); err != nil {
		return err
	}
	if in.StoryPoints.Present() && in.StoryPoints.Value < 0 {
		return errors.Validation("story_points must be at least 0")
	}
	if err := checkEnum("status", in.Status); err != nil {
		return err
	}
	if err := checkEnum("priority", in.Priority); err != nil {
		return err
	}
	return checkEnum("story_type", in.StoryType)
}

func ensureSprintInProject(ctx context.Context, repos *repository.Repositories, sprintID *uint, projectID uint) error {
	if sprintID == nil {
		return nil
	}
	sprint, err := repos.Sprints.FindByID(ctx, *sprintID)
	if err != nil {
		return translateNotFound(err, errors.ErrSprintNotFound)
	}
	if sprint.ProjectID != projectID {
		return errors.ErrSprintProjectMismatch
	}
	return nil
}
