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

// CreateSprintInput is the payload for creating a sprint.
type CreateSprintInput struct {
	Name      string             `json:"name" validate:"required,max=255"`
	Goal      *string            `json:"goal"`
	Status    model.SprintStatus `json:"status" validate:"omitempty,enum"`
	ProjectID uint               `json:"project_id" validate:"required"`
	StartDate time.Time          `json:"start_date" validate:"required"`
	EndDate   time.Time          `json:"end_date" validate:"required"`
}

// UpdateSprintInput is a partial sprint update. The owning project cannot change.
type UpdateSprintInput struct {
	Name      patch.Field[string]             `json:"name" swaggertype:"string"`
	Goal      patch.Field[string]             `json:"goal" swaggertype:"string"`
	Status    patch.Field[model.SprintStatus] `json:"status" swaggertype:"string"`
	StartDate patch.Field[time.Time]          `json:"start_date" swaggertype:"string"`
	EndDate   patch.Field[time.Time]          `json:"end_date" swaggertype:"string"`
}

// SprintService exposes sprint operations.
type SprintService interface {
	List(ctx context.Context, p *auth.Principal, filter repository.SprintFilter) ([]model.Sprint, error)
	Get(ctx context.Context, p *auth.Principal, id uint) (*model.Sprint, error)
	Create(ctx context.Context, p *auth.Principal, in CreateSprintInput) (*model.Sprint, error)
	Update(ctx context.Context, p *auth.Principal, id uint, in UpdateSprintInput) (*model.Sprint, error)
	Delete(ctx context.Context, p *auth.Principal, id uint) error
}

type sprintService struct {
	store *repository.Store
}

// NewSprintService builds a SprintService.
func NewSprintService(store *repository.Store) SprintService {
	return &sprintService{store: store}
}

func (s *sprintService) List(ctx context.Context, p *auth.Principal, filter repository.SprintFilter) ([]model.Sprint, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.store.Repos().Sprints.List(ctx, filter)
}

func (s *sprintService) Get(ctx context.Context, p *auth.Principal, id uint) (*model.Sprint, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	sprint, err := s.store.Repos().Sprints.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, errors.ErrSprintNotFound)
	}
	return sprint, nil
}

func (s *sprintService) Create(ctx context.Context, p *auth.Principal, in CreateSprintInput) (*model.Sprint, error) {
	if err := auth.RequireAdminOrTeamLead(p); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if blank(in.Name) {
		return nil, errors.Validation("name is required")
	}
	if !in.StartDate.Before(in.EndDate) {
		return nil, errors.ErrInvalidDateRange
	}
	if in.Status == "" {
		in.Status = model.SprintStatusPlanning
	}

	sprint := &model.Sprint{
		Name:      in.Name,
		Goal:      in.Goal,
		Status:    in.Status,
		ProjectID: in.ProjectID,
		CreatedBy: p.UserID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if _, err := repos.Projects.FindByID(ctx, in.ProjectID); err != nil {
			return translateNotFound(err, errors.ErrProjectNotFound)
		}
		if err := repos.Sprints.Create(ctx, sprint); err != nil {
			return fmt.Errorf("create sprint: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sprint, nil
}

// Update checks date ordering against the values the sprint will have after
// the update, whichever of them the payload supplies.
func (s *sprintService) Update(ctx context.Context, p *auth.Principal, id uint, in UpdateSprintInput) (*model.Sprint, error) {
	if err := auth.RequireAdminOrTeamLead(p); err != nil {
		return nil, err
	}

	var sprint *model.Sprint
	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		sprint, err = repos.Sprints.FindByID(ctx, id)
		if err != nil {
			return translateNotFound(err, errors.ErrSprintNotFound)
		}

		if err := checkText("name", in.Name, maxNameLength); err != nil {
			return err
		}
		if err := checkEnum("status", in.Status); err != nil {
			return err
		}
		if err := notNull("start_date", in.StartDate); err != nil {
			return err
		}
		if err := notNull("end_date", in.EndDate); err != nil {
			return err
		}

		start, end := sprint.StartDate, sprint.EndDate
		in.StartDate.Apply(&start)
		in.EndDate.Apply(&end)
		if !start.Before(end) {
			return errors.ErrInvalidDateRange
		}

		in.Name.Apply(&sprint.Name)
		in.Goal.ApplyNullable(&sprint.Goal)
		in.Status.Apply(&sprint.Status)
		sprint.StartDate, sprint.EndDate = start, end

		if err := repos.Sprints.Update(ctx, sprint); err != nil {
			return fmt.Errorf("update sprint: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sprint, nil
}

// Delete removes the sprint and unschedules its stories.
func (s *sprintService) Delete(ctx context.Context, p *auth.Principal, id uint) error {
	if err := auth.RequireAdminOrTeamLead(p); err != nil {
		return err
	}

	return s.store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if _, err := repos.Sprints.FindByID(ctx, id); err != nil {
			return translateNotFound(err, errors.ErrSprintNotFound)
		}
		if err := repos.Stories.DetachSprint(ctx, id); err != nil {
			return fmt.Errorf("detach stories: %w", err)
		}
		if err := repos.Sprints.Delete(ctx, id); err != nil {
			return translateNotFound(err, errors.ErrSprintNotFound)
		}
		return nil
	})
}
