package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tracker/internal/auth"
	"tracker/internal/cache"
	"tracker/internal/errors"
	"tracker/internal/model"
	"tracker/internal/patch"
	"tracker/internal/repository"
)

const (
	projectCacheTTL = 5 * time.Minute
	maxPrefixLength = 32
)

// CreateProjectInput is the payload for creating a project.
type CreateProjectInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Prefix      string  `json:"prefix" validate:"required,max=32"`
	Description *string `json:"description"`
	TeamLeadID  *uint   `json:"team_lead_id"`
}

// UpdateProjectInput is a partial project update.
type UpdateProjectInput struct {
	Name        patch.Field[string] `json:"name" swaggertype:"string"`
	Prefix      patch.Field[string] `json:"prefix" swaggertype:"string"`
	Description patch.Field[string] `json:"description" swaggertype:"string"`
	TeamLeadID  patch.Field[uint]   `json:"team_lead_id" swaggertype:"integer"`
}

// ProjectService exposes project operations.
type ProjectService interface {
	List(ctx context.Context, p *auth.Principal) ([]model.Project, error)
	Get(ctx context.Context, p *auth.Principal, id uint) (*model.Project, error)
	Create(ctx context.Context, p *auth.Principal, in CreateProjectInput) (*model.Project, error)
	Update(ctx context.Context, p *auth.Principal, id uint, in UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, p *auth.Principal, id uint) error
}

type projectService struct {
	store *repository.Store
	cache *cache.Client
}

// NewProjectService builds a ProjectService with repository store and cache.
func NewProjectService(store *repository.Store, cache *cache.Client) ProjectService {
	return &projectService{store: store, cache: cache}
}

// Writers invalidate the cached project inside their transaction and again
// after commit. A failed invalidation fails the write.
func (s *projectService) cacheKey(id uint) string {
	return fmt.Sprintf("project:%d", id)
}

func (s *projectService) List(ctx context.Context, p *auth.Principal) ([]model.Project, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.store.Repos().Projects.List(ctx)
}

func (s *projectService) Get(ctx context.Context, p *auth.Principal, id uint) (*model.Project, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	var cached model.Project
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	project, err := s.store.Repos().Projects.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, errors.ErrProjectNotFound)
	}
	_ = s.cache.SetJSON(ctx, s.cacheKey(id), project, projectCacheTTL)
	return project, nil
}

func (s *projectService) Create(ctx context.Context, p *auth.Principal, in CreateProjectInput) (*model.Project, error) {
	if err := auth.RequireAdminOrTeamLead(p); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if blank(in.Name) || blank(in.Prefix) {
		return nil, errors.Validation("name and prefix must not be blank")
	}

	project := &model.Project{
		Name:        in.Name,
		Prefix:      in.Prefix,
		Description: in.Description,
		CreatedBy:   p.UserID,
		TeamLeadID:  in.TeamLeadID,
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if err := ensurePrefixFree(ctx, repos, in.Prefix, 0); err != nil {
			return err
		}
		if err := ensureUser(ctx, repos, in.TeamLeadID); err != nil {
			return err
		}
		if err := repos.Projects.Create(ctx, project); err != nil {
			if stderrors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.ErrPrefixTaken
			}
			return fmt.Errorf("create project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Update(ctx context.Context, p *auth.Principal, id uint, in UpdateProjectInput) (*model.Project, error) {
	if err := auth.RequireAdminOrTeamLead(p); err != nil {
		return nil, err
	}

	var project *model.Project
	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		// Locked so a concurrent story creation cannot lose its story_seq bump.
		var err error
		project, err = repos.Projects.FindByIDForUpdate(ctx, id)
		if err != nil {
			return translateNotFound(err, errors.ErrProjectNotFound)
		}

		if err := checkText("name", in.Name, maxNameLength); err != nil {
			return err
		}
		if err := checkText("prefix", in.Prefix, maxPrefixLength); err != nil {
			return err
		}

		if in.Prefix.Present() && in.Prefix.Value != project.Prefix {
			if err := ensurePrefixFree(ctx, repos, in.Prefix.Value, project.ID); err != nil {
				return err
			}
		}
		if in.TeamLeadID.Present() {
			if err := ensureUser(ctx, repos, &in.TeamLeadID.Value); err != nil {
				return err
			}
		}

		in.Name.Apply(&project.Name)
		in.Prefix.Apply(&project.Prefix)
		in.Description.ApplyNullable(&project.Description)
		in.TeamLeadID.ApplyNullable(&project.TeamLeadID)

		if err := repos.Projects.Update(ctx, project); err != nil {
			if stderrors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.ErrPrefixTaken
			}
			return fmt.Errorf("update project: %w", err)
		}
		return s.cache.Invalidate(ctx, s.cacheKey(id))
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, s.cacheKey(id)); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete refuses to remove a project that still owns sprints or stories.
func (s *projectService) Delete(ctx context.Context, p *auth.Principal, id uint) error {
	if err := auth.RequireAdminOrTeamLead(p); err != nil {
		return err
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if _, err := repos.Projects.FindByIDForUpdate(ctx, id); err != nil {
			return translateNotFound(err, errors.ErrProjectNotFound)
		}
		busy, err := repos.Projects.HasDependents(ctx, id)
		if err != nil {
			return fmt.Errorf("count project dependents: %w", err)
		}
		if busy {
			return errors.ErrProjectNotEmpty
		}
		if err := repos.Projects.Delete(ctx, id); err != nil {
			return translateNotFound(err, errors.ErrProjectNotFound)
		}
		return s.cache.Invalidate(ctx, s.cacheKey(id))
	})
	if err != nil {
		return err
	}

	return s.cache.Invalidate(ctx, s.cacheKey(id))
}

func ensurePrefixFree(ctx context.Context, repos *repository.Repositories, prefix string, ownerID uint) error {
	existing, err := repos.Projects.FindByPrefix(ctx, prefix)
	if err == nil && existing.ID != ownerID {
		return errors.ErrPrefixTaken
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check prefix: %w", err)
	}
	return nil
}
