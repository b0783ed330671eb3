package service

import (
	"context"
	"fmt"
	"time"

	"tracker/internal/auth"
	"tracker/internal/cache"
	"tracker/internal/errors"
	"tracker/internal/model"
	"tracker/internal/patch"
	"tracker/internal/repository"
)

const (
	userCacheTTL      = 5 * time.Minute
	minPasswordLength = 6
)

// UpdateUserInput is a partial user update.
type UpdateUserInput struct {
	Username patch.Field[string]     `json:"username" swaggertype:"string"`
	Email    patch.Field[string]     `json:"email" swaggertype:"string"`
	FullName patch.Field[string]     `json:"full_name" swaggertype:"string"`
	Role     patch.Field[model.Role] `json:"role" swaggertype:"string"`
	Password patch.Field[string]     `json:"password" swaggertype:"string"`
}

// UserService exposes user operations.
type UserService interface {
	List(ctx context.Context, p *auth.Principal) ([]model.User, error)
	Get(ctx context.Context, p *auth.Principal, id uint) (*model.User, error)
	Update(ctx context.Context, p *auth.Principal, id uint, in UpdateUserInput) (*model.User, error)
	// FindByID resolves a user for authentication straight from the store.
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

type userService struct {
	store *repository.Store
	cache *cache.Client
}

// NewUserService builds a UserService with repository store and cache.
func NewUserService(store *repository.Store, cache *cache.Client) UserService {
	return &userService{store: store, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) FindByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.store.Repos().Users.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, errors.ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, p *auth.Principal) ([]model.User, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	return s.store.Repos().Users.List(ctx)
}

func (s *userService) Get(ctx context.Context, p *auth.Principal, id uint) (*model.User, error) {
	if err := auth.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

// Update lets users edit their own profile and admins edit anyone. Changing a
// role is reserved for admins.
func (s *userService) Update(ctx context.Context, p *auth.Principal, id uint, in UpdateUserInput) (*model.User, error) {
	if err := auth.CanUpdateUser(p, id, false); err != nil {
		return nil, err
	}

	var user *model.User
	err := s.store.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		user, err = repos.Users.FindByID(ctx, id)
		if err != nil {
			return translateNotFound(err, errors.ErrUserNotFound)
		}
		if in.Role.Present() && in.Role.Value != user.Role {
			if err := auth.CanUpdateUser(p, id, true); err != nil {
				return err
			}
		}

		if err := validateUserUpdate(in); err != nil {
			return err
		}

		username, email := user.Username, user.Email
		in.Username.Apply(&username)
		in.Email.Apply(&email)
		if username != user.Username || email != user.Email {
			taken, err := repos.Users.ExistsByUsernameOrEmail(ctx, username, email, user.ID)
			if err != nil {
				return fmt.Errorf("check user existence: %w", err)
			}
			if taken {
				return errors.ErrUserAlreadyExists
			}
		}

		if in.Password.Present() {
			hash, err := auth.HashPassword(in.Password.Value)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = hash
		}
		user.Username, user.Email = username, email
		in.FullName.Apply(&user.FullName)
		in.Role.Apply(&user.Role)

		if err := repos.Users.Update(ctx, user); err != nil {
			return translateDuplicateUser(err)
		}
		// Dropped before commit so a failed invalidation rolls the update back.
		return s.cache.Invalidate(ctx, s.cacheKey(id))
	})
	if err != nil {
		return nil, err
	}

	// Dropped again for readers that cached the pre-commit row.
	if err := s.cache.Invalidate(ctx, s.cacheKey(id)); err != nil {
		return nil, err
	}
	return user, nil
}

func validateUserUpdate(in UpdateUserInput) error {
	if err := checkText("username", in.Username, maxNameLength); err != nil {
		return err
	}
	if err := checkText("full_name", in.FullName, maxNameLength); err != nil {
		return err
	}
	if err := checkText("email", in.Email, maxNameLength); err != nil {
		return err
	}
	if in.Email.Present() {
		if err := validate.Var(in.Email.Value, "email"); err != nil {
			return errors.Validation("email must be a valid email")
		}
	}
	if err := checkEnum("role", in.Role); err != nil {
		return err
	}
	if err := notNull("password", in.Password); err != nil {
		return err
	}
	if in.Password.Present() && len(in.Password.Value) < minPasswordLength {
		return errors.Validation("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
