package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tracker/internal/errors"
	"tracker/internal/patch"
	"tracker/internal/repository"
	"tracker/internal/validation"
)

const maxNameLength = 255

var validate = validation.New()

// translateNotFound swaps gorm's record-not-found for a domain sentinel.
func translateNotFound(err, target error) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func notNull[T any](name string, f patch.Field[T]) error {
	if f.Set && f.Null {
		return errors.Validation("%s cannot be null", name)
	}
	return nil
}

// checkText validates a non-nullable string member of an update payload.
func checkText(name string, f patch.Field[string], max int) error {
	if err := notNull(name, f); err != nil {
		return err
	}
	if !f.Present() {
		return nil
	}
	if strings.TrimSpace(f.Value) == "" {
		return errors.Validation("%s is required", name)
	}
	if max > 0 && len(f.Value) > max {
		return errors.Validation("%s must be at most %d characters", name, max)
	}
	return nil
}

// checkEnum validates a non-nullable enum member of an update payload.
func checkEnum[T validation.Enum](name string, f patch.Field[T]) error {
	if err := notNull(name, f); err != nil {
		return err
	}
	if f.Present() && !f.Value.Valid() {
		return errors.Validation("%s has invalid value %q", name, fmt.Sprint(f.Value))
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ensureUser checks that an optional user reference points at an existing user.
func ensureUser(ctx context.Context, repos *repository.Repositories, id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := repos.Users.FindByID(ctx, *id); err != nil {
		return translateNotFound(err, errors.ErrUserNotFound)
	}
	return nil
}

func validateStruct(v interface{}) error {
	return validation.Struct(validate, v)
}

func translateDuplicateUser(err error) error {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.ErrUserAlreadyExists
	}
	return fmt.Errorf("save user: %w", err)
}
