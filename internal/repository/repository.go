package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the persistence contract shared by every entity kind.
type Repository[T any] interface {
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// gormRepository implements Repository for any gorm model with a uint primary key.
type gormRepository[T any] struct {
	db *gorm.DB
}

// Create inserts a new record and fills server-assigned fields.
func (r *gormRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// Update writes every column of entity, including zero values and NULLs.
func (r *gormRepository[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error
}

// FindByID returns gorm.ErrRecordNotFound when no row matches.
func (r *gormRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// Delete hard-deletes a row and returns gorm.ErrRecordNotFound when nothing matched.
func (r *gormRepository[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// find lists rows in insertion order after applying scopes.
func (r *gormRepository[T]) find(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	entities := make([]T, 0)
	if err := r.db.WithContext(ctx).Scopes(scopes...).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}
