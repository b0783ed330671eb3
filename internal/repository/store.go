package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles one repository per entity, all bound to the same handle.
type Repositories struct {
	Users    UserRepository
	Projects ProjectRepository
	Sprints  SprintRepository
	Stories  StoryRepository
}

func newRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db),
		Projects: NewProjectRepository(db),
		Sprints:  NewSprintRepository(db),
		Stories:  NewStoryRepository(db),
	}
}

// Store owns the connection pool and hands out repositories, optionally
// bound to a transaction.
type Store struct {
	db    *gorm.DB
	repos *Repositories
}

// NewStore creates a Store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, repos: newRepositories(db)}
}

// Repos returns repositories that run outside any transaction.
func (s *Store) Repos() *Repositories {
	return s.repos
}

// WithTransaction executes fn within a database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, newRepositories(tx))
	})
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
