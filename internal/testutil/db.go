// Package testutil provides shared fixtures for tests that need a real
// database: a migrated SQLite file per test and helpers to insert rows.
package testutil

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"tracker/internal/db"
	"tracker/internal/model"
)

var counter atomic.Uint64

// NewDB opens a migrated SQLite database in a per-test temporary directory.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open("sqlite", filepath.Join(t.TempDir(), "tracker.db"), nil, "error")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

// CreateUser inserts a user with the given role and a unique username.
func CreateUser(t testing.TB, gormDB *gorm.DB, role model.Role) *model.User {
	t.Helper()
	n := counter.Add(1)
	user := &model.User{
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "not-a-real-hash",
		FullName:     fmt.Sprintf("User %d", n),
		Role:         role,
	}
	if err := gormDB.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateProject inserts a project owned by creator.
func CreateProject(t testing.TB, gormDB *gorm.DB, creator *model.User, prefix string) *model.Project {
	t.Helper()
	project := &model.Project{
		Name:      "Project " + prefix,
		Prefix:    prefix,
		CreatedBy: creator.ID,
	}
	if err := gormDB.Create(project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}
