package service

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/gorm"

	"tracker/internal/auth"
	"tracker/internal/cache"
	"tracker/internal/model"
	"tracker/internal/repository"
	"tracker/internal/testutil"
)

func newTestStore(t *testing.T) (*repository.Store, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return repository.NewStore(db), db
}

// newTestCache returns a cache client backed by an in-process redis server.
func newTestCache(t *testing.T) (*cache.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0, "tracker")
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func principalFor(u *model.User) *auth.Principal {
	return &auth.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}
