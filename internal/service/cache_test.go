package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/auth"
	"tracker/internal/errors"
	"tracker/internal/model"
	"tracker/internal/patch"
	"tracker/internal/testutil"
)

func TestProjectService_CachedGet(t *testing.T) {
	store, db := newTestStore(t)
	client, mr := newTestCache(t)
	svc := NewProjectService(store, client)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, model.RoleAdmin)
	project := testutil.CreateProject(t, db, admin, "T&D")
	key := fmt.Sprintf("tracker:project:%d", project.ID)
	p := principalFor(admin)

	_, err := svc.Get(ctx, p, project.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))
	assert.InDelta(t, projectCacheTTL.Seconds(), mr.TTL(key).Seconds(), 1)

	// Served from the cache while the row changes underneath.
	require.NoError(t, db.Model(&model.Project{}).Where("id = ?", project.ID).Update("name", "Renamed").Error)
	got, err := svc.Get(ctx, p, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.Name, got.Name)

	_, err = svc.Update(ctx, p, project.ID, UpdateProjectInput{Name: patch.Value("Training")})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key))
	got, err = svc.Get(ctx, p, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Training", got.Name)

	require.NoError(t, svc.Delete(ctx, p, project.ID))
	assert.False(t, mr.Exists(key))
	_, err = svc.Get(ctx, p, project.ID)
	assert.ErrorIs(t, err, errors.ErrProjectNotFound)
}

func TestProjectService_FailedInvalidationFailsWrite(t *testing.T) {
	store, db := newTestStore(t)
	client, mr := newTestCache(t)
	svc := NewProjectService(store, client)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, model.RoleAdmin)
	project := testutil.CreateProject(t, db, admin, "ADMS")
	p := principalFor(admin)

	_, err := svc.Get(ctx, p, project.ID)
	require.NoError(t, err)

	mr.SetError("ERR redis unavailable")
	_, err = svc.Update(ctx, p, project.ID, UpdateProjectInput{Prefix: patch.Value("AMS")})
	assert.Error(t, err)
	assert.Error(t, svc.Delete(ctx, p, project.ID))
	mr.SetError("")

	stored, err := store.Repos().Projects.FindByID(ctx, project.ID)
	require.NoError(t, err, "delete must roll back")
	assert.Equal(t, "ADMS", stored.Prefix, "update must roll back")

	got, err := svc.Get(ctx, p, project.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Prefix, got.Prefix)
}

func TestUserService_CachedGet(t *testing.T) {
	store, db := newTestStore(t)
	client, mr := newTestCache(t)
	svc := NewUserService(store, client)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, model.RoleAdmin)
	lead := testutil.CreateUser(t, db, model.RoleTeamLead)
	key := fmt.Sprintf("tracker:user:%d", lead.ID)

	_, err := svc.Get(ctx, principalFor(admin), lead.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(key))
	cached, err := mr.Get(key)
	require.NoError(t, err)
	assert.NotContains(t, cached, lead.PasswordHash)

	_, err = svc.Update(ctx, principalFor(admin), lead.ID, UpdateUserInput{Role: patch.Value(model.RoleUser)})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key))

	got, err := svc.Get(ctx, principalFor(admin), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, got.Role)
}

func TestUserService_FindByIDReadsStore(t *testing.T) {
	store, db := newTestStore(t)
	client, _ := newTestCache(t)
	svc := NewUserService(store, client)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, model.RoleAdmin)
	lead := testutil.CreateUser(t, db, model.RoleTeamLead)

	_, err := svc.Get(ctx, principalFor(admin), lead.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", lead.ID).Update("role", model.RoleUser).Error)

	resolved, err := svc.FindByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, resolved.Role)
	assert.ErrorIs(t, auth.RequireAdminOrTeamLead(principalFor(resolved)), errors.ErrForbidden)
}

func TestUserService_FailedInvalidationRollsBackRoleChange(t *testing.T) {
	store, db := newTestStore(t)
	client, mr := newTestCache(t)
	svc := NewUserService(store, client)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, model.RoleAdmin)
	lead := testutil.CreateUser(t, db, model.RoleTeamLead)

	_, err := svc.Get(ctx, principalFor(admin), lead.ID)
	require.NoError(t, err)

	mr.SetError("ERR redis unavailable")
	_, err = svc.Update(ctx, principalFor(admin), lead.ID, UpdateUserInput{Role: patch.Value(model.RoleUser)})
	assert.Error(t, err)
	mr.SetError("")

	stored, err := svc.FindByID(ctx, lead.ID)
	require.NoError(t, err)
	got, err := svc.Get(ctx, principalFor(admin), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Role, got.Role)
	assert.Equal(t, model.RoleTeamLead, stored.Role)
}

func TestAuthService_RefreshAndLogoutWithRedis(t *testing.T) {
	store, _ := newTestStore(t)
	client, mr := newTestCache(t)
	jwtService := auth.NewJWTService("test-secret", 0, 0)
	tokens := auth.NewTokenStore(client)
	svc := NewAuthService(store, jwtService, tokens)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "shantnu", Email: "shantnu@example.com", Password: "password123", FullName: "Shantnu"})
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "shantnu", "password123")
	require.NoError(t, err)

	refreshClaims, err := jwtService.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, mr.Exists("tracker:refresh_token:"+refreshClaims.ID))

	access, err := svc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	accessClaims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	user, err := store.Repos().Users.FindByUsername(ctx, "shantnu")
	require.NoError(t, err)
	p := principalFor(user)
	p.TokenID = accessClaims.ID
	p.TokenExpiry = accessClaims.ExpiresAt.Time

	require.NoError(t, svc.Logout(ctx, p, pair.RefreshToken))

	_, err = svc.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)

	revoked, err := tokens.IsAccessTokenBlacklisted(ctx, accessClaims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Greater(t, mr.TTL("tracker:blacklist:access_token:"+accessClaims.ID), time.Duration(0))
}
