package auth

import (
	"context"
	"time"

	"tracker/internal/errors"
	"tracker/internal/model"
)

// Principal is the authenticated caller a request acts as.
type Principal struct {
	UserID   uint
	Username string
	Role     model.Role
	// TokenID and TokenExpiry identify the access token the request carried, so
	// it can be revoked on logout.
	TokenID     string
	TokenExpiry time.Time
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller stored in ctx, or nil.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// isAdminOrTeamLead is the privileged-role predicate. Every role is listed so a
// new role has to be placed on one side explicitly.
func isAdminOrTeamLead(r model.Role) bool {
	switch r {
	case model.RoleAdmin, model.RoleTeamLead:
		return true
	case model.RoleUser:
		return false
	default:
		return false
	}
}

func isAdmin(r model.Role) bool {
	switch r {
	case model.RoleAdmin:
		return true
	case model.RoleTeamLead, model.RoleUser:
		return false
	default:
		return false
	}
}

// RequireAuthenticated fails with ErrUnauthorized unless p is a valid caller.
func RequireAuthenticated(p *Principal) error {
	if p == nil || p.UserID == 0 || !p.Role.Valid() {
		return errors.ErrUnauthorized
	}
	return nil
}

// RequireAdminOrTeamLead guards project and sprint mutations.
func RequireAdminOrTeamLead(p *Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !isAdminOrTeamLead(p.Role) {
		return errors.ErrForbidden
	}
	return nil
}

// CanDeleteStory allows privileged roles and the story's creator.
func CanDeleteStory(p *Principal, story *model.Story) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if isAdminOrTeamLead(p.Role) || story.CreatedBy == p.UserID {
		return nil
	}
	return errors.ErrForbidden
}

// CanUpdateUser allows users to edit themselves and admins to edit anyone.
// Only admins may change a role.
func CanUpdateUser(p *Principal, targetID uint, changesRole bool) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if isAdmin(p.Role) {
		return nil
	}
	if changesRole || p.UserID != targetID {
		return errors.ErrForbidden
	}
	return nil
}
