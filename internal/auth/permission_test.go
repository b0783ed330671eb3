package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tracker/internal/errors"
	"tracker/internal/model"
)

func principal(id uint, role model.Role) *Principal {
	return &Principal{UserID: id, Username: "u", Role: role}
}

func TestRequireAdminOrTeamLead(t *testing.T) {
	tests := []struct {
		name          string
		principal     *Principal
		expectedError error
	}{
		{name: "admin", principal: principal(1, model.RoleAdmin)},
		{name: "team lead", principal: principal(1, model.RoleTeamLead)},
		{name: "user", principal: principal(1, model.RoleUser), expectedError: errors.ErrForbidden},
		{name: "nil principal", principal: nil, expectedError: errors.ErrUnauthorized},
		{name: "unknown role", principal: principal(1, model.Role("Guest")), expectedError: errors.ErrUnauthorized},
		{name: "zero id", principal: principal(0, model.RoleAdmin), expectedError: errors.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireAdminOrTeamLead(tt.principal)
			if tt.expectedError == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expectedError)
			}
		})
	}
}

func TestCanDeleteStory(t *testing.T) {
	story := &model.Story{CreatedBy: 10}

	assert.NoError(t, CanDeleteStory(principal(10, model.RoleUser), story))
	assert.NoError(t, CanDeleteStory(principal(11, model.RoleTeamLead), story))
	assert.NoError(t, CanDeleteStory(principal(12, model.RoleAdmin), story))
	assert.ErrorIs(t, CanDeleteStory(principal(13, model.RoleUser), story), errors.ErrForbidden)
	assert.ErrorIs(t, CanDeleteStory(nil, story), errors.ErrUnauthorized)
}

func TestCanUpdateUser(t *testing.T) {
	assert.NoError(t, CanUpdateUser(principal(5, model.RoleUser), 5, false))
	assert.ErrorIs(t, CanUpdateUser(principal(5, model.RoleUser), 5, true), errors.ErrForbidden)
	assert.ErrorIs(t, CanUpdateUser(principal(5, model.RoleTeamLead), 6, false), errors.ErrForbidden)
	assert.NoError(t, CanUpdateUser(principal(1, model.RoleAdmin), 6, true))
}

func TestPrincipalContext(t *testing.T) {
	assert.Nil(t, PrincipalFromContext(context.Background()))

	p := principal(3, model.RoleUser)
	ctx := WithPrincipal(context.Background(), p)
	assert.Same(t, p, PrincipalFromContext(ctx))
}
