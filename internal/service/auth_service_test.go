package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tracker/internal/auth"
	"tracker/internal/errors"
	"tracker/internal/model"
)

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newAuthFixture(t *testing.T) (AuthService, *auth.JWTService, *MockTokenStore) {
	t.Helper()
	store, _ := newTestStore(t)
	jwtService := auth.NewJWTService("test-secret", 0, 0)
	tokens := new(MockTokenStore)
	return NewAuthService(store, jwtService, tokens), jwtService, tokens
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		expectedError error
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Username: "shantnu", Email: "shantnu@example.com", Password: "password123", FullName: "Shantnu"},
		},
		{
			name:          "duplicate username",
			input:         RegisterInput{Username: "existing", Email: "other@example.com", Password: "password123", FullName: "Other"},
			expectedError: errors.ErrUserAlreadyExists,
		},
		{
			name:          "duplicate email",
			input:         RegisterInput{Username: "fresh", Email: "existing@example.com", Password: "password123", FullName: "Fresh"},
			expectedError: errors.ErrUserAlreadyExists,
		},
		{
			name:          "short password",
			input:         RegisterInput{Username: "short", Email: "short@example.com", Password: "123", FullName: "Short"},
			expectedError: errors.ErrValidation,
		},
		{
			name:          "invalid email",
			input:         RegisterInput{Username: "bad", Email: "bad", Password: "password123", FullName: "Bad"},
			expectedError: errors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newAuthFixture(t)
			_, err := svc.Register(context.Background(), RegisterInput{
				Username: "existing", Email: "existing@example.com", Password: "password123", FullName: "Existing",
			})
			require.NoError(t, err)

			user, err := svc.Register(context.Background(), tt.input)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.Username, user.Username)
			assert.Equal(t, model.RoleUser, user.Role)
			assert.True(t, auth.CheckPassword(user.PasswordHash, tt.input.Password))
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "tanay",
			password: "password123",
			setupMock: func(m *MockTokenStore) {
				m.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("uint"), auth.DefaultRefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:          "wrong password",
			username:      "tanay",
			password:      "nope",
			setupMock:     func(m *MockTokenStore) {},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:          "unknown user",
			username:      "ghost",
			password:      "password123",
			setupMock:     func(m *MockTokenStore) {},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, jwtService, tokens := newAuthFixture(t)
			tt.setupMock(tokens)
			_, err := svc.Register(context.Background(), RegisterInput{
				Username: "tanay", Email: "tanay@example.com", Password: "password123", FullName: "Tanay",
			})
			require.NoError(t, err)

			pair, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, pair)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "bearer", pair.TokenType)
				assert.Equal(t, "tanay", pair.User.Username)

				claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
				require.NoError(t, err)
				assert.Equal(t, pair.User.ID, claims.UserID)
				assert.Equal(t, model.RoleUser, claims.Role)

				_, err = jwtService.ValidateRefreshToken(pair.RefreshToken)
				assert.NoError(t, err)
			}

			tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	svc, jwtService, tokens := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username: "pranav", Email: "pranav@example.com", Password: "password123", FullName: "Pranav",
	})
	require.NoError(t, err)

	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)

	t.Run("stored token", func(t *testing.T) {
		tokens.On("GetRefreshToken", mock.Anything, tokenID).Return(user.ID, nil).Once()
		accessToken, err := svc.RefreshToken(ctx, refreshToken)
		require.NoError(t, err)
		claims, err := jwtService.ValidateAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("revoked token", func(t *testing.T) {
		tokens.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), assert.AnError).Once()
		_, err := svc.RefreshToken(ctx, refreshToken)
		assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		accessToken, err := jwtService.GenerateAccessToken(user)
		require.NoError(t, err)
		_, err = svc.RefreshToken(ctx, accessToken)
		assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
	})

	tokens.AssertExpectations(t)
}

func TestAuthService_Logout(t *testing.T) {
	svc, jwtService, tokens := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username: "abhishek", Email: "abhishek@example.com", Password: "password123", FullName: "Abhishek",
	})
	require.NoError(t, err)
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)

	p := &auth.Principal{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		TokenID:     "access-jti",
		TokenExpiry: time.Now().Add(10 * time.Minute),
	}

	tokens.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil).Once()
	tokens.On("BlacklistAccessToken", mock.Anything, "access-jti", mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= 10*time.Minute
	})).Return(nil).Once()

	require.NoError(t, svc.Logout(ctx, p, refreshToken))

	other := &auth.Principal{UserID: user.ID + 1, Username: "someone", Role: model.RoleUser}
	assert.ErrorIs(t, svc.Logout(ctx, other, refreshToken), errors.ErrInvalidRefreshToken)
	assert.ErrorIs(t, svc.Logout(ctx, nil, refreshToken), errors.ErrUnauthorized)

	tokens.AssertExpectations(t)
}
