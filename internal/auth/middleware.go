package auth

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"tracker/internal/errors"
	"tracker/internal/model"
)

const (
	claimsContextKey    = "jwt_claims"
	principalContextKey = "principal"
)

// UserLookup resolves the user behind a token.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// Middleware returns an echo middleware that rejects requests without a valid,
// unrevoked access token and attaches the caller's Principal to the request.
// The role is read from the stored user record, not the token or a cache, so
// role changes apply immediately.
func Middleware(jwtService *JWTService, tokens TokenStoreInterface, users UserLookup, logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}

	parse := echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return jwtService.ValidateAccessToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized("missing or invalid token")
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*Claims)
			if !ok {
				return unauthorized("invalid token")
			}
			ctx := c.Request().Context()

			// fail safe: an unreachable blacklist lets the token through
			revoked, _ := tokens.IsAccessTokenBlacklisted(ctx, claims.ID)
			if revoked {
				return unauthorized("token has been revoked")
			}

			user, err := users.FindByID(ctx, claims.UserID)
			if err != nil {
				if stderrors.Is(err, gorm.ErrRecordNotFound) || stderrors.Is(err, errors.ErrUserNotFound) {
					return unauthorized("user no longer exists")
				}
				logger.Error("resolve principal", slog.Uint64("user_id", uint64(claims.UserID)), slog.String("error", err.Error()))
				return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
					Error: "internal server error",
					Code:  "INTERNAL_ERROR",
				})
			}

			p := &Principal{
				UserID:   user.ID,
				Username: user.Username,
				Role:     user.Role,
				TokenID:  claims.ID,
			}
			if claims.ExpiresAt != nil {
				p.TokenExpiry = claims.ExpiresAt.Time
			}
			c.Set(principalContextKey, p)
			c.SetRequest(c.Request().WithContext(WithPrincipal(ctx, p)))
			return next(c)
		})
	}
}

// CurrentPrincipal returns the caller attached by Middleware, or nil.
func CurrentPrincipal(c echo.Context) *Principal {
	if p, ok := c.Get(principalContextKey).(*Principal); ok {
		return p
	}
	return PrincipalFromContext(c.Request().Context())
}

func unauthorized(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: msg,
		Code:  "UNAUTHORIZED",
	})
}
