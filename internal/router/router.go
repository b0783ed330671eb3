package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"tracker/internal/config"
	"tracker/internal/handler"
	"tracker/internal/validation"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Projects *handler.ProjectHandler
	Sprints  *handler.SprintHandler
	Stories  *handler.StoryHandler
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Register wires routes and middleware. authMiddleware guards everything
// except registration, login, token refresh, health and docs.
func Register(e *echo.Echo, cfg *config.Config, logger *slog.Logger, h Handlers, authMiddleware echo.MiddlewareFunc, deps map[string]Pinger) {
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Validator = &CustomValidator{validator: validation.New()}

	e.GET("/healthz", func(c echo.Context) error {
		status := map[string]string{}
		code := http.StatusOK
		for name, dep := range deps {
			if err := dep.Ping(c.Request().Context()); err != nil {
				status[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "ok"
		}
		return c.JSON(code, status)
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// Secured routes (require JWT authentication)
	secured := api.Group("", authMiddleware)

	secured.POST("/auth/logout", h.Auth.Logout)

	secured.GET("/users", h.Users.ListUsers)
	secured.GET("/users/me", h.Users.Me)
	secured.GET("/users/:id", h.Users.GetUser)
	secured.PUT("/users/:id", h.Users.UpdateUser)

	secured.GET("/projects", h.Projects.ListProjects)
	secured.POST("/projects", h.Projects.CreateProject)
	secured.GET("/projects/:id", h.Projects.GetProject)
	secured.PUT("/projects/:id", h.Projects.UpdateProject)
	secured.DELETE("/projects/:id", h.Projects.DeleteProject)

	secured.GET("/sprints", h.Sprints.ListSprints)
	secured.POST("/sprints", h.Sprints.CreateSprint)
	secured.GET("/sprints/:id", h.Sprints.GetSprint)
	secured.PUT("/sprints/:id", h.Sprints.UpdateSprint)
	secured.DELETE("/sprints/:id", h.Sprints.DeleteSprint)

	secured.GET("/stories", h.Stories.ListStories)
	secured.POST("/stories", h.Stories.CreateStory)
	secured.GET("/stories/:id", h.Stories.GetStory)
	secured.PUT("/stories/:id", h.Stories.UpdateStory)
	secured.DELETE("/stories/:id", h.Stories.DeleteStory)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return validation.Struct(cv.validator, i)
}
