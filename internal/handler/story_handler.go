package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tracker/internal/auth"
	"tracker/internal/model"
	"tracker/internal/repository"
	"tracker/internal/service"
)

// StoryHandler serves story endpoints.
type StoryHandler struct {
	svc service.StoryService
}

// NewStoryHandler creates a story handler.
func NewStoryHandler(svc service.StoryService) *StoryHandler {
	return &StoryHandler{svc: svc}
}

// ListStories godoc
// @Summary List stories
// @Description Filters combine with AND.
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param project_id query int false "Project ID"
// @Param status query string false "Status" Enums(Backlog, To Do, In Progress, Blocked, Validation, Completed)
// @Param assignee_id query int false "Assignee user ID"
// @Success 200 {array} model.Story
// @Failure 400 {object} errors.ErrorResponse
// @Router /stories [get]
func (h *StoryHandler) ListStories(c echo.Context) error {
	var filter repository.StoryFilter
	var err error
	if filter.ProjectID, err = queryID(c, "project_id"); err != nil {
		return err
	}
	if filter.AssigneeID, err = queryID(c, "assignee_id"); err != nil {
		return err
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := model.StoryStatus(raw)
		if !status.Valid() {
			return badRequest("invalid status")
		}
		filter.Status = &status
	}

	stories, err := h.svc.List(c.Request().Context(), auth.CurrentPrincipal(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stories)
}

// GetStory godoc
// @Summary Get story by id
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Success 200 {object} model.Story
// @Failure 404 {object} errors.ErrorResponse
// @Router /stories/{id} [get]
func (h *StoryHandler) GetStory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	story, err := h.svc.Get(c.Request().Context(), auth.CurrentPrincipal(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, story)
}

// CreateStory godoc
// @Summary Create story
// @Description The story number is generated from the project prefix.
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param story body service.CreateStoryInput true "Story"
// @Success 200 {object} model.Story
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /stories [post]
func (h *StoryHandler) CreateStory(c echo.Context) error {
	var in service.CreateStoryInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	story, err := h.svc.Create(c.Request().Context(), auth.CurrentPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, story)
}

// UpdateStory godoc
// @Summary Update story
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Param story body service.UpdateStoryInput true "Fields to change"
// @Success 200 {object} model.Story
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /stories/{id} [put]
func (h *StoryHandler) UpdateStory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in service.UpdateStoryInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	story, err := h.svc.Update(c.Request().Context(), auth.CurrentPrincipal(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, story)
}

// DeleteStory godoc
// @Summary Delete story
// @Description Admins or team leads may delete any story; other users only their own.
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /stories/{id} [delete]
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), auth.CurrentPrincipal(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Story deleted successfully"})
}
