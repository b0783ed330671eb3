package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tracker/internal/auth"
	"tracker/internal/repository"
	"tracker/internal/service"
)

// SprintHandler serves sprint endpoints.
type SprintHandler struct {
	svc service.SprintService
}

// NewSprintHandler creates a sprint handler.
func NewSprintHandler(svc service.SprintService) *SprintHandler {
	return &SprintHandler{svc: svc}
}

// ListSprints godoc
// @Summary List sprints
// @Tags sprints
// @Produce json
// @Security BearerAuth
// @Param project_id query int false "Only sprints of this project"
// @Success 200 {array} model.Sprint
// @Failure 400 {object} errors.ErrorResponse
// @Router /sprints [get]
func (h *SprintHandler) ListSprints(c echo.Context) error {
	projectID, err := queryID(c, "project_id")
	if err != nil {
		return err
	}
	sprints, err := h.svc.List(c.Request().Context(), auth.CurrentPrincipal(c), repository.SprintFilter{ProjectID: projectID})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sprints)
}

// GetSprint godoc
// @Summary Get sprint by id
// @Tags sprints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sprint ID"
// @Success 200 {object} model.Sprint
// @Failure 404 {object} errors.ErrorResponse
// @Router /sprints/{id} [get]
func (h *SprintHandler) GetSprint(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	sprint, err := h.svc.Get(c.Request().Context(), auth.CurrentPrincipal(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sprint)
}

// CreateSprint godoc
// @Summary Create sprint
// @Description Admins and team leads only. end_date must be after start_date.
// @Tags sprints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sprint body service.CreateSprintInput true "Sprint"
// @Success 200 {object} model.Sprint
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sprints [post]
func (h *SprintHandler) CreateSprint(c echo.Context) error {
	p := auth.CurrentPrincipal(c)
	if err := auth.RequireAdminOrTeamLead(p); err != nil {
		return respondError(c, err)
	}
	var in service.CreateSprintInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	sprint, err := h.svc.Create(c.Request().Context(), p, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sprint)
}

// UpdateSprint godoc
// @Summary Update sprint
// @Tags sprints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sprint ID"
// @Param sprint body service.UpdateSprintInput true "Fields to change"
// @Success 200 {object} model.Sprint
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sprints/{id} [put]
func (h *SprintHandler) UpdateSprint(c echo.Context) error {
	p := auth.CurrentPrincipal(c)
	if err := auth.RequireAdminOrTeamLead(p); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in service.UpdateSprintInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	sprint, err := h.svc.Update(c.Request().Context(), p, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sprint)
}

// DeleteSprint godoc
// @Summary Delete sprint
// @Description Stories in the sprint are kept and left unscheduled.
// @Tags sprints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sprint ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sprints/{id} [delete]
func (h *SprintHandler) DeleteSprint(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), auth.CurrentPrincipal(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Sprint deleted successfully"})
}
