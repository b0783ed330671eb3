package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tracker/internal/auth"
	"tracker/internal/service"
)

// ProjectHandler serves project endpoints.
type ProjectHandler struct {
	svc service.ProjectService
}

// NewProjectHandler creates a project handler.
func NewProjectHandler(svc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects godoc
// @Summary List projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Project
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	projects, err := h.svc.List(c.Request().Context(), auth.CurrentPrincipal(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, projects)
}

// GetProject godoc
// @Summary Get project by id
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	project, err := h.svc.Get(c.Request().Context(), auth.CurrentPrincipal(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, project)
}

// CreateProject godoc
// @Summary Create project
// @Description Admins and team leads only. The prefix must be unique.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body service.CreateProjectInput true "Project"
// @Success 200 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	p := auth.CurrentPrincipal(c)
	if err := auth.RequireAdminOrTeamLead(p); err != nil {
		return respondError(c, err)
	}
	var in service.CreateProjectInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	project, err := h.svc.Create(c.Request().Context(), p, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, project)
}

// UpdateProject godoc
// @Summary Update project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param project body service.UpdateProjectInput true "Fields to change"
// @Success 200 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	p := auth.CurrentPrincipal(c)
	if err := auth.RequireAdminOrTeamLead(p); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in service.UpdateProjectInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	project, err := h.svc.Update(c.Request().Context(), p, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Delete project
// @Description Fails while the project still has sprints or stories.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), auth.CurrentPrincipal(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Project deleted successfully"})
}
