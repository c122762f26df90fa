package projects

import (
	"errors"

	"github.com/atakanuzun/showfolio-backend/internal/actor"
	"github.com/atakanuzun/showfolio-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	projectService *ProjectService
}

func NewProjectHandler(projectService *ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles POST /projects - creates a draft project.
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	userID, err := actor.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	project, err := h.projectService.Create(userID, &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) || errors.Is(err, ErrNameRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create project",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(toResponse(project))
}

// List handles GET /projects - published projects, optional category filter.
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	projects, total, err := h.projectService.List(c.Query("category"), limit, (page-1)*limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch projects",
		})
	}

	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = toResponse(&projects[i])
	}
	return c.JSON(ProjectListResponse{Projects: responses, Total: total, Page: page, Limit: limit})
}

// Mine handles GET /projects/mine - the caller's projects including drafts.
func (h *ProjectHandler) Mine(c *fiber.Ctx) error {
	userID, err := actor.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	projects, err := h.projectService.Mine(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch projects",
		})
	}

	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = toResponse(&projects[i])
	}
	return c.JSON(ProjectListResponse{Projects: responses, Total: int64(len(responses)), Page: 1, Limit: len(responses)})
}

// Get handles GET /projects/:slug.
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	a, _ := actor.FromCtx(c)
	project, err := h.projectService.GetBySlug(c.Params("slug"), a)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Project not found",
		})
	}
	return c.JSON(toResponse(project))
}

// Update handles PUT /projects/:id.
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	userID, err := actor.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid project ID",
		})
	}

	var req UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	project, err := h.projectService.Update(userID, projectID, &req)
	if err != nil {
		return projectError(c, err, "Failed to update project")
	}
	return c.JSON(toResponse(project))
}

// Delete handles DELETE /projects/:id.
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	userID, err := actor.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid project ID",
		})
	}

	if err := h.projectService.Delete(userID, projectID); err != nil {
		return projectError(c, err, "Failed to delete project")
	}
	return c.JSON(fiber.Map{"message": "Project deleted"})
}

// Publish handles POST /projects/:id/publish.
func (h *ProjectHandler) Publish(c *fiber.Ctx) error {
	return h.setPublished(c, true)
}

// Unpublish handles POST /projects/:id/unpublish.
func (h *ProjectHandler) Unpublish(c *fiber.Ctx) error {
	return h.setPublished(c, false)
}

func (h *ProjectHandler) setPublished(c *fiber.Ctx, published bool) error {
	userID, err := actor.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid project ID",
		})
	}

	var project *Project
	if published {
		project, err = h.projectService.Publish(userID, projectID)
	} else {
		project, err = h.projectService.Unpublish(userID, projectID)
	}
	if err != nil {
		return projectError(c, err, "Failed to change publish state")
	}
	return c.JSON(toResponse(project))
}

// DemoView handles POST /projects/:id/demo-view - identified or anonymous.
func (h *ProjectHandler) DemoView(c *fiber.Ctx) error {
	a, err := actor.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Login or X-Session-Token required",
		})
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid project ID",
		})
	}

	if err := h.projectService.RecordDemoView(a, projectID); err != nil {
		return projectError(c, err, "Failed to record demo view")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func projectError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Project not found",
		})
	case errors.Is(err, ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrNameRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
