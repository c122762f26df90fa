package ideas

import (
	"errors"

	"github.com/atakanuzun/showfolio-backend/internal/actor"
	"github.com/atakanuzun/showfolio-backend/internal/dto"
	"github.com/atakanuzun/showfolio-backend/internal/features/projects"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IdeaHandler struct {
	ideaService *IdeaService
}

func NewIdeaHandler(ideaService *IdeaService) *IdeaHandler {
	return &IdeaHandler{ideaService: ideaService}
}

// Create handles POST /projects/:id/idea - owner only.
func (h *IdeaHandler) Create(c *fiber.Ctx) error {
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

	var req CreateIdeaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	idea, err := h.ideaService.Create(userID, projectID, &req)
	if err != nil {
		return ideaError(c, err, "Failed to create idea")
	}
	return c.Status(fiber.StatusCreated).JSON(toResponse(idea))
}

// Get handles GET /projects/:id/idea.
func (h *IdeaHandler) Get(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid project ID",
		})
	}

	idea, err := h.ideaService.Get(projectID)
	if err != nil {
		return ideaError(c, err, "Failed to fetch idea")
	}
	return c.JSON(toResponse(idea))
}

// Update handles PUT /projects/:id/idea - owner only.
func (h *IdeaHandler) Update(c *fiber.Ctx) error {
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

	var req UpdateIdeaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	idea, err := h.ideaService.Update(userID, projectID, &req)
	if err != nil {
		return ideaError(c, err, "Failed to update idea")
	}
	return c.JSON(toResponse(idea))
}

// React handles POST /projects/:id/reactions - identified or anonymous.
func (h *IdeaHandler) React(c *fiber.Ctx) error {
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

	var req ReactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	idea, err := h.ideaService.React(a, projectID, req.Type)
	if err != nil {
		return ideaError(c, err, "Failed to record reaction")
	}
	return c.JSON(toResponse(idea))
}

func ideaError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, ErrIdeaNotFound), errors.Is(err, projects.ErrProjectNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrIdeaExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrOwnReactionDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrProblemRequired), errors.Is(err, ErrInvalidReaction), errors.Is(err, actor.ErrNoActor):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
