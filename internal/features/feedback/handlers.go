package feedback

import (
	"errors"

	"github.com/atakanuzun/showfolio-backend/internal/actor"
	"github.com/atakanuzun/showfolio-backend/internal/dto"
	"github.com/atakanuzun/showfolio-backend/internal/features/projects"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FeedbackHandler struct {
	feedbackService *FeedbackService
}

func NewFeedbackHandler(feedbackService *FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// Create handles POST /projects/:id/feedback - identified users only.
func (h *FeedbackHandler) Create(c *fiber.Ctx) error {
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

	var req CreateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	fb, err := h.feedbackService.Create(userID, projectID, &req)
	if err != nil {
		return feedbackError(c, err, "Failed to create feedback")
	}
	return c.Status(fiber.StatusCreated).JSON(toResponse(fb))
}

// List handles GET /projects/:id/feedback.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid project ID",
		})
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	list, total, err := h.feedbackService.ListForProject(projectID, limit, (page-1)*limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch feedback",
		})
	}

	responses := make([]FeedbackResponse, len(list))
	for i := range list {
		responses[i] = toResponse(&list[i])
	}
	return c.JSON(FeedbackListResponse{Feedback: responses, Total: total, Page: page, Limit: limit})
}

// Update handles PUT /feedback/:id - author only.
func (h *FeedbackHandler) Update(c *fiber.Ctx) error {
	userID, err := actor.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	feedbackID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid feedback ID",
		})
	}

	var req UpdateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	fb, err := h.feedbackService.Update(userID, feedbackID, &req)
	if err != nil {
		return feedbackError(c, err, "Failed to update feedback")
	}
	return c.JSON(toResponse(fb))
}

// Delete handles DELETE /feedback/:id - author only.
func (h *FeedbackHandler) Delete(c *fiber.Ctx) error {
	userID, err := actor.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	feedbackID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid feedback ID",
		})
	}

	if err := h.feedbackService.Delete(userID, feedbackID); err != nil {
		return feedbackError(c, err, "Failed to delete feedback")
	}
	return c.JSON(fiber.Map{"message": "Feedback deleted"})
}

func feedbackError(c *fiber.Ctx, err error, fallback string) error {
	var rejected *ContentRejectedError
	switch {
	case errors.As(err, &rejected):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: rejected.Message,
		})
	case errors.Is(err, ErrFeedbackNotFound), errors.Is(err, projects.ErrProjectNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrBodyRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
