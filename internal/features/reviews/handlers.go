package reviews

import (
	"errors"

	"github.com/atakanuzun/showfolio-backend/internal/actor"
	"github.com/atakanuzun/showfolio-backend/internal/dto"
	"github.com/atakanuzun/showfolio-backend/internal/features/projects"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviewService *ReviewService
}

func NewReviewHandler(reviewService *ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Create handles POST /projects/:id/reviews - identified or anonymous.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
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

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	review, err := h.reviewService.Create(a, projectID, &req)
	if err != nil {
		return reviewError(c, err, "Failed to create review")
	}
	return c.Status(fiber.StatusCreated).JSON(toResponse(review))
}

// List handles GET /projects/:id/reviews.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
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

	list, total, err := h.reviewService.ListForProject(projectID, limit, (page-1)*limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch reviews",
		})
	}

	responses := make([]ReviewResponse, len(list))
	for i := range list {
		responses[i] = toResponse(&list[i])
	}
	return c.JSON(ReviewListResponse{Reviews: responses, Total: total, Page: page, Limit: limit})
}

// Update handles PUT /reviews/:id - author only (user or session match).
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	a, err := actor.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Login or X-Session-Token required",
		})
	}

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid review ID",
		})
	}

	var req UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	review, err := h.reviewService.Update(a, reviewID, &req)
	if err != nil {
		return reviewError(c, err, "Failed to update review")
	}
	return c.JSON(toResponse(review))
}

// Delete handles DELETE /reviews/:id - author only (user or session match).
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	a, err := actor.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Login or X-Session-Token required",
		})
	}

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid review ID",
		})
	}

	if err := h.reviewService.Delete(a, reviewID); err != nil {
		return reviewError(c, err, "Failed to delete review")
	}
	return c.JSON(fiber.Map{"message": "Review deleted"})
}

func reviewError(c *fiber.Ctx, err error, fallback string) error {
	var rejected *ContentRejectedError
	switch {
	case errors.As(err, &rejected):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: rejected.Message,
		})
	case errors.Is(err, ErrReviewNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Review not found",
		})
	case errors.Is(err, projects.ErrProjectNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Project not found",
		})
	case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrBodyRequired), errors.Is(err, actor.ErrNoActor):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
