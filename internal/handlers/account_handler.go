package handlers

import (
	"errors"

	"github.com/atakanuzun/showfolio-backend/internal/actor"
	"github.com/atakanuzun/showfolio-backend/internal/dto"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Me handles GET /accounts/me.
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	userID, err := actor.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.accountService.Get(userID)
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(toProfile(user))
}

// UpdateMe handles PUT /accounts/me.
func (h *AccountHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := actor.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.accountService.UpdateProfile(userID, &req)
	if err != nil {
		return accountError(c, err)
	}
	return c.JSON(toProfile(user))
}

// PublicProfile handles GET /accounts/:handle.
func (h *AccountHandler) PublicProfile(c *fiber.Ctx) error {
	user, err := h.accountService.GetByHandle(c.Params("handle"))
	if err != nil {
		return accountError(c, err)
	}

	return c.JSON(dto.PublicProfileResponse{
		Handle:          user.Handle,
		DisplayName:     user.DisplayName,
		TotalXP:         user.TotalXP,
		Level:           user.Level,
		LeaderboardRank: user.LeaderboardRank,
		IsCreator:       user.IsCreator,
		IsIdeaMaker:     user.IsIdeaMaker,
	})
}

func toProfile(user *models.User) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:                    user.ID,
		Handle:                user.Handle,
		DisplayName:           user.DisplayName,
		TotalXP:               user.TotalXP,
		Level:                 user.Level,
		LeaderboardRank:       user.LeaderboardRank,
		Top100:                user.Top100,
		IsCreator:             user.IsCreator,
		IsIdeaMaker:           user.IsIdeaMaker,
		DefaultReviewPublic:   user.DefaultReviewPublic,
		DefaultFeedbackPublic: user.DefaultFeedbackPublic,
	}
}

func accountError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
