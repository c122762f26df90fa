package handlers

import (
	"github.com/atakanuzun/showfolio-backend/internal/dto"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// Top handles GET /leaderboard.
func (h *LeaderboardHandler) Top(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 100 {
		limit = 100
	}

	users, total, err := h.leaderboardService.Top(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch leaderboard",
		})
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for _, user := range users {
		if user.LeaderboardRank == nil {
			continue
		}
		entries = append(entries, dto.LeaderboardEntry{
			Rank:        *user.LeaderboardRank,
			Handle:      user.Handle,
			DisplayName: user.DisplayName,
			TotalXP:     user.TotalXP,
			Level:       user.Level,
		})
	}
	return c.JSON(dto.LeaderboardResponse{Entries: entries, Total: total})
}

// Recompute handles POST /admin/leaderboard/recompute, forcing a rank pass
// outside the schedule.
func (h *LeaderboardHandler) Recompute(c *fiber.Ctx) error {
	if err := h.leaderboardService.Recompute(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to recompute leaderboard",
		})
	}
	return c.JSON(fiber.Map{"message": "Leaderboard recomputed"})
}
