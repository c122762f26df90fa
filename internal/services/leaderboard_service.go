package services

import (
	"fmt"
	"log/slog"

	"github.com/atakanuzun/showfolio-backend/internal/models"
	"gorm.io/gorm"
)

// LeaderboardService recomputes ranks as a batch pass over the accounts
// table, decoupled from individual awards. Recompute is a pure function of
// current state and safe to re-run at any time.
type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// Recompute clears ranks for zero-XP and flagged accounts, then assigns
// dense consecutive ranks over the rest ordered by points descending with
// ties going to the older account, and refreshes the top-100 flag.
func (s *LeaderboardService) Recompute() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.User{}).
			Where("total_xp = 0 OR flagged_bot = ?", true).
			Where("leaderboard_rank IS NOT NULL OR top_100 = ?", true).
			Updates(map[string]interface{}{
				"leaderboard_rank": nil,
				"top_100":          false,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to clear stale ranks: %w", err)
		}

		var users []models.User
		err = tx.Where("total_xp > 0 AND flagged_bot = ?", false).
			Order("total_xp DESC, created_at ASC").
			Find(&users).Error
		if err != nil {
			return fmt.Errorf("failed to load rankable accounts: %w", err)
		}

		for i := range users {
			rank := i + 1
			top100 := rank <= 100
			if users[i].LeaderboardRank != nil && *users[i].LeaderboardRank == rank && users[i].Top100 == top100 {
				continue
			}
			err = tx.Model(&users[i]).Updates(map[string]interface{}{
				"leaderboard_rank": rank,
				"top_100":          top100,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to assign rank %d: %w", rank, err)
			}
		}

		slog.Info("leaderboard recomputed", "ranked", len(users))
		return nil
	})
}

// Top returns the current standings, best rank first.
func (s *LeaderboardService) Top(limit int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.Model(&models.User{}).Where("leaderboard_rank IS NOT NULL").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.Where("leaderboard_rank IS NOT NULL").
		Order("leaderboard_rank ASC").
		Limit(limit).
		Find(&users).Error
	return users, total, err
}
