package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/config"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Behavioral signals feeding the suspicion score.
const (
	SignalPublishVelocity      = "publish_velocity"
	SignalReactionBurst        = "reaction_burst"
	SignalReactionCoordination = "reaction_coordination"
)

const (
	velocityWindow     = 10 * time.Minute
	publishBurstCount  = 5
	reactionBurstCount = 15
	maxSuspicion       = 100
)

// SuspicionService accumulates a 0-100 bot-likelihood score from
// behavioral signals. Crossing the threshold flags the account, which
// excludes it from further awards and from the leaderboard until an admin
// clears the flag through the dispute queue.
type SuspicionService struct {
	db        *gorm.DB
	threshold int
}

func NewSuspicionService(db *gorm.DB, cfg *config.Config) *SuspicionService {
	threshold := cfg.BotFlagThreshold
	if threshold <= 0 || threshold > maxSuspicion {
		threshold = 50
	}
	return &SuspicionService{db: db, threshold: threshold}
}

// AddSuspicion raises the user's score inside the caller's transaction and
// flags the account when the threshold is crossed. Flagging immediately
// nulls the rank; the next leaderboard pass would do the same, this just
// avoids showing a flagged account until then.
func (s *SuspicionService) AddSuspicion(tx *gorm.DB, userID uuid.UUID, points int, signal string) error {
	if points <= 0 {
		return nil
	}

	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("suspicion signal %s for %s: %w", signal, userID, ErrAccountNotFound)
		}
		return err
	}

	score := user.SuspicionScore + points
	if score > maxSuspicion {
		score = maxSuspicion
	}
	if score == user.SuspicionScore {
		return nil
	}

	updates := map[string]interface{}{"suspicion_score": score}
	if score >= s.threshold && !user.FlaggedBot {
		updates["flagged_bot"] = true
		updates["leaderboard_rank"] = nil
		updates["top_100"] = false
		slog.Warn("account flagged as likely bot",
			"user_id", userID.String(), "signal", signal, "score", score)
	}

	if err := tx.Model(&user).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update suspicion score: %w", err)
	}
	return nil
}

// CheckPublishVelocity raises suspicion when a user collects too many
// publish awards within the velocity window.
func (s *SuspicionService) CheckPublishVelocity(tx *gorm.DB, userID uuid.UUID) error {
	count, err := s.recentEvents(tx, userID,
		[]string{models.ReasonProjectPublishedFirst, models.ReasonProjectPublished})
	if err != nil {
		return err
	}
	if count >= publishBurstCount {
		return s.AddSuspicion(tx, userID, 25, SignalPublishVelocity)
	}
	return nil
}

// CheckReactionBurst raises suspicion on the owner when reactions arrive
// faster than organic engagement plausibly would.
func (s *SuspicionService) CheckReactionBurst(tx *gorm.DB, ownerID uuid.UUID) error {
	count, err := s.recentEvents(tx, ownerID, []string{models.ReasonReactionReceived})
	if err != nil {
		return err
	}
	if count >= reactionBurstCount {
		return s.AddSuspicion(tx, ownerID, 20, SignalReactionBurst)
	}
	return nil
}

// ClearFlag resolves a bot-flag dispute: the flag and score reset, and the
// account regains rank on the next leaderboard pass.
func (s *SuspicionService) ClearFlag(userID uuid.UUID) error {
	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"flagged_bot":     false,
			"suspicion_score": 0,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to clear bot flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	slog.Info("bot flag cleared", "user_id", userID.String())
	return nil
}

func (s *SuspicionService) recentEvents(tx *gorm.DB, userID uuid.UUID, reasons []string) (int64, error) {
	var count int64
	err := tx.Model(&models.XPEvent{}).
		Where("user_id = ? AND reason IN ? AND created_at > ?",
			userID, reasons, time.Now().Add(-velocityWindow)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count recent events: %w", err)
	}
	return count, nil
}
