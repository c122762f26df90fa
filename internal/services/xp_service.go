package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Point values for the award rules. Awards fire inside the same transaction
// as the triggering insert, so totals are always consistent with the set of
// actions that have occurred.
const (
	PointsFirstPublish        = 50
	PointsRepublish           = 10
	PointsReviewReceived      = 5
	PointsReviewWritten       = 3
	PointsReviewPublicBonus   = 2
	PointsFeedbackPosted      = 2
	PointsFeedbackPublicBonus = 1
	PointsIdeaSubmitted       = 5
	PointsReactionReceived    = 2
	PointsIdeaValidated       = 1
	PointsDemoViewed          = 1
)

var ErrAccountNotFound = errors.New("account not found")

// LevelForXP derives the level from a lifetime point total:
// max(1, floor(sqrt(total/10)) + 1).
func LevelForXP(total int) int {
	if total < 0 {
		total = 0
	}
	level := int(math.Floor(math.Sqrt(float64(total)/10))) + 1
	if level < 1 {
		level = 1
	}
	return level
}

// XPService is the reputation ledger. Award is the single primitive every
// rule goes through; the event methods encode one rule per triggering
// insert and the Reconcile methods issue compensating entries when an
// edit retroactively changes eligibility.
type XPService struct {
	db *gorm.DB
}

func NewXPService(db *gorm.DB) *XPService {
	return &XPService{db: db}
}

// Award applies a signed point delta to the user's lifetime total inside
// the caller's transaction, appends a ledger entry and recomputes the
// level. A decrement that would cross zero is clamped so the persisted
// total never goes negative; the ledger records the effective delta so
// ledger sums stay exact. Flagged accounts are ineligible and the call is
// a no-op for them. An unknown account is an error, aborting the caller's
// transaction along with the triggering action.
func (s *XPService) Award(tx *gorm.DB, userID uuid.UUID, delta int, reason, entityType, entityID string) error {
	if delta == 0 {
		return nil
	}

	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("award %s to %s: %w", reason, userID, ErrAccountNotFound)
		}
		return fmt.Errorf("award %s: %w", reason, err)
	}
	if user.FlaggedBot {
		return nil
	}

	applied := delta
	newTotal := user.TotalXP + delta
	if newTotal < 0 {
		applied = -user.TotalXP
		newTotal = 0
	}

	event := models.XPEvent{
		ID:         uuid.New(),
		UserID:     userID,
		Delta:      applied,
		Reason:     reason,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to record xp event: %w", err)
	}

	now := time.Now()
	if err := tx.Model(&user).Updates(map[string]interface{}{
		"total_xp":        newTotal,
		"level":           LevelForXP(newTotal),
		"last_awarded_at": now,
	}).Error; err != nil {
		return fmt.Errorf("failed to apply xp delta: %w", err)
	}
	return nil
}

// ProjectPublished grants the publish award to the owner: 50 points for
// the first publish ever across all of the owner's projects, 10 for every
// publish event after that (including unpublish/republish cycles).
func (s *XPService) ProjectPublished(tx *gorm.DB, ownerID, projectID uuid.UUID) error {
	var prior int64
	err := tx.Model(&models.XPEvent{}).
		Where("user_id = ? AND reason IN ?", ownerID,
			[]string{models.ReasonProjectPublishedFirst, models.ReasonProjectPublished}).
		Count(&prior).Error
	if err != nil {
		return fmt.Errorf("failed to check publish history: %w", err)
	}

	if prior == 0 {
		return s.Award(tx, ownerID, PointsFirstPublish, models.ReasonProjectPublishedFirst, "project", projectID.String())
	}
	return s.Award(tx, ownerID, PointsRepublish, models.ReasonProjectPublished, "project", projectID.String())
}

// ReviewPosted grants the owner's received-review points and, when the
// author is identified, the author's writing points plus the public-identity
// bonus.
func (s *XPService) ReviewPosted(tx *gorm.DB, ownerID uuid.UUID, authorID *uuid.UUID, identityPublic bool, reviewID uuid.UUID) error {
	if err := s.Award(tx, ownerID, PointsReviewReceived, models.ReasonReviewReceived, "review", reviewID.String()); err != nil {
		return err
	}
	if authorID == nil {
		return nil
	}
	points := PointsReviewWritten
	if identityPublic {
		points += PointsReviewPublicBonus
	}
	return s.Award(tx, *authorID, points, models.ReasonReviewWritten, "review", reviewID.String())
}

// FeedbackPosted grants the author's feedback points plus the
// public-identity bonus.
func (s *XPService) FeedbackPosted(tx *gorm.DB, authorID uuid.UUID, identityPublic bool, feedbackID uuid.UUID) error {
	points := PointsFeedbackPosted
	if identityPublic {
		points += PointsFeedbackPublicBonus
	}
	return s.Award(tx, authorID, points, models.ReasonFeedbackPosted, "feedback", feedbackID.String())
}

// IdeaSubmitted grants the owner's idea points.
func (s *XPService) IdeaSubmitted(tx *gorm.DB, ownerID, ideaID uuid.UUID) error {
	return s.Award(tx, ownerID, PointsIdeaSubmitted, models.ReasonIdeaSubmitted, "idea", ideaID.String())
}

// ReactionPosted grants the owner's reaction points and, for identified
// reactors, the validation point. Both are keyed to the reaction row, which
// is unique per (project, actor): changing a reaction's type updates the
// existing row and never re-enters here, and the ledger guard makes a
// replayed insert a no-op.
func (s *XPService) ReactionPosted(tx *gorm.DB, ownerID uuid.UUID, reactorID *uuid.UUID, reactionID uuid.UUID) error {
	granted, err := s.hasEvent(tx, ownerID, models.ReasonReactionReceived, reactionID.String())
	if err != nil {
		return err
	}
	if !granted {
		if err := s.Award(tx, ownerID, PointsReactionReceived, models.ReasonReactionReceived, "reaction", reactionID.String()); err != nil {
			return err
		}
	}

	if reactorID == nil {
		return nil
	}
	granted, err = s.hasEvent(tx, *reactorID, models.ReasonIdeaValidated, reactionID.String())
	if err != nil {
		return err
	}
	if granted {
		return nil
	}
	return s.Award(tx, *reactorID, PointsIdeaValidated, models.ReasonIdeaValidated, "reaction", reactionID.String())
}

// DemoViewed grants the owner one point for a first view by a distinct
// viewer. The caller only invokes this for newly recorded views and never
// for the owner's own views; the ledger guard covers replays.
func (s *XPService) DemoViewed(tx *gorm.DB, ownerID uuid.UUID, viewID uuid.UUID) error {
	granted, err := s.hasEvent(tx, ownerID, models.ReasonDemoViewed, viewID.String())
	if err != nil {
		return err
	}
	if granted {
		return nil
	}
	return s.Award(tx, ownerID, PointsDemoViewed, models.ReasonDemoViewed, "demo_view", viewID.String())
}

func reviewAuthorTarget(public bool) int {
	if public {
		return PointsReviewWritten + PointsReviewPublicBonus
	}
	return PointsReviewWritten
}

func feedbackAuthorTarget(public bool) int {
	if public {
		return PointsFeedbackPosted + PointsFeedbackPublicBonus
	}
	return PointsFeedbackPosted
}

// ReconcileReviewAuthorXP settles author XP after a review edit changed the
// author reference or the identity-public flag. The caller passes an
// explicit before snapshot; the "granted so far" side comes from ledger
// sums rather than the already-mutated row, so repeated edits converge on
// the review's current state instead of drifting.
func (s *XPService) ReconcileReviewAuthorXP(tx *gorm.DB, reviewID uuid.UUID, oldAuthor *uuid.UUID, oldPublic bool, newAuthor *uuid.UUID, newPublic bool) error {
	affected := map[uuid.UUID]bool{}
	if oldAuthor != nil {
		affected[*oldAuthor] = true
	}
	if newAuthor != nil {
		affected[*newAuthor] = true
	}

	// Any account the ledger has credited for this review is affected too,
	// which keeps multi-step edit chains exact.
	var credited []uuid.UUID
	err := tx.Model(&models.XPEvent{}).
		Where("entity_id = ? AND reason IN ?", reviewID.String(),
			[]string{models.ReasonReviewWritten, models.ReasonReviewReconciled}).
		Distinct("user_id").
		Pluck("user_id", &credited).Error
	if err != nil {
		return fmt.Errorf("failed to list credited accounts: %w", err)
	}
	for _, id := range credited {
		affected[id] = true
	}

	for userID := range affected {
		target := 0
		if newAuthor != nil && *newAuthor == userID {
			target = reviewAuthorTarget(newPublic)
		}

		granted, err := s.grantedSum(tx, userID, reviewID.String(),
			[]string{models.ReasonReviewWritten, models.ReasonReviewReconciled})
		if err != nil {
			return err
		}

		if diff := target - granted; diff != 0 {
			if err := s.Award(tx, userID, diff, models.ReasonReviewReconciled, "review", reviewID.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReconcileFeedbackAuthorXP settles the public-identity bonus after a
// feedback post's visibility flag changed.
func (s *XPService) ReconcileFeedbackAuthorXP(tx *gorm.DB, feedbackID, authorID uuid.UUID, newPublic bool) error {
	granted, err := s.grantedSum(tx, authorID, feedbackID.String(),
		[]string{models.ReasonFeedbackPosted, models.ReasonFeedbackReconciled})
	if err != nil {
		return err
	}

	diff := feedbackAuthorTarget(newPublic) - granted
	if diff == 0 {
		return nil
	}
	return s.Award(tx, authorID, diff, models.ReasonFeedbackReconciled, "feedback", feedbackID.String())
}

func (s *XPService) hasEvent(tx *gorm.DB, userID uuid.UUID, reason, entityID string) (bool, error) {
	var count int64
	err := tx.Model(&models.XPEvent{}).
		Where("user_id = ? AND reason = ? AND entity_id = ?", userID, reason, entityID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check xp ledger: %w", err)
	}
	return count > 0, nil
}

func (s *XPService) grantedSum(tx *gorm.DB, userID uuid.UUID, entityID string, reasons []string) (int, error) {
	var sum *int
	err := tx.Model(&models.XPEvent{}).
		Where("user_id = ? AND entity_id = ? AND reason IN ?", userID, entityID, reasons).
		Select("SUM(delta)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum xp ledger: %w", err)
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
