package models

import (
	"time"

	"github.com/google/uuid"
)

// XP award reasons. The ledger is queried by reason for double-award
// checks, edit reconciliation and velocity signals, so these are stable.
const (
	ReasonProjectPublishedFirst = "project_published_first"
	ReasonProjectPublished      = "project_published"
	ReasonReviewReceived        = "review_received"
	ReasonReviewWritten         = "review_written"
	ReasonReviewReconciled      = "review_reconciled"
	ReasonFeedbackPosted        = "feedback_posted"
	ReasonFeedbackReconciled    = "feedback_reconciled"
	ReasonIdeaSubmitted         = "idea_submitted"
	ReasonReactionReceived      = "reaction_received"
	ReasonIdeaValidated         = "idea_validated"
	ReasonDemoViewed            = "demo_viewed"
)

// XPEvent is an append-only ledger entry recording the effective point
// delta applied to a user's total, keyed to the entity that triggered it.
type XPEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_xp_events_user_reason,priority:1" json:"user_id"`
	Delta      int       `gorm:"not null" json:"delta"`
	Reason     string    `gorm:"size:40;not null;index:idx_xp_events_user_reason,priority:2" json:"reason"`
	EntityType string    `gorm:"size:20;not null" json:"entity_type"`
	EntityID   string    `gorm:"size:64;not null;index" json:"entity_id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (XPEvent) TableName() string {
	return "xp_events"
}
