package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account on the platform. TotalXP, Level, LeaderboardRank,
// SuspicionScore and the capability flags are maintained by the XP,
// leaderboard and suspicion services; nothing else writes them.
//
// LeaderboardRank is null exactly when TotalXP is zero or the account is
// flagged as a bot. IsCreator and IsIdeaMaker are sticky: set once on the
// first publish / first idea and never reverted.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	Role        string    `gorm:"size:20;default:'user'" json:"role"`
	Handle      string    `gorm:"not null;size:30;uniqueIndex" json:"handle"`
	DisplayName string    `gorm:"size:100" json:"display_name"`

	TotalXP         int        `gorm:"not null;default:0" json:"total_xp"`
	Level           int        `gorm:"not null;default:1" json:"level"`
	LeaderboardRank *int       `json:"leaderboard_rank"`
	Top100          bool       `gorm:"column:top_100;default:false" json:"top_100"`
	SuspicionScore  int        `gorm:"not null;default:0" json:"-"`
	FlaggedBot      bool       `gorm:"default:false;index" json:"-"`
	IsCreator       bool       `gorm:"default:false" json:"is_creator"`
	IsIdeaMaker     bool       `gorm:"default:false" json:"is_idea_maker"`
	LastAwardedAt   *time.Time `json:"-"`

	// Profile-level anonymity defaults. Each review or feedback post gets
	// its own independent visibility flag, seeded from these.
	DefaultReviewPublic   bool `gorm:"default:true" json:"default_review_public"`
	DefaultFeedbackPublic bool `gorm:"default:true" json:"default_feedback_public"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
