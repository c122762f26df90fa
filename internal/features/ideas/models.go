package ideas

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Idea is the validation pitch attached to a project, one per project.
// The three tallies are derived counters maintained incrementally by the
// reaction paths; nothing recomputes them from scratch in the hot path.
type Idea struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`
	Problem        string         `gorm:"type:text;not null" json:"problem"`
	Tags           datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"tags"`
	PositiveCount  int            `gorm:"default:0" json:"positive_count"`
	CuriousCount   int            `gorm:"default:0" json:"curious_count"`
	SkepticalCount int            `gorm:"default:0" json:"skeptical_count"`
	CollabOpen     bool           `gorm:"default:false" json:"collab_open"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Reaction is one actor's stance on a project's idea. At most one row per
// (project, actor); changing your reaction type updates the row in place.
type Reaction struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_project_actor,priority:1" json:"project_id"`
	ActorKey  string     `gorm:"not null;size:100;uniqueIndex:idx_reactions_project_actor,priority:2" json:"-"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Type      string     `gorm:"not null;size:10" json:"type"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

var ReactionTypes = []string{"positive", "curious", "skeptical"}

// --- DTOs ---

type CreateIdeaRequest struct {
	Problem    string   `json:"problem"`
	Tags       []string `json:"tags"`
	CollabOpen bool     `json:"collab_open"`
}

type UpdateIdeaRequest struct {
	Problem    *string  `json:"problem"`
	Tags       []string `json:"tags"`
	CollabOpen *bool    `json:"collab_open"`
}

type ReactRequest struct {
	Type string `json:"type"`
}

type IdeaResponse struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	Problem        string    `json:"problem"`
	Tags           []string  `json:"tags"`
	PositiveCount  int       `json:"positive_count"`
	CuriousCount   int       `json:"curious_count"`
	SkepticalCount int       `json:"skeptical_count"`
	CollabOpen     bool      `json:"collab_open"`
	CreatedAt      time.Time `json:"created_at"`
}

func toResponse(i *Idea) IdeaResponse {
	tags := []string{}
	if len(i.Tags) > 0 {
		_ = json.Unmarshal(i.Tags, &tags)
	}
	return IdeaResponse{
		ID:             i.ID.String(),
		ProjectID:      i.ProjectID.String(),
		Problem:        i.Problem,
		Tags:           tags,
		PositiveCount:  i.PositiveCount,
		CuriousCount:   i.CuriousCount,
		SkepticalCount: i.SkepticalCount,
		CollabOpen:     i.CollabOpen,
		CreatedAt:      i.CreatedAt,
	}
}
