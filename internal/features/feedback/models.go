package feedback

import (
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is a structured improvement suggestion on a project. Unlike
// reviews, feedback always has an identified author; the identity flag only
// controls whether the handle is shown next to the text.
type Feedback struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	Body           string     `gorm:"type:text;not null" json:"body"`
	IdentityPublic bool       `gorm:"default:false" json:"identity_public"`
	EditedAt       *time.Time `json:"edited_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User *models.User `gorm:"foreignKey:UserID" json:"-"`
}

// --- DTOs ---

type CreateFeedbackRequest struct {
	Body string `json:"body"`
	// Nil means "use my profile default".
	IdentityPublic *bool `json:"identity_public"`
}

type UpdateFeedbackRequest struct {
	Body           *string `json:"body"`
	IdentityPublic *bool   `json:"identity_public"`
}

type FeedbackResponse struct {
	ID             string     `json:"id"`
	ProjectID      string     `json:"project_id"`
	Body           string     `json:"body"`
	IdentityPublic bool       `json:"identity_public"`
	AuthorHandle   *string    `json:"author_handle,omitempty"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type FeedbackListResponse struct {
	Feedback []FeedbackResponse `json:"feedback"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Limit    int                `json:"limit"`
}

func toResponse(f *Feedback) FeedbackResponse {
	resp := FeedbackResponse{
		ID:             f.ID.String(),
		ProjectID:      f.ProjectID.String(),
		Body:           f.Body,
		IdentityPublic: f.IdentityPublic,
		EditedAt:       f.EditedAt,
		CreatedAt:      f.CreatedAt,
	}
	if f.IdentityPublic && f.User != nil {
		handle := f.User.Handle
		resp.AuthorHandle = &handle
	}
	return resp
}
