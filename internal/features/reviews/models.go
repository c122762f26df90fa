package reviews

import (
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rating with text, authored by an identified user or an
// anonymous session. Exactly one of UserID / SessionToken is set; the
// session token is what authorizes an anonymous author to edit or delete.
type Review struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"-"`
	SessionToken   *string    `gorm:"size:64;index" json:"-"`
	Rating         int        `gorm:"not null" json:"rating"`
	Title          string     `gorm:"size:200" json:"title"`
	Body           string     `gorm:"type:text" json:"body"`
	IdentityPublic bool       `gorm:"default:false" json:"identity_public"`
	EditedAt       *time.Time `json:"edited_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User *models.User `gorm:"foreignKey:UserID" json:"-"`
}

// --- DTOs ---

type CreateReviewRequest struct {
	Rating int    `json:"rating"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	// Nil means "use my profile default"; ignored for anonymous authors.
	IdentityPublic *bool `json:"identity_public"`
}

type UpdateReviewRequest struct {
	Rating         *int    `json:"rating"`
	Title          *string `json:"title"`
	Body           *string `json:"body"`
	IdentityPublic *bool   `json:"identity_public"`
}

type ReviewResponse struct {
	ID             string     `json:"id"`
	ProjectID      string     `json:"project_id"`
	Rating         int        `json:"rating"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	IdentityPublic bool       `json:"identity_public"`
	AuthorHandle   *string    `json:"author_handle,omitempty"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

func toResponse(r *Review) ReviewResponse {
	resp := ReviewResponse{
		ID:             r.ID.String(),
		ProjectID:      r.ProjectID.String(),
		Rating:         r.Rating,
		Title:          r.Title,
		Body:           r.Body,
		IdentityPublic: r.IdentityPublic,
		EditedAt:       r.EditedAt,
		CreatedAt:      r.CreatedAt,
	}
	if r.IdentityPublic && r.User != nil {
		handle := r.User.Handle
		resp.AuthorHandle = &handle
	}
	return resp
}
