package projects

import (
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a showcased work owned by exactly one account. AvgRating and
// ReviewCount are derived caches recomputed from the review set on every
// review mutation; they are never trusted as authoritative.
type Project struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string     `gorm:"not null;size:120" json:"name"`
	Slug        string     `gorm:"not null;size:140;uniqueIndex" json:"slug"`
	Category    string     `gorm:"size:50;index" json:"category"`
	Summary     string     `gorm:"type:text" json:"summary"`
	DemoURL     string     `gorm:"type:text" json:"demo_url"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	AvgRating   float64    `gorm:"default:0" json:"avg_rating"`
	ReviewCount int        `gorm:"default:0" json:"review_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Owner models.User `gorm:"foreignKey:OwnerID" json:"-"`
}

// DemoView records that an actor opened a project's demo. One row per
// (project, actor); the owner's own views are never recorded.
type DemoView struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_demo_views_project_actor,priority:1" json:"project_id"`
	ActorKey  string    `gorm:"not null;size:100;uniqueIndex:idx_demo_views_project_actor,priority:2" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

var Categories = []string{"web", "mobile", "ai", "game", "devtool", "hardware", "design", "other"}

// --- DTOs ---

type CreateProjectRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	DemoURL  string `json:"demo_url"`
}

type UpdateProjectRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Summary  *string `json:"summary"`
	DemoURL  *string `json:"demo_url"`
}

type ProjectResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Category    string     `json:"category"`
	Summary     string     `json:"summary"`
	DemoURL     string     `json:"demo_url"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	AvgRating   float64    `json:"avg_rating"`
	ReviewCount int        `json:"review_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

func toResponse(p *Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID.String(),
		OwnerID:     p.OwnerID.String(),
		Name:        p.Name,
		Slug:        p.Slug,
		Category:    p.Category,
		Summary:     p.Summary,
		DemoURL:     p.DemoURL,
		Published:   p.Published,
		PublishedAt: p.PublishedAt,
		AvgRating:   p.AvgRating,
		ReviewCount: p.ReviewCount,
		CreatedAt:   p.CreatedAt,
	}
}
