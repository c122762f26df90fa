package testutil

import (
	"testing"

	"github.com/atakanuzun/showfolio-backend/internal/features/projects"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateUser inserts an account with sane defaults.
func CreateUser(t *testing.T, db *gorm.DB, handle string) *models.User {
	t.Helper()

	user := models.User{
		ID:                    uuid.New(),
		Email:                 handle + "@example.com",
		Password:              "not-a-real-hash",
		Handle:                handle,
		DisplayName:           handle,
		Level:                 1,
		DefaultReviewPublic:   true,
		DefaultFeedbackPublic: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", handle, err)
	}
	return &user
}

// CreateProject inserts a project for the owner, optionally published.
func CreateProject(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string, published bool) *projects.Project {
	t.Helper()

	project := projects.Project{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Name:     name,
		Slug:     name + "-" + uuid.NewString()[:8],
		Category: "web",
		Summary:  "test project",
	}
	if published {
		project.Published = true
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return &project
}
