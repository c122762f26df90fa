package testutil

import (
	"testing"

	"github.com/atakanuzun/showfolio-backend/internal/features/feedback"
	"github.com/atakanuzun/showfolio-backend/internal/features/ideas"
	"github.com/atakanuzun/showfolio-backend/internal/features/projects"
	"github.com/atakanuzun/showfolio-backend/internal/features/reviews"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens an in-memory SQLite database and migrates every table.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.XPEvent{},
		&models.Report{},
		&models.SystemLog{},
		&projects.Project{},
		&projects.DemoView{},
		&reviews.Review{},
		&ideas.Idea{},
		&ideas.Reaction{},
		&feedback.Feedback{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
