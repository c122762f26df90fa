package features

import (
	"github.com/atakanuzun/showfolio-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Feature defines the interface every product area implements.
type Feature interface {
	// ID returns the unique feature identifier.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts feature routes on the given Fiber group.
	// The group is already prefixed with /api and carries the optional-JWT
	// and session middleware; handlers enforce identity where they need it.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminFeature extends Feature with admin-only route registration.
type AdminFeature interface {
	Feature

	// RegisterAdminRoutes mounts admin-only routes on the given Fiber group.
	// The group has both JWT and Admin middleware applied.
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}
