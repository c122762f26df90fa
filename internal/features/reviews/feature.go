package reviews

import (
	"github.com/atakanuzun/showfolio-backend/internal/config"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReviewsFeature struct {
	xp         *services.XPService
	moderation *services.ModerationService
}

func New(xp *services.XPService, moderation *services.ModerationService) *ReviewsFeature {
	return &ReviewsFeature{xp: xp, moderation: moderation}
}

func (f *ReviewsFeature) ID() string { return "reviews" }

func (f *ReviewsFeature) Models() []interface{} {
	return []interface{}{
		&Review{},
	}
}

func (f *ReviewsFeature) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewReviewService(db, f.xp, f.moderation)
	handler := NewReviewHandler(svc)

	router.Post("/projects/:id/reviews", handler.Create)
	router.Get("/projects/:id/reviews", handler.List)
	router.Put("/reviews/:id", handler.Update)
	router.Delete("/reviews/:id", handler.Delete)
}
