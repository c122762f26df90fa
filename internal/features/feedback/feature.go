package feedback

import (
	"github.com/atakanuzun/showfolio-backend/internal/config"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FeedbackFeature struct {
	xp         *services.XPService
	moderation *services.ModerationService
}

func New(xp *services.XPService, moderation *services.ModerationService) *FeedbackFeature {
	return &FeedbackFeature{xp: xp, moderation: moderation}
}

func (f *FeedbackFeature) ID() string { return "feedback" }

func (f *FeedbackFeature) Models() []interface{} {
	return []interface{}{
		&Feedback{},
	}
}

func (f *FeedbackFeature) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewFeedbackService(db, f.xp, f.moderation)
	handler := NewFeedbackHandler(svc)

	router.Post("/projects/:id/feedback", handler.Create)
	router.Get("/projects/:id/feedback", handler.List)
	router.Put("/feedback/:id", handler.Update)
	router.Delete("/feedback/:id", handler.Delete)
}
