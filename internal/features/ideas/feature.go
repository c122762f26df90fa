package ideas

import (
	"github.com/atakanuzun/showfolio-backend/internal/config"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type IdeasFeature struct {
	xp        *services.XPService
	suspicion *services.SuspicionService
}

func New(xp *services.XPService, suspicion *services.SuspicionService) *IdeasFeature {
	return &IdeasFeature{xp: xp, suspicion: suspicion}
}

func (f *IdeasFeature) ID() string { return "ideas" }

func (f *IdeasFeature) Models() []interface{} {
	return []interface{}{
		&Idea{},
		&Reaction{},
	}
}

func (f *IdeasFeature) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewIdeaService(db, f.xp, f.suspicion)
	handler := NewIdeaHandler(svc)

	router.Post("/projects/:id/idea", handler.Create)
	router.Get("/projects/:id/idea", handler.Get)
	router.Put("/projects/:id/idea", handler.Update)
	router.Post("/projects/:id/reactions", handler.React)
}
