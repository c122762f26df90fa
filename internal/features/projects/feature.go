package projects

import (
	"github.com/atakanuzun/showfolio-backend/internal/config"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProjectsFeature struct {
	xp        *services.XPService
	suspicion *services.SuspicionService
}

func New(xp *services.XPService, suspicion *services.SuspicionService) *ProjectsFeature {
	return &ProjectsFeature{xp: xp, suspicion: suspicion}
}

func (f *ProjectsFeature) ID() string { return "projects" }

func (f *ProjectsFeature) Models() []interface{} {
	return []interface{}{
		&Project{},
		&DemoView{},
	}
}

func (f *ProjectsFeature) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewProjectService(db, f.xp, f.suspicion)
	handler := NewProjectHandler(svc)

	router.Post("/projects", handler.Create)
	router.Get("/projects", handler.List)
	router.Get("/projects/mine", handler.Mine)
	router.Get("/projects/:slug", handler.Get)
	router.Put("/projects/:id", handler.Update)
	router.Delete("/projects/:id", handler.Delete)
	router.Post("/projects/:id/publish", handler.Publish)
	router.Post("/projects/:id/unpublish", handler.Unpublish)
	router.Post("/projects/:id/demo-view", handler.DemoView)
}
