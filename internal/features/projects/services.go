package projects

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/actor"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotOwner        = errors.New("you can only modify your own projects")
	ErrInvalidCategory = errors.New("invalid category")
	ErrNameRequired    = errors.New("project name is required")
)

type ProjectService struct {
	db        *gorm.DB
	xp        *services.XPService
	suspicion *services.SuspicionService
}

func NewProjectService(db *gorm.DB, xp *services.XPService, suspicion *services.SuspicionService) *ProjectService {
	return &ProjectService{db: db, xp: xp, suspicion: suspicion}
}

// Create adds a project in draft state.
func (s *ProjectService) Create(ownerID uuid.UUID, req *CreateProjectRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !validCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	slug, err := s.uniqueSlug(name)
	if err != nil {
		return nil, err
	}

	project := Project{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Name:     name,
		Slug:     slug,
		Category: req.Category,
		Summary:  req.Summary,
		DemoURL:  req.DemoURL,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

// List returns published projects, optionally filtered by category.
func (s *ProjectService) List(category string, limit, offset int) ([]Project, int64, error) {
	query := s.db.Model(&Project{}).Where("published = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []Project
	err := query.Order("published_at DESC").Limit(limit).Offset(offset).Find(&projects).Error
	return projects, total, err
}

// Mine returns all of a user's projects including drafts.
func (s *ProjectService) Mine(ownerID uuid.UUID) ([]Project, error) {
	var projects []Project
	err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// GetBySlug returns a project visible to the given actor: published ones
// to everybody, drafts only to the owner.
func (s *ProjectService) GetBySlug(slug string, a actor.Actor) (*Project, error) {
	var project Project
	if err := s.db.First(&project, "slug = ?", slug).Error; err != nil {
		return nil, ErrProjectNotFound
	}
	if !project.Published && !a.Is(project.OwnerID) {
		return nil, ErrProjectNotFound
	}
	return &project, nil
}

func (s *ProjectService) Update(ownerID, projectID uuid.UUID, req *UpdateProjectRequest) (*Project, error) {
	project, err := s.owned(ownerID, projectID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		// Slug stays stable across renames so published URLs keep working.
		updates["name"] = name
	}
	if req.Category != nil {
		if !validCategory(*req.Category) {
			return nil, ErrInvalidCategory
		}
		updates["category"] = *req.Category
	}
	if req.Summary != nil {
		updates["summary"] = *req.Summary
	}
	if req.DemoURL != nil {
		updates["demo_url"] = *req.DemoURL
	}
	if len(updates) == 0 {
		return project, nil
	}

	if err := s.db.Model(project).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) Delete(ownerID, projectID uuid.UUID) error {
	result := s.db.Where("id = ? AND owner_id = ?", projectID, ownerID).Delete(&Project{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Publish transitions a draft to published. The first publish ever flips
// the owner's sticky creator flag; the publish award and the velocity
// check run in the same transaction as the transition.
func (s *ProjectService) Publish(ownerID, projectID uuid.UUID) (*Project, error) {
	project, err := s.owned(ownerID, projectID)
	if err != nil {
		return nil, err
	}
	if project.Published {
		return project, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(project).Updates(map[string]interface{}{
			"published":    true,
			"published_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to publish project: %w", err)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ? AND is_creator = ?", ownerID, false).
			Update("is_creator", true).Error; err != nil {
			return fmt.Errorf("failed to set creator flag: %w", err)
		}

		if err := s.xp.ProjectPublished(tx, ownerID, projectID); err != nil {
			return err
		}
		return s.suspicion.CheckPublishVelocity(tx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Unpublish(ownerID, projectID uuid.UUID) (*Project, error) {
	project, err := s.owned(ownerID, projectID)
	if err != nil {
		return nil, err
	}
	if !project.Published {
		return project, nil
	}

	if err := s.db.Model(project).Update("published", false).Error; err != nil {
		return nil, fmt.Errorf("failed to unpublish project: %w", err)
	}
	return project, nil
}

// RecordDemoView stores a first view per distinct actor and grants the
// owner's view point. The owner's own views are skipped entirely; repeat
// views by the same actor are no-ops.
func (s *ProjectService) RecordDemoView(a actor.Actor, projectID uuid.UUID) error {
	if !a.Valid() {
		return actor.ErrNoActor
	}

	var project Project
	if err := s.db.First(&project, "id = ? AND published = ?", projectID, true).Error; err != nil {
		return ErrProjectNotFound
	}
	if a.Is(project.OwnerID) {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing DemoView
		err := tx.Where("project_id = ? AND actor_key = ?", projectID, a.Key()).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		view := DemoView{
			ID:        uuid.New(),
			ProjectID: projectID,
			ActorKey:  a.Key(),
		}
		if err := tx.Create(&view).Error; err != nil {
			return fmt.Errorf("failed to record demo view: %w", err)
		}

		return s.xp.DemoViewed(tx, project.OwnerID, view.ID)
	})
}

func (s *ProjectService) owned(ownerID, projectID uuid.UUID) (*Project, error) {
	var project Project
	if err := s.db.First(&project, "id = ?", projectID).Error; err != nil {
		return nil, ErrProjectNotFound
	}
	if project.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return &project, nil
}

func validCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// slugify reduces a project name to a URL-safe slug.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "project"
	}
	if len(slug) > 120 {
		slug = strings.Trim(slug[:120], "-")
	}
	return slug
}

func (s *ProjectService) uniqueSlug(name string) (string, error) {
	base := slugify(name)
	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := s.db.Model(&Project{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
