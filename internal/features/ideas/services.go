package ideas

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/actor"
	"github.com/atakanuzun/showfolio-backend/internal/features/projects"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrIdeaNotFound      = errors.New("idea not found")
	ErrIdeaExists        = errors.New("project already has an idea")
	ErrProblemRequired   = errors.New("problem statement is required")
	ErrInvalidReaction   = errors.New("reaction type must be positive, curious or skeptical")
	ErrOwnReactionDenied = errors.New("cannot react to your own project")
)

// Coordination heuristic: a project whose recent reactions come from only a
// couple of distinct actors is being inflated, not validated.
const (
	coordinationWindow    = 10 * time.Minute
	coordinationMinBurst  = 8
	coordinationMaxActors = 2
)

type IdeaService struct {
	db        *gorm.DB
	xp        *services.XPService
	suspicion *services.SuspicionService
}

func NewIdeaService(db *gorm.DB, xp *services.XPService, suspicion *services.SuspicionService) *IdeaService {
	return &IdeaService{db: db, xp: xp, suspicion: suspicion}
}

// Create attaches the idea pitch to a project the caller owns, at most one
// per project. The first idea a user ever submits flips the sticky
// idea-maker badge; submitting grants the idea points.
func (s *IdeaService) Create(userID, projectID uuid.UUID, req *CreateIdeaRequest) (*Idea, error) {
	if req.Problem == "" {
		return nil, ErrProblemRequired
	}

	var project projects.Project
	if err := s.db.First(&project, "id = ? AND owner_id = ?", projectID, userID).Error; err != nil {
		return nil, projects.ErrProjectNotFound
	}

	var existing int64
	if err := s.db.Model(&Idea{}).Where("project_id = ?", projectID).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing idea: %w", err)
	}
	if existing > 0 {
		return nil, ErrIdeaExists
	}

	tags, err := marshalTags(req.Tags)
	if err != nil {
		return nil, err
	}

	idea := Idea{
		ID:         uuid.New(),
		ProjectID:  projectID,
		Problem:    req.Problem,
		Tags:       tags,
		CollabOpen: req.CollabOpen,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&idea).Error; err != nil {
			return fmt.Errorf("failed to create idea: %w", err)
		}
		if err := tx.Model(&models.User{}).
			Where("id = ? AND is_idea_maker = ?", userID, false).
			Update("is_idea_maker", true).Error; err != nil {
			return fmt.Errorf("failed to set idea maker flag: %w", err)
		}
		return s.xp.IdeaSubmitted(tx, userID, idea.ID)
	})
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

// Get returns the idea for a project, visible to anyone who can see the
// project.
func (s *IdeaService) Get(projectID uuid.UUID) (*Idea, error) {
	var idea Idea
	if err := s.db.First(&idea, "project_id = ?", projectID).Error; err != nil {
		return nil, ErrIdeaNotFound
	}
	return &idea, nil
}

// Update edits the pitch text, tags or collab flag. Owner only; no XP is
// involved, editing a pitch is not a new submission.
func (s *IdeaService) Update(userID, projectID uuid.UUID, req *UpdateIdeaRequest) (*Idea, error) {
	var project projects.Project
	if err := s.db.First(&project, "id = ? AND owner_id = ?", projectID, userID).Error; err != nil {
		return nil, projects.ErrProjectNotFound
	}

	var idea Idea
	if err := s.db.First(&idea, "project_id = ?", projectID).Error; err != nil {
		return nil, ErrIdeaNotFound
	}

	updates := map[string]interface{}{}
	if req.Problem != nil {
		if *req.Problem == "" {
			return nil, ErrProblemRequired
		}
		updates["problem"] = *req.Problem
		idea.Problem = *req.Problem
	}
	if req.Tags != nil {
		tags, err := marshalTags(req.Tags)
		if err != nil {
			return nil, err
		}
		updates["tags"] = tags
		idea.Tags = tags
	}
	if req.CollabOpen != nil {
		updates["collab_open"] = *req.CollabOpen
		idea.CollabOpen = *req.CollabOpen
	}
	if len(updates) == 0 {
		return &idea, nil
	}

	if err := s.db.Model(&Idea{}).Where("id = ?", idea.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update idea: %w", err)
	}
	return &idea, nil
}

// React records the actor's stance on a project's idea. One row per
// (project, actor): repeating the same type is a no-op, a different type
// moves the row between tallies without touching XP, and only a brand new
// reaction grants points and feeds the abuse heuristics.
func (s *IdeaService) React(a actor.Actor, projectID uuid.UUID, typ string) (*Idea, error) {
	if !a.Valid() {
		return nil, actor.ErrNoActor
	}
	if !validReactionType(typ) {
		return nil, ErrInvalidReaction
	}

	var project projects.Project
	if err := s.db.First(&project, "id = ? AND published = ?", projectID, true).Error; err != nil {
		return nil, projects.ErrProjectNotFound
	}
	if a.Is(project.OwnerID) {
		return nil, ErrOwnReactionDenied
	}

	var idea Idea
	if err := s.db.First(&idea, "project_id = ?", projectID).Error; err != nil {
		return nil, ErrIdeaNotFound
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing Reaction
		err := tx.First(&existing, "project_id = ? AND actor_key = ?", projectID, a.Key()).Error
		switch {
		case err == nil:
			if existing.Type == typ {
				return nil
			}
			// Update mutates existing.Type in memory; keep the old value
			// so the decrement hits the tally the row is leaving.
			oldType := existing.Type
			if err := tx.Model(&existing).Update("type", typ).Error; err != nil {
				return fmt.Errorf("failed to change reaction: %w", err)
			}
			if err := s.applyTallyDelta(tx, idea.ID, oldType, -1); err != nil {
				return err
			}
			return s.applyTallyDelta(tx, idea.ID, typ, +1)

		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := Reaction{
				ID:        uuid.New(),
				ProjectID: projectID,
				ActorKey:  a.Key(),
				UserID:    a.UserIDPtr(),
				Type:      typ,
			}
			if err := tx.Create(&reaction).Error; err != nil {
				return fmt.Errorf("failed to create reaction: %w", err)
			}
			if err := s.applyTallyDelta(tx, idea.ID, typ, +1); err != nil {
				return err
			}
			if err := s.xp.ReactionPosted(tx, project.OwnerID, reaction.UserID, reaction.ID); err != nil {
				return err
			}
			if err := s.suspicion.CheckReactionBurst(tx, project.OwnerID); err != nil {
				return err
			}
			return s.checkCoordination(tx, projectID, project.OwnerID)

		default:
			return fmt.Errorf("failed to look up reaction: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.First(&idea, "id = ?", idea.ID).Error; err != nil {
		return nil, ErrIdeaNotFound
	}
	return &idea, nil
}

// applyTallyDelta is the single writer for the three reaction counters.
func (s *IdeaService) applyTallyDelta(tx *gorm.DB, ideaID uuid.UUID, typ string, delta int) error {
	column := map[string]string{
		"positive":  "positive_count",
		"curious":   "curious_count",
		"skeptical": "skeptical_count",
	}[typ]
	if column == "" {
		return ErrInvalidReaction
	}
	err := tx.Model(&Idea{}).
		Where("id = ?", ideaID).
		Update(column, gorm.Expr(column+" + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to adjust %s tally: %w", typ, err)
	}
	return nil
}

// checkCoordination raises owner suspicion when a burst of recent reactions
// on one project traces back to almost no distinct actors.
func (s *IdeaService) checkCoordination(tx *gorm.DB, projectID, ownerID uuid.UUID) error {
	since := time.Now().Add(-coordinationWindow)

	var total int64
	err := tx.Model(&Reaction{}).
		Where("project_id = ? AND created_at > ?", projectID, since).
		Count(&total).Error
	if err != nil {
		return fmt.Errorf("failed to count recent reactions: %w", err)
	}
	if total < coordinationMinBurst {
		return nil
	}

	var actors int64
	err = tx.Model(&Reaction{}).
		Where("project_id = ? AND created_at > ?", projectID, since).
		Distinct("actor_key").
		Count(&actors).Error
	if err != nil {
		return fmt.Errorf("failed to count reaction actors: %w", err)
	}
	if actors <= coordinationMaxActors {
		return s.suspicion.AddSuspicion(tx, ownerID, 20, services.SignalReactionCoordination)
	}
	return nil
}

func validReactionType(typ string) bool {
	for _, t := range ReactionTypes {
		if t == typ {
			return true
		}
	}
	return false
}

func marshalTags(tags []string) (datatypes.JSON, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	return raw, nil
}
