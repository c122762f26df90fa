package feedback

import (
	"errors"
	"fmt"
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/features/projects"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrBodyRequired     = errors.New("feedback body is required")
)

// ContentRejectedError carries the moderation rejection message.
type ContentRejectedError struct {
	Message string
}

func (e *ContentRejectedError) Error() string { return e.Message }

type FeedbackService struct {
	db         *gorm.DB
	xp         *services.XPService
	moderation *services.ModerationService
}

func NewFeedbackService(db *gorm.DB, xp *services.XPService, moderation *services.ModerationService) *FeedbackService {
	return &FeedbackService{db: db, xp: xp, moderation: moderation}
}

// Create posts feedback on a published project and grants the author's
// feedback points in the same transaction. The identity flag falls back to
// the author's profile default when the request leaves it unset.
func (s *FeedbackService) Create(userID, projectID uuid.UUID, req *CreateFeedbackRequest) (*Feedback, error) {
	if req.Body == "" {
		return nil, ErrBodyRequired
	}
	if err := s.filter(req.Body); err != nil {
		return nil, err
	}

	var project projects.Project
	if err := s.db.First(&project, "id = ? AND published = ?", projectID, true).Error; err != nil {
		return nil, projects.ErrProjectNotFound
	}

	identityPublic := false
	if req.IdentityPublic != nil {
		identityPublic = *req.IdentityPublic
	} else {
		var author models.User
		if err := s.db.First(&author, "id = ?", userID).Error; err != nil {
			return nil, services.ErrUserNotFound
		}
		identityPublic = author.DefaultFeedbackPublic
	}

	fb := Feedback{
		ID:             uuid.New(),
		ProjectID:      projectID,
		UserID:         userID,
		Body:           req.Body,
		IdentityPublic: identityPublic,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&fb).Error; err != nil {
			return fmt.Errorf("failed to create feedback: %w", err)
		}
		return s.xp.FeedbackPosted(tx, userID, identityPublic, fb.ID)
	})
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// Update edits the author's own feedback. A visibility change reconciles the
// public-identity bonus against the ledger, so toggling back and forth nets
// to the flag's final state.
func (s *FeedbackService) Update(userID, feedbackID uuid.UUID, req *UpdateFeedbackRequest) (*Feedback, error) {
	fb, err := s.owned(userID, feedbackID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Body != nil {
		if *req.Body == "" {
			return nil, ErrBodyRequired
		}
		updates["body"] = *req.Body
		fb.Body = *req.Body
	}
	visibilityChanged := false
	if req.IdentityPublic != nil && *req.IdentityPublic != fb.IdentityPublic {
		updates["identity_public"] = *req.IdentityPublic
		fb.IdentityPublic = *req.IdentityPublic
		visibilityChanged = true
	}
	if len(updates) == 0 {
		return fb, nil
	}
	if err := s.filter(fb.Body); err != nil {
		return nil, err
	}

	now := time.Now()
	updates["edited_at"] = now
	fb.EditedAt = &now

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Feedback{}).Where("id = ?", fb.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update feedback: %w", err)
		}
		if visibilityChanged {
			return s.xp.ReconcileFeedbackAuthorXP(tx, fb.ID, fb.UserID, fb.IdentityPublic)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fb, nil
}

// Delete removes the author's own feedback. Earned points stay earned.
func (s *FeedbackService) Delete(userID, feedbackID uuid.UUID) error {
	fb, err := s.owned(userID, feedbackID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(fb).Error; err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}

// ListForProject returns feedback newest first, with author handles only
// where the post's identity is public.
func (s *FeedbackService) ListForProject(projectID uuid.UUID, limit, offset int) ([]Feedback, int64, error) {
	var total int64
	if err := s.db.Model(&Feedback{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []Feedback
	err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, total, err
}

func (s *FeedbackService) owned(userID, feedbackID uuid.UUID) (*Feedback, error) {
	var fb Feedback
	err := s.db.First(&fb, "id = ? AND user_id = ?", feedbackID, userID).Error
	if err != nil {
		return nil, ErrFeedbackNotFound
	}
	return &fb, nil
}

func (s *FeedbackService) filter(body string) error {
	if ok, reason := s.moderation.FilterContent(body); !ok {
		return &ContentRejectedError{Message: s.moderation.GetRejectionMessage(reason)}
	}
	return nil
}
