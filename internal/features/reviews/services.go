package reviews

import (
	"errors"
	"fmt"
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/actor"
	"github.com/atakanuzun/showfolio-backend/internal/features/projects"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrBodyRequired   = errors.New("review body is required")
)

// ContentRejectedError carries the moderation rejection message.
type ContentRejectedError struct {
	Message string
}

func (e *ContentRejectedError) Error() string { return e.Message }

type ReviewService struct {
	db         *gorm.DB
	xp         *services.XPService
	moderation *services.ModerationService
}

func NewReviewService(db *gorm.DB, xp *services.XPService, moderation *services.ModerationService) *ReviewService {
	return &ReviewService{db: db, xp: xp, moderation: moderation}
}

// Create inserts a review and, in the same transaction, refreshes the
// project's cached rating aggregates and grants the review awards.
// Anonymous authors are tracked by session token and always post with a
// hidden identity; identified authors fall back to their profile default
// when the request leaves identity_public unset.
func (s *ReviewService) Create(a actor.Actor, projectID uuid.UUID, req *CreateReviewRequest) (*Review, error) {
	if !a.Valid() {
		return nil, actor.ErrNoActor
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if req.Body == "" {
		return nil, ErrBodyRequired
	}
	if err := s.filter(req.Title, req.Body); err != nil {
		return nil, err
	}

	var project projects.Project
	if err := s.db.First(&project, "id = ? AND published = ?", projectID, true).Error; err != nil {
		return nil, projects.ErrProjectNotFound
	}

	identityPublic := false
	if a.IsIdentified() {
		if req.IdentityPublic != nil {
			identityPublic = *req.IdentityPublic
		} else {
			var author models.User
			if err := s.db.First(&author, "id = ?", a.UserID()).Error; err != nil {
				return nil, services.ErrUserNotFound
			}
			identityPublic = author.DefaultReviewPublic
		}
	}

	review := Review{
		ID:             uuid.New(),
		ProjectID:      projectID,
		UserID:         a.UserIDPtr(),
		SessionToken:   a.SessionTokenPtr(),
		Rating:         req.Rating,
		Title:          req.Title,
		Body:           req.Body,
		IdentityPublic: identityPublic,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		if err := s.syncProjectRating(tx, projectID); err != nil {
			return err
		}
		return s.xp.ReviewPosted(tx, project.OwnerID, review.UserID, identityPublic, review.ID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Update edits a review owned by the acting user or session. It stamps
// edited_at, refreshes the rating aggregates when the rating changed, and
// reconciles the author XP against the explicit before-snapshot taken
// here, so saving the same edit twice changes nothing.
func (s *ReviewService) Update(a actor.Actor, reviewID uuid.UUID, req *UpdateReviewRequest) (*Review, error) {
	review, err := s.owned(a, reviewID)
	if err != nil {
		return nil, err
	}

	// Pre-edit snapshot for the reconciliation.
	oldAuthor := review.UserID
	oldPublic := review.IdentityPublic
	oldRating := review.Rating

	updates := map[string]interface{}{}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, ErrInvalidRating
		}
		updates["rating"] = *req.Rating
		review.Rating = *req.Rating
	}
	if req.Title != nil {
		updates["title"] = *req.Title
		review.Title = *req.Title
	}
	if req.Body != nil {
		if *req.Body == "" {
			return nil, ErrBodyRequired
		}
		updates["body"] = *req.Body
		review.Body = *req.Body
	}
	if req.IdentityPublic != nil && review.UserID != nil {
		updates["identity_public"] = *req.IdentityPublic
		review.IdentityPublic = *req.IdentityPublic
	}
	if len(updates) == 0 {
		return review, nil
	}
	if err := s.filter(review.Title, review.Body); err != nil {
		return nil, err
	}

	now := time.Now()
	updates["edited_at"] = now
	review.EditedAt = &now

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Review{}).Where("id = ?", review.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		if review.Rating != oldRating {
			if err := s.syncProjectRating(tx, review.ProjectID); err != nil {
				return err
			}
		}
		return s.xp.ReconcileReviewAuthorXP(tx, review.ID,
			oldAuthor, oldPublic, review.UserID, review.IdentityPublic)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review owned by the acting user or session and
// refreshes the project aggregates.
func (s *ReviewService) Delete(a actor.Actor, reviewID uuid.UUID) error {
	review, err := s.owned(a, reviewID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return s.syncProjectRating(tx, review.ProjectID)
	})
}

// ListForProject returns reviews newest first, with author handles only
// where the post's identity is public.
func (s *ReviewService) ListForProject(projectID uuid.UUID, limit, offset int) ([]Review, int64, error) {
	var total int64
	if err := s.db.Model(&Review{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []Review
	err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, total, err
}

// syncProjectRating is the single place the cached aggregates are written.
// Every review mutation path calls it inside its transaction.
func (s *ReviewService) syncProjectRating(tx *gorm.DB, projectID uuid.UUID) error {
	type stats struct {
		Count int64
		Avg   float64
	}
	var st stats
	err := tx.Model(&Review{}).
		Where("project_id = ?", projectID).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS avg").
		Scan(&st).Error
	if err != nil {
		return fmt.Errorf("failed to compute rating stats: %w", err)
	}

	err = tx.Model(&projects.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"review_count": st.Count,
			"avg_rating":   st.Avg,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update rating cache: %w", err)
	}
	return nil
}

func (s *ReviewService) owned(a actor.Actor, reviewID uuid.UUID) (*Review, error) {
	if !a.Valid() {
		return nil, actor.ErrNoActor
	}
	var review Review
	err := s.db.Scopes(actor.OwnedBy(a)).First(&review, "id = ?", reviewID).Error
	if err != nil {
		return nil, ErrReviewNotFound
	}
	return &review, nil
}

func (s *ReviewService) filter(title, body string) error {
	for _, text := range []string{title, body} {
		if ok, reason := s.moderation.FilterContent(text); !ok {
			return &ContentRejectedError{Message: s.moderation.GetRejectionMessage(reason)}
		}
	}
	return nil
}
