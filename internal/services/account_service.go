package services

import (
	"errors"

	"github.com/atakanuzun/showfolio-backend/internal/dto"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

func (s *AccountService) Get(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AccountService) GetByHandle(handle string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "handle = ?", handle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile writes display name and the anonymity defaults. The sticky
// capability flags and everything reputation-owned are not writable here.
func (s *AccountService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.DefaultReviewPublic != nil {
		updates["default_review_public"] = *req.DefaultReviewPublic
	}
	if req.DefaultFeedbackPublic != nil {
		updates["default_feedback_public"] = *req.DefaultFeedbackPublic
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return user, nil
}
