package dto

import "github.com/google/uuid"

type UpdateProfileRequest struct {
	DisplayName           *string `json:"display_name"`
	DefaultReviewPublic   *bool   `json:"default_review_public"`
	DefaultFeedbackPublic *bool   `json:"default_feedback_public"`
}

type ProfileResponse struct {
	ID                    uuid.UUID `json:"id"`
	Handle                string    `json:"handle"`
	DisplayName           string    `json:"display_name"`
	TotalXP               int       `json:"total_xp"`
	Level                 int       `json:"level"`
	LeaderboardRank       *int      `json:"leaderboard_rank"`
	Top100                bool      `json:"top_100"`
	IsCreator             bool      `json:"is_creator"`
	IsIdeaMaker           bool      `json:"is_idea_maker"`
	DefaultReviewPublic   bool      `json:"default_review_public"`
	DefaultFeedbackPublic bool      `json:"default_feedback_public"`
}

// PublicProfileResponse omits the profile-level preferences.
type PublicProfileResponse struct {
	Handle          string `json:"handle"`
	DisplayName     string `json:"display_name"`
	TotalXP         int    `json:"total_xp"`
	Level           int    `json:"level"`
	LeaderboardRank *int   `json:"leaderboard_rank"`
	IsCreator       bool   `json:"is_creator"`
	IsIdeaMaker     bool   `json:"is_idea_maker"`
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	TotalXP     int    `json:"total_xp"`
	Level       int    `json:"level"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"leaderboard"`
	Total   int64              `json:"total"`
}
