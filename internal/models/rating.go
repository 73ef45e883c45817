package models

import "time"

// RatingRecord is the smoothed reputation state kept per user. It is owned by
// the rating engine and recomputed incrementally on every new review.
type RatingRecord struct {
	UserID          int       `json:"user_id"`
	CurrentRating   float64   `json:"current_rating"`
	TotalReviews    int       `json:"total_reviews"`
	PositiveReviews int       `json:"positive_reviews"`
	NegativeReviews int       `json:"negative_reviews"`
	TotalRatingSum  float64   `json:"total_rating_sum"`
	LastUpdated     time.Time `json:"last_updated"`
}

type UserStats struct {
	UserID           int            `json:"user_id"`
	TotalCompleted   int            `json:"total_completed"`
	MonthlyCompleted map[string]int `json:"monthly_completed"`
	PositiveCount    int            `json:"positive_count"`
	PositiveRate     float64        `json:"positive_rate"`
	ReliabilityScore float64        `json:"reliability_score"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// UserRatingView is what the profile screen renders.
type UserRatingView struct {
	UserID           int     `json:"user_id"`
	CurrentRating    float64 `json:"current_rating"`
	TotalReviews     int     `json:"total_reviews"`
	PositiveReviews  int     `json:"positive_reviews"`
	NegativeReviews  int     `json:"negative_reviews"`
	Level            int     `json:"level"`
	Experience       int     `json:"experience"`
	ReliabilityScore float64 `json:"reliability_score"`
	TotalCompleted   int     `json:"total_completed"`
	PositiveRate     float64 `json:"positive_rate"`
}

type TopUser struct {
	UserID           int     `json:"user_id"`
	Rating           float64 `json:"rating"`
	TotalReviews     int     `json:"total_reviews"`
	ReliabilityScore float64 `json:"reliability_score"`
	Level            int     `json:"level"`
	TotalScore       float64 `json:"total_score"`
}
