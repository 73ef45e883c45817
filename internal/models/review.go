package models

import "time"

type Review struct {
	ID         int       `json:"id"`
	ReviewerID int       `json:"reviewer_id"`
	ReviewedID int       `json:"reviewed_id"`
	ListingID  *int      `json:"listing_id,omitempty"`
	Rating     float64   `json:"rating"`
	Comment    string    `json:"comment"`
	Likes      int       `json:"likes"`
	Dislikes   int       `json:"dislikes"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined fields.
	ReviewerName string `json:"reviewer_name,omitempty"`
}

type CreateReviewRequest struct {
	ReviewerID int     `json:"reviewer_id"`
	ReviewedID int     `json:"reviewed_id"`
	ListingID  *int    `json:"listing_id,omitempty"`
	Rating     float64 `json:"rating"`
	Comment    string  `json:"comment"`
}
