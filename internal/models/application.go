package models

import "time"

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

type Application struct {
	ID               int       `json:"id"`
	ListingID        int       `json:"listing_id"`
	UserID           int       `json:"user_id"`
	Message          string    `json:"message"`
	ProposedPrice    *float64  `json:"proposed_price,omitempty"`
	ProposedTimeline *string   `json:"proposed_timeline,omitempty"`
	Status           string    `json:"status"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`

	// Joined fields for listing pages.
	ApplicantName string `json:"applicant_name,omitempty"`
	ListingTitle  string `json:"listing_title,omitempty"`
}

type SubmitApplicationRequest struct {
	ListingID        int      `json:"listing_id"`
	UserID           int      `json:"user_id"`
	Message          string   `json:"message"`
	ProposedPrice    *float64 `json:"proposed_price,omitempty"`
	ProposedTimeline *string  `json:"proposed_timeline,omitempty"`
}

type DecideApplicationRequest struct {
	UserID   int    `json:"user_id"`
	Decision string `json:"decision"` // accept | reject
}
