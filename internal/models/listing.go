package models

import (
	"time"
)

// Listing kinds. An offer is "I can help", a request is "I need help".
const (
	KindOffer   = "offer"
	KindRequest = "request"
)

type Listing struct {
	ID                int        `json:"id"`
	UserID            int        `json:"user_id"`
	Kind              string     `json:"kind"`
	Category          string     `json:"category"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Budget            *float64   `json:"budget,omitempty"`
	Deadline          *string    `json:"deadline,omitempty"`
	Contacts          string     `json:"contacts"`
	Status            string     `json:"status"`
	ApplicationsCount int        `json:"applications_count"`
	Tags              []string   `json:"tags"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

type CreateListingRequest struct {
	UserID      int      `json:"user_id"`
	Kind        string   `json:"kind"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      *float64 `json:"budget,omitempty"`
	Deadline    *string  `json:"deadline,omitempty"`
	Contacts    string   `json:"contacts"`
}

type ListingFilterRequest struct {
	Kind      string   `json:"kind"`
	Category  string   `json:"category"`
	MaxBudget *float64 `json:"max_budget,omitempty"`
	Limit     int      `json:"limit"`
}

type ListingStatusRequest struct {
	UserID int    `json:"user_id"`
	Status string `json:"status"`
}

// ListingStatsSummary mirrors the counters shown in "my listings".
type ListingStatsSummary struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
	Total      int `json:"total"`
}
