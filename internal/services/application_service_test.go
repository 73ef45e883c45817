package services

import (
	"errors"
	"testing"

	"vzaimoBack/internal/fsm"
	"vzaimoBack/internal/models"
)

func TestCheckSubmittable(t *testing.T) {
	open := models.Listing{ID: 1, UserID: 10, Status: fsm.StatusOpen, IsActive: true}

	tests := []struct {
		name        string
		listing     models.Listing
		applicantID int
		hasActive   bool
		wantErr     error
	}{
		{
			name:        "open listing, other user",
			listing:     open,
			applicantID: 20,
			wantErr:     nil,
		},
		{
			name:        "own listing",
			listing:     open,
			applicantID: 10,
			wantErr:     models.ErrSelfResponse,
		},
		{
			name:        "repeat applicant",
			listing:     open,
			applicantID: 20,
			hasActive:   true,
			wantErr:     models.ErrAlreadyResponded,
		},
		{
			name:        "in progress",
			listing:     models.Listing{ID: 1, UserID: 10, Status: fsm.StatusInProgress, IsActive: true},
			applicantID: 20,
			wantErr:     models.ErrListingNotOpen,
		},
		{
			name:        "completed",
			listing:     models.Listing{ID: 1, UserID: 10, Status: fsm.StatusCompleted, IsActive: true},
			applicantID: 20,
			wantErr:     models.ErrListingNotOpen,
		},
		{
			name:        "soft deleted",
			listing:     models.Listing{ID: 1, UserID: 10, Status: fsm.StatusOpen, IsActive: false},
			applicantID: 20,
			wantErr:     models.ErrListingNotOpen,
		},
		{
			name:        "self check runs before status check",
			listing:     models.Listing{ID: 1, UserID: 10, Status: fsm.StatusCancelled, IsActive: false},
			applicantID: 10,
			wantErr:     models.ErrSelfResponse,
		},
		{
			name:        "duplicate check runs before status check",
			listing:     models.Listing{ID: 1, UserID: 10, Status: fsm.StatusCompleted, IsActive: true},
			applicantID: 20,
			hasActive:   true,
			wantErr:     models.ErrAlreadyResponded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSubmittable(tt.listing, tt.applicantID, tt.hasActive)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("checkSubmittable() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
