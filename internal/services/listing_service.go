package services

import (
	"context"
	"log"
	"time"

	"vzaimoBack/internal/fsm"
	"vzaimoBack/internal/models"
	"vzaimoBack/internal/rating"
	"vzaimoBack/internal/repositories"
)

type ListingService struct {
	ListingRepo     *repositories.ListingRepository
	ApplicationRepo *repositories.ApplicationRepository
	RatingRepo      *repositories.RatingRepository
	UserRepo        *repositories.UserRepository
	Notifications   *NotificationService
}

func (s *ListingService) CreateListing(ctx context.Context, req models.CreateListingRequest) (models.Listing, error) {
	if err := ValidateKind(req.Kind); err != nil {
		return models.Listing{}, err
	}
	if err := ValidateCategory(req.Category); err != nil {
		return models.Listing{}, err
	}
	if err := ValidateTitle(req.Title); err != nil {
		return models.Listing{}, err
	}
	if err := ValidateDescription(req.Description); err != nil {
		return models.Listing{}, err
	}
	if err := ValidateContacts(req.Contacts); err != nil {
		return models.Listing{}, err
	}

	listing := models.Listing{
		UserID:      req.UserID,
		Kind:        req.Kind,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Deadline:    req.Deadline,
		Contacts:    req.Contacts,
		Tags:        ExtractTags(req.Description),
	}
	return s.ListingRepo.CreateListing(ctx, listing)
}

func (s *ListingService) GetListingByID(ctx context.Context, id int) (models.Listing, error) {
	return s.ListingRepo.GetListingByID(ctx, id)
}

func (s *ListingService) GetListingsByCategory(ctx context.Context, req models.ListingFilterRequest) ([]models.Listing, error) {
	if err := ValidateKind(req.Kind); err != nil {
		return nil, err
	}
	if err := ValidateCategory(req.Category); err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 15
	}
	return s.ListingRepo.GetListingsByCategory(ctx, req.Kind, req.Category, limit, req.MaxBudget)
}

func (s *ListingService) GetListingsByUser(ctx context.Context, userID int) ([]models.Listing, error) {
	return s.ListingRepo.GetListingsByUser(ctx, userID)
}

func (s *ListingService) GetAllOpen(ctx context.Context, kind string, limit int) ([]models.Listing, error) {
	if err := ValidateKind(kind); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return s.ListingRepo.GetAllOpen(ctx, kind, limit)
}

func (s *ListingService) GetStatsSummary(ctx context.Context, userID int) (models.ListingStatsSummary, error) {
	return s.ListingRepo.GetStatsSummary(ctx, userID)
}

// TransitionStatus moves a listing through its lifecycle. Only the owner may
// transition. Completing the listing bumps completion stats for the owner and
// every accepted applicant.
func (s *ListingService) TransitionStatus(ctx context.Context, listingID, userID int, newStatus string) error {
	listing, err := s.ListingRepo.GetListingByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.UserID != userID {
		return models.ErrNotOwner
	}
	if !fsm.CanTransition(listing.Status, newStatus) {
		return models.ErrInvalidTransition
	}
	if err := s.ListingRepo.UpdateStatus(ctx, listingID, listing.Status, newStatus); err != nil {
		return err
	}

	if newStatus == fsm.StatusCompleted {
		if err := s.recordCompletion(ctx, listing); err != nil {
			// The status row is already committed, so stats lag behind until
			// the next completion. Logged and still returned to the caller.
			log.Printf("completion stats update failed for listing %d: %v", listingID, err)
			return err
		}
	}

	if s.Notifications != nil {
		if err := s.notifyApplicants(ctx, listing, newStatus); err != nil {
			log.Printf("status notification failed for listing %d: %v", listingID, err)
		}
	}
	return nil
}

// notifyApplicants tells accepted applicants that the listing moved on.
func (s *ListingService) notifyApplicants(ctx context.Context, listing models.Listing, newStatus string) error {
	accepted, err := s.ApplicationRepo.GetAcceptedForListing(ctx, listing.ID)
	if err != nil {
		return err
	}
	for _, app := range accepted {
		if err := s.Notifications.NotifyStatusChange(ctx, app.UserID, listing, newStatus); err != nil {
			log.Printf("status push to user %d failed: %v", app.UserID, err)
		}
	}
	return nil
}

// recordCompletion updates completion stats and help counters for everyone
// involved in a finished listing.
func (s *ListingService) recordCompletion(ctx context.Context, listing models.Listing) error {
	participants := []int{listing.UserID}
	accepted, err := s.ApplicationRepo.GetAcceptedForListing(ctx, listing.ID)
	if err != nil {
		return err
	}
	for _, app := range accepted {
		participants = append(participants, app.UserID)
	}

	for _, userID := range participants {
		if err := s.bumpCompleted(ctx, userID); err != nil {
			return err
		}
	}

	// On a request the owner received help and the helpers gave it; an offer
	// is the other way around.
	ownerGave := listing.Kind == models.KindOffer
	if ownerGave {
		if err := s.UserRepo.IncrementHelpGiven(ctx, listing.UserID); err != nil {
			return err
		}
	} else {
		if err := s.UserRepo.IncrementHelpReceived(ctx, listing.UserID); err != nil {
			return err
		}
	}
	for _, app := range accepted {
		if ownerGave {
			err = s.UserRepo.IncrementHelpReceived(ctx, app.UserID)
		} else {
			err = s.UserRepo.IncrementHelpGiven(ctx, app.UserID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ListingService) bumpCompleted(ctx context.Context, userID int) error {
	stats, err := s.RatingRepo.GetUserStats(ctx, userID)
	if err != nil {
		return err
	}
	stats.TotalCompleted++
	month := time.Now().Format("2006-01")
	stats.MonthlyCompleted[month]++
	stats.PositiveRate = rating.PositiveRate(stats.PositiveCount, stats.TotalCompleted)
	stats.ReliabilityScore = rating.Reliability(stats.TotalCompleted, stats.PositiveRate)
	return s.RatingRepo.SaveUserStats(ctx, stats)
}
