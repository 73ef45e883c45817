package services

import (
	"context"
	"log"

	"vzaimoBack/internal/fsm"
	"vzaimoBack/internal/models"
	"vzaimoBack/internal/repositories"
)

type ApplicationService struct {
	ApplicationRepo *repositories.ApplicationRepository
	ListingRepo     *repositories.ListingRepository
	Notifications   *NotificationService
}

// checkSubmittable is the guard chain for a new application, in precedence
// order: self-application, then duplicate, then listing state.
func checkSubmittable(listing models.Listing, applicantID int, hasActive bool) error {
	if applicantID == listing.UserID {
		return models.ErrSelfResponse
	}
	if hasActive {
		return models.ErrAlreadyResponded
	}
	if listing.Status != fsm.StatusOpen || !listing.IsActive {
		return models.ErrListingNotOpen
	}
	return nil
}

func (s *ApplicationService) SubmitApplication(ctx context.Context, req models.SubmitApplicationRequest) (models.Application, error) {
	listing, err := s.ListingRepo.GetListingByID(ctx, req.ListingID)
	if err != nil {
		return models.Application{}, err
	}
	hasActive, err := s.ApplicationRepo.HasActiveApplication(ctx, req.ListingID, req.UserID)
	if err != nil {
		return models.Application{}, err
	}
	if err := checkSubmittable(listing, req.UserID, hasActive); err != nil {
		return models.Application{}, err
	}

	app, err := s.ApplicationRepo.CreateApplication(ctx, models.Application{
		ListingID:        req.ListingID,
		UserID:           req.UserID,
		Message:          req.Message,
		ProposedPrice:    req.ProposedPrice,
		ProposedTimeline: req.ProposedTimeline,
	})
	if err != nil {
		return models.Application{}, err
	}

	// Owner notification is best effort, exactly like the owner DM in the
	// source bot: a push failure never fails the submission.
	if s.Notifications != nil {
		if err := s.Notifications.NotifyNewApplication(ctx, listing, app); err != nil {
			log.Printf("failed to notify owner %d about application %d: %v", listing.UserID, app.ID, err)
		}
	}
	return app, nil
}

// DecideApplication accepts or rejects a pending application. Only the
// listing owner may decide. Accepting does not reject competing applications
// and does not transition the listing; the owner does that separately.
func (s *ApplicationService) DecideApplication(ctx context.Context, applicationID, userID int, decision string) (models.Application, error) {
	app, err := s.ApplicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return models.Application{}, err
	}
	listing, err := s.ListingRepo.GetListingByID(ctx, app.ListingID)
	if err != nil {
		return models.Application{}, err
	}
	if listing.UserID != userID {
		return models.Application{}, models.ErrNotOwner
	}

	var status string
	switch decision {
	case "accept":
		status = models.ApplicationAccepted
	case "reject":
		status = models.ApplicationRejected
	default:
		return models.Application{}, &models.ValidationError{Field: "decision", Message: "ожидается accept или reject"}
	}

	if err := s.ApplicationRepo.UpdateStatus(ctx, applicationID, status); err != nil {
		return models.Application{}, err
	}
	app.Status = status
	return app, nil
}

// CancelApplication lets the applicant withdraw their own application,
// releasing its slot in the listing counter.
func (s *ApplicationService) CancelApplication(ctx context.Context, applicationID, userID int) error {
	app, err := s.ApplicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.UserID != userID {
		return models.ErrForbidden
	}
	return s.ApplicationRepo.Deactivate(ctx, applicationID, app.ListingID)
}

func (s *ApplicationService) GetApplicationsForListing(ctx context.Context, listingID, userID int) ([]models.Application, error) {
	listing, err := s.ListingRepo.GetListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.UserID != userID {
		return nil, models.ErrNotOwner
	}
	return s.ApplicationRepo.GetForListing(ctx, listingID)
}

func (s *ApplicationService) GetApplicationsByUser(ctx context.Context, userID int) ([]models.Application, error) {
	return s.ApplicationRepo.GetByApplicant(ctx, userID)
}
