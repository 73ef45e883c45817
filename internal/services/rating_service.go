package services

import (
	"context"
	"log"
	"sort"
	"time"

	"vzaimoBack/internal/models"
	"vzaimoBack/internal/rating"
	"vzaimoBack/internal/repositories"
)

type RatingService struct {
	ReviewRepo *repositories.ReviewRepository
	RatingRepo *repositories.RatingRepository
	UserRepo   *repositories.UserRepository
}

// RecordReview stores a review and folds it into the reviewed user's smoothed
// rating, review counters and reliability stats.
func (s *RatingService) RecordReview(ctx context.Context, req models.CreateReviewRequest) (models.Review, error) {
	if err := ValidateReviewRating(req.Rating); err != nil {
		return models.Review{}, err
	}
	if req.ReviewerID == req.ReviewedID {
		return models.Review{}, models.ErrSelfResponse
	}
	if _, err := s.UserRepo.GetUserByID(ctx, req.ReviewedID); err != nil {
		return models.Review{}, err
	}

	review, err := s.ReviewRepo.CreateReview(ctx, models.Review{
		ReviewerID: req.ReviewerID,
		ReviewedID: req.ReviewedID,
		ListingID:  req.ListingID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		return models.Review{}, err
	}

	rec, err := s.RatingRepo.GetRatingRecord(ctx, req.ReviewedID)
	if err != nil {
		return models.Review{}, err
	}

	rec.CurrentRating = rating.Smoothed(rec.CurrentRating, rec.TotalReviews, req.Rating)
	rec.TotalReviews++
	rec.TotalRatingSum += req.Rating
	positive := req.Rating >= rating.PositiveThreshold
	if positive {
		rec.PositiveReviews++
	} else {
		rec.NegativeReviews++
	}
	rec.LastUpdated = time.Now()

	if err := s.RatingRepo.SaveRatingRecord(ctx, rec); err != nil {
		return models.Review{}, err
	}
	if err := s.UserRepo.UpdateUserRating(ctx, req.ReviewedID, rec.CurrentRating); err != nil {
		return models.Review{}, err
	}

	// The sequence is not atomic: the review and rating record are already
	// written, so a stats failure leaves them ahead of UserStats. Logged for
	// the operator and still returned to the caller.
	if err := s.refreshStats(ctx, req.ReviewedID, positive); err != nil {
		log.Printf("failed to refresh stats for user %d: %v", req.ReviewedID, err)
		return models.Review{}, err
	}
	return review, nil
}

// refreshStats recomputes the positive-rate and reliability score after a new
// review. Completion counts only move when a listing completes.
func (s *RatingService) refreshStats(ctx context.Context, userID int, positive bool) error {
	stats, err := s.RatingRepo.GetUserStats(ctx, userID)
	if err != nil {
		return err
	}
	if positive {
		stats.PositiveCount++
	}
	stats.PositiveRate = rating.PositiveRate(stats.PositiveCount, stats.TotalCompleted)
	stats.ReliabilityScore = rating.Reliability(stats.TotalCompleted, stats.PositiveRate)
	return s.RatingRepo.SaveUserStats(ctx, stats)
}

func (s *RatingService) GetUserRating(ctx context.Context, userID int) (models.UserRatingView, error) {
	if _, err := s.UserRepo.GetUserByID(ctx, userID); err != nil {
		return models.UserRatingView{}, err
	}
	rec, err := s.RatingRepo.GetRatingRecord(ctx, userID)
	if err != nil {
		return models.UserRatingView{}, err
	}
	stats, err := s.RatingRepo.GetUserStats(ctx, userID)
	if err != nil {
		return models.UserRatingView{}, err
	}
	return models.UserRatingView{
		UserID:           userID,
		CurrentRating:    rec.CurrentRating,
		TotalReviews:     rec.TotalReviews,
		PositiveReviews:  rec.PositiveReviews,
		NegativeReviews:  rec.NegativeReviews,
		Level:            rating.Level(stats.TotalCompleted),
		Experience:       rating.Experience(stats.TotalCompleted),
		ReliabilityScore: stats.ReliabilityScore,
		TotalCompleted:   stats.TotalCompleted,
		PositiveRate:     stats.PositiveRate,
	}, nil
}

func (s *RatingService) GetUserStats(ctx context.Context, userID int) (models.UserStats, error) {
	if _, err := s.UserRepo.GetUserByID(ctx, userID); err != nil {
		return models.UserStats{}, err
	}
	return s.RatingRepo.GetUserStats(ctx, userID)
}

// GetTopUsers scores every user with at least MinTopReviews reviews and
// returns the best ones in descending score order.
func (s *RatingService) GetTopUsers(ctx context.Context, limit int) ([]models.TopUser, error) {
	if limit <= 0 {
		limit = 10
	}
	candidates, err := s.RatingRepo.GetRankedCandidates(ctx, rating.MinTopReviews)
	if err != nil {
		return nil, err
	}

	top := make([]models.TopUser, 0, len(candidates))
	for _, c := range candidates {
		u := c.TopUser
		u.Level = rating.Level(c.TotalCompleted)
		u.TotalScore = rating.Round2(rating.CompositeScore(c.Rating, c.ReliabilityScore, c.TotalReviews))
		top = append(top, u)
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalScore > top[j].TotalScore
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (s *RatingService) GetReviewsAbout(ctx context.Context, userID, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.ReviewRepo.GetReviewsAbout(ctx, userID, limit)
}

func (s *RatingService) GetReviewsBy(ctx context.Context, reviewerID, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.ReviewRepo.GetReviewsBy(ctx, reviewerID, limit)
}

func (s *RatingService) LikeReview(ctx context.Context, reviewID int) error {
	return s.ReviewRepo.LikeReview(ctx, reviewID)
}

func (s *RatingService) DislikeReview(ctx context.Context, reviewID int) error {
	return s.ReviewRepo.DislikeReview(ctx, reviewID)
}
