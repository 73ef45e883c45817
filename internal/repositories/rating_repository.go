package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"vzaimoBack/internal/models"
)

type RatingRepository struct {
	DB *sql.DB
}

// GetRatingRecord returns the user's rating state, or a fresh default record
// (rating 5.0, no reviews) when none exists yet.
func (r *RatingRepository) GetRatingRecord(ctx context.Context, userID int) (models.RatingRecord, error) {
	var rec models.RatingRecord
	query := `
        SELECT user_id, current_rating, total_reviews, positive_reviews, negative_reviews, total_rating_sum, last_updated
        FROM rating_records WHERE user_id = ?
    `
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&rec.UserID, &rec.CurrentRating, &rec.TotalReviews, &rec.PositiveReviews,
		&rec.NegativeReviews, &rec.TotalRatingSum, &rec.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RatingRecord{UserID: userID, CurrentRating: 5.0}, nil
		}
		return models.RatingRecord{}, err
	}
	return rec, nil
}

func (r *RatingRepository) SaveRatingRecord(ctx context.Context, rec models.RatingRecord) error {
	query := `
        INSERT INTO rating_records (user_id, current_rating, total_reviews, positive_reviews, negative_reviews, total_rating_sum, last_updated)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            current_rating = VALUES(current_rating),
            total_reviews = VALUES(total_reviews),
            positive_reviews = VALUES(positive_reviews),
            negative_reviews = VALUES(negative_reviews),
            total_rating_sum = VALUES(total_rating_sum),
            last_updated = VALUES(last_updated)
    `
	_, err := r.DB.ExecContext(ctx, query,
		rec.UserID, rec.CurrentRating, rec.TotalReviews, rec.PositiveReviews,
		rec.NegativeReviews, rec.TotalRatingSum, time.Now(),
	)
	return err
}

func (r *RatingRepository) GetUserStats(ctx context.Context, userID int) (models.UserStats, error) {
	var stats models.UserStats
	var monthlyJSON string
	query := `
        SELECT user_id, total_completed, monthly_completed, positive_count, positive_rate, reliability_score, updated_at
        FROM user_stats WHERE user_id = ?
    `
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID, &stats.TotalCompleted, &monthlyJSON, &stats.PositiveCount,
		&stats.PositiveRate, &stats.ReliabilityScore, &stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserStats{
				UserID:           userID,
				MonthlyCompleted: map[string]int{},
				ReliabilityScore: 100,
			}, nil
		}
		return models.UserStats{}, err
	}
	if monthlyJSON != "" {
		if err := json.Unmarshal([]byte(monthlyJSON), &stats.MonthlyCompleted); err != nil {
			stats.MonthlyCompleted = map[string]int{}
		}
	}
	if stats.MonthlyCompleted == nil {
		stats.MonthlyCompleted = map[string]int{}
	}
	return stats, nil
}

func (r *RatingRepository) SaveUserStats(ctx context.Context, stats models.UserStats) error {
	monthlyJSON, err := json.Marshal(stats.MonthlyCompleted)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO user_stats (user_id, total_completed, monthly_completed, positive_count, positive_rate, reliability_score, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            total_completed = VALUES(total_completed),
            monthly_completed = VALUES(monthly_completed),
            positive_count = VALUES(positive_count),
            positive_rate = VALUES(positive_rate),
            reliability_score = VALUES(reliability_score),
            updated_at = VALUES(updated_at)
    `
	_, err = r.DB.ExecContext(ctx, query,
		stats.UserID, stats.TotalCompleted, string(monthlyJSON), stats.PositiveCount,
		stats.PositiveRate, stats.ReliabilityScore, time.Now(),
	)
	return err
}

// RankedCandidate is one leaderboard entry before scoring.
type RankedCandidate struct {
	models.TopUser
	TotalCompleted int
}

// GetRankedCandidates returns rating records joined with stats for every user
// meeting the minimum review count, for leaderboard scoring.
func (r *RatingRepository) GetRankedCandidates(ctx context.Context, minReviews int) ([]RankedCandidate, error) {
	query := `
        SELECT rr.user_id, rr.current_rating, rr.total_reviews,
               COALESCE(us.reliability_score, 100), COALESCE(us.total_completed, 0)
        FROM rating_records rr
        LEFT JOIN user_stats us ON us.user_id = rr.user_id
        WHERE rr.total_reviews >= ?
    `
	rows, err := r.DB.QueryContext(ctx, query, minReviews)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []RankedCandidate{}
	for rows.Next() {
		var c RankedCandidate
		if err := rows.Scan(&c.UserID, &c.Rating, &c.TotalReviews, &c.ReliabilityScore, &c.TotalCompleted); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
