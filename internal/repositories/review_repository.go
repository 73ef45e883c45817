package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vzaimoBack/internal/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

// CreateReview enforces review uniqueness: one review per
// (reviewer, reviewed, listing) triple, or per (reviewer, reviewed) pair when
// no listing is referenced.
func (r *ReviewRepository) CreateReview(ctx context.Context, rev models.Review) (models.Review, error) {
	var count int
	var err error
	if rev.ListingID != nil {
		err = r.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reviews WHERE reviewer_id = ? AND reviewed_id = ? AND listing_id = ?`,
			rev.ReviewerID, rev.ReviewedID, *rev.ListingID).Scan(&count)
	} else {
		err = r.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reviews WHERE reviewer_id = ? AND reviewed_id = ? AND listing_id IS NULL`,
			rev.ReviewerID, rev.ReviewedID).Scan(&count)
	}
	if err != nil {
		return models.Review{}, err
	}
	if count > 0 {
		return models.Review{}, models.ErrAlreadyReviewed
	}

	now := time.Now()
	result, err := r.DB.ExecContext(ctx, `
        INSERT INTO reviews (reviewer_id, reviewed_id, listing_id, rating, comment, likes, dislikes, created_at)
        VALUES (?, ?, ?, ?, ?, 0, 0, ?)
    `, rev.ReviewerID, rev.ReviewedID, rev.ListingID, rev.Rating, rev.Comment, now)
	if err != nil {
		return models.Review{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Review{}, err
	}

	rev.ID = int(id)
	rev.CreatedAt = now
	return rev, nil
}

func (r *ReviewRepository) GetReviewsAbout(ctx context.Context, userID, limit int) ([]models.Review, error) {
	query := `
        SELECT r.id, r.reviewer_id, r.reviewed_id, r.listing_id, r.rating, r.comment,
               r.likes, r.dislikes, r.created_at, u.name
        FROM reviews r
        JOIN users u ON r.reviewer_id = u.id
        WHERE r.reviewed_id = ?
        ORDER BY r.created_at DESC
        LIMIT ?
    `
	return r.queryReviews(ctx, query, userID, limit)
}

func (r *ReviewRepository) GetReviewsBy(ctx context.Context, reviewerID, limit int) ([]models.Review, error) {
	query := `
        SELECT r.id, r.reviewer_id, r.reviewed_id, r.listing_id, r.rating, r.comment,
               r.likes, r.dislikes, r.created_at, u.name
        FROM reviews r
        JOIN users u ON r.reviewed_id = u.id
        WHERE r.reviewer_id = ?
        ORDER BY r.created_at DESC
        LIMIT ?
    `
	return r.queryReviews(ctx, query, reviewerID, limit)
}

func (r *ReviewRepository) queryReviews(ctx context.Context, query string, args ...interface{}) ([]models.Review, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(
			&rev.ID, &rev.ReviewerID, &rev.ReviewedID, &rev.ListingID, &rev.Rating,
			&rev.Comment, &rev.Likes, &rev.Dislikes, &rev.CreatedAt, &rev.ReviewerName,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// Reviews are immutable except for the reaction counters.

func (r *ReviewRepository) LikeReview(ctx context.Context, id int) error {
	return r.bumpCounter(ctx, id, "likes")
}

func (r *ReviewRepository) DislikeReview(ctx context.Context, id int) error {
	return r.bumpCounter(ctx, id, "dislikes")
}

func (r *ReviewRepository) bumpCounter(ctx context.Context, id int, column string) error {
	query := `UPDATE reviews SET ` + column + ` = ` + column + ` + 1 WHERE id = ?`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int) (models.Review, error) {
	var rev models.Review
	query := `
        SELECT id, reviewer_id, reviewed_id, listing_id, rating, comment, likes, dislikes, created_at
        FROM reviews WHERE id = ?
    `
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&rev.ID, &rev.ReviewerID, &rev.ReviewedID, &rev.ListingID, &rev.Rating,
		&rev.Comment, &rev.Likes, &rev.Dislikes, &rev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Review{}, models.ErrReviewNotFound
		}
		return models.Review{}, err
	}
	return rev, nil
}
