package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"vzaimoBack/internal/models"
	"vzaimoBack/internal/rating"
	"vzaimoBack/internal/repositories"
)

func newRatingService(t *testing.T) (*RatingService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	svc := &RatingService{
		ReviewRepo: &repositories.ReviewRepository{DB: db},
		RatingRepo: &repositories.RatingRepository{DB: db},
		UserRepo:   &repositories.UserRepository{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func userRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "phone", "email", "password", "contacts",
		"rating", "help_given", "help_received", "is_active", "created_at", "updated_at",
	}).AddRow(2, "Аня", "+77001234567", "anya@mail.kz", "hash", "@anya", 4.0, 0, 0, true, now, now)
}

// expectReviewPipeline scripts RecordReview up to the stats write: the rating
// record moves from 4 reviews to 5 and the smoothed rating is persisted.
func expectReviewPipeline(mock sqlmock.Sqlmock) {
	now := time.Now()
	smoothed := rating.Smoothed(4.0, 4, 5.0)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, phone, email, password, contacts, rating, help_given, help_received, is_active, created_at, updated_at
        FROM users WHERE id = ?`)).
		WithArgs(2).
		WillReturnRows(userRow())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM reviews WHERE reviewer_id = ? AND reviewed_id = ? AND listing_id IS NULL`)).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reviews`)).
		WithArgs(1, 2, nil, 5.0, "Отличная работа", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, current_rating, total_reviews, positive_reviews, negative_reviews, total_rating_sum, last_updated
        FROM rating_records WHERE user_id = ?`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "current_rating", "total_reviews", "positive_reviews", "negative_reviews", "total_rating_sum", "last_updated",
		}).AddRow(2, 4.0, 4, 3, 1, 16.0, now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO rating_records`)).
		WithArgs(2, smoothed, 5, 4, 1, 21.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET rating = ?`)).
		WithArgs(smoothed, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, total_completed, monthly_completed, positive_count, positive_rate, reliability_score, updated_at
        FROM user_stats WHERE user_id = ?`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "total_completed", "monthly_completed", "positive_count", "positive_rate", "reliability_score", "updated_at",
		}).AddRow(2, 3, "{}", 2, 66.67, 85.0, now))
}

// A new review moves total_reviews by exactly one; the expectation on the
// rating_records upsert pins old count 4 to new count 5.
func TestRecordReviewIncrementsTotalReviews(t *testing.T) {
	svc, mock, done := newRatingService(t)
	defer done()

	expectReviewPipeline(mock)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_stats`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	review, err := svc.RecordReview(context.Background(), models.CreateReviewRequest{
		ReviewerID: 1,
		ReviewedID: 2,
		Rating:     5.0,
		Comment:    "Отличная работа",
	})
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	if review.ID != 7 {
		t.Errorf("review.ID = %d, want 7", review.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A failed stats write must fail the whole call, not just get logged.
func TestRecordReviewStatsWriteFailure(t *testing.T) {
	svc, mock, done := newRatingService(t)
	defer done()

	statsErr := errors.New("user_stats write failed")
	expectReviewPipeline(mock)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_stats`)).
		WillReturnError(statsErr)

	_, err := svc.RecordReview(context.Background(), models.CreateReviewRequest{
		ReviewerID: 1,
		ReviewedID: 2,
		Rating:     5.0,
		Comment:    "Отличная работа",
	})
	if !errors.Is(err, statsErr) {
		t.Fatalf("RecordReview = %v, want stats write error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
