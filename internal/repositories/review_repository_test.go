package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"vzaimoBack/internal/models"
)

func TestCreateReviewDuplicatePair(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &ReviewRepository{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM reviews WHERE reviewer_id = ? AND reviewed_id = ? AND listing_id IS NULL`)).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err = repo.CreateReview(context.Background(), models.Review{
		ReviewerID: 1,
		ReviewedID: 2,
		Rating:     5,
	})
	if !errors.Is(err, models.ErrAlreadyReviewed) {
		t.Fatalf("CreateReview = %v, want ErrAlreadyReviewed", err)
	}

	// The insert must never run for a duplicate pair.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestCreateReviewDuplicateTriple(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &ReviewRepository{DB: db}

	listingID := 9
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM reviews WHERE reviewer_id = ? AND reviewed_id = ? AND listing_id = ?`)).
		WithArgs(1, 2, listingID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err = repo.CreateReview(context.Background(), models.Review{
		ReviewerID: 1,
		ReviewedID: 2,
		ListingID:  &listingID,
		Rating:     4,
	})
	if !errors.Is(err, models.ErrAlreadyReviewed) {
		t.Fatalf("CreateReview = %v, want ErrAlreadyReviewed", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}
