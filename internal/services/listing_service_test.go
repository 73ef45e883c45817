package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"vzaimoBack/internal/fsm"
	"vzaimoBack/internal/repositories"
)

func listingRow(status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "kind", "category", "title", "description", "budget", "deadline", "contacts",
		"status", "applications_count", "tags", "is_active", "created_at", "updated_at",
	}).AddRow(5, 1, "request", "design", "Нужен логотип", "Нарисовать логотип для кафе", nil, nil, "@owner",
		status, 1, "", true, now, now)
}

// A completed transition whose stats update fails must fail the call even
// though the status row is already committed.
func TestTransitionStatusCompletionStatsFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	svc := &ListingService{
		ListingRepo:     &repositories.ListingRepository{DB: db},
		ApplicationRepo: &repositories.ApplicationRepository{DB: db},
		RatingRepo:      &repositories.RatingRepository{DB: db},
		UserRepo:        &repositories.UserRepository{DB: db},
	}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM listings WHERE id = ?`)).
		WithArgs(5).
		WillReturnRows(listingRow(fsm.StatusInProgress))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE listings SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`)).
		WithArgs(fsm.StatusCompleted, 5, fsm.StatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	statsErr := errors.New("applications lookup failed")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM applications
        WHERE listing_id = ? AND status = ? AND is_active = 1`)).
		WithArgs(5, "accepted").
		WillReturnError(statsErr)

	err = svc.TransitionStatus(context.Background(), 5, 1, fsm.StatusCompleted)
	if !errors.Is(err, statsErr) {
		t.Fatalf("TransitionStatus = %v, want stats error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
