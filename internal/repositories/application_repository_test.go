package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"vzaimoBack/internal/models"
)

func TestCreateApplicationDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &ApplicationRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM applications WHERE listing_id = ? AND user_id = ? AND is_active = 1`)).
		WithArgs(5, 20).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err = repo.CreateApplication(context.Background(), models.Application{
		ListingID: 5,
		UserID:    20,
		Message:   "Могу помочь",
	})
	if !errors.Is(err, models.ErrAlreadyResponded) {
		t.Fatalf("CreateApplication = %v, want ErrAlreadyResponded", err)
	}

	// No insert and no applications_count update may hit the database after
	// the duplicate is detected.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestCreateApplicationBumpsCounter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := &ApplicationRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM applications WHERE listing_id = ? AND user_id = ? AND is_active = 1`)).
		WithArgs(5, 20).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO applications`)).
		WithArgs(5, 20, "Могу помочь", nil, nil, models.ApplicationPending, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE listings SET applications_count = applications_count + 1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	app, err := repo.CreateApplication(context.Background(), models.Application{
		ListingID: 5,
		UserID:    20,
		Message:   "Могу помочь",
	})
	if err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	if app.ID != 11 {
		t.Errorf("app.ID = %d, want 11", app.ID)
	}
	if app.Status != models.ApplicationPending {
		t.Errorf("app.Status = %q, want pending", app.Status)
	}
	if !app.IsActive {
		t.Error("app.IsActive = false, want true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
