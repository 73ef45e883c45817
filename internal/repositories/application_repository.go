package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vzaimoBack/internal/models"
)

type ApplicationRepository struct {
	DB *sql.DB
}

// CreateApplication inserts the application and bumps the listing's
// applications_count in the same transaction. The counter update is a
// relative SQL increment, so concurrent submissions cannot undercount.
func (r *ApplicationRepository) CreateApplication(ctx context.Context, app models.Application) (models.Application, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Application{}, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE listing_id = ? AND user_id = ? AND is_active = 1`,
		app.ListingID, app.UserID).Scan(&count); err != nil {
		return models.Application{}, err
	}
	if count > 0 {
		return models.Application{}, models.ErrAlreadyResponded
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
        INSERT INTO applications (listing_id, user_id, message, proposed_price, proposed_timeline, status, is_active, created_at)
        VALUES (?, ?, ?, ?, ?, ?, 1, ?)
    `, app.ListingID, app.UserID, app.Message, app.ProposedPrice, app.ProposedTimeline, models.ApplicationPending, now)
	if err != nil {
		return models.Application{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Application{}, err
	}

	if _, err := tx.ExecContext(ctx, `
        UPDATE listings SET applications_count = applications_count + 1, updated_at = NOW()
        WHERE id = ?
    `, app.ListingID); err != nil {
		return models.Application{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Application{}, err
	}

	app.ID = int(id)
	app.Status = models.ApplicationPending
	app.IsActive = true
	app.CreatedAt = now
	return app, nil
}

// HasActiveApplication reports whether the user already has a live
// application on the listing.
func (r *ApplicationRepository) HasActiveApplication(ctx context.Context, listingID, userID int) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE listing_id = ? AND user_id = ? AND is_active = 1`,
		listingID, userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int) (models.Application, error) {
	var app models.Application
	query := `
        SELECT id, listing_id, user_id, message, proposed_price, proposed_timeline, status, is_active, created_at
        FROM applications WHERE id = ?
    `
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&app.ID, &app.ListingID, &app.UserID, &app.Message, &app.ProposedPrice,
		&app.ProposedTimeline, &app.Status, &app.IsActive, &app.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Application{}, models.ErrResponseNotFound
		}
		return models.Application{}, err
	}
	return app, nil
}

func (r *ApplicationRepository) GetForListing(ctx context.Context, listingID int) ([]models.Application, error) {
	query := `
        SELECT a.id, a.listing_id, a.user_id, a.message, a.proposed_price, a.proposed_timeline,
               a.status, a.is_active, a.created_at, u.name
        FROM applications a
        JOIN users u ON a.user_id = u.id
        WHERE a.listing_id = ? AND a.is_active = 1
        ORDER BY a.created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		var app models.Application
		if err := rows.Scan(
			&app.ID, &app.ListingID, &app.UserID, &app.Message, &app.ProposedPrice,
			&app.ProposedTimeline, &app.Status, &app.IsActive, &app.CreatedAt, &app.ApplicantName,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *ApplicationRepository) GetByApplicant(ctx context.Context, userID int) ([]models.Application, error) {
	query := `
        SELECT a.id, a.listing_id, a.user_id, a.message, a.proposed_price, a.proposed_timeline,
               a.status, a.is_active, a.created_at, l.title
        FROM applications a
        JOIN listings l ON a.listing_id = l.id
        WHERE a.user_id = ? AND a.is_active = 1
        ORDER BY a.created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		var app models.Application
		if err := rows.Scan(
			&app.ID, &app.ListingID, &app.UserID, &app.Message, &app.ProposedPrice,
			&app.ProposedTimeline, &app.Status, &app.IsActive, &app.CreatedAt, &app.ListingTitle,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// GetAcceptedForListing returns the applicants the owner accepted (there may
// be several; accepting does not auto-reject the rest).
func (r *ApplicationRepository) GetAcceptedForListing(ctx context.Context, listingID int) ([]models.Application, error) {
	query := `
        SELECT id, listing_id, user_id, message, proposed_price, proposed_timeline, status, is_active, created_at
        FROM applications
        WHERE listing_id = ? AND status = ? AND is_active = 1
    `
	rows, err := r.DB.QueryContext(ctx, query, listingID, models.ApplicationAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		var app models.Application
		if err := rows.Scan(
			&app.ID, &app.ListingID, &app.UserID, &app.Message, &app.ProposedPrice,
			&app.ProposedTimeline, &app.Status, &app.IsActive, &app.CreatedAt,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE applications SET status = ? WHERE id = ?`, status, id)
	return err
}

// Deactivate soft-deletes the application and releases its slot in the
// listing counter. Rows are never physically removed.
func (r *ApplicationRepository) Deactivate(ctx context.Context, id, listingID int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE applications SET is_active = 0 WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE listings SET applications_count = applications_count - 1, updated_at = NOW()
        WHERE id = ? AND applications_count > 0
    `, listingID); err != nil {
		return err
	}
	return tx.Commit()
}
