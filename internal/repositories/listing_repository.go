package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"vzaimoBack/internal/fsm"
	"vzaimoBack/internal/models"
)

type ListingRepository struct {
	DB *sql.DB
}

func (r *ListingRepository) CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error) {
	tagsJSON, err := json.Marshal(listing.Tags)
	if err != nil {
		return models.Listing{}, err
	}

	query := `
        INSERT INTO listings (user_id, kind, category, title, description, budget, deadline, contacts,
                              status, applications_count, tags, is_active, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, 1, ?)
    `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		listing.UserID, listing.Kind, listing.Category, listing.Title, listing.Description,
		listing.Budget, listing.Deadline, listing.Contacts, fsm.StatusOpen, string(tagsJSON), now,
	)
	if err != nil {
		return models.Listing{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Listing{}, err
	}

	listing.ID = int(id)
	listing.Status = fsm.StatusOpen
	listing.ApplicationsCount = 0
	listing.IsActive = true
	listing.CreatedAt = now
	return listing, nil
}

func (r *ListingRepository) GetListingByID(ctx context.Context, id int) (models.Listing, error) {
	query := `
        SELECT id, user_id, kind, category, title, description, budget, deadline, contacts,
               status, applications_count, tags, is_active, created_at, updated_at
        FROM listings WHERE id = ?
    `
	listing, err := scanListing(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Listing{}, models.ErrListingNotFound
		}
		return models.Listing{}, err
	}
	return listing, nil
}

// GetListingsByCategory returns open active listings of the given kind within
// a category, newest first. A nil maxBudget disables the ceiling; listings
// with no budget always pass it.
func (r *ListingRepository) GetListingsByCategory(ctx context.Context, kind, category string, limit int, maxBudget *float64) ([]models.Listing, error) {
	query := `
        SELECT id, user_id, kind, category, title, description, budget, deadline, contacts,
               status, applications_count, tags, is_active, created_at, updated_at
        FROM listings
        WHERE kind = ? AND category = ? AND status = ? AND is_active = 1
    `
	args := []interface{}{kind, category, fsm.StatusOpen}
	if maxBudget != nil {
		query += ` AND (budget IS NULL OR budget <= ?)`
		args = append(args, *maxBudget)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

func (r *ListingRepository) GetListingsByUser(ctx context.Context, userID int) ([]models.Listing, error) {
	query := `
        SELECT id, user_id, kind, category, title, description, budget, deadline, contacts,
               status, applications_count, tags, is_active, created_at, updated_at
        FROM listings WHERE user_id = ? ORDER BY created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

func (r *ListingRepository) GetAllOpen(ctx context.Context, kind string, limit int) ([]models.Listing, error) {
	query := `
        SELECT id, user_id, kind, category, title, description, budget, deadline, contacts,
               status, applications_count, tags, is_active, created_at, updated_at
        FROM listings WHERE kind = ? AND status = ? AND is_active = 1
        ORDER BY created_at DESC LIMIT ?
    `
	rows, err := r.DB.QueryContext(ctx, query, kind, fsm.StatusOpen, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

// UpdateStatus transitions the listing through the state machine inside a
// transaction, so a concurrent transition cannot slip between the read and
// the write.
func (r *ListingRepository) UpdateStatus(ctx context.Context, listingID int, fromStatus, toStatus string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fsm.Apply(ctx, tx, listingID, fromStatus, toStatus); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *ListingRepository) GetStatsSummary(ctx context.Context, userID int) (models.ListingStatsSummary, error) {
	query := `
        SELECT
            COALESCE(SUM(status = 'open'), 0),
            COALESCE(SUM(status = 'in_progress'), 0),
            COALESCE(SUM(status = 'completed'), 0),
            COALESCE(SUM(status = 'cancelled'), 0),
            COUNT(*)
        FROM listings WHERE user_id = ?
    `
	var summary models.ListingStatsSummary
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&summary.Open, &summary.InProgress, &summary.Completed, &summary.Cancelled, &summary.Total,
	)
	if err != nil {
		return models.ListingStatsSummary{}, err
	}
	return summary, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (models.Listing, error) {
	var listing models.Listing
	var tagsJSON string
	err := row.Scan(
		&listing.ID, &listing.UserID, &listing.Kind, &listing.Category, &listing.Title,
		&listing.Description, &listing.Budget, &listing.Deadline, &listing.Contacts,
		&listing.Status, &listing.ApplicationsCount, &tagsJSON, &listing.IsActive,
		&listing.CreatedAt, &listing.UpdatedAt,
	)
	if err != nil {
		return models.Listing{}, err
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &listing.Tags); err != nil {
			listing.Tags = nil
		}
	}
	return listing, nil
}

func collectListings(rows *sql.Rows) ([]models.Listing, error) {
	listings := []models.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}
