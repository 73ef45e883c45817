package fsm

import (
	"context"
	"database/sql"

	"vzaimoBack/internal/models"
)

// Status constants used by the listing state machine.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var transitions = map[string]map[string]struct{}{
	StatusOpen: {
		StatusInProgress: {},
		StatusCancelled:  {},
	},
	StatusInProgress: {
		StatusCompleted: {},
		StatusCancelled: {},
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status string) bool {
	allowed, ok := transitions[status]
	return ok && len(allowed) == 0
}

// CanTransition returns whether a listing can move from one status to another.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Apply updates a listing status using optimistic validation: the UPDATE only
// matches while the row still holds the expected current status, so a
// concurrent transition makes it a no-op and the caller sees ErrInvalidTransition.
func Apply(ctx context.Context, tx *sql.Tx, listingID int, fromStatus, toStatus string) error {
	if !CanTransition(fromStatus, toStatus) {
		return models.ErrInvalidTransition
	}
	res, err := tx.ExecContext(ctx, `UPDATE listings SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`, toStatus, listingID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrInvalidTransition
	}
	return nil
}
