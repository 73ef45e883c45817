package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrDuplicatePhone     = errors.New("models: duplicate phone number")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrListingNotFound    = errors.New("listing not found")
	ErrListingNotOpen     = errors.New("listing is not open")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrSelfResponse       = errors.New("cannot respond to own listing")
	ErrAlreadyResponded   = errors.New("user already responded to this listing")
	ErrResponseNotFound   = errors.New("response not found")
	ErrAlreadyReviewed    = errors.New("user already reviewed")
	ErrReviewNotFound     = errors.New("review not found")
	ErrNotOwner           = errors.New("only the listing owner may do this")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCode        = errors.New("invalid verification code")
)

// ValidationError carries the field and a user-facing message so the dialog
// layer can re-prompt in the same state.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
