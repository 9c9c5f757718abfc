package service

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrUnknownDocument  = errors.New("document is not part of the requirement catalog")
	ErrReviewNotFound   = errors.New("review not found")
	ErrAppNotFound      = errors.New("application not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrEmptyMessage     = errors.New("please enter a message")
	ErrMissingFields    = errors.New("please fill in all fields")
	ErrInvalidEmail     = errors.New("please enter a valid email address")
	ErrShortName        = errors.New("name must be at least 2 characters long")
	ErrShortPassword    = errors.New("password must be at least 6 characters")
	ErrAdminRegister    = errors.New("admin registration is not allowed")
	ErrInvalidLogin     = errors.New("invalid email or password")
)

// NotFound reports whether err belongs to the not-found family.
func NotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDocumentNotFound) ||
		errors.Is(err, ErrReviewNotFound) ||
		errors.Is(err, ErrAppNotFound) ||
		errors.Is(err, ErrClientNotFound)
}
