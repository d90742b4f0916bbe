package review

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid review request")
	ErrNotFound         = errors.New("not found")
	ErrReviewNotAllowed = errors.New("user has no completed booking for this tour")
	ErrConflict         = errors.New("review already exists")
)
