package tour

import "errors"

var (
	ErrNotFound   = errors.New("tour not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("tour validation failed")
)
