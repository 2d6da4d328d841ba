package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrWriteFailed = errors.New("write failed")
)
