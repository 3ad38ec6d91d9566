package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("endpoint not found")
	ErrMethod     = errors.New("method not allowed")
	ErrInternal   = errors.New("internal server error")
)
