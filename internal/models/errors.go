package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRateLimited   = errors.New("too many attempts")
	ErrNotConfigured = errors.New("required configuration missing")
	ErrUpstream      = errors.New("upstream request failed")

	// Video pipeline errors
	ErrInvalidVideoURL = errors.New("unrecognized video URL")
	ErrBadModelOutput  = errors.New("model response is not valid JSON")
)
