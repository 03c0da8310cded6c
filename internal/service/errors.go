package service

import (
	"errors"

	"github.com/pageza/dietplan/backend/internal/store"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = store.ErrNotFound
	// ErrInvalidAction is returned by the nutrition proxy for any action other than search
	ErrInvalidAction = errors.New("invalid action")
	// ErrMissingQuery is returned by the nutrition proxy when the query is blank
	ErrMissingQuery = errors.New("query is required")
	// ErrUpstream wraps failures talking to a remote nutrition API
	ErrUpstream = errors.New("upstream nutrition API failed")
	// ErrInvalidToken is returned when a bearer token cannot be validated
	ErrInvalidToken = errors.New("invalid token")
)
