package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("already exists")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrUpstream        = errors.New("upstream service unavailable")
	ErrInvalidCreds    = errors.New("invalid credentials")
	ErrProductName     = errors.New("product name must be at least 2 characters")
	ErrNegativePrice   = errors.New("price must be non-negative")
	ErrNegativeStock   = errors.New("stock must be a non-negative integer")
	ErrDescriptionSize = errors.New("description must be at least 10 characters")
)
