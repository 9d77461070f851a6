package db

import "errors"

// Domain-level database error sentinels.
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Brand errors
	ErrBrandNotFound  = errors.New("brand not found")
	ErrDuplicateBrand = errors.New("a brand with this name already exists")

	// Prospect errors
	ErrProspectNotFound = errors.New("prospect not found")
)
