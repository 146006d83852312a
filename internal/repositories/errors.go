package repositories

import "errors"

// Sentinel errors returned (wrapped) by every repository implementation.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)
