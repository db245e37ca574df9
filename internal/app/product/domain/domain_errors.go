package domain

import "errors"

// Domain errors as sentinel values
var (
	// Product errors
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyName       = errors.New("product name cannot be empty")
	ErrInvalidPrice    = errors.New("product price must be positive")
	ErrInvalidCategory = errors.New("product category cannot be empty")
	ErrEmptyTag        = errors.New("product tag cannot be empty")

	// Money errors
	ErrMoneyOverflow = errors.New("money value exceeds int64 storage")

	// Status errors
	ErrAlreadyActive        = errors.New("product is already active")
	ErrAlreadyInactive      = errors.New("product is already inactive")
	ErrAlreadyArchived      = errors.New("product is already archived")
	ErrCannotModifyArchived = errors.New("cannot modify archived product")
)
