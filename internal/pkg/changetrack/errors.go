package changetrack

import "errors"

// Tracker errors as sentinel values
var (
	ErrNilItem       = errors.New("cannot track a nil item")
	ErrDuplicateItem = errors.New("item is already tracked")
	ErrNotTracked    = errors.New("item is not tracked")

	// Property setup errors
	ErrUnsupportedItemType       = errors.New("type is not a pointer to struct")
	ErrUnsupportedCollectionType = errors.New("type is not supported as trackable collection")

	// Collection restore errors
	ErrNoContainerInstance = errors.New("no instance of collection found")
	ErrReadOnlyContainer   = errors.New("collection is read only")
	ErrFixedSizeMismatch   = errors.New("collection has fixed size which doesn't match number of stored values")
)
