package registry

import "errors"

var (
	// ErrNotFound reports an operation targeting an unknown card identifier.
	ErrNotFound = errors.New("card not found")
	// ErrDuplicate reports a creation colliding with an existing identifier.
	ErrDuplicate = errors.New("card already exists")
)
