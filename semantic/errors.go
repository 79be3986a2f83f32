package semantic

import "errors"

// ErrInvalidStrategy is returned when a Strategy is required but not
// supplied.
var ErrInvalidStrategy = errors.New("semantic: invalid strategy")
