package mcpserver

import "errors"

// ErrInvalidType is returned when a search_by_type call's type argument
// fails to parse.
var ErrInvalidType = errors.New("mcpserver: invalid type expression")
