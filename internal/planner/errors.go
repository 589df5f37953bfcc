package planner

import "errors"

// ErrIndexOutOfRange and related errors describe grid mutation failures.
var (
	ErrIndexOutOfRange  = errors.New("item index out of range")
	ErrUnknownContainer = errors.New("unknown container")
	ErrDuplicateItem    = errors.New("duplicate item")
	ErrSameContainer    = errors.New("source and destination container are the same")
	ErrNotDragging      = errors.New("no drag in progress")
)
