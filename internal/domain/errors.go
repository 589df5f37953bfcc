package domain

import "errors"

var (
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidTime      = errors.New("invalid time field")
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrInvalidPosition  = errors.New("invalid position")
)
