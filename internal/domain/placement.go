package domain

import (
	"fmt"
	"strings"
)

// Bucket identifies which kind of container owns a todo.
type Bucket string

// BucketDay and related constants name every placement bucket.
const (
	BucketDay        Bucket = "day"
	BucketUnassigned Bucket = "unassigned"
	BucketDone       Bucket = "done"
)

// Placement is the persisted logical location of a todo.
// Row and Col are only meaningful for day placements.
type Placement struct {
	Bucket Bucket
	Row    int
	Col    int
}

// DayPlacement returns a placement in the day cell at row, col.
func DayPlacement(row, col int) Placement {
	return Placement{Bucket: BucketDay, Row: row, Col: col}
}

// UnassignedPlacement returns the unassigned bucket placement.
func UnassignedPlacement() Placement {
	return Placement{Bucket: BucketUnassigned}
}

// DonePlacement returns the done bucket placement.
func DonePlacement() Placement {
	return Placement{Bucket: BucketDone}
}

// NormalizeBucket canonicalizes raw bucket text.
func NormalizeBucket(raw string) Bucket {
	return Bucket(strings.ToLower(strings.TrimSpace(raw)))
}

// Validate reports whether the placement names a real bucket.
func (p Placement) Validate() error {
	switch p.Bucket {
	case BucketDay:
		if p.Row < 0 || p.Col < 0 {
			return ErrInvalidPlacement
		}
		return nil
	case BucketUnassigned, BucketDone:
		return nil
	default:
		return ErrInvalidPlacement
	}
}

// Normalize zeroes row/col for bucket placements so equal placements compare equal.
func (p Placement) Normalize() Placement {
	p.Bucket = NormalizeBucket(string(p.Bucket))
	if p.Bucket != BucketDay {
		p.Row = 0
		p.Col = 0
	}
	return p
}

func (p Placement) String() string {
	if p.Bucket == BucketDay {
		return fmt.Sprintf("day[%d,%d]", p.Row, p.Col)
	}
	return string(p.Bucket)
}
