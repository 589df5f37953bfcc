package domain

import (
	"strings"
	"time"
)

// Todo is one planner entry as stored by the persistence layer.
type Todo struct {
	ID          string
	Name        string
	Description string
	StartTime   *int
	EndTime     *int
	TimeCost    *int
	Done        bool
	Placement   Placement
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TodoInput struct {
	ID          string
	Name        string
	Description string
	StartTime   *int
	EndTime     *int
	TimeCost    *int
	Placement   Placement
	Position    int
}

func NewTodo(in TodoInput, now time.Time) (Todo, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if in.ID == "" {
		return Todo{}, ErrInvalidID
	}
	if in.Name == "" {
		return Todo{}, ErrInvalidName
	}
	if in.Position < 0 {
		return Todo{}, ErrInvalidPosition
	}
	if err := validateTimes(in.StartTime, in.EndTime, in.TimeCost); err != nil {
		return Todo{}, err
	}
	if in.Placement.Bucket == "" {
		in.Placement = UnassignedPlacement()
	}
	placement := in.Placement.Normalize()
	if err := placement.Validate(); err != nil {
		return Todo{}, err
	}

	return Todo{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		StartTime:   cloneInt(in.StartTime),
		EndTime:     cloneInt(in.EndTime),
		TimeCost:    cloneInt(in.TimeCost),
		Done:        placement.Bucket == BucketDone,
		Placement:   placement,
		Position:    in.Position,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// Place relocates the todo. Done mirrors membership in the done bucket.
func (t *Todo) Place(placement Placement, position int, now time.Time) error {
	placement = placement.Normalize()
	if err := placement.Validate(); err != nil {
		return err
	}
	if position < 0 {
		return ErrInvalidPosition
	}
	t.Placement = placement
	t.Position = position
	t.Done = placement.Bucket == BucketDone
	t.UpdatedAt = now.UTC()
	return nil
}

// MarkDone moves the todo to the end of the done bucket at position.
func (t *Todo) MarkDone(position int, now time.Time) error {
	return t.Place(DonePlacement(), position, now)
}

func (t *Todo) UpdateDetails(name, description string, start, end, cost *int, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if err := validateTimes(start, end, cost); err != nil {
		return err
	}
	t.Name = name
	t.Description = strings.TrimSpace(description)
	t.StartTime = cloneInt(start)
	t.EndTime = cloneInt(end)
	t.TimeCost = cloneInt(cost)
	t.UpdatedAt = now.UTC()
	return nil
}

func validateTimes(start, end, cost *int) error {
	for _, v := range []*int{start, end, cost} {
		if v != nil && *v < 0 {
			return ErrInvalidTime
		}
	}
	if start != nil && end != nil && *start > *end {
		return ErrInvalidTime
	}
	return nil
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
