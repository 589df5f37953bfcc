package domain

import "time"

// ChangeOperation describes one persisted todo mutation kind.
type ChangeOperation string

// ChangeOperationCreate and related constants define persisted operation names.
const (
	ChangeOperationCreate ChangeOperation = "create"
	ChangeOperationUpdate ChangeOperation = "update"
	ChangeOperationMove   ChangeOperation = "move"
	ChangeOperationDone   ChangeOperation = "done"
	ChangeOperationReopen ChangeOperation = "reopen"
)

// ChangeEvent stores one persisted todo activity record.
type ChangeEvent struct {
	ID         int64
	TodoID     string
	Operation  ChangeOperation
	Metadata   map[string]string
	OccurredAt time.Time
}
