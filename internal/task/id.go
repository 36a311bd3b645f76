package task

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh task id.
type IDGenerator func() (string, error)

// NewUUIDv7 generates time-ordered ids. Within one process the uuid package
// keeps v7 ids strictly increasing, so two creations never share an id.
func NewUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("new uuidv7: %w", err)
	}

	return id.String(), nil
}

// SequenceIDs returns a deterministic generator yielding prefix-1, prefix-2, ...
func SequenceIDs(prefix string) IDGenerator {
	n := 0

	return func() (string, error) {
		n++

		return fmt.Sprintf("%s-%d", prefix, n), nil
	}
}
