package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNoOrganismProvided = errors.New("at least one organism must be provided")
	ErrMediaNotDefined    = errors.New("initial media state is missing")
	ErrProcessNotDefined  = errors.New("process definition is missing")
)

// NotFoundError reports a fatal lookup failure for a configuration entity.
// Soft lookups (unknown asset in a command, unknown molecule in a condition)
// never produce it; they degrade to no-op or false instead.
type NotFoundError struct {
	Kind string // "asset", "organism", "method"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}
