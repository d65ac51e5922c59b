package schema

import "errors"

// Validation failures raised by the model and by edit operations.
// All are wrapped with context via fmt.Errorf("...: %w", Err...) and
// should be matched with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateName      = errors.New("duplicate name")
	ErrImmutableAttribute = errors.New("attribute is immutable")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrCyclicDependency   = errors.New("cyclic dependency")
)
