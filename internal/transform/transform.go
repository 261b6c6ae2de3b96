package transform

import (
	"fmt"

	"github.com/rgehrsitz/plancost/internal/domain"
)

// InputTransform is a composable what-if edit of a user's inputs.
// Apply never mutates its argument.
type InputTransform interface {
	// Apply returns a modified copy of base.
	Apply(base *domain.UserInputs) (*domain.UserInputs, error)

	// Name returns the registry identifier, e.g. "scale_utilization".
	Name() string

	// Description returns a human-readable summary of the edit.
	Description() string

	// Validate checks parameters against base without applying.
	Validate(base *domain.UserInputs) error
}

// ApplyTransforms applies transforms in order, each receiving the previous output.
// The base inputs are never modified; with no transforms a deep copy is returned.
func ApplyTransforms(base *domain.UserInputs, transforms []InputTransform) (*domain.UserInputs, error) {
	if base == nil {
		return nil, fmt.Errorf("base inputs cannot be nil")
	}

	current := base.DeepCopy()
	for i, t := range transforms {
		if t == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := t.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", t.Name(), err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}
		current = next
	}

	return current, nil
}

// Describe joins the descriptions of a transform chain
func Describe(transforms []InputTransform) []string {
	out := make([]string, 0, len(transforms))
	for _, t := range transforms {
		out = append(out, t.Description())
	}
	return out
}

// TransformError represents an error raised by a single transform.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
