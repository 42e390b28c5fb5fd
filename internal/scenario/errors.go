package scenario

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty indicates the input had no content after unwrapping.
	ErrEmpty = errors.New("scenario: empty input")

	// ErrFormat indicates the input is neither a JSON nor a YAML mapping.
	ErrFormat = errors.New("scenario: input is not a mapping of categories")

	// ErrUnknownPreset indicates a preset name with no built-in scenario.
	ErrUnknownPreset = errors.New("scenario: unknown preset")
)

// RecordError describes a record that could not be decoded into its
// variant. The record is kept as an Unknown variant.
type RecordError struct {
	Category string
	Index    int
	Tag      string
	Wrapped  error
}

func (e *RecordError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("scenario: %s[%d]: %v", e.Category, e.Index, e.Wrapped)
	}
	return fmt.Sprintf("scenario: %s[%d] (%s): %v", e.Category, e.Index, e.Tag, e.Wrapped)
}

func (e *RecordError) Unwrap() error {
	return e.Wrapped
}
