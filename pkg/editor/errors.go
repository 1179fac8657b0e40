package editor

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the controller.
var (
	// ErrMissingField is returned when full name, group or subject is blank.
	ErrMissingField = errors.New("full name, group and subject are required")

	// ErrInvalidGrade is returned when the grade is not empty and not 1 to 5.
	ErrInvalidGrade = errors.New("grade must be a number from 1 to 5 or empty")

	// ErrDuplicate is returned when another student has the same name in the same group.
	ErrDuplicate = errors.New("a student with this name already exists in the group")

	// ErrNoSelection is returned by operations that need a record under the cursor.
	ErrNoSelection = errors.New("no record selected")

	// ErrNotVisible is returned when navigating to a record hidden by the display filter.
	ErrNotVisible = errors.New("record is hidden")
)

// ValidationError reports which input blocked a commit
type ValidationError struct {
	Field Field
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
