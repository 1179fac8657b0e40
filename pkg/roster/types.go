package roster

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// Errors
var (
	ErrIndexOutOfRange = &StoreError{"index out of range"}
	ErrRecordNotFound  = &StoreError{"record not found"}
)

// StoreError represents a roster store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

func indexError(i, n int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, n)
}

func notFoundError(id ksuid.KSUID) error {
	return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}
