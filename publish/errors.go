package publish

import "fmt"

var (
	// ErrNotFound is returned when an object for the given key does not
	// exist in the underlying store.
	ErrNotFound = fmt.Errorf("object not found")
)
