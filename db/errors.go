package db

import "fmt"

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = fmt.Errorf("not found")
	// ErrInvalidData is returned when a write is attempted with data that
	// fails basic integrity checks.
	ErrInvalidData = fmt.Errorf("invalid data provided")
	// ErrAlreadyExists is returned on unique index violations.
	ErrAlreadyExists = fmt.Errorf("already exists")
	// ErrPrepareDocument is returned when a document cannot be encoded for
	// a database operation.
	ErrPrepareDocument = fmt.Errorf("error preparing document")
)
