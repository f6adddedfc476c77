package types

import (
	"errors"
	"fmt"
)

// Store operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrTableNotFound = errors.New("unknown table")
	ErrInvalidData   = errors.New("invalid record data")
	ErrStoreClosed   = errors.New("store is closed")
)

// User-state errors. These are state errors in the taxonomy: the caller
// violated a precondition and no state was modified.
var (
	ErrItemNotFound         = errors.New("inventory item not found")
	ErrSetNotFound          = errors.New("set not found")
	ErrPartNotInSet         = errors.New("part not present in set")
	ErrInsufficientQuantity = errors.New("requested transfer quantity exceeds available inventory")
	ErrInvalidImport        = errors.New("import payload has no usable data")
)

// TransportError reports a fetch failure, carrying the HTTP status when the
// request completed with a non-2xx response (Status is 0 for connection
// failures).
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FormatError reports a corrupt or malformed resource: decompression
// failure or an undecodable payload. Malformed individual rows are dropped
// silently and never surface as a FormatError.
type FormatError struct {
	Resource string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed resource %s: %v", e.Resource, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// StorageError reports a local store failure: open, transaction, or schema
// repair. It is distinguishable from transport and format errors so callers
// can tell "resource unreachable" from "resource corrupt" from "local
// storage unavailable".
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
