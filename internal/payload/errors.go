// Package payload renders reading snapshots into the wire formats pushed to a
// remote logging endpoint.
package payload

import "errors"

// Render failures. A failed render never yields partial output.
var (
	ErrInvalidFormat  = errors.New("invalid format")
	ErrBufferOverflow = errors.New("payload exceeds buffer capacity")
	ErrNonFinite      = errors.New("non-finite value")
)
