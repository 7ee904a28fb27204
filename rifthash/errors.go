package rifthash

import "errors"

// Error kinds surfaced by constructors, matching the error taxonomy of the
// C original: malformed inputs, allocation failure, on-disk DAG I/O, and
// caller-requested abort of a build in progress.
var (
	ErrInvalid  = errors.New("rifthash: invalid parameters")
	ErrNoMemory = errors.New("rifthash: allocation failed")
	ErrIO       = errors.New("rifthash: dag file i/o failed")
	ErrAborted  = errors.New("rifthash: build aborted by progress callback")
)
