package engine

import "fmt"

// TransientError marks a failed run caused by the input itself: a blank or
// malformed URI, or an unknown source. Callers show it once and clear it;
// the next interception is unaffected.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("cannot process uri: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PersistentError marks a store or integrity failure. It stays attached to
// the current action until a later operation succeeds or the caller
// explicitly resolves it.
type PersistentError struct {
	Op  string
	Err error
}

func (e *PersistentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistentError) Unwrap() error { return e.Err }

func transient(err error) error {
	return &TransientError{Err: err}
}

func persistent(op string, err error) error {
	return &PersistentError{Op: op, Err: err}
}
