package services

import (
	"errors"
	"fmt"
)

// Category sentinels. Callers branch on these with errors.Is to pick a
// remedial action; the specific errors below wrap one of them.
var (
	// ErrValidation marks caller-supplied data that is structurally wrong.
	// Rejected before any write, never retried automatically.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a data-integrity rejection: the write was rolled
	// back and the caller must change something before retrying.
	ErrConflict = errors.New("conflict")
)

var (
	ErrBlankHost       = fmt.Errorf("%w: host is blank", ErrValidation)
	ErrUnknownStatus   = fmt.Errorf("%w: rule status is unknown", ErrValidation)
	ErrBlankBrowser    = fmt.Errorf("%w: preferred browser is blank", ErrValidation)
	ErrUnknownSource   = fmt.Errorf("%w: uri source is unknown", ErrValidation)
	ErrUnknownAction   = fmt.Errorf("%w: interaction action is unknown", ErrValidation)
	ErrBlankURI        = fmt.Errorf("%w: uri is blank", ErrValidation)
	ErrBlankFolderName = fmt.Errorf("%w: folder name is blank", ErrValidation)
	ErrUnknownFolder   = fmt.Errorf("%w: folder type is unknown", ErrValidation)
	ErrFolderTypeFixed = fmt.Errorf("%w: folder type cannot change", ErrValidation)

	ErrFolderTypeMismatch = fmt.Errorf("%w: folder type does not match rule status", ErrConflict)
	ErrFolderCycle        = fmt.Errorf("%w: folder would become its own ancestor", ErrConflict)
	ErrFolderDepth        = fmt.Errorf("%w: folder chain exceeds maximum depth", ErrConflict)
	ErrFolderNotEmpty     = fmt.Errorf("%w: folder has child folders", ErrConflict)
	ErrDuplicateFolder    = fmt.Errorf("%w: folder name already used in this location", ErrConflict)
	ErrDefaultProtected   = fmt.Errorf("%w: default folders cannot be modified or deleted", ErrConflict)
	ErrReservedName       = fmt.Errorf("%w: name is reserved for a default folder", ErrConflict)
)
