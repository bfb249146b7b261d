// Package browser enumerates the browsers installed on the machine. The
// decision engine only consumes this to populate the picker and to sanity
// check user-supplied package names.
package browser

import "context"

// Browser describes one installed browser.
type Browser struct {
	// PackageName is the stable identifier persisted in rules and usage
	// stats. On Linux this is the desktop entry id (e.g. "firefox.desktop").
	PackageName string
	DisplayName string
	IsDefault   bool
}

// Enumerator lists the browsers available for the picker.
type Enumerator interface {
	ListInstalledBrowsers(ctx context.Context) ([]Browser, error)
}

// Static is a fixed browser list, used in tests and for configurations that
// pin the candidate set explicitly.
type Static []Browser

func (s Static) ListInstalledBrowsers(_ context.Context) ([]Browser, error) {
	result := make([]Browser, len(s))
	copy(result, s)
	return result, nil
}
