package engine

import (
	"github.com/hostgate/hostgate/internal/browser"
	"github.com/hostgate/hostgate/internal/database"
	"github.com/hostgate/hostgate/internal/uri"
)

// Outcome is the single terminal result of one decision run. Exactly one of
// Blocked, AutoOpen, or ShowPicker is produced per intercepted URI. Blocked
// is an expected outcome, not an error.
type Outcome interface {
	isOutcome()
}

// Blocked means an existing rule forbids opening this host. The enforcement
// has already been recorded in history.
type Blocked struct {
	URI      uri.ParsedUri
	Rule     database.HostRuleRecord
	RecordID int64
}

// AutoOpen means an enabled browser preference decided the run. History and
// usage stats have already been written.
type AutoOpen struct {
	URI            uri.ParsedUri
	BrowserPackage string
	RuleID         int64
	RecordID       int64
}

// ShowPicker means no rule dictates an action: the caller must present the
// installed browsers and resolve the run through OpenOnce, OpenAlways,
// ToggleBookmark, or BlockHost.
type ShowPicker struct {
	URI      uri.ParsedUri
	Rule     *database.HostRuleRecord
	Browsers []browser.Browser
}

func (Blocked) isOutcome()    {}
func (AutoOpen) isOutcome()   {}
func (ShowPicker) isOutcome() {}
