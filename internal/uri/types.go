package uri

// RuleStatus is the persisted decision attached to a host.
type RuleStatus string

const (
	StatusUnknown    RuleStatus = "unknown"
	StatusNone       RuleStatus = "none"
	StatusBookmarked RuleStatus = "bookmarked"
	StatusBlocked    RuleStatus = "blocked"
)

// Valid reports whether the status may be persisted. StatusUnknown is a
// placeholder for unset values and is rejected at every write boundary.
func (s RuleStatus) Valid() bool {
	switch s {
	case StatusNone, StatusBookmarked, StatusBlocked:
		return true
	default:
		return false
	}
}

// ParseStatus maps user input onto a RuleStatus, returning StatusUnknown for
// anything unrecognised.
func ParseStatus(raw string) RuleStatus {
	switch RuleStatus(raw) {
	case StatusNone, StatusBookmarked, StatusBlocked:
		return RuleStatus(raw)
	default:
		return StatusUnknown
	}
}

// FolderType discriminates the two folder trees.
type FolderType string

const (
	FolderUnknown  FolderType = "unknown"
	FolderBookmark FolderType = "bookmark"
	FolderBlock    FolderType = "block"
)

func (t FolderType) Valid() bool {
	return t == FolderBookmark || t == FolderBlock
}

// ParseFolderType maps user input onto a FolderType.
func ParseFolderType(raw string) FolderType {
	switch FolderType(raw) {
	case FolderBookmark, FolderBlock:
		return FolderType(raw)
	default:
		return FolderUnknown
	}
}

// FolderTypeForStatus returns the folder tree a rule with the given status
// may reference. Statuses without folder semantics map to FolderUnknown.
func FolderTypeForStatus(s RuleStatus) FolderType {
	switch s {
	case StatusBookmarked:
		return FolderBookmark
	case StatusBlocked:
		return FolderBlock
	default:
		return FolderUnknown
	}
}

// Source identifies where an intercepted URI came from.
type Source string

const (
	SourceUnknown   Source = "unknown"
	SourceIntent    Source = "intent"
	SourceClipboard Source = "clipboard"
	SourceManual    Source = "manual"
)

func (s Source) Valid() bool {
	switch s {
	case SourceIntent, SourceClipboard, SourceManual:
		return true
	default:
		return false
	}
}

// ParseSource maps user input onto a Source.
func ParseSource(raw string) Source {
	switch Source(raw) {
	case SourceIntent, SourceClipboard, SourceManual:
		return Source(raw)
	default:
		return SourceUnknown
	}
}

// Action records what happened to an intercepted URI.
type Action string

const (
	ActionUnknown            Action = "unknown"
	ActionOpenedOnce         Action = "opened_once"
	ActionOpenedByPreference Action = "opened_by_preference"
	ActionBlockedEnforced    Action = "blocked_uri_enforced"
	ActionBlockedManual      Action = "blocked_uri_manual"
)

func (a Action) Valid() bool {
	switch a {
	case ActionOpenedOnce, ActionOpenedByPreference, ActionBlockedEnforced, ActionBlockedManual:
		return true
	default:
		return false
	}
}
