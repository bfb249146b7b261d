package database

import (
	"time"

	"github.com/hostgate/hostgate/internal/uri"
)

// HostRuleRecord represents a row in the host_rules table. There is at most
// one rule per distinct host; it couples the host's status with its optional
// folder membership and browser preference.
type HostRuleRecord struct {
	ID                int64
	Host              string
	Status            uri.RuleStatus
	FolderID          *int64
	PreferredBrowser  *string
	PreferenceEnabled bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FolderRecord represents a row in the folders table. Folders form two
// disjoint trees discriminated by Type; ParentID is nil for roots.
type FolderRecord struct {
	ID        int64
	Name      string
	ParentID  *int64
	Type      uri.FolderType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// URIRecord is an immutable history entry describing one interaction with an
// intercepted URI.
type URIRecord struct {
	ID            int64
	URI           string
	Host          string
	Source        uri.Source
	Action        uri.Action
	ChosenBrowser *string
	HostRuleID    *int64
	CreatedAt     time.Time
}

// BrowserUsageRecord is the per-browser usage counter.
type BrowserUsageRecord struct {
	PackageName string
	UsageCount  int64
	LastUsedAt  time.Time
}
