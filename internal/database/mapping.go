package database

import (
	sqldb "github.com/hostgate/hostgate/internal/database/sqlc"
	"github.com/hostgate/hostgate/internal/uri"
)

// HostRuleRecordFromRow converts a sqlc host_rules row into the domain record.
func HostRuleRecordFromRow(row sqldb.HostRule) HostRuleRecord {
	return HostRuleRecord{
		ID:                row.ID,
		Host:              row.Host,
		Status:            uri.RuleStatus(row.Status),
		FolderID:          int64Ptr(row.FolderID),
		PreferredBrowser:  stringPtr(row.PreferredBrowser),
		PreferenceEnabled: row.PreferenceEnabled != 0,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

// HostRuleInsertParams builds insert parameters from a domain record.
func HostRuleInsertParams(rec HostRuleRecord) sqldb.InsertHostRuleParams {
	return sqldb.InsertHostRuleParams{
		Host:              rec.Host,
		Status:            string(rec.Status),
		FolderID:          nullInt64Ptr(rec.FolderID),
		PreferredBrowser:  nullStringPtr(rec.PreferredBrowser),
		PreferenceEnabled: boolToInt64(rec.PreferenceEnabled),
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}

// HostRuleUpdateParams builds update parameters from a domain record.
func HostRuleUpdateParams(rec HostRuleRecord) sqldb.UpdateHostRuleParams {
	return sqldb.UpdateHostRuleParams{
		Status:            string(rec.Status),
		FolderID:          nullInt64Ptr(rec.FolderID),
		PreferredBrowser:  nullStringPtr(rec.PreferredBrowser),
		PreferenceEnabled: boolToInt64(rec.PreferenceEnabled),
		UpdatedAt:         rec.UpdatedAt,
		ID:                rec.ID,
	}
}

// FolderRecordFromRow converts a sqlc folders row into the domain record.
func FolderRecordFromRow(row sqldb.Folder) FolderRecord {
	return FolderRecord{
		ID:        row.ID,
		Name:      row.Name,
		ParentID:  int64Ptr(row.ParentID),
		Type:      uri.FolderType(row.Type),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// FolderInsertParams builds insert parameters from a domain record.
func FolderInsertParams(rec FolderRecord) sqldb.InsertFolderParams {
	return sqldb.InsertFolderParams{
		Name:      rec.Name,
		ParentID:  nullInt64Ptr(rec.ParentID),
		Type:      string(rec.Type),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// FolderUpdateParams builds update parameters from a domain record.
func FolderUpdateParams(rec FolderRecord) sqldb.UpdateFolderParams {
	return sqldb.UpdateFolderParams{
		Name:      rec.Name,
		ParentID:  nullInt64Ptr(rec.ParentID),
		UpdatedAt: rec.UpdatedAt,
		ID:        rec.ID,
	}
}

// URIRecordFromRow converts a sqlc uri_records row into the domain record.
func URIRecordFromRow(row sqldb.URIRecord) URIRecord {
	return URIRecord{
		ID:            row.ID,
		URI:           row.URI,
		Host:          row.Host,
		Source:        uri.Source(row.Source),
		Action:        uri.Action(row.Action),
		ChosenBrowser: stringPtr(row.ChosenBrowser),
		HostRuleID:    int64Ptr(row.HostRuleID),
		CreatedAt:     row.CreatedAt,
	}
}

// URIRecordInsertParams builds insert parameters from a domain record.
func URIRecordInsertParams(rec URIRecord) sqldb.InsertURIRecordParams {
	return sqldb.InsertURIRecordParams{
		URI:           rec.URI,
		Host:          rec.Host,
		Source:        string(rec.Source),
		Action:        string(rec.Action),
		ChosenBrowser: nullStringPtr(rec.ChosenBrowser),
		HostRuleID:    nullInt64Ptr(rec.HostRuleID),
		CreatedAt:     rec.CreatedAt,
	}
}

// BrowserUsageRecordFromRow converts a sqlc browser_usage row into the domain record.
func BrowserUsageRecordFromRow(row sqldb.BrowserUsage) BrowserUsageRecord {
	return BrowserUsageRecord{
		PackageName: row.PackageName,
		UsageCount:  row.UsageCount,
		LastUsedAt:  row.LastUsedAt,
	}
}
