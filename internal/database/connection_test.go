package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hostgate/hostgate/internal/config"
)

func setupTestDB(t *testing.T) *Context {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOSTGATE_DIR", tmp)

	ctx, err := CreateDatabase("")
	if err != nil {
		t.Fatalf("CreateDatabase returned error: %v", err)
	}

	t.Cleanup(func() {
		if err := CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	return ctx
}

func TestDatabaseCreationAndMigration(t *testing.T) {
	ctx := setupTestDB(t)

	dbPath := config.GetDBPath()
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file to exist at %s: %v", dbPath, err)
	}

	tables := []string{"folders", "host_rules", "uri_records", "browser_usage"}
	for _, table := range tables {
		if !tableExists(t, ctx.DB, table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}

	var fk int
	if err := ctx.DB.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("failed to read foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Fatal("expected foreign keys to be enabled")
	}
}

func TestCreateDatabaseExplicitPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "rules.db")

	ctx, err := CreateDatabase(dbPath)
	if err != nil {
		t.Fatalf("CreateDatabase(%s) returned error: %v", dbPath, err)
	}
	t.Cleanup(func() {
		if err := CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file at %s: %v", dbPath, err)
	}
}

func TestHostRuleHostIsUnique(t *testing.T) {
	ctx := setupTestDB(t)

	insertHostRule(t, ctx.DB, "example.com", "none")
	if _, err := ctx.DB.Exec(
		`INSERT INTO host_rules (host, status, preference_enabled, created_at, updated_at) VALUES (?, ?, 0, ?, ?)`,
		"example.com", "none", time.Now(), time.Now(),
	); err == nil {
		t.Fatal("expected duplicate host insert to fail")
	}
}

func TestClearDatabaseRemovesAllRows(t *testing.T) {
	ctx := setupTestDB(t)

	folderID := insertFolder(t, ctx.DB, "Bookmarks", "bookmark")
	ruleID := insertHostRule(t, ctx.DB, "example.com", "bookmarked")
	insertURIRecord(t, ctx.DB, "https://example.com/a", "example.com", ruleID)
	insertBrowserUsage(t, ctx.DB, "firefox.desktop")
	_ = folderID

	assertCount(t, ctx.DB, "folders", 1)
	assertCount(t, ctx.DB, "host_rules", 1)
	assertCount(t, ctx.DB, "uri_records", 1)
	assertCount(t, ctx.DB, "browser_usage", 1)

	if err := ClearDatabase(ctx); err != nil {
		t.Fatalf("ClearDatabase returned error: %v", err)
	}

	assertCount(t, ctx.DB, "folders", 0)
	assertCount(t, ctx.DB, "host_rules", 0)
	assertCount(t, ctx.DB, "uri_records", 0)
	assertCount(t, ctx.DB, "browser_usage", 0)
}

func TestQueriesRoundTrip(t *testing.T) {
	ctx := setupTestDB(t)
	bg := context.Background()

	folderName := "Work"
	now := time.Now().UTC()
	rec := FolderRecord{
		Name:      folderName,
		Type:      "bookmark",
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := ctx.Queries.InsertFolder(bg, FolderInsertParams(rec))
	if err != nil {
		t.Fatalf("InsertFolder failed: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("LastInsertId failed: %v", err)
	}

	row, err := ctx.Queries.FindFolderByID(bg, id)
	if err != nil {
		t.Fatalf("FindFolderByID failed: %v", err)
	}
	got := FolderRecordFromRow(row)
	if got.Name != folderName || got.Type != "bookmark" || got.ParentID != nil {
		t.Fatalf("unexpected folder record: %+v", got)
	}
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("tableExists query failed for %s: %v", table, err)
	}
	return true
}

func insertFolder(t *testing.T, db *sql.DB, name, folderType string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO folders (name, type, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, folderType, time.Now(), time.Now(),
	)
	if err != nil {
		t.Fatalf("insertFolder failed: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("insertFolder LastInsertId failed: %v", err)
	}
	return id
}

func insertHostRule(t *testing.T, db *sql.DB, host, status string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO host_rules (host, status, preference_enabled, created_at, updated_at) VALUES (?, ?, 0, ?, ?)`,
		host, status, time.Now(), time.Now(),
	)
	if err != nil {
		t.Fatalf("insertHostRule failed: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("insertHostRule LastInsertId failed: %v", err)
	}
	return id
}

func insertURIRecord(t *testing.T, db *sql.DB, rawURI, host string, ruleID int64) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO uri_records (uri, host, source, action, host_rule_id, created_at) VALUES (?, ?, 'intent', 'opened_once', ?, ?)`,
		rawURI, host, ruleID, time.Now(),
	); err != nil {
		t.Fatalf("insertURIRecord failed: %v", err)
	}
}

func insertBrowserUsage(t *testing.T, db *sql.DB, packageName string) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO browser_usage (package_name, usage_count, last_used_at) VALUES (?, 1, ?)`,
		packageName, time.Now(),
	); err != nil {
		t.Fatalf("insertBrowserUsage failed: %v", err)
	}
}

func assertCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count query failed for %s: %v", table, err)
	}
	if count != expected {
		t.Fatalf("expected %s to have %d rows, got %d", table, expected, count)
	}
}
