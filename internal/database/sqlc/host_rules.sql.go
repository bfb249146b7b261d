package sqldb

import (
	"context"
	"database/sql"
	"time"
)

// HostRule mirrors a row of the host_rules table.
type HostRule struct {
	ID                int64
	Host              string
	Status            string
	FolderID          sql.NullInt64
	PreferredBrowser  sql.NullString
	PreferenceEnabled int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const hostRuleColumns = `id, host, status, folder_id, preferred_browser, preference_enabled, created_at, updated_at`

func scanHostRule(row interface{ Scan(...any) error }) (HostRule, error) {
	var r HostRule
	err := row.Scan(
		&r.ID,
		&r.Host,
		&r.Status,
		&r.FolderID,
		&r.PreferredBrowser,
		&r.PreferenceEnabled,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

const findHostRuleByHost = `SELECT ` + hostRuleColumns + ` FROM host_rules WHERE host = ?`

func (q *Queries) FindHostRuleByHost(ctx context.Context, host string) (HostRule, error) {
	return scanHostRule(q.db.QueryRowContext(ctx, findHostRuleByHost, host))
}

const findHostRuleByID = `SELECT ` + hostRuleColumns + ` FROM host_rules WHERE id = ?`

func (q *Queries) FindHostRuleByID(ctx context.Context, id int64) (HostRule, error) {
	return scanHostRule(q.db.QueryRowContext(ctx, findHostRuleByID, id))
}

const listHostRules = `SELECT ` + hostRuleColumns + ` FROM host_rules ORDER BY host`

func (q *Queries) ListHostRules(ctx context.Context) ([]HostRule, error) {
	return q.queryHostRules(ctx, listHostRules)
}

const listHostRulesByStatus = `SELECT ` + hostRuleColumns + ` FROM host_rules WHERE status = ? ORDER BY host`

func (q *Queries) ListHostRulesByStatus(ctx context.Context, status string) ([]HostRule, error) {
	return q.queryHostRules(ctx, listHostRulesByStatus, status)
}

const listHostRulesByFolder = `SELECT ` + hostRuleColumns + ` FROM host_rules WHERE folder_id = ? ORDER BY host`

func (q *Queries) ListHostRulesByFolder(ctx context.Context, folderID int64) ([]HostRule, error) {
	return q.queryHostRules(ctx, listHostRulesByFolder, folderID)
}

func (q *Queries) queryHostRules(ctx context.Context, query string, args ...any) ([]HostRule, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []HostRule
	for rows.Next() {
		r, err := scanHostRule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

const insertHostRule = `
INSERT INTO host_rules (host, status, folder_id, preferred_browser, preference_enabled, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type InsertHostRuleParams struct {
	Host              string
	Status            string
	FolderID          sql.NullInt64
	PreferredBrowser  sql.NullString
	PreferenceEnabled int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (q *Queries) InsertHostRule(ctx context.Context, arg InsertHostRuleParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertHostRule,
		arg.Host,
		arg.Status,
		arg.FolderID,
		arg.PreferredBrowser,
		arg.PreferenceEnabled,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
}

const updateHostRule = `
UPDATE host_rules
SET status = ?, folder_id = ?, preferred_browser = ?, preference_enabled = ?, updated_at = ?
WHERE id = ?
`

type UpdateHostRuleParams struct {
	Status            string
	FolderID          sql.NullInt64
	PreferredBrowser  sql.NullString
	PreferenceEnabled int64
	UpdatedAt         time.Time
	ID                int64
}

func (q *Queries) UpdateHostRule(ctx context.Context, arg UpdateHostRuleParams) error {
	_, err := q.db.ExecContext(ctx, updateHostRule,
		arg.Status,
		arg.FolderID,
		arg.PreferredBrowser,
		arg.PreferenceEnabled,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}

const deleteHostRuleByID = `DELETE FROM host_rules WHERE id = ?`

func (q *Queries) DeleteHostRuleByID(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteHostRuleByID, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteHostRuleByHost = `DELETE FROM host_rules WHERE host = ?`

func (q *Queries) DeleteHostRuleByHost(ctx context.Context, host string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteHostRuleByHost, host)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const clearHostRuleFolder = `UPDATE host_rules SET folder_id = NULL, updated_at = ? WHERE folder_id = ?`

type ClearHostRuleFolderParams struct {
	UpdatedAt time.Time
	FolderID  int64
}

func (q *Queries) ClearHostRuleFolder(ctx context.Context, arg ClearHostRuleFolderParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, clearHostRuleFolder, arg.UpdatedAt, arg.FolderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
