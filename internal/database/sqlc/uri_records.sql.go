package sqldb

import (
	"context"
	"database/sql"
	"time"
)

// URIRecord mirrors a row of the uri_records table.
type URIRecord struct {
	ID            int64
	URI           string
	Host          string
	Source        string
	Action        string
	ChosenBrowser sql.NullString
	HostRuleID    sql.NullInt64
	CreatedAt     time.Time
}

const uriRecordColumns = `id, uri, host, source, action, chosen_browser, host_rule_id, created_at`

func scanURIRecord(row interface{ Scan(...any) error }) (URIRecord, error) {
	var r URIRecord
	err := row.Scan(
		&r.ID,
		&r.URI,
		&r.Host,
		&r.Source,
		&r.Action,
		&r.ChosenBrowser,
		&r.HostRuleID,
		&r.CreatedAt,
	)
	return r, err
}

const insertURIRecord = `
INSERT INTO uri_records (uri, host, source, action, chosen_browser, host_rule_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type InsertURIRecordParams struct {
	URI           string
	Host          string
	Source        string
	Action        string
	ChosenBrowser sql.NullString
	HostRuleID    sql.NullInt64
	CreatedAt     time.Time
}

func (q *Queries) InsertURIRecord(ctx context.Context, arg InsertURIRecordParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertURIRecord,
		arg.URI,
		arg.Host,
		arg.Source,
		arg.Action,
		arg.ChosenBrowser,
		arg.HostRuleID,
		arg.CreatedAt,
	)
}

const listURIRecords = `SELECT ` + uriRecordColumns + ` FROM uri_records ORDER BY created_at DESC, id DESC LIMIT ?`

func (q *Queries) ListURIRecords(ctx context.Context, limit int64) ([]URIRecord, error) {
	return q.queryURIRecords(ctx, listURIRecords, limit)
}

const listURIRecordsByHost = `SELECT ` + uriRecordColumns + ` FROM uri_records WHERE host = ? ORDER BY created_at DESC, id DESC LIMIT ?`

type ListURIRecordsByHostParams struct {
	Host  string
	Limit int64
}

func (q *Queries) ListURIRecordsByHost(ctx context.Context, arg ListURIRecordsByHostParams) ([]URIRecord, error) {
	return q.queryURIRecords(ctx, listURIRecordsByHost, arg.Host, arg.Limit)
}

func (q *Queries) queryURIRecords(ctx context.Context, query string, args ...any) ([]URIRecord, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []URIRecord
	for rows.Next() {
		r, err := scanURIRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
