package sqldb

import (
	"context"
	"time"
)

// BrowserUsage mirrors a row of the browser_usage table.
type BrowserUsage struct {
	PackageName string
	UsageCount  int64
	LastUsedAt  time.Time
}

const incrementBrowserUsage = `
INSERT INTO browser_usage (package_name, usage_count, last_used_at)
VALUES (?, 1, ?)
ON CONFLICT (package_name) DO UPDATE SET
    usage_count = usage_count + 1,
    last_used_at = excluded.last_used_at
`

type IncrementBrowserUsageParams struct {
	PackageName string
	LastUsedAt  time.Time
}

func (q *Queries) IncrementBrowserUsage(ctx context.Context, arg IncrementBrowserUsageParams) error {
	_, err := q.db.ExecContext(ctx, incrementBrowserUsage, arg.PackageName, arg.LastUsedAt)
	return err
}

const findBrowserUsage = `SELECT package_name, usage_count, last_used_at FROM browser_usage WHERE package_name = ?`

func (q *Queries) FindBrowserUsage(ctx context.Context, packageName string) (BrowserUsage, error) {
	var u BrowserUsage
	err := q.db.QueryRowContext(ctx, findBrowserUsage, packageName).Scan(&u.PackageName, &u.UsageCount, &u.LastUsedAt)
	return u, err
}

const listBrowserUsage = `SELECT package_name, usage_count, last_used_at FROM browser_usage ORDER BY usage_count DESC, package_name`

func (q *Queries) ListBrowserUsage(ctx context.Context) ([]BrowserUsage, error) {
	rows, err := q.db.QueryContext(ctx, listBrowserUsage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BrowserUsage
	for rows.Next() {
		var u BrowserUsage
		if err := rows.Scan(&u.PackageName, &u.UsageCount, &u.LastUsedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

const deleteBrowserUsage = `DELETE FROM browser_usage WHERE package_name = ?`

func (q *Queries) DeleteBrowserUsage(ctx context.Context, packageName string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteBrowserUsage, packageName)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
