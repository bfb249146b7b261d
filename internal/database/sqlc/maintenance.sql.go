package sqldb

import "context"

const deleteAllURIRecords = `DELETE FROM uri_records`

func (q *Queries) DeleteAllURIRecords(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllURIRecords)
	return err
}

const deleteAllBrowserUsage = `DELETE FROM browser_usage`

func (q *Queries) DeleteAllBrowserUsage(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllBrowserUsage)
	return err
}

const deleteAllHostRules = `DELETE FROM host_rules`

func (q *Queries) DeleteAllHostRules(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllHostRules)
	return err
}

const deleteAllFolders = `DELETE FROM folders`

func (q *Queries) DeleteAllFolders(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllFolders)
	return err
}
