package sqldb

import (
	"context"
	"database/sql"
	"time"
)

// Folder mirrors a row of the folders table.
type Folder struct {
	ID        int64
	Name      string
	ParentID  sql.NullInt64
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const folderColumns = `id, name, parent_id, type, created_at, updated_at`

func scanFolder(row interface{ Scan(...any) error }) (Folder, error) {
	var f Folder
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.ParentID,
		&f.Type,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

const findFolderByID = `SELECT ` + folderColumns + ` FROM folders WHERE id = ?`

func (q *Queries) FindFolderByID(ctx context.Context, id int64) (Folder, error) {
	return scanFolder(q.db.QueryRowContext(ctx, findFolderByID, id))
}

// parent_id IS ? matches NULL parents when the bound value is NULL.
const findFolderByIdentity = `
SELECT ` + folderColumns + ` FROM folders
WHERE type = ? AND parent_id IS ? AND name = ?
`

type FindFolderByIdentityParams struct {
	Type     string
	ParentID sql.NullInt64
	Name     string
}

func (q *Queries) FindFolderByIdentity(ctx context.Context, arg FindFolderByIdentityParams) (Folder, error) {
	return scanFolder(q.db.QueryRowContext(ctx, findFolderByIdentity, arg.Type, arg.ParentID, arg.Name))
}

const listFolders = `SELECT ` + folderColumns + ` FROM folders ORDER BY type, name`

func (q *Queries) ListFolders(ctx context.Context) ([]Folder, error) {
	return q.queryFolders(ctx, listFolders)
}

const listFoldersByType = `SELECT ` + folderColumns + ` FROM folders WHERE type = ? ORDER BY name`

func (q *Queries) ListFoldersByType(ctx context.Context, folderType string) ([]Folder, error) {
	return q.queryFolders(ctx, listFoldersByType, folderType)
}

const listChildFolders = `SELECT ` + folderColumns + ` FROM folders WHERE parent_id = ? ORDER BY name`

func (q *Queries) ListChildFolders(ctx context.Context, parentID int64) ([]Folder, error) {
	return q.queryFolders(ctx, listChildFolders, parentID)
}

func (q *Queries) queryFolders(ctx context.Context, query string, args ...any) ([]Folder, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

const countChildFolders = `SELECT COUNT(*) FROM folders WHERE parent_id = ?`

func (q *Queries) CountChildFolders(ctx context.Context, parentID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countChildFolders, parentID).Scan(&count)
	return count, err
}

const insertFolder = `
INSERT INTO folders (name, parent_id, type, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`

type InsertFolderParams struct {
	Name      string
	ParentID  sql.NullInt64
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) InsertFolder(ctx context.Context, arg InsertFolderParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertFolder,
		arg.Name,
		arg.ParentID,
		arg.Type,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
}

const updateFolder = `
UPDATE folders
SET name = ?, parent_id = ?, updated_at = ?
WHERE id = ?
`

type UpdateFolderParams struct {
	Name      string
	ParentID  sql.NullInt64
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateFolder(ctx context.Context, arg UpdateFolderParams) error {
	_, err := q.db.ExecContext(ctx, updateFolder,
		arg.Name,
		arg.ParentID,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}

const deleteFolderByID = `DELETE FROM folders WHERE id = ?`

func (q *Queries) DeleteFolderByID(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteFolderByID, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
