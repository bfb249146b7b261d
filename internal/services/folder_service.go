package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hostgate/hostgate/internal/clock"
	"github.com/hostgate/hostgate/internal/database"
	sqldb "github.com/hostgate/hostgate/internal/database/sqlc"
	"github.com/hostgate/hostgate/internal/uri"
	"github.com/hostgate/hostgate/internal/watch"
)

// Reserved names of the two default root folders, one per tree.
const (
	DefaultBookmarkFolderName = "Bookmarks"
	DefaultBlockFolderName    = "Blocked"
)

// maxFolderDepth bounds the parent-chain walk. The trees are user-curated
// and shallow; hitting this means the data is corrupt, not that the user
// built a 64-deep hierarchy on purpose.
const maxFolderDepth = 64

// FolderService owns the two folder trees. It enforces name uniqueness per
// (type, parent) scope, parent/type coherence, acyclicity, and the
// protection of the two default roots.
type FolderService struct {
	ctx      *database.Context
	clk      clock.Clock
	notifier *watch.Notifier
	log      *zap.Logger
}

func NewFolderService(dbCtx *database.Context, clk clock.Clock, notifier *watch.Notifier, log *zap.Logger) *FolderService {
	if clk == nil {
		clk = clock.System()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FolderService{ctx: dbCtx, clk: clk, notifier: notifier, log: log}
}

// DefaultFolderName returns the reserved root name for a tree.
func DefaultFolderName(t uri.FolderType) string {
	if t == uri.FolderBlock {
		return DefaultBlockFolderName
	}
	return DefaultBookmarkFolderName
}

func reservedNameType(name string) (uri.FolderType, bool) {
	switch name {
	case DefaultBookmarkFolderName:
		return uri.FolderBookmark, true
	case DefaultBlockFolderName:
		return uri.FolderBlock, true
	default:
		return uri.FolderUnknown, false
	}
}

// isDefaultRoot reports whether a folder row is one of the two protected
// default roots.
func isDefaultRoot(row sqldb.Folder) bool {
	if row.ParentID.Valid {
		return false
	}
	reservedFor, ok := reservedNameType(row.Name)
	return ok && reservedFor == uri.FolderType(row.Type)
}

// Create adds a folder. Creating a root with its own tree's reserved name is
// an idempotent bootstrap and returns the existing default's id; the other
// tree's reserved name is rejected.
func (s *FolderService) Create(ctx context.Context, name string, parentID *int64, folderType uri.FolderType) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrBlankFolderName
	}
	if !folderType.Valid() {
		return 0, ErrUnknownFolder
	}

	var folderID int64
	err := withTx(ctx, s.ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		if parentID == nil {
			if reservedFor, ok := reservedNameType(name); ok {
				if reservedFor != folderType {
					return fmt.Errorf("%w: %q belongs to the %s tree", ErrReservedName, name, reservedFor)
				}
				var err error
				folderID, err = s.ensureRootLocked(txCtx, q, folderType)
				return err
			}
		} else {
			parent, err := q.FindFolderByID(txCtx, *parentID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("parent folder %d: %w", *parentID, database.ErrNotFound)
				}
				return err
			}
			if uri.FolderType(parent.Type) != folderType {
				return fmt.Errorf("%w: parent %q is a %s folder", ErrFolderTypeMismatch, parent.Name, parent.Type)
			}
		}

		if err := s.checkDuplicate(txCtx, q, folderType, parentID, name, 0); err != nil {
			return err
		}

		now := s.clk.Now()
		res, err := q.InsertFolder(txCtx, database.FolderInsertParams(database.FolderRecord{
			Name:      name,
			ParentID:  parentID,
			Type:      folderType,
			CreatedAt: now,
			UpdatedAt: now,
		}))
		if err != nil {
			return err
		}
		folderID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}

	publish(s.notifier, watch.TopicFolders, folderID)
	return folderID, nil
}

// Update renames and/or re-parents a folder. The folder's type is fixed and
// the default roots are untouchable.
func (s *FolderService) Update(ctx context.Context, folder database.FolderRecord) error {
	name := strings.TrimSpace(folder.Name)
	if name == "" {
		return ErrBlankFolderName
	}

	err := withTx(ctx, s.ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		current, err := q.FindFolderByID(txCtx, folder.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("folder %d: %w", folder.ID, database.ErrNotFound)
			}
			return err
		}

		if isDefaultRoot(current) {
			return ErrDefaultProtected
		}
		if folder.Type != "" && folder.Type != uri.FolderType(current.Type) {
			return ErrFolderTypeFixed
		}

		folderType := uri.FolderType(current.Type)
		if folder.ParentID == nil {
			if _, reserved := reservedNameType(name); reserved {
				return fmt.Errorf("%w: root folders cannot take the name %q", ErrReservedName, name)
			}
		}

		if folder.ParentID != nil {
			parentChanged := !current.ParentID.Valid || current.ParentID.Int64 != *folder.ParentID
			if parentChanged {
				if *folder.ParentID == folder.ID {
					return ErrFolderCycle
				}
				parent, err := q.FindFolderByID(txCtx, *folder.ParentID)
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						return fmt.Errorf("parent folder %d: %w", *folder.ParentID, database.ErrNotFound)
					}
					return err
				}
				if uri.FolderType(parent.Type) != folderType {
					return fmt.Errorf("%w: parent %q is a %s folder", ErrFolderTypeMismatch, parent.Name, parent.Type)
				}
				if err := checkNoCycle(txCtx, q, *folder.ParentID, folder.ID); err != nil {
					return err
				}
			}
		}

		if err := s.checkDuplicate(txCtx, q, folderType, folder.ParentID, name, folder.ID); err != nil {
			return err
		}

		return q.UpdateFolder(txCtx, database.FolderUpdateParams(database.FolderRecord{
			ID:        folder.ID,
			Name:      name,
			ParentID:  folder.ParentID,
			UpdatedAt: s.clk.Now(),
		}))
	})
	if err != nil {
		return err
	}

	publish(s.notifier, watch.TopicFolders, folder.ID)
	return nil
}

// Delete removes a folder with no children, detaching any host rules that
// reference it in the same transaction. Rule status is left unchanged; a
// bookmarked or blocked rule may legitimately end up with no folder.
func (s *FolderService) Delete(ctx context.Context, folderID int64) error {
	var rulesDetached int64
	err := withTx(ctx, s.ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		current, err := q.FindFolderByID(txCtx, folderID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("folder %d: %w", folderID, database.ErrNotFound)
			}
			return err
		}

		if isDefaultRoot(current) {
			return ErrDefaultProtected
		}

		children, err := q.CountChildFolders(txCtx, folderID)
		if err != nil {
			return err
		}
		if children > 0 {
			return fmt.Errorf("%w: %q has %d child folders", ErrFolderNotEmpty, current.Name, children)
		}

		rulesDetached, err = clearFolderAssociation(txCtx, q, s.clk, folderID)
		if err != nil {
			return err
		}

		_, err = q.DeleteFolderByID(txCtx, folderID)
		return err
	})
	if err != nil {
		return err
	}

	publish(s.notifier, watch.TopicFolders, folderID)
	if rulesDetached > 0 {
		publish(s.notifier, watch.TopicHostRules, 0)
	}
	return nil
}

// EnsureDefaultFolders creates the two default roots if absent. This is a
// best-effort startup step: failures are logged, never surfaced, because
// refusing to start over missing defaults would be worse than running with
// degraded folder bootstrap.
func (s *FolderService) EnsureDefaultFolders(ctx context.Context) {
	for _, t := range []uri.FolderType{uri.FolderBookmark, uri.FolderBlock} {
		if _, err := s.ResolveDefault(ctx, t); err != nil {
			s.log.Warn("default folder bootstrap failed",
				zap.String("type", string(t)),
				zap.Error(err))
		}
	}
}

// ResolveDefault returns the id of the default root for a tree, creating it
// if absent. Bookmark and block actions that do not name a folder all route
// through here.
func (s *FolderService) ResolveDefault(ctx context.Context, folderType uri.FolderType) (int64, error) {
	if !folderType.Valid() {
		return 0, ErrUnknownFolder
	}

	var folderID int64
	err := withTx(ctx, s.ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		var err error
		folderID, err = s.ensureRootLocked(txCtx, q, folderType)
		return err
	})
	if err != nil {
		return 0, err
	}
	return folderID, nil
}

// Get returns a folder by id.
func (s *FolderService) Get(ctx context.Context, id int64) (*database.FolderRecord, error) {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return nil, err
	}

	row, err := q.FindFolderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("folder %d: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	rec := database.FolderRecordFromRow(row)
	return &rec, nil
}

// List returns all folders, optionally restricted to one tree. Pass
// uri.FolderUnknown for both trees.
func (s *FolderService) List(ctx context.Context, folderType uri.FolderType) ([]database.FolderRecord, error) {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return nil, err
	}

	var rows []sqldb.Folder
	if folderType.Valid() {
		rows, err = q.ListFoldersByType(ctx, string(folderType))
	} else {
		rows, err = q.ListFolders(ctx)
	}
	if err != nil {
		return nil, err
	}

	result := make([]database.FolderRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.FolderRecordFromRow(row))
	}
	return result, nil
}

// Children returns the direct child folders of parentID.
func (s *FolderService) Children(ctx context.Context, parentID int64) ([]database.FolderRecord, error) {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.ListChildFolders(ctx, parentID)
	if err != nil {
		return nil, err
	}

	result := make([]database.FolderRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.FolderRecordFromRow(row))
	}
	return result, nil
}

// Watch subscribes to committed folder writes.
func (s *FolderService) Watch() *watch.Subscription {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.Subscribe(watch.TopicFolders)
}

// ensureRootLocked finds or creates the default root for a tree inside the
// caller's transaction.
func (s *FolderService) ensureRootLocked(ctx context.Context, q *sqldb.Queries, folderType uri.FolderType) (int64, error) {
	name := DefaultFolderName(folderType)
	row, err := q.FindFolderByIdentity(ctx, sqldb.FindFolderByIdentityParams{
		Type: string(folderType),
		Name: name,
	})
	switch {
	case err == nil:
		return row.ID, nil
	case errors.Is(err, sql.ErrNoRows):
		now := s.clk.Now()
		res, err := q.InsertFolder(ctx, database.FolderInsertParams(database.FolderRecord{
			Name:      name,
			Type:      folderType,
			CreatedAt: now,
			UpdatedAt: now,
		}))
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	default:
		return 0, err
	}
}

func (s *FolderService) checkDuplicate(ctx context.Context, q *sqldb.Queries, folderType uri.FolderType, parentID *int64, name string, selfID int64) error {
	var parent sql.NullInt64
	if parentID != nil {
		parent = sql.NullInt64{Int64: *parentID, Valid: true}
	}

	row, err := q.FindFolderByIdentity(ctx, sqldb.FindFolderByIdentityParams{
		Type:     string(folderType),
		ParentID: parent,
		Name:     name,
	})
	switch {
	case err == nil:
		if row.ID != selfID {
			return fmt.Errorf("%w: %q", ErrDuplicateFolder, name)
		}
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return nil
	default:
		return err
	}
}

// checkNoCycle ascends from the proposed parent toward the root, rejecting
// the move if the chain passes through the folder being moved. The visited
// set guards against already-corrupt circular data.
func checkNoCycle(ctx context.Context, q *sqldb.Queries, newParentID, movingID int64) error {
	visited := make(map[int64]struct{})
	current := newParentID

	for depth := 0; depth < maxFolderDepth; depth++ {
		if current == movingID {
			return ErrFolderCycle
		}
		if _, seen := visited[current]; seen {
			return ErrFolderCycle
		}
		visited[current] = struct{}{}

		row, err := q.FindFolderByID(ctx, current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("folder %d: %w", current, database.ErrNotFound)
			}
			return err
		}
		if !row.ParentID.Valid {
			return nil
		}
		current = row.ParentID.Int64
	}

	return ErrFolderDepth
}
