package services

import (
	"context"
	"fmt"

	"github.com/hostgate/hostgate/internal/database"
	sqldb "github.com/hostgate/hostgate/internal/database/sqlc"
	"github.com/hostgate/hostgate/internal/watch"
)

// withTx runs fn inside a database transaction, rolling back on error. All
// rule and folder mutation goes through here so conflicting writers are
// serialized by the store and invariant checks always see committed state.
func withTx(ctx context.Context, dbCtx *database.Context, fn func(context.Context, *sqldb.Queries) error) error {
	if dbCtx == nil || dbCtx.DB == nil {
		return fmt.Errorf("services: missing database context")
	}

	tx, err := dbCtx.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	queries := sqldb.New(tx)
	if err := fn(ctx, queries); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return nil
}

func queriesFor(dbCtx *database.Context) (*sqldb.Queries, error) {
	if dbCtx == nil {
		return nil, fmt.Errorf("services: missing database context")
	}
	if dbCtx.Queries == nil {
		if dbCtx.DB == nil {
			return nil, fmt.Errorf("services: database handle not initialised")
		}
		dbCtx.Queries = sqldb.New(dbCtx.DB)
	}
	return dbCtx.Queries, nil
}

// publish emits a change event when a notifier is wired. Services tolerate a
// nil notifier so tests and one-shot CLI commands can skip observation.
func publish(n *watch.Notifier, topic string, id int64) {
	if n == nil {
		return
	}
	n.Publish(watch.Event{Topic: topic, ID: id})
}
