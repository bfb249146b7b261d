package services

import (
	"context"

	"github.com/hostgate/hostgate/internal/database"
	sqldb "github.com/hostgate/hostgate/internal/database/sqlc"
	"github.com/hostgate/hostgate/internal/watch"
)

// InteractionRecorder couples a history append with its usage-stat increment
// in one transaction. An abandoned engine run therefore never leaves half a
// side-effect group behind.
type InteractionRecorder struct {
	ctx      *database.Context
	history  *HistoryService
	usage    *UsageService
	notifier *watch.Notifier
}

func NewInteractionRecorder(dbCtx *database.Context, history *HistoryService, usage *UsageService, notifier *watch.Notifier) *InteractionRecorder {
	return &InteractionRecorder{ctx: dbCtx, history: history, usage: usage, notifier: notifier}
}

// Record appends the history row and, when bumpUsage is set and a browser
// was chosen, increments that browser's usage counter atomically. Returns
// the history row id.
func (r *InteractionRecorder) Record(ctx context.Context, params AppendRecordParams, bumpUsage bool) (int64, error) {
	var recordID int64
	err := withTx(ctx, r.ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		id, err := r.history.appendWith(txCtx, q, params)
		if err != nil {
			return err
		}
		recordID = id

		if bumpUsage && params.ChosenBrowser != nil {
			return r.usage.incrementWith(txCtx, q, *params.ChosenBrowser)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	publish(r.notifier, watch.TopicURIRecords, recordID)
	if bumpUsage && params.ChosenBrowser != nil {
		publish(r.notifier, watch.TopicBrowserUsage, 0)
	}
	return recordID, nil
}
