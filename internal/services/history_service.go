package services

import (
	"context"
	"strings"

	"github.com/hostgate/hostgate/internal/clock"
	"github.com/hostgate/hostgate/internal/database"
	sqldb "github.com/hostgate/hostgate/internal/database/sqlc"
	"github.com/hostgate/hostgate/internal/uri"
	"github.com/hostgate/hostgate/internal/watch"
)

const defaultHistoryLimit = 100

// HistoryService appends immutable interaction records for audit and
// analytics consumers. Rows are never updated.
type HistoryService struct {
	ctx      *database.Context
	clk      clock.Clock
	notifier *watch.Notifier
}

func NewHistoryService(dbCtx *database.Context, clk clock.Clock, notifier *watch.Notifier) *HistoryService {
	if clk == nil {
		clk = clock.System()
	}
	return &HistoryService{ctx: dbCtx, clk: clk, notifier: notifier}
}

// AppendRecordParams describes one interaction. Unknown enum sentinels are
// rejected at this boundary; they only exist as placeholders for unset
// domain values.
type AppendRecordParams struct {
	URI           string
	Host          string
	Source        uri.Source
	Action        uri.Action
	ChosenBrowser *string
	HostRuleID    *int64
}

// Append writes one history row and returns its id.
func (s *HistoryService) Append(ctx context.Context, params AppendRecordParams) (int64, error) {
	id, err := s.appendWith(ctx, nil, params)
	if err != nil {
		return 0, err
	}
	publish(s.notifier, watch.TopicURIRecords, id)
	return id, nil
}

// appendWith writes through q when the caller already holds a transaction,
// or through the shared handle when q is nil.
func (s *HistoryService) appendWith(ctx context.Context, q *sqldb.Queries, params AppendRecordParams) (int64, error) {
	if strings.TrimSpace(params.URI) == "" {
		return 0, ErrBlankURI
	}
	if strings.TrimSpace(params.Host) == "" {
		return 0, ErrBlankHost
	}
	if !params.Source.Valid() {
		return 0, ErrUnknownSource
	}
	if !params.Action.Valid() {
		return 0, ErrUnknownAction
	}

	if q == nil {
		var err error
		q, err = queriesFor(s.ctx)
		if err != nil {
			return 0, err
		}
	}

	res, err := q.InsertURIRecord(ctx, database.URIRecordInsertParams(database.URIRecord{
		URI:           params.URI,
		Host:          params.Host,
		Source:        params.Source,
		Action:        params.Action,
		ChosenBrowser: params.ChosenBrowser,
		HostRuleID:    params.HostRuleID,
		CreatedAt:     s.clk.Now(),
	}))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// List returns the newest records first. A blank host means all hosts; a
// non-positive limit applies the default.
func (s *HistoryService) List(ctx context.Context, host string, limit int64) ([]database.URIRecord, error) {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	var rows []sqldb.URIRecord
	host = strings.TrimSpace(host)
	if host == "" {
		rows, err = q.ListURIRecords(ctx, limit)
	} else {
		rows, err = q.ListURIRecordsByHost(ctx, sqldb.ListURIRecordsByHostParams{Host: host, Limit: limit})
	}
	if err != nil {
		return nil, err
	}

	result := make([]database.URIRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.URIRecordFromRow(row))
	}
	return result, nil
}

// Watch subscribes to committed history appends.
func (s *HistoryService) Watch() *watch.Subscription {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.Subscribe(watch.TopicURIRecords)
}
