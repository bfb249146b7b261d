package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hostgate/hostgate/internal/clock"
	"github.com/hostgate/hostgate/internal/database"
	sqldb "github.com/hostgate/hostgate/internal/database/sqlc"
	"github.com/hostgate/hostgate/internal/watch"
)

// UsageService maintains the per-browser usage counter. Counts only ever go
// up, except by explicit administrative deletes.
type UsageService struct {
	ctx      *database.Context
	clk      clock.Clock
	notifier *watch.Notifier
}

func NewUsageService(dbCtx *database.Context, clk clock.Clock, notifier *watch.Notifier) *UsageService {
	if clk == nil {
		clk = clock.System()
	}
	return &UsageService{ctx: dbCtx, clk: clk, notifier: notifier}
}

// Increment bumps the usage count for a browser package, creating the row on
// first use.
func (s *UsageService) Increment(ctx context.Context, packageName string) error {
	err := s.incrementWith(ctx, nil, packageName)
	if err != nil {
		return err
	}
	publish(s.notifier, watch.TopicBrowserUsage, 0)
	return nil
}

func (s *UsageService) incrementWith(ctx context.Context, q *sqldb.Queries, packageName string) error {
	packageName = strings.TrimSpace(packageName)
	if packageName == "" {
		return ErrBlankBrowser
	}

	if q == nil {
		var err error
		q, err = queriesFor(s.ctx)
		if err != nil {
			return err
		}
	}

	return q.IncrementBrowserUsage(ctx, sqldb.IncrementBrowserUsageParams{
		PackageName: packageName,
		LastUsedAt:  s.clk.Now(),
	})
}

// Get returns the usage stat for one browser package.
func (s *UsageService) Get(ctx context.Context, packageName string) (*database.BrowserUsageRecord, error) {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return nil, err
	}

	row, err := q.FindBrowserUsage(ctx, strings.TrimSpace(packageName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("browser usage %q: %w", packageName, database.ErrNotFound)
		}
		return nil, err
	}
	rec := database.BrowserUsageRecordFromRow(row)
	return &rec, nil
}

// List returns all usage stats, most used first.
func (s *UsageService) List(ctx context.Context) ([]database.BrowserUsageRecord, error) {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.ListBrowserUsage(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]database.BrowserUsageRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.BrowserUsageRecordFromRow(row))
	}
	return result, nil
}

// Delete removes the counter for one browser package; removing an absent
// counter succeeds.
func (s *UsageService) Delete(ctx context.Context, packageName string) error {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return err
	}
	affected, err := q.DeleteBrowserUsage(ctx, strings.TrimSpace(packageName))
	if err != nil {
		return err
	}
	if affected > 0 {
		publish(s.notifier, watch.TopicBrowserUsage, 0)
	}
	return nil
}

// DeleteAll clears every usage counter.
func (s *UsageService) DeleteAll(ctx context.Context) error {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return err
	}
	if err := q.DeleteAllBrowserUsage(ctx); err != nil {
		return err
	}
	publish(s.notifier, watch.TopicBrowserUsage, 0)
	return nil
}

// Watch subscribes to committed usage-counter writes.
func (s *UsageService) Watch() *watch.Subscription {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.Subscribe(watch.TopicBrowserUsage)
}
