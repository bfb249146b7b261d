// Package services implements the transactional stores backing the
// interception pipeline: host rules, the folder hierarchy, interaction
// history, and browser usage counters. No other package writes these tables.
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
	"github.com/hostgate/hostgate/internal/uri"
	"github.com/hostgate/hostgate/internal/watch"
)

// HostRuleService is the single source of truth for what should happen for a
// given host. Every save normalizes the status/folder/preference coupling
// inside one transaction, so no caller can persist an inconsistent row.
type HostRuleService struct {
	ctx      *database.Context
	clk      clock.Clock
	notifier *watch.Notifier
}

func NewHostRuleService(dbCtx *database.Context, clk clock.Clock, notifier *watch.Notifier) *HostRuleService {
	if clk == nil {
		clk = clock.System()
	}
	return &HostRuleService{ctx: dbCtx, clk: clk, notifier: notifier}
}

// SaveRuleParams carries the caller's intent for one host. Nil FolderID and
// PreferredBrowser mean "unset".
type SaveRuleParams struct {
	Host              string
	Status            uri.RuleStatus
	FolderID          *int64
	PreferredBrowser  *string
	PreferenceEnabled bool
}

// Save upserts the rule for params.Host. An existing rule keeps its id and
// CreatedAt; UpdatedAt always advances. Returns the rule id.
func (s *HostRuleService) Save(ctx context.Context, params SaveRuleParams) (int64, error) {
	host := strings.TrimSpace(params.Host)
	if host == "" {
		return 0, ErrBlankHost
	}
	if !params.Status.Valid() {
		return 0, ErrUnknownStatus
	}
	if params.PreferredBrowser != nil && strings.TrimSpace(*params.PreferredBrowser) == "" {
		return 0, ErrBlankBrowser
	}

	effective := normalizeRule(params)
	effective.Host = host

	var ruleID int64
	err := withTx(ctx, s.ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		if effective.FolderID != nil {
			if err := checkFolderForStatus(txCtx, q, *effective.FolderID, effective.Status); err != nil {
				return err
			}
		}

		now := s.clk.Now()
		existing, err := q.FindHostRuleByHost(txCtx, host)
		switch {
		case err == nil:
			rec := database.HostRuleRecord{
				ID:                existing.ID,
				Host:              host,
				Status:            effective.Status,
				FolderID:          effective.FolderID,
				PreferredBrowser:  effective.PreferredBrowser,
				PreferenceEnabled: effective.PreferenceEnabled,
				UpdatedAt:         now,
			}
			if err := q.UpdateHostRule(txCtx, database.HostRuleUpdateParams(rec)); err != nil {
				return err
			}
			ruleID = existing.ID
			return nil
		case errors.Is(err, sql.ErrNoRows):
			rec := database.HostRuleRecord{
				Host:              host,
				Status:            effective.Status,
				FolderID:          effective.FolderID,
				PreferredBrowser:  effective.PreferredBrowser,
				PreferenceEnabled: effective.PreferenceEnabled,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			res, err := q.InsertHostRule(txCtx, database.HostRuleInsertParams(rec))
			if err != nil {
				return err
			}
			ruleID, err = res.LastInsertId()
			return err
		default:
			return err
		}
	})
	if err != nil {
		return 0, err
	}

	publish(s.notifier, watch.TopicHostRules, ruleID)
	return ruleID, nil
}

// normalizeRule applies the status coupling rules: only bookmarked and
// blocked rules live in folders, and a blocked host can never hold an active
// browser preference. A NONE rule keeps its preference, which is how "always
// open with X" persists for hosts the user never bookmarked. An enabled
// preference without a browser is meaningless and is disabled.
func normalizeRule(params SaveRuleParams) SaveRuleParams {
	effective := params
	if effective.PreferredBrowser != nil {
		trimmed := strings.TrimSpace(*effective.PreferredBrowser)
		effective.PreferredBrowser = &trimmed
	}

	switch effective.Status {
	case uri.StatusNone:
		effective.FolderID = nil
	case uri.StatusBlocked:
		effective.PreferredBrowser = nil
		effective.PreferenceEnabled = false
	}

	if effective.PreferredBrowser == nil {
		effective.PreferenceEnabled = false
	}
	return effective
}

// checkFolderForStatus loads the referenced folder and verifies its tree
// matches the status being persisted.
func checkFolderForStatus(ctx context.Context, q *sqldb.Queries, folderID int64, status uri.RuleStatus) error {
	row, err := q.FindFolderByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("folder %d: %w", folderID, database.ErrNotFound)
		}
		return err
	}

	expected := uri.FolderTypeForStatus(status)
	if uri.FolderType(row.Type) != expected {
		return fmt.Errorf("%w: folder %q is %s, rule status %s needs %s",
			ErrFolderTypeMismatch, row.Name, row.Type, status, expected)
	}
	return nil
}

// GetByHost returns the rule for host, or nil when no rule exists.
func (s *HostRuleService) GetByHost(ctx context.Context, host string) (*database.HostRuleRecord, error) {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return nil, err
	}

	row, err := q.FindHostRuleByHost(ctx, strings.TrimSpace(host))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec := database.HostRuleRecordFromRow(row)
	return &rec, nil
}

// GetByID returns the rule with the given id, or nil when it does not exist.
func (s *HostRuleService) GetByID(ctx context.Context, id int64) (*database.HostRuleRecord, error) {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return nil, err
	}

	row, err := q.FindHostRuleByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec := database.HostRuleRecordFromRow(row)
	return &rec, nil
}

// List returns all rules, optionally filtered by status. Pass
// uri.StatusUnknown for no filter.
func (s *HostRuleService) List(ctx context.Context, status uri.RuleStatus) ([]database.HostRuleRecord, error) {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return nil, err
	}

	var rows []sqldb.HostRule
	if status.Valid() {
		rows, err = q.ListHostRulesByStatus(ctx, string(status))
	} else {
		rows, err = q.ListHostRules(ctx)
	}
	if err != nil {
		return nil, err
	}

	result := make([]database.HostRuleRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, database.HostRuleRecordFromRow(row))
	}
	return result, nil
}

// DeleteByHost removes the rule for host. Deleting a host that has no rule
// succeeds: the caller's intent is already satisfied.
func (s *HostRuleService) DeleteByHost(ctx context.Context, host string) error {
	host = strings.TrimSpace(host)
	if host == "" {
		return ErrBlankHost
	}

	q, err := queriesFor(s.ctx)
	if err != nil {
		return err
	}
	affected, err := q.DeleteHostRuleByHost(ctx, host)
	if err != nil {
		return err
	}
	if affected > 0 {
		publish(s.notifier, watch.TopicHostRules, 0)
	}
	return nil
}

// DeleteByID removes the rule with the given id, succeeding when it is
// already gone.
func (s *HostRuleService) DeleteByID(ctx context.Context, id int64) error {
	q, err := queriesFor(s.ctx)
	if err != nil {
		return err
	}
	affected, err := q.DeleteHostRuleByID(ctx, id)
	if err != nil {
		return err
	}
	if affected > 0 {
		publish(s.notifier, watch.TopicHostRules, id)
	}
	return nil
}

// ClearFolderAssociation detaches every rule referencing folderID without
// touching rule status. Folder deletion calls the transaction-scoped variant
// below; this form exists for administrative use outside a folder delete.
func (s *HostRuleService) ClearFolderAssociation(ctx context.Context, folderID int64) (int64, error) {
	var affected int64
	err := withTx(ctx, s.ctx, func(txCtx context.Context, q *sqldb.Queries) error {
		var err error
		affected, err = clearFolderAssociation(txCtx, q, s.clk, folderID)
		return err
	})
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		publish(s.notifier, watch.TopicHostRules, 0)
	}
	return affected, nil
}

// Watch subscribes to committed host-rule writes.
func (s *HostRuleService) Watch() *watch.Subscription {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.Subscribe(watch.TopicHostRules)
}

func clearFolderAssociation(ctx context.Context, q *sqldb.Queries, clk clock.Clock, folderID int64) (int64, error) {
	return q.ClearHostRuleFolder(ctx, sqldb.ClearHostRuleFolderParams{
		UpdatedAt: clk.Now(),
		FolderID:  folderID,
	})
}
