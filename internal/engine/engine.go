// Package engine implements the interaction decision pipeline: it
// classifies an intercepted URI, applies the host's rule, and produces
// exactly one outcome, writing history and usage side effects as it goes.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/hostgate/hostgate/internal/browser"
	"github.com/hostgate/hostgate/internal/database"
	"github.com/hostgate/hostgate/internal/services"
	"github.com/hostgate/hostgate/internal/uri"
)

// Engine runs one decision per intercepted URI. Each run reads fresh rule
// state; nothing is cached between runs.
type Engine struct {
	rules    *services.HostRuleService
	folders  *services.FolderService
	recorder *services.InteractionRecorder
	browsers browser.Enumerator
}

func New(rules *services.HostRuleService, folders *services.FolderService, recorder *services.InteractionRecorder, browsers browser.Enumerator) *Engine {
	return &Engine{
		rules:    rules,
		folders:  folders,
		recorder: recorder,
		browsers: browsers,
	}
}

// Decide classifies raw and applies the host's rule. The block check runs
// strictly before the preference check: a blocked host never auto-opens,
// whatever its preference fields claim.
func (e *Engine) Decide(ctx context.Context, raw string, source uri.Source) (Outcome, error) {
	if !source.Valid() {
		return nil, transient(services.ErrUnknownSource)
	}

	parsed, err := uri.Classify(raw)
	if err != nil {
		return nil, transient(err)
	}

	rule, err := e.rules.GetByHost(ctx, parsed.Host)
	if err != nil {
		return nil, persistent("rule lookup", err)
	}

	if rule != nil && rule.Status == uri.StatusBlocked {
		recordID, err := e.recorder.Record(ctx, services.AppendRecordParams{
			URI:        parsed.Original,
			Host:       parsed.Host,
			Source:     source,
			Action:     uri.ActionBlockedEnforced,
			HostRuleID: &rule.ID,
		}, false)
		if err != nil {
			return nil, persistent("record blocked interaction", err)
		}
		return Blocked{URI: parsed, Rule: *rule, RecordID: recordID}, nil
	}

	if rule != nil && rule.PreferredBrowser != nil && rule.PreferenceEnabled {
		pkg := *rule.PreferredBrowser
		recordID, err := e.recorder.Record(ctx, services.AppendRecordParams{
			URI:           parsed.Original,
			Host:          parsed.Host,
			Source:        source,
			Action:        uri.ActionOpenedByPreference,
			ChosenBrowser: &pkg,
			HostRuleID:    &rule.ID,
		}, true)
		if err != nil {
			return nil, persistent("record preferred open", err)
		}
		return AutoOpen{URI: parsed, BrowserPackage: pkg, RuleID: rule.ID, RecordID: recordID}, nil
	}

	browsers, err := e.listBrowsers(ctx)
	if err != nil {
		return nil, persistent("browser enumeration", err)
	}
	return ShowPicker{URI: parsed, Rule: rule, Browsers: browsers}, nil
}

// OpenOnce resolves a picker run with a one-off browser choice. The rule
// store is not touched; history and usage are.
func (e *Engine) OpenOnce(ctx context.Context, parsed uri.ParsedUri, source uri.Source, browserPkg string) (int64, error) {
	browserPkg = strings.TrimSpace(browserPkg)
	if err := e.validatePackage(ctx, browserPkg); err != nil {
		return 0, err
	}

	rule, err := e.rules.GetByHost(ctx, parsed.Host)
	if err != nil {
		return 0, persistent("rule lookup", err)
	}

	recordID, err := e.recorder.Record(ctx, services.AppendRecordParams{
		URI:           parsed.Original,
		Host:          parsed.Host,
		Source:        source,
		Action:        uri.ActionOpenedOnce,
		ChosenBrowser: &browserPkg,
		HostRuleID:    ruleIDPtr(rule),
	}, true)
	if err != nil {
		return 0, persistent("record open once", err)
	}
	return recordID, nil
}

// OpenAlways resolves a picker run by pinning a browser preference on the
// host, preserving any existing bookmark or block state.
func (e *Engine) OpenAlways(ctx context.Context, parsed uri.ParsedUri, source uri.Source, browserPkg string) (int64, error) {
	browserPkg = strings.TrimSpace(browserPkg)
	if err := e.validatePackage(ctx, browserPkg); err != nil {
		return 0, err
	}

	rule, err := e.rules.GetByHost(ctx, parsed.Host)
	if err != nil {
		return 0, persistent("rule lookup", err)
	}

	params := services.SaveRuleParams{
		Host:              parsed.Host,
		Status:            uri.StatusNone,
		PreferredBrowser:  &browserPkg,
		PreferenceEnabled: true,
	}
	if rule != nil {
		params.Status = rule.Status
		params.FolderID = rule.FolderID
	}

	ruleID, err := e.rules.Save(ctx, params)
	if err != nil {
		return 0, persistent("save browser preference", err)
	}

	recordID, err := e.recorder.Record(ctx, services.AppendRecordParams{
		URI:           parsed.Original,
		Host:          parsed.Host,
		Source:        source,
		Action:        uri.ActionOpenedByPreference,
		ChosenBrowser: &browserPkg,
		HostRuleID:    &ruleID,
	}, true)
	if err != nil {
		return 0, persistent("record preferred open", err)
	}
	return recordID, nil
}

// ToggleBookmark bookmarks an unbookmarked host into folderID (default
// bookmark folder when nil) or clears an existing bookmark. Unbookmarking
// keeps any browser preference the host holds. Returns the rule id and the
// resulting bookmarked state.
func (e *Engine) ToggleBookmark(ctx context.Context, host string, folderID *int64) (int64, bool, error) {
	rule, err := e.rules.GetByHost(ctx, host)
	if err != nil {
		return 0, false, persistent("rule lookup", err)
	}

	if rule != nil && rule.Status == uri.StatusBookmarked {
		params := services.SaveRuleParams{
			Host:              host,
			Status:            uri.StatusNone,
			PreferredBrowser:  rule.PreferredBrowser,
			PreferenceEnabled: rule.PreferenceEnabled,
		}
		ruleID, err := e.rules.Save(ctx, params)
		if err != nil {
			return 0, false, persistent("remove bookmark", err)
		}
		return ruleID, false, nil
	}

	target, err := e.resolveFolder(ctx, folderID, uri.FolderBookmark)
	if err != nil {
		return 0, false, err
	}

	params := services.SaveRuleParams{
		Host:     host,
		Status:   uri.StatusBookmarked,
		FolderID: &target,
	}
	if rule != nil {
		params.PreferredBrowser = rule.PreferredBrowser
		params.PreferenceEnabled = rule.PreferenceEnabled
	}

	ruleID, err := e.rules.Save(ctx, params)
	if err != nil {
		return 0, false, persistent("save bookmark", err)
	}
	return ruleID, true, nil
}

// BlockHost resolves a picker run by blocking the host, dropping any browser
// preference, and recording the manual block.
func (e *Engine) BlockHost(ctx context.Context, parsed uri.ParsedUri, source uri.Source, folderID *int64) (int64, error) {
	target, err := e.resolveFolder(ctx, folderID, uri.FolderBlock)
	if err != nil {
		return 0, err
	}

	ruleID, err := e.rules.Save(ctx, services.SaveRuleParams{
		Host:     parsed.Host,
		Status:   uri.StatusBlocked,
		FolderID: &target,
	})
	if err != nil {
		return 0, persistent("save block", err)
	}

	if _, err := e.recorder.Record(ctx, services.AppendRecordParams{
		URI:        parsed.Original,
		Host:       parsed.Host,
		Source:     source,
		Action:     uri.ActionBlockedManual,
		HostRuleID: &ruleID,
	}, false); err != nil {
		return 0, persistent("record manual block", err)
	}
	return ruleID, nil
}

func (e *Engine) resolveFolder(ctx context.Context, folderID *int64, folderType uri.FolderType) (int64, error) {
	if folderID != nil {
		return *folderID, nil
	}
	id, err := e.folders.ResolveDefault(ctx, folderType)
	if err != nil {
		return 0, persistent("resolve default folder", err)
	}
	return id, nil
}

func (e *Engine) listBrowsers(ctx context.Context) ([]browser.Browser, error) {
	if e.browsers == nil {
		return nil, nil
	}
	return e.browsers.ListInstalledBrowsers(ctx)
}

// validatePackage checks a user-supplied package name is plausible: non
// blank, and present in the enumerated browser list when an enumerator is
// wired.
func (e *Engine) validatePackage(ctx context.Context, browserPkg string) error {
	if browserPkg == "" {
		return persistent("validate browser", services.ErrBlankBrowser)
	}
	if e.browsers == nil {
		return nil
	}

	installed, err := e.browsers.ListInstalledBrowsers(ctx)
	if err != nil {
		return persistent("browser enumeration", err)
	}
	for _, b := range installed {
		if b.PackageName == browserPkg {
			return nil
		}
	}
	return persistent("validate browser",
		fmt.Errorf("%w: browser %q is not installed", services.ErrValidation, browserPkg))
}

func ruleIDPtr(rule *database.HostRuleRecord) *int64 {
	if rule == nil {
		return nil
	}
	id := rule.ID
	return &id
}
