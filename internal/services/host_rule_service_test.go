package services

import (
	"context"
	"errors"
	"testing"

	"github.com/hostgate/hostgate/internal/database"
	"github.com/hostgate/hostgate/internal/uri"
	"github.com/hostgate/hostgate/internal/watch"
)

func TestHostRuleSaveAndGet(t *testing.T) {
	dbCtx := setupServiceDB(t)
	ctx := context.Background()
	svc := NewHostRuleService(dbCtx, testClock(), nil)

	id, err := svc.Save(ctx, SaveRuleParams{
		Host:              "example.com",
		Status:            uri.StatusNone,
		PreferredBrowser:  strPtr("firefox.desktop"),
		PreferenceEnabled: true,
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rule, err := svc.GetByHost(ctx, "example.com")
	if err != nil {
		t.Fatalf("GetByHost failed: %v", err)
	}
	if rule == nil {
		t.Fatal("expected a rule for example.com")
	}
	if rule.ID != id {
		t.Fatalf("rule id = %d, want %d", rule.ID, id)
	}
	if rule.Status != uri.StatusNone {
		t.Fatalf("status = %v, want none", rule.Status)
	}
	if rule.PreferredBrowser == nil || *rule.PreferredBrowser != "firefox.desktop" {
		t.Fatalf("preferred browser = %v", rule.PreferredBrowser)
	}
	if !rule.PreferenceEnabled {
		t.Fatal("expected preference to stay enabled for a plain rule")
	}
}

func TestHostRuleGetByHostMissingReturnsNil(t *testing.T) {
	dbCtx := setupServiceDB(t)
	svc := NewHostRuleService(dbCtx, testClock(), nil)

	rule, err := svc.GetByHost(context.Background(), "nobody.example")
	if err != nil {
		t.Fatalf("GetByHost failed: %v", err)
	}
	if rule != nil {
		t.Fatalf("expected nil rule, got %+v", rule)
	}
}

func TestHostRuleUpsertKeepsIdentity(t *testing.T) {
	dbCtx := setupServiceDB(t)
	ctx := context.Background()
	svc := NewHostRuleService(dbCtx, testClock(), nil)

	firstID, err := svc.Save(ctx, SaveRuleParams{Host: "example.com", Status: uri.StatusNone})
	if err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	first, err := svc.GetByID(ctx, firstID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	secondID, err := svc.Save(ctx, SaveRuleParams{
		Host:              "example.com",
		Status:            uri.StatusNone,
		PreferredBrowser:  strPtr("chromium.desktop"),
		PreferenceEnabled: true,
	})
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if secondID != firstID {
		t.Fatalf("upsert changed rule id: %d -> %d", firstID, secondID)
	}

	second, err := svc.GetByID(ctx, secondID)
	if err != nil {
		t.Fatalf("GetByID after update failed: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("CreatedAt changed on update: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("UpdatedAt did not advance: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}

	rules, err := svc.List(ctx, uri.StatusUnknown)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected a single rule after upsert, got %d", len(rules))
	}
}

func TestHostRuleSaveValidation(t *testing.T) {
	dbCtx := setupServiceDB(t)
	ctx := context.Background()
	svc := NewHostRuleService(dbCtx, testClock(), nil)

	tests := []struct {
		name    string
		params  SaveRuleParams
		wantErr error
	}{
		{"blank host", SaveRuleParams{Host: "  ", Status: uri.StatusNone}, ErrBlankHost},
		{"unknown status", SaveRuleParams{Host: "example.com", Status: uri.StatusUnknown}, ErrUnknownStatus},
		{"blank browser", SaveRuleParams{Host: "example.com", Status: uri.StatusNone, PreferredBrowser: strPtr(" ")}, ErrBlankBrowser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Save(ctx, tt.params); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Save error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(tt.wantErr, ErrValidation) {
				t.Fatalf("%v should categorize as validation", tt.wantErr)
			}
		})
	}
}

func TestHostRuleNormalization(t *testing.T) {
	dbCtx := setupServiceDB(t)
	ctx := context.Background()
	clk := testClock()
	rules := NewHostRuleService(dbCtx, clk, nil)
	folders := NewFolderService(dbCtx, clk, nil, nil)

	bookmarkRoot, err := folders.ResolveDefault(ctx, uri.FolderBookmark)
	if err != nil {
		t.Fatalf("ResolveDefault failed: %v", err)
	}
	blockRoot, err := folders.ResolveDefault(ctx, uri.FolderBlock)
	if err != nil {
		t.Fatalf("ResolveDefault failed: %v", err)
	}

	// A NONE rule never keeps a folder, but its preference survives.
	id, err := rules.Save(ctx, SaveRuleParams{
		Host:              "plain.example",
		Status:            uri.StatusNone,
		FolderID:          &bookmarkRoot,
		PreferredBrowser:  strPtr("firefox.desktop"),
		PreferenceEnabled: true,
	})
	if err != nil {
		t.Fatalf("Save none failed: %v", err)
	}
	rule, err := rules.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if rule.FolderID != nil {
		t.Fatalf("none rule kept folder %d", *rule.FolderID)
	}
	if rule.PreferredBrowser == nil || !rule.PreferenceEnabled {
		t.Fatalf("none rule lost its preference: %+v", rule)
	}

	// A blocked rule never keeps a preference.
	id, err = rules.Save(ctx, SaveRuleParams{
		Host:              "blocked.example",
		Status:            uri.StatusBlocked,
		FolderID:          &blockRoot,
		PreferredBrowser:  strPtr("firefox.desktop"),
		PreferenceEnabled: true,
	})
	if err != nil {
		t.Fatalf("Save blocked failed: %v", err)
	}
	rule, err = rules.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if rule.PreferredBrowser != nil || rule.PreferenceEnabled {
		t.Fatalf("blocked rule kept a preference: %+v", rule)
	}
	if rule.FolderID == nil || *rule.FolderID != blockRoot {
		t.Fatalf("blocked rule lost its folder: %+v", rule)
	}

	// An enabled flag without a browser is meaningless.
	id, err = rules.Save(ctx, SaveRuleParams{
		Host:              "flag.example",
		Status:            uri.StatusNone,
		PreferenceEnabled: true,
	})
	if err != nil {
		t.Fatalf("Save flag-only failed: %v", err)
	}
	rule, err = rules.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if rule.PreferenceEnabled {
		t.Fatal("preference enabled without a browser must be disabled")
	}
}

func TestHostRuleFolderTypeMismatchRejected(t *testing.T) {
	dbCtx := setupServiceDB(t)
	ctx := context.Background()
	clk := testClock()
	rules := NewHostRuleService(dbCtx, clk, nil)
	folders := NewFolderService(dbCtx, clk, nil, nil)

	blockRoot, err := folders.ResolveDefault(ctx, uri.FolderBlock)
	if err != nil {
		t.Fatalf("ResolveDefault failed: %v", err)
	}

	_, err = rules.Save(ctx, SaveRuleParams{
		Host:     "example.com",
		Status:   uri.StatusBookmarked,
		FolderID: &blockRoot,
	})
	if !errors.Is(err, ErrFolderTypeMismatch) {
		t.Fatalf("Save error = %v, want folder type mismatch", err)
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("%v should categorize as conflict", err)
	}

	// The rejected write must not leave a row behind.
	rule, err := rules.GetByHost(ctx, "example.com")
	if err != nil {
		t.Fatalf("GetByHost failed: %v", err)
	}
	if rule != nil {
		t.Fatalf("rejected save persisted a rule: %+v", rule)
	}
}

func TestHostRuleSaveMissingFolderRejected(t *testing.T) {
	dbCtx := setupServiceDB(t)
	svc := NewHostRuleService(dbCtx, testClock(), nil)

	_, err := svc.Save(context.Background(), SaveRuleParams{
		Host:     "example.com",
		Status:   uri.StatusBookmarked,
		FolderID: int64Ptr(9999),
	})
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("Save error = %v, want not found", err)
	}
}

func TestHostRuleListByStatus(t *testing.T) {
	dbCtx := setupServiceDB(t)
	ctx := context.Background()
	svc := NewHostRuleService(dbCtx, testClock(), nil)

	for _, host := range []string{"a.example", "b.example"} {
		if _, err := svc.Save(ctx, SaveRuleParams{Host: host, Status: uri.StatusNone}); err != nil {
			t.Fatalf("Save %s failed: %v", host, err)
		}
	}
	if _, err := svc.Save(ctx, SaveRuleParams{Host: "c.example", Status: uri.StatusBlocked}); err != nil {
		t.Fatalf("Save c.example failed: %v", err)
	}

	blocked, err := svc.List(ctx, uri.StatusBlocked)
	if err != nil {
		t.Fatalf("List blocked failed: %v", err)
	}
	if len(blocked) != 1 || blocked[0].Host != "c.example" {
		t.Fatalf("unexpected blocked rules: %+v", blocked)
	}

	all, err := svc.List(ctx, uri.StatusUnknown)
	if err != nil {
		t.Fatalf("List all failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(all))
	}
}

func TestHostRuleDeleteIsIdempotent(t *testing.T) {
	dbCtx := setupServiceDB(t)
	ctx := context.Background()
	svc := NewHostRuleService(dbCtx, testClock(), nil)

	if _, err := svc.Save(ctx, SaveRuleParams{Host: "example.com", Status: uri.StatusNone}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := svc.DeleteByHost(ctx, "example.com"); err != nil {
		t.Fatalf("first DeleteByHost failed: %v", err)
	}
	if err := svc.DeleteByHost(ctx, "example.com"); err != nil {
		t.Fatalf("second DeleteByHost failed: %v", err)
	}
	if err := svc.DeleteByID(ctx, 12345); err != nil {
		t.Fatalf("DeleteByID on missing rule failed: %v", err)
	}

	rule, err := svc.GetByHost(ctx, "example.com")
	if err != nil {
		t.Fatalf("GetByHost failed: %v", err)
	}
	if rule != nil {
		t.Fatalf("rule survived delete: %+v", rule)
	}
}

func TestHostRuleClearFolderAssociation(t *testing.T) {
	dbCtx := setupServiceDB(t)
	ctx := context.Background()
	clk := testClock()
	rules := NewHostRuleService(dbCtx, clk, nil)
	folders := NewFolderService(dbCtx, clk, nil, nil)

	root, err := folders.ResolveDefault(ctx, uri.FolderBookmark)
	if err != nil {
		t.Fatalf("ResolveDefault failed: %v", err)
	}

	for _, host := range []string{"a.example", "b.example"} {
		if _, err := rules.Save(ctx, SaveRuleParams{Host: host, Status: uri.StatusBookmarked, FolderID: &root}); err != nil {
			t.Fatalf("Save %s failed: %v", host, err)
		}
	}

	affected, err := rules.ClearFolderAssociation(ctx, root)
	if err != nil {
		t.Fatalf("ClearFolderAssociation failed: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 detached rules, got %d", affected)
	}

	for _, host := range []string{"a.example", "b.example"} {
		rule, err := rules.GetByHost(ctx, host)
		if err != nil {
			t.Fatalf("GetByHost %s failed: %v", host, err)
		}
		if rule.FolderID != nil {
			t.Fatalf("%s still references folder %d", host, *rule.FolderID)
		}
		if rule.Status != uri.StatusBookmarked {
			t.Fatalf("%s status changed to %v", host, rule.Status)
		}
	}
}

func TestHostRuleWatchPublishesOnSave(t *testing.T) {
	dbCtx := setupServiceDB(t)
	ctx := context.Background()
	notifier := watch.NewNotifier()
	svc := NewHostRuleService(dbCtx, testClock(), notifier)

	sub := svc.Watch()
	defer sub.Cancel()

	id, err := svc.Save(ctx, SaveRuleParams{Host: "example.com", Status: uri.StatusNone})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	select {
	case ev := <-sub.C:
		if ev.Topic != watch.TopicHostRules || ev.ID != id {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected a host-rule event after Save")
	}
}
