package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/hostgate/hostgate/internal/browser"
	"github.com/hostgate/hostgate/internal/clock"
	"github.com/hostgate/hostgate/internal/database"
	"github.com/hostgate/hostgate/internal/engine"
	"github.com/hostgate/hostgate/internal/logger"
	"github.com/hostgate/hostgate/internal/services"
	"github.com/hostgate/hostgate/internal/watch"
)

// app bundles the wired services a command needs. Each command opens its own
// app and closes it when done.
type app struct {
	db       *database.Context
	rules    *services.HostRuleService
	folders  *services.FolderService
	history  *services.HistoryService
	usage    *services.UsageService
	engine   *engine.Engine
	browsers browser.Enumerator
	log      *zap.Logger
}

func openApp() (*app, error) {
	dbCtx, err := database.CreateDatabase(dbPathFlag)
	if err != nil {
		return nil, err
	}

	log := logger.New("warn", true)
	clk := clock.System()
	notifier := watch.NewNotifier()
	enumerator := &browser.DesktopEnumerator{}

	rules := services.NewHostRuleService(dbCtx, clk, notifier)
	folders := services.NewFolderService(dbCtx, clk, notifier, log)
	history := services.NewHistoryService(dbCtx, clk, notifier)
	usage := services.NewUsageService(dbCtx, clk, notifier)
	recorder := services.NewInteractionRecorder(dbCtx, history, usage, notifier)

	folders.EnsureDefaultFolders(context.Background())

	return &app{
		db:       dbCtx,
		rules:    rules,
		folders:  folders,
		history:  history,
		usage:    usage,
		engine:   engine.New(rules, folders, recorder, enumerator),
		browsers: enumerator,
		log:      log,
	}, nil
}

func (a *app) Close() {
	_ = a.log.Sync()
	_ = database.CloseDatabase(a.db)
}
