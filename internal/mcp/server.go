// Package mcp exposes the interception pipeline to MCP clients over stdio.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/hostgate/hostgate/internal/browser"
	"github.com/hostgate/hostgate/internal/clock"
	"github.com/hostgate/hostgate/internal/database"
	"github.com/hostgate/hostgate/internal/engine"
	"github.com/hostgate/hostgate/internal/services"
	"github.com/hostgate/hostgate/internal/uri"
	"github.com/hostgate/hostgate/internal/watch"
)

// Server wraps the MCP server with hostgate-specific functionality.
type Server struct {
	server  *mcp.Server
	dbCtx   *database.Context
	eng     *engine.Engine
	rules   *services.HostRuleService
	history *services.HistoryService
	log     *zap.Logger
}

// NewServer creates a new MCP server instance. An empty dbPath selects the
// default database location.
func NewServer(dbPath string, log *zap.Logger) (*Server, error) {
	dbCtx, err := database.CreateDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	clk := clock.System()
	notifier := watch.NewNotifier()
	rules := services.NewHostRuleService(dbCtx, clk, notifier)
	folders := services.NewFolderService(dbCtx, clk, notifier, log)
	history := services.NewHistoryService(dbCtx, clk, notifier)
	usage := services.NewUsageService(dbCtx, clk, notifier)
	recorder := services.NewInteractionRecorder(dbCtx, history, usage, notifier)

	folders.EnsureDefaultFolders(context.Background())

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "hostgate",
		Version: "0.1.0",
	}, nil)

	s := &Server{
		server:  mcpServer,
		dbCtx:   dbCtx,
		eng:     engine.New(rules, folders, recorder, &browser.DesktopEnumerator{}),
		rules:   rules,
		history: history,
		log:     log,
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if err := database.CloseDatabase(s.dbCtx); err != nil {
			s.log.Warn("failed to close database", zap.Error(err))
		}
	}()
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hostgate_open",
		Description: "Intercept a URI and decide whether it is blocked, auto-opened, or needs a browser choice",
	}, s.handleOpen)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hostgate_bookmark",
		Description: "Toggle the bookmark state of a host",
	}, s.handleBookmark)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hostgate_block",
		Description: "Block a host so future interceptions are refused",
	}, s.handleBlock)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hostgate_rules",
		Description: "List persisted host rules",
	}, s.handleRules)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hostgate_history",
		Description: "List recent URI interaction history",
	}, s.handleHistory)
}

// Input/Output types for each tool

type OpenInput struct {
	URI     string  `json:"uri" jsonschema:"required,description=The URI to intercept"`
	Source  *string `json:"source,omitempty" jsonschema:"enum=intent;clipboard;manual,description=Where the URI came from (default manual)"`
	Browser *string `json:"browser,omitempty" jsonschema:"description=Browser package to open with (resolves a picker outcome)"`
	Always  *bool   `json:"always,omitempty" jsonschema:"description=Persist the chosen browser as this host's preference"`
}

type BrowserChoice struct {
	PackageName string `json:"packageName"`
	DisplayName string `json:"displayName"`
	IsDefault   bool   `json:"isDefault"`
}

type OpenOutput struct {
	Outcome  string          `json:"outcome"`
	Host     string          `json:"host"`
	Browser  string          `json:"browser,omitempty"`
	Browsers []BrowserChoice `json:"browsers,omitempty"`
	Message  string          `json:"message"`
}

type BookmarkInput struct {
	Host     string `json:"host" jsonschema:"required,description=The host to toggle"`
	FolderID *int64 `json:"folderId,omitempty" jsonschema:"description=Bookmark folder id (default bookmark folder if omitted)"`
}

type BookmarkOutput struct {
	RuleID     int64  `json:"ruleId"`
	Bookmarked bool   `json:"bookmarked"`
	Message    string `json:"message"`
}

type BlockInput struct {
	URI      string  `json:"uri" jsonschema:"required,description=A URI on the host to block"`
	Source   *string `json:"source,omitempty" jsonschema:"enum=intent;clipboard;manual,description=Where the URI came from (default manual)"`
	FolderID *int64  `json:"folderId,omitempty" jsonschema:"description=Block folder id (default block folder if omitted)"`
}

type BlockOutput struct {
	RuleID  int64  `json:"ruleId"`
	Host    string `json:"host"`
	Message string `json:"message"`
}

type RulesInput struct {
	Status *string `json:"status,omitempty" jsonschema:"enum=none;bookmarked;blocked,description=Filter by rule status"`
}

type RuleEntry struct {
	ID                int64   `json:"id"`
	Host              string  `json:"host"`
	Status            string  `json:"status"`
	FolderID          *int64  `json:"folderId,omitempty"`
	PreferredBrowser  *string `json:"preferredBrowser,omitempty"`
	PreferenceEnabled bool    `json:"preferenceEnabled"`
	UpdatedAt         string  `json:"updatedAt"`
}

type RulesOutput struct {
	Rules []RuleEntry `json:"rules"`
}

type HistoryInput struct {
	Host  *string `json:"host,omitempty" jsonschema:"description=Restrict to one host"`
	Limit *int64  `json:"limit,omitempty" jsonschema:"description=Maximum records to return"`
}

type HistoryEntry struct {
	URI           string  `json:"uri"`
	Host          string  `json:"host"`
	Source        string  `json:"source"`
	Action        string  `json:"action"`
	ChosenBrowser *string `json:"chosenBrowser,omitempty"`
	Timestamp     string  `json:"timestamp"`
}

type HistoryOutput struct {
	Records []HistoryEntry `json:"records"`
}

// Tool handlers

func (s *Server) handleOpen(ctx context.Context, req *mcp.CallToolRequest, input OpenInput) (*mcp.CallToolResult, OpenOutput, error) {
	source := uri.SourceManual
	if input.Source != nil {
		source = uri.ParseSource(*input.Source)
	}

	outcome, err := s.eng.Decide(ctx, input.URI, source)
	if err != nil {
		return nil, OpenOutput{}, err
	}

	switch o := outcome.(type) {
	case engine.Blocked:
		return nil, OpenOutput{
			Outcome: "blocked",
			Host:    o.URI.Host,
			Message: fmt.Sprintf("%s is blocked", o.URI.Host),
		}, nil
	case engine.AutoOpen:
		return nil, OpenOutput{
			Outcome: "auto_open",
			Host:    o.URI.Host,
			Browser: o.BrowserPackage,
			Message: fmt.Sprintf("opened with preferred browser %s", o.BrowserPackage),
		}, nil
	case engine.ShowPicker:
		if input.Browser != nil {
			return s.resolvePicker(ctx, o, source, *input.Browser, input.Always != nil && *input.Always)
		}
		choices := make([]BrowserChoice, 0, len(o.Browsers))
		for _, b := range o.Browsers {
			choices = append(choices, BrowserChoice{
				PackageName: b.PackageName,
				DisplayName: b.DisplayName,
				IsDefault:   b.IsDefault,
			})
		}
		return nil, OpenOutput{
			Outcome:  "picker",
			Host:     o.URI.Host,
			Browsers: choices,
			Message:  "no rule decides this host; choose a browser",
		}, nil
	default:
		return nil, OpenOutput{}, fmt.Errorf("unexpected outcome %T", outcome)
	}
}

func (s *Server) resolvePicker(ctx context.Context, picker engine.ShowPicker, source uri.Source, browserPkg string, always bool) (*mcp.CallToolResult, OpenOutput, error) {
	var err error
	if always {
		_, err = s.eng.OpenAlways(ctx, picker.URI, source, browserPkg)
	} else {
		_, err = s.eng.OpenOnce(ctx, picker.URI, source, browserPkg)
	}
	if err != nil {
		return nil, OpenOutput{}, err
	}

	message := fmt.Sprintf("opened with %s", browserPkg)
	if always {
		message = fmt.Sprintf("opened with %s and saved as preference", browserPkg)
	}
	return nil, OpenOutput{
		Outcome: "opened",
		Host:    picker.URI.Host,
		Browser: browserPkg,
		Message: message,
	}, nil
}

func (s *Server) handleBookmark(ctx context.Context, req *mcp.CallToolRequest, input BookmarkInput) (*mcp.CallToolResult, BookmarkOutput, error) {
	ruleID, bookmarked, err := s.eng.ToggleBookmark(ctx, input.Host, input.FolderID)
	if err != nil {
		return nil, BookmarkOutput{}, err
	}

	message := fmt.Sprintf("removed bookmark for %s", input.Host)
	if bookmarked {
		message = fmt.Sprintf("bookmarked %s", input.Host)
	}
	return nil, BookmarkOutput{RuleID: ruleID, Bookmarked: bookmarked, Message: message}, nil
}

func (s *Server) handleBlock(ctx context.Context, req *mcp.CallToolRequest, input BlockInput) (*mcp.CallToolResult, BlockOutput, error) {
	parsed, err := uri.Classify(input.URI)
	if err != nil {
		return nil, BlockOutput{}, err
	}

	source := uri.SourceManual
	if input.Source != nil {
		source = uri.ParseSource(*input.Source)
	}

	ruleID, err := s.eng.BlockHost(ctx, parsed, source, input.FolderID)
	if err != nil {
		return nil, BlockOutput{}, err
	}
	return nil, BlockOutput{
		RuleID:  ruleID,
		Host:    parsed.Host,
		Message: fmt.Sprintf("blocked %s", parsed.Host),
	}, nil
}

func (s *Server) handleRules(ctx context.Context, req *mcp.CallToolRequest, input RulesInput) (*mcp.CallToolResult, RulesOutput, error) {
	status := uri.StatusUnknown
	if input.Status != nil {
		status = uri.ParseStatus(*input.Status)
	}

	rules, err := s.rules.List(ctx, status)
	if err != nil {
		return nil, RulesOutput{}, fmt.Errorf("failed to list rules: %w", err)
	}

	entries := make([]RuleEntry, 0, len(rules))
	for _, r := range rules {
		entries = append(entries, RuleEntry{
			ID:                r.ID,
			Host:              r.Host,
			Status:            string(r.Status),
			FolderID:          r.FolderID,
			PreferredBrowser:  r.PreferredBrowser,
			PreferenceEnabled: r.PreferenceEnabled,
			UpdatedAt:         r.UpdatedAt.Format(time.RFC3339),
		})
	}
	return nil, RulesOutput{Rules: entries}, nil
}

func (s *Server) handleHistory(ctx context.Context, req *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, HistoryOutput, error) {
	host := ""
	if input.Host != nil {
		host = *input.Host
	}
	var limit int64
	if input.Limit != nil {
		limit = *input.Limit
	}

	records, err := s.history.List(ctx, host, limit)
	if err != nil {
		return nil, HistoryOutput{}, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, HistoryEntry{
			URI:           r.URI,
			Host:          r.Host,
			Source:        string(r.Source),
			Action:        string(r.Action),
			ChosenBrowser: r.ChosenBrowser,
			Timestamp:     r.CreatedAt.Format(time.RFC3339),
		})
	}
	return nil, HistoryOutput{Records: entries}, nil
}
