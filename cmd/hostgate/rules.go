package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hostgate/hostgate/internal/database"
	"github.com/hostgate/hostgate/internal/uri"
)

func newRulesCmd() *cobra.Command {
	var (
		statusFlag string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List persisted host rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			status := uri.StatusUnknown
			if statusFlag != "" {
				status = uri.ParseStatus(statusFlag)
				if !status.Valid() {
					return fmt.Errorf("invalid status: %s (valid values: none, bookmarked, blocked)", statusFlag)
				}
			}

			rules, err := a.rules.List(context.Background(), status)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return outputRulesJSON(cmd, rules)
			case "table":
				outputRulesTable(cmd, rules)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status: none, bookmarked, or blocked")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

type ruleOutputEntry struct {
	ID                int64   `json:"id"`
	Host              string  `json:"host"`
	Status            string  `json:"status"`
	FolderID          *int64  `json:"folder_id,omitempty"`
	PreferredBrowser  *string `json:"preferred_browser,omitempty"`
	PreferenceEnabled bool    `json:"preference_enabled"`
	Created           string  `json:"created"`
	Updated           string  `json:"updated"`
}

func outputRulesJSON(cmd *cobra.Command, rules []database.HostRuleRecord) error {
	output := make([]ruleOutputEntry, 0, len(rules))
	for _, r := range rules {
		output = append(output, ruleOutputEntry{
			ID:                r.ID,
			Host:              r.Host,
			Status:            string(r.Status),
			FolderID:          r.FolderID,
			PreferredBrowser:  r.PreferredBrowser,
			PreferenceEnabled: r.PreferenceEnabled,
			Created:           r.CreatedAt.Format(time.RFC3339),
			Updated:           r.UpdatedAt.Format(time.RFC3339),
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputRulesTable(cmd *cobra.Command, rules []database.HostRuleRecord) {
	t := newTable(cmd)
	t.AppendHeader(table.Row{"Host", "Status", "Folder", "Browser", "Pref", "Updated"})

	budget := cellWidthBudget(6)
	for _, r := range rules {
		folder := ""
		if r.FolderID != nil {
			folder = fmt.Sprintf("%d", *r.FolderID)
		}
		browserPkg := ""
		if r.PreferredBrowser != nil {
			browserPkg = *r.PreferredBrowser
		}
		pref := ""
		if r.PreferenceEnabled {
			pref = "on"
		}
		t.AppendRow(table.Row{
			truncateCell(r.Host, budget),
			string(r.Status),
			folder,
			truncateCell(browserPkg, budget),
			pref,
			r.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	t.Render()
}

func newForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <host>",
		Short: "Delete the rule for a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.rules.DeleteByHost(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "forgot %s\n", args[0])
			return nil
		},
	}
}
