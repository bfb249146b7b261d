package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hostgate/hostgate/internal/database"
)

func newHistoryCmd() *cobra.Command {
	var (
		hostFlag string
		limit    int64
		format   string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent URI interactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.history.List(context.Background(), hostFlag, limit)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return outputHistoryJSON(cmd, records)
			case "table":
				outputHistoryTable(cmd, records)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&hostFlag, "host", "", "Restrict to one host")
	cmd.Flags().Int64Var(&limit, "limit", 0, "Maximum records to show")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

type historyOutputEntry struct {
	URI           string  `json:"uri"`
	Host          string  `json:"host"`
	Source        string  `json:"source"`
	Action        string  `json:"action"`
	ChosenBrowser *string `json:"chosen_browser,omitempty"`
	Timestamp     string  `json:"timestamp"`
}

func outputHistoryJSON(cmd *cobra.Command, records []database.URIRecord) error {
	output := make([]historyOutputEntry, 0, len(records))
	for _, r := range records {
		output = append(output, historyOutputEntry{
			URI:           r.URI,
			Host:          r.Host,
			Source:        string(r.Source),
			Action:        string(r.Action),
			ChosenBrowser: r.ChosenBrowser,
			Timestamp:     r.CreatedAt.Format(time.RFC3339),
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputHistoryTable(cmd *cobra.Command, records []database.URIRecord) {
	t := newTable(cmd)
	t.AppendHeader(table.Row{"Time", "Host", "Source", "Action", "Browser"})

	budget := cellWidthBudget(5)
	for _, r := range records {
		browserPkg := ""
		if r.ChosenBrowser != nil {
			browserPkg = *r.ChosenBrowser
		}
		t.AppendRow(table.Row{
			r.CreatedAt.Format("2006-01-02 15:04"),
			truncateCell(r.Host, budget),
			string(r.Source),
			string(r.Action),
			truncateCell(browserPkg, budget),
		})
	}
	t.Render()
}
