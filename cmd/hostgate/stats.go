package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var (
		resetPkg string
		resetAll bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show browser usage counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()

			switch {
			case resetAll:
				if err := a.usage.DeleteAll(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cleared all usage counters")
				return nil
			case resetPkg != "":
				if err := a.usage.Delete(ctx, resetPkg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared usage counter for %s\n", resetPkg)
				return nil
			}

			stats, err := a.usage.List(ctx)
			if err != nil {
				return err
			}

			t := newTable(cmd)
			t.AppendHeader(table.Row{"Browser", "Uses", "Last Used"})
			budget := cellWidthBudget(3)
			for _, s := range stats {
				t.AppendRow(table.Row{
					truncateCell(s.PackageName, budget),
					s.UsageCount,
					s.LastUsedAt.Format("2006-01-02 15:04"),
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&resetPkg, "reset", "", "Clear the counter for one browser package")
	cmd.Flags().BoolVar(&resetAll, "reset-all", false, "Clear every usage counter")

	return cmd
}

func newBrowsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browsers",
		Short: "List installed browsers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			browsers, err := a.browsers.ListInstalledBrowsers(context.Background())
			if err != nil {
				return err
			}

			t := newTable(cmd)
			t.AppendHeader(table.Row{"Package", "Name", "Default"})
			budget := cellWidthBudget(3)
			for _, b := range browsers {
				def := ""
				if b.IsDefault {
					def = "*"
				}
				t.AppendRow(table.Row{
					truncateCell(b.PackageName, budget),
					truncateCell(b.DisplayName, budget),
					def,
				})
			}
			t.Render()
			return nil
		},
	}
}
