package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hostgate/hostgate/internal/engine"
	"github.com/hostgate/hostgate/internal/uri"
)

func newOpenCmd() *cobra.Command {
	var (
		sourceFlag  string
		browserFlag string
		alwaysFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "open <uri>",
		Short: "Intercept a URI and apply its host rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := uri.ParseSource(sourceFlag)

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			outcome, err := a.engine.Decide(ctx, args[0], source)
			if err != nil {
				return err
			}

			switch o := outcome.(type) {
			case engine.Blocked:
				fmt.Fprintf(cmd.OutOrStdout(), "blocked: %s\n", o.URI.Host)
				return nil
			case engine.AutoOpen:
				fmt.Fprintf(cmd.OutOrStdout(), "auto-open: %s with %s\n", o.URI.Host, o.BrowserPackage)
				return nil
			case engine.ShowPicker:
				if browserFlag != "" {
					return resolvePickerChoice(cmd, a, o, source, browserFlag, alwaysFlag)
				}
				renderPicker(cmd, o)
				return nil
			default:
				return fmt.Errorf("unexpected outcome %T", outcome)
			}
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "manual", "URI source: intent, clipboard, or manual")
	cmd.Flags().StringVar(&browserFlag, "browser", "", "Browser package to open with")
	cmd.Flags().BoolVar(&alwaysFlag, "always", false, "Save the chosen browser as this host's preference")

	return cmd
}

func resolvePickerChoice(cmd *cobra.Command, a *app, picker engine.ShowPicker, source uri.Source, browserPkg string, always bool) error {
	ctx := context.Background()

	if always {
		if _, err := a.engine.OpenAlways(ctx, picker.URI, source, browserPkg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "opened %s with %s (saved as preference)\n", picker.URI.Host, browserPkg)
		return nil
	}

	if _, err := a.engine.OpenOnce(ctx, picker.URI, source, browserPkg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "opened %s with %s\n", picker.URI.Host, browserPkg)
	return nil
}

func renderPicker(cmd *cobra.Command, picker engine.ShowPicker) {
	fmt.Fprintf(cmd.OutOrStdout(), "no rule decides %s; choose a browser with --browser:\n", picker.URI.Host)

	if len(picker.Browsers) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(no installed browsers detected)")
		return
	}

	t := newTable(cmd)
	t.AppendHeader(table.Row{"Package", "Name", "Default"})
	budget := cellWidthBudget(3)
	for _, b := range picker.Browsers {
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
}
