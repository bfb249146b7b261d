package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostgate/hostgate/internal/services"
	"github.com/hostgate/hostgate/internal/uri"
)

func newBlockCmd() *cobra.Command {
	var (
		folderID   int64
		sourceFlag string
	)

	cmd := &cobra.Command{
		Use:   "block <uri>",
		Short: "Block a host so future interceptions are refused",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := uri.Classify(args[0])
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var folder *int64
			if cmd.Flags().Changed("folder") {
				folder = &folderID
			}

			if _, err := a.engine.BlockHost(context.Background(), parsed, uri.ParseSource(sourceFlag), folder); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "blocked %s\n", parsed.Host)
			return nil
		},
	}

	cmd.Flags().Int64Var(&folderID, "folder", 0, "Block folder id (default block folder if omitted)")
	cmd.Flags().StringVar(&sourceFlag, "source", "manual", "URI source: intent, clipboard, or manual")

	return cmd
}

func newUnblockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unblock <host>",
		Short: "Clear a host's blocked status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			rule, err := a.rules.GetByHost(ctx, args[0])
			if err != nil {
				return err
			}
			if rule == nil || rule.Status != uri.StatusBlocked {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not blocked\n", args[0])
				return nil
			}

			if _, err := a.rules.Save(ctx, services.SaveRuleParams{
				Host:   args[0],
				Status: uri.StatusNone,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "unblocked %s\n", args[0])
			return nil
		},
	}
}
