package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newBookmarkCmd() *cobra.Command {
	var folderID int64

	cmd := &cobra.Command{
		Use:   "bookmark <host>",
		Short: "Toggle the bookmark state of a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var folder *int64
			if cmd.Flags().Changed("folder") {
				folder = &folderID
			}

			_, bookmarked, err := a.engine.ToggleBookmark(context.Background(), args[0], folder)
			if err != nil {
				return err
			}

			if bookmarked {
				fmt.Fprintf(cmd.OutOrStdout(), "bookmarked %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "removed bookmark for %s\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&folderID, "folder", 0, "Bookmark folder id (default bookmark folder if omitted)")

	return cmd
}
