package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hostgate/hostgate/internal/database"
	"github.com/hostgate/hostgate/internal/uri"
)

func newFolderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage bookmark and block folders",
	}

	cmd.AddCommand(newFolderCreateCmd())
	cmd.AddCommand(newFolderRenameCmd())
	cmd.AddCommand(newFolderMoveCmd())
	cmd.AddCommand(newFolderDeleteCmd())
	cmd.AddCommand(newFolderListCmd())

	return cmd
}

func newFolderCreateCmd() *cobra.Command {
	var (
		typeFlag string
		parentID int64
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folderType := uri.ParseFolderType(typeFlag)
			if !folderType.Valid() {
				return fmt.Errorf("invalid type: %s (valid values: bookmark, block)", typeFlag)
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var parent *int64
			if cmd.Flags().Changed("parent") {
				parent = &parentID
			}

			id, err := a.folders.Create(context.Background(), args[0], parent, folderType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created folder %q (id %d)\n", args[0], id)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", "bookmark", "Folder tree: bookmark or block")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "Parent folder id (root if omitted)")

	return cmd
}

func newFolderRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <new-name>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid folder id: %s", args[0])
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			current, err := a.folders.Get(ctx, id)
			if err != nil {
				return err
			}

			if err := a.folders.Update(ctx, database.FolderRecord{
				ID:       id,
				Name:     args[1],
				ParentID: current.ParentID,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed folder %d to %q\n", id, args[1])
			return nil
		},
	}
}

func newFolderMoveCmd() *cobra.Command {
	var toRoot bool

	cmd := &cobra.Command{
		Use:   "move <id> [new-parent-id]",
		Short: "Move a folder under a new parent",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid folder id: %s", args[0])
			}

			var parent *int64
			switch {
			case toRoot:
			case len(args) == 2:
				parentID, err := strconv.ParseInt(args[1], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid parent id: %s", args[1])
				}
				parent = &parentID
			default:
				return fmt.Errorf("either a new parent id or --root is required")
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			current, err := a.folders.Get(ctx, id)
			if err != nil {
				return err
			}

			if err := a.folders.Update(ctx, database.FolderRecord{
				ID:       id,
				Name:     current.Name,
				ParentID: parent,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved folder %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&toRoot, "root", false, "Move the folder to the root of its tree")

	return cmd
}

func newFolderDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an empty folder, detaching its host rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid folder id: %s", args[0])
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.folders.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted folder %d\n", id)
			return nil
		},
	}
}

func newFolderListCmd() *cobra.Command {
	var typeFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			folderType := uri.FolderUnknown
			if typeFlag != "" {
				folderType = uri.ParseFolderType(typeFlag)
				if !folderType.Valid() {
					return fmt.Errorf("invalid type: %s (valid values: bookmark, block)", typeFlag)
				}
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			folders, err := a.folders.List(context.Background(), folderType)
			if err != nil {
				return err
			}

			t := newTable(cmd)
			t.AppendHeader(table.Row{"ID", "Name", "Type", "Parent"})
			budget := cellWidthBudget(4)
			for _, f := range folders {
				parent := ""
				if f.ParentID != nil {
					parent = fmt.Sprintf("%d", *f.ParentID)
				}
				t.AppendRow(table.Row{f.ID, truncateCell(f.Name, budget), string(f.Type), parent})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", "", "Restrict to one tree: bookmark or block")

	return cmd
}
