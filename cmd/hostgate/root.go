package main

import (
	"github.com/spf13/cobra"
)

var dbPathFlag string

var rootCmd = &cobra.Command{
	Use:   "hostgate",
	Short: "hostgate - URI interception with per-host rules",
	Long:  "hostgate intercepts URIs, applies persisted host rules (bookmarks, blocks, browser preferences), and decides whether to open, refuse, or ask.",
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Path to the rules database (default: XDG data dir)")

	rootCmd.AddCommand(newOpenCmd())
	rootCmd.AddCommand(newBookmarkCmd())
	rootCmd.AddCommand(newBlockCmd())
	rootCmd.AddCommand(newUnblockCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newForgetCmd())
	rootCmd.AddCommand(newFolderCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newBrowsersCmd())
	rootCmd.AddCommand(newMCPCmd())
}
