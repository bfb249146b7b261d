package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hostgate/hostgate/internal/logger"
	"github.com/hostgate/hostgate/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server, err := mcp.NewServer(dbPathFlag, logger.New("info", false))
			if err != nil {
				return err
			}
			return server.Run(context.Background())
		},
	}
}
