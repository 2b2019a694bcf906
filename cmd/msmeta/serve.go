// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the metadata tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSetup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = s.logger.Sync() }()

			server := mcp.NewServer(&mcp.Implementation{Name: "msmeta", Version: version}, nil)
			s.harmonizer.Register(server)

			s.logger.Info("serving MCP over stdio")
			if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
				s.logger.Error("mcp server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
}
