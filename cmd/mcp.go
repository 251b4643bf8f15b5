package cmd

import (
	"github.com/huangsam/dqscore/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the dqscore MCP server",
	Long:  `Launch an MCP server that allows AI agents to score reports and inspect suites via standard tools.`,
	// Logs go to stderr; stdout carries the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}
