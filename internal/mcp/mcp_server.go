// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/dqscore/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the dqscore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Data Quality Score Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: score_report ---
	s.AddTool(mcp.NewTool("score_report",
		mcp.WithDescription("Score a saved validation report into per-field and overall data quality scores."),
		mcp.WithString("report_path", mcp.Description("Path to the validation report JSON file."), mcp.Required()),
	), h.handleScoreReport)

	// --- 2. Tool: list_checks ---
	s.AddTool(mcp.NewTool("list_checks",
		mcp.WithDescription("List the check suites defined in a checks directory."),
		mcp.WithString("checks_dir", mcp.Description("Directory holding suite YAML files (defaults to the configured checks directory).")),
	), h.handleListChecks)

	// --- 3. Tool: history_status ---
	s.AddTool(mcp.NewTool("history_status",
		mcp.WithDescription("Report how many scored runs the history store holds."),
	), h.handleHistoryStatus)

	return s
}

// StartMCPServer starts the dqscore MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
