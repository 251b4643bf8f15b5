package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/dqscore/core"
	"github.com/huangsam/dqscore/core/engine"
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/internal/loader"
	"github.com/huangsam/dqscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// scoredField is one field of a score_report result.
type scoredField struct {
	schema.FieldSummary
	Label string `json:"label"`
}

// suiteListing is one suite of a list_checks result.
type suiteListing struct {
	Name    string   `json:"name"`
	Dataset string   `json:"dataset,omitempty"`
	Checks  int      `json:"checks"`
	Labels  []string `json:"labels"`
}

func (h *toolHandler) handleScoreReport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("report_path", "")
	if path == "" {
		return mcp.NewToolResultError("report_path is required"), nil
	}

	_, summary, err := core.ScoreReportFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	fields := make([]scoredField, len(summary.Fields))
	for i, f := range summary.Fields {
		fields[i] = scoredField{FieldSummary: f, Label: core.Label(summary, f.AvgQualityScore)}
	}
	jsonData, _ := json.MarshalIndent(struct {
		Suite        string        `json:"suite"`
		Batch        string        `json:"batch"`
		Fields       []scoredField `json:"fields"`
		OverallScore float64       `json:"overall_score"`
		OverallLabel string        `json:"overall_label"`
	}{
		Suite:        summary.Suite,
		Batch:        summary.Batch,
		Fields:       fields,
		OverallScore: summary.OverallScore,
		OverallLabel: core.Label(summary, summary.OverallScore),
	}, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListChecks(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := h.baseCfg.ChecksDir
	if d := request.GetString("checks_dir", ""); d != "" {
		dir = d
	}
	if dir == "" {
		return mcp.NewToolResultError("checks_dir is required when no checks directory is configured"), nil
	}

	suites, err := loader.LoadChecks(dir, engine.NewEngine())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading checks failed: %v", err)), nil
	}

	listing := make([]suiteListing, len(suites))
	for i, s := range suites {
		kind, _ := s.Kind()
		listing[i] = suiteListing{Name: s.Name, Dataset: string(kind), Checks: len(s.Checks), Labels: s.Labels()}
	}
	jsonData, _ := json.MarshalIndent(listing, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleHistoryStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil {
		return mcp.NewToolResultError("history is disabled"), nil
	}
	store := h.mgr.GetHistoryStore()
	if store == nil {
		return mcp.NewToolResultError("history is disabled"), nil
	}

	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history status failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
