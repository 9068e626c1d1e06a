package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/pulse/core"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/huangsam/pulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitHubClient
	mgr     contract.StoreManager
}

// applyRepoArgs copies the common repo/weeks/limit arguments onto a config clone.
func (h *toolHandler) applyRepoArgs(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if repo := request.GetString("repo", ""); repo != "" {
		owner, name, found := strings.Cut(repo, "/")
		if !found || owner == "" || name == "" {
			return nil, fmt.Errorf("repo must be in owner/repo form, got %q", repo)
		}
		cfg.Owner = owner
		cfg.Repo = name
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("repo is required in owner/repo form")
	}
	if w := request.GetInt("weeks", 0); w > 0 {
		cfg.Weeks = w
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	return cfg, nil
}

func (h *toolHandler) handleGetContributors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRepoArgs(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	kind := schema.CommitsReport
	if request.GetString("rank_by", "") == "lines" {
		kind = schema.LinesReport
	}

	report, err := core.GetContributorReport(ctx, cfg, h.client, h.mgr, kind)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetWeeklyTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRepoArgs(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	report, err := core.GetWeeklyReport(ctx, cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDayActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRepoArgs(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.WithPRs = request.GetBool("with_prs", false)

	report, err := core.GetDayReport(ctx, cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetPRActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRepoArgs(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	user := request.GetString("user", "")
	if user == "" {
		return mcp.NewToolResultError("user is required"), nil
	}

	summary := core.GetPRSummary(ctx, cfg, h.client, user)
	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
