// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/pulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Pulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Pulse Activity Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: get_contributors ---
	s.AddTool(mcp.NewTool("get_contributors",
		mcp.WithDescription("Rank GitHub repository contributors by commits or lines added, with alias reconciliation."),
		mcp.WithString("repo", mcp.Description("Repository in owner/repo form."), mcp.Required()),
		mcp.WithString("rank_by", mcp.Description("Ranking metric (commits or lines). Defaults to 'commits'."), mcp.Enum("commits", "lines")),
		mcp.WithNumber("weeks", mcp.Description("Number of trailing weeks to analyze.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetContributors)

	// --- 2. Tool: get_weekly_trend ---
	s.AddTool(mcp.NewTool("get_weekly_trend",
		mcp.WithDescription("Aggregate repository activity per calendar week with growth and consistency metrics."),
		mcp.WithString("repo", mcp.Description("Repository in owner/repo form."), mcp.Required()),
		mcp.WithNumber("weeks", mcp.Description("Number of trailing weeks to analyze.")),
	), h.handleGetWeeklyTrend)

	// --- 3. Tool: get_day_activity ---
	s.AddTool(mcp.NewTool("get_day_activity",
		mcp.WithDescription("Break down contributor activity by day of week."),
		mcp.WithString("repo", mcp.Description("Repository in owner/repo form."), mcp.Required()),
		mcp.WithNumber("weeks", mcp.Description("Number of trailing weeks to analyze.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of contributors returned.")),
		mcp.WithBoolean("with_prs", mcp.Description("Include pull request metrics for top contributors.")),
	), h.handleGetDayActivity)

	// --- 4. Tool: get_pr_activity ---
	s.AddTool(mcp.NewTool("get_pr_activity",
		mcp.WithDescription("Summarize pull requests opened, merged, and reviewed by a user across all known aliases."),
		mcp.WithString("repo", mcp.Description("Repository in owner/repo form."), mcp.Required()),
		mcp.WithString("user", mcp.Description("GitHub username to summarize."), mcp.Required()),
	), h.handleGetPRActivity)

	return s
}

// StartMCPServer starts the Pulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitHubClient, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
