package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bamkit/fgbio-mcp/pkg/fgbio"
	"github.com/bamkit/fgbio-mcp/pkg/tools"
)

// requestArgs extracts the argument map from an MCP call. A missing or
// differently-typed payload degrades to an empty map and fails input
// validation downstream instead of erroring here.
func requestArgs(req mcp.CallToolRequest) map[string]any {
	if args, ok := req.Params.Arguments.(map[string]any); ok {
		return args
	}
	return map[string]any{}
}

// SortBamHandler handles the sort_bam tool by delegating to the injected
// runner.
func SortBamHandler(runner fgbio.Runner) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input := tools.BuildSortBamInput(requestArgs(req))
		return tools.SortBamHandler(ctx, runner, input).ToMCPResult()
	}
}

// FilterBamHandler handles the filter_bam tool by delegating to the
// injected runner.
func FilterBamHandler(runner fgbio.Runner) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input := tools.BuildFilterBamInput(requestArgs(req))
		return tools.FilterBamHandler(ctx, runner, input).ToMCPResult()
	}
}
