// Package search implements the tools that query the vault: simple text
// search, JsonLogic complex search, and the recent-changes Dataview query.
package search

import (
	"context"

	"github.com/Jin-Doh/mcp-obsidian/mcp"
	"github.com/Jin-Doh/mcp-obsidian/obsidian"
	tooltypes "github.com/Jin-Doh/mcp-obsidian/tools/types"
)

const (
	defaultContextLength      = 100
	defaultRecentChangesLimit = 10
	defaultRecentChangesDays  = 90
)

// GetAllTools returns the search tools bound to client.
func GetAllTools(client *obsidian.Client) []tooltypes.Tool {
	return []tooltypes.Tool{
		&SimpleSearchTool{client: client},
		&ComplexSearchTool{client: client},
		&RecentChangesTool{client: client},
	}
}

// SimpleSearchTool performs a plain text search across the vault.
type SimpleSearchTool struct {
	client *obsidian.Client
}

func (t *SimpleSearchTool) Name() string { return "obsidian_simple_search" }
func (t *SimpleSearchTool) Description() string {
	return "Simple search for documents matching a specified text query across all files in the vault. " +
		"Use this tool when you want to do a simple text search"
}
func (t *SimpleSearchTool) InputSchema() mcp.InputSchema {
	return mcp.InputSchema{
		Type: "object",
		Properties: map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Text to a simple search for in the vault.",
			},
			"context_length": map[string]any{
				"type":        "integer",
				"description": "How much context to return around the matching string (default: 100)",
				"default":     defaultContextLength,
			},
		},
		Required: []string{"query"},
	}
}
func (t *SimpleSearchTool) Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error) {
	query, err := tooltypes.StringArg(args, "query")
	if err != nil {
		return nil, err
	}
	contextLength, err := tooltypes.PositiveIntArg(args, "context_length", defaultContextLength)
	if err != nil {
		return nil, err
	}

	results, err := t.client.Search(ctx, query, contextLength)
	if err != nil {
		return nil, err
	}

	formatted := make([]map[string]any, 0, len(results))
	for _, result := range results {
		matches := make([]map[string]any, 0, len(result.Matches))
		for _, match := range result.Matches {
			matches = append(matches, map[string]any{
				"context": match.Context,
				"match_position": map[string]any{
					"start": match.Match.Start,
					"end":   match.Match.End,
				},
			})
		}
		formatted = append(formatted, map[string]any{
			"filename": result.Filename,
			"score":    result.Score,
			"matches":  matches,
		})
	}
	return tooltypes.JSONResult(formatted)
}

// ComplexSearchTool runs a JsonLogic query against the vault. The query
// structure is forwarded to the Local REST API untouched.
type ComplexSearchTool struct {
	client *obsidian.Client
}

func (t *ComplexSearchTool) Name() string { return "obsidian_complex_search" }
func (t *ComplexSearchTool) Description() string {
	return "Complex search for documents using a JsonLogic query. " +
		"Supports standard JsonLogic operators plus 'glob' and 'regexp' for pattern matching. Results must be non-falsy. " +
		"Use this tool when you want to do a complex search, e.g. for all documents with certain tags etc."
}
func (t *ComplexSearchTool) InputSchema() mcp.InputSchema {
	return mcp.InputSchema{
		Type: "object",
		Properties: map[string]any{
			"query": map[string]any{
				"type":        "object",
				"description": `JsonLogic query object. Example: {"glob": ["*.md", {"var": "path"}]} matches all markdown files`,
			},
		},
		Required: []string{"query"},
	}
}
func (t *ComplexSearchTool) Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error) {
	query, err := tooltypes.ObjectArg(args, "query")
	if err != nil {
		return nil, err
	}
	results, err := t.client.SearchJSON(ctx, query)
	if err != nil {
		return nil, err
	}
	return tooltypes.JSONResult(results)
}

// RecentChangesTool lists recently modified vault files.
type RecentChangesTool struct {
	client *obsidian.Client
}

func (t *RecentChangesTool) Name() string { return "obsidian_get_recent_changes" }
func (t *RecentChangesTool) Description() string {
	return "Get recently modified files in the vault."
}
func (t *RecentChangesTool) InputSchema() mcp.InputSchema {
	return mcp.InputSchema{
		Type: "object",
		Properties: map[string]any{
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of files to return (default: 10)",
				"default":     defaultRecentChangesLimit,
				"minimum":     1,
			},
			"days": map[string]any{
				"type":        "integer",
				"description": "Only include files modified within this many days (default: 90)",
				"minimum":     1,
				"default":     defaultRecentChangesDays,
			},
		},
		Required: []string{},
	}
}
func (t *RecentChangesTool) Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error) {
	limit, err := tooltypes.PositiveIntArg(args, "limit", defaultRecentChangesLimit)
	if err != nil {
		return nil, err
	}
	days, err := tooltypes.PositiveIntArg(args, "days", defaultRecentChangesDays)
	if err != nil {
		return nil, err
	}

	results, err := t.client.GetRecentChanges(ctx, limit, days)
	if err != nil {
		return nil, err
	}
	return tooltypes.JSONResult(results)
}
