// Package periodic implements the tools for calendar-period notes.
package periodic

import (
	"context"

	"github.com/Jin-Doh/mcp-obsidian/mcp"
	"github.com/Jin-Doh/mcp-obsidian/obsidian"
	tooltypes "github.com/Jin-Doh/mcp-obsidian/tools/types"
)

var validPeriods = []string{"daily", "weekly", "monthly", "quarterly", "yearly"}

const defaultRecentNotesLimit = 5

// GetAllTools returns the periodic note tools bound to client.
func GetAllTools(client *obsidian.Client) []tooltypes.Tool {
	return []tooltypes.Tool{
		&PeriodicNoteTool{client: client},
		&RecentPeriodicNotesTool{client: client},
	}
}

// PeriodicNoteTool fetches the current note for a calendar period.
type PeriodicNoteTool struct {
	client *obsidian.Client
}

func (t *PeriodicNoteTool) Name() string { return "obsidian_get_periodic_note" }
func (t *PeriodicNoteTool) Description() string {
	return "Get current periodic note for the specified period."
}
func (t *PeriodicNoteTool) InputSchema() mcp.InputSchema {
	return mcp.InputSchema{
		Type: "object",
		Properties: map[string]any{
			"period": map[string]any{
				"type":        "string",
				"description": "The period type (daily, weekly, monthly, quarterly, yearly)",
				"enum":        validPeriods,
			},
		},
		Required: []string{"period"},
	}
}
func (t *PeriodicNoteTool) Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error) {
	period, err := tooltypes.EnumArg(args, "period", validPeriods)
	if err != nil {
		return nil, err
	}
	content, err := t.client.GetPeriodicNote(ctx, period)
	if err != nil {
		return nil, err
	}
	return mcp.TextResult(content), nil
}

// RecentPeriodicNotesTool fetches the most recent notes of a period type.
type RecentPeriodicNotesTool struct {
	client *obsidian.Client
}

func (t *RecentPeriodicNotesTool) Name() string { return "obsidian_get_recent_periodic_notes" }
func (t *RecentPeriodicNotesTool) Description() string {
	return "Get most recent periodic notes for the specified period type."
}
func (t *RecentPeriodicNotesTool) InputSchema() mcp.InputSchema {
	return mcp.InputSchema{
		Type: "object",
		Properties: map[string]any{
			"period": map[string]any{
				"type":        "string",
				"description": "The period type (daily, weekly, monthly, quarterly, yearly)",
				"enum":        validPeriods,
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of notes to return (default: 5)",
				"default":     defaultRecentNotesLimit,
				"minimum":     1,
			},
			"include_content": map[string]any{
				"type":        "boolean",
				"description": "Whether to include note content (default: false)",
				"default":     false,
			},
		},
		Required: []string{"period"},
	}
}
func (t *RecentPeriodicNotesTool) Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error) {
	period, err := tooltypes.EnumArg(args, "period", validPeriods)
	if err != nil {
		return nil, err
	}
	limit, err := tooltypes.PositiveIntArg(args, "limit", defaultRecentNotesLimit)
	if err != nil {
		return nil, err
	}
	includeContent, err := tooltypes.BoolArg(args, "include_content", false)
	if err != nil {
		return nil, err
	}

	results, err := t.client.GetRecentPeriodicNotes(ctx, period, limit, includeContent)
	if err != nil {
		return nil, err
	}
	return tooltypes.JSONResult(results)
}
