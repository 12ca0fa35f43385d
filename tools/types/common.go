package types

import (
	"context"

	"github.com/Jin-Doh/mcp-obsidian/mcp"
)

// Tool interface defines the contract for all tools. Execute validates its
// arguments before performing any network call and returns either a sequence
// of content blocks or an error (*ArgumentError for caller mistakes,
// *obsidian.APIError for remote failures).
type Tool interface {
	Name() string
	Description() string
	InputSchema() mcp.InputSchema
	Execute(ctx context.Context, args map[string]any) ([]mcp.TextContent, error)
}

// ToolRegistry interface defines the contract for tool registries
type ToolRegistry interface {
	RegisterTool(tool Tool) error
	GetTool(name string) (Tool, bool)
	ListTools() []Tool
	CallTool(ctx context.Context, name string, args map[string]any) ([]mcp.TextContent, error)
}
