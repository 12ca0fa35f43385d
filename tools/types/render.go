package types

import (
	"encoding/json"
	"fmt"

	"github.com/Jin-Doh/mcp-obsidian/mcp"
)

// JSONResult serializes a structured result into the canonical single text
// block shape: stable JSON with 2-space indentation.
func JSONResult(v any) ([]mcp.TextContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.TextResult(string(data)), nil
}
