package tools

import (
	"github.com/Jin-Doh/mcp-obsidian/obsidian"
	"github.com/Jin-Doh/mcp-obsidian/tools/periodic"
	"github.com/Jin-Doh/mcp-obsidian/tools/search"
	"github.com/Jin-Doh/mcp-obsidian/tools/types"
	"github.com/Jin-Doh/mcp-obsidian/tools/vault"
)

// GetAllTools returns all available tools from all categories, bound to the
// given Obsidian client.
func GetAllTools(client *obsidian.Client) []types.Tool {
	var all []types.Tool
	all = append(all, vault.GetAllTools(client)...)
	all = append(all, search.GetAllTools(client)...)
	all = append(all, periodic.GetAllTools(client)...)
	return all
}

// NewDefaultManager creates a manager with every tool registered.
func NewDefaultManager(client *obsidian.Client) (*Manager, error) {
	manager := NewManager()
	for _, tool := range GetAllTools(client) {
		if err := manager.RegisterTool(tool); err != nil {
			return nil, err
		}
	}
	return manager, nil
}
