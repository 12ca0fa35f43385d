package tools

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Jin-Doh/mcp-obsidian/logger"
	"github.com/Jin-Doh/mcp-obsidian/mcp"
	"github.com/Jin-Doh/mcp-obsidian/tools/types"
)

var ErrToolNotFound = errors.New("unknown tool")

func IsToolNotFound(err error) bool {
	return errors.Is(err, ErrToolNotFound)
}

// ExecutionError is the one failure shape the transport layer sees for a
// tool call that reached its handler. The tool name and the original cause
// are baked into the message.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Manager implements the ToolRegistry interface. Registration happens once
// during startup; dispatch afterwards only reads, so concurrent tool calls
// share the registry safely.
type Manager struct {
	tools map[string]types.Tool
	order []string
	mutex sync.RWMutex
}

// NewManager creates a new tool manager
func NewManager() *Manager {
	return &Manager{
		tools: make(map[string]types.Tool),
	}
}

// RegisterTool registers a new tool. Duplicate names are rejected.
func (m *Manager) RegisterTool(tool types.Tool) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if tool == nil {
		return errors.New("tool cannot be nil")
	}

	name := tool.Name()
	if name == "" {
		return errors.New("tool name cannot be empty")
	}
	if _, exists := m.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	m.tools[name] = tool
	m.order = append(m.order, name)
	logger.Debug("Tool registered", "name", name)
	return nil
}

// GetTool retrieves a tool by name
func (m *Manager) GetTool(name string) (types.Tool, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tool, exists := m.tools[name]
	return tool, exists
}

// ListTools returns all registered tools in registration order
func (m *Manager) ListTools() []types.Tool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tools := make([]types.Tool, 0, len(m.order))
	for _, name := range m.order {
		tools = append(tools, m.tools[name])
	}
	return tools
}

// GetTools returns descriptors for all registered tools in registration order
func (m *Manager) GetTools() []mcp.Tool {
	tools := m.ListTools()
	mcpTools := make([]mcp.Tool, 0, len(tools))

	for _, tool := range tools {
		mcpTools = append(mcpTools, mcp.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.InputSchema(),
		})
	}
	return mcpTools
}

// CallTool dispatches one tool call. Unknown names fail with ErrToolNotFound
// before any handler runs; handler failures (argument validation, remote
// API errors) are logged once and wrapped into a single *ExecutionError.
func (m *Manager) CallTool(ctx context.Context, name string, args map[string]any) ([]mcp.TextContent, error) {
	tool, exists := m.GetTool(name)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if args == nil {
		args = map[string]any{}
	}

	logger.Debug("Executing tool", "name", name, "args", args)
	result, err := tool.Execute(ctx, args)
	if err != nil {
		logger.Error("Tool call failed", "name", name, "error", err)
		return nil, &ExecutionError{Tool: name, Err: err}
	}
	return result, nil
}
