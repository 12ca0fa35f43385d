// Package shared holds the JSON-RPC frame parsing and response building
// logic common to the stdio and streamable HTTP transports.
package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Jin-Doh/mcp-obsidian/mcp"
	"github.com/Jin-Doh/mcp-obsidian/mcp/jsonrpc"
	"github.com/Jin-Doh/mcp-obsidian/tools"
)

const pageSize = 50

// BuildInitializeResponse answers the initialize handshake.
func BuildInitializeResponse(msg jsonrpc.Request) *jsonrpc.Response {
	return jsonrpc.NewResponse(msg.ID, map[string]any{
		"protocolVersion": mcp.ProtocolVersion,
		"capabilities":    ServerCapabilities(),
		"serverInfo": map[string]any{
			"name":    mcp.ServerName,
			"version": mcp.ServerVersion,
		},
	})
}

// BuildToolsListResponse enumerates tool descriptors in registration order,
// paginated with an opaque numeric cursor.
func BuildToolsListResponse(msg jsonrpc.Request, toolList []mcp.Tool) *jsonrpc.Response {
	start, err := ParseCursor(msg.Params, len(toolList))
	if err != nil {
		return jsonrpc.NewErrorResponse(msg.ID, int(jsonrpc.ErrInvalidParams), err.Error(), nil)
	}
	end := min(start+pageSize, len(toolList))

	result := map[string]any{
		"tools": toolList[start:end],
	}
	if end < len(toolList) {
		result["nextCursor"] = strconv.Itoa(end)
	}
	return jsonrpc.NewResponse(msg.ID, result)
}

// BuildToolCallResponse dispatches one tools/call request. Malformed call
// envelopes and unknown tool names come back as invalid-params JSON-RPC
// errors; failures inside a known tool come back as an isError tool result
// so the agent sees the cause as content.
func BuildToolCallResponse(ctx context.Context, msg jsonrpc.Request, manager *tools.Manager) *jsonrpc.Response {
	var toolCall struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(msg.Params, &toolCall); err != nil {
		return jsonrpc.NewErrorResponse(msg.ID, int(jsonrpc.ErrInvalidParams), "Invalid tool call payload", nil)
	}

	toolName := strings.TrimSpace(toolCall.Name)
	if toolName == "" {
		return jsonrpc.NewErrorResponse(msg.ID, int(jsonrpc.ErrInvalidParams), "Tool name is required", nil)
	}

	arguments := map[string]any{}
	if len(toolCall.Arguments) > 0 && !bytes.Equal(bytes.TrimSpace(toolCall.Arguments), []byte("null")) {
		if err := json.Unmarshal(toolCall.Arguments, &arguments); err != nil {
			return jsonrpc.NewErrorResponse(msg.ID, int(jsonrpc.ErrInvalidParams), "Tool arguments must be an object", nil)
		}
	}

	result, err := manager.CallTool(ctx, toolName, arguments)
	if err != nil {
		if tools.IsToolNotFound(err) {
			return jsonrpc.NewErrorResponse(msg.ID, int(jsonrpc.ErrInvalidParams), err.Error(), nil)
		}
		return jsonrpc.NewResponse(msg.ID, map[string]any{
			"content": []mcp.TextContent{mcp.NewTextContent(err.Error())},
			"isError": true,
		})
	}

	return jsonrpc.NewResponse(msg.ID, map[string]any{
		"content": result,
		"isError": false,
	})
}

// BuildPingResponse answers a ping.
func BuildPingResponse(msg jsonrpc.Request) *jsonrpc.Response {
	return jsonrpc.NewResponse(msg.ID, map[string]any{})
}

// DispatchStandardMethod handles shared non-initialize JSON-RPC methods for
// all transports.
func DispatchStandardMethod(ctx context.Context, msg jsonrpc.Request, manager *tools.Manager) any {
	switch msg.Method {
	case "tools/list":
		return BuildToolsListResponse(msg, manager.GetTools())
	case "tools/call":
		return BuildToolCallResponse(ctx, msg, manager)
	case "ping":
		return BuildPingResponse(msg)
	default:
		if msg.ID != nil {
			return jsonrpc.NewErrorResponse(msg.ID, int(jsonrpc.ErrMethodNotFound), "Method not found", map[string]any{
				"method": msg.Method,
			})
		}
		return nil
	}
}

// ServerCapabilities describes what this server supports.
func ServerCapabilities() map[string]any {
	return map[string]any{
		"tools": map[string]any{},
	}
}

// ParseCursor extracts the pagination offset from a list request.
func ParseCursor(paramsRaw json.RawMessage, total int) (int, error) {
	if len(paramsRaw) == 0 {
		return 0, nil
	}

	var params struct {
		Cursor string `json:"cursor"`
	}
	if err := json.Unmarshal(paramsRaw, &params); err != nil {
		return 0, fmt.Errorf("invalid params payload")
	}
	if strings.TrimSpace(params.Cursor) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(params.Cursor)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor value")
	}
	if offset < 0 || offset > total {
		return 0, fmt.Errorf("invalid cursor value")
	}
	return offset, nil
}

// ParseJSONRPCFrame validates and parses one JSON-RPC message frame. Both
// transports require a single message per frame; batches are rejected with
// an invalid-request response.
func ParseJSONRPCFrame(frame []byte) (*jsonrpc.Request, *jsonrpc.Response) {
	trimmed := bytes.TrimSpace(frame)
	if len(trimmed) == 0 {
		return nil, jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrInvalidRequest), "Invalid request", nil)
	}

	if trimmed[0] == '[' {
		return nil, jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrInvalidRequest), "Invalid request", nil)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrParseError), "Parse error", nil)
	}

	requestID, validID := parseIDFromEnvelope(envelope)
	if !validID {
		return nil, jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrInvalidRequest), "Invalid request", nil)
	}

	var msg jsonrpc.Request
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return nil, jsonrpc.NewErrorResponse(requestID, int(jsonrpc.ErrInvalidRequest), "Invalid request", nil)
	}

	if msg.JSONRPC != jsonrpc.Version || msg.Method == "" {
		return nil, jsonrpc.NewErrorResponse(requestID, int(jsonrpc.ErrInvalidRequest), "Invalid request", nil)
	}

	if rawParams, ok := envelope["params"]; ok && !isObjectValue(rawParams) {
		return nil, jsonrpc.NewErrorResponse(requestID, int(jsonrpc.ErrInvalidRequest), "Invalid request", nil)
	}

	return &msg, nil
}

func parseIDFromEnvelope(envelope map[string]json.RawMessage) (any, bool) {
	rawID, exists := envelope["id"]
	if !exists {
		return nil, true
	}
	trimmed := bytes.TrimSpace(rawID)
	if len(trimmed) == 0 {
		return nil, false
	}

	var id any
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&id); err != nil {
		return nil, false
	}

	switch v := id.(type) {
	case string:
		return id, true
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			return nil, false
		}
		return id, true
	default:
		return nil, false
	}
}

func isObjectValue(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
