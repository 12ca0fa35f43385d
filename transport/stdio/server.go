// Package stdio serves MCP over stdin/stdout, one JSON-RPC message per frame.
package stdio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Jin-Doh/mcp-obsidian/logger"
	"github.com/Jin-Doh/mcp-obsidian/mcp/jsonrpc"
	"github.com/Jin-Doh/mcp-obsidian/tools"
	"github.com/Jin-Doh/mcp-obsidian/transport/shared"
)

// Server handles MCP communication over stdio
type Server struct {
	manager *tools.Manager
	in      io.Reader
	out     io.Writer
}

// NewServer creates a stdio server reading requests from in and writing
// responses to out.
func NewServer(manager *tools.Manager, in io.Reader, out io.Writer) *Server {
	return &Server{
		manager: manager,
		in:      in,
		out:     out,
	}
}

// Start runs the read/dispatch/write loop until EOF on the input stream.
func (s *Server) Start(ctx context.Context) error {
	decoder := json.NewDecoder(s.in)
	encoder := json.NewEncoder(s.out)

	logger.Debug("Stdio server started and waiting for messages")

	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				logger.Debug("Stdio EOF received, terminating server")
				return nil
			}
			// The decoder cannot resync after a syntax error, so the
			// stream is unusable from here on.
			logger.Error("Error decoding message, terminating server", "error", err)
			if encErr := encoder.Encode(jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrParseError), "Parse error", nil)); encErr != nil {
				logger.Error("Error encoding response", "error", encErr)
			}
			return fmt.Errorf("stdin stream corrupted: %w", err)
		}

		msg, parseErr := shared.ParseJSONRPCFrame(raw)
		if parseErr != nil {
			if err := encoder.Encode(parseErr); err != nil {
				logger.Error("Error encoding response", "error", err)
			}
			continue
		}

		logger.Debug("Stdio message received", "method", msg.Method, "id", msg.ID)

		response := s.handleMessage(ctx, *msg)
		if response == nil {
			continue
		}
		if err := encoder.Encode(response); err != nil {
			logger.Error("Error encoding response", "error", err)
		}
	}
}

func (s *Server) handleMessage(ctx context.Context, msg jsonrpc.Request) any {
	switch msg.Method {
	case "initialize":
		return shared.BuildInitializeResponse(msg)
	case "notifications/initialized":
		return nil
	default:
		return shared.DispatchStandardMethod(ctx, msg, s.manager)
	}
}
