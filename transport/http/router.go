package http

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Jin-Doh/mcp-obsidian/logger"
	"github.com/Jin-Doh/mcp-obsidian/mcp"
	"github.com/Jin-Doh/mcp-obsidian/mcp/jsonrpc"
	"github.com/Jin-Doh/mcp-obsidian/transport/shared"
)

const maxJSONRPCBodyBytes = 1 << 20

const (
	headerSessionID       = "Mcp-Session-Id"
	headerProtocolVersion = "MCP-Protocol-Version"
)

var supportedProtocolVersions = map[string]struct{}{
	"2024-11-05": {},
	"2025-03-26": {},
	"2025-06-18": {},
}

// RegisterRoutes wires the MCP endpoint and the info route
func RegisterRoutes(e *echo.Echo, s *Server) {
	e.GET("/", s.handleHTTPInfo)
	e.POST("/mcp", s.handleMCPPost)
	e.GET("/mcp", s.handleMCPGet)
	e.DELETE("/mcp", s.handleMCPDelete)
	e.OPTIONS("/mcp", s.handleOptions)
}

func (s *Server) handleHTTPInfo(c echo.Context) error {
	logger.Debug("HTTP info requested", "remote_addr", c.RealIP())
	info := map[string]any{
		"name":         mcp.ServerName,
		"version":      mcp.ServerVersion,
		"capabilities": shared.ServerCapabilities(),
		"endpoint":     "/mcp",
	}
	return c.JSON(http.StatusOK, info)
}

func (s *Server) handleOptions(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleMCPPost(c echo.Context) error {
	limitedBody := http.MaxBytesReader(c.Response(), c.Request().Body, maxJSONRPCBodyBytes)
	defer limitedBody.Close()

	body, err := io.ReadAll(limitedBody)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			logger.Warn("Request body too large", "limit_bytes", maxJSONRPCBodyBytes, "remote_addr", c.RealIP())
			return c.JSON(http.StatusRequestEntityTooLarge, jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrInvalidRequest), "Request body too large", nil))
		}
		logger.Error("Failed to read request body", "error", err)
		return c.JSON(http.StatusBadRequest, jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrParseError), "Parse error", nil))
	}

	msg, parseErr := shared.ParseJSONRPCFrame(body)
	if parseErr != nil {
		return c.JSON(http.StatusBadRequest, parseErr)
	}

	requestedVersion := strings.TrimSpace(c.Request().Header.Get(headerProtocolVersion))
	if requestedVersion != "" {
		if _, ok := supportedProtocolVersions[requestedVersion]; !ok {
			return c.JSON(http.StatusBadRequest, jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrInvalidRequest), "Unsupported MCP-Protocol-Version header", nil))
		}
	}

	sessionID := c.Request().Header.Get(headerSessionID)

	if msg.Method == "initialize" {
		if sessionID == "" {
			sessionID, err = generateSessionID()
			if err != nil {
				logger.Error("Failed to generate session ID", "error", err)
				return c.JSON(http.StatusInternalServerError, jsonrpc.NewErrorResponse(msg.ID, int(jsonrpc.ErrInternalError), "Internal error", nil))
			}
			s.sessionManager.CreateSession(sessionID)
			logger.Debug("Generated new MCP session")
		} else if !s.sessionManager.TouchSession(sessionID) {
			return c.JSON(http.StatusNotFound, jsonrpc.NewErrorResponse(msg.ID, int(jsonrpc.ErrInvalidRequest), "Unknown MCP session", nil))
		}
	} else {
		if sessionID == "" {
			return c.JSON(http.StatusBadRequest, jsonrpc.NewErrorResponse(msg.ID, int(jsonrpc.ErrInvalidRequest), "Missing Mcp-Session-Id header", nil))
		}
		if !s.sessionManager.TouchSession(sessionID) {
			return c.JSON(http.StatusNotFound, jsonrpc.NewErrorResponse(msg.ID, int(jsonrpc.ErrInvalidRequest), "Unknown MCP session", nil))
		}
	}

	logger.Debug("Streamable HTTP request received", "method", msg.Method, "id", msg.ID)

	var response any
	switch msg.Method {
	case "initialize":
		response = shared.BuildInitializeResponse(*msg)
	case "notifications/initialized":
		response = nil
	default:
		response = shared.DispatchStandardMethod(c.Request().Context(), *msg, s.manager)
	}

	c.Response().Header().Set(headerSessionID, sessionID)

	if msg.ID == nil || response == nil {
		return c.NoContent(http.StatusAccepted)
	}
	return c.JSON(http.StatusOK, response)
}

// handleMCPGet rejects server-initiated stream requests: this server has no
// server-to-client notifications, so it does not keep SSE streams open.
func (s *Server) handleMCPGet(c echo.Context) error {
	sessionID := c.Request().Header.Get(headerSessionID)
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrInvalidRequest), "Missing Mcp-Session-Id header", nil))
	}
	if !s.sessionManager.HasSession(sessionID) {
		return c.JSON(http.StatusNotFound, jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrInvalidRequest), "Unknown MCP session", nil))
	}
	return c.NoContent(http.StatusMethodNotAllowed)
}

func (s *Server) handleMCPDelete(c echo.Context) error {
	sessionID := c.Request().Header.Get(headerSessionID)
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrInvalidRequest), "Missing Mcp-Session-Id header", nil))
	}
	if !s.sessionManager.HasSession(sessionID) {
		return c.JSON(http.StatusNotFound, jsonrpc.NewErrorResponse(nil, int(jsonrpc.ErrInvalidRequest), "Unknown MCP session", nil))
	}
	s.sessionManager.RemoveSession(sessionID)
	logger.Debug("MCP session terminated")
	return c.NoContent(http.StatusNoContent)
}

func generateSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
