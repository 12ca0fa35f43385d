// Package http serves MCP over the streamable HTTP transport on echo.
package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Jin-Doh/mcp-obsidian/config"
	"github.com/Jin-Doh/mcp-obsidian/logger"
	"github.com/Jin-Doh/mcp-obsidian/tools"
)

const (
	sessionCleanupInterval = 5 * time.Minute
	sessionIdleTimeout     = 10 * time.Minute
)

type Server struct {
	manager        *tools.Manager
	sessionManager *SessionManager
	config         *config.Config
	echo           *echo.Echo
}

// NewServer creates the streamable HTTP server around an already-populated
// tool manager.
func NewServer(cfg *config.Config, manager *tools.Manager) *Server {
	s := &Server{
		manager:        manager,
		sessionManager: NewSessionManager(),
		config:         cfg,
		echo:           echo.New(),
	}
	s.echo.HideBanner = true
	s.setupEcho()
	return s
}

// Start begins listening; it blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	go s.startCleanupLoop()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	logger.Info("Streamable HTTP server starting to listen", "address", addr)
	return s.echo.Start(addr)
}

func (s *Server) setupEcho() {
	if s.config.Server.Debug {
		s.echo.Use(middleware.Logger())
	}
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, headerSessionID, headerProtocolVersion},
	}))
	RegisterRoutes(s.echo, s)
}

func (s *Server) startCleanupLoop() {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		s.sessionManager.CleanupSessions(sessionIdleTimeout)
	}
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
