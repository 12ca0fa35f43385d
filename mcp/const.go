package mcp

// Protocol version negotiated during initialize.
const (
	ProtocolVersion = "2025-06-18"
)

// Server identity advertised during initialize.
const (
	ServerName    = "mcp-obsidian"
	ServerVersion = "1.0.0"
)
