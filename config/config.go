package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config represents the MCP server configuration
type Config struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Server      Server   `json:"server"`
	Obsidian    Obsidian `json:"obsidian"`
	Logging     Logging  `json:"logging"`
}

// Server represents the streamable HTTP listener configuration
type Server struct {
	Host  string `json:"host"`
	Port  int    `json:"port"`
	Debug bool   `json:"debug"`
}

// Obsidian represents the Local REST API connection settings. The API key is
// carried here as a plain value so independently-configured clients can be
// built in tests; nothing reads it from the environment after load time.
type Obsidian struct {
	APIKey    string `json:"api_key"`
	Protocol  string `json:"protocol"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	VerifySSL bool   `json:"verify_ssl"`
}

// Logging represents logging configuration
type Logging struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Path   string `json:"path"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return &Config{
		Name:        "mcp-obsidian",
		Version:     "1.0.0",
		Description: "MCP server for the Obsidian Local REST API",
		Server: Server{
			Host:  "localhost",
			Port:  9090,
			Debug: false,
		},
		Obsidian: Obsidian{
			Protocol:  "https",
			Host:      "127.0.0.1",
			Port:      27124,
			VerifySSL: false,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
			Path:   filepath.Join(home, ".mcp-obsidian", "logs", "mcp.log"),
		},
	}
}

// LoadConfig loads the configuration from a file. A missing file is not an
// error: the Obsidian Local REST API settings are commonly supplied entirely
// through the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Override with environment variables (highest priority).
	applyEnvOverrides(cfg)
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(cfg *Config, path string) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if apiKey := os.Getenv("OBSIDIAN_API_KEY"); apiKey != "" {
		cfg.Obsidian.APIKey = apiKey
	}

	if protocol := os.Getenv("OBSIDIAN_PROTOCOL"); protocol != "" {
		cfg.Obsidian.Protocol = protocol
	}

	if host := os.Getenv("OBSIDIAN_HOST"); host != "" {
		cfg.Obsidian.Host = host
	}

	if portStr := os.Getenv("OBSIDIAN_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Obsidian.Port = port
		} else {
			log.Printf("warning: ignoring invalid OBSIDIAN_PORT value %q: %v", portStr, err)
		}
	}

	if verify := os.Getenv("OBSIDIAN_VERIFY_SSL"); verify != "" {
		if parsed, err := strconv.ParseBool(verify); err == nil {
			cfg.Obsidian.VerifySSL = parsed
		} else {
			log.Printf("warning: ignoring invalid OBSIDIAN_VERIFY_SSL value %q: %v", verify, err)
		}
	}

	if host := os.Getenv("MCP_HOST"); host != "" {
		cfg.Server.Host = host
	}

	if portStr := os.Getenv("MCP_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Server.Port = port
		} else {
			log.Printf("warning: ignoring invalid MCP_PORT value %q: %v", portStr, err)
		}
	}

	if debug := os.Getenv("MCP_DEBUG"); debug != "" {
		if parsed, err := strconv.ParseBool(debug); err == nil {
			cfg.Server.Debug = parsed
		} else {
			log.Printf("warning: ignoring invalid MCP_DEBUG value %q: %v", debug, err)
		}
	}

	if logLevel := os.Getenv("MCP_LOG_LEVEL"); logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if logPath := os.Getenv("MCP_LOG_PATH"); logPath != "" {
		cfg.Logging.Path = logPath
	}
}

// Normalize canonicalizes config values so downstream validation and runtime
// logic operate on stable representations.
func (c *Config) Normalize() {
	c.Server.Host = strings.TrimSpace(c.Server.Host)
	c.Obsidian.APIKey = strings.TrimSpace(c.Obsidian.APIKey)
	c.Obsidian.Protocol = strings.ToLower(strings.TrimSpace(c.Obsidian.Protocol))
	c.Obsidian.Host = strings.TrimSpace(c.Obsidian.Host)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Path = strings.TrimSpace(c.Logging.Path)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port number")
	}

	if c.Server.Host == "" {
		return errors.New("server host cannot be empty")
	}

	if c.Obsidian.APIKey == "" {
		wd, _ := os.Getwd()
		return fmt.Errorf("OBSIDIAN_API_KEY environment variable required. Working directory: %s", wd)
	}

	if c.Obsidian.Protocol != "http" && c.Obsidian.Protocol != "https" {
		return fmt.Errorf("invalid obsidian protocol %q: expected http or https", c.Obsidian.Protocol)
	}

	if c.Obsidian.Host == "" {
		return errors.New("obsidian host cannot be empty")
	}

	if c.Obsidian.Port <= 0 || c.Obsidian.Port > 65535 {
		return errors.New("invalid obsidian port number")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return errors.New("invalid log level")
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return errors.New("invalid log format")
	}

	if c.Logging.Path == "" {
		return errors.New("log path cannot be empty")
	}

	return nil
}

// ResolveConfigPath returns the path that should be used for configuration.
func ResolveConfigPath() (string, error) {
	// First check environment variable
	if path := strings.TrimSpace(os.Getenv("MCP_CONFIG_PATH")); path != "" {
		return path, nil
	}

	// Then check config/mcp_config.json in current directory
	if _, err := os.Stat("config/mcp_config.json"); err == nil {
		return "config/mcp_config.json", nil
	}

	// Finally check home directory
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".mcp-obsidian", "config", "mcp_config.json"), nil
}
