package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Jin-Doh/mcp-obsidian/config"
	"github.com/Jin-Doh/mcp-obsidian/logger"
	"github.com/Jin-Doh/mcp-obsidian/obsidian"
	"github.com/Jin-Doh/mcp-obsidian/tools"
	transporthttp "github.com/Jin-Doh/mcp-obsidian/transport/http"
	"github.com/Jin-Doh/mcp-obsidian/transport/stdio"
)

func main() {
	// Pick up OBSIDIAN_API_KEY and friends from a local .env if present.
	_ = godotenv.Load()

	configPath, err := config.ResolveConfigPath()
	if err != nil {
		log.Fatalf("Failed to resolve config path: %+v", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %+v", err)
	}

	if os.Getenv("MCP_DEBUG") == "true" {
		cfg.Server.Debug = true
	}

	if err := logger.Init(logger.GetLevelFromString(cfg.Logging.Level), logger.Format(cfg.Logging.Format), cfg.Logging.Path); err != nil {
		log.Fatalf("Failed to initialize logger: %+v", err)
	}

	client := obsidian.NewClient(obsidian.Options{
		APIKey:    cfg.Obsidian.APIKey,
		Protocol:  cfg.Obsidian.Protocol,
		Host:      cfg.Obsidian.Host,
		Port:      cfg.Obsidian.Port,
		VerifySSL: cfg.Obsidian.VerifySSL,
	})

	manager, err := tools.NewDefaultManager(client)
	if err != nil {
		logger.Error("Failed to register tools", "error", err)
		os.Exit(1)
	}
	logger.Info("Tools registered", "count", len(manager.ListTools()), "obsidian", client.BaseURL())

	// Reload on config file changes so a rotated API key is picked up
	// without a restart. Watch failures are non-fatal.
	watcher, err := config.NewWatcher(configPath, func(updated *config.Config) {
		client.Update(obsidian.Options{
			APIKey:    updated.Obsidian.APIKey,
			Protocol:  updated.Obsidian.Protocol,
			Host:      updated.Obsidian.Host,
			Port:      updated.Obsidian.Port,
			VerifySSL: updated.Obsidian.VerifySSL,
		})
		logger.SetDefaultLevel(logger.GetLevelFromString(updated.Logging.Level))
		logger.Info("Configuration reloaded", "path", configPath, "obsidian", client.BaseURL())
	}, func(watchErr error) {
		logger.Warn("Config watch error", "error", watchErr)
	})
	if err != nil {
		logger.Warn("Config watching disabled", "error", err)
	} else {
		defer watcher.Close()
	}

	if os.Getenv("MCP_USE_STDIO") == "true" {
		server := stdio.NewServer(manager, os.Stdin, os.Stdout)
		if err := server.Start(context.Background()); err != nil {
			logger.Error("Stdio server error", "error", err)
			os.Exit(1)
		}
		return
	}

	server := transporthttp.NewServer(cfg, manager)
	if err := server.Start(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
