package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docport/internal/apiclient"
	"docport/internal/mcptool"
	"docport/internal/platform/config"
	"docport/internal/platform/logger"
)

// main runs the MCP companion server: a thin bridge letting AI agents manage
// one tenant's documentation through the data API, authenticated with that
// tenant's API key.
func main() {
	cfg := config.MCPFromEnv()
	log := logger.New()

	if cfg.APIKey == "" {
		log.Error("DOCPORT_API_KEY is required")
		os.Exit(1)
	}

	data := apiclient.NewData(apiclient.New(cfg.APIBaseURL), cfg.APIKey)

	srv := mcptool.NewServer(
		mcptool.ServerConfig{
			Addr:    cfg.Addr,
			Name:    "docport-mcp",
			Version: "0.1.0",
		},
		mcptool.ServerDeps{
			Tenant: data,
			Pages:  data,
		},
		log,
	)

	if err := srv.Start(); err != nil {
		log.Error("mcp server start failed", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down mcp server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("mcp server stopped")
}
