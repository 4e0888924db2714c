// Package main runs the dashboard MCP server: read-only SQL tools over the
// ERP connections for agents, without exposing credentials.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tallman/dashboard-tools/internal/config"
	"github.com/tallman/dashboard-tools/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gw := server.NewGateway(cfg)
	defer gw.Close()

	srv := server.New(gw)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(context.Cause(ctx), context.Canceled) {
		log.Fatalf("server: %v", err)
	}
}
