// Package main runs the HTTP gateway: the same read-only SQL tools as the
// MCP server, served as POST /call_tool for the dashboard frontend.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/tallman/dashboard-tools/internal/config"
	"github.com/tallman/dashboard-tools/internal/httpserver"
	"github.com/tallman/dashboard-tools/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gw := server.NewGateway(cfg)
	defer gw.Close()

	// Fail fast if no configured connection answers at startup.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ok := false
	for _, id := range cfg.ConnectionIDs() {
		if _, err := gw.ListTables(ctx, id); err != nil {
			log.Printf("startup check %q: %v", id, err)
			continue
		}
		ok = true
	}
	cancel()
	if !ok {
		log.Fatal("no database connection available at startup")
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: httpserver.New(gw),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-stopCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTPAddr())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http: %v", err)
	}
}
