// Command fitbridge-mcp serves the workout store to MCP clients over
// stdio. It reads either from a remote fitbridge API (-url) or
// directly from the database (-config).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kerlouan/fitbridge/internal/config"
	"github.com/kerlouan/fitbridge/internal/mcp"
	"github.com/kerlouan/fitbridge/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	apiURL := flag.String("url", "", "base URL of a running fitbridge API (remote mode)")
	configPath := flag.String("config", "", "path to config file (local database mode)")
	flag.Parse()

	// Logs go to stderr: stdout is the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	switch {
	case *apiURL != "":
		ds = mcp.NewHTTPClient(*apiURL)
		log.Info("mcp remote mode", "url", *apiURL)
	case *configPath != "":
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("mcp local mode", "database", cfg.Database.Name)
	default:
		fmt.Fprintf(os.Stderr, "Usage: fitbridge-mcp -url http://host | -config config.yaml\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := mcp.New(ds, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
