package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/trackingtfm/internal/config"
	"github.com/claude/trackingtfm/internal/mcp"
	"github.com/claude/trackingtfm/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "TrackingTFM server URL for remote mode")
	configPath := flag.String("config", "", "path to config file for local mode (direct database access)")
	userID := flag.Int("user", 1, "user ID to scope queries to in local mode")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("trackingtfm-mcp", Version)
		return
	}

	// stdout carries the MCP protocol, so logs go to stderr
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var (
		ds    mcp.DataSource
		group string
	)
	switch {
	case *serverURL != "":
		token := os.Getenv("TRACKINGTFM_TOKEN")
		if token == "" {
			fmt.Fprintf(os.Stderr, "Error: TRACKINGTFM_TOKEN must hold a bearer token in remote mode\n")
			os.Exit(1)
		}
		ds = mcp.NewHTTPClient(*serverURL, token)
		log.Info("remote mode", "server", *serverURL)

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
		group = cfg.Organizations.Group
		log.Info("local mode", "user_id", *userID)

	default:
		fmt.Fprintf(os.Stderr, "Usage: trackingtfm-mcp -server <URL> | -config <config.yaml> [-user N]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := mcp.New(ds, group, Version, log)

	// Remote mode is scoped by the token and the server checks the access
	// level itself. Local mode runs with database credentials.
	uid := *userID
	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithManager(mcp.WithUserID(ctx, uid))
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
