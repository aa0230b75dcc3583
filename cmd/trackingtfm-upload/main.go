package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/trackingtfm/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "TrackingTFM server URL (e.g. https://trackingtfm.tail1234.ts.net)")
	sheetDir := flag.String("path", "", "directory containing TACF sheets (.csv)")
	dryRun := flag.Bool("dry-run", false, "parse sheets but don't send to server")
	status := flag.Bool("status", false, "list uploaded sheets and exit")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("trackingtfm-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	state, err := upload.OpenStateDB(filepath.Join(homeDir, ".trackingtfm-upload"))
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *status {
		printRecords(log, state)
		return
	}

	if *sheetDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: trackingtfm-upload -server <URL> -path <sheet dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	info, err := os.Stat(*sheetDir)
	if err != nil || !info.IsDir() {
		log.Error("sheet directory not found", "path", *sheetDir)
		os.Exit(1)
	}

	var client *upload.Client
	if !*dryRun {
		if *serverURL == "" {
			fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
			os.Exit(1)
		}
		token := os.Getenv("TRACKINGTFM_TOKEN")
		if token == "" {
			fmt.Fprintf(os.Stderr, "Error: TRACKINGTFM_TOKEN must hold your bearer token\n")
			os.Exit(1)
		}
		client = upload.NewClient(strings.TrimRight(*serverURL, "/"), token)

		name, err := client.CheckProfile()
		if err != nil {
			log.Error("profile check failed", "error", err)
			os.Exit(1)
		}
		log.Info("uploading as", "name", name)
	} else {
		log.Info("DRY RUN mode, sheets will be parsed but not sent")
	}

	uploader := upload.New(client, state, *sheetDir, *dryRun, log)
	stats, err := uploader.Run()
	if err != nil {
		log.Error("upload failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	if stats.FilesErrored > 0 {
		os.Exit(2)
	}
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Sheets total:     %d\n", stats.FilesTotal)
	fmt.Printf("  Sheets uploaded:  %d\n", stats.FilesUploaded)
	fmt.Printf("  Sheets skipped:   %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Sheets errored:   %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Sessions sent:    %d\n", stats.SessionsSent)
	fmt.Printf("  Sessions failed:  %d\n", stats.SessionsFailed)
	fmt.Println()
}

func printRecords(log *slog.Logger, state *upload.StateDB) {
	records, err := state.Records()
	if err != nil {
		log.Error("failed to read state database", "error", err)
		os.Exit(1)
	}
	for _, r := range records {
		fmt.Printf("%s  %-40s  %3d sessions  %s\n", r.UploadedAt.Format("2006-01-02 15:04"), r.Path, r.Sessions, r.Hash[:12])
	}
}
