package upload

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	SessionsSent   int
	SessionsFailed int
}

// sessionSender is satisfied by *Client.
type sessionSender interface {
	SendSession(Session) error
}

// Uploader walks a directory of TACF sheets and POSTs every session to the
// TrackingTFM server.
type Uploader struct {
	client sessionSender
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	u := &Uploader{
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
	if client != nil {
		u.client = client
	}
	return u
}

// Run uploads every new or changed .csv file under the directory.
func (u *Uploader) Run() (*Stats, error) {
	files, err := findSheets(u.dir)
	if err != nil {
		return &u.stats, fmt.Errorf("listing sheets: %w", err)
	}

	for _, f := range files {
		u.processSheet(f)
	}
	return &u.stats, nil
}

// findSheets returns the .csv files under dir in lexical order so sessions
// go out oldest-sheet-first when files are named by date.
func findSheets(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// processSheet sends one sheet. The sheet is only marked uploaded when every
// session was accepted, so a failed row is retried on the next run.
func (u *Uploader) processSheet(path string) {
	u.stats.FilesTotal++

	relPath, _ := filepath.Rel(u.dir, path)
	info, err := os.Stat(path)
	if err != nil {
		u.log.Warn("stat failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}

	hash, err := HashFile(path)
	if err != nil {
		u.log.Warn("hash failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}

	uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
	if err != nil {
		u.log.Warn("state check failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}
	if uploaded {
		u.stats.FilesSkipped++
		return
	}

	f, err := os.Open(path)
	if err != nil {
		u.log.Warn("open failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}
	sessions, err := ParseSheet(f)
	f.Close()
	if err != nil {
		u.log.Warn("parse failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}

	if u.dryRun {
		u.log.Info("dry-run: would send", "file", relPath, "sessions", len(sessions))
		u.stats.SessionsSent += len(sessions)
		return
	}

	failed := 0
	for _, s := range sessions {
		if err := u.client.SendSession(s); err != nil {
			u.log.Warn("session rejected", "file", relPath, "line", s.Line, "test_date", s.TestDate, "error", err)
			failed++
			continue
		}
		u.stats.SessionsSent++
	}
	u.stats.SessionsFailed += failed

	if failed > 0 {
		u.stats.FilesErrored++
		return
	}

	if err := u.state.MarkUploaded(relPath, info.Size(), hash, len(sessions)); err != nil {
		u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
	}
	u.stats.FilesUploaded++
	u.log.Info("uploaded sheet", "file", relPath, "sessions", len(sessions))
}
