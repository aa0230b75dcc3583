package upload

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient returns a Client with a fast retry backoff.
func newTestClient(url string) *Client {
	c := NewClient(url, "tok")
	c.retryBase = time.Millisecond
	return c
}

// TestSendSessionRetries verifies 5xx responses are retried and the bearer
// token and JSON body are sent.
func TestSendSessionRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/tacf", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "pushup_reps", "want explicit null")
		assert.NotContains(t, body, "Line", "line number leaked into body")

		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	err := newTestClient(ts.URL).SendSession(Session{TestDate: "2024-01-01", Line: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

// TestSendSessionClientErrorNotRetried verifies a 400 fails on the first attempt.
func TestSendSessionClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"user profile is missing birth date or sex"}`))
	}))
	defer ts.Close()

	err := newTestClient(ts.URL).SendSession(Session{TestDate: "2024-01-01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "birth date", "want server message")
	assert.Equal(t, int32(1), calls.Load())
}

// TestSendSessionGivesUp verifies the client stops after three attempts.
func TestSendSessionGivesUp(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	err := newTestClient(ts.URL).SendSession(Session{TestDate: "2024-01-01"})
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

// TestCheckProfile verifies incomplete profiles are refused before uploading.
func TestCheckProfile(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"complete", `{"name":"Silva","birth_date":"1990-04-02T00:00:00Z","sex":"Masculino"}`, false},
		{"no sex", `{"name":"Silva","birth_date":"1990-04-02T00:00:00Z","sex":null}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/users/me", r.URL.Path)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			name, err := newTestClient(ts.URL).CheckProfile()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, "Silva", name)
		})
	}
}

// TestStateDB verifies uploaded sheets are matched on path, size and hash.
func TestStateDB(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	require.NoError(t, err)
	defer state.Close()

	ok, err := state.IsUploaded("a.csv", 10, "h1")
	require.NoError(t, err)
	require.False(t, ok, "IsUploaded before mark")

	require.NoError(t, state.MarkUploaded("a.csv", 10, "h1", 4))
	ok, _ = state.IsUploaded("a.csv", 10, "h1")
	assert.True(t, ok, "IsUploaded after mark")
	ok, _ = state.IsUploaded("a.csv", 10, "h2")
	assert.False(t, ok, "IsUploaded with changed hash")

	// An edited sheet replaces the record.
	require.NoError(t, state.MarkUploaded("a.csv", 12, "h2", 5))
	records, err := state.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 5, records[0].Sessions)
	assert.Equal(t, "h2", records[0].Hash)
}

// TestHashFile verifies the SHA-256 hex digest.
func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.csv")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	got, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", got)
}

func writeSheet(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestUploaderRun verifies a full run and that a second run skips unchanged
// sheets while a sheet with a rejected row is retried.
func TestUploaderRun(t *testing.T) {
	var received atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var s Session
		json.NewDecoder(r.Body).Decode(&s)
		if s.TestDate == "1900-01-01" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	dir := t.TempDir()
	writeSheet(t, dir, "2024/a.csv", "test_date,cooper_distance\n2024-05-10,2400\n2024-11-10,2500\n")
	writeSheet(t, dir, "b.csv", "test_date,pushup_reps\n1900-01-01,10\n2025-05-10,20\n")
	writeSheet(t, dir, "c.csv", "cooper_distance\n2000\n")
	writeSheet(t, dir, "notes.txt", "ignored")

	state, err := OpenStateDB(t.TempDir())
	require.NoError(t, err)
	defer state.Close()

	stats, err := New(newTestClient(ts.URL), state, dir, false, quietLogger()).Run()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.FilesTotal, "files total")
	assert.Equal(t, 1, stats.FilesUploaded, "files uploaded")
	assert.Equal(t, 2, stats.FilesErrored, "files errored")
	assert.Equal(t, 3, stats.SessionsSent, "sessions sent")
	assert.Equal(t, 1, stats.SessionsFailed, "sessions failed")

	stats, err = New(newTestClient(ts.URL), state, dir, false, quietLogger()).Run()
	require.NoError(t, err, "second run")
	assert.Equal(t, 1, stats.FilesSkipped, "second run skipped")
	assert.Equal(t, int32(4), received.Load(), "sessions received by server")
}

// TestUploaderDryRun verifies nothing is sent or recorded in dry-run mode.
func TestUploaderDryRun(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir, "a.csv", "test_date\n2024-05-10\n2024-06-10\n")

	state, err := OpenStateDB(t.TempDir())
	require.NoError(t, err)
	defer state.Close()

	stats, err := New(nil, state, dir, true, quietLogger()).Run()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SessionsSent)

	records, err := state.Records()
	require.NoError(t, err)
	assert.Empty(t, records)
}
