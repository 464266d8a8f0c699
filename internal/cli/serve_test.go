package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/digtower/pkg/observability"
)

type requestRecorder struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses map[string]int
}

func (r *requestRecorder) OnRequest(_ context.Context, _, path string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[path] = status
}

func TestSiteRouter(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"index.html":            "<html>index</html>",
		"graphs/proj/main.html": "<html>main</html>",
	})

	rec := &requestRecorder{statuses: map[string]int{}}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)

	srv := httptest.NewServer(newSiteRouter(dir))
	defer srv.Close()

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/healthz", http.StatusOK, "ok\n"},
		{"/graphs/proj/main.html", http.StatusOK, "<html>main</html>"},
		{"/missing.html", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.body != "" && string(body) != tt.body {
				t.Errorf("body = %q, want %q", body, tt.body)
			}

			rec.mu.Lock()
			got := rec.statuses[tt.path]
			rec.mu.Unlock()
			if got != tt.status {
				t.Errorf("reported status = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestRunServeMissingDir(t *testing.T) {
	c := New(io.Discard, LogInfo)
	if err := c.runServe(context.Background(), "/nonexistent/site", ":0"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8080"); got != "localhost:8080" {
		t.Errorf("displayAddr(:8080) = %q", got)
	}
	if got := displayAddr("127.0.0.1:9000"); got != "127.0.0.1:9000" {
		t.Errorf("displayAddr(127.0.0.1:9000) = %q", got)
	}
}
