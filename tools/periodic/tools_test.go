package periodic

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/Jin-Doh/mcp-obsidian/obsidian"
	tooltypes "github.com/Jin-Doh/mcp-obsidian/tools/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*obsidian.Client, *atomic.Int64, func()) {
	t.Helper()

	var calls atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))

	parsed, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parse test server URL: %v", err)
	}
	host, portStr, err := net.SplitHostPort(parsed.Host)
	if err != nil {
		t.Fatalf("split test server host: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse test server port: %v", err)
	}

	client := obsidian.NewClient(obsidian.Options{
		APIKey:   "test-key",
		Protocol: parsed.Scheme,
		Host:     host,
		Port:     port,
	})
	return client, &calls, ts.Close
}

func TestPeriodicNoteToolReturnsRawContent(t *testing.T) {
	client, _, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/periodic/daily/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte("# Today\n\n- task"))
	})
	defer done()

	tool := &PeriodicNoteTool{client: client}
	result, err := tool.Execute(context.Background(), map[string]any{"period": "daily"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result[0].Text != "# Today\n\n- task" {
		t.Errorf("unexpected content %q", result[0].Text)
	}
}

func TestPeriodicNoteToolRejectsUnknownPeriod(t *testing.T) {
	client, calls, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	defer done()

	tool := &PeriodicNoteTool{client: client}
	_, err := tool.Execute(context.Background(), map[string]any{"period": "century"})
	if err == nil {
		t.Fatal("expected error for unknown period")
	}
	argErr, ok := tooltypes.AsArgumentError(err)
	if !ok {
		t.Fatalf("expected ArgumentError, got %T", err)
	}
	if argErr.Message != "Invalid period: century. Must be one of: daily, weekly, monthly, quarterly, yearly" {
		t.Errorf("unexpected message %q", argErr.Message)
	}
	if calls.Load() != 0 {
		t.Errorf("expected zero remote calls, got %d", calls.Load())
	}
}

func TestRecentPeriodicNotesToolDefaults(t *testing.T) {
	client, _, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/periodic/weekly/recent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("expected default limit 5, got %q", got)
		}
		if got := r.URL.Query().Get("includeContent"); got != "false" {
			t.Errorf("expected includeContent false, got %q", got)
		}
		w.Write([]byte(`[{"path":"weekly/2026-W35.md"}]`))
	})
	defer done()

	tool := &RecentPeriodicNotesTool{client: client}
	if _, err := tool.Execute(context.Background(), map[string]any{"period": "weekly"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
}

func TestRecentPeriodicNotesToolRejectsStringBoolean(t *testing.T) {
	client, calls, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	defer done()

	tool := &RecentPeriodicNotesTool{client: client}
	_, err := tool.Execute(context.Background(), map[string]any{
		"period":          "daily",
		"include_content": "true",
	})
	if err == nil {
		t.Fatal("expected error for string include_content")
	}
	if _, ok := tooltypes.AsArgumentError(err); !ok {
		t.Errorf("expected ArgumentError, got %T", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected zero remote calls, got %d", calls.Load())
	}
}

func TestRecentPeriodicNotesToolRejectsBadLimit(t *testing.T) {
	client, calls, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	defer done()

	tool := &RecentPeriodicNotesTool{client: client}
	for _, limit := range []any{0.0, -1.0, 2.5, "3"} {
		if _, err := tool.Execute(context.Background(), map[string]any{"period": "daily", "limit": limit}); err == nil {
			t.Errorf("expected error for limit %v", limit)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("expected zero remote calls, got %d", calls.Load())
	}
}
