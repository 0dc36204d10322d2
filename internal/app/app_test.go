package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tablehop/menu-courier/internal/codec"
	"github.com/tablehop/menu-courier/internal/config"
	"github.com/tablehop/menu-courier/internal/sample"
	"github.com/tablehop/menu-courier/pkg/requestclient"
)

type hookRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (h *hookRecorder) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	h.mu.Lock()
	h.bodies = append(h.bodies, string(body))
	h.mu.Unlock()
	_, _ = w.Write([]byte("ok"))
}

func (h *hookRecorder) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.bodies)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newTestConfig(t *testing.T, feedURL, hookURL, storageType string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	sourcesFile := writeFile(t, dir, "sources.yaml", `
sources:
  - id: diner
    type: json
    url: `+feedURL+`
`)
	sinksFile := writeFile(t, dir, "sinks.yaml", `
sinks:
  - id: hook
    type: http
    http:
      url: `+hookURL+`
`)
	return &config.Config{
		AppName:                "menu-courier",
		SourcesFile:            sourcesFile,
		SinksFile:              sinksFile,
		SyncInterval:           time.Hour,
		HTTPTimeout:            5 * time.Second,
		UserAgent:              "menu-courier-test",
		StorageType:            storageType,
		BBoltPath:              filepath.Join(dir, "courier.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}
}

func TestCourierRunOnceDeliversFeedToSink(t *testing.T) {
	doc, err := codec.Encode(sample.Restaurant())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var gotUA string
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}))
	defer feed.Close()

	hook := &hookRecorder{}
	hookSrv := httptest.NewServer(http.HandlerFunc(hook.handler))
	defer hookSrv.Close()

	c, err := NewCourier(context.Background(), newTestConfig(t, feed.URL, hookSrv.URL, "none"), nil)
	if err != nil {
		t.Fatalf("NewCourier: %v", err)
	}
	if err := c.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if hook.count() != 1 || hook.bodies[0] != doc {
		t.Fatalf("unexpected sink deliveries %#v", hook.bodies)
	}
	if gotUA != "menu-courier-test" {
		t.Fatalf("user agent = %q", gotUA)
	}
}

func TestCourierSkipsUnchangedAcrossRuns(t *testing.T) {
	doc, _ := codec.Encode(sample.Restaurant())
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(doc))
	}))
	defer feed.Close()

	hook := &hookRecorder{}
	hookSrv := httptest.NewServer(http.HandlerFunc(hook.handler))
	defer hookSrv.Close()

	cfg := newTestConfig(t, feed.URL, hookSrv.URL, "bbolt")
	for i := 0; i < 2; i++ {
		c, err := NewCourier(context.Background(), cfg, nil)
		if err != nil {
			t.Fatalf("NewCourier run %d: %v", i, err)
		}
		if err := c.RunOnce(context.Background()); err != nil {
			t.Fatalf("RunOnce run %d: %v", i, err)
		}
	}

	if hook.count() != 1 {
		t.Fatalf("expected a single delivery across runs, got %d", hook.count())
	}
}

func TestCourierRunOnceSurfacesFeedFailure(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer feed.Close()

	hook := &hookRecorder{}
	hookSrv := httptest.NewServer(http.HandlerFunc(hook.handler))
	defer hookSrv.Close()

	c, err := NewCourier(context.Background(), newTestConfig(t, feed.URL, hookSrv.URL, "none"), nil)
	if err != nil {
		t.Fatalf("NewCourier: %v", err)
	}
	err = c.RunOnce(context.Background())
	if !requestclient.IsStatus(err, http.StatusGone) {
		t.Fatalf("expected 410 request failure, got %v", err)
	}
	if hook.count() != 0 {
		t.Fatalf("nothing should be delivered")
	}
}

func TestCourierRunStopsOnCancel(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer feed.Close()
	hookSrv := httptest.NewServer(http.HandlerFunc((&hookRecorder{}).handler))
	defer hookSrv.Close()

	c, err := NewCourier(context.Background(), newTestConfig(t, feed.URL, hookSrv.URL, "none"), nil)
	if err != nil {
		t.Fatalf("NewCourier: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func TestNewCourierRequiresSinks(t *testing.T) {
	cfg := newTestConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1", "none")
	cfg.SinksFile = writeFile(t, t.TempDir(), "sinks.yaml", `
sinks:
  - id: hook
    type: http
    enabled: false
    http:
      url: http://127.0.0.1:1
`)

	if _, err := NewCourier(context.Background(), cfg, nil); err == nil || !strings.Contains(err.Error(), "no sinks") {
		t.Fatalf("expected no sinks error, got %v", err)
	}
}

func TestSerializePrintsAndEchoes(t *testing.T) {
	var received string
	echo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = string(body)
		_, _ = w.Write(body)
	}))
	defer echo.Close()

	var out bytes.Buffer
	restaurant := sample.Restaurant()
	resp, err := Serialize(context.Background(), &out, restaurant, requestclient.New(), echo.URL, nil)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	doc, _ := codec.Encode(restaurant)
	if out.String() != "Restaurant JSON: "+doc+"\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if received != doc || resp != doc {
		t.Fatalf("echo mismatch: received=%q resp=%q", received, resp)
	}
}

func TestSerializeWithoutEchoURL(t *testing.T) {
	var out bytes.Buffer
	resp, err := Serialize(context.Background(), &out, sample.Restaurant(), requestclient.New(), "  ", nil)
	if err != nil || resp != "" {
		t.Fatalf("expected no post, got resp=%q err=%v", resp, err)
	}
	if !strings.HasPrefix(out.String(), "Restaurant JSON: {") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestSerializeReportsEchoFailure(t *testing.T) {
	echo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer echo.Close()

	var out bytes.Buffer
	_, err := Serialize(context.Background(), &out, sample.Restaurant(), requestclient.New(), echo.URL, nil)
	if err == nil || !strings.Contains(err.Error(), "post restaurant") {
		t.Fatalf("expected post failure, got %v", err)
	}
}

func TestStartupSummaryNamesRegistryFiles(t *testing.T) {
	cfg := &config.Config{
		Env:          "test",
		SourcesFile:  "./configs/sources.yaml",
		SinksFile:    "./configs/sinks.yaml",
		SyncInterval: 15 * time.Minute,
		StorageType:  "bbolt",
		EchoURL:      "http://localhost:9000/echo",
	}

	got := StartupSummary(cfg)
	if got["sources_file"] != "./configs/sources.yaml" || got["sinks_file"] != "./configs/sinks.yaml" {
		t.Fatalf("registry files missing from summary: %#v", got)
	}
	if got["sync_interval"] != "15m0s" || got["echo_enabled"] != true {
		t.Fatalf("unexpected summary %#v", got)
	}
	if _, ok := got["echo_url"]; ok {
		t.Fatalf("summary should not carry the echo url itself")
	}
	if len(StartupSummary(nil)) != 0 {
		t.Fatalf("nil config should yield an empty summary")
	}
}
