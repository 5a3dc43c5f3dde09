package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"furnish/internal/client"
	"furnish/internal/config"
	"furnish/internal/fixture"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// setupCLI points the global flags at a test backend and restores them
// afterwards.
func setupCLI(t *testing.T, handler http.Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger = zap.NewNop()

	for _, key := range []string{"FURNISH_BASE_URL", "FURNISH_TOP_N", "FURNISH_TIMEOUT", "FURNISH_DARK_MODE", "FURNISH_DEBUG"} {
		t.Setenv(key, "")
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	baseURL = srv.URL
	topN = 2
	timeout = 5 * time.Second
	plainOutput = true
	verbose = false
	t.Cleanup(func() {
		configPath = ""
		baseURL = ""
		topN = 0
		timeout = 0
		plainOutput = false
		initForce = false
	})
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestRecommendCmd(t *testing.T) {
	setupCLI(t, fixture.NewServer(fixture.Default()).Handler())
	cmd, out := testCommand()

	if err := runRecommend(cmd, []string{"modern", "wooden", "chair"}); err != nil {
		t.Fatalf("runRecommend failed: %v", err)
	}

	text := out.String()
	first := strings.Index(text, "Modern Wooden Dining Chair")
	second := strings.Index(text, "Mid-Century Accent Chair")
	if first == -1 || second == -1 {
		t.Fatalf("expected both recommendations in output:\n%s", text)
	}
	if first > second {
		t.Errorf("expected recommendations in response order")
	}
	if strings.Contains(text, "Wooden Nightstand") {
		t.Errorf("expected --top-n to limit results")
	}
}

func TestRecommendCmdEmptyQuery(t *testing.T) {
	setupCLI(t, http.NotFoundHandler())
	cmd, _ := testCommand()

	err := runRecommend(cmd, []string{"  ", "\t"})
	if !errors.Is(err, client.ErrEmptyQuery) {
		t.Fatalf("expected empty query error, got %v", err)
	}
}

func TestAnalyticsCmd(t *testing.T) {
	setupCLI(t, fixture.NewServer(fixture.Default()).Handler())
	cmd, out := testCommand()

	if err := runAnalytics(cmd, nil); err != nil {
		t.Fatalf("runAnalytics failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Total Products: 6", "Top Brands", "Top Categories", "Living Room Furniture And Deco..."} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output:\n%s", want, text)
		}
	}
	if strings.Index(text, "Acme") > strings.Index(text, "Zen") {
		t.Errorf("expected brands in snapshot order")
	}
}

func TestAnalyticsCmdBackendError(t *testing.T) {
	setupCLI(t, fixture.NewServer(&fixture.Data{}).Handler())
	cmd, _ := testCommand()

	err := runAnalytics(cmd, nil)
	if err == nil {
		t.Fatal("expected error for an empty catalog")
	}
	var se *client.StatusError
	if !errors.As(err, &se) || se.Status != http.StatusNotFound {
		t.Errorf("expected 404 status error, got %v", err)
	}
}

func TestReportCmd(t *testing.T) {
	setupCLI(t, fixture.NewServer(fixture.Default()).Handler())
	cmd, out := testCommand()

	if err := runReport(cmd, []string{"sofa"}); err != nil {
		t.Fatalf("runReport failed: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Velvet Three Seat Sofa") {
		t.Errorf("expected recommendation in report")
	}
	if !strings.Contains(text, "Total Products: 6") {
		t.Errorf("expected analytics in report")
	}
}

func TestReportCmdFailsWhenEitherRequestFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/recommend", fixture.NewServer(fixture.Default()).Handler())
	mux.HandleFunc("/analytics", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	setupCLI(t, mux)
	cmd, out := testCommand()

	err := runReport(cmd, []string{"sofa"})
	if err == nil || !strings.Contains(err.Error(), "analytics failed") {
		t.Fatalf("expected analytics failure, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no partial output")
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	setupCLI(t, http.NotFoundHandler())
	baseURL = "https://api.example.com"
	topN = 7
	timeout = 3 * time.Second

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Backend.BaseURL != "https://api.example.com" {
		t.Errorf("expected base URL override, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Recommend.TopN != 7 {
		t.Errorf("expected top-n override, got %d", cfg.Recommend.TopN)
	}
	if cfg.GetRequestTimeout() != 3*time.Second {
		t.Errorf("expected timeout override, got %s", cfg.GetRequestTimeout())
	}

	topN = -1
	if _, err := loadConfig(); err == nil {
		t.Error("expected invalid top-n to be rejected")
	}
}

func TestInitConfigCmd(t *testing.T) {
	setupCLI(t, http.NotFoundHandler())
	baseURL = "https://recommender.example.com"
	topN = 4
	cmd, out := testCommand()

	if err := runInitConfig(cmd, nil); err != nil {
		t.Fatalf("runInitConfig failed: %v", err)
	}
	if !strings.Contains(out.String(), configPath) {
		t.Errorf("expected written path in output, got %q", out.String())
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if cfg.Backend.BaseURL != "https://recommender.example.com" || cfg.Recommend.TopN != 4 {
		t.Errorf("expected flags persisted, got %s / %d", cfg.Backend.BaseURL, cfg.Recommend.TopN)
	}

	if err := runInitConfig(cmd, nil); err == nil {
		t.Error("expected existing file to be kept without --force")
	}
	initForce = true
	if err := runInitConfig(cmd, nil); err != nil {
		t.Errorf("expected --force to overwrite, got %v", err)
	}
}

func TestServeUntilDone(t *testing.T) {
	logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	srv := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           fixture.NewServer(fixture.Default()).Handler(),
		ReadHeaderTimeout: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveUntilDone(ctx, srv, 6) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestJoinArgs(t *testing.T) {
	if got := joinArgs([]string{" modern", "wooden ", "chair"}); got != "modern wooden  chair" {
		t.Errorf("unexpected join: %q", got)
	}
	if got := joinArgs([]string{" ", ""}); got != "" {
		t.Errorf("expected blank join, got %q", got)
	}
}
