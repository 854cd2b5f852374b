package main

// Notes:
// - loadEnvConfig: we test every variable, and that invalid or negative
//   numbers are ignored rather than reported.
// - applyEnvConfig: we test that the environment overrides the config file
//   and that empty variables leave it alone.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-fedicomments/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		vars := map[string]string{
			"FEDICOMMENTS_CONFIG":     "/etc/fedicomments.yaml",
			"FEDICOMMENTS_INSTANCE":   "social.example",
			"FEDICOMMENTS_FLAVOR":     "misskey",
			"FEDICOMMENTS_POST_ID":    "9abc",
			"FEDICOMMENTS_MAPPING":    "toots.json",
			"FEDICOMMENTS_PAGE_URL":   "https://blog.example/post/",
			"FEDICOMMENTS_OUTPUT":     "-",
			"FEDICOMMENTS_ASSET_PATH": "assets",
			"FEDICOMMENTS_USER_AGENT": "blog-bot",
			"FEDICOMMENTS_TIMEOUT":    "45s",
			"FEDICOMMENTS_WORKERS":    "3",
			"FEDICOMMENTS_MAX_DEPTH":  "7",
		}
		for k, v := range vars {
			t.Setenv(k, v)
		}

		got := loadEnvConfig()
		want := &envConfig{
			ConfigPath: "/etc/fedicomments.yaml",
			Instance:   "social.example",
			Flavor:     "misskey",
			PostID:     "9abc",
			Mapping:    "toots.json",
			PageURL:    "https://blog.example/post/",
			Output:     "-",
			AssetPath:  "assets",
			UserAgent:  "blog-bot",
			Timeout:    45 * time.Second,
			Workers:    3,
			MaxDepth:   7,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("loadEnvConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid numbers are ignored", func(t *testing.T) {
		t.Setenv("FEDICOMMENTS_TIMEOUT", "soon")
		t.Setenv("FEDICOMMENTS_WORKERS", "-2")
		t.Setenv("FEDICOMMENTS_MAX_DEPTH", "deep")

		got := loadEnvConfig()
		if got.Timeout != 0 || got.Workers != 0 || got.MaxDepth != 0 {
			t.Errorf("loadEnvConfig() = timeout %v, workers %d, depth %d; want zero values",
				got.Timeout, got.Workers, got.MaxDepth)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("FEDICOMMENTS_INSTANE", "typo.example")
	t.Setenv("FEDICOMMENTS_INSTANCE", "social.example")

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	warnUnknownEnvVars(logger)

	out := buf.String()
	if !strings.Contains(out, "FEDICOMMENTS_INSTANE") {
		t.Errorf("expected warning for FEDICOMMENTS_INSTANE, got %q", out)
	}
	if strings.Contains(out, "variable=FEDICOMMENTS_INSTANCE") {
		t.Errorf("known variable should not warn, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Environment over config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("environment overrides file", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Instance: "file.example", Output: "file.html", Workers: 2}
		applyEnvConfig(&envConfig{Instance: "env.example", Workers: 6, Timeout: time.Minute}, cfg)

		if cfg.Instance != "env.example" {
			t.Errorf("Instance = %q, want env.example", cfg.Instance)
		}
		if cfg.Workers != 6 {
			t.Errorf("Workers = %d, want 6", cfg.Workers)
		}
		if cfg.Network.Timeout != time.Minute {
			t.Errorf("Timeout = %v, want 1m", cfg.Network.Timeout)
		}
		if cfg.Output != "file.html" {
			t.Errorf("Output = %q, want file.html kept", cfg.Output)
		}
	})

	t.Run("empty environment keeps file", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Instance: "file.example", MaxDepth: 3}
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Instance != "file.example" || cfg.MaxDepth != 3 {
			t.Errorf("config changed by empty env: %+v", cfg)
		}
	})
}
