package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-fedicomments/internal/config"
)

// envPrefix marks the variables this program reads.
const envPrefix = "FEDICOMMENTS_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // FEDICOMMENTS_CONFIG: config file name or path
	Instance   string        // FEDICOMMENTS_INSTANCE: origin server domain
	Flavor     string        // FEDICOMMENTS_FLAVOR: mastodon, misskey or software name
	PostID     string        // FEDICOMMENTS_POST_ID: root post id
	Mapping    string        // FEDICOMMENTS_MAPPING: page URL -> post id file
	PageURL    string        // FEDICOMMENTS_PAGE_URL: key into the mapping
	Output     string        // FEDICOMMENTS_OUTPUT: output file, "-" for stdout
	AssetPath  string        // FEDICOMMENTS_ASSET_PATH: asset override directory
	UserAgent  string        // FEDICOMMENTS_USER_AGENT: User-Agent header
	Timeout    time.Duration // FEDICOMMENTS_TIMEOUT: per-request timeout
	Workers    int           // FEDICOMMENTS_WORKERS: concurrent requests
	MaxDepth   int           // FEDICOMMENTS_MAX_DEPTH: Misskey reply levels
}

// knownEnvVars lists valid FEDICOMMENTS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"FEDICOMMENTS_CONFIG":     true,
	"FEDICOMMENTS_INSTANCE":   true,
	"FEDICOMMENTS_FLAVOR":     true,
	"FEDICOMMENTS_POST_ID":    true,
	"FEDICOMMENTS_MAPPING":    true,
	"FEDICOMMENTS_PAGE_URL":   true,
	"FEDICOMMENTS_OUTPUT":     true,
	"FEDICOMMENTS_ASSET_PATH": true,
	"FEDICOMMENTS_USER_AGENT": true,
	"FEDICOMMENTS_TIMEOUT":    true,
	"FEDICOMMENTS_WORKERS":    true,
	"FEDICOMMENTS_MAX_DEPTH":  true,
}

// loadEnvConfig reads configuration from environment variables. Values that
// do not parse are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("FEDICOMMENTS_CONFIG"),
		Instance:   os.Getenv("FEDICOMMENTS_INSTANCE"),
		Flavor:     os.Getenv("FEDICOMMENTS_FLAVOR"),
		PostID:     os.Getenv("FEDICOMMENTS_POST_ID"),
		Mapping:    os.Getenv("FEDICOMMENTS_MAPPING"),
		PageURL:    os.Getenv("FEDICOMMENTS_PAGE_URL"),
		Output:     os.Getenv("FEDICOMMENTS_OUTPUT"),
		AssetPath:  os.Getenv("FEDICOMMENTS_ASSET_PATH"),
		UserAgent:  os.Getenv("FEDICOMMENTS_USER_AGENT"),
	}

	if timeout := os.Getenv("FEDICOMMENTS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	cfg.Workers = positiveInt(os.Getenv("FEDICOMMENTS_WORKERS"))
	cfg.MaxDepth = positiveInt(os.Getenv("FEDICOMMENTS_MAX_DEPTH"))

	return cfg
}

func positiveInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// unknownEnvVars returns the FEDICOMMENTS_* variables that are set but not
// recognized, e.g. FEDICOMMENTS_INSTANE.
func unknownEnvVars() []string {
	var unknown []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// warnUnknownEnvVars logs a warning for each unrecognized variable.
func warnUnknownEnvVars(logger logrus.FieldLogger) {
	for _, name := range unknownEnvVars() {
		logger.WithField("variable", name).Warn("unknown environment variable (typo?)")
	}
}

// applyEnvConfig applies environment values over the config file, so the
// precedence is: CLI flags > env vars > config file > defaults (CLI flags
// are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Instance, env.Instance)
	setString(&cfg.Flavor, env.Flavor)
	setString(&cfg.PostID, env.PostID)
	setString(&cfg.Mapping, env.Mapping)
	setString(&cfg.PageURL, env.PageURL)
	setString(&cfg.Output, env.Output)
	setString(&cfg.Assets.BasePath, env.AssetPath)
	setString(&cfg.Network.UserAgent, env.UserAgent)

	if env.Timeout > 0 {
		cfg.Network.Timeout = env.Timeout
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.MaxDepth > 0 {
		cfg.MaxDepth = env.MaxDepth
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
