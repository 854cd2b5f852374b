// Package config loads and validates the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-fedicomments/internal/comment"
	"github.com/alnah/go-fedicomments/internal/dateutil"
	"github.com/alnah/go-fedicomments/internal/fileutil"
	"github.com/alnah/go-fedicomments/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName is the directory name used under the user config directory.
const AppName = "go-fedicomments"

// Field length limits.
const (
	MaxHostLength      = 253  // DNS name
	MaxPostIDLength    = 100  // Snowflake or aid ids are far shorter
	MaxURLLength       = 2048 // Browser limit
	MaxPathLength      = 4096 // PATH_MAX
	MaxUserAgentLength = 200
	MaxReactionLength  = 32 // One grapheme, possibly a long ZWJ sequence
	MaxTitleLength     = 200
)

// Range limits.
const (
	MaxDepthLimit   = 50
	MaxWorkersLimit = 64
)

// Defaults applied by ApplyDefaults.
const (
	DefaultMaxDepth   = 5
	DefaultRetryDelay = 100 * time.Millisecond
	DefaultTimeout    = 2 * time.Minute
	DefaultUserAgent  = AppName
	DefaultBoostLink  = "_static/boost.svg"
	DefaultOutput     = "comments.html"
)

// Config holds everything needed to fetch and publish one thread.
type Config struct {
	Instance string        `yaml:"instance"` // Domain of the origin server, no scheme
	Flavor   string        `yaml:"flavor"`   // "mastodon", "misskey" or a software name; empty = discover
	PostID   string        `yaml:"postId"`   // Root post id; empty = look up PageURL in Mapping
	MaxDepth int           `yaml:"maxDepth"` // Reply levels to follow (Misskey); 0 = default
	Workers  int           `yaml:"workers"`  // Concurrent requests; 0 = auto
	Output   string        `yaml:"output"`   // Output file; "-" = stdout
	Page     bool          `yaml:"page"`     // Full HTML document instead of a fragment
	Title    string        `yaml:"title"`    // Page title when Page is set
	Mapping  string        `yaml:"mapping"`  // JSON file mapping page URLs to post ids
	PageURL  string        `yaml:"pageUrl"`  // Key into Mapping
	Assets   AssetsConfig  `yaml:"assets"`
	Render   RenderConfig  `yaml:"render"`
	Network  NetworkConfig `yaml:"network"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// RenderConfig controls the rendered markup. Unset switches keep their
// defaults; use the accessor methods to read them.
type RenderConfig struct {
	BoostLink             string `yaml:"boostLink"`
	AllowAvatars          *bool  `yaml:"allowAvatars"`          // default true
	AllowMediaAttachments *bool  `yaml:"allowMediaAttachments"` // default true
	AllowCustomEmoji      *bool  `yaml:"allowCustomEmoji"`      // default true
	AllowSensitiveEmoji   *bool  `yaml:"allowSensitiveEmoji"`   // default false
	DelayCommentLoad      *bool  `yaml:"delayCommentLoad"`      // default true
	DefaultReactionEmoji  string `yaml:"defaultReactionEmoji"`
	DateFormat            string `yaml:"dateFormat"`      // Tokens or preset, see dateutil
	InlineBoostIcon       bool   `yaml:"inlineBoostIcon"` // Embed the icon as a data URI
}

// NetworkConfig defines HTTP client options.
type NetworkConfig struct {
	RetryDelay time.Duration `yaml:"retryDelay"` // Wait between 429 retries
	Timeout    time.Duration `yaml:"timeout"`    // Per-request timeout
	UserAgent  string        `yaml:"userAgent"`
}

// Avatars reports whether avatars are rendered.
func (r RenderConfig) Avatars() bool { return boolOr(r.AllowAvatars, true) }

// Media reports whether image attachments are rendered.
func (r RenderConfig) Media() bool { return boolOr(r.AllowMediaAttachments, true) }

// CustomEmoji reports whether :shortcode: images are substituted.
func (r RenderConfig) CustomEmoji() bool { return boolOr(r.AllowCustomEmoji, true) }

// SensitiveEmoji reports whether emoji flagged sensitive are shown.
func (r RenderConfig) SensitiveEmoji() bool { return boolOr(r.AllowSensitiveEmoji, false) }

// Defer reports whether the section is marked for deferred loading.
func (r RenderConfig) Defer() bool { return boolOr(r.DelayCommentLoad, true) }

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Bool returns a pointer to b, for building RenderConfig values.
func Bool(b bool) *bool { return &b }

// Validate checks field lengths and values. Called by LoadConfig, and
// available to callers that build a Config by hand.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"instance", c.Instance, MaxHostLength},
		{"postId", c.PostID, MaxPostIDLength},
		{"output", c.Output, MaxPathLength},
		{"title", c.Title, MaxTitleLength},
		{"mapping", c.Mapping, MaxPathLength},
		{"pageUrl", c.PageURL, MaxURLLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"render.boostLink", c.Render.BoostLink, MaxURLLength},
		{"render.defaultReactionEmoji", c.Render.DefaultReactionEmoji, MaxReactionLength},
		{"render.dateFormat", c.Render.DateFormat, dateutil.MaxDateFormatLength},
		{"network.userAgent", c.Network.UserAgent, MaxUserAgentLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if strings.Contains(c.Instance, "/") || strings.ContainsAny(c.Instance, " \t") {
		return fmt.Errorf("%w: instance: %q must be a bare domain such as example.social", ErrInvalidValue, c.Instance)
	}
	if c.Flavor != "" {
		if _, err := comment.ParseFlavor(c.Flavor); err != nil {
			return fmt.Errorf("%w: flavor: %v", ErrInvalidValue, err)
		}
	}
	if c.MaxDepth < 0 || c.MaxDepth > MaxDepthLimit {
		return fmt.Errorf("%w: maxDepth: must be between 0 and %d, got %d", ErrInvalidValue, MaxDepthLimit, c.MaxDepth)
	}
	if c.Workers < 0 || c.Workers > MaxWorkersLimit {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkersLimit, c.Workers)
	}
	if c.Render.DateFormat != "" {
		if _, err := dateutil.Layout(c.Render.DateFormat); err != nil {
			return fmt.Errorf("%w: render.dateFormat: %v", ErrInvalidValue, err)
		}
	}
	if c.Network.RetryDelay < 0 {
		return fmt.Errorf("%w: network.retryDelay: must not be negative, got %s", ErrInvalidValue, c.Network.RetryDelay)
	}
	if c.Network.Timeout < 0 {
		return fmt.Errorf("%w: network.timeout: must not be negative, got %s", ErrInvalidValue, c.Network.Timeout)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with every default filled in and
// no thread selected.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Switches in
// RenderConfig stay nil and resolve through their accessors.
func (c *Config) ApplyDefaults() {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Render.BoostLink == "" {
		c.Render.BoostLink = DefaultBoostLink
	}
	if c.Render.DefaultReactionEmoji == "" {
		c.Render.DefaultReactionEmoji = comment.DefaultReaction
	}
	if c.Render.DateFormat == "" {
		c.Render.DateFormat = dateutil.DefaultDateFormat
	}
	if c.Network.RetryDelay == 0 {
		c.Network.RetryDelay = DefaultRetryDelay
	}
	if c.Network.Timeout == 0 {
		c.Network.Timeout = DefaultTimeout
	}
	if c.Network.UserAgent == "" {
		c.Network.UserAgent = DefaultUserAgent
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback). The result
// is validated but defaults are not applied.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order:
// the current directory, then the user config directory
// ($XDG_CONFIG_HOME/go-fedicomments on Linux).
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
