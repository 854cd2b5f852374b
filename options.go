package fedicomments

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Default values for service configuration.
const (
	DefaultMaxDepth   = 5
	DefaultRetryDelay = 100 * time.Millisecond
	DefaultTimeout    = 2 * time.Minute
	DefaultUserAgent  = "go-fedicomments"
)

type serviceConfig struct {
	httpClient      *http.Client
	timeout         time.Duration
	retryDelay      time.Duration
	userAgent       string
	workers         int
	maxDepth        int
	cache           EmojiCache
	customEmoji     bool
	sensitiveEmoji  bool
	defaultReaction string
	logger          logrus.FieldLogger
}

// Option configures a Service.
type Option func(*serviceConfig)

// WithHTTPClient replaces the HTTP client. Its Timeout wins over WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *serviceConfig) {
		if c != nil {
			cfg.httpClient = c
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *serviceConfig) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithRetryDelay sets the pause before retrying a rate-limited request.
// Retries are unbounded; cancel the context to give up.
func WithRetryDelay(d time.Duration) Option {
	return func(cfg *serviceConfig) {
		if d >= 0 {
			cfg.retryDelay = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent to instances.
func WithUserAgent(ua string) Option {
	return func(cfg *serviceConfig) {
		if ua != "" {
			cfg.userAgent = ua
		}
	}
}

// WithWorkers bounds concurrent requests. 0 resolves automatically, see
// ResolveWorkers.
func WithWorkers(n int) Option {
	return func(cfg *serviceConfig) {
		if n >= 0 {
			cfg.workers = n
		}
	}
}

// WithMaxDepth limits how many reply levels are followed on Misskey, where
// each level is one request per note.
func WithMaxDepth(n int) Option {
	return func(cfg *serviceConfig) {
		if n > 0 {
			cfg.maxDepth = n
		}
	}
}

// WithEmojiCache shares an emoji cache between services.
func WithEmojiCache(c EmojiCache) Option {
	return func(cfg *serviceConfig) {
		if c != nil {
			cfg.cache = c
		}
	}
}

// WithCustomEmoji toggles :shortcode: image substitution. Enabled by default.
func WithCustomEmoji(enabled bool) Option {
	return func(cfg *serviceConfig) { cfg.customEmoji = enabled }
}

// WithSensitiveEmoji allows emoji the origin marks sensitive. Disabled by
// default.
func WithSensitiveEmoji(allowed bool) Option {
	return func(cfg *serviceConfig) { cfg.sensitiveEmoji = allowed }
}

// WithDefaultReaction sets the symbol likes are counted under.
func WithDefaultReaction(symbol string) Option {
	return func(cfg *serviceConfig) {
		if symbol != "" {
			cfg.defaultReaction = symbol
		}
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *serviceConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}
