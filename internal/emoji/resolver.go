// Package emoji resolves Misskey custom emoji shortcodes to image URLs.
//
// Lookups go to the origin instance's /api/emoji endpoint and are memoized
// in a Cache keyed by shortcode alone, so the same shortcode on two instances
// shares one entry. Failed and sensitive lookups are not cached.
package emoji

import (
	"context"
	"io"
	"regexp"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-fedicomments/internal/fediapi"
)

// DefaultWorkers bounds concurrent lookups when no limit is configured.
const DefaultWorkers = 8

// shortcodePattern finds :name: tokens in note text and display names.
var shortcodePattern = regexp.MustCompile(`:([\w\p{L}][\w\p{L}\p{N}]+):`)

// Lookup fetches emoji details from an instance.
type Lookup interface {
	Emoji(ctx context.Context, instance, name string) (*fediapi.EmojiDetail, error)
}

// Resolver maps shortcodes to URLs through a Cache and a Lookup.
type Resolver struct {
	lookup         Lookup
	cache          Cache
	allowSensitive bool
	workers        int
	logger         logrus.FieldLogger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache replaces the default MemoryCache.
func WithCache(c Cache) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithAllowSensitive makes sensitive emoji resolvable.
func WithAllowSensitive(allow bool) Option {
	return func(r *Resolver) { r.allowSensitive = allow }
}

// WithWorkers bounds concurrent lookups in ResolveAll.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger used for failed lookups.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver returns a Resolver backed by lookup.
func NewResolver(lookup Lookup, opts ...Option) *Resolver {
	r := &Resolver{
		lookup:  lookup,
		cache:   NewMemoryCache(),
		workers: DefaultWorkers,
		logger:  discardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the URL for shortcode on instance. ok is false when the
// lookup failed or the emoji is sensitive and sensitive emoji are not
// allowed; neither outcome is cached.
func (r *Resolver) Resolve(ctx context.Context, instance, shortcode string) (string, bool) {
	if url, ok := r.cache.Get(shortcode); ok {
		return url, true
	}

	detail, err := r.lookup.Emoji(ctx, instance, shortcode)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"instance":  instance,
			"shortcode": shortcode,
		}).Warn("could not fetch emoji")
		return "", false
	}
	if detail.URL == "" {
		return "", false
	}
	if detail.IsSensitive && !r.allowSensitive {
		r.logger.WithField("shortcode", shortcode).Debug("skipping sensitive emoji")
		return "", false
	}

	r.cache.Set(shortcode, detail.URL)
	return detail.URL, true
}

// ResolveAll resolves names concurrently and returns the ones found.
// Duplicates are looked up once.
func (r *Resolver) ResolveAll(ctx context.Context, instance string, names []string) map[string]string {
	found := make(map[string]string)
	if len(names) == 0 {
		return found
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, name := range unique(names) {
		g.Go(func() error {
			if url, ok := r.Resolve(gctx, instance, name); ok {
				mu.Lock()
				found[name] = url
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return found
}

// Shortcodes returns the distinct :name: tokens in text, in order of first
// appearance.
func Shortcodes(text string) []string {
	var names []string
	for _, m := range shortcodePattern.FindAllStringSubmatch(text, -1) {
		names = append(names, m[1])
	}
	return unique(names)
}

func unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return slices.Clip(out)
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
