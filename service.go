package fedicomments

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-fedicomments/internal/comment"
	"github.com/alnah/go-fedicomments/internal/emoji"
	"github.com/alnah/go-fedicomments/internal/fediapi"
	"github.com/alnah/go-fedicomments/internal/normalize"
	"github.com/alnah/go-fedicomments/internal/pipeline"
)

// Service fetches and normalizes comment threads. It is safe for concurrent
// use; the emoji cache is shared across calls.
type Service struct {
	cfg        serviceConfig
	workers    int
	client     *fediapi.Client
	normalizer *normalize.Normalizer
	logger     logrus.FieldLogger
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout).
func New(opts ...Option) *Service {
	cfg := serviceConfig{
		timeout:         DefaultTimeout,
		retryDelay:      DefaultRetryDelay,
		userAgent:       DefaultUserAgent,
		maxDepth:        DefaultMaxDepth,
		customEmoji:     true,
		defaultReaction: DefaultReaction,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}
	if cfg.cache == nil {
		cfg.cache = emoji.NewMemoryCache()
	}
	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	workers := ResolveWorkers(cfg.workers)
	client := fediapi.NewClient(
		fediapi.WithHTTPClient(hc),
		fediapi.WithRetryDelay(cfg.retryDelay),
		fediapi.WithUserAgent(cfg.userAgent),
		fediapi.WithLogger(cfg.logger),
	)

	// Without custom emoji there is nothing to resolve, so no lookups go out.
	var resolver normalize.Resolver
	if cfg.customEmoji {
		resolver = emoji.NewResolver(client,
			emoji.WithCache(cfg.cache),
			emoji.WithAllowSensitive(cfg.sensitiveEmoji),
			emoji.WithWorkers(workers),
			emoji.WithLogger(cfg.logger),
		)
	}

	return &Service{
		cfg:     cfg,
		workers: workers,
		client:  client,
		normalizer: normalize.New(
			pipeline.New(pipeline.WithCustomEmoji(cfg.customEmoji)),
			resolver,
			normalize.WithDefaultReaction(cfg.defaultReaction),
			normalize.WithLogger(cfg.logger),
		),
		logger: cfg.logger,
	}
}

// DiscoverFlavor reads the nodeinfo document of instance and maps its
// software name to an API family.
func (s *Service) DiscoverFlavor(ctx context.Context, instance string) (Flavor, error) {
	if instance == "" {
		return "", ErrEmptyInstance
	}
	ni, err := s.client.NodeInfo(ctx, instance)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDiscovery, err)
	}
	f, err := comment.ParseFlavor(ni.Software.Name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDiscovery, err)
	}
	s.logger.WithFields(logrus.Fields{"instance": instance, "software": ni.Software.Name, "flavor": f}).
		Debug("discovered flavor")
	return f, nil
}

// QueryUser looks up handle ("@name@host") through instance and reports the
// profile URL and the software of the server hosting the profile. An empty
// flavor is discovered first.
func (s *Service) QueryUser(ctx context.Context, instance string, flavor Flavor, handle string) (*UserInfo, error) {
	flavor, err := s.resolveFlavor(ctx, instance, flavor)
	if err != nil {
		return nil, err
	}

	var info *fediapi.UserInfo
	switch flavor {
	case Mastodon:
		info, err = s.client.QueryUserMastodon(ctx, instance, handle)
	default:
		info, err = s.client.QueryUserMisskey(ctx, instance, handle)
	}
	if err != nil {
		return nil, err
	}

	out := &UserInfo{URL: info.URL, Software: info.Software}
	if f, err := comment.ParseFlavor(info.Software); err == nil {
		out.Flavor = f
	}
	return out, nil
}

// resolveFlavor normalizes flavor, discovering it when empty.
func (s *Service) resolveFlavor(ctx context.Context, instance string, flavor Flavor) (Flavor, error) {
	if instance == "" {
		return "", ErrEmptyInstance
	}
	if flavor == "" {
		return s.DiscoverFlavor(ctx, instance)
	}
	return comment.ParseFlavor(string(flavor))
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
