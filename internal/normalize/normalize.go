// Package normalize maps Mastodon statuses and Misskey notes onto the common
// comment model.
//
// Mastodon content is server-rendered HTML and only gets emoji substitution
// and sanitizing. Misskey text is rewritten from MFM to Markdown, rendered,
// then treated the same way. Missing emoji tables are rebuilt by scanning for
// :shortcode: tokens and resolving them against the origin instance.
//
// Normalization never fails on content: malformed fields degrade to a best
// effort value and a logged warning.
package normalize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rivo/uniseg"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-fedicomments/internal/comment"
	"github.com/alnah/go-fedicomments/internal/fediapi"
	"github.com/alnah/go-fedicomments/internal/mfm"
	"github.com/alnah/go-fedicomments/internal/pipeline"
)

// ErrMalformed reports a payload that does not decode as the given flavor.
var ErrMalformed = errors.New("malformed comment payload")

// Resolver resolves custom emoji shortcodes on an instance.
type Resolver interface {
	ResolveAll(ctx context.Context, instance string, names []string) map[string]string
}

// Normalizer converts platform payloads to comments. It is safe for
// concurrent use.
type Normalizer struct {
	pipeline        *pipeline.Pipeline
	resolver        Resolver
	defaultReaction string
	logger          logrus.FieldLogger

	// rewriters caches one *mfm.Rewriter per instance.
	rewriters sync.Map
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithDefaultReaction sets the bucket for likes and multi-character
// reactions. Defaults to comment.DefaultReaction.
func WithDefaultReaction(symbol string) Option {
	return func(n *Normalizer) {
		if symbol != "" {
			n.defaultReaction = symbol
		}
	}
}

// WithLogger sets the logger for degraded fields.
func WithLogger(l logrus.FieldLogger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}

// New returns a Normalizer. resolver may be nil, in which case missing
// emoji tables stay empty.
func New(p *pipeline.Pipeline, resolver Resolver, opts ...Option) *Normalizer {
	n := &Normalizer{
		pipeline:        p,
		resolver:        resolver,
		defaultReaction: comment.DefaultReaction,
		logger:          discardLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize decodes raw as a status or note of the given flavor and
// normalizes it.
func (n *Normalizer) Normalize(ctx context.Context, flavor comment.Flavor, instance string, raw json.RawMessage) (comment.Comment, error) {
	switch flavor {
	case comment.Mastodon:
		var s fediapi.Status
		if err := json.Unmarshal(raw, &s); err != nil {
			return comment.Comment{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return n.Mastodon(ctx, instance, &s), nil
	case comment.Misskey:
		var note fediapi.Note
		if err := json.Unmarshal(raw, &note); err != nil {
			return comment.Comment{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return n.Misskey(ctx, instance, &note), nil
	default:
		return comment.Comment{}, fmt.Errorf("%w: %q", comment.ErrUnknownFlavor, flavor)
	}
}

// rewriter returns the cached rewriter for instance.
func (n *Normalizer) rewriter(instance string) *mfm.Rewriter {
	if rw, ok := n.rewriters.Load(instance); ok {
		return rw.(*mfm.Rewriter)
	}
	rw, _ := n.rewriters.LoadOrStore(instance, mfm.NewRewriter(mfm.Rules(instance)))
	return rw.(*mfm.Rewriter)
}

// newReactions returns a reaction table holding only the default bucket.
func (n *Normalizer) newReactions() map[string]int {
	return map[string]int{n.defaultReaction: 0}
}

// addReaction counts a reaction under its own symbol when it is a single
// grapheme, otherwise under the default bucket.
func (n *Normalizer) addReaction(reactions map[string]int, name string, count int) {
	if uniseg.GraphemeClusterCount(name) == 1 {
		reactions[name] += count
		return
	}
	reactions[n.defaultReaction] += count
}

func (n *Normalizer) resolve(ctx context.Context, instance string, names []string) map[string]string {
	if n.resolver == nil || len(names) == 0 {
		return map[string]string{}
	}
	return n.resolver.ResolveAll(ctx, instance, names)
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
