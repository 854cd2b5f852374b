package mfm

import (
	"context"
	"fmt"
	"slices"
)

// Rewriter applies an ordered rule list until the text stops changing.
// It holds no mutable state and is safe for concurrent use.
type Rewriter struct {
	rules     []Rule
	maxPasses int
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithMaxPasses caps both the outer passes and the repeated applications of
// a single rule within one pass. Zero means unbounded.
func WithMaxPasses(n int) Option {
	return func(r *Rewriter) {
		if n > 0 {
			r.maxPasses = n
		}
	}
}

// NewRewriter returns a Rewriter over a private copy of rules.
func NewRewriter(rules []Rule, opts ...Option) *Rewriter {
	r := &Rewriter{rules: slices.Clone(rules)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Convert rewrites text with the default rule table for instance.
func Convert(instance, text string) string {
	return NewRewriter(Rules(instance)).Transform(text)
}

// Transform rewrites text to its fixpoint. If a rule fails or the pass limit
// is hit, the text reached so far is returned.
func (r *Rewriter) Transform(text string) string {
	out, _ := r.TransformContext(context.Background(), text)
	return out
}

// TransformContext is Transform with cancellation and error reporting.
// Every rule is driven to its own fixpoint in order; the whole pass repeats
// until a pass leaves the text unchanged.
func (r *Rewriter) TransformContext(ctx context.Context, text string) (string, error) {
	for pass := 0; ; pass++ {
		if r.maxPasses > 0 && pass >= r.maxPasses {
			return text, fmt.Errorf("%w: %d passes", ErrNoFixpoint, pass)
		}
		if err := ctx.Err(); err != nil {
			return text, err
		}

		before := text
		for _, rule := range r.rules {
			var err error
			if text, err = r.settle(rule, text); err != nil {
				return text, err
			}
		}
		if text == before {
			return text, nil
		}
	}
}

// settle applies rule until it no longer changes text.
func (r *Rewriter) settle(rule Rule, text string) (string, error) {
	for n := 0; ; n++ {
		if r.maxPasses > 0 && n >= r.maxPasses {
			return text, fmt.Errorf("%w: rule %s applied %d times", ErrNoFixpoint, rule.Name, n)
		}
		next, err := rule.Apply(text)
		if err != nil {
			return text, err
		}
		if next == text {
			return text, nil
		}
		text = next
	}
}
