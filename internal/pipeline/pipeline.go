package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/net/html"
)

// Pipeline chains the conversion stages for one kind of input. It is safe
// for concurrent use.
type Pipeline struct {
	markdown    *Markdown
	sanitizer   *Sanitizer
	customEmoji bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCustomEmoji toggles :shortcode: image substitution. Enabled by default.
func WithCustomEmoji(enabled bool) Option {
	return func(p *Pipeline) { p.customEmoji = enabled }
}

// New returns a Pipeline with a fresh Markdown converter and Sanitizer.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		markdown:    NewMarkdown(),
		sanitizer:   NewSanitizer(),
		customEmoji: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromMarkdown renders Markdown with inline HTML into a sanitized fragment.
// Relative links resolve against base when it is not empty.
func (p *Pipeline) FromMarkdown(ctx context.Context, text string, emoji map[string]string, base string) (string, error) {
	out, err := p.markdown.ToHTML(ctx, Preprocess(text))
	if err != nil {
		return "", err
	}
	return p.finish(out, emoji, base)
}

// FromInlineMarkdown is FromMarkdown for single-line text such as display
// names; the paragraph wrapper is dropped.
func (p *Pipeline) FromInlineMarkdown(ctx context.Context, text string, emoji map[string]string, base string) (string, error) {
	out, err := p.markdown.ToInlineHTML(ctx, Preprocess(text))
	if err != nil {
		return "", err
	}
	return p.finish(out, emoji, base)
}

// FromHTML substitutes emoji in server-rendered HTML and sanitizes it.
func (p *Pipeline) FromHTML(fragment string, emoji map[string]string) string {
	if p.customEmoji {
		fragment = ReplaceEmoji(fragment, emoji)
	}
	return p.sanitizer.Sanitize(fragment)
}

// FromText escapes plain text, then treats it like FromHTML.
func (p *Pipeline) FromText(text string, emoji map[string]string) string {
	return p.FromHTML(html.EscapeString(text), emoji)
}

func (p *Pipeline) finish(fragment string, emoji map[string]string, base string) (string, error) {
	resolved, err := ResolveRelativeURLs(fragment, base)
	if err != nil {
		return "", fmt.Errorf("%w: resolving links: %v", ErrHTMLConversion, err)
	}
	return p.FromHTML(resolved, emoji), nil
}
