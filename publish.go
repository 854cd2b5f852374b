package fedicomments

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-fedicomments/internal/assets"
	"github.com/alnah/go-fedicomments/internal/dateutil"
	"github.com/alnah/go-fedicomments/internal/pipeline"
	"github.com/alnah/go-fedicomments/internal/render"
)

// PublishOptions controls the HTML produced by Publish. The zero value
// renders a deferred fragment with avatars, media and custom emoji.
type PublishOptions struct {
	// BoostIcon is the src of the boost counter image.
	// Defaults to "_static/boost.svg".
	BoostIcon string

	// InlineBoostIcon embeds the built-in (or overridden) icon as a data URI
	// instead of linking BoostIcon.
	InlineBoostIcon bool

	// DateFormat takes tokens (YYYY-MM-DD HH:mm) or a preset name.
	DateFormat string

	// Location for displayed dates. Defaults to UTC.
	Location *time.Location

	// Reaction is shown next to the like counter.
	Reaction string

	HideAvatars        bool
	HideMedia          bool
	DisableCustomEmoji bool

	// Eager drops the data-defer marker from the section.
	Eager bool

	// Page wraps the section in a complete HTML document with the stylesheet.
	Page  bool
	Title string

	// AssetPath overrides built-in styles, templates and icons.
	AssetPath string

	Logger logrus.FieldLogger
}

// Publish renders thread as HTML. stats, when not nil, renders the counters
// block above the comments.
func Publish(ctx context.Context, thread *Thread, stats *Stats, opts PublishOptions) (string, error) {
	dates, err := dateutil.NewFormatter(opts.DateFormat, opts.Location)
	if err != nil {
		return "", err
	}
	loader, err := assets.NewAssetResolver(opts.AssetPath)
	if err != nil {
		return "", err
	}

	boostIcon := opts.BoostIcon
	if opts.InlineBoostIcon {
		svg, err := loader.LoadIcon(assets.BoostIconName)
		if err != nil {
			return "", err
		}
		boostIcon = assets.IconDataURI(svg)
	}

	r := render.New(render.Options{
		BoostIcon:    boostIcon,
		Reaction:     opts.Reaction,
		AllowAvatars: !opts.HideAvatars,
		AllowMedia:   !opts.HideMedia,
		Defer:        !opts.Eager,
		Dates:        dates,
		Text:         pipeline.New(pipeline.WithCustomEmoji(!opts.DisableCustomEmoji)),
		Logger:       opts.Logger,
	})

	section := r.NewSection()
	if thread != nil {
		r.RenderBatch(section, thread.Replies)
	}

	if opts.Page {
		page := render.Page{Title: opts.Title, Stats: stats, Section: section}
		if thread != nil {
			page.PostURL = thread.Root.URL
		}
		return r.RenderPage(ctx, loader, page)
	}

	var out string
	if stats != nil {
		block, err := render.HTML(r.RenderStats(*stats))
		if err != nil {
			return "", fmt.Errorf("%w: %v", render.ErrPageRender, err)
		}
		out = block + "\n"
	}
	body, err := render.HTML(section)
	if err != nil {
		return "", fmt.Errorf("%w: %v", render.ErrPageRender, err)
	}
	return out + body, nil
}
