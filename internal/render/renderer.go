package render

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-fedicomments/internal/comment"
	"github.com/alnah/go-fedicomments/internal/dateutil"
	"github.com/alnah/go-fedicomments/internal/pipeline"
)

// DefaultBoostIcon is the image path used for the boost counter.
const DefaultBoostIcon = "_static/boost.svg"

// SectionID is the id of the container every comment is rendered into.
const SectionID = "comments-section"

const (
	sensitiveMediaLabel = "Media marked as sensitive, click to expand"
	nbsp                = "\u00a0"
	zwsp                = "\u200b"
)

// TextRenderer turns plain text into a sanitized HTML fragment with custom
// emoji substituted. *pipeline.Pipeline satisfies it.
type TextRenderer interface {
	FromText(text string, emoji map[string]string) string
}

// Options controls what the renderer emits. The zero value is usable;
// DefaultOptions returns the documented defaults.
type Options struct {
	// BoostIcon is the src of the boost counter image.
	BoostIcon string

	// Reaction is the symbol shown next to the root post's like counter.
	Reaction string

	AllowAvatars bool
	AllowMedia   bool

	// Defer marks the section so page scripts load it only once visible.
	Defer bool

	// Dates formats comment timestamps. Nil uses dateutil.DefaultDateFormat.
	Dates *dateutil.Formatter

	// Text renders content warnings. Nil uses a fresh pipeline.
	Text TextRenderer

	Logger logrus.FieldLogger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		BoostIcon:    DefaultBoostIcon,
		Reaction:     comment.DefaultReaction,
		AllowAvatars: true,
		AllowMedia:   true,
		Defer:        true,
	}
}

// Renderer turns comments into nodes. It holds no per-tree state, so one
// Renderer can serve many sections; a single tree must only be touched from
// one goroutine.
type Renderer struct {
	opts Options
}

// New returns a Renderer, filling unset collaborators with defaults.
func New(opts Options) *Renderer {
	if opts.BoostIcon == "" {
		opts.BoostIcon = DefaultBoostIcon
	}
	if opts.Reaction == "" {
		opts.Reaction = comment.DefaultReaction
	}
	if opts.Dates == nil {
		// The default format always parses.
		opts.Dates, _ = dateutil.NewFormatter(dateutil.DefaultDateFormat, nil)
	}
	if opts.Text == nil {
		opts.Text = pipeline.New()
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	return &Renderer{opts: opts}
}

// NewSection returns an empty comment container.
func (r *Renderer) NewSection() *html.Node {
	section := element(atom.Div, "id", SectionID)
	if r.opts.Defer {
		setAttr(section, "data-defer", "true")
	}
	return section
}

// RenderBatch renders comments in date order and attaches each under its
// parent, or under root when the parent is not in the tree. Comments whose
// id is already rendered are skipped. Only comment nodes count: ids inside
// rendered content never match. It returns the number of comments attached.
func (r *Renderer) RenderBatch(root *html.Node, comments []comment.Comment) int {
	sorted := slices.Clone(comments)
	slices.SortStableFunc(sorted, func(a, b comment.Comment) int {
		return a.Date.Compare(b.Date)
	})

	rendered := index(root)
	attached := 0
	for _, c := range sorted {
		if c.ID == "" {
			r.opts.Logger.Warn("skipping comment without id")
			continue
		}
		if _, ok := rendered[c.ID]; ok {
			r.opts.Logger.WithField("id", c.ID).Debug("comment already rendered")
			continue
		}

		parent := root
		if c.ReplyID != "" {
			if p, ok := rendered[c.ReplyID]; ok {
				parent = p
			} else {
				r.opts.Logger.WithFields(logrus.Fields{"id": c.ID, "reply_to": c.ReplyID}).
					Debug("parent not rendered, attaching to root")
			}
		}
		node := r.RenderComment(c)
		parent.AppendChild(node)
		rendered[c.ID] = node
		attached++
	}
	return attached
}

// RenderComment builds the subtree for one comment.
func (r *Renderer) RenderComment(c comment.Comment) *html.Node {
	node := element(atom.Div, "class", "comment", "id", c.ID)
	node.AppendChild(r.author(c))

	interior := node
	warned := c.ContentWarning != ""
	if warned {
		details := element(atom.Details)
		summary := element(atom.Summary)
		appendFragment(summary, r.opts.Text.FromText(c.ContentWarning, c.Emoji))
		details.AppendChild(summary)
		node.AppendChild(details)
		interior = details
	}

	content := element(atom.Div, "class", "content")
	body := element(atom.Div)
	appendFragment(body, c.Content)
	content.AppendChild(body)
	if r.opts.AllowMedia {
		for _, m := range c.Media {
			content.AppendChild(media(m, warned))
		}
	}
	interior.AppendChild(content)

	node.AppendChild(r.info(c))
	node.AppendChild(element(atom.Br))
	return node
}

// RenderStats builds the root post counters. The counter spans carry the
// ids global-likes and global-reblogs.
func (r *Renderer) RenderStats(stats comment.Stats) *html.Node {
	info := element(atom.Div, "class", "comments-info")

	likes := element(atom.Span, "class", "reaction")
	likes.AppendChild(text(r.opts.Reaction + " "))
	count := element(atom.Span, "id", "global-likes")
	count.AppendChild(text(strconv.Itoa(stats.Reactions)))
	likes.AppendChild(count)
	info.AppendChild(likes)

	boosts := element(atom.Span, "class", "reaction")
	boosts.AppendChild(element(atom.Img, "class", "fedi-icon", "src", r.opts.BoostIcon, "alt", "Boosts"))
	count = element(atom.Span, "id", "global-reblogs")
	count.AppendChild(text(strconv.Itoa(stats.Boosts)))
	boosts.AppendChild(count)
	info.AppendChild(boosts)

	return info
}

func (r *Renderer) author(c comment.Comment) *html.Node {
	author := element(atom.Div, "class", "author")

	if r.opts.AllowAvatars && c.User.AvatarURL != "" {
		author.AppendChild(element(atom.Img,
			"src", c.User.AvatarURL,
			"alt", "Avatar for "+cmp.Or(c.User.Name, c.User.Handle),
			"height", "30", "width", "30"))
	}

	date := element(atom.A, "class", "date", "href", c.URL, "target", "_blank", "rel", "nofollow noopener")
	if !c.Date.IsZero() {
		stamp := element(atom.Time, "datetime", c.Date.UTC().Format("2006-01-02T15:04:05Z"))
		stamp.AppendChild(text(r.opts.Dates.Format(c.Date)))
		date.AppendChild(stamp)
	}
	author.AppendChild(date)

	profile := element(atom.A, "href", c.User.ProfileURL, "target", "_blank", "rel", "nofollow noopener")
	name := element(atom.Span, "class", "username")
	if c.User.DisplayName != "" {
		appendFragment(name, c.User.DisplayName)
	} else {
		name.AppendChild(text(cmp.Or(c.User.Name, c.User.Handle)))
	}
	profile.AppendChild(name)
	profile.AppendChild(text(" "))
	handle := element(atom.Span, "class", "handle")
	handle.AppendChild(text(breakableHandle(c.User.Handle)))
	profile.AppendChild(handle)
	author.AppendChild(profile)

	return author
}

func (r *Renderer) info(c comment.Comment) *html.Node {
	info := element(atom.Div, "class", "info")

	boosts := element(atom.Span, "class", "reaction")
	boosts.AppendChild(element(atom.Img, "class", "fedi-icon", "src", r.opts.BoostIcon, "alt", "Boosts"))
	boosts.AppendChild(text(strconv.Itoa(c.BoostCount) + " "))
	info.AppendChild(boosts)

	for _, re := range sortReactions(c.Reactions) {
		info.AppendChild(text(nbsp))
		span := element(atom.Span, "class", "reaction")
		span.AppendChild(text(fmt.Sprintf("%s%s %d%s", nbsp, re.symbol, re.count, nbsp)))
		info.AppendChild(span)
	}
	return info
}

func media(m comment.MediaAttachment, warned bool) *html.Node {
	img := element(atom.Img, "class", "attachment", "src", m.URL, "alt", m.Description, "loading", "lazy")
	if !m.Sensitive || warned {
		return img
	}
	details := element(atom.Details)
	summary := element(atom.Summary)
	summary.AppendChild(text(sensitiveMediaLabel))
	details.AppendChild(summary)
	details.AppendChild(img)
	return details
}

type reaction struct {
	symbol string
	count  int
}

// sortReactions orders by count descending, then by symbol.
func sortReactions(reactions map[string]int) []reaction {
	out := make([]reaction, 0, len(reactions))
	for symbol, count := range reactions {
		out = append(out, reaction{symbol: symbol, count: count})
	}
	slices.SortFunc(out, func(a, b reaction) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return strings.Compare(a.symbol, b.symbol)
	})
	return out
}

// breakableHandle inserts a zero-width space before the domain part of
// "@name@host" so long handles can wrap.
func breakableHandle(handle string) string {
	i := strings.LastIndex(handle, "@")
	if i <= 0 {
		return handle
	}
	return handle[:i] + zwsp + handle[i:]
}

// commentNode matches the root element of a rendered comment.
var commentNode = cascadia.MustCompile("div.comment")

// Find returns the comment rendered under root with the given id, or root
// itself when its id matches. Nil when absent.
func Find(root *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	return index(root)[id]
}

// index maps ids to root and the comment nodes below it. The walk follows
// comment nodes only, from root down through nested replies, so elements
// inside author markup or content are never indexed. The first node wins
// for a repeated id.
func index(root *html.Node) map[string]*html.Node {
	idx := make(map[string]*html.Node)
	if root == nil {
		return idx
	}
	if id := attr(root, "id"); id != "" {
		idx[id] = root
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !commentNode.Match(c) {
				continue
			}
			if id := attr(c, "id"); id != "" {
				if _, ok := idx[id]; !ok {
					idx[id] = c
				}
			}
			walk(c)
		}
	}
	walk(root)
	return idx
}

// HTML serializes n.
func HTML(n *html.Node) (string, error) {
	var buf strings.Builder
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// appendFragment parses an HTML fragment in the context of parent and
// appends the result. Unparseable input is kept as escaped text.
func appendFragment(parent *html.Node, fragment string) {
	if fragment == "" {
		return
	}
	context := &html.Node{Type: html.ElementNode, DataAtom: parent.DataAtom, Data: parent.Data}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		parent.AppendChild(text(fragment))
		return
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
