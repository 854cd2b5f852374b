// Package comment holds the platform-neutral comment model shared by the
// normalizer, the renderer and the public API.
package comment

import "time"

// DefaultReaction is the bucket that collects likes and multi-character
// reactions.
const DefaultReaction = "❤"

// Comment is one reply in a thread, normalized from either platform.
type Comment struct {
	ID string

	// ReplyID is the id of the parent comment. Empty means the reply hangs
	// off the root post or its parent is unknown.
	ReplyID string

	URL  string
	Date time.Time

	// ContentWarning is plain text. Empty means no warning.
	ContentWarning string

	// Body is the raw markup as sent by the server.
	Body string

	// Content is the sanitized HTML fragment ready for display.
	Content string

	Emoji         map[string]string
	Reactions     map[string]int
	ReactionCount int
	BoostCount    int
	Media         []MediaAttachment
	User          User
}

// User is the author of a comment.
type User struct {
	// Host is the domain the account lives on.
	Host string

	// Handle is "@name@host", or "@name" when the host could not be derived.
	Handle string

	ProfileURL string

	// Name is the display name as plain text, used for alt text.
	Name string

	// DisplayName is the display name as sanitized inline HTML.
	DisplayName string

	AvatarURL string
	Emoji     map[string]string
}

// MediaAttachment is an image attached to a comment.
type MediaAttachment struct {
	URL         string
	Sensitive   bool
	Description string
}

// Stats are the engagement counters of the root post.
type Stats struct {
	Reactions int
	Boosts    int
}
