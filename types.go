package fedicomments

import (
	"github.com/alnah/go-fedicomments/internal/comment"
	"github.com/alnah/go-fedicomments/internal/emoji"
	"github.com/alnah/go-fedicomments/internal/task"
)

// Comment model, shared with the internal packages.
type (
	Comment         = comment.Comment
	User            = comment.User
	MediaAttachment = comment.MediaAttachment
	Stats           = comment.Stats
	Flavor          = comment.Flavor
)

// API families.
const (
	Mastodon = comment.Mastodon
	Misskey  = comment.Misskey
)

// DefaultReaction collects likes and multi-character reactions.
const DefaultReaction = comment.DefaultReaction

// ErrUnknownFlavor is returned for server software outside both families.
var ErrUnknownFlavor = comment.ErrUnknownFlavor

// ParseFlavor maps a flavor or server software name to its API family.
func ParseFlavor(name string) (Flavor, error) {
	return comment.ParseFlavor(name)
}

// EmojiCache memoizes resolved custom emoji by shortcode.
type EmojiCache = emoji.Cache

// NewMemoryCache returns an in-process EmojiCache that never evicts.
func NewMemoryCache() *emoji.MemoryCache {
	return emoji.NewMemoryCache()
}

// Dispatcher runs background work such as statistics fetches.
type Dispatcher = task.Dispatcher

// Thread is a root post and its normalized replies.
type Thread struct {
	Instance string
	Flavor   Flavor

	// Root is the post the comments reply to.
	Root Comment

	// Replies are in fetch order; rendering sorts them by date.
	Replies []Comment
}

// UserInfo describes a fediverse account found with QueryUser.
type UserInfo struct {
	URL      string
	Software string

	// Flavor is empty when the software is not a known family.
	Flavor Flavor
}
