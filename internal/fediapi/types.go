package fediapi

import (
	"bytes"
	"encoding/json"
	"time"
)

// Status is a Mastodon status as returned by /api/v1/statuses.
type Status struct {
	ID               string            `json:"id"`
	InReplyToID      string            `json:"in_reply_to_id"`
	URL              string            `json:"url"`
	CreatedAt        time.Time         `json:"created_at"`
	SpoilerText      string            `json:"spoiler_text"`
	Sensitive        bool              `json:"sensitive"`
	Content          string            `json:"content"`
	FavouritesCount  int               `json:"favourites_count"`
	ReblogsCount     int               `json:"reblogs_count"`
	MediaAttachments []MediaAttachment `json:"media_attachments"`
	Emojis           []CustomEmoji     `json:"emojis"`
	Account          Account           `json:"account"`

	// EmojiReactions is only sent by forks that support reactions. It is nil
	// when the field is absent and empty when the status has none.
	EmojiReactions []EmojiReaction `json:"emoji_reactions"`
}

// Account is a Mastodon account.
type Account struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Acct         string        `json:"acct"`
	URL          string        `json:"url"`
	DisplayName  string        `json:"display_name"`
	Avatar       string        `json:"avatar"`
	AvatarStatic string        `json:"avatar_static"`
	Emojis       []CustomEmoji `json:"emojis"`
}

// MediaAttachment is a Mastodon media attachment.
type MediaAttachment struct {
	Type        string `json:"type"`
	URL         string `json:"url"`
	RemoteURL   string `json:"remote_url"`
	Description string `json:"description"`
}

// CustomEmoji is a Mastodon custom emoji.
type CustomEmoji struct {
	Shortcode string `json:"shortcode"`
	URL       string `json:"url"`
	StaticURL string `json:"static_url"`
}

// EmojiReaction is one reaction bucket on forks that support reactions.
type EmojiReaction struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Context holds the thread around a Mastodon status.
type Context struct {
	Ancestors   []Status `json:"ancestors"`
	Descendants []Status `json:"descendants"`
}

// Note is a Misskey note.
type Note struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"createdAt"`
	Text           string         `json:"text"`
	CW             string         `json:"cw"`
	ReplyID        string         `json:"replyId"`
	RenoteID       string         `json:"renoteId"`
	User           NoteUser       `json:"user"`
	Files          []DriveFile    `json:"files"`
	Reactions      map[string]int `json:"reactions"`
	ReactionCount  int            `json:"reactionCount"`
	RenoteCount    int            `json:"renoteCount"`
	RepliesCount   int            `json:"repliesCount"`
	Emojis         EmojiMap       `json:"emojis"`
	ReactionEmojis EmojiMap       `json:"reactionEmojis"`
}

// NoteUser is the user object embedded in a note.
type NoteUser struct {
	ID          string        `json:"id"`
	Username    string        `json:"username"`
	Host        string        `json:"host"`
	Name        string        `json:"name"`
	AvatarURL   string        `json:"avatarUrl"`
	Emojis      EmojiMap      `json:"emojis"`
	MandatoryCW string        `json:"mandatoryCW"`
	Instance    *UserInstance `json:"instance"`
}

// UserInstance describes the server a remote Misskey user lives on.
type UserInstance struct {
	Name            string `json:"name"`
	SoftwareName    string `json:"softwareName"`
	SoftwareVersion string `json:"softwareVersion"`
}

// UserDetail is the response of /api/users/show.
type UserDetail struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	Host     string        `json:"host"`
	Name     string        `json:"name"`
	URL      string        `json:"url"`
	Instance *UserInstance `json:"instance"`
}

// DriveFile is a Misskey file attached to a note.
type DriveFile struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	IsSensitive bool   `json:"isSensitive"`
	Comment     string `json:"comment"`
}

// EmojiDetail is the response of /api/emoji.
type EmojiDetail struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	IsSensitive bool   `json:"isSensitive"`
}

// EmojiMap maps shortcodes to image URLs. Older Misskey servers send a list
// of {name, url} objects instead of an object; both decode to the same map.
// It stays nil when the field is absent or null.
type EmojiMap map[string]string

// UnmarshalJSON accepts an object or a list of {name, url} pairs.
func (m *EmojiMap) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		}
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		out := make(EmojiMap, len(list))
		for _, e := range list {
			out[e.Name] = e.URL
		}
		*m = out
		return nil
	}
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*m = obj
	return nil
}

// NodeInfo is the subset of a nodeinfo 2.x document used for flavor
// discovery.
type NodeInfo struct {
	Version  string `json:"version"`
	Software struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"software"`
}

// UserInfo is the result of a user query: profile URL and the server
// software the user lives on.
type UserInfo struct {
	URL      string
	Software string
}
