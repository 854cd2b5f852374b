package normalize

import (
	"context"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-fedicomments/internal/comment"
	"github.com/alnah/go-fedicomments/internal/fediapi"
)

// Mastodon normalizes a Mastodon status.
func (n *Normalizer) Mastodon(_ context.Context, instance string, s *fediapi.Status) comment.Comment {
	account := s.Account
	host := hostOf(account.URL)
	handle := "@" + account.Username
	if host == "" {
		n.logger.WithFields(logrus.Fields{
			"instance": instance,
			"status":   s.ID,
			"url":      account.URL,
		}).Warn("could not extract domain from profile URL")
	} else {
		handle += "@" + host
	}

	emoji := customEmoji(s.Emojis)
	userEmoji := customEmoji(account.Emojis)

	reactions := n.newReactions()
	if s.EmojiReactions != nil {
		for _, r := range s.EmojiReactions {
			n.addReaction(reactions, r.Name, r.Count)
		}
	} else {
		reactions[n.defaultReaction] = s.FavouritesCount
	}

	var media []comment.MediaAttachment
	for _, a := range s.MediaAttachments {
		if a.Type != "image" {
			continue
		}
		target := a.RemoteURL
		if target == "" {
			target = a.URL
		}
		media = append(media, comment.MediaAttachment{
			URL:         target,
			Sensitive:   s.Sensitive,
			Description: a.Description,
		})
	}

	name := account.DisplayName
	if name == "" {
		name = account.Username
	}
	avatar := account.AvatarStatic
	if avatar == "" {
		avatar = account.Avatar
	}

	return comment.Comment{
		ID:             s.ID,
		ReplyID:        s.InReplyToID,
		URL:            s.URL,
		Date:           s.CreatedAt,
		ContentWarning: s.SpoilerText,
		Body:           s.Content,
		Content:        n.pipeline.FromHTML(s.Content, emoji),
		Emoji:          emoji,
		Reactions:      reactions,
		ReactionCount:  s.FavouritesCount,
		BoostCount:     s.ReblogsCount,
		Media:          media,
		User: comment.User{
			Host:        host,
			Handle:      handle,
			ProfileURL:  account.URL,
			Name:        name,
			DisplayName: n.pipeline.FromText(name, userEmoji),
			AvatarURL:   avatar,
			Emoji:       userEmoji,
		},
	}
}

// customEmoji builds a shortcode table, preferring the static image.
func customEmoji(list []fediapi.CustomEmoji) map[string]string {
	out := make(map[string]string, len(list))
	for _, e := range list {
		target := e.StaticURL
		if target == "" {
			target = e.URL
		}
		if e.Shortcode != "" && target != "" {
			out[e.Shortcode] = target
		}
	}
	return out
}

// hostOf returns the host of an http(s) URL, or "" when there is none.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.Host
}
