package normalize

import (
	"context"
	"maps"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-fedicomments/internal/comment"
	"github.com/alnah/go-fedicomments/internal/emoji"
	"github.com/alnah/go-fedicomments/internal/fediapi"
)

// mandatoryCWSeparator joins an account-wide warning with the note's own.
const mandatoryCWSeparator = " + "

// Misskey normalizes a Misskey note fetched from instance.
func (n *Normalizer) Misskey(ctx context.Context, instance string, note *fediapi.Note) comment.Comment {
	user := note.User
	host := user.Host
	if host == "" {
		host = instance
	}
	handle := "@" + user.Username + "@" + host
	log := n.logger.WithFields(logrus.Fields{"instance": instance, "note": note.ID})

	noteEmoji := map[string]string{}
	if note.Emojis != nil {
		maps.Copy(noteEmoji, note.Emojis)
	} else {
		maps.Copy(noteEmoji, n.resolve(ctx, host, emoji.Shortcodes(note.Text+" "+note.CW)))
	}

	name := user.Name
	if name == "" {
		name = user.Username
	}
	userEmoji := map[string]string{}
	if user.Emojis != nil {
		maps.Copy(userEmoji, user.Emojis)
	} else {
		maps.Copy(userEmoji, n.resolve(ctx, host, emoji.Shortcodes(name)))
	}

	reactions := n.newReactions()
	for symbol, count := range note.Reactions {
		n.addReaction(reactions, symbol, count)
	}

	var media []comment.MediaAttachment
	for _, f := range note.Files {
		if !strings.HasPrefix(f.Type, "image/") {
			continue
		}
		media = append(media, comment.MediaAttachment{
			URL:         f.URL,
			Sensitive:   f.IsSensitive,
			Description: f.Comment,
		})
	}

	replyID := note.ReplyID
	if replyID == "" {
		replyID = note.RenoteID
	}

	base := "https://" + instance + "/"
	return comment.Comment{
		ID:             note.ID,
		ReplyID:        replyID,
		URL:            base + "notes/" + note.ID,
		Date:           note.CreatedAt,
		ContentWarning: mergeCW(user.MandatoryCW, note.CW),
		Body:           note.Text,
		Content:        n.markup(ctx, log, instance, note.Text, noteEmoji, false),
		Emoji:          noteEmoji,
		Reactions:      reactions,
		ReactionCount:  note.ReactionCount,
		BoostCount:     note.RenoteCount,
		Media:          media,
		User: comment.User{
			Host:        host,
			Handle:      handle,
			ProfileURL:  base + handle,
			Name:        name,
			DisplayName: n.markup(ctx, log, instance, name, userEmoji, true),
			AvatarURL:   user.AvatarURL,
			Emoji:       userEmoji,
		},
	}
}

// markup runs MFM text through the rewriter and the HTML pipeline. Any
// failure falls back to the escaped source text.
func (n *Normalizer) markup(ctx context.Context, log logrus.FieldLogger, instance, text string, table map[string]string, inline bool) string {
	base := "https://" + instance + "/"

	rewritten, err := n.rewriter(instance).TransformContext(ctx, text)
	if err == nil {
		var out string
		if inline {
			out, err = n.pipeline.FromInlineMarkdown(ctx, rewritten, table, base)
		} else {
			out, err = n.pipeline.FromMarkdown(ctx, rewritten, table, base)
		}
		if err == nil {
			return out
		}
	}

	log.WithError(err).Warn("falling back to plain text")
	return n.pipeline.FromText(text, table)
}

// mergeCW combines a mandatory warning with the note's own.
func mergeCW(mandatory, own string) string {
	switch {
	case mandatory != "" && own != "":
		return mandatory + mandatoryCWSeparator + own
	case mandatory != "":
		return mandatory
	default:
		return own
	}
}
