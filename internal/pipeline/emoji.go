package pipeline

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// ReplaceEmoji replaces :shortcode: tokens found in the text nodes of
// fragment with <img class="emoji"> tags. Attribute values and the contents
// of <code> and <pre> are left alone.
func ReplaceEmoji(fragment string, emoji map[string]string) string {
	if len(emoji) == 0 || !strings.Contains(fragment, ":") {
		return fragment
	}
	r := emojiReplacer(emoji)

	var b strings.Builder
	literal := 0
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if literal > 0 {
				b.Write(z.Raw())
			} else {
				b.WriteString(r.Replace(string(z.Raw())))
			}
		case html.StartTagToken:
			raw := string(z.Raw())
			if isLiteral(z) {
				literal++
			}
			b.WriteString(raw)
		case html.EndTagToken:
			raw := string(z.Raw())
			if isLiteral(z) && literal > 0 {
				literal--
			}
			b.WriteString(raw)
		default:
			b.Write(z.Raw())
		}
	}
}

// isLiteral must be called after Raw, since TagName advances the tokenizer's
// attribute state.
func isLiteral(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	return string(name) == "code" || string(name) == "pre"
}

// EmojiTag returns the <img> markup used for one custom emoji.
func EmojiTag(shortcode, url string) string {
	return `<img src="` + html.EscapeString(url) + `" class="emoji" alt="Custom emoji: ` +
		html.EscapeString(shortcode) + `">`
}

// emojiReplacer builds a replacer over shortcodes in sorted order so that
// overlapping candidates resolve the same way on every run.
func emojiReplacer(emoji map[string]string) *strings.Replacer {
	codes := make([]string, 0, len(emoji))
	for code := range emoji {
		if code != "" {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)

	pairs := make([]string, 0, 2*len(codes))
	for _, code := range codes {
		pairs = append(pairs, ":"+code+":", EmojiTag(code, emoji[code]))
	}
	return strings.NewReplacer(pairs...)
}
