package mfm

import "strings"

// escaper replaces every character that is meaningful to HTML, Markdown or a
// later rule. One pass, so entities produced here are never rewritten again
// by this replacer.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"#", "&#35;",
	"<", "&lt;",
	">", "&gt;",
	"`", "&#96;",
	`"`, "&quot;",
	"'", "&#039;",
	"*", "&#42;",
	"@", "&#64;",
	"[", "&#91;",
	"]", "&#93;",
	"$", "&#36;",
	":", "&#58;",
	"_", "&#95;",
	"~", "&#126;",
)

// Escape returns text with HTML, Markdown and MFM metacharacters replaced by
// entities. It is not idempotent: escaping twice re-escapes the ampersands.
func Escape(text string) string {
	return escaper.Replace(text)
}
