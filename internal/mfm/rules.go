package mfm

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Construct bodies: text without brackets, or with one level of balanced
// [...] (a link produced by an earlier rule). Anything deeper resolves
// innermost-first over later passes.
const (
	body     = `((?:[^\[\]]|\[[^\[\]]*\])+)`
	lineBody = `((?:[^\[\]\r\n]|\[[^\[\]\r\n]*\])+)`
)

// notInLabel fails inside the label of a [label](url) link: after an
// unclosed "[" on the same line that is later closed by "](".
const notInLabel = `(?:(?<!\[[^\[\]\r\n]*)|(?![^\[\]\r\n]*\]\())`

const (
	multiline  = regexp2.Singleline
	singleline = regexp2.None
)

// Border defaults applied when an option is not given.
const (
	defaultBorderStyle  = "solid"
	defaultBorderWidth  = "1"
	defaultBorderColor  = "86b300"
	defaultBorderRadius = "0"
)

var fontFamilies = `serif|sans-serif|monospace|cursive|fantasy`

// Rules returns the ordered rule table. instance is the origin host used to
// build hashtag and mention links.
func Rules(instance string) []Rule {
	return []Rule{
		newRule("plain", `<plain>(.*)</plain>`, multiline, func(_ string, g []string) string {
			return Escape(g[0])
		}),
		newRule("center", `<center>(.*?)</center>`, multiline, func(_ string, g []string) string {
			return `<div style="text-align: center;">` + g[0] + `</div>`
		}),
		newRule("italic", `<i>([^\r\n]*?)</i>`, singleline, func(_ string, g []string) string {
			return "*" + g[0] + "*"
		}),
		newRule("small", `<small>(.*?)</small>`, multiline, func(_ string, g []string) string {
			return "<sub>" + g[0] + "</sub>"
		}),
		newRule("flip-both", `\$\[flip\.(?=[,hv]*h)(?=[,hv]*v)[hv](?:,?[hv])* `+body+`\]`, multiline,
			span("transform: scale(-1, -1);")),
		newRule("flip-vertical", `\$\[flip\.v(?:,v)* `+lineBody+`\]`, singleline,
			span("transform: scaleY(-1);")),
		newRule("flip-horizontal", `\$\[flip(?:\.h(?:,h)*)? `+lineBody+`\]`, singleline,
			span("transform: scaleX(-1);")),
		newRule("blur", `\$\[blur `+lineBody+`\]`, singleline,
			span("filter: blur(3px);")),
		newRule("hashtag", `(?<![\[/=&\w]|style="[^"]*)`+notInLabel+`#([\p{L}\p{M}_][\w\p{M}\-]*)`, singleline,
			func(_ string, g []string) string {
				return fmt.Sprintf("[#%s](https://%s/tags/%s)", g[0], instance, g[0])
			}),
		newRule("link-no-preview", `\?\[([^\]\r\n]+)\]\(([^)\s]+)\)`, singleline, func(_ string, g []string) string {
			return "[" + g[0] + "](" + g[1] + ")"
		}),
		newRule("mention",
			`(?<![\[/\w]|@[\w\p{M}.\-]+)`+notInLabel+`@([\w\p{M}](?:[\w\p{M}.\-]*[\w\p{M}])?(?:@[a-zA-Z0-9](?:[a-zA-Z0-9.\-]*[a-zA-Z0-9])?)?)`,
			singleline, func(_ string, g []string) string {
				return fmt.Sprintf("[@%s](https://%s/@%s)", g[0], instance, g[0])
			}),
		newRule("ruby", `\$\[ruby ([\w\p{M}\-]+)\s+([\w\p{M}\-]+)\]`, singleline, func(_ string, g []string) string {
			return "<ruby>" + g[0] + " <rp>(</rp><rt>" + g[1] + "</rt><rp>)</rp></ruby>"
		}),
		newRule("color", `\$\[(f|b)g\.color=([0-9a-fA-F]{6}|[0-9a-fA-F]{3,4}) `+body+`\]`, multiline, colorSpan),
		newRule("scale",
			`\$\[(?:x([0-9]+(?:\.[0-9]+)?)|scale\.(?:x=([0-9]+(?:\.[0-9]+)?)(?:,y=([0-9]+(?:\.[0-9]+)?))?|y=([0-9]+(?:\.[0-9]+)?)(?:,x=([0-9]+(?:\.[0-9]+)?))?)) `+body+`\]`,
			multiline, scaleSpan),
		newRule("font", `\$\[font\.(`+fontFamilies+`) `+body+`\]`, multiline, func(_ string, g []string) string {
			return `<span style="font-family: ` + g[0] + `;">` + g[1] + `</span>`
		}),
		newRule("border",
			`\$\[border\.((?:(?:style|width|color|radius)=[0-9A-Za-z]+|noclip)(?:,(?:(?:style|width|color|radius)=[0-9A-Za-z]+|noclip))*) +`+body+`\]`,
			multiline, borderSpan),
	}
}

// span wraps the last capture group in a styled span.
func span(style string) func(string, []string) string {
	return func(_ string, g []string) string {
		return `<span style="` + style + `">` + g[len(g)-1] + `</span>`
	}
}

func colorSpan(_ string, g []string) string {
	property := "color"
	if g[0] == "b" {
		property = "background-color"
	}
	return fmt.Sprintf(`<span style="%s: #%s;">%s</span>`, property, g[1], g[2])
}

// scaleSpan resolves the x and y factors from whichever syntax matched. A
// missing axis takes the value of the given one.
func scaleSpan(_ string, g []string) string {
	x := firstNonEmpty(g[0], g[1], g[4])
	y := firstNonEmpty(g[2], g[3])
	switch {
	case y == "":
		y = x
	case x == "":
		x = y
	}
	return fmt.Sprintf(`<span style="transform: scale(%s, %s);">%s</span>`, x, y, g[5])
}

func borderSpan(_ string, g []string) string {
	opts := map[string]string{
		"style":  defaultBorderStyle,
		"width":  defaultBorderWidth,
		"color":  defaultBorderColor,
		"radius": defaultBorderRadius,
	}
	clip := true
	for _, opt := range strings.Split(g[0], ",") {
		if opt == "noclip" {
			clip = false
			continue
		}
		key, value, _ := strings.Cut(opt, "=")
		opts[key] = value
	}

	var style strings.Builder
	fmt.Fprintf(&style, "border: %spx %s #%s; border-radius: %spx;",
		opts["width"], opts["style"], opts["color"], opts["radius"])
	if clip {
		style.WriteString(" overflow: clip;")
	}
	return `<span style="` + style.String() + `">` + g[1] + `</span>`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
