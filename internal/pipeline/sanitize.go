package pipeline

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	hexColor    = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)
	transform   = regexp.MustCompile(`^scale[XY]?\(\s*-?[0-9]+(\.[0-9]+)?(\s*,\s*-?[0-9]+(\.[0-9]+)?)?\s*\)$`)
	blurFilter  = regexp.MustCompile(`^blur\([0-9]+px\)$`)
	borderValue = regexp.MustCompile(`^[0-9]+px [a-z]+ #[0-9a-fA-F]{3,8}$`)
	pixels      = regexp.MustCompile(`^[0-9]+px$`)
	classNames  = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)
)

// Sanitizer strips active content from HTML fragments. It is safe for
// concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a Sanitizer built on bluemonday's UGC policy and
// extended with the elements and inline styles produced by the markup
// rewriter, chroma's highlight classes and custom emoji images.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AddTargetBlankToFullyQualifiedLinks(true)

	p.AllowElements("ruby", "rt", "rp", "sub", "sup", "details", "summary", "div", "span", "mark")
	p.AllowAttrs("class").Matching(classNames).OnElements("img", "span", "pre", "code", "div")

	p.AllowStyles("text-align").MatchingEnum("center", "left", "right").OnElements("div", "span", "p")
	p.AllowStyles("transform").Matching(transform).OnElements("span")
	p.AllowStyles("filter").Matching(blurFilter).OnElements("span")
	p.AllowStyles("color", "background-color").Matching(hexColor).OnElements("span")
	p.AllowStyles("font-family").MatchingEnum("serif", "sans-serif", "monospace", "cursive", "fantasy").OnElements("span")
	p.AllowStyles("border").Matching(borderValue).OnElements("span")
	p.AllowStyles("border-radius").Matching(pixels).OnElements("span")
	p.AllowStyles("overflow").MatchingEnum("clip").OnElements("span")

	return &Sanitizer{policy: p}
}

// Sanitize returns fragment with everything outside the policy removed.
func (s *Sanitizer) Sanitize(fragment string) string {
	return s.policy.Sanitize(fragment)
}
