package mfm

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single regexp2 scan. Exceeding it surfaces as
// ErrRuleFailed instead of hanging on pathological input.
const matchTimeout = time.Second

// Rule rewrites one markup construct.
type Rule struct {
	// Name identifies the rule in errors and tests.
	Name string

	// Pattern matches the construct. Capture groups are handed to Replace.
	Pattern *regexp2.Regexp

	// Replace receives the full match and the capture groups (group 1 first;
	// groups that did not participate are empty strings).
	Replace func(match string, groups []string) string
}

// Apply replaces every non-overlapping match in text once, scanning left to
// right. On failure the input is returned unchanged with the error.
func (r Rule) Apply(text string) (string, error) {
	out, err := r.Pattern.ReplaceFunc(text, func(m regexp2.Match) string {
		all := m.Groups()
		groups := make([]string, 0, len(all))
		for i := 1; i < len(all); i++ {
			groups = append(groups, all[i].String())
		}
		return r.Replace(m.String(), groups)
	}, -1, -1)
	if err != nil {
		return text, fmt.Errorf("%w: %s: %v", ErrRuleFailed, r.Name, err)
	}
	return out, nil
}

// newRule compiles pattern and panics on syntax errors; rule tables are
// package-level data, so a bad pattern is a programming error.
func newRule(name, pattern string, opts regexp2.RegexOptions, replace func(string, []string) string) Rule {
	re := regexp2.MustCompile(pattern, opts)
	re.MatchTimeout = matchTimeout
	return Rule{Name: name, Pattern: re, Replace: replace}
}
