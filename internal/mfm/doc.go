// Package mfm converts Misskey Flavored Markup into conventional Markdown
// with inline HTML.
//
// The conversion is a small rule interpreter:
//
//   - Escape turns a raw fragment into inert text (used by <plain> blocks).
//   - Rules returns the ordered rule table for one origin instance. Each Rule
//     pairs a pattern with a replacement function and targets one construct.
//   - Rewriter applies every rule to its own fixpoint, then repeats the whole
//     pass until nothing changes.
//
// Patterns use github.com/dlclark/regexp2 because several constructs need
// lookahead (flip directions) or lookbehind (hashtags and mentions that are
// already part of a link).
//
// Termination relies on an authoring invariant: no rule may produce text that
// matches its own pattern or the pattern of any rule that can reach it again.
// Rewriter does not enforce this unless WithMaxPasses is set.
package mfm
