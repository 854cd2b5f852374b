package mfm

import "errors"

var (
	// ErrRuleFailed wraps a pattern engine failure (for example a match
	// timeout) together with the name of the rule that hit it.
	ErrRuleFailed = errors.New("rewrite rule failed")

	// ErrNoFixpoint is returned when the iteration limit set with
	// WithMaxPasses is exhausted before the text stopped changing.
	ErrNoFixpoint = errors.New("rewrite did not reach a fixpoint")
)
