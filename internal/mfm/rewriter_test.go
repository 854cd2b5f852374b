package mfm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dlclark/regexp2"
)

func TestRewriter_Idempotent(t *testing.T) {
	t.Parallel()

	rw := NewRewriter(Rules("example.org"))
	inputs := []string{
		"hello #world from @alice@example.com",
		"$[x2 $[flip.h,v $[blur deep]]]",
		"<center><i>title</i></center>\n<small>fine print</small>",
		"<plain>*not* **bold** #tag</plain> but #this",
		"$[border.style=dashed,radius=4 $[fg.color=0af boxed]] and $[ruby 漢字 kanji]",
		"?[label](https://example.org/x) $[font.monospace code]",
		"",
	}

	for _, in := range inputs {
		once := rw.Transform(in)
		twice := rw.Transform(once)
		if once != twice {
			t.Errorf("Transform not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestRewriter_CopiesRules(t *testing.T) {
	t.Parallel()

	rules := Rules("example.org")
	rw := NewRewriter(rules)
	rules[0] = newRule("clobber", `.+`, singleline, func(string, []string) string { return "x" })

	if got := rw.Transform("<plain>a</plain>"); got != "a" {
		t.Errorf("Transform() = %q, want %q", got, "a")
	}
}

func TestRewriter_MaxPasses(t *testing.T) {
	t.Parallel()

	grow := newRule("grow", `a`, singleline, func(string, []string) string { return "aa" })
	rw := NewRewriter([]Rule{grow}, WithMaxPasses(5))

	got, err := rw.TransformContext(context.Background(), "a")
	if !errors.Is(err, ErrNoFixpoint) {
		t.Fatalf("TransformContext() error = %v, want ErrNoFixpoint", err)
	}
	if !strings.HasPrefix(got, "aa") {
		t.Errorf("TransformContext() = %q, want partially rewritten text", got)
	}

	if got := rw.Transform("b"); got != "b" {
		t.Errorf("Transform() = %q, want %q", got, "b")
	}
}

func TestRewriter_MaxPassesIgnoresNonPositive(t *testing.T) {
	t.Parallel()

	rw := NewRewriter(Rules("example.org"), WithMaxPasses(-3))
	if rw.maxPasses != 0 {
		t.Errorf("maxPasses = %d, want 0", rw.maxPasses)
	}
}

func TestRewriter_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rw := NewRewriter(Rules("example.org"))
	got, err := rw.TransformContext(ctx, "#tag")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("TransformContext() error = %v, want context.Canceled", err)
	}
	if got != "#tag" {
		t.Errorf("TransformContext() = %q, want input unchanged", got)
	}
}

func TestRewriter_RuleFailure(t *testing.T) {
	t.Parallel()

	re := regexp2.MustCompile(`(a+)+$`, regexp2.None)
	re.MatchTimeout = time.Millisecond
	slow := Rule{Name: "slow", Pattern: re, Replace: func(m string, _ []string) string { return m }}

	input := strings.Repeat("a", 40) + "b"
	got, err := NewRewriter([]Rule{slow}).TransformContext(context.Background(), input)
	if !errors.Is(err, ErrRuleFailed) {
		t.Fatalf("TransformContext() error = %v, want ErrRuleFailed", err)
	}
	if !strings.Contains(err.Error(), "slow") {
		t.Errorf("error %q does not name the rule", err)
	}
	if got != input {
		t.Errorf("TransformContext() = %q, want input unchanged", got)
	}
}

func TestRewriter_ConcurrentUse(t *testing.T) {
	t.Parallel()

	rw := NewRewriter(Rules("example.org"))
	input := "$[x2 #tag] by @bob"
	want := rw.Transform(input)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := rw.Transform(input); got != want {
				t.Errorf("concurrent Transform() = %q, want %q", got, want)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkRewriter_Transform(b *testing.B) {
	rw := NewRewriter(Rules("example.org"))
	input := strings.Repeat("$[x2 $[blur hi]] #tag @bob <i>it</i> plain words ", 20)

	b.ResetTimer()
	for b.Loop() {
		rw.Transform(input)
	}
}
