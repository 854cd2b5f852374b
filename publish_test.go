package fedicomments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-fedicomments/internal/dateutil"
)

func sampleThread() *Thread {
	return &Thread{
		Instance: "social.example",
		Flavor:   Mastodon,
		Root:     Comment{ID: "100", URL: "https://social.example/@alice/100"},
		Replies: []Comment{
			{
				ID:      "102",
				ReplyID: "101",
				URL:     "https://social.example/@bob/102",
				Date:    testTime.Add(2 * time.Minute),
				Content: "<p>second</p>",
				User:    User{Handle: "@bob@social.example", DisplayName: "Bob", Name: "Bob"},
			},
			{
				ID:        "101",
				ReplyID:   "100",
				URL:       "https://social.example/@alice/101",
				Date:      testTime.Add(time.Minute),
				Content:   "<p>first</p>",
				Reactions: map[string]int{DefaultReaction: 4},
				User:      User{Handle: "@alice@social.example", DisplayName: "Alice", Name: "Alice", AvatarURL: "https://social.example/a.png"},
			},
		},
	}
}

func TestPublish_Fragment(t *testing.T) {
	t.Parallel()

	out, err := Publish(context.Background(), sampleThread(), &Stats{Reactions: 7, Boosts: 3}, PublishOptions{})
	if err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}

	for _, want := range []string{
		`<div class="comments-info">`,
		`<span id="global-likes">7</span>`,
		`<span id="global-reblogs">3</span>`,
		`<div id="comments-section" data-defer="true">`,
		`id="101"`,
		`src="_static/boost.svg"`,
		`src="https://social.example/a.png"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Publish() output missing %q", want)
		}
	}
	if strings.Contains(out, "<html") {
		t.Error("fragment output should not contain a document")
	}
	// 102 replies to 101, so it is nested after it.
	if strings.Index(out, `id="101"`) > strings.Index(out, `id="102"`) {
		t.Error("reply 102 rendered before its parent 101")
	}
}

func TestPublish_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		opts        PublishOptions
		stats       *Stats
		wantContain []string
		wantAbsent  []string
	}{
		{
			name:        "eager drops defer marker",
			opts:        PublishOptions{Eager: true},
			wantContain: []string{`<div id="comments-section">`},
			wantAbsent:  []string{`data-defer`},
		},
		{
			name:       "no stats block without stats",
			wantAbsent: []string{`comments-info`},
		},
		{
			name:       "hide avatars",
			opts:       PublishOptions{HideAvatars: true},
			wantAbsent: []string{`https://social.example/a.png`},
		},
		{
			name:        "custom boost icon",
			opts:        PublishOptions{BoostIcon: "/img/boost.png"},
			stats:       &Stats{},
			wantContain: []string{`src="/img/boost.png"`},
		},
		{
			name:        "inline boost icon",
			opts:        PublishOptions{InlineBoostIcon: true},
			stats:       &Stats{},
			wantContain: []string{`src="data:image/svg+xml;base64,`},
			wantAbsent:  []string{`_static/boost.svg`},
		},
		{
			name:        "date format",
			opts:        PublishOptions{DateFormat: "DD/MM/YYYY"},
			wantContain: []string{`01/03/2024`},
		},
		{
			name:        "page wraps section",
			opts:        PublishOptions{Page: true, Title: "Thread"},
			stats:       &Stats{Reactions: 1},
			wantContain: []string{`<!DOCTYPE html>`, `<title>Thread</title>`, `<style>`, `https://social.example/@alice/100`, `global-likes`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Publish(context.Background(), sampleThread(), tt.stats, tt.opts)
			if err != nil {
				t.Fatalf("Publish() unexpected error: %v", err)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q", want)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(out, absent) {
					t.Errorf("output should not contain %q", absent)
				}
			}
		})
	}
}

func TestPublish_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid date format", func(t *testing.T) {
		t.Parallel()

		_, err := Publish(context.Background(), sampleThread(), nil, PublishOptions{DateFormat: strings.Repeat("Y", 100)})
		if !errors.Is(err, dateutil.ErrInvalidDateFormat) {
			t.Errorf("Publish() error = %v, want ErrInvalidDateFormat", err)
		}
	})

	t.Run("missing asset path", func(t *testing.T) {
		t.Parallel()

		_, err := Publish(context.Background(), sampleThread(), nil, PublishOptions{AssetPath: "/nonexistent/assets/dir"})
		if err == nil {
			t.Error("Publish() with missing asset path: expected error")
		}
	})

	t.Run("cancelled page render", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Publish(ctx, sampleThread(), nil, PublishOptions{Page: true})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Publish() error = %v, want context.Canceled", err)
		}
	})
}

func TestPublish_NilThread(t *testing.T) {
	t.Parallel()

	out, err := Publish(context.Background(), nil, nil, PublishOptions{})
	if err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}
	if !strings.Contains(out, `id="comments-section"`) {
		t.Errorf("Publish() = %q, want an empty section", out)
	}
}
