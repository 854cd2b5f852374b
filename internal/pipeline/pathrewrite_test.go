package pipeline

import (
	"strings"
	"testing"
)

func TestResolveRelativeURLs(t *testing.T) {
	t.Parallel()

	const base = "https://mk.example/"

	tests := []struct {
		name         string
		html         string
		base         string
		wantContains []string
	}{
		{
			name:         "relative link",
			html:         `<a href="/notes/abc">note</a>`,
			base:         base,
			wantContains: []string{`href="https://mk.example/notes/abc"`},
		},
		{
			name:         "relative image",
			html:         `<img src="files/a.png">`,
			base:         base,
			wantContains: []string{`src="https://mk.example/files/a.png"`},
		},
		{
			name:         "absolute link unchanged",
			html:         `<a href="https://other.example/x">x</a>`,
			base:         base,
			wantContains: []string{`href="https://other.example/x"`},
		},
		{
			name:         "anchor unchanged",
			html:         `<a href="#top">top</a>`,
			base:         base,
			wantContains: []string{`href="#top"`},
		},
		{
			name:         "protocol relative unchanged",
			html:         `<img src="//cdn.example/a.png">`,
			base:         base,
			wantContains: []string{`src="//cdn.example/a.png"`},
		},
		{
			name:         "empty base returns unchanged",
			html:         `<a href="/notes/abc">note</a>`,
			base:         "",
			wantContains: []string{`href="/notes/abc"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveRelativeURLs(tt.html, tt.base)
			if err != nil {
				t.Fatalf("ResolveRelativeURLs() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ResolveRelativeURLs(%q) = %q, want it to contain %q", tt.html, got, want)
				}
			}
		})
	}
}
