package pipeline

import "testing"

func TestReplaceEmoji(t *testing.T) {
	t.Parallel()

	emoji := map[string]string{"blobhaj": "https://cdn.example/blobhaj.webp"}
	tag := `<img src="https://cdn.example/blobhaj.webp" class="emoji" alt="Custom emoji: blobhaj">`

	tests := []struct {
		name  string
		input string
		emoji map[string]string
		want  string
	}{
		{name: "bare", input: ":blobhaj:", emoji: emoji, want: tag},
		{name: "double colons", input: "::blobhaj::", emoji: emoji, want: ":" + tag + ":"},
		{name: "inside document", input: "<html><body>:blobhaj:</body></html>", emoji: emoji,
			want: "<html><body>" + tag + "</body></html>"},
		{name: "unknown shortcode", input: ":other:", emoji: emoji, want: ":other:"},
		{name: "attribute untouched", input: `<a title=":blobhaj:">x</a>`, emoji: emoji,
			want: `<a title=":blobhaj:">x</a>`},
		{name: "code untouched", input: "<code>:blobhaj:</code> :blobhaj:", emoji: emoji,
			want: "<code>:blobhaj:</code> " + tag},
		{name: "no emoji map", input: ":blobhaj:", emoji: nil, want: ":blobhaj:"},
		{name: "url escaped", input: ":a_b:", emoji: map[string]string{"a_b": `https://x/"q"&y`},
			want: `<img src="https://x/&#34;q&#34;&amp;y" class="emoji" alt="Custom emoji: a_b">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ReplaceEmoji(tt.input, tt.emoji); got != tt.want {
				t.Errorf("ReplaceEmoji(%q)\n got: %q\nwant: %q", tt.input, got, tt.want)
			}
		})
	}
}
