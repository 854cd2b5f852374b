// Package pipeline turns comment bodies into safe HTML fragments.
//
// Stages, in the order they run for Misskey notes:
//   - Preprocess normalizes line endings and blank lines
//   - Markdown converts the rewritten markup to HTML via Goldmark
//   - ResolveRelativeURLs anchors relative links on the origin instance
//   - ReplaceEmoji swaps :shortcode: tokens in text nodes for <img> tags
//   - Sanitizer strips active content with a bluemonday policy
//
// Mastodon content is already HTML and enters at the emoji stage. Pipeline
// bundles the stages behind FromMarkdown, FromHTML and FromText.
//
// AddStylesheet is used when a rendered section is wrapped into a full page.
package pipeline
