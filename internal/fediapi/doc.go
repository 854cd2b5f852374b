// Package fediapi is the HTTP boundary to Mastodon- and Misskey-family
// servers.
//
// Client issues JSON requests against https://{instance}{path}. A 429
// response is retried after a fixed delay for as long as the server keeps
// answering 429; the only other way out is context cancellation. Any other
// non-2xx status becomes a *StatusError.
//
// The typed endpoint helpers (Status, Context, Note, Children, Emoji, ...)
// return the server's wire shapes unchanged; mapping into comments belongs to
// the normalize package.
package fediapi
