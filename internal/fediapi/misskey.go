package fediapi

import (
	"context"
	"fmt"
	"strings"
)

// pageLimit is the largest page Misskey serves for note listings.
const pageLimit = 100

type noteQuery struct {
	NoteID string `json:"noteId"`
	Limit  int    `json:"limit,omitempty"`
}

// Note fetches one Misskey note.
func (c *Client) Note(ctx context.Context, instance, id string) (*Note, error) {
	var n Note
	if err := c.PostJSON(ctx, instance, "/api/notes/show", noteQuery{NoteID: id}, &n); err != nil {
		return nil, fmt.Errorf("fetching note %s: %w", id, err)
	}
	return &n, nil
}

// Children fetches the direct replies and quotes of a note.
func (c *Client) Children(ctx context.Context, instance, id string) ([]Note, error) {
	var notes []Note
	if err := c.PostJSON(ctx, instance, "/api/notes/children", noteQuery{NoteID: id, Limit: pageLimit}, &notes); err != nil {
		return nil, fmt.Errorf("fetching children of %s: %w", id, err)
	}
	return notes, nil
}

// Renotes fetches the renotes of a note.
func (c *Client) Renotes(ctx context.Context, instance, id string) ([]Note, error) {
	var notes []Note
	if err := c.PostJSON(ctx, instance, "/api/notes/renotes", noteQuery{NoteID: id, Limit: pageLimit}, &notes); err != nil {
		return nil, fmt.Errorf("fetching renotes of %s: %w", id, err)
	}
	return notes, nil
}

// ShowUser fetches a user by username and host. An empty host means a local
// user.
func (c *Client) ShowUser(ctx context.Context, instance, username, host string) (*UserDetail, error) {
	body := map[string]any{"username": username}
	if host != "" {
		body["host"] = host
	}
	var u UserDetail
	if err := c.PostJSON(ctx, instance, "/api/users/show", body, &u); err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", username, err)
	}
	return &u, nil
}

// Emoji fetches the details of one custom emoji.
func (c *Client) Emoji(ctx context.Context, instance, name string) (*EmojiDetail, error) {
	var e EmojiDetail
	if err := c.PostJSON(ctx, instance, "/api/emoji", map[string]string{"name": name}, &e); err != nil {
		return nil, fmt.Errorf("fetching emoji %s: %w", name, err)
	}
	return &e, nil
}

// QueryUserMisskey looks a handle up through a Misskey server. The software
// name comes from the user's instance record and defaults to misskey.
func (c *Client) QueryUserMisskey(ctx context.Context, instance, handle string) (*UserInfo, error) {
	username, host, err := SplitHandle(handle)
	if err != nil {
		return nil, err
	}
	u, err := c.ShowUser(ctx, instance, username, host)
	if err != nil {
		return nil, err
	}

	info := &UserInfo{URL: u.URL, Software: "misskey"}
	if u.Instance != nil && u.Instance.SoftwareName != "" {
		info.Software = u.Instance.SoftwareName
	}
	if info.URL == "" {
		if host == "" {
			host = instance
		}
		info.URL = "https://" + host + "/@" + username
	}
	return info, nil
}

// SplitHandle splits "@name@host" or "@name" (the leading @ is optional).
func SplitHandle(handle string) (username, host string, err error) {
	rest := strings.TrimPrefix(handle, "@")
	username, host, _ = strings.Cut(rest, "@")
	if username == "" || strings.Contains(host, "@") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidHandle, handle)
	}
	return username, host, nil
}
