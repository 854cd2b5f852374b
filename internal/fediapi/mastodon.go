package fediapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Status fetches one Mastodon status.
func (c *Client) Status(ctx context.Context, instance, id string) (*Status, error) {
	var s Status
	if err := c.GetJSON(ctx, instance, "/api/v1/statuses/"+url.PathEscape(id), nil, &s); err != nil {
		return nil, fmt.Errorf("fetching status %s: %w", id, err)
	}
	return &s, nil
}

// StatusContext fetches the ancestors and all descendants of a status.
func (c *Client) StatusContext(ctx context.Context, instance, id string) (*Context, error) {
	var tc Context
	if err := c.GetJSON(ctx, instance, "/api/v1/statuses/"+url.PathEscape(id)+"/context", nil, &tc); err != nil {
		return nil, fmt.Errorf("fetching context of %s: %w", id, err)
	}
	return &tc, nil
}

// LookupAccount resolves an acct (user or user@host) on a Mastodon server.
func (c *Client) LookupAccount(ctx context.Context, instance, acct string) (*Account, error) {
	var a Account
	q := url.Values{"acct": {strings.TrimPrefix(acct, "@")}}
	if err := c.GetJSON(ctx, instance, "/api/v1/accounts/lookup", q, &a); err != nil {
		return nil, fmt.Errorf("looking up %s: %w", acct, err)
	}
	return &a, nil
}

// QueryUserMastodon looks a handle up through a Mastodon server and reports
// the profile URL and the software of the server hosting the profile.
func (c *Client) QueryUserMastodon(ctx context.Context, instance, handle string) (*UserInfo, error) {
	a, err := c.LookupAccount(ctx, instance, handle)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(a.URL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: profile URL %q", ErrDecode, a.URL)
	}
	ni, err := c.NodeInfo(ctx, u.Host)
	if err != nil {
		return nil, err
	}
	return &UserInfo{URL: a.URL, Software: ni.Software.Name}, nil
}
