package fediapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	wellKnownNodeInfo = "/.well-known/nodeinfo"
	fallbackNodeInfo  = "/nodeinfo/2.0"
	nodeInfoSchema    = "http://nodeinfo.diaspora.software/ns/schema/2."
)

type nodeInfoIndex struct {
	Links []struct {
		Rel  string `json:"rel"`
		Href string `json:"href"`
	} `json:"links"`
}

// NodeInfo discovers and fetches the nodeinfo 2.x document of instance. The
// advertised document is preferred; /nodeinfo/2.0 is the fallback.
func (c *Client) NodeInfo(ctx context.Context, instance string) (*NodeInfo, error) {
	path := fallbackNodeInfo

	var idx nodeInfoIndex
	err := c.GetJSON(ctx, instance, wellKnownNodeInfo, nil, &idx)
	switch {
	case err == nil:
		if p, ok := pickNodeInfo(idx, instance); ok {
			path = p
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	default:
		c.logger.WithError(err).WithField("instance", instance).Debug("nodeinfo index unavailable")
	}

	var ni NodeInfo
	if err := c.do(ctx, http.MethodGet, endpoint(instance, path), nil, &ni); err != nil {
		return nil, fmt.Errorf("fetching nodeinfo of %s: %w", instance, err)
	}
	ni.Software.Name = strings.ToLower(ni.Software.Name)
	return &ni, nil
}

// pickNodeInfo returns the path of the newest 2.x document hosted on
// instance. Links to other hosts are ignored.
func pickNodeInfo(idx nodeInfoIndex, instance string) (string, bool) {
	best, bestRel := "", ""
	for _, l := range idx.Links {
		if !strings.HasPrefix(l.Rel, nodeInfoSchema) {
			continue
		}
		u, err := url.Parse(l.Href)
		if err != nil || (u.Host != "" && u.Host != instance) {
			continue
		}
		if l.Rel > bestRel {
			best, bestRel = u.RequestURI(), l.Rel
		}
	}
	return best, best != ""
}
