package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-fedicomments/internal/config"
	"github.com/alnah/go-fedicomments/internal/fileutil"
	"github.com/alnah/go-fedicomments/internal/hints"
	"github.com/alnah/go-fedicomments/internal/yamlutil"
)

// indexPage is the file name a directory URL stands for.
const indexPage = "index.html"

// loadMapping reads a JSON (or YAML) object mapping page URLs to post ids.
// Numeric ids are accepted and kept as their decimal form.
func loadMapping(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- mapping path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadMapping, err)
	}

	var raw map[string]any
	if err := yamlutil.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadMapping, path, err)
	}

	mapping := make(map[string]string, len(raw))
	for pageURL, v := range raw {
		switch id := v.(type) {
		case nil:
			continue
		case string:
			mapping[pageURL] = id
		default:
			mapping[pageURL] = fmt.Sprint(id)
		}
	}
	return mapping, nil
}

// pageURLCandidates lists the keys tried for pageURL: itself, then its
// directory or index.html form.
func pageURLCandidates(pageURL string) []string {
	candidates := []string{pageURL}
	switch {
	case strings.HasSuffix(pageURL, "/"+indexPage):
		candidates = append(candidates, strings.TrimSuffix(pageURL, indexPage))
	case strings.HasSuffix(pageURL, "/"):
		candidates = append(candidates, pageURL+indexPage)
	}
	return candidates
}

// resolvePostID returns cfg.PostID, or looks cfg.PageURL up in cfg.Mapping.
func resolvePostID(cfg *config.Config) (string, error) {
	if cfg.PostID != "" {
		return cfg.PostID, nil
	}
	if cfg.Mapping == "" || cfg.PageURL == "" {
		return "", fmt.Errorf("%w%s", ErrNoPostID, hints.ForMissingPost(cfg.Mapping))
	}
	if !fileutil.IsURL(cfg.PageURL) {
		return "", fmt.Errorf("%w: page URL %q must start with http:// or https://", ErrUsage, cfg.PageURL)
	}

	mapping, err := loadMapping(cfg.Mapping)
	if err != nil {
		return "", err
	}
	for _, key := range pageURLCandidates(cfg.PageURL) {
		if id := mapping[key]; id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s is not in %s%s", ErrNoPostID, cfg.PageURL, cfg.Mapping, hints.ForMissingPost(cfg.Mapping))
}
