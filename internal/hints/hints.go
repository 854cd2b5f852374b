// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"
)

// ForNetwork returns hints for failures reaching an instance.
func ForNetwork(instance string) string {
	hints := []string{"check that " + instance + " is reachable"}
	if strings.Contains(instance, "://") || strings.Contains(instance, "/") {
		hints = append(hints, "pass the bare domain, e.g. example.social")
	}
	return formatHints(hints)
}

// ForFlavorDiscovery returns a hint for instances whose software is unknown.
func ForFlavorDiscovery() string {
	return format("set --flavor mastodon or --flavor misskey to skip discovery")
}

// ForTimeout returns a hint about increasing timeout for slow instances.
func ForTimeout() string {
	return format("for slow instances, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a file in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/go-fedicomments/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForMissingPost returns hints when no root post id could be determined.
func ForMissingPost(mapping string) string {
	if mapping == "" {
		return format("pass --post-id, or --page-url with --mapping")
	}
	return format("add the page URL to " + mapping + " or pass --post-id")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
