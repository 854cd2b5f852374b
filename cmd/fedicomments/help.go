package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fedicomments <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render      Fetch a thread and write its comments as HTML")
	fmt.Fprintln(w, "  discover    Show which API family an instance speaks")
	fmt.Fprintln(w, "  whois       Look up a user's profile through an instance")
	fmt.Fprintln(w, "  doctor      Check configuration and instance reachability")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'fedicomments help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fedicomments render [post-id] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fetch the replies to a fediverse post and write them as an HTML comment section.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  post-id    Root post id (optional with --post-id, or --page-url and --mapping)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Instance:")
	fmt.Fprintln(w, "  -i, --instance <host>     Instance domain, e.g. example.social")
	fmt.Fprintln(w, "  -f, --flavor <s>          mastodon or misskey (default: discover via nodeinfo)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent requests (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-request timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --retry-delay <d>     Wait between rate-limited retries")
	fmt.Fprintln(w, "      --user-agent <s>      User-Agent header")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Thread:")
	fmt.Fprintln(w, "  -p, --post-id <id>        Root post id")
	fmt.Fprintln(w, "      --page-url <url>      Page URL to look up in the mapping file")
	fmt.Fprintln(w, "  -m, --mapping <path>      JSON file mapping page URLs to post ids")
	fmt.Fprintln(w, "      --max-depth <n>       Reply levels to follow on Misskey")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Display:")
	fmt.Fprintln(w, "      --boost-icon <url>    Boost icon URL (default: _static/boost.svg)")
	fmt.Fprintln(w, "      --inline-icon         Embed the boost icon as a data URI")
	fmt.Fprintln(w, "      --date-format <s>     Tokens: YYYY, MM, DD, HH, mm, ss")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "      --reaction <s>        Symbol for likes")
	fmt.Fprintln(w, "      --no-avatars          Do not render avatars")
	fmt.Fprintln(w, "      --no-media            Do not render image attachments")
	fmt.Fprintln(w, "      --no-custom-emoji     Keep :shortcode: text")
	fmt.Fprintln(w, "      --sensitive-emoji     Show emoji marked sensitive")
	fmt.Fprintln(w, "      --eager               Drop the deferred-load marker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file, \"-\" for stdout (default: comments.html)")
	fmt.Fprintln(w, "      --page                Write a complete HTML page with stylesheet")
	fmt.Fprintln(w, "      --title <s>           Page title")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles, templates and icons")
	fmt.Fprintln(w, "      --no-stats            Skip the likes and boosts block")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  FEDICOMMENTS_CONFIG, FEDICOMMENTS_INSTANCE, FEDICOMMENTS_FLAVOR,")
	fmt.Fprintln(w, "  FEDICOMMENTS_POST_ID, FEDICOMMENTS_MAPPING, FEDICOMMENTS_PAGE_URL,")
	fmt.Fprintln(w, "  FEDICOMMENTS_OUTPUT, FEDICOMMENTS_ASSET_PATH, FEDICOMMENTS_USER_AGENT,")
	fmt.Fprintln(w, "  FEDICOMMENTS_TIMEOUT, FEDICOMMENTS_WORKERS, FEDICOMMENTS_MAX_DEPTH")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "discover":
		fmt.Fprintln(env.Stdout, "Usage: fedicomments discover [instance] [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Read the instance's nodeinfo and print mastodon or misskey.")
	case "whois":
		fmt.Fprintln(env.Stdout, "Usage: fedicomments whois <@name@host> --instance <host> [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Look a handle up through an instance and print its profile URL and server software.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: fedicomments doctor [--config <name>] [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the config file, environment, output directory and instance.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: fedicomments version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: fedicomments help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
