package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-fedicomments/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// networkFlags holds flags that select and reach an instance.
type networkFlags struct {
	instance   string
	flavor     string
	workers    int
	timeout    time.Duration
	retryDelay time.Duration
	userAgent  string
}

// threadFlags select the root post.
type threadFlags struct {
	postID   string
	pageURL  string
	mapping  string
	maxDepth int
}

// displayFlags hold rendering switches. Negative switches only take effect
// when given, so the config file keeps control otherwise.
type displayFlags struct {
	boostIcon      string
	inlineIcon     bool
	dateFormat     string
	reaction       string
	noAvatars      bool
	noMedia        bool
	noCustomEmoji  bool
	sensitiveEmoji bool
	eager          bool
}

// outputFlags hold what is written and where.
type outputFlags struct {
	output    string
	page      bool
	title     string
	assetPath string
	noStats   bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common  commonFlags
	network networkFlags
	thread  threadFlags
	display displayFlags
	out     outputFlags

	fs *flag.FlagSet
}

// changed reports whether the named flag was given on the command line.
func (f *renderFlags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addNetworkFlags adds instance and HTTP flags to a FlagSet.
func addNetworkFlags(fs *flag.FlagSet, f *networkFlags) {
	fs.StringVarP(&f.instance, "instance", "i", "", "instance domain, e.g. example.social")
	fs.StringVarP(&f.flavor, "flavor", "f", "", "mastodon or misskey (\"\" = discover)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent requests (0 = auto)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-request timeout (e.g., 30s, 2m)")
	fs.DurationVar(&f.retryDelay, "retry-delay", 0, "wait between rate-limited retries")
	fs.StringVar(&f.userAgent, "user-agent", "", "User-Agent header")
}

// addThreadFlags adds root post selection flags to a FlagSet.
func addThreadFlags(fs *flag.FlagSet, f *threadFlags) {
	fs.StringVarP(&f.postID, "post-id", "p", "", "root post id")
	fs.StringVar(&f.pageURL, "page-url", "", "page URL to look up in the mapping file")
	fs.StringVarP(&f.mapping, "mapping", "m", "", "JSON file mapping page URLs to post ids")
	fs.IntVar(&f.maxDepth, "max-depth", 0, fmt.Sprintf("reply levels to follow on Misskey (1-%d)", config.MaxDepthLimit))
}

// addDisplayFlags adds rendering flags to a FlagSet.
func addDisplayFlags(fs *flag.FlagSet, f *displayFlags) {
	fs.StringVar(&f.boostIcon, "boost-icon", "", "boost icon URL")
	fs.BoolVar(&f.inlineIcon, "inline-icon", false, "embed the boost icon as a data URI")
	fs.StringVar(&f.dateFormat, "date-format", "", "date tokens or preset: iso, european, us, long")
	fs.StringVar(&f.reaction, "reaction", "", "symbol for likes")
	fs.BoolVar(&f.noAvatars, "no-avatars", false, "do not render avatars")
	fs.BoolVar(&f.noMedia, "no-media", false, "do not render image attachments")
	fs.BoolVar(&f.noCustomEmoji, "no-custom-emoji", false, "keep :shortcode: text")
	fs.BoolVar(&f.sensitiveEmoji, "sensitive-emoji", false, "show emoji marked sensitive")
	fs.BoolVar(&f.eager, "eager", false, "drop the deferred-load marker")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file (\"-\" = stdout)")
	fs.BoolVar(&f.page, "page", false, "write a complete HTML page with stylesheet")
	fs.StringVar(&f.title, "title", "", "page title")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStats, "no-stats", false, "skip the likes and boosts block")
}

// buildRenderFlagSet registers every render flag on a new FlagSet.
func buildRenderFlagSet(f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addNetworkFlags(fs, &f.network)
	addThreadFlags(fs, &f.thread)
	addDisplayFlags(fs, &f.display)
	addOutputFlags(fs, &f.out)
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, env *Environment) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := buildRenderFlagSet(f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printRenderUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.fs = fs
	return f, fs.Args(), nil
}

// lookupFlags holds flags for the discover and whois commands.
type lookupFlags struct {
	common  commonFlags
	network networkFlags
	json    bool
}

// buildLookupFlagSet registers the flags shared by discover and whois.
func buildLookupFlagSet(name string, f *lookupFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addNetworkFlags(fs, &f.network)
	fs.BoolVar(&f.json, "json", false, "print JSON")
	return fs
}

// parseLookupFlags parses discover or whois flags and returns positional args.
func parseLookupFlags(name string, args []string, env *Environment) (*lookupFlags, []string, error) {
	f := &lookupFlags{}
	fs := buildLookupFlagSet(name, f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { runHelp([]string{name}, env) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// mergeNetworkFlags merges network flags into cfg. CLI values win.
func mergeNetworkFlags(f networkFlags, cfg *config.Config) {
	setString(&cfg.Instance, f.instance)
	setString(&cfg.Flavor, f.flavor)
	setString(&cfg.Network.UserAgent, f.userAgent)
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	if f.timeout > 0 {
		cfg.Network.Timeout = f.timeout
	}
	if f.retryDelay > 0 {
		cfg.Network.RetryDelay = f.retryDelay
	}
}

// mergeFlags merges render flags and the optional positional post id into
// cfg. CLI values override config values.
func mergeFlags(f *renderFlags, args []string, cfg *config.Config) {
	mergeNetworkFlags(f.network, cfg)

	setString(&cfg.PostID, f.thread.postID)
	if len(args) > 0 && f.thread.postID == "" {
		cfg.PostID = args[0]
	}
	setString(&cfg.PageURL, f.thread.pageURL)
	setString(&cfg.Mapping, f.thread.mapping)
	if f.thread.maxDepth > 0 {
		cfg.MaxDepth = f.thread.maxDepth
	}

	setString(&cfg.Output, f.out.output)
	setString(&cfg.Title, f.out.title)
	setString(&cfg.Assets.BasePath, f.out.assetPath)
	if f.changed("page") {
		cfg.Page = f.out.page
	}

	r := &cfg.Render
	setString(&r.BoostLink, f.display.boostIcon)
	setString(&r.DateFormat, f.display.dateFormat)
	setString(&r.DefaultReactionEmoji, f.display.reaction)
	if f.changed("inline-icon") {
		r.InlineBoostIcon = f.display.inlineIcon
	}
	if f.changed("no-avatars") {
		r.AllowAvatars = config.Bool(!f.display.noAvatars)
	}
	if f.changed("no-media") {
		r.AllowMediaAttachments = config.Bool(!f.display.noMedia)
	}
	if f.changed("no-custom-emoji") {
		r.AllowCustomEmoji = config.Bool(!f.display.noCustomEmoji)
	}
	if f.changed("sensitive-emoji") {
		r.AllowSensitiveEmoji = config.Bool(f.display.sensitiveEmoji)
	}
	if f.changed("eager") {
		r.DelayCommentLoad = config.Bool(!f.display.eager)
	}
}
