package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	fedicomments "github.com/alnah/go-fedicomments"
	"github.com/alnah/go-fedicomments/internal/config"
	"github.com/alnah/go-fedicomments/internal/fileutil"
	"github.com/alnah/go-fedicomments/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrNoInstance  = errors.New("no instance specified")
	ErrNoPostID    = errors.New("no post id specified")
	ErrReadMapping = errors.New("failed to read mapping file")
	ErrWriteOutput = errors.New("failed to write output")
)

// stdoutOutput selects standard output instead of a file.
const stdoutOutput = "-"

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// runRender fetches one thread and writes its HTML.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env)
	if err != nil {
		return usageError(err)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected at most one post id, got %d arguments", ErrUsage, len(positional))
	}

	logger := newLogger(env.Stderr, flags.common)
	warnUnknownEnvVars(logger)

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}
	mergeFlags(flags, positional, cfg)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Instance == "" {
		return fmt.Errorf("%w: use --instance or set instance in the config file", ErrNoInstance)
	}

	postID, err := resolvePostID(cfg)
	if err != nil {
		return err
	}

	start := env.Now()
	log := logger.WithFields(logrus.Fields{"instance": cfg.Instance, "post": postID})
	svc := fedicomments.New(serviceOptions(cfg, logger, env)...)

	flavor, err := resolveFlavor(ctx, svc, cfg)
	if err != nil {
		return err
	}

	d := fedicomments.NewDispatcher(ctx, logger)
	var statsResult *fedicomments.StatsResult
	if !flags.out.noStats {
		statsResult = svc.StatsInBackground(d, cfg.Instance, flavor, postID)
	}

	thread, err := svc.Thread(ctx, cfg.Instance, flavor, postID)
	if err != nil {
		_ = d.Wait()
		return networkError(err, cfg.Instance)
	}
	log.WithField("replies", len(thread.Replies)).Debug("thread fetched")

	// Stats failures were logged by the dispatcher; the page renders without them.
	_ = d.Wait()
	var stats *fedicomments.Stats
	if statsResult != nil {
		if s, ok := statsResult.Get(); ok {
			stats = &s
		}
	}

	out, err := fedicomments.Publish(ctx, thread, stats, publishOptions(cfg, logger))
	if err != nil {
		return err
	}

	if err := writeOutput(cfg.Output, out, env); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"replies": len(thread.Replies),
		"output":  cfg.Output,
		"elapsed": env.Now().Sub(start).Round(time.Millisecond),
	}).Info("comments written")
	return nil
}

// loadConfig loads the named config file, falling back to the
// FEDICOMMENTS_CONFIG variable, then applies environment overrides. Without
// any file the result starts empty.
func loadConfig(name string, envCfg *envConfig) (*config.Config, error) {
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := &config.Config{}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// serviceOptions translates cfg into library options.
func serviceOptions(cfg *config.Config, logger logrus.FieldLogger, env *Environment) []fedicomments.Option {
	opts := []fedicomments.Option{
		fedicomments.WithTimeout(cfg.Network.Timeout),
		fedicomments.WithRetryDelay(cfg.Network.RetryDelay),
		fedicomments.WithUserAgent(cfg.Network.UserAgent),
		fedicomments.WithWorkers(cfg.Workers),
		fedicomments.WithMaxDepth(cfg.MaxDepth),
		fedicomments.WithCustomEmoji(cfg.Render.CustomEmoji()),
		fedicomments.WithSensitiveEmoji(cfg.Render.SensitiveEmoji()),
		fedicomments.WithDefaultReaction(cfg.Render.DefaultReactionEmoji),
		fedicomments.WithLogger(logger),
	}
	if env.HTTPClient != nil {
		opts = append(opts, fedicomments.WithHTTPClient(env.HTTPClient))
	}
	return opts
}

// publishOptions translates cfg into rendering options.
func publishOptions(cfg *config.Config, logger logrus.FieldLogger) fedicomments.PublishOptions {
	return fedicomments.PublishOptions{
		BoostIcon:          cfg.Render.BoostLink,
		InlineBoostIcon:    cfg.Render.InlineBoostIcon,
		DateFormat:         cfg.Render.DateFormat,
		Reaction:           cfg.Render.DefaultReactionEmoji,
		HideAvatars:        !cfg.Render.Avatars(),
		HideMedia:          !cfg.Render.Media(),
		DisableCustomEmoji: !cfg.Render.CustomEmoji(),
		Eager:              !cfg.Render.Defer(),
		Page:               cfg.Page,
		Title:              cfg.Title,
		AssetPath:          cfg.Assets.BasePath,
		Logger:             logger,
	}
}

// resolveFlavor parses the configured flavor or discovers it once, so the
// stats and thread fetches do not both query nodeinfo.
func resolveFlavor(ctx context.Context, svc *fedicomments.Service, cfg *config.Config) (fedicomments.Flavor, error) {
	if cfg.Flavor != "" {
		return fedicomments.ParseFlavor(cfg.Flavor)
	}
	flavor, err := svc.DiscoverFlavor(ctx, cfg.Instance)
	if err != nil {
		if errors.Is(err, fedicomments.ErrUnknownFlavor) {
			return "", fmt.Errorf("%w%s", err, hints.ForFlavorDiscovery())
		}
		return "", networkError(err, cfg.Instance)
	}
	return flavor, nil
}

// networkError appends the hint matching err.
func networkError(err error, instance string) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	default:
		return fmt.Errorf("%w%s", err, hints.ForNetwork(instance))
	}
}

// writeOutput writes content to path, or to stdout for "-". Files are
// replaced atomically and missing parent directories are created.
func writeOutput(path, content string, env *Environment) error {
	if path == stdoutOutput {
		if _, err := fmt.Fprintln(env.Stdout, content); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
		}
	}
	if err := fileutil.WriteFileAtomic(path, []byte(content+"\n"), filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// usageError marks flag parsing failures as usage errors. --help passes
// through unchanged.
func usageError(err error) error {
	if errors.Is(err, errHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
