package main

import (
	"context"
	"encoding/json"
	"fmt"

	fedicomments "github.com/alnah/go-fedicomments"
	"github.com/alnah/go-fedicomments/internal/config"
)

// lookupConfig resolves config, env and network flags for the lookup
// commands. instance, when not empty, overrides every other source.
func lookupConfig(flags *lookupFlags, instance string) (*config.Config, error) {
	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return nil, err
	}
	mergeNetworkFlags(flags.network, cfg)
	setString(&cfg.Instance, instance)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Instance == "" {
		return nil, fmt.Errorf("%w: pass an instance domain", ErrNoInstance)
	}
	return cfg, nil
}

// runDiscover prints the API family of an instance.
func runDiscover(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseLookupFlags("discover", args, env)
	if err != nil {
		return usageError(err)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: discover takes one instance", ErrUsage)
	}
	var instance string
	if len(positional) == 1 {
		instance = positional[0]
	}

	cfg, err := lookupConfig(flags, instance)
	if err != nil {
		return err
	}
	logger := newLogger(env.Stderr, flags.common)
	svc := fedicomments.New(serviceOptions(cfg, logger, env)...)

	flavor, err := resolveFlavor(ctx, svc, &config.Config{Instance: cfg.Instance})
	if err != nil {
		return err
	}

	if flags.json {
		return writeJSON(env, map[string]string{"instance": cfg.Instance, "flavor": flavor.String()})
	}
	fmt.Fprintf(env.Stdout, "%s: %s\n", cfg.Instance, flavor)
	return nil
}

// runWhois prints the profile URL and server software of a handle, looked
// up through the configured instance.
func runWhois(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseLookupFlags("whois", args, env)
	if err != nil {
		return usageError(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: whois takes one handle, e.g. @name@example.social", ErrUsage)
	}

	cfg, err := lookupConfig(flags, "")
	if err != nil {
		return err
	}
	logger := newLogger(env.Stderr, flags.common)
	svc := fedicomments.New(serviceOptions(cfg, logger, env)...)

	info, err := svc.QueryUser(ctx, cfg.Instance, fedicomments.Flavor(cfg.Flavor), positional[0])
	if err != nil {
		return networkError(err, cfg.Instance)
	}

	if flags.json {
		return writeJSON(env, map[string]string{
			"handle":   positional[0],
			"url":      info.URL,
			"software": info.Software,
			"flavor":   info.Flavor.String(),
		})
	}
	fmt.Fprintf(env.Stdout, "%s\n  profile:  %s\n  software: %s\n", positional[0], info.URL, info.Software)
	return nil
}

func writeJSON(env *Environment, v any) error {
	enc := json.NewEncoder(env.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
