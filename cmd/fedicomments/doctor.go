package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	flag "github.com/spf13/pflag"

	fedicomments "github.com/alnah/go-fedicomments"
	"github.com/alnah/go-fedicomments/internal/config"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"`
	Config   configInfo   `json:"config"`
	Instance instanceInfo `json:"instance"`
	Env      envInfo      `json:"environment"`
	Output   outputInfo   `json:"output"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

type configInfo struct {
	Source string `json:"source,omitempty"`
	Loaded bool   `json:"loaded"`
}

type instanceInfo struct {
	Host      string `json:"host,omitempty"`
	Reachable bool   `json:"reachable"`
	Flavor    string `json:"flavor,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string   `json:"os"`
	Arch          string   `json:"arch"`
	Container     bool     `json:"container"`
	ContainerHint string   `json:"container_hint,omitempty"`
	CI            bool     `json:"ci"`
	Unknown       []string `json:"unknown_variables,omitempty"`
}

type outputInfo struct {
	Path     string `json:"path"`
	Writable bool   `json:"writable"`
}

type doctorFlags struct {
	common  commonFlags
	network networkFlags
	json    bool
}

func buildDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addNetworkFlags(fs, &f.network)
	fs.BoolVar(&f.json, "json", false, "print JSON")
	return fs
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	f := &doctorFlags{}
	fs := buildDoctorFlagSet(f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { runHelp([]string{"doctor"}, env) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, errHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", usageError(err))
		return ExitUsage
	}

	result := runDoctor(ctx, f, env)

	if f.json {
		if err := writeJSON(env, result); err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return ExitIO
		}
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, f *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	cfg := checkConfig(result, f)
	checkEnvironment(result)
	checkOutput(result, cfg.Output)
	checkInstance(ctx, result, cfg, env)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkConfig loads the config the render command would use. A broken
// config is reported and the checks continue on defaults.
func checkConfig(result *doctorResult, f *doctorFlags) *config.Config {
	envCfg := loadEnvConfig()
	result.Config.Source = f.common.config
	if result.Config.Source == "" {
		result.Config.Source = envCfg.ConfigPath
	}

	cfg, err := loadConfig(f.common.config, envCfg)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		cfg = &config.Config{}
		applyEnvConfig(envCfg, cfg)
	} else {
		result.Config.Loaded = result.Config.Source != ""
	}

	mergeNetworkFlags(f.network, cfg)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
	return cfg
}

// checkEnvironment detects container and CI environments and misspelled
// variables.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	result.Env.Unknown = unknownEnvVars()
	for _, name := range result.Env.Unknown {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Unknown environment variable %s (typo?)", name))
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkOutput verifies the output file's directory accepts new files. A
// directory that does not exist yet is checked at its nearest existing
// parent, since render creates it.
func checkOutput(result *doctorResult, path string) {
	result.Output.Path = path
	if path == stdoutOutput {
		result.Output.Writable = true
		return
	}

	dir := filepath.Dir(path)
	for {
		if _, err := os.Stat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	probe, err := os.CreateTemp(dir, ".fedicomments-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory not writable: %s", dir))
		return
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	result.Output.Writable = true
}

// checkInstance asks the configured instance for its nodeinfo.
func checkInstance(ctx context.Context, result *doctorResult, cfg *config.Config, env *Environment) {
	result.Instance.Host = cfg.Instance
	if cfg.Instance == "" {
		result.Warnings = append(result.Warnings,
			"No instance configured. Pass --instance or set FEDICOMMENTS_INSTANCE")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Network.Timeout)
	defer cancel()

	svc := fedicomments.New(serviceOptions(cfg, newLogger(io.Discard, commonFlags{quiet: true}), env)...)
	flavor, err := svc.DiscoverFlavor(ctx, cfg.Instance)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Instance %s not usable: %v", cfg.Instance, err))
		return
	}
	result.Instance.Reachable = true
	result.Instance.Flavor = flavor.String()

	if cfg.Flavor != "" {
		if configured, err := fedicomments.ParseFlavor(cfg.Flavor); err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else if configured != flavor {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Configured flavor %s but %s reports %s", configured, cfg.Instance, flavor))
		}
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "fedicomments doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration")
	switch {
	case r.Config.Loaded:
		fmt.Fprintf(w, "  [OK] Loaded %s\n", r.Config.Source)
	case r.Config.Source == "":
		fmt.Fprintln(w, "  [OK] No config file, using defaults")
	default:
		fmt.Fprintf(w, "  [ERROR] Could not load %s\n", r.Config.Source)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Instance")
	switch {
	case r.Instance.Host == "":
		fmt.Fprintln(w, "  [WARN] Not configured")
	case r.Instance.Reachable:
		fmt.Fprintf(w, "  [OK] %s reachable\n", r.Instance.Host)
		fmt.Fprintf(w, "  [OK] Flavor: %s\n", r.Instance.Flavor)
	default:
		fmt.Fprintf(w, "  [ERROR] %s unreachable\n", r.Instance.Host)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Output")
	if r.Output.Writable {
		fmt.Fprintf(w, "  [OK] %s: writable\n", r.Output.Path)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s: not writable\n", r.Output.Path)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to render")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
