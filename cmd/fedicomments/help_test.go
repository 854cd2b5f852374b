package main

import (
	"strings"
	"testing"
)

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantStdout string
		wantStderr string
	}{
		{name: "no args", args: nil, wantStdout: "Usage: fedicomments <command>"},
		{name: "render", args: []string{"render"}, wantStdout: "--page-url <url>"},
		{name: "discover", args: []string{"discover"}, wantStdout: "fedicomments discover"},
		{name: "whois", args: []string{"whois"}, wantStdout: "fedicomments whois"},
		{name: "doctor", args: []string{"doctor"}, wantStdout: "fedicomments doctor"},
		{name: "completion", args: []string{"completion"}, wantStdout: "Supported shells"},
		{name: "version", args: []string{"version"}, wantStdout: "fedicomments version"},
		{name: "help", args: []string{"help"}, wantStdout: "fedicomments help"},
		{name: "unknown", args: []string{"publish"}, wantStderr: "Unknown command: publish"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(nil)
			runHelp(tt.args, env)

			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout missing %q:\n%s", tt.wantStdout, stdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, stderr)
			}
		})
	}
}

func TestPrintRenderUsage_ListsEnvironment(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(nil)
	printRenderUsage(env.Stdout)

	for name := range knownEnvVars {
		if !strings.Contains(stdout.String(), name) {
			t.Errorf("render usage does not mention %s", name)
		}
	}
}
