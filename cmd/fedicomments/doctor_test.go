package main

// Notes:
// - runDoctor: we test the instance, config and output checks against a
//   fake instance. Container and CI detection depend on the host, so we
//   only check they do not produce errors.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunDoctor - Diagnostic checks
// ---------------------------------------------------------------------------

func TestRunDoctor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.Handler
		args       []string
		wantStatus string
		check      func(t *testing.T, r *doctorResult)
	}{
		{
			name:       "reachable instance",
			handler:    nil,
			args:       []string{"-i", "social.example"},
			wantStatus: statusReady,
			check: func(t *testing.T, r *doctorResult) {
				if !r.Instance.Reachable || r.Instance.Flavor != "mastodon" {
					t.Errorf("Instance = %+v, want reachable mastodon", r.Instance)
				}
			},
		},
		{
			name:       "flavor mismatch warns",
			args:       []string{"-i", "social.example", "-f", "misskey"},
			wantStatus: statusWarnings,
		},
		{
			name:       "no instance warns",
			args:       nil,
			wantStatus: statusWarnings,
			check: func(t *testing.T, r *doctorResult) {
				if r.Instance.Host != "" {
					t.Errorf("Instance.Host = %q, want empty", r.Instance.Host)
				}
			},
		},
		{
			name:       "unreachable instance",
			handler:    http.NotFoundHandler(),
			args:       []string{"-i", "social.example"},
			wantStatus: statusErrors,
		},
		{
			name:       "missing config",
			args:       []string{"-c", "/nonexistent/fedicomments.yaml", "-i", "social.example"},
			wantStatus: statusErrors,
			check: func(t *testing.T, r *doctorResult) {
				if r.Config.Loaded {
					t.Error("Config.Loaded = true for a missing file")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := tt.handler
			if h == nil {
				h = fakeMastodon(t)
			}
			env, _, _ := testEnv(h)
			f := &doctorFlags{}
			if err := buildDoctorFlagSet(f).Parse(tt.args); err != nil {
				t.Fatalf("parsing flags: %v", err)
			}

			r := runDoctor(context.Background(), f, env)
			if r.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q (warnings %v, errors %v)", r.Status, tt.wantStatus, r.Warnings, r.Errors)
			}
			if tt.check != nil {
				tt.check(t, r)
			}
		})
	}
}

func TestRunDoctor_Config(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "blog.yaml")
	content := "instance: social.example\noutput: " + filepath.Join(dir, "out", "comments.html") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	env, _, _ := testEnv(fakeMastodon(t))
	f := &doctorFlags{common: commonFlags{config: path}}
	r := runDoctor(context.Background(), f, env)

	if r.Status != statusReady {
		t.Errorf("Status = %q, want ready (warnings %v, errors %v)", r.Status, r.Warnings, r.Errors)
	}
	if !r.Config.Loaded || r.Config.Source != path {
		t.Errorf("Config = %+v, want loaded from %s", r.Config, path)
	}
	if r.Instance.Host != "social.example" {
		t.Errorf("Instance.Host = %q, want value from config", r.Instance.Host)
	}
	if !r.Output.Writable {
		t.Error("Output.Writable = false for a temp directory")
	}
}

func TestCheckOutput(t *testing.T) {
	t.Parallel()

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		r := &doctorResult{}
		checkOutput(r, stdoutOutput)
		if !r.Output.Writable || len(r.Errors) != 0 {
			t.Errorf("stdout output: %+v", r)
		}
	})

	t.Run("parent is a file", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, nil, 0o600); err != nil {
			t.Fatal(err)
		}
		r := &doctorResult{}
		checkOutput(r, filepath.Join(file, "comments.html"))
		if r.Output.Writable || len(r.Errors) == 0 {
			t.Errorf("output under a file should not be writable: %+v", r)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Output formats and exit codes
// ---------------------------------------------------------------------------

func TestRunDoctorCmd(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(fakeMastodon(t))
		code := runDoctorCmd(context.Background(), []string{"-i", "social.example"}, env)
		if code != ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, ExitSuccess)
		}
		for _, want := range []string{"fedicomments doctor", "[OK] social.example reachable", "[OK] Flavor: mastodon", "Status:"} {
			if !strings.Contains(stdout.String(), want) {
				t.Errorf("output missing %q:\n%s", want, stdout)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(fakeMastodon(t))
		runDoctorCmd(context.Background(), []string{"-i", "social.example", "--json"}, env)

		var got doctorResult
		if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if got.Instance.Flavor != "mastodon" {
			t.Errorf("instance.flavor = %q, want mastodon", got.Instance.Flavor)
		}
	})

	t.Run("errors exit 1", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(http.NotFoundHandler())
		if code := runDoctorCmd(context.Background(), []string{"-i", "social.example"}, env); code != ExitGeneral {
			t.Errorf("exit code = %d, want %d", code, ExitGeneral)
		}
	})

	t.Run("bad flag", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(nil)
		if code := runDoctorCmd(context.Background(), []string{"--nope"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})
}

func TestPrintDoctorResult_Statuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status string
		want   string
	}{
		{statusReady, "Status: Ready to render"},
		{statusWarnings, "Status: Ready with warnings"},
		{statusErrors, "Status: Not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			printDoctorResult(&buf, &doctorResult{Status: tt.status})
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, buf.String())
			}
		})
	}
}
