package main

// Notes:
// - runRender: we drive the whole command against an in-process fake
//   instance (helpers_test.go) and check the written HTML and the returned
//   error. Network failures are covered through the exit code mapping.
// - writeOutput: we test stdout, nested directories and atomic replacement.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-fedicomments/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunRender - End-to-end render command
// ---------------------------------------------------------------------------

func TestRunRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        func(dir string) []string
		wantContain []string
		wantAbsent  []string
	}{
		{
			name: "fragment with discovered flavor",
			args: func(dir string) []string {
				return []string{"100", "-i", "social.example", "-o", filepath.Join(dir, "comments.html")}
			},
			wantContain: []string{`id="comments-section"`, `id="101"`, "Hello from 101", `<span id="global-likes">5</span>`},
			wantAbsent:  []string{"<html"},
		},
		{
			name: "page without stats",
			args: func(dir string) []string {
				return []string{"-p", "100", "-i", "social.example", "-f", "mastodon", "--page", "--title", "Talk", "--no-stats", "-o", filepath.Join(dir, "comments.html")}
			},
			wantContain: []string{"<!DOCTYPE html>", "<title>Talk</title>", `id="101"`},
			wantAbsent:  []string{"global-likes"},
		},
		{
			name: "eager and no avatars",
			args: func(dir string) []string {
				return []string{"100", "-i", "social.example", "-f", "mastodon", "--eager", "--no-avatars", "-o", filepath.Join(dir, "nested", "out.html")}
			},
			wantContain: []string{`<div id="comments-section">`},
			wantAbsent:  []string{"data-defer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			env, _, stderr := testEnv(fakeMastodon(t))
			args := tt.args(dir)

			if err := runRender(context.Background(), args, env); err != nil {
				t.Fatalf("runRender() unexpected error: %v\nstderr: %s", err, stderr)
			}

			out := args[len(args)-1]
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("reading output: %v", err)
			}
			got := string(data)
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q", want)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("output should not contain %q", absent)
				}
			}
		})
	}
}

func TestRunRender_Stdout(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(fakeMastodon(t))
	err := runRender(context.Background(), []string{"100", "-i", "social.example", "-f", "mastodon", "-o", "-", "-q"}, env)
	if err != nil {
		t.Fatalf("runRender() unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "Hello from 101") {
		t.Errorf("stdout = %q, want rendered replies", stdout.String())
	}
}

func TestRunRender_Mapping(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mapping := filepath.Join(dir, "mapping.json")
	if err := os.WriteFile(mapping, []byte(`{"https://blog.example/post/": 100}`), 0o600); err != nil {
		t.Fatal(err)
	}

	env, stdout, _ := testEnv(fakeMastodon(t))
	args := []string{
		"-i", "social.example", "-f", "mastodon", "-o", "-",
		"-m", mapping, "--page-url", "https://blog.example/post/index.html",
	}
	if err := runRender(context.Background(), args, env); err != nil {
		t.Fatalf("runRender() unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), `id="101"`) {
		t.Errorf("stdout missing reply 101")
	}
}

func TestRunRender_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantCode int
	}{
		{
			name:     "no instance",
			args:     []string{"100"},
			wantErr:  ErrNoInstance,
			wantCode: ExitUsage,
		},
		{
			name:     "no post id",
			args:     []string{"-i", "social.example"},
			wantErr:  ErrNoPostID,
			wantCode: ExitUsage,
		},
		{
			name:     "too many arguments",
			args:     []string{"100", "101", "-i", "social.example"},
			wantErr:  ErrUsage,
			wantCode: ExitUsage,
		},
		{
			name:     "unknown flag",
			args:     []string{"--bogus"},
			wantErr:  ErrUsage,
			wantCode: ExitUsage,
		},
		{
			name:     "invalid max depth",
			args:     []string{"100", "-i", "social.example", "--max-depth", "1000"},
			wantErr:  config.ErrInvalidValue,
			wantCode: ExitUsage,
		},
		{
			name:     "page url is not a url",
			args:     []string{"-i", "social.example", "-m", "map.json", "--page-url", "post.html"},
			wantErr:  ErrUsage,
			wantCode: ExitUsage,
		},
		{
			name:     "missing mapping file",
			args:     []string{"-i", "social.example", "-m", "/nonexistent/map.json", "--page-url", "https://blog.example/"},
			wantErr:  ErrReadMapping,
			wantCode: ExitIO,
		},
		{
			name:     "unknown flavor",
			args:     []string{"100", "-i", "social.example", "-f", "diaspora"},
			wantCode: ExitUsage,
		},
		{
			name:     "root post missing",
			args:     []string{"404", "-i", "social.example", "-f", "mastodon", "-o", "-"},
			wantCode: ExitNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv(fakeMastodon(t))
			err := runRender(context.Background(), tt.args, env)
			if err == nil {
				t.Fatal("runRender() expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("runRender() error = %v, want %v", err, tt.wantErr)
			}
			if code := exitCodeFor(err); code != tt.wantCode {
				t.Errorf("exitCodeFor(%v) = %d, want %d", err, code, tt.wantCode)
			}
		})
	}
}

func TestRunRender_Help(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(nil)
	err := runRender(context.Background(), []string{"--help"}, env)
	if !errors.Is(err, errHelp) {
		t.Errorf("runRender(--help) error = %v, want errHelp", err)
	}
	if !strings.Contains(stderr.String(), "Usage: fedicomments render") {
		t.Errorf("help output = %q", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestWriteOutput - Output destinations
// ---------------------------------------------------------------------------

func TestWriteOutput(t *testing.T) {
	t.Parallel()

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(nil)
		if err := writeOutput(stdoutOutput, "<div></div>", env); err != nil {
			t.Fatalf("writeOutput() unexpected error: %v", err)
		}
		if stdout.String() != "<div></div>\n" {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("creates directories and replaces file", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(nil)
		path := filepath.Join(t.TempDir(), "a", "b", "out.html")
		for _, content := range []string{"first", "second"} {
			if err := writeOutput(path, content, env); err != nil {
				t.Fatalf("writeOutput(%q) unexpected error: %v", content, err)
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "second\n" {
			t.Errorf("file content = %q, want %q", data, "second\n")
		}
	})

	t.Run("unwritable parent", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv(nil)
		parent := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(parent, nil, 0o600); err != nil {
			t.Fatal(err)
		}
		err := writeOutput(filepath.Join(parent, "out.html"), "x", env)
		if !errors.Is(err, ErrWriteOutput) {
			t.Errorf("writeOutput() error = %v, want ErrWriteOutput", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestNetworkError - Hints for network failures
// ---------------------------------------------------------------------------

func TestNetworkError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"canceled passes through", context.Canceled},
		{"deadline", context.DeadlineExceeded},
		{"other", errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := networkError(tt.err, "social.example")
			if !errors.Is(got, tt.err) {
				t.Errorf("networkError() = %v, want it to wrap %v", got, tt.err)
			}
			if tt.err == context.Canceled && got != tt.err {
				t.Errorf("networkError(Canceled) = %v, want unchanged", got)
			}
		})
	}
}
