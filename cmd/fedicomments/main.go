package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// maxprocs.Set only fails on an invalid GOMAXPROCS, and the runtime
	// default then applies.
	_, _ = maxprocs.Set(maxprocs.Logger(maxprocsLogger(os.Args)))

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// maxprocsLogger reports the GOMAXPROCS adjustment only in verbose runs.
func maxprocsLogger(args []string) func(string, ...any) {
	if !slices.Contains(args, "--verbose") && !slices.Contains(args, "-v") {
		return func(string, ...any) {}
	}
	return func(format string, a ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", a...)
	}
}
