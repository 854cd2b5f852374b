package main

import (
	"errors"
	"os"

	fedicomments "github.com/alnah/go-fedicomments"
	"github.com/alnah/go-fedicomments/internal/assets"
	"github.com/alnah/go-fedicomments/internal/config"
	"github.com/alnah/go-fedicomments/internal/dateutil"
	"github.com/alnah/go-fedicomments/internal/fediapi"
)

// Exit codes for the fedicomments CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Comments written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Mapping or output file errors
	ExitNetwork = 4 // Root post, discovery or instance errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Network errors (exit 4)
	if errors.Is(err, fedicomments.ErrRootPost) ||
		errors.Is(err, fedicomments.ErrDiscovery) ||
		errors.Is(err, fediapi.ErrHTTPStatus) ||
		errors.Is(err, fediapi.ErrDecode) {
		return ExitNetwork
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMapping) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInstance) ||
		errors.Is(err, ErrNoPostID) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, fedicomments.ErrEmptyInstance) ||
		errors.Is(err, fedicomments.ErrEmptyPostID) ||
		errors.Is(err, fedicomments.ErrUnknownFlavor) ||
		errors.Is(err, fediapi.ErrInvalidHandle) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
