package main

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// HTTPClient replaces the client used to reach instances. Nil uses the
	// library default with the configured timeout.
	HTTPClient *http.Client
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// newLogger returns a text logger writing to w. verbose wins over quiet.
func newLogger(w io.Writer, f commonFlags) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !f.verbose,
		FullTimestamp:    true,
	})
	switch {
	case f.verbose:
		l.SetLevel(logrus.DebugLevel)
	case f.quiet:
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}
