package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flags     commonFlags
		wantLevel logrus.Level
	}{
		{"default", commonFlags{}, logrus.InfoLevel},
		{"quiet", commonFlags{quiet: true}, logrus.ErrorLevel},
		{"verbose", commonFlags{verbose: true}, logrus.DebugLevel},
		{"verbose wins over quiet", commonFlags{quiet: true, verbose: true}, logrus.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := newLogger(&buf, tt.flags)
			if l.GetLevel() != tt.wantLevel {
				t.Errorf("level = %v, want %v", l.GetLevel(), tt.wantLevel)
			}
		})
	}
}

func TestNewLogger_Timestamps(t *testing.T) {
	t.Parallel()

	var plain, verbose bytes.Buffer
	newLogger(&plain, commonFlags{}).Info("hello")
	newLogger(&verbose, commonFlags{verbose: true}).Info("hello")

	if strings.Contains(plain.String(), "time=") {
		t.Errorf("default output has a timestamp: %q", plain.String())
	}
	if !strings.Contains(verbose.String(), "time=") {
		t.Errorf("verbose output lacks a timestamp: %q", verbose.String())
	}
}

func TestDefaultEnv(t *testing.T) {
	t.Parallel()

	env := DefaultEnv()
	if env.Now == nil || env.Stdout == nil || env.Stderr == nil {
		t.Errorf("DefaultEnv() has nil fields: %+v", env)
	}
	if env.HTTPClient != nil {
		t.Error("DefaultEnv().HTTPClient should be nil so the library default is used")
	}
}
