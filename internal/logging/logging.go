// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the zerolog logger shared by the CLI, the HTTP
// server and the section pipeline, and carries it through context.Context.
package logging

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	global = zerolog.New(io.Discard)
)

// Init replaces the global logger. level is a zerolog level name and falls
// back to info when it cannot be parsed. When jsonOutput is false the
// logger writes human-readable lines. A nil w writes to stderr.
func Init(level string, jsonOutput bool, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if w == nil {
		w = os.Stderr
	}
	if !jsonOutput {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	mu.Lock()
	global = logger
	mu.Unlock()
	return logger
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger carried by ctx, or the global logger when
// ctx has none.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	l := Logger()
	return &l
}
