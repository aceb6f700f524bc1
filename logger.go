package hypergo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pipeline-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithEntities adds an entity count field to the logger.
func (l *Logger) WithEntities(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("entities", count),
	}
}

// LogSynthesize logs a hyperedge synthesis run.
func (l *Logger) LogSynthesize(ctx context.Context, rules, edges int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "synthesis failed",
			"rules", rules,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "synthesis completed",
			"rules", rules,
			"edges", edges,
		)
	}
}

// LogBuild logs hypergraph construction.
func (l *Logger) LogBuild(ctx context.Context, nodes, edges int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "hypergraph build failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "hypergraph built",
			"nodes", nodes,
			"edges", edges,
		)
	}
}

// LogCluster logs a community-detection run.
func (l *Logger) LogCluster(ctx context.Context, communities int, modularity float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "clustering completed",
			"communities", communities,
			"modularity", modularity,
		)
	}
}

// LogExport logs an artifact export.
func (l *Logger) LogExport(ctx context.Context, artifacts int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "export completed",
			"artifacts", artifacts,
		)
	}
}
