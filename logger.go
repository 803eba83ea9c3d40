package zonescan

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with zonescan-specific helpers.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithRunID adds the query run id to the logger.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithYear adds a year field to the logger.
func (l *Logger) WithYear(year int) *Logger {
	return &Logger{
		Logger: l.Logger.With("year", year),
	}
}

// LogSplit logs the result of splitting the source table.
func (l *Logger) LogSplit(ctx context.Context, source string, rows uint64, zones int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "split failed",
			"source", source,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "split completed",
			"source", source,
			"rows", rows,
			"zones", zones,
		)
	}
}

// LogIndexLoaded logs reuse of a persisted zone map.
func (l *Logger) LogIndexLoaded(ctx context.Context, id uint64, source string, zones int) {
	l.InfoContext(ctx, "zone map loaded",
		"id", id,
		"source", source,
		"zones", zones,
	)
}

// LogLocate logs the range scan of one year.
func (l *Logger) LogLocate(ctx context.Context, startZone uint32, rows, zonesScanned int, err error) {
	if err != nil {
		l.WarnContext(ctx, "locate failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "locate completed",
			"start_zone", startZone,
			"rows", rows,
			"zones_scanned", zonesScanned,
		)
	}
}

// LogJoin logs the station join.
func (l *Logger) LogJoin(ctx context.Context, files, rows, matched, zonesPruned int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "join failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "join completed",
			"files", files,
			"rows", rows,
			"matched", matched,
			"zones_pruned", zonesPruned,
		)
	}
}

// LogAggregate logs the extrema aggregation.
func (l *Logger) LogAggregate(ctx context.Context, files, records, missing int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "aggregate failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "aggregate completed",
			"files", files,
			"records", records,
			"missing", missing,
		)
	}
}

// LogQuery logs a finished query.
func (l *Logger) LogQuery(ctx context.Context, q Query, r *Report, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"year_digit", q.YearDigit,
			"location", q.Location,
			"error", err,
		)
		return
	}
	if len(r.FailedYears) > 0 {
		l.WarnContext(ctx, "query completed with failed years",
			"year_digit", q.YearDigit,
			"location", q.Location,
			"failed_years", r.FailedYears,
			"records", r.Records,
		)
		return
	}
	l.InfoContext(ctx, "query completed",
		"year_digit", q.YearDigit,
		"location", q.Location,
		"records", r.Records,
		"result", r.ResultName,
		"duration", r.Duration,
	)
}
