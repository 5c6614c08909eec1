// Package log provides a structured logging interface for gomachine estimators.
//
// The interface is slog-compatible so the backend can be swapped without touching
// estimator code, and it carries ML-specific attribute keys (operation, data shape,
// timings) so fit/predict logs can be filtered and aggregated.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("neighbors.knn").With(
//	    log.ModelNameKey, "KNeighborsRegressor",
//	    log.EstimatorIDKey, id,
//	)
//	logger.Debug("Fit completed",
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 5,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// The interface supports method chaining through the With method, allowing
// for creation of contextual loggers with pre-populated fields.
type Logger interface {
	// Debug logs a debug-level message with optional key-value fields.
	// Estimators log fit/predict summaries at this level.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional key-value fields.
	//
	// Example:
	//   logger.Info("Model training completed",
	//       log.DurationMsKey, 5432,
	//       log.R2ScoreKey, 0.95,
	//   )
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional key-value fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. Pass the error under ErrAttrKey
	// ("error") so the stack trace handler can extract it.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive log fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents the severity of a log message.
// Values match log/slog so they convert directly.
type Level int

const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider hands out configured Logger instances.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers created by this provider.
	SetLevel(level Level)
}
