package log

import (
	"context"
	"log/slog"
	"sync"
)

var (
	providerMu sync.RWMutex
	provider   LoggerProvider = newDefaultProvider()
)

// SetLoggerProvider replaces the provider used by GetLogger and
// GetLoggerWithName and returns the one it replaced.
func SetLoggerProvider(p LoggerProvider) (previous LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	previous, provider = provider, p
	return previous
}

// GetLogger returns a logger from the current provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with the given component name.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLoggerWithName(name)
}

// slogProvider hands out loggers backed by a *slog.Logger.
type slogProvider struct {
	base  *slog.Logger
	level *slog.LevelVar
}

// newDefaultProvider wraps slog.Default() at Info level until SetupLogger runs.
func newDefaultProvider() *slogProvider {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	return &slogProvider{level: levelVar}
}

func (p *slogProvider) logger() *slog.Logger {
	if p.base != nil {
		return p.base
	}
	return slog.Default()
}

func (p *slogProvider) GetLogger() Logger {
	return &slogLogger{l: p.logger(), level: p.level}
}

func (p *slogProvider) GetLoggerWithName(name string) Logger {
	return &slogLogger{l: p.logger().With(ComponentKey, name), level: p.level}
}

func (p *slogProvider) SetLevel(level Level) {
	p.level.Set(slog.Level(level))
}

// slogLogger adapts *slog.Logger to Logger. The provider level is checked
// in addition to the handler's own level.
type slogLogger struct {
	l     *slog.Logger
	level *slog.LevelVar
}

func (s *slogLogger) log(level Level, msg string, fields ...any) {
	ctx := context.Background()
	if !s.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, slog.Level(level), msg, fields...)
}

func (s *slogLogger) Debug(msg string, fields ...any) { s.log(LevelDebug, msg, fields...) }
func (s *slogLogger) Info(msg string, fields ...any)  { s.log(LevelInfo, msg, fields...) }
func (s *slogLogger) Warn(msg string, fields ...any)  { s.log(LevelWarn, msg, fields...) }
func (s *slogLogger) Error(msg string, fields ...any) { s.log(LevelError, msg, fields...) }

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.l.With(fields...), level: s.level}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	if slog.Level(level) < s.level.Level() {
		return false
	}
	return s.l.Enabled(ctx, slog.Level(level))
}
