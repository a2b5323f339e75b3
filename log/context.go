// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
)

// WithContext returns a logger carrying the given context that always writes
// through the current root logger. Package level loggers are created before
// the root is configured, so they must not capture it.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

type contextLogger struct {
	ctx []any
}

func (l *contextLogger) with(attrs []any) []any {
	out := make([]any, 0, len(l.ctx)+len(attrs))
	out = append(out, l.ctx...)
	return append(out, attrs...)
}

func (l *contextLogger) With(ctx ...any) Logger {
	return &contextLogger{ctx: l.with(ctx)}
}

func (l *contextLogger) New(ctx ...any) Logger {
	return l.With(ctx...)
}

func (l *contextLogger) Log(level slog.Level, msg string, ctx ...any) {
	Root().Write(level, msg, l.with(ctx)...)
}

func (l *contextLogger) Trace(msg string, ctx ...any) {
	Root().Write(LevelTrace, msg, l.with(ctx)...)
}

func (l *contextLogger) Debug(msg string, ctx ...any) {
	Root().Write(slog.LevelDebug, msg, l.with(ctx)...)
}

func (l *contextLogger) Info(msg string, ctx ...any) {
	Root().Write(slog.LevelInfo, msg, l.with(ctx)...)
}

func (l *contextLogger) Warn(msg string, ctx ...any) {
	Root().Write(slog.LevelWarn, msg, l.with(ctx)...)
}

func (l *contextLogger) Error(msg string, ctx ...any) {
	Root().Write(slog.LevelError, msg, l.with(ctx)...)
}

func (l *contextLogger) Crit(msg string, ctx ...any) {
	Root().Write(LevelCrit, msg, l.with(ctx)...)
	os.Exit(1)
}

func (l *contextLogger) Write(level slog.Level, msg string, attrs ...any) {
	Root().Write(level, msg, l.with(attrs)...)
}

func (l *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (l *contextLogger) Handler() slog.Handler {
	return Root().Handler()
}
