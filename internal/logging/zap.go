package logging

import (
	"context"

	"go.uber.org/zap"
)

// ZapLogger adapts a zap sugared logger to Logger. The context is accepted
// for interface symmetry; zap does not consume it.
type ZapLogger struct {
	l *zap.SugaredLogger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l.Sugar()}
}

// NewConsoleZapLogger builds a development-style zap logger writing to stderr.
func NewConsoleZapLogger(debug bool) (*ZapLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(l), nil
}

func (z *ZapLogger) Debug(_ context.Context, msg string, args ...any) { z.l.Debugw(msg, args...) }
func (z *ZapLogger) Info(_ context.Context, msg string, args ...any)  { z.l.Infow(msg, args...) }
func (z *ZapLogger) Warn(_ context.Context, msg string, args ...any)  { z.l.Warnw(msg, args...) }
func (z *ZapLogger) Error(_ context.Context, msg string, args ...any) { z.l.Errorw(msg, args...) }

func (z *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{l: z.l.With(args...)}
}

// Sync flushes buffered entries; call it before the process exits.
func (z *ZapLogger) Sync() error {
	return z.l.Sync()
}
