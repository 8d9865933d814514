package logger

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const loggerContextKey contextKey = "request.logger"

type Config struct {
	Production bool
	Level      string
	Service    string
}

// syncWriter turns a plain writer into a zapcore.WriteSyncer whose Sync is a no-op,
// so flushing a logger that writes to stdout never fails.
type syncWriter struct {
	out io.Writer
}

func (sw syncWriter) Write(p []byte) (int, error) {
	return sw.out.Write(p)
}

func (sw syncWriter) Sync() error {
	return nil
}

/* Builds the service logger. Production writes JSON lines, development a console layout.
The returned flusher must run before the process exits. */
func Setup(config Config, out io.Writer) (*zap.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing log level: %w", err)
	}

	var encoderConfig zapcore.EncoderConfig
	if config.Production {
		encoderConfig = zap.NewProductionEncoderConfig()
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.LevelKey = "lvl"
	encoderConfig.NameKey = "name"
	encoderConfig.MessageKey = "msg"
	encoderConfig.CallerKey = "caller"
	encoderConfig.StacktraceKey = "skt"

	var encoder zapcore.Encoder
	if config.Production {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(syncWriter{out}), level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.FatalLevel))
	if config.Service != "" {
		logger = logger.With(zap.String("service", config.Service))
	}

	flusher := func() error {
		if err := logger.Sync(); err != nil {
			return fmt.Errorf("flushing logs: %w", err)
		}
		return nil
	}

	return logger, flusher, nil
}

// WithContext stores a request scoped logger in ctx.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext returns the logger stored by WithContext, or fallback when there is none.
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok {
		return l
	}
	return fallback
}
