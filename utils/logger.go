package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/awantoch/sitefn/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	userLogger      *log.Logger
	userWriter      io.Writer = os.Stdout
	internalLogger  *zap.SugaredLogger
	loggerModeMutex sync.Mutex
)

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

func init() {
	userLogger = log.New(userWriter, "", 0)
	initLoggers("production")
}

func initLoggers(mode string) {
	// Internal logger: to stderr, with levels and debug support
	internalCfg := zap.NewProductionConfig()
	internalCfg.OutputPaths = []string{"stderr"}
	internalCfg.Encoding = "console"
	internalCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if os.Getenv(constants.EnvDebug) != "" || mode == "debug" {
		internalCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		internalCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	l, err := internalCfg.Build()
	if err != nil {
		log.Printf("Failed to initialize zap logger: %v, falling back to standard logger", err)
		internalLogger = nil
		return
	}
	internalLogger = l.Sugar()
}

// User prints CLI-facing output without levels or timestamps.
func User(format string, v ...any) {
	if userLogger != nil {
		userLogger.Printf(format, v...)
	}
}

func Info(format string, v ...any) {
	if internalLogger != nil {
		internalLogger.Infof(format, v...)
	}
}

func Warn(format string, v ...any) {
	if internalLogger != nil {
		internalLogger.Warnf(format, v...)
	}
}

func Error(format string, v ...any) {
	if internalLogger != nil {
		internalLogger.Errorf(format, v...)
	}
}

func Debug(format string, v ...any) {
	if internalLogger != nil {
		internalLogger.Debugf(format, v...)
	}
}

func SetUserOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	userWriter = w
	userLogger = log.New(userWriter, "", 0)
}

// SetInternalOutput redirects internal logs to w at debug level. Tests use it
// to capture log lines.
func SetInternalOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	internalLogger = zap.New(core).Sugar()
}

// SetMode switches between "production" and "debug" logging.
func SetMode(mode string) {
	loggerModeMutex.Lock()
	defer loggerModeMutex.Unlock()
	initLoggers(mode)
}

// Sync flushes buffered log entries.
func Sync() {
	if internalLogger != nil {
		_ = internalLogger.Sync()
	}
}

// Errorf logs the error message and returns it as an error value.
func Errorf(format string, v ...any) error {
	err := fmt.Errorf(format, v...)
	if internalLogger != nil {
		internalLogger.Errorf("%s", err)
	}
	return err
}

type LoggerWriter struct {
	Fn     func(string, ...any)
	Prefix string
}

func (w *LoggerWriter) Write(p []byte) (n int, err error) {
	lines := strings.Split(string(p), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			if w.Prefix != "" {
				w.Fn("%s%s", w.Prefix, line)
			} else {
				w.Fn("%s", line)
			}
		}
	}
	return len(p), nil
}

// WithRequestID returns a new context with the given request ID.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey, reqID)
}

// RequestIDFromContext extracts the request ID from context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return ContextValue[string](ctx, requestIDKey)
}

func withRequestID(ctx context.Context, fields []any) []any {
	if reqID, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", reqID)
	}
	return fields
}

// InfoCtx logs an info message with context, including request ID if present.
func InfoCtx(ctx context.Context, msg string, fields ...any) {
	if internalLogger != nil {
		internalLogger.Infow(msg, withRequestID(ctx, fields)...)
	}
}

// WarnCtx logs a warning message with context, including request ID if present.
func WarnCtx(ctx context.Context, msg string, fields ...any) {
	if internalLogger != nil {
		internalLogger.Warnw(msg, withRequestID(ctx, fields)...)
	}
}

// ErrorCtx logs an error message with context, including request ID if present.
func ErrorCtx(ctx context.Context, msg string, fields ...any) {
	if internalLogger != nil {
		internalLogger.Errorw(msg, withRequestID(ctx, fields)...)
	}
}

// DebugCtx logs a debug message with context, including request ID if present.
func DebugCtx(ctx context.Context, msg string, fields ...any) {
	if internalLogger != nil {
		internalLogger.Debugw(msg, withRequestID(ctx, fields)...)
	}
}
