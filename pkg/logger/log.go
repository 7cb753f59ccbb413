package logger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Interface is an interface that wraps the Logger methods.
//
//go:generate mockgen -source log.go -destination=mock/log_mock.go -package=mock
type Interface interface {
	Debug(message string, fields ...Field)
	DebugContext(ctx context.Context, message string, fields ...Field)
	Error(err error, fields ...Field)
	ErrorContext(ctx context.Context, err error, fields ...Field)
	GetZap() *zap.Logger
	Info(message string, fields ...Field)
	InfoContext(ctx context.Context, message string, fields ...Field)
	Sync() error
	Warn(message string, fields ...Field)
	WarnContext(ctx context.Context, message string, fields ...Field)
	WithFields(fields ...Field) *Logger
}

// Logger writes JSON entries through zap.
type Logger struct {
	zap *zap.Logger
}

// Field holds key-value to be written to log.
type Field struct {
	Key   string
	Value any
}

// NewField returns Field with given key and value.
func NewField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Level represents the severity level of the log.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// ParseLevel maps a configuration string to a Level, falling back to InfoLevel.
func ParseLevel(level string) Level {
	switch l := Level(strings.ToLower(strings.TrimSpace(level))); l {
	case DebugLevel, WarnLevel, ErrorLevel:
		return l
	default:
		return InfoLevel
	}
}

func (level Level) zapLevel() zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

type options struct {
	level   Level
	outputs []string
}

// Options configures NewLogger.
type Options func(*options)

// WithLoggingLevel sets the minimum level written. Defaults to info.
func WithLoggingLevel(level Level) Options {
	return func(o *options) {
		o.level = level
	}
}

// WithOutputPaths sets where entries go. "stdout" and "stderr" name the
// standard streams; anything else is opened as a file.
func WithOutputPaths(paths ...string) Options {
	return func(o *options) {
		if len(paths) > 0 {
			o.outputs = paths
		}
	}
}

// NewLogger builds a JSON logger writing to stderr unless told otherwise.
func NewLogger(opts ...Options) (*Logger, error) {
	o := options{level: InfoLevel, outputs: []string{"stderr"}}
	for _, opt := range opts {
		opt(&o)
	}

	sink, _, err := zap.Open(o.outputs...)
	if err != nil {
		return nil, err
	}

	encoding := zap.NewProductionEncoderConfig()
	encoding.MessageKey = "message"
	encoding.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoding), sink, zap.NewAtomicLevelAt(o.level.zapLevel()))

	// Every public method reaches zap through write, two frames above the caller.
	return &Logger{zap: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel), zap.ErrorOutput(sink))}, nil
}

// NewNop returns a Logger that discards every entry.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// GetZap returns the underlying zap.Logger.
func (l *Logger) GetZap() *zap.Logger {
	return l.zap
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// WithFields returns a child logger that adds fields to every entry.
func (l *Logger) WithFields(fields ...Field) *Logger {
	return &Logger{zap: l.zap.With(zapFields(context.Background(), fields)...)}
}

func (l *Logger) Debug(message string, fields ...Field) {
	l.write(context.Background(), zapcore.DebugLevel, message, "", fields)
}

func (l *Logger) DebugContext(ctx context.Context, message string, fields ...Field) {
	l.write(ctx, zapcore.DebugLevel, message, "", fields)
}

func (l *Logger) Info(message string, fields ...Field) {
	l.write(context.Background(), zapcore.InfoLevel, message, "", fields)
}

func (l *Logger) InfoContext(ctx context.Context, message string, fields ...Field) {
	l.write(ctx, zapcore.InfoLevel, message, "", fields)
}

func (l *Logger) Warn(message string, fields ...Field) {
	l.write(context.Background(), zapcore.WarnLevel, message, "", fields)
}

func (l *Logger) WarnContext(ctx context.Context, message string, fields ...Field) {
	l.write(ctx, zapcore.WarnLevel, message, "", fields)
}

// Error logs err as the message. An error carrying a stack trace replaces
// the one zap would capture at the call site.
func (l *Logger) Error(err error, fields ...Field) {
	if err == nil {
		return
	}
	l.write(context.Background(), zapcore.ErrorLevel, err.Error(), stackOf(err), fields)
}

func (l *Logger) ErrorContext(ctx context.Context, err error, fields ...Field) {
	if err == nil {
		return
	}
	l.write(ctx, zapcore.ErrorLevel, err.Error(), stackOf(err), fields)
}

func (l *Logger) write(ctx context.Context, level zapcore.Level, message, stack string, fields []Field) {
	ce := l.zap.Check(level, message)
	if ce == nil {
		return
	}
	if stack != "" {
		ce.Stack = stack
	}
	ce.Write(zapFields(ctx, fields)...)
}

func stackOf(err error) string {
	var tracer errors.StackTracer
	if !errors.As(err, &tracer) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%+v", tracer.StackTrace()))
}

// zapFields converts fields and appends whatever request metadata ctx carries.
func zapFields(ctx context.Context, fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+3)
	for _, field := range fields {
		out = append(out, zap.Any(field.Key, field.Value))
	}
	if ctx == nil {
		return out
	}

	meta := util.Fields(ctx)
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if value, ok := meta[key].(string); ok && value != "" {
			out = append(out, zap.String(key, value))
		}
	}
	return out
}
