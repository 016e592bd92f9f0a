// Package logger is a small named, leveled console logger built on zap.
// Lines look like:
//
//	name=billing, level=info, msg=charged customer
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var levels = map[string]zapcore.Level{
	"error": zapcore.ErrorLevel,
	"warn":  zapcore.WarnLevel,
	"info":  zapcore.InfoLevel,
	"debug": zapcore.DebugLevel,
}

type Option func(*options)

type options struct {
	out io.Writer
}

// WithOutput sends log lines to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

type Logger struct {
	level zap.AtomicLevel
	zap   *zap.Logger
}

// New creates a logger. An empty level means "info".
func New(name, level string, opts ...Option) (*Logger, error) {
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	if level == "" {
		level = "info"
	}

	l := &Logger{level: zap.NewAtomicLevel()}
	if err := l.SetLevel(level); err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newLineEncoder(), zapcore.AddSync(o.out), l.level)
	l.zap = zap.New(core)
	if name != "" {
		l.zap = l.zap.Named(name)
	}

	return l, nil
}

func (l *Logger) SetLevel(level string) error {
	lvl, ok := levels[level]
	if !ok {
		return fmt.Errorf("unknown error level %s", level)
	}
	l.level.SetLevel(lvl)

	return nil
}

// Log writes msg at level. Unknown levels are dropped.
func (l *Logger) Log(msg, level string) {
	lvl, ok := levels[level]
	if !ok {
		return
	}
	if ce := l.zap.Check(lvl, msg); ce != nil {
		ce.Write()
	}
}

func (l *Logger) Error(msg string) { l.Log(msg, "error") }
func (l *Logger) Warn(msg string)  { l.Log(msg, "warn") }
func (l *Logger) Info(msg string)  { l.Log(msg, "info") }
func (l *Logger) Debug(msg string) { l.Log(msg, "debug") }

// Zap exposes the underlying logger for structured fields.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

var pool = buffer.NewPool()

// lineEncoder writes the name, level and message itself and leaves the
// structured fields to the embedded console encoder.
type lineEncoder struct {
	zapcore.Encoder
}

func newLineEncoder() zapcore.Encoder {
	return lineEncoder{Encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: ", ",
	})}
}

func (e lineEncoder) Clone() zapcore.Encoder {
	return lineEncoder{Encoder: e.Encoder.Clone()}
}

func (e lineEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := pool.Get()
	if ent.LoggerName != "" {
		line.AppendString("name=")
		line.AppendString(ent.LoggerName)
		line.AppendString(", ")
	}
	line.AppendString("level=")
	line.AppendString(ent.Level.String())
	line.AppendString(", msg=")
	line.AppendString(ent.Message)

	rest, err := e.Encoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		line.Free()
		return nil, err
	}
	if context := strings.TrimSpace(rest.String()); context != "" {
		line.AppendString(", ")
		line.AppendString(context)
	}
	rest.Free()

	line.AppendString(zapcore.DefaultLineEnding)
	return line, nil
}
