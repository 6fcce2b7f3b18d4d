// Copyright 2025 The Router Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// HandlerType selects the log output format.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
)

// Level is the slog log level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger provides structured logging on top of log/slog. Service metadata
// configured at construction is attached to every entry. All methods are
// safe for concurrent use.
type Logger struct {
	handlerType HandlerType
	output      io.Writer
	level       Level
	serviceName string
	addSource   bool

	slogger *slog.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithServiceName attaches a service attribute to every log entry.
func WithServiceName(name string) Option {
	return func(l *Logger) { l.serviceName = name }
}

// WithLevel sets the minimum level.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level = level }
}

// WithOutput redirects log output. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) { l.output = w }
}

// WithHandlerType selects the output format. The default is [JSONHandler].
func WithHandlerType(t HandlerType) Option {
	return func(l *Logger) { l.handlerType = t }
}

// WithSource adds source file and line to every entry.
func WithSource() Option {
	return func(l *Logger) { l.addSource = true }
}

func defaultLogger() *Logger {
	return &Logger{
		handlerType: JSONHandler,
		output:      os.Stdout,
		level:       LevelInfo,
	}
}

// New creates a Logger with the given options. It does not touch the
// global slog default, so multiple instances can coexist in one process.
func New(opts ...Option) (*Logger, error) {
	l := defaultLogger()
	for _, opt := range opts {
		opt(l)
	}
	if err := l.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	hopts := &slog.HandlerOptions{Level: l.level, AddSource: l.addSource}
	var handler slog.Handler
	switch l.handlerType {
	case TextHandler:
		handler = slog.NewTextHandler(l.output, hopts)
	default:
		handler = slog.NewJSONHandler(l.output, hopts)
	}

	sl := slog.New(handler)
	if l.serviceName != "" {
		sl = sl.With("service", l.serviceName)
	}
	l.slogger = sl
	return l, nil
}

// MustNew creates a Logger or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}
	return l
}

func (l *Logger) validate() error {
	if l.output == nil {
		return errors.New("output writer cannot be nil")
	}
	switch l.handlerType {
	case JSONHandler, TextHandler:
	default:
		return fmt.Errorf("unknown handler type %q", l.handlerType)
	}
	return nil
}

// Logger returns the underlying slog.Logger.
func (l *Logger) Logger() *slog.Logger { return l.slogger }

// With returns a Logger whose entries carry the given attributes.
func (l *Logger) With(args ...any) *Logger {
	copied := *l
	copied.slogger = l.slogger.With(args...)
	return &copied
}

// Debug logs at debug level with alternating key/value attributes.
func (l *Logger) Debug(msg string, args ...any) { l.slogger.Debug(msg, args...) }

// Info logs at info level with alternating key/value attributes.
func (l *Logger) Info(msg string, args ...any) { l.slogger.Info(msg, args...) }

// Warn logs at warn level with alternating key/value attributes.
func (l *Logger) Warn(msg string, args ...any) { l.slogger.Warn(msg, args...) }

// Error logs at error level with alternating key/value attributes.
func (l *Logger) Error(msg string, args ...any) { l.slogger.Error(msg, args...) }
