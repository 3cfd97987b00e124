// Copyright 2024 The Banjo Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package banjolog is a minimal leveled logger that rides in the
// context, sized for the handful of call sites a translation pipeline
// needs. There is no handler/style/broadcast machinery: nothing here
// renders to a GUI or remote collector.
package banjolog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// Severity is the importance of a log message, most verbose first.
type Severity int

const (
	Verbose Severity = iota
	Debug
	Info
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Verbose:
		return "V"
	case Debug:
		return "D"
	case Info:
		return "I"
	case Warning:
		return "W"
	case Error:
		return "E"
	case Fatal:
		return "F"
	default:
		return "?"
	}
}

// Logger filters messages below Min and writes the rest to W.
type Logger struct {
	Min Severity
	W   io.Writer

	mu sync.Mutex
}

// Logf writes one message at the given severity, if it passes the
// logger's filter.
func (l *Logger) Logf(sev Severity, format string, args ...interface{}) {
	if l == nil || sev < l.Min || l.W == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.W, "%s: %s\n", sev, fmt.Sprintf(format, args...))
}

type ctxKey struct{}

// Put returns a context carrying l; everything downstream logs through
// it.
func Put(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

var defaultLogger = &Logger{Min: Warning, W: os.Stderr}

// From extracts the context's logger, falling back to a default that
// prints warnings and worse to stderr.
func From(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return defaultLogger
}

func V(ctx context.Context, format string, args ...interface{}) {
	From(ctx).Logf(Verbose, format, args...)
}

func D(ctx context.Context, format string, args ...interface{}) {
	From(ctx).Logf(Debug, format, args...)
}

func I(ctx context.Context, format string, args ...interface{}) {
	From(ctx).Logf(Info, format, args...)
}

func W(ctx context.Context, format string, args ...interface{}) {
	From(ctx).Logf(Warning, format, args...)
}

func E(ctx context.Context, format string, args ...interface{}) {
	From(ctx).Logf(Error, format, args...)
}

func F(ctx context.Context, format string, args ...interface{}) {
	From(ctx).Logf(Fatal, format, args...)
}
