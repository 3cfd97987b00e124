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

// Package diag classifies and carries the translation pipeline's
// errors. It deliberately does not render diagnostics (pretty
// rendering is an external collaborator's job) — it only distinguishes
// error kinds and lets them propagate to the nearest recovery point.
package diag

import (
	"fmt"

	"github.com/asutton/banjo-sub001/internal/token"
)

// Kind classifies a translation error. The classification, not a Go type
// per kind, is what other passes switch on.
type Kind int

const (
	Lexical Kind = iota
	Syntax
	Lookup
	Overload
	Type
	Constraint
	Declaration
	Internal
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical error"
	case Syntax:
		return "syntax error"
	case Lookup:
		return "lookup error"
	case Overload:
		return "overload error"
	case Type:
		return "type error"
	case Constraint:
		return "constraint error"
	case Declaration:
		return "declaration error"
	case Internal:
		return "internal error"
	default:
		return "error"
	}
}

// Error is one translation diagnostic: a kind, the source location it was
// raised at (if any), and a message.
type Error struct {
	Kind Kind
	Loc  token.Location
	Msg  string
	// Causes holds the sub-errors a Declaration error was composed from
	// after an overload-set check found several conflicts.
	Causes []Error
}

func (e Error) Error() string {
	if e.Loc.Line == 0 && e.Loc.File == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Loc, e.Kind, e.Msg)
}

// New constructs an Error of the given kind at loc.
func New(kind Kind, loc token.Location, format string, args ...interface{}) Error {
	return Error{Kind: kind, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

// Composite builds a Declaration error out of several underlying
// errors, for overload-set re-checking.
func Composite(loc token.Location, causes []Error) Error {
	return Error{
		Kind:   Declaration,
		Loc:    loc,
		Msg:    fmt.Sprintf("%d incompatible declaration(s)", len(causes)),
		Causes: causes,
	}
}

// List accumulates errors across a translation unit. It is not safe for
// concurrent use from multiple goroutines — translation of one unit is
// single-threaded.
type List []Error

// Add appends a new error to the list.
func (l *List) Add(err Error) { *l = append(*l, err) }

// Errorf appends a freshly constructed error to the list.
func (l *List) Errorf(kind Kind, loc token.Location, format string, args ...interface{}) {
	l.Add(New(kind, loc, format, args...))
}

// HasErrors reports whether the list is non-empty.
func (l List) HasErrors() bool { return len(l) > 0 }

// Error implements the error interface so a List can be returned wherever
// a single error is expected (e.g. at the driver boundary).
func (l List) Error() string {
	if len(l) == 0 {
		return ""
	}
	return fmt.Sprintf("%d error(s), first: %v", len(l), l[0])
}

// abortSentinel is recovered at the nearest statement or declaration
// boundary; it unwinds the current parse/elaboration call chain without
// carrying a Go error value (the error itself has already been appended
// to the relevant List before panicking).
type abortSentinel struct{}

// Abort unwinds to the nearest recovery point established by Recover.
// The sentinel carries no payload, since the error was already recorded
// before panicking.
func Abort() { panic(abortSentinel{}) }

// Recover must be deferred at every statement/declaration boundary that
// can catch a syntax or lookup error and resume parsing/elaborating the
// next sibling. It swallows only the Abort sentinel; any other panic
// continues to propagate, matching "Internal error: aborts."
func Recover() {
	if r := recover(); r != nil {
		if _, ok := r.(abortSentinel); !ok {
			panic(r)
		}
	}
}

// IsAbort reports whether a recovered panic value is the Abort sentinel,
// for recovery points that need to resynchronize after swallowing it
// rather than just resume.
func IsAbort(r interface{}) bool {
	_, ok := r.(abortSentinel)
	return ok
}
