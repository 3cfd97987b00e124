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

// Package parser implements the hand-written, predictive recursive-
// descent parser: brace tracking, tentative parsing, and the
// deferred-parse technique that lets forward-referencing declarations
// within one scope parse without a pre-resolved symbol table.
//
// One function per grammar production, over a plain token.Stream rather
// than a combinator framework: deferred parsing needs the parser to
// pause mid-grammar and resume a *different* parser instance over a
// captured span later, which a combinator-mapped tree does not expose.
package parser

import (
	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/diag"
	"github.com/asutton/banjo-sub001/internal/scope"
	"github.com/asutton/banjo-sub001/internal/token"
)

// Parser holds all state for one recursive-descent pass over a token
// stream: the stream itself, the brace-tracking stack, the scope the
// next declaration binds into, and the shared arena/error sink.
type Parser struct {
	Arena *ast.Arena
	Errs  *diag.List

	stream *token.Stream
	braces []token.Kind // stack of opener kinds, pushed on (/{/[, popped on matching closer
	scope  *scope.Scope

	// suppressBind, when set, makes the next declare call a no-op. Used
	// by the template grammar: the parameterized declaration must not
	// bind into the enclosing scope itself — the TemplateDecl wrapping
	// it binds there under the same name instead.
	suppressBind bool
}

// New returns a Parser over toks, binding top-level declarations into
// global (the translation unit's global scope).
func New(arena *ast.Arena, errs *diag.List, toks []token.Token, global *scope.Scope) *Parser {
	return &Parser{Arena: arena, Errs: errs, stream: token.NewStream(toks), scope: global}
}

// Scope returns the scope the parser is currently binding declarations
// into.
func (p *Parser) Scope() *scope.Scope { return p.scope }

func (p *Parser) peek() token.Token       { return p.stream.Peek() }
func (p *Parser) peekN(n int) token.Token { return p.stream.PeekN(n) }
func (p *Parser) at(k token.Kind) bool    { return p.peek().Kind == k }

func (p *Parser) get() token.Token { return p.stream.Get() }

// braceLevel reports the current nesting depth, used by the deferred-
// parse terminator predicates ("this token at this brace level").
func (p *Parser) braceLevel() int { return len(p.braces) }

// closerFor returns the closing Kind that matches an opening bracket kind.
func closerFor(open token.Kind) token.Kind {
	switch open {
	case token.LBrace:
		return token.RBrace
	case token.LParen:
		return token.RParen
	case token.LBracket:
		return token.RBracket
	default:
		return token.Invalid
	}
}

// advance consumes the current token, maintaining the brace stack: any
// opening bracket pushes, any closing bracket pops; a mismatched closer
// is a fatal syntax error.
func (p *Parser) advance() token.Token {
	t := p.get()
	switch t.Kind {
	case token.LBrace, token.LParen, token.LBracket:
		p.braces = append(p.braces, t.Kind)
	case token.RBrace, token.RParen, token.RBracket:
		if len(p.braces) == 0 || closerFor(p.braces[len(p.braces)-1]) != t.Kind {
			p.errorf(t.Loc, "unmatched '%s'", t.Kind)
			diag.Abort()
		}
		p.braces = p.braces[:len(p.braces)-1]
	}
	return t
}

// expect consumes the current token if it has kind k, else reports a
// syntax error and aborts to the nearest recovery point.
func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.errorf(p.peek().Loc, "expected %s, got %s", k, p.peek().Kind)
		diag.Abort()
	}
	return p.advance()
}

// accept consumes the current token if it has kind k, reporting whether
// it did.
func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errorf(loc token.Location, format string, args ...interface{}) {
	p.Errs.Errorf(diag.Syntax, loc, format, args...)
}

// savePoint is a tentative-parsing snapshot: stream cursor, brace stack
// depth and contents, and the scope in effect, restored on a failed
// trial.
type savePoint struct {
	pos    token.Position
	braces []token.Kind
	scope  *scope.Scope
}

func (p *Parser) save() savePoint {
	return savePoint{pos: p.stream.Position(), braces: append([]token.Kind(nil), p.braces...), scope: p.scope}
}

func (p *Parser) restore(sp savePoint) {
	p.stream.Reposition(sp.pos)
	p.braces = sp.braces
	p.scope = sp.scope
}

// trialFailed is panicked by a speculative parse attempt to signal
// "this alternative does not apply", distinct from diag.Abort: a failed
// trial is not a translation error and must not be recorded in Errs.
type trialFailed struct{}

// try runs fn speculatively: if fn panics with trialFailed (via fail()),
// the parser state is restored to its pre-trial snapshot and try returns
// false. Any other panic (including diag.Abort, a genuine syntax error)
// propagates.
func (p *Parser) try(fn func()) (ok bool) {
	sp := p.save()
	defer func() {
		if r := recover(); r != nil {
			if _, isTrial := r.(trialFailed); isTrial {
				p.restore(sp)
				ok = false
				return
			}
			panic(r)
		}
	}()
	fn()
	return true
}

// fail aborts the current speculative trial; only meaningful inside a
// function run through try.
func fail() { panic(trialFailed{}) }

// enterScope opens a new scope of kind k owned by owner (nil for an
// anonymous block scope), makes it current, and returns a function that
// restores the previous scope — the same enter-on-entry, pop-on-exit
// shape every elaboration pass also follows.
func (p *Parser) enterScope(k scope.Kind, owner scope.Declarable) (*scope.Scope, func()) {
	s := scope.New(k, owner, p.scope)
	prev := p.scope
	p.scope = s
	return s, func() { p.scope = prev }
}

// declare binds d into the current scope, applying scope-declaration-
// adjustment; a conflict is reported as a declaration error but does not
// abort the surrounding parse, so parsing can
// continue and surface further errors in the same pass. Used for the
// declaration a grammar production introduces — the one the template
// grammar may suppress; nested declarations go through bind.
func (p *Parser) declare(d ast.Decl) {
	if p.suppressBind {
		p.suppressBind = false
		return
	}
	p.bind(d)
}

// bind binds nested declarations — parameters, enum entries — that are
// never the target of template-bind suppression.
func (p *Parser) bind(d ast.Decl) {
	if err := scope.Declare(p.scope, d); err != nil {
		p.Errs.Errorf(diag.Declaration, d.Loc(), "%s", err.Error())
	}
}
