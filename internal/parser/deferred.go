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

package parser

import (
	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/diag"
	"github.com/asutton/banjo-sub001/internal/scope"
	"github.com/asutton/banjo-sub001/internal/token"
)

// captureUntil reads tokens greedily, advancing the shared brace stack as
// it goes, until stop reports true while the parser sits at the brace
// level it started at. The terminator token itself is
// not consumed. The returned span is terminated with a synthetic EOF
// token so it can seed a fresh token.Stream on its own.
func (p *Parser) captureUntil(stop func(tok token.Token) bool) []token.Token {
	startLevel := p.braceLevel()
	var toks []token.Token
	for {
		if p.peek().Kind == token.EOF {
			break
		}
		if p.braceLevel() == startLevel && stop(p.peek()) {
			break
		}
		toks = append(toks, p.advance())
	}
	toks = append(toks, token.Token{Kind: token.EOF, Loc: p.peek().Loc})
	return toks
}

// captureUntilKind is the common case of captureUntil: stop at the first
// occurrence of k at the starting brace level.
func (p *Parser) captureUntilKind(k token.Kind) []token.Token {
	return p.captureUntil(func(t token.Token) bool { return t.Kind == k })
}

// captureBalanced captures an entire brace-delimited group: the current
// token must be an opening bracket. The opening and closing brackets
// themselves are consumed (maintaining the brace stack) but excluded from
// the returned span, so the span holds exactly the group's contents.
func (p *Parser) captureBalanced(open token.Kind) []token.Token {
	closeKind := closerFor(open)
	p.expect(open)
	depth := 1
	var toks []token.Token
	for {
		if p.peek().Kind == token.EOF {
			p.errorf(p.peek().Loc, "unexpected end of file inside '%s'", open)
			return append(toks, token.Token{Kind: token.EOF})
		}
		switch p.peek().Kind {
		case open:
			depth++
		case closeKind:
			depth--
			if depth == 0 {
				p.advance() // consume the matching closer
				toks = append(toks, token.Token{Kind: token.EOF, Loc: p.peek().Loc})
				return toks
			}
		}
		toks = append(toks, p.advance())
	}
}

// Reopen opens a fresh Parser over a captured span, inheriting the arena
// and error sink, with s as the scope in effect — how elaboration opens
// a fresh parse over a deferred region. The
// scope passed need not be the one in effect when the span was captured:
// a function body, for instance, is reopened with its parameter scope
// entered rather than the scope the declaration itself sat in.
func Reopen(arena *ast.Arena, errs *diag.List, toks []token.Token, s *scope.Scope) *Parser {
	return &Parser{Arena: arena, Errs: errs, stream: token.NewStream(toks), scope: s}
}
