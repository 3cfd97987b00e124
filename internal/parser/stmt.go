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

// ParseFunctionBody reparses a deferred function body span: a statement
// sequence wrapped in a fresh block scope, as if the original braces
// were still present. Used by pass 4 with the function's parameter scope
// reentered as the parser's current scope.
func (p *Parser) ParseFunctionBody() *ast.CompoundStmt {
	bs, leave := p.enterScope(scope.KindBlock, nil)
	defer leave()
	body := &ast.CompoundStmt{Scope: bs}
	for !p.at(token.EOF) {
		if s := p.guardedStmt(); s != nil {
			body.Statements = append(body.Statements, s)
		}
	}
	return body
}

// guardedStmt parses one statement, catching an Abort at this boundary
// and skipping to the next plausible recovery point: the nearest `;` or
// a closing brace at the enclosing level. The brace stack is restored
// to its boundary snapshot first, so brackets left open by the failed
// parse don't poison later matching.
func (p *Parser) guardedStmt() (s ast.Stmt) {
	saved := append([]token.Kind(nil), p.braces...)
	defer func() {
		if r := recover(); r != nil {
			if !diag.IsAbort(r) {
				panic(r)
			}
			s = nil
			p.braces = saved
			p.resync()
		}
	}()
	return p.parseStmt()
}

// resync skips tokens after a syntax error until a statement boundary: a
// semicolon at the level the error was caught at (consumed), a closing
// brace at that level (left for the enclosing construct), or end of
// input. Nested brackets are skipped whole, tolerantly — the brace stack
// is maintained by hand here since mismatches during recovery must not
// re-abort.
func (p *Parser) resync() {
	level := p.braceLevel()
	for {
		t := p.peek()
		switch t.Kind {
		case token.EOF:
			return
		case token.Semicolon:
			p.get()
			if p.braceLevel() <= level {
				return
			}
		case token.LBrace, token.LParen, token.LBracket:
			p.braces = append(p.braces, t.Kind)
			p.get()
		case token.RBrace, token.RParen, token.RBracket:
			if p.braceLevel() <= level {
				return
			}
			if len(p.braces) > 0 && closerFor(p.braces[len(p.braces)-1]) == t.Kind {
				p.braces = p.braces[:len(p.braces)-1]
			}
			p.get()
		default:
			p.get()
		}
	}
}

func (p *Parser) parseStmt() ast.Stmt {
	t := p.peek()
	switch t.Kind {
	case token.Semicolon:
		p.advance()
		s := &ast.EmptyStmt{}
		ast.SetLoc(s, t.Loc)
		return s
	case token.LBrace:
		return p.parseCompoundStmt()
	case token.Return:
		p.advance()
		s := &ast.ReturnStmt{}
		ast.SetLoc(s, t.Loc)
		if !p.at(token.Semicolon) {
			s.Value = p.parseExpr()
		}
		p.expect(token.Semicolon)
		return s
	case token.Yield:
		p.advance()
		s := &ast.YieldStmt{}
		ast.SetLoc(s, t.Loc)
		if !p.at(token.Semicolon) {
			s.Value = p.parseExpr()
		}
		p.expect(token.Semicolon)
		return s
	case token.Break:
		p.advance()
		p.expect(token.Semicolon)
		s := &ast.BreakStmt{}
		ast.SetLoc(s, t.Loc)
		return s
	case token.Continue:
		p.advance()
		p.expect(token.Semicolon)
		s := &ast.ContinueStmt{}
		ast.SetLoc(s, t.Loc)
		return s
	case token.If:
		p.advance()
		p.expect(token.LParen)
		cond := p.parseExpr()
		p.expect(token.RParen)
		then := p.parseStmt()
		s := &ast.IfStmt{Cond: cond, Then: then}
		ast.SetLoc(s, t.Loc)
		if p.accept(token.Else) {
			s.Else = p.parseStmt()
		}
		return s
	case token.While:
		p.advance()
		p.expect(token.LParen)
		cond := p.parseExpr()
		p.expect(token.RParen)
		body := p.parseStmt()
		s := &ast.WhileStmt{Cond: cond, Body: body}
		ast.SetLoc(s, t.Loc)
		return s
	}
	if p.atDeclStart() {
		d := p.parseDecl()
		s := &ast.DeclStmt{Decl: d}
		ast.SetLoc(s, t.Loc)
		return s
	}
	e := p.parseExpr()
	p.expect(token.Semicolon)
	s := &ast.ExprStmt{Expr: e}
	ast.SetLoc(s, t.Loc)
	return s
}

func (p *Parser) parseCompoundStmt() *ast.CompoundStmt {
	loc := p.peek().Loc
	bs, leave := p.enterScope(scope.KindBlock, nil)
	defer leave()
	p.expect(token.LBrace)
	body := &ast.CompoundStmt{Scope: bs}
	ast.SetLoc(body, loc)
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.errorf(p.peek().Loc, "unexpected end of file inside block")
			diag.Abort()
		}
		if s := p.guardedStmt(); s != nil {
			body.Statements = append(body.Statements, s)
		}
	}
	p.expect(token.RBrace)
	return body
}
