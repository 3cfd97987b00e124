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

// CaptureType defers a type position: it reads tokens up to (but not
// including) a terminator at the current brace level and wraps them in
// an *ast.UnparsedType — member types and parameter types defer the same
// way expressions do. terminators lists the token kinds that may legally
// end this type.
func (p *Parser) CaptureType(terminators ...token.Kind) *ast.UnparsedType {
	toks := p.captureUntil(func(t token.Token) bool {
		for _, k := range terminators {
			if t.Kind == k {
				return true
			}
		}
		return false
	})
	return &ast.UnparsedType{Tokens: toks}
}

// parseType eagerly parses a complete type grammar starting at the
// current token. It runs on a reopened, deferred span (pass 1),
// recursively while parsing another deferred span (an array extent's own
// nested types, a decltype operand), and at the places the initial
// top-down declaration walk parses eagerly (a `typename` parameter's
// default, a template's requires-clause); every other type position in
// that walk is deferred.
func (p *Parser) parseType() ast.Type {
	q := p.parseQualifiers()
	t := p.parseUnqualifiedType()
	if q != 0 {
		t = p.Arena.Types.Qualified(t, q)
	}
	return p.parseTypeSuffixes(t)
}

// ParseType is the exported entry point internal/elaborate uses to
// reparse a deferred *ast.UnparsedType's token span.
func (p *Parser) ParseType() ast.Type { return p.parseType() }

func (p *Parser) parseQualifiers() ast.QualSet {
	var q ast.QualSet
	for {
		switch p.peek().Kind {
		case token.Const:
			p.advance()
			q |= ast.QualSet(ast.QualConst)
		case token.Volatile:
			p.advance()
			q |= ast.QualSet(ast.QualVolatile)
		case token.Consume:
			p.advance()
			q |= ast.QualSet(ast.QualConsume)
		default:
			return q
		}
	}
}

func (p *Parser) parseUnqualifiedType() ast.Type {
	switch p.peek().Kind {
	case token.Void:
		p.advance()
		return p.Arena.Types.Void()
	case token.Bool:
		p.advance()
		return p.Arena.Types.Bool()
	case token.Byte:
		p.advance()
		return p.Arena.Types.Byte()
	case token.Auto:
		p.advance()
		return p.Arena.Types.Auto()
	case token.Int:
		p.advance()
		return p.Arena.Types.Integer(true, 32)
	case token.Uint:
		p.advance()
		return p.Arena.Types.Integer(false, 32)
	case token.Float:
		p.advance()
		return p.Arena.Types.Float(32)
	case token.Double:
		p.advance()
		return p.Arena.Types.Float(64)
	case token.Decltype:
		p.advance()
		p.expect(token.LParen)
		e := p.parseExpr()
		p.expect(token.RParen)
		return &ast.DecltypeType{Expr: e}
	case token.Star:
		p.advance()
		return p.Arena.Types.Pointer(p.parseType())
	case token.LParen:
		return p.parseParenType()
	case token.Identifier:
		return p.parseNamedType()
	default:
		p.errorf(p.peek().Loc, "expected a type, got %s", p.peek().Kind)
		diag.Abort()
		return p.Arena.Types.Void()
	}
}

// parseParenType disambiguates a function type `(params) -> ret` from a
// tuple type `(T, U)` by trying the function-type production first and
// falling back to a tuple on failure — the textbook case for tentative
// parsing.
func (p *Parser) parseParenType() ast.Type {
	var fn *ast.FunctionType
	ok := p.try(func() {
		p.expect(token.LParen)
		var params []ast.Type
		for !p.at(token.RParen) {
			if len(params) > 0 && !p.accept(token.Comma) {
				fail()
			}
			params = append(params, p.parseType())
		}
		p.expect(token.RParen)
		if !p.accept(token.Arrow) {
			fail()
		}
		ret := p.parseType()
		fn = p.Arena.Types.Function(params, ret)
	})
	if ok {
		return fn
	}
	p.expect(token.LParen)
	var elems []ast.Type
	for !p.at(token.RParen) {
		if len(elems) > 0 {
			p.expect(token.Comma)
		}
		elems = append(elems, p.parseType())
	}
	p.expect(token.RParen)
	return p.Arena.Types.Tuple(elems)
}

func (p *Parser) parseTypeSuffixes(t ast.Type) ast.Type {
	for {
		switch {
		case p.at(token.Amp):
			p.advance()
			t = p.Arena.Types.Reference(t)
		case p.at(token.LBracket):
			p.advance()
			var extent ast.Expr
			if !p.at(token.RBracket) {
				extent = p.parseExpr()
			}
			p.expect(token.RBracket)
			t = p.Arena.Types.Array(t, extent)
		default:
			return t
		}
	}
}

// parseNamedType resolves an identifier (possibly qualified, possibly a
// template-id) in type position against the current scope.
func (p *Parser) parseNamedType() ast.Type {
	loc := p.peek().Loc
	name := p.parseName()
	decl := p.resolveTypeDecl(name)
	if decl == nil {
		return p.Arena.Types.Void()
	}
	switch d := decl.(type) {
	case *ast.ClassDecl:
		return p.Arena.Types.Class(d)
	case *ast.EnumDecl:
		return p.Arena.Types.Enum(d)
	case *ast.UnionDecl:
		return p.Arena.Types.Union(d)
	case *ast.TypeTemplateParamDecl:
		return p.Arena.Types.Typename(d)
	default:
		p.Errs.Errorf(diag.Type, loc, "'%s' does not name a type", nameSpelling(name))
		return p.Arena.Types.Void()
	}
}

// resolveTypeDecl extracts the single declaration a type-position name
// refers to: a plain name resolves the ordinary way; a TemplateIdent or
// ConceptIdent resolves through internal/template specialization.
func (p *Parser) resolveTypeDecl(name ast.Name) ast.Decl {
	switch n := name.(type) {
	case *ast.TemplateIdent:
		return p.specializeNamed(n.Template, n.Args, name.Loc())
	case *ast.QualifiedIdent:
		if ti, ok := n.Nested.(*ast.TemplateIdent); ok {
			return p.specializeNamed(ti.Template, ti.Args, name.Loc())
		}
		set := scope.QualifiedLookup(memberScopeOf(n.Context), nameSpelling(n.Nested))
		return singleDecl(p, set, name)
	default:
		set := scope.UnqualifiedLookup(p.scope, nameSpelling(name))
		return singleDecl(p, set, name)
	}
}

func singleDecl(p *Parser, set *scope.OverloadSet, name ast.Name) ast.Decl {
	if set == nil {
		p.Errs.Errorf(diag.Lookup, name.Loc(), "'%s' does not name a declaration", nameSpelling(name))
		return nil
	}
	if len(set.Entries) != 1 {
		p.Errs.Errorf(diag.Lookup, name.Loc(), "'%s' is ambiguous in this context", nameSpelling(name))
		return nil
	}
	d, _ := set.Entries[0].(ast.Decl)
	return d
}
