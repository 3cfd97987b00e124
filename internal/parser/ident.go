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

// parseName parses a (possibly qualified, possibly templated) name used
// as an expression's identifier or a type's named reference. Resolution
// against the current scope happens immediately: this only ever runs on
// a reopened, deferred span, so every name it could legally reference
// already has a binding.
func (p *Parser) parseName() ast.Name {
	n := p.parseUnqualifiedName()
	for p.at(token.ColonColon) {
		p.advance()
		ctxDecl := p.resolveSingle(n)
		base := p.parseUnqualifiedNameNoTemplate()
		nested := p.attachTemplateArgs(base, ctxDecl)
		n = &ast.QualifiedIdent{Context: ctxDecl, Nested: nested}
	}
	return n
}

// parseUnqualifiedName parses one identifier segment, including a
// trailing template-argument list if one is present and the name
// resolves to a template.
func (p *Parser) parseUnqualifiedName() ast.Name {
	base := p.parseUnqualifiedNameNoTemplate()
	return p.attachTemplateArgs(base, nil)
}

func (p *Parser) parseUnqualifiedNameNoTemplate() ast.Name {
	if p.at(token.Operator) {
		return p.parseOperatorName()
	}
	tok := p.expect(token.Identifier)
	return p.Arena.Simple(tok.Loc, tok.Symbol)
}

// attachTemplateArgs tentatively parses a `<args>` suffix: `<` only
// introduces a template-argument list if base resolves (qualified by
// ctx, if given) to a template or concept declaration and the argument
// list is followed by a `>` at the same brace level, disambiguating from
// the relational less-than operator by trying and rolling back.
func (p *Parser) attachTemplateArgs(base ast.Name, ctx ast.Decl) ast.Name {
	if !p.at(token.Lt) {
		return base
	}
	set := p.lookupFor(base, ctx)
	if set == nil || len(set.Entries) != 1 {
		return base
	}
	decl, _ := set.Entries[0].(ast.Decl)
	if decl == nil {
		return base
	}
	var args []ast.Node
	ok := p.try(func() {
		p.advance() // '<'
		for !p.at(token.Gt) {
			if len(args) > 0 {
				if !p.accept(token.Comma) {
					fail()
				}
			}
			args = append(args, p.parseTemplateArg())
		}
		if !p.at(token.Gt) {
			fail()
		}
		p.advance() // '>'
	})
	if !ok {
		return base
	}
	switch decl.(type) {
	case *ast.TemplateDecl:
		return &ast.TemplateIdent{Base: base, Template: decl, Args: args}
	case *ast.ConceptDecl:
		return &ast.ConceptIdent{Base: base, Concept: decl, Args: args}
	default:
		return base
	}
}

// parseTemplateArg parses one template argument: a type if the token
// looks like a type introducer, otherwise an expression: type keywords
// and names known to denote types win, everything else parses as an
// expression.
func (p *Parser) parseTemplateArg() ast.Node {
	if p.looksLikeType() {
		return p.parseType()
	}
	if p.at(token.Identifier) {
		if set := scope.UnqualifiedLookup(p.scope, string(p.peek().Symbol)); set != nil && len(set.Entries) == 1 {
			switch set.Entries[0].(type) {
			case *ast.ClassDecl, *ast.EnumDecl, *ast.UnionDecl, *ast.TypeTemplateParamDecl:
				return p.parseType()
			}
		}
	}
	return p.parseAssignExpr()
}

// looksLikeType reports whether the current token can only begin a type
// (a cheap syntactic check that avoids a full tentative parse for the
// common cases).
func (p *Parser) looksLikeType() bool {
	switch p.peek().Kind {
	case token.Void, token.Bool, token.Byte, token.Auto, token.Int, token.Uint,
		token.Float, token.Double, token.Decltype, token.Star, token.Const, token.Volatile:
		return true
	}
	return false
}

func (p *Parser) parseOperatorName() ast.Name {
	opTok := p.expect(token.Operator)
	kindTok := p.peek()
	if op, ok := binaryOps[kindTok.Kind]; ok {
		p.advance()
		return &ast.OperatorIdent{Op: op.op}
	}
	if op, ok := unaryOps[kindTok.Kind]; ok {
		p.advance()
		return &ast.OperatorIdent{Op: op}
	}
	p.errorf(opTok.Loc, "expected an operator after 'operator'")
	diag.Abort()
	return nil
}

// resolveSingle looks up name (unqualified, in the current scope) and
// requires exactly one candidate, for use where a Decl rather than an
// overload set is needed (a qualifier's left-hand side, a destructor's
// target type).
func (p *Parser) resolveSingle(name ast.Name) ast.Decl {
	set := p.lookupFor(name, nil)
	if set == nil {
		p.Errs.Errorf(diag.Lookup, name.Loc(), "'%s' does not name a declaration", nameSpelling(name))
		diag.Abort()
	}
	if len(set.Entries) != 1 {
		p.Errs.Errorf(diag.Lookup, name.Loc(), "'%s' is ambiguous in this context", nameSpelling(name))
		diag.Abort()
	}
	d, _ := set.Entries[0].(ast.Decl)
	return d
}

// lookupFor resolves name either qualified within ctx's member scope (if
// ctx is non-nil) or by unqualified lookup from the current scope.
func (p *Parser) lookupFor(name ast.Name, ctx ast.Decl) *scope.OverloadSet {
	spelling := nameSpelling(name)
	if ctx != nil {
		return scope.QualifiedLookup(memberScopeOf(ctx), spelling)
	}
	return scope.UnqualifiedLookup(p.scope, spelling)
}

// memberScopeOf returns the nameable scope a qualified lookup searches
// for a namespace, class, or union declaration; nil for anything else.
func memberScopeOf(d ast.Decl) *scope.Scope {
	switch n := d.(type) {
	case *ast.NamespaceDecl:
		return n.Scope
	case *ast.ClassDecl:
		return n.Scope
	case *ast.UnionDecl:
		return n.Scope
	default:
		return nil
	}
}

// nameSpelling is the unqualified lookup key for n, computed the same way
// ast.NameString computes the key a matching declaration was bound under.
func nameSpelling(n ast.Name) string { return ast.NameString(n) }
