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
	"github.com/asutton/banjo-sub001/internal/template"
	"github.com/asutton/banjo-sub001/internal/token"
)

// ParseExpr is the exported entry point pass 4 uses to reparse a
// deferred expression span. Like ParseType, it only ever runs on a
// reopened span, so every name it encounters already has a binding.
func (p *Parser) ParseExpr() ast.Expr { return p.parseExpr() }

// ParseInitializer reparses a deferred initializer span: either a plain
// expression or a brace-enclosed aggregate list `{ e, e, ... }`. The
// aggregate's target type is attached by the caller during
// copy-initialization, once the destination is known.
func (p *Parser) ParseInitializer() ast.Expr {
	if !p.at(token.LBrace) {
		return p.parseExpr()
	}
	loc := p.advance().Loc
	agg := &ast.AggregateInitExpr{}
	ast.SetLoc(agg, loc)
	for !p.at(token.RBrace) {
		if len(agg.Elems) > 0 {
			p.expect(token.Comma)
		}
		agg.Elems = append(agg.Elems, p.parseAssignExpr())
	}
	p.expect(token.RBrace)
	return agg
}

func (p *Parser) parseExpr() ast.Expr { return p.parseBinary(1) }

// parseAssignExpr parses a single expression at the position where a
// comma would separate siblings (call arguments, template arguments,
// tuple elements). The language has no assignment operator in its
// expression grammar, so this is the same production as parseExpr; the
// separate name marks the grammar role.
func (p *Parser) parseAssignExpr() ast.Expr { return p.parseBinary(1) }

// parseBinary is a precedence climber over the binaryOps table. All
// binary operators are left-associative.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	lhs := p.parseUnary()
	for {
		info, ok := binaryOps[p.peek().Kind]
		if !ok || info.prec < minPrec {
			return lhs
		}
		opTok := p.advance()
		rhs := p.parseBinary(info.prec + 1)
		e := &ast.BinaryExpr{Op: info.op, LHS: lhs, RHS: rhs}
		ast.SetLoc(e, opTok.Loc)
		lhs = e
	}
}

func (p *Parser) parseUnary() ast.Expr {
	if op, ok := unaryOps[p.peek().Kind]; ok {
		t := p.advance()
		e := &ast.UnaryExpr{Op: op, Operand: p.parseUnary()}
		ast.SetLoc(e, t.Loc)
		return e
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		switch {
		case p.at(token.LParen):
			loc := p.peek().Loc
			p.advance()
			var args []ast.Expr
			for !p.at(token.RParen) {
				if len(args) > 0 {
					p.expect(token.Comma)
				}
				args = append(args, p.parseAssignExpr())
			}
			p.expect(token.RParen)
			call := &ast.CallExpr{Target: e, Args: args}
			ast.SetLoc(call, loc)
			e = call
		case p.at(token.Dot):
			loc := p.advance().Loc
			member := p.parseUnqualifiedNameNoTemplate()
			acc := &ast.AccessExpr{Object: e, Member: member}
			ast.SetLoc(acc, loc)
			e = acc
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.peek()
	switch t.Kind {
	case token.True:
		p.advance()
		e := &ast.BoolLit{Value: true}
		ast.SetLoc(e, t.Loc)
		return e
	case token.False:
		p.advance()
		e := &ast.BoolLit{Value: false}
		ast.SetLoc(e, t.Loc)
		return e
	case token.Integer:
		p.advance()
		e := &ast.IntLit{Value: t.IntValue}
		ast.SetLoc(e, t.Loc)
		return e
	case token.LParen:
		return p.parseParenOrTuple()
	case token.Requires:
		return p.parseRequiresExpr()
	case token.Identifier, token.Operator:
		return p.parseIdentExpr()
	default:
		p.errorf(t.Loc, "expected an expression, got %s", t.Kind)
		diag.Abort()
		return nil
	}
}

// parseParenOrTuple reads `(e)` as a plain grouping and `(a, b, ...)` as
// a tuple construction.
func (p *Parser) parseParenOrTuple() ast.Expr {
	loc := p.peek().Loc
	p.expect(token.LParen)
	first := p.parseAssignExpr()
	if !p.at(token.Comma) {
		p.expect(token.RParen)
		return first
	}
	elems := []ast.Expr{first}
	for p.accept(token.Comma) {
		elems = append(elems, p.parseAssignExpr())
	}
	p.expect(token.RParen)
	e := &ast.TupleExpr{Elems: elems}
	ast.SetLoc(e, loc)
	return e
}

// parseIdentExpr parses a (possibly qualified, possibly templated) name
// in expression position and resolves it against the current scope. A
// name whose overload set has several members stays unresolved here: the
// enclosing call expression performs overload resolution once argument
// types are known.
func (p *Parser) parseIdentExpr() ast.Expr {
	loc := p.peek().Loc
	name := p.parseName()
	e := &ast.IdentExpr{Name: name}
	ast.SetLoc(e, loc)
	switch n := name.(type) {
	case *ast.TemplateIdent:
		e.Resolved = p.specializeNamed(n.Template, n.Args, loc)
	case *ast.ConceptIdent:
		// Left unresolved: a concept-id in expression position is a
		// boolean predicate, normalized and checked by the template core
		// rather than bound to a single declaration.
	case *ast.QualifiedIdent:
		if set := scope.QualifiedLookup(memberScopeOf(n.Context), nameSpelling(n.Nested)); set != nil && len(set.Entries) == 1 {
			e.Resolved, _ = set.Entries[0].(ast.Decl)
		} else if set == nil {
			p.Errs.Errorf(diag.Lookup, loc, "'%s' does not name a member", nameSpelling(n.Nested))
			diag.Abort()
		}
	default:
		set := scope.UnqualifiedLookup(p.scope, nameSpelling(name))
		if set == nil {
			p.Errs.Errorf(diag.Lookup, loc, "'%s' does not name a declaration", nameSpelling(name))
			diag.Abort()
		}
		if len(set.Entries) == 1 {
			e.Resolved, _ = set.Entries[0].(ast.Decl)
		}
	}
	return e
}

// specializeNamed resolves a template-id to a specialized declaration,
// checking the template's associated constraint against the argument
// substitution first.
func (p *Parser) specializeNamed(d ast.Decl, args []ast.Node, loc token.Location) ast.Decl {
	td, ok := d.(*ast.TemplateDecl)
	if !ok {
		p.Errs.Errorf(diag.Lookup, loc, "name does not refer to a template")
		diag.Abort()
	}
	if td.Constraint != nil {
		subst, err := template.BindArguments(td, args)
		if err != nil {
			p.Errs.Errorf(diag.Constraint, loc, "%s", err.Error())
			diag.Abort()
		}
		if template.Satisfy(p.Arena, td.Constraint, subst) == template.False {
			p.Errs.Errorf(diag.Constraint, loc, "template constraints not satisfied")
			diag.Abort()
		}
	}
	spec, err := template.Specialize(p.Arena, td, args, nil)
	if err != nil {
		p.Errs.Errorf(diag.Constraint, loc, "%s", err.Error())
		diag.Abort()
	}
	return spec
}

// parseRequiresExpr parses `requires [<tparms>] [(parms)] { usage-reqs }`.
// Unlike declaration headers, everything here parses eagerly: a requires
// expression only ever occurs inside an already-reopened span, so its
// parameter types can resolve immediately and its requirements can be
// built in their final form.
func (p *Parser) parseRequiresExpr() ast.Expr {
	loc := p.expect(token.Requires).Loc
	e := &ast.RequiresExpr{}
	ast.SetLoc(e, loc)

	if p.at(token.Lt) {
		_, leave := p.enterScope(scope.KindTemplateParameterList, nil)
		e.TemplateParams = p.parseTemplateParamList()
		defer leave()
	}
	if p.at(token.LParen) {
		_, leave := p.enterScope(scope.KindParameterList, nil)
		e.Params = p.parseRequiresParams()
		defer leave()
	}
	rs, leave := p.enterScope(scope.KindRequires, nil)
	e.Scope = rs
	defer leave()

	p.expect(token.LBrace)
	for !p.at(token.RBrace) {
		e.Requirements = append(e.Requirements, p.parseRequirement())
	}
	p.expect(token.RBrace)
	return e
}

// parseRequiresParams parses a requires-expression's value parameter
// list with eagerly resolved types.
func (p *Parser) parseRequiresParams() []ast.Decl {
	p.expect(token.LParen)
	var params []ast.Decl
	for !p.at(token.RParen) {
		if len(params) > 0 {
			p.expect(token.Comma)
		}
		nameTok := p.expect(token.Identifier)
		p.expect(token.Colon)
		t := p.parseType()
		d := p.Arena.ObjectParam(nameTok.Loc, 0, p.Arena.Simple(nameTok.Loc, nameTok.Symbol), t)
		d.SetType(t)
		p.bind(d)
		params = append(params, d)
	}
	p.expect(token.RParen)
	return params
}

// parseRequirement parses one usage-requirement of a requires-expression
// or axiom body: a type-requirement, a compound requirement with an
// optional trailing return type, or a simple expression requirement.
func (p *Parser) parseRequirement() ast.Requirement {
	switch p.peek().Kind {
	case token.Typename:
		loc := p.advance().Loc
		t := p.parseType()
		p.expect(token.Semicolon)
		r := &ast.TypeRequirement{Type: t}
		ast.SetLoc(r, loc)
		return r
	case token.LBrace:
		loc := p.advance().Loc
		e := p.parseExpr()
		p.expect(token.RBrace)
		var ret ast.Type
		if p.accept(token.Arrow) {
			ret = p.parseType()
		}
		p.expect(token.Semicolon)
		r := &ast.CompoundRequirement{Expr: e, ReturnType: ret}
		ast.SetLoc(r, loc)
		return r
	default:
		loc := p.peek().Loc
		e := p.parseExpr()
		p.expect(token.Semicolon)
		r := &ast.ExprRequirement{Expr: e}
		ast.SetLoc(r, loc)
		return r
	}
}

// ParseRequirements reparses a deferred requirement span (an axiom
// body), reading requirements until the span's EOF.
func (p *Parser) ParseRequirements() []ast.Requirement {
	var reqs []ast.Requirement
	for !p.at(token.EOF) {
		reqs = append(reqs, p.parseRequirement())
	}
	return reqs
}
