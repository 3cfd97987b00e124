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

// ParseTranslationUnit parses the whole token stream as a sequence of
// top-level declaration statements, recovering at each statement
// boundary so one bad declaration doesn't hide errors in the rest of
// the unit.
func (p *Parser) ParseTranslationUnit() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.at(token.EOF) {
		s := p.guardedStmt()
		if s == nil {
			continue
		}
		if _, ok := s.(*ast.DeclStmt); !ok {
			p.Errs.Errorf(diag.Syntax, s.Loc(), "only declarations may appear at translation-unit scope")
		}
		stmts = append(stmts, s)
	}
	return stmts
}

// specifierKinds maps specifier keywords to their bits.
var specifierKinds = map[token.Kind]ast.Specifier{
	token.Static:    ast.SpecStatic,
	token.Dynamic:   ast.SpecDynamic,
	token.Virtual:   ast.SpecVirtual,
	token.Abstract:  ast.SpecAbstract,
	token.Inline:    ast.SpecInline,
	token.Explicit:  ast.SpecExplicit,
	token.Implicit:  ast.SpecImplicit,
	token.Public:    ast.SpecPublic,
	token.Private:   ast.SpecPrivate,
	token.Protected: ast.SpecProtected,
	token.In:        ast.SpecIn,
	token.Out:       ast.SpecOut,
	token.Mutable:   ast.SpecMutable,
	token.Consume:   ast.SpecConsume,
}

// parseSpecifiers accumulates the specifier bitset preceding a
// declaration introducer; the next declaration claims and clears it.
func (p *Parser) parseSpecifiers() ast.SpecifierSet {
	var spec ast.SpecifierSet
	for {
		bit, ok := specifierKinds[p.peek().Kind]
		if !ok {
			return spec
		}
		p.advance()
		spec |= ast.SpecifierSet(bit)
	}
}

// atDeclStart reports whether the current token can begin a declaration:
// an introducer keyword or a specifier that must precede one.
func (p *Parser) atDeclStart() bool {
	switch p.peek().Kind {
	case token.Var, token.Def, token.Class, token.Enum, token.Union,
		token.Namespace, token.Template, token.Concept, token.Axiom,
		token.Coroutine, token.Super:
		return true
	}
	_, isSpec := specifierKinds[p.peek().Kind]
	return isSpec
}

func (p *Parser) parseDecl() ast.Decl {
	spec := p.parseSpecifiers()
	t := p.peek()
	switch t.Kind {
	case token.Var:
		return p.parseVar(spec)
	case token.Def:
		return p.parseDef(spec, false)
	case token.Coroutine:
		p.advance()
		return p.parseDef(spec, true)
	case token.Super:
		return p.parseSuper(spec)
	case token.Class:
		return p.parseClass(spec)
	case token.Union:
		return p.parseUnion(spec)
	case token.Enum:
		return p.parseEnum(spec)
	case token.Namespace:
		return p.parseNamespace(spec)
	case token.Template:
		return p.parseTemplate(spec)
	case token.Concept:
		return p.parseConcept(spec)
	case token.Axiom:
		return p.parseAxiom(spec)
	default:
		p.errorf(t.Loc, "expected a declaration, got %s", t.Kind)
		diag.Abort()
		return nil
	}
}

// guardedMember parses one class/union/namespace member declaration,
// recovering at the member boundary on a syntax error.
func (p *Parser) guardedMember() (d ast.Decl) {
	saved := append([]token.Kind(nil), p.braces...)
	defer func() {
		if r := recover(); r != nil {
			if !diag.IsAbort(r) {
				panic(r)
			}
			d = nil
			p.braces = saved
			p.resync()
		}
	}()
	return p.parseDecl()
}

// parseVar parses `var name : type [= expr];`. The declared type and
// initializer are captured as unparsed spans; at class scope a non-static
// `var` is a field, and a `const`-leading type makes a constant.
func (p *Parser) parseVar(spec ast.SpecifierSet) ast.Decl {
	loc := p.expect(token.Var).Loc
	nameTok := p.expect(token.Identifier)
	name := p.Arena.Simple(nameTok.Loc, nameTok.Symbol)
	p.expect(token.Colon)
	ut := p.CaptureType(token.Eq, token.Semicolon)
	isConst := len(ut.Tokens) > 0 && ut.Tokens[0].Kind == token.Const

	var def ast.Def = &ast.EmptyDef{}
	var initExpr ast.Expr
	if p.accept(token.Eq) {
		toks := p.captureUntilKind(token.Semicolon)
		ue := &ast.UnparsedExpr{Tokens: toks}
		initExpr = ue
		def = &ast.ExpressionDef{Value: ue}
	}
	p.expect(token.Semicolon)

	var d ast.Decl
	switch {
	case p.scope.Kind == scope.KindClass && !spec.Has(ast.SpecStatic):
		d = p.Arena.Field(loc, spec, name, ut, initExpr)
	case isConst:
		d = p.Arena.Constant(loc, spec, name, ut, def)
	default:
		d = p.Arena.Variable(loc, spec, name, ut, def)
	}
	p.declare(d)
	return d
}

// parseSuper parses `super : type;`, a base-class subobject member.
// Base subobjects are anonymous: they join the class body for layout
// but never bind a name in the class scope.
func (p *Parser) parseSuper(spec ast.SpecifierSet) ast.Decl {
	loc := p.expect(token.Super).Loc
	p.expect(token.Colon)
	base := p.CaptureType(token.Semicolon)
	p.expect(token.Semicolon)
	return p.Arena.Super(loc, spec, base)
}

// parseDeclName parses the declared name of a function: a plain
// identifier or an operator-id.
func (p *Parser) parseDeclName() ast.Name {
	if p.at(token.Operator) {
		return p.parseOperatorName()
	}
	tok := p.expect(token.Identifier)
	return p.Arena.Simple(tok.Loc, tok.Symbol)
}

// parseParamSpecifiers gathers the specifiers legal on a parameter.
func (p *Parser) parseParamSpecifiers() ast.SpecifierSet {
	var spec ast.SpecifierSet
	for {
		switch p.peek().Kind {
		case token.In:
			p.advance()
			spec |= ast.SpecifierSet(ast.SpecIn)
		case token.Out:
			p.advance()
			spec |= ast.SpecifierSet(ast.SpecOut)
		case token.Consume:
			p.advance()
			spec |= ast.SpecifierSet(ast.SpecConsume)
		case token.Mutable:
			p.advance()
			spec |= ast.SpecifierSet(ast.SpecMutable)
		default:
			return spec
		}
	}
}

// parseParameterList parses `( [specs] name : type, ..., ... )` with
// every parameter type captured as an unparsed span, declaring each
// parameter into the current (parameter-list) scope.
func (p *Parser) parseParameterList() []ast.Decl {
	p.expect(token.LParen)
	var params []ast.Decl
	for !p.at(token.RParen) {
		if len(params) > 0 {
			p.expect(token.Comma)
		}
		if p.at(token.Ellipsis) {
			loc := p.advance().Loc
			d := p.Arena.VariadicParam(loc, p.Arena.FreshPlaceholder(loc))
			p.bind(d)
			params = append(params, d)
			continue
		}
		pspec := p.parseParamSpecifiers()
		nameTok := p.expect(token.Identifier)
		p.expect(token.Colon)
		t := p.CaptureType(token.Comma, token.RParen)
		d := p.Arena.ObjectParam(nameTok.Loc, pspec, p.Arena.Simple(nameTok.Loc, nameTok.Symbol), t)
		p.bind(d)
		params = append(params, d)
	}
	p.expect(token.RParen)
	return params
}

// parseDef parses `def name: (params) -> type body`, where body is a
// compound statement, `= expr;`, `= delete;`, `= default;`, or just `;`
// for a forward declaration. Parameters live in an anonymous parameter
// scope kept on the declaration; pass 4 re-enters it when the body span
// is reopened, making parameters visible for lookup.
func (p *Parser) parseDef(spec ast.SpecifierSet, coroutine bool) ast.Decl {
	loc := p.expect(token.Def).Loc
	name := p.parseDeclName()
	p.expect(token.Colon)
	ps, leave := p.enterScope(scope.KindParameterList, nil)
	params := p.parseParameterList()
	leave()
	p.expect(token.Arrow)
	ret := p.CaptureType(token.LBrace, token.Eq, token.Semicolon)

	var def ast.Def
	switch {
	case p.at(token.LBrace):
		toks := p.captureBalanced(token.LBrace)
		def = &ast.FunctionDef{Body: &ast.UnparsedStmt{Tokens: toks}}
	case p.accept(token.Eq):
		switch {
		case p.accept(token.Delete):
			def = &ast.DeletedDef{}
			p.expect(token.Semicolon)
		case p.accept(token.Default):
			def = &ast.DefaultedDef{}
			p.expect(token.Semicolon)
		default:
			toks := p.captureUntilKind(token.Semicolon)
			def = &ast.ExpressionDef{Value: &ast.UnparsedExpr{Tokens: toks}}
			p.expect(token.Semicolon)
		}
	default:
		p.expect(token.Semicolon)
		def = &ast.EmptyDef{}
	}

	fd := p.Arena.Function(loc, spec, name, params, ret, def)
	fd.ParamScope = ps
	fd.IsCoroutine = coroutine
	for _, prm := range params {
		prm.SetContext(fd)
	}
	p.declare(fd)
	return fd
}

// parseClass parses `class name [: metatype] { members }`. The class is
// declared before its body is entered, so members can mention the class
// itself.
func (p *Parser) parseClass(spec ast.SpecifierSet) ast.Decl {
	loc := p.expect(token.Class).Loc
	nameTok := p.expect(token.Identifier)
	cd := p.Arena.Class(loc, spec, p.Arena.Simple(nameTok.Loc, nameTok.Symbol))
	if p.accept(token.Colon) {
		cd.Metatype = p.CaptureType(token.LBrace)
	}
	p.declare(cd)

	cs, leave := p.enterScope(scope.KindClass, cd)
	defer leave()
	cd.Scope = cs
	p.expect(token.LBrace)
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.errorf(p.peek().Loc, "unexpected end of file inside class body")
			diag.Abort()
		}
		if d := p.guardedMember(); d != nil {
			d.SetContext(cd)
			cd.Body = append(cd.Body, d)
		}
	}
	p.expect(token.RBrace)
	return cd
}

func (p *Parser) parseUnion(spec ast.SpecifierSet) ast.Decl {
	loc := p.expect(token.Union).Loc
	nameTok := p.expect(token.Identifier)
	ud := p.Arena.Union(loc, spec, p.Arena.Simple(nameTok.Loc, nameTok.Symbol))
	p.declare(ud)

	us, leave := p.enterScope(scope.KindClass, ud)
	defer leave()
	ud.Scope = us
	p.expect(token.LBrace)
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.errorf(p.peek().Loc, "unexpected end of file inside union body")
			diag.Abort()
		}
		if d := p.guardedMember(); d != nil {
			d.SetContext(ud)
			ud.Body = append(ud.Body, d)
		}
	}
	p.expect(token.RBrace)
	return ud
}

// parseEnum parses `enum name { a, b = expr, c }`. Each entry also binds
// a constant in the enclosing scope so entry names resolve like any
// other constant; their values elaborate (with auto-increment) in
// pass 4.
func (p *Parser) parseEnum(spec ast.SpecifierSet) ast.Decl {
	loc := p.expect(token.Enum).Loc
	nameTok := p.expect(token.Identifier)
	ed := p.Arena.Enum(loc, spec, p.Arena.Simple(nameTok.Loc, nameTok.Symbol))
	p.declare(ed)

	p.expect(token.LBrace)
	for !p.at(token.RBrace) {
		if len(ed.Entries) > 0 {
			p.expect(token.Comma)
			if p.at(token.RBrace) {
				break
			}
		}
		etok := p.expect(token.Identifier)
		ename := p.Arena.Simple(etok.Loc, etok.Symbol)
		var def ast.Def = &ast.EmptyDef{}
		var val ast.Expr
		if p.accept(token.Eq) {
			toks := p.captureUntil(func(t token.Token) bool {
				return t.Kind == token.Comma || t.Kind == token.RBrace
			})
			ue := &ast.UnparsedExpr{Tokens: toks}
			val = ue
			def = &ast.ExpressionDef{Value: ue}
		}
		entry := p.Arena.Constant(etok.Loc, 0, ename, nil, def)
		entry.SetContext(ed)
		p.bind(entry)
		ed.Entries = append(ed.Entries, ast.EnumEntry{Name: ename, Value: val, Const: entry})
	}
	p.expect(token.RBrace)
	return ed
}

func (p *Parser) parseNamespace(spec ast.SpecifierSet) ast.Decl {
	loc := p.expect(token.Namespace).Loc
	nameTok := p.expect(token.Identifier)
	nd := p.Arena.Namespace(loc, spec, p.Arena.Simple(nameTok.Loc, nameTok.Symbol))
	p.declare(nd)

	ns, leave := p.enterScope(scope.KindNamespace, nd)
	defer leave()
	nd.Scope = ns
	p.expect(token.LBrace)
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.errorf(p.peek().Loc, "unexpected end of file inside namespace body")
			diag.Abort()
		}
		if d := p.guardedMember(); d != nil {
			d.SetContext(nd)
			nd.Body = append(nd.Body, d)
		}
	}
	p.expect(token.RBrace)
	return nd
}

// parseTemplate parses `template <params> [requires expr] decl`. The
// parameterized declaration does not bind into the enclosing scope
// itself; the TemplateDecl binds there under the parameterized name.
func (p *Parser) parseTemplate(spec ast.SpecifierSet) ast.Decl {
	loc := p.expect(token.Template).Loc
	ps, leave := p.enterScope(scope.KindTemplateParameterList, nil)
	params := p.parseTemplateParamList()

	var constraint ast.Constraint
	if p.accept(token.Requires) {
		constraint = template.Normalize(p.parseExpr())
	}

	p.suppressBind = true
	inner := p.parseDecl()
	leave()

	td := p.Arena.Template(loc, spec, inner.Name(), params, inner)
	td.ParamScope = ps
	td.Constraint = constraint
	inner.SetContext(td)
	p.declare(td)
	return td
}

// parseTemplateParamList parses `< params >`: `typename T [= type]`,
// `name : type [= expr]` for value parameters, and
// `template <params> typename name` for template template parameters,
// declaring each into the current (template-parameter) scope.
func (p *Parser) parseTemplateParamList() []ast.Decl {
	p.expect(token.Lt)
	var params []ast.Decl
	for !p.at(token.Gt) {
		if len(params) > 0 {
			p.expect(token.Comma)
		}
		switch p.peek().Kind {
		case token.Typename:
			p.advance()
			nameTok := p.expect(token.Identifier)
			var dflt ast.Type
			if p.accept(token.Eq) {
				dflt = p.parseType()
			}
			d := p.Arena.TypeTemplateParam(nameTok.Loc, p.Arena.Simple(nameTok.Loc, nameTok.Symbol), dflt)
			d.SetType(p.Arena.Types.TypeOfTypes())
			p.bind(d)
			params = append(params, d)
		case token.Template:
			p.advance()
			_, leave := p.enterScope(scope.KindTemplateParameterList, nil)
			nested := p.parseTemplateParamList()
			leave()
			p.expect(token.Typename)
			nameTok := p.expect(token.Identifier)
			d := p.Arena.TemplateTemplateParam(nameTok.Loc, p.Arena.Simple(nameTok.Loc, nameTok.Symbol), nested)
			d.SetType(p.Arena.Types.TypeOfTypes())
			p.bind(d)
			params = append(params, d)
		default:
			nameTok := p.expect(token.Identifier)
			if !p.at(token.Colon) {
				// A bare name is a type parameter, `typename` elided.
				d := p.Arena.TypeTemplateParam(nameTok.Loc, p.Arena.Simple(nameTok.Loc, nameTok.Symbol), nil)
				d.SetType(p.Arena.Types.TypeOfTypes())
				p.bind(d)
				params = append(params, d)
				continue
			}
			p.expect(token.Colon)
			t := p.CaptureType(token.Comma, token.Gt, token.Eq)
			var dflt ast.Expr
			if p.accept(token.Eq) {
				toks := p.captureUntil(func(t token.Token) bool {
					return t.Kind == token.Comma || t.Kind == token.Gt
				})
				dflt = &ast.UnparsedExpr{Tokens: toks}
			}
			d := p.Arena.ValueTemplateParam(nameTok.Loc, p.Arena.Simple(nameTok.Loc, nameTok.Symbol), t, dflt)
			p.bind(d)
			params = append(params, d)
		}
	}
	p.expect(token.Gt)
	return params
}

// parseConcept parses `concept name<params> = expr;`; the defining
// expression is captured for pass 4, which parses it against the
// concept's parameter scope and normalizes it.
func (p *Parser) parseConcept(spec ast.SpecifierSet) ast.Decl {
	loc := p.expect(token.Concept).Loc
	nameTok := p.expect(token.Identifier)
	ps, leave := p.enterScope(scope.KindTemplateParameterList, nil)
	params := p.parseTemplateParamList()
	leave()
	p.expect(token.Eq)
	toks := p.captureUntilKind(token.Semicolon)
	p.expect(token.Semicolon)

	def := &ast.ConceptDef{Value: &ast.UnparsedExpr{Tokens: toks}}
	cd := p.Arena.Concept(loc, spec, p.Arena.Simple(nameTok.Loc, nameTok.Symbol), params, def)
	cd.ParamScope = ps
	for _, prm := range params {
		prm.SetContext(cd)
	}
	p.declare(cd)
	return cd
}

// parseAxiom parses `axiom name(params) { requirements }`. The body is
// a usage-requirement sequence captured whole; pass 4 reparses it in
// the axiom's parameter scope, the same treatment a requires-expression
// body gets.
func (p *Parser) parseAxiom(spec ast.SpecifierSet) ast.Decl {
	loc := p.expect(token.Axiom).Loc
	nameTok := p.expect(token.Identifier)
	ps, leave := p.enterScope(scope.KindParameterList, nil)
	params := p.parseParameterList()
	leave()
	toks := p.captureBalanced(token.LBrace)

	def := &ast.RequirementsDef{Tokens: toks}
	ad := p.Arena.Axiom(loc, spec, p.Arena.Simple(nameTok.Loc, nameTok.Symbol), params, def)
	ad.ParamScope = ps
	for _, prm := range params {
		prm.SetContext(ad)
	}
	p.declare(ad)
	return ad
}
