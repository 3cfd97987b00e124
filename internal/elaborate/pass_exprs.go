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

package elaborate

import (
	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/diag"
	"github.com/asutton/banjo-sub001/internal/parser"
	"github.com/asutton/banjo-sub001/internal/scope"
	"github.com/asutton/banjo-sub001/internal/template"
)

// expressionElaboration is pass 4: every deferred expression span —
// variable initializers, function bodies, concept definitions, axiom
// requirement sequences, enum entry values — is reparsed and typed.
// Order within a scope follows source order but need not respect
// dependencies: pass 1 gave every declaration its type, so each span
// elaborates locally.
func (e *Elaborator) expressionElaboration(stmts []ast.Stmt) {
	e.eachDecl(stmts, func(d ast.Decl) { e.elabDecl(d, e.Global) })
}

// reparseExpr opens a fresh parser over a deferred span with s in
// effect and returns the typed expression. An already-parsed expression
// passes through (retyped in place, which is idempotent).
func (e *Elaborator) reparseExpr(x ast.Expr, s *scope.Scope) ast.Expr {
	if ue, ok := x.(*ast.UnparsedExpr); ok {
		pr := parser.Reopen(e.Arena, e.Errs, ue.Tokens, s)
		x = pr.ParseInitializer()
	}
	e.typeExpr(x, s)
	return x
}

func (e *Elaborator) elabDecl(d ast.Decl, s *scope.Scope) {
	switch n := d.(type) {
	case *ast.VariableDecl:
		e.elabVariableInit(n, s)

	case *ast.ConstantDecl:
		e.elabConstantInit(n, s)

	case *ast.FieldDecl:
		if n.Default != nil {
			x := e.reparseExpr(n.Default, s)
			n.Default = e.convertOrError(x, n.DeclaredType)
		}

	case *ast.SuperDecl:
		// Nothing deferred: the base type resolved in pass 1.

	case *ast.FunctionDecl:
		e.elabFunction(n)

	case *ast.ClassDecl:
		for _, m := range n.Body {
			m := m
			e.guard(func() { e.elabDecl(m, n.Scope) })
		}

	case *ast.UnionDecl:
		for _, m := range n.Body {
			m := m
			e.guard(func() { e.elabDecl(m, n.Scope) })
		}

	case *ast.NamespaceDecl:
		for _, m := range n.Body {
			m := m
			e.guard(func() { e.elabDecl(m, n.Scope) })
		}

	case *ast.EnumDecl:
		e.elabEnum(n, s)

	case *ast.TemplateDecl:
		// The parameterized declaration's body stays deferred: it is
		// instantiated on demand per specialization, not during
		// translation-unit elaboration.

	case *ast.ConceptDecl:
		e.elabConcept(n)

	case *ast.AxiomDecl:
		e.elabAxiom(n)
	}
}

func (e *Elaborator) elabVariableInit(d *ast.VariableDecl, s *scope.Scope) {
	ed, ok := d.Def.(*ast.ExpressionDef)
	if !ok {
		return
	}
	x := e.reparseExpr(ed.Value, s)
	e.deduceAuto(d, x)
	init := e.convertOrError(x, d.Type())
	ed.Value = init
	d.Init = init
}

// deduceAuto replaces a placeholder declared type with the
// initializer's type — the `auto` deduction rule.
func (e *Elaborator) deduceAuto(d *ast.VariableDecl, init ast.Expr) {
	if _, isAuto := d.Type().(*ast.AutoType); !isAuto {
		return
	}
	if init.Type() == nil {
		e.Errs.Errorf(diag.Type, d.Loc(), "cannot deduce type from initializer")
		diag.Abort()
	}
	d.DeclaredType = init.Type()
	d.SetType(init.Type())
}

func (e *Elaborator) elabConstantInit(d *ast.ConstantDecl, s *scope.Scope) {
	if _, isEnum := d.Context().(*ast.EnumDecl); isEnum {
		return // elaborated with its enum, where auto-increment applies
	}
	ed, ok := d.Def.(*ast.ExpressionDef)
	if !ok {
		return
	}
	x := e.reparseExpr(ed.Value, s)
	init := e.convertOrError(x, d.Type())
	ed.Value = init
	if v, ok := Eval(init); ok {
		d.Value = v
	} else {
		e.Errs.Errorf(diag.Type, d.Loc(), "constant initializer is not a constant expression")
	}
}

// elabFunction reparses a deferred body with the parameter scope
// reentered. An expression body is rewritten into `{ return expr; }` so
// downstream consumers only ever see statement-bodied functions.
func (e *Elaborator) elabFunction(d *ast.FunctionDecl) {
	switch def := d.Def.(type) {
	case *ast.ExpressionDef:
		x := e.reparseExpr(def.Value, d.ParamScope)
		var value ast.Expr
		if _, isVoid := d.ReturnType.(*ast.VoidType); isVoid {
			value = x
		} else {
			value = e.convertOrError(x, d.ReturnType)
		}
		ret := &ast.ReturnStmt{Value: value}
		ast.SetLoc(ret, x.Loc())
		body := &ast.CompoundStmt{
			Scope:      scope.New(scope.KindBlock, nil, d.ParamScope),
			Statements: []ast.Stmt{ret},
		}
		ast.SetLoc(body, x.Loc())
		d.Def = &ast.FunctionDef{Body: body}

	case *ast.FunctionDef:
		us, ok := def.Body.(*ast.UnparsedStmt)
		if !ok {
			return
		}
		pr := parser.Reopen(e.Arena, e.Errs, us.Tokens, d.ParamScope)
		body := pr.ParseFunctionBody()
		def.Body = body
		e.elabStmt(body, body.Scope, d)
	}
	if d.IsCoroutine {
		e.checkCoroutine(d)
	}
}

// elabStmt types the expressions of a reparsed statement tree and runs
// the local declarations of a body through the same elaboration the
// translation unit's declarations received, in source order.
func (e *Elaborator) elabStmt(s ast.Stmt, sc *scope.Scope, fn *ast.FunctionDecl) {
	switch n := s.(type) {
	case *ast.CompoundStmt:
		inner := sc
		if n.Scope != nil {
			inner = n.Scope
		}
		for _, c := range n.Statements {
			c := c
			e.guard(func() { e.elabStmt(c, inner, fn) })
		}
	case *ast.ExprStmt:
		e.typeExpr(n.Expr, sc)
	case *ast.DeclStmt:
		e.declType(n.Decl, sc)
		e.elabDecl(n.Decl, sc)
	case *ast.ReturnStmt:
		if n.Value != nil {
			e.typeExpr(n.Value, sc)
			n.Value = e.convertOrError(n.Value, fn.ReturnType)
		}
	case *ast.YieldStmt:
		if n.Value != nil {
			e.typeExpr(n.Value, sc)
			n.Value = e.convertOrError(n.Value, fn.ReturnType)
		}
	case *ast.IfStmt:
		e.typeExpr(n.Cond, sc)
		n.Cond = e.ensureBool(n.Cond)
		e.elabStmt(n.Then, sc, fn)
		if n.Else != nil {
			e.elabStmt(n.Else, sc, fn)
		}
	case *ast.WhileStmt:
		e.typeExpr(n.Cond, sc)
		n.Cond = e.ensureBool(n.Cond)
		e.elabStmt(n.Body, sc, fn)
	}
}

func (e *Elaborator) elabEnum(d *ast.EnumDecl, s *scope.Scope) {
	next := int64(0)
	for i := range d.Entries {
		entry := &d.Entries[i]
		if entry.Value != nil {
			x := e.reparseExpr(entry.Value, s)
			entry.Value = x
			if v, ok := Eval(x); ok && v.IsInt {
				next = v.Int
			} else {
				e.Errs.Errorf(diag.Type, entry.Const.Loc(), "enum entry value is not an integer constant")
			}
		}
		entry.Const.Value = &ast.ConstValue{IsInt: true, Int: next}
		next++
	}
}

func (e *Elaborator) elabConcept(d *ast.ConceptDecl) {
	def, ok := d.Def.(*ast.ConceptDef)
	if !ok {
		return
	}
	x := e.reparseExpr(def.Value, d.ParamScope)
	def.Value = x
	d.Normalized = template.Normalize(x)
}

func (e *Elaborator) elabAxiom(d *ast.AxiomDecl) {
	def, ok := d.Def.(*ast.RequirementsDef)
	if !ok || def.Requirements != nil {
		return
	}
	pr := parser.Reopen(e.Arena, e.Errs, def.Tokens, d.ParamScope)
	def.Requirements = pr.ParseRequirements()
	for _, r := range def.Requirements {
		r := r
		e.guard(func() { e.typeRequirement(r, d.ParamScope) })
	}
}

func (e *Elaborator) typeRequirement(r ast.Requirement, s *scope.Scope) {
	switch n := r.(type) {
	case *ast.ExprRequirement:
		e.typeExpr(n.Expr, s)
	case *ast.CompoundRequirement:
		e.typeExpr(n.Expr, s)
	case *ast.TypeRequirement:
		// The type resolved when the requirement was parsed.
	}
}
