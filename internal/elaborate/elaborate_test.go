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

package elaborate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/diag"
	"github.com/asutton/banjo-sub001/internal/elaborate"
	"github.com/asutton/banjo-sub001/internal/parser"
	"github.com/asutton/banjo-sub001/internal/scope"
	"github.com/asutton/banjo-sub001/internal/template"
	"github.com/asutton/banjo-sub001/internal/token"
)

type unit struct {
	arena  *ast.Arena
	global *scope.Scope
	stmts  []ast.Stmt
	errs   diag.List
}

func translate(t *testing.T, src string) *unit {
	toks, lexErrs := token.Lex("test.bnj", src)
	require.Empty(t, lexErrs)
	u := &unit{arena: ast.NewArena(), global: scope.New(scope.KindGlobal, nil, nil)}
	p := parser.New(u.arena, &u.errs, toks, u.global)
	u.stmts = p.ParseTranslationUnit()
	el := elaborate.New(u.arena, &u.errs, u.global)
	el.Run(context.Background(), u.stmts)
	return u
}

func (u *unit) decl(t *testing.T, name string) ast.Decl {
	set := u.global.Lookup(name)
	require.NotNil(t, set, "no binding for %q", name)
	require.Len(t, set.Entries, 1)
	d, ok := set.Entries[0].(ast.Decl)
	require.True(t, ok)
	return d
}

// unwrapInit strips the conversion/copy-init wrappers elaboration
// inserts, down to the underlying expression.
func unwrapInit(e ast.Expr) ast.Expr {
	for {
		switch n := e.(type) {
		case *ast.CopyInitExpr:
			e = n.Source
		case *ast.ConversionExpr:
			e = n.Source
		default:
			return e
		}
	}
}

// Scenario: `var x : int = 1 + 2;`
func TestTrivialVariable(t *testing.T) {
	u := translate(t, "var x : int = 1 + 2;")
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)
	require.Len(t, u.stmts, 1)
	assert.IsType(t, &ast.DeclStmt{}, u.stmts[0])

	x := u.decl(t, "x").(*ast.VariableDecl)
	assert.Same(t, u.arena.Types.Integer(true, 32), x.Type())

	require.NotNil(t, x.Init)
	assert.Same(t, u.arena.Types.Integer(true, 32), ast.Unqualified(x.Init.Type()))

	v, ok := elaborate.Eval(x.Init)
	require.True(t, ok)
	assert.True(t, v.IsInt)
	assert.Equal(t, int64(3), v.Int)
}

// Scenario: forward reference within a class.
func TestForwardReferenceWithinClass(t *testing.T) {
	u := translate(t, "class C { def f: () -> int = g(); def g: () -> int = 0; }")
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	cd := u.decl(t, "C").(*ast.ClassDecl)
	require.True(t, cd.Complete)
	require.Len(t, cd.Methods, 2)
	assert.Equal(t, "f", cd.Methods[0].DeclName())
	assert.Equal(t, "g", cd.Methods[1].DeclName())

	// f's expression body was rewritten into { return g(); } and the
	// call refers to g by resolved declaration.
	fdef, ok := cd.Methods[0].Def.(*ast.FunctionDef)
	require.True(t, ok)
	body, ok := fdef.Body.(*ast.CompoundStmt)
	require.True(t, ok)
	require.Len(t, body.Statements, 1)
	ret := body.Statements[0].(*ast.ReturnStmt)
	call, ok := unwrapInit(ret.Value).(*ast.CallExpr)
	require.True(t, ok)
	target, ok := call.Target.(*ast.IdentExpr)
	require.True(t, ok)
	assert.Same(t, cd.Methods[1], target.Resolved)
}

// Scenario: overload resolution picks the bool candidate for f(true).
func TestOverloadResolution(t *testing.T) {
	u := translate(t, `
		def f: (x : int) -> int = x;
		def f: (x : bool) -> int = 0;
		def g: () -> int = f(true);
	`)
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	set := u.global.Lookup("f")
	require.NotNil(t, set)
	require.Len(t, set.Entries, 2)
	boolF := set.Entries[1].(*ast.FunctionDecl)

	g := u.decl(t, "g").(*ast.FunctionDecl)
	body := g.Def.(*ast.FunctionDef).Body.(*ast.CompoundStmt)
	ret := body.Statements[0].(*ast.ReturnStmt)
	call := unwrapInit(ret.Value).(*ast.CallExpr)
	target := call.Target.(*ast.IdentExpr)
	assert.Same(t, boolF, target.Resolved)

	require.Len(t, call.Args, 1)
	lit, ok := unwrapInit(call.Args[0]).(*ast.BoolLit)
	require.True(t, ok)
	assert.True(t, lit.Value)
}

// Scenario: `var x : auto = 42;` deduces integer.
func TestAutoDeduction(t *testing.T) {
	u := translate(t, "var x : auto = 42;")
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	x := u.decl(t, "x").(*ast.VariableDecl)
	assert.Same(t, u.arena.Types.Integer(true, 32), x.Type())
	assert.Same(t, u.arena.Types.Integer(true, 32), ast.Unqualified(x.Init.Type()))
}

// Scenario: template specialization `v<int>` has type pointer-to-int.
func TestTemplateSpecialization(t *testing.T) {
	u := translate(t, `
		template <typename T> var v : *T;
		var p : auto = v<int>;
	`)
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	p := u.decl(t, "p").(*ast.VariableDecl)
	want := u.arena.Types.Pointer(u.arena.Types.Integer(true, 32))
	assert.Same(t, want, p.Type())

	// The one use of the template-id leaves exactly one cached
	// specialization.
	td := u.decl(t, "v").(*ast.TemplateDecl)
	assert.Len(t, td.Specializations, 1)
}

// Scenario: concept subsumption ordering and satisfaction.
func TestConceptSubsumptionAndSatisfaction(t *testing.T) {
	u := translate(t, `
		concept A<typename T> = true;
		concept B<typename T> = A<T> && true;
	`)
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	a := u.decl(t, "A").(*ast.ConceptDecl)
	b := u.decl(t, "B").(*ast.ConceptDecl)
	require.NotNil(t, a.Normalized)
	require.NotNil(t, b.Normalized)

	assert.True(t, template.Subsumes(b.Normalized, a.Normalized))
	assert.False(t, template.Subsumes(a.Normalized, b.Normalized))

	subst := template.New()
	subst.Bind(a.Params[0], u.arena.Types.Integer(true, 32))
	subst.Bind(b.Params[0], u.arena.Types.Integer(true, 32))
	assert.Equal(t, template.True, template.Satisfy(u.arena, a.Normalized, subst))
	assert.Equal(t, template.True, template.Satisfy(u.arena, b.Normalized, subst))
}

// After pass 1, every non-template declaration's type contains no
// unparsed regions; after pass 4, every initializer is typed.
func TestNoUnparsedRegionsSurvive(t *testing.T) {
	u := translate(t, `
		class Pair { var a : int; var b : bool; }
		def sum: (x : int, y : int) -> int = x + y;
		var total : int = sum(1, 2);
	`)
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	sum := u.decl(t, "sum").(*ast.FunctionDecl)
	ft, ok := sum.Type().(*ast.FunctionType)
	require.True(t, ok)
	require.Len(t, ft.Params, 2)
	for _, pt := range ft.Params {
		_, unparsed := pt.(*ast.UnparsedType)
		assert.False(t, unparsed)
	}

	total := u.decl(t, "total").(*ast.VariableDecl)
	require.NotNil(t, total.Init)
	assert.NotNil(t, total.Init.Type())

	pair := u.decl(t, "Pair").(*ast.ClassDecl)
	require.Len(t, pair.Fields, 2)
	assert.Same(t, u.arena.Types.Integer(true, 32), pair.Fields[0].Type())
	assert.Same(t, u.arena.Types.Bool(), pair.Fields[1].Type())
}

func TestConstantEvaluatesAndCaches(t *testing.T) {
	u := translate(t, "var k : const int = 6 * 7;")
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	k := u.decl(t, "k").(*ast.ConstantDecl)
	require.NotNil(t, k.Value)
	assert.True(t, k.Value.IsInt)
	assert.Equal(t, int64(42), k.Value.Int)
}

func TestEnumAutoIncrement(t *testing.T) {
	u := translate(t, "enum Color { red, green = 5, blue }")
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	ed := u.decl(t, "Color").(*ast.EnumDecl)
	require.Len(t, ed.Entries, 3)
	assert.Equal(t, int64(0), ed.Entries[0].Const.Value.Int)
	assert.Equal(t, int64(5), ed.Entries[1].Const.Value.Int)
	assert.Equal(t, int64(6), ed.Entries[2].Const.Value.Int)
}

// Pass 2 rejects two same-signature declarations whose return types
// disagree — detectable only after pass 1 resolves parameter types.
func TestOverloadConsistencyRejectsReturnMismatch(t *testing.T) {
	u := translate(t, `
		def h: (x : int) -> int;
		def h: (x : int) -> bool;
	`)
	require.True(t, u.errs.HasErrors())
	found := false
	for _, err := range u.errs {
		if err.Kind == diag.Declaration && len(err.Causes) > 0 {
			found = true
		}
	}
	assert.True(t, found, "expected a composite declaration error, got %v", u.errs)
}

func TestIfConditionMustBeBoolish(t *testing.T) {
	u := translate(t, `
		class Pair { var a : int; }
		var q : Pair;
		def f: () -> int { if (q) { return 1; } return 0; }
	`)
	require.True(t, u.errs.HasErrors())
}

func TestStatementBodies(t *testing.T) {
	u := translate(t, `
		def fib: (n : int) -> int {
			if (n < 2) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
	`)
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	fib := u.decl(t, "fib").(*ast.FunctionDecl)
	body := fib.Def.(*ast.FunctionDef).Body.(*ast.CompoundStmt)
	require.Len(t, body.Statements, 2)
	ifStmt, ok := body.Statements[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.Same(t, u.arena.Types.Bool(), ast.Unqualified(ifStmt.Cond.Type()))
}

func TestLocalDeclarations(t *testing.T) {
	u := translate(t, `
		def f: () -> int {
			var local : int = 10;
			return local * 2;
		}
	`)
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	f := u.decl(t, "f").(*ast.FunctionDecl)
	body := f.Def.(*ast.FunctionDef).Body.(*ast.CompoundStmt)
	ds, ok := body.Statements[0].(*ast.DeclStmt)
	require.True(t, ok)
	local := ds.Decl.(*ast.VariableDecl)
	assert.Same(t, u.arena.Types.Integer(true, 32), local.Type())
	require.NotNil(t, local.Init)
}

func TestLayoutQueries(t *testing.T) {
	u := translate(t, "class P { var a : int; var b : byte; var c : int; }")
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	cd := u.decl(t, "P").(*ast.ClassDecl)
	ct := u.arena.Types.Class(cd)

	size, err := elaborate.SizeOf(ct)
	require.NoError(t, err)
	assert.Equal(t, 12, size)

	alignment, err := elaborate.AlignOf(ct)
	require.NoError(t, err)
	assert.Equal(t, 4, alignment)

	off, err := elaborate.OffsetOf(cd, cd.Fields[2])
	require.NoError(t, err)
	assert.Equal(t, 8, off)
}

func TestAxiomRequirementsElaborate(t *testing.T) {
	u := translate(t, "axiom Commutes(a : int, b : int) { a + b; b + a; }")
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	ad := u.decl(t, "Commutes").(*ast.AxiomDecl)
	def := ad.Def.(*ast.RequirementsDef)
	require.Len(t, def.Requirements, 2)
	er, ok := def.Requirements[0].(*ast.ExprRequirement)
	require.True(t, ok)
	assert.Same(t, u.arena.Types.Integer(true, 32), ast.Unqualified(er.Expr.Type()))
}

func TestRequiresExpressionNormalizes(t *testing.T) {
	u := translate(t, "concept Addable<typename T> = requires (a : int) { a + a; };")
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	cd := u.decl(t, "Addable").(*ast.ConceptDecl)
	require.NotNil(t, cd.Normalized)
	assert.IsType(t, &ast.ParameterizedConstraint{}, cd.Normalized)
}

func TestCoroutineBodyElaborates(t *testing.T) {
	u := translate(t, "coroutine def gen: () -> int { yield 1; yield 2; }")
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	gen := u.decl(t, "gen").(*ast.FunctionDecl)
	assert.True(t, gen.IsCoroutine)
	body := gen.Def.(*ast.FunctionDef).Body.(*ast.CompoundStmt)
	require.Len(t, body.Statements, 2)
	y := body.Statements[0].(*ast.YieldStmt)
	require.NotNil(t, y.Value)
	assert.Same(t, u.arena.Types.Integer(true, 32), ast.Unqualified(y.Value.Type()))
}

func TestQualifiedLookupThroughNamespace(t *testing.T) {
	u := translate(t, `
		namespace N { var x : int = 1; }
		var y : int = N::x;
	`)
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	nd := u.decl(t, "N").(*ast.NamespaceDecl)
	y := u.decl(t, "y").(*ast.VariableDecl)
	id, ok := unwrapInit(y.Init).(*ast.IdentExpr)
	require.True(t, ok)
	qn, ok := id.Name.(*ast.QualifiedIdent)
	require.True(t, ok)
	assert.Same(t, nd, qn.Context)
	assert.Same(t, nd.Body[0], id.Resolved)
}

func TestZeroAndValueInitialize(t *testing.T) {
	u := translate(t, "class P { var a : int; var b : bool; }")
	require.False(t, u.errs.HasErrors(), "errors: %v", u.errs)

	cd := u.decl(t, "P").(*ast.ClassDecl)
	ct := u.arena.Types.Class(cd)

	z, err := elaborate.ZeroInitialize(u.arena, ct)
	require.NoError(t, err)
	agg, ok := z.(*ast.AggregateInitExpr)
	require.True(t, ok)
	require.Len(t, agg.Elems, 2)
	assert.IsType(t, &ast.IntLit{}, agg.Elems[0])
	assert.IsType(t, &ast.BoolLit{}, agg.Elems[1])

	// A reference cannot be zero-initialized.
	_, err = elaborate.ZeroInitialize(u.arena, u.arena.Types.Reference(u.arena.Types.Bool()))
	assert.Error(t, err)

	v, err := elaborate.ValueInitialize(u.arena, u.arena.Types.Integer(true, 32))
	require.NoError(t, err)
	lit, ok := v.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(0), lit.Value)
}
