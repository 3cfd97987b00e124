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

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/diag"
	"github.com/asutton/banjo-sub001/internal/parser"
	"github.com/asutton/banjo-sub001/internal/scope"
	"github.com/asutton/banjo-sub001/internal/token"
)

func parseTU(t *testing.T, src string) ([]ast.Stmt, *scope.Scope, diag.List) {
	toks, lexErrs := token.Lex("test.bnj", src)
	require.Empty(t, lexErrs)
	arena := ast.NewArena()
	var errs diag.List
	global := scope.New(scope.KindGlobal, nil, nil)
	p := parser.New(arena, &errs, toks, global)
	return p.ParseTranslationUnit(), global, errs
}

func declOf(t *testing.T, s ast.Stmt) ast.Decl {
	ds, ok := s.(*ast.DeclStmt)
	require.True(t, ok, "expected a declaration statement, got %T", s)
	return ds.Decl
}

// A variable's type and initializer come out of the first parse as
// deferred token spans, not parsed subtrees.
func TestVariableDefersTypeAndInitializer(t *testing.T) {
	stmts, global, errs := parseTU(t, "var x : int = 1 + 2;")
	require.False(t, errs.HasErrors(), "errors: %v", errs)
	require.Len(t, stmts, 1)

	vd, ok := declOf(t, stmts[0]).(*ast.VariableDecl)
	require.True(t, ok)

	ut, ok := vd.DeclaredType.(*ast.UnparsedType)
	require.True(t, ok)
	assert.Equal(t, token.Int, ut.Tokens[0].Kind)

	ed, ok := vd.Def.(*ast.ExpressionDef)
	require.True(t, ok)
	ue, ok := ed.Value.(*ast.UnparsedExpr)
	require.True(t, ok)
	// 1 + 2 plus the synthetic EOF terminating the span.
	assert.Len(t, ue.Tokens, 4)

	require.NotNil(t, global.Lookup("x"))
}

// The body span stops at the matching closer, not at the first '}' seen.
func TestFunctionBodyCapturesNestedBraces(t *testing.T) {
	stmts, _, errs := parseTU(t, "def f: () -> int { if (true) { return 1; } return 0; }")
	require.False(t, errs.HasErrors(), "errors: %v", errs)
	require.Len(t, stmts, 1)

	fd, ok := declOf(t, stmts[0]).(*ast.FunctionDecl)
	require.True(t, ok)
	def, ok := fd.Def.(*ast.FunctionDef)
	require.True(t, ok)
	us, ok := def.Body.(*ast.UnparsedStmt)
	require.True(t, ok)

	var opens, closes int
	for _, tok := range us.Tokens {
		switch tok.Kind {
		case token.LBrace:
			opens++
		case token.RBrace:
			closes++
		}
	}
	assert.Equal(t, 1, opens)
	assert.Equal(t, 1, closes)
}

func TestFunctionBodyForms(t *testing.T) {
	stmts, _, errs := parseTU(t, `
		def a: () -> int { return 0; }
		def b: () -> int = 0;
		def c: () -> int = delete;
		def d: () -> int = default;
		def e: () -> int;
	`)
	require.False(t, errs.HasErrors(), "errors: %v", errs)
	require.Len(t, stmts, 5)

	defOf := func(i int) ast.Def { return declOf(t, stmts[i]).(*ast.FunctionDecl).Def }
	assert.IsType(t, &ast.FunctionDef{}, defOf(0))
	assert.IsType(t, &ast.ExpressionDef{}, defOf(1))
	assert.IsType(t, &ast.DeletedDef{}, defOf(2))
	assert.IsType(t, &ast.DefaultedDef{}, defOf(3))
	assert.IsType(t, &ast.EmptyDef{}, defOf(4))
}

func TestClassMembers(t *testing.T) {
	stmts, global, errs := parseTU(t, `
		class C {
			var f : int;
			static var s : int = 0;
			def m: (x : bool) -> int = 0;
		}
	`)
	require.False(t, errs.HasErrors(), "errors: %v", errs)
	require.Len(t, stmts, 1)

	cd, ok := declOf(t, stmts[0]).(*ast.ClassDecl)
	require.True(t, ok)
	require.Len(t, cd.Body, 3)
	assert.IsType(t, &ast.FieldDecl{}, cd.Body[0])
	assert.IsType(t, &ast.VariableDecl{}, cd.Body[1])
	assert.IsType(t, &ast.FunctionDecl{}, cd.Body[2])

	// Members bind in the class scope, not the enclosing one.
	assert.Nil(t, global.Lookup("f"))
	require.NotNil(t, cd.Scope.Lookup("f"))
	for _, m := range cd.Body {
		assert.Same(t, cd, m.Context())
	}
}

func TestTemplateBindsUnderParameterizedName(t *testing.T) {
	stmts, global, errs := parseTU(t, "template <typename T> var v : *T;")
	require.False(t, errs.HasErrors(), "errors: %v", errs)
	require.Len(t, stmts, 1)

	td, ok := declOf(t, stmts[0]).(*ast.TemplateDecl)
	require.True(t, ok)
	assert.IsType(t, &ast.VariableDecl{}, td.Parameterized)
	require.Len(t, td.Params, 1)
	assert.IsType(t, &ast.TypeTemplateParamDecl{}, td.Params[0])

	set := global.Lookup("v")
	require.NotNil(t, set)
	require.Len(t, set.Entries, 1)
	assert.Same(t, td, set.Entries[0])

	// The parameter bound into the template's own scope only.
	assert.Nil(t, global.Lookup("T"))
	require.NotNil(t, td.ParamScope.Lookup("T"))
}

func TestOverloadSetGrowsAcrossDeclarations(t *testing.T) {
	_, global, errs := parseTU(t, `
		def f: (x : int) -> int = x;
		def f: (x : bool) -> int = 0;
	`)
	require.False(t, errs.HasErrors(), "errors: %v", errs)
	set := global.Lookup("f")
	require.NotNil(t, set)
	assert.Len(t, set.Entries, 2)
}

func TestVarAndFunctionNameConflict(t *testing.T) {
	_, _, errs := parseTU(t, `
		var f : int;
		def f: () -> int = 0;
	`)
	require.True(t, errs.HasErrors())
	assert.Equal(t, diag.Declaration, errs[0].Kind)
}

// A syntax error in one declaration is recovered at the statement
// boundary; the following declaration still parses.
func TestErrorRecoveryAtStatementBoundary(t *testing.T) {
	stmts, global, errs := parseTU(t, `
		var : ;
		var y : int = 1;
	`)
	require.True(t, errs.HasErrors())
	require.NotNil(t, global.Lookup("y"))
	require.Len(t, stmts, 1)
}

func TestSpecifiersAccumulate(t *testing.T) {
	stmts, _, errs := parseTU(t, `
		class C {
			public virtual def m: () -> int = 0;
		}
	`)
	require.False(t, errs.HasErrors(), "errors: %v", errs)
	cd := declOf(t, stmts[0]).(*ast.ClassDecl)
	m := cd.Body[0].(*ast.FunctionDecl)
	assert.True(t, m.Specifiers().Has(ast.SpecPublic))
	assert.True(t, m.Specifiers().Has(ast.SpecVirtual))
	assert.False(t, m.Specifiers().Has(ast.SpecStatic))
}

func TestEnumEntriesBind(t *testing.T) {
	stmts, global, errs := parseTU(t, "enum Color { red, green = 5, blue }")
	require.False(t, errs.HasErrors(), "errors: %v", errs)

	ed := declOf(t, stmts[0]).(*ast.EnumDecl)
	require.Len(t, ed.Entries, 3)
	assert.NotNil(t, global.Lookup("red"))
	assert.NotNil(t, global.Lookup("blue"))
	assert.Nil(t, ed.Entries[0].Value)
	assert.NotNil(t, ed.Entries[1].Value)
}

func TestConceptCapturesDefiningExpression(t *testing.T) {
	stmts, global, errs := parseTU(t, "concept A<typename T> = true;")
	require.False(t, errs.HasErrors(), "errors: %v", errs)

	cd := declOf(t, stmts[0]).(*ast.ConceptDecl)
	require.Len(t, cd.Params, 1)
	def, ok := cd.Def.(*ast.ConceptDef)
	require.True(t, ok)
	assert.IsType(t, &ast.UnparsedExpr{}, def.Value)
	require.NotNil(t, global.Lookup("A"))
}

func TestAxiomCapturesRequirements(t *testing.T) {
	stmts, _, errs := parseTU(t, "axiom Commutes(a : int, b : int) { a + b; b + a; }")
	require.False(t, errs.HasErrors(), "errors: %v", errs)

	ad := declOf(t, stmts[0]).(*ast.AxiomDecl)
	require.Len(t, ad.Params, 2)
	def, ok := ad.Def.(*ast.RequirementsDef)
	require.True(t, ok)
	assert.NotEmpty(t, def.Tokens)
	assert.Nil(t, def.Requirements)
}
