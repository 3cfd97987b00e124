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

package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/template"
	"github.com/asutton/banjo-sub001/internal/token"
)

func typeParam(a *ast.Arena, name string) *ast.TypeTemplateParamDecl {
	d := a.TypeTemplateParam(token.Location{}, a.Simple(token.Location{}, token.Intern(name)), nil)
	d.SetType(a.Types.TypeOfTypes())
	return d
}

func TestSubstituteRebuildsThroughFactory(t *testing.T) {
	a := ast.NewArena()
	tp := typeParam(a, "T")
	pattern := a.Types.Pointer(a.Types.Typename(tp))

	subst := template.New()
	subst.Bind(tp, a.Types.Integer(true, 32))

	got := template.Substitute(a, pattern, subst)
	// Hash-consing: the substituted type is the factory's canonical
	// pointer-to-int node.
	assert.Same(t, a.Types.Pointer(a.Types.Integer(true, 32)), got)
}

// Substitution is idempotent when the substitution is ground.
func TestSubstituteGroundIdempotent(t *testing.T) {
	a := ast.NewArena()
	tp := typeParam(a, "T")
	pattern := a.Types.Function([]ast.Type{a.Types.Typename(tp)}, a.Types.Typename(tp))

	subst := template.New()
	subst.Bind(tp, a.Types.Bool())

	once := template.Substitute(a, pattern, subst)
	twice := template.Substitute(a, once, subst)
	assert.Same(t, once, twice)
}

func TestFailedSubstitutionPropagates(t *testing.T) {
	a := ast.NewArena()
	tp := typeParam(a, "T")
	pattern := a.Types.Pointer(a.Types.Typename(tp))

	subst := template.New().Fail()
	assert.Same(t, pattern, template.Substitute(a, pattern, subst))

	// Binding through a failed substitution stays failed.
	subst.Bind(tp, a.Types.Bool())
	assert.True(t, subst.Failed)
}

func TestDeduceStructural(t *testing.T) {
	a := ast.NewArena()
	tp := typeParam(a, "T")
	pattern := a.Types.Pointer(a.Types.Typename(tp))

	subst := template.New()
	template.Deduce(pattern, a.Types.Pointer(a.Types.Integer(true, 32)), subst)
	require.False(t, subst.Failed)
	arg, ok := subst.Lookup(tp)
	require.True(t, ok)
	assert.Same(t, a.Types.Integer(true, 32), arg)
}

// Deduction is monotone: existing bindings survive, and a conflicting
// re-mapping fails rather than overwrites.
func TestDeduceMonotone(t *testing.T) {
	a := ast.NewArena()
	tp := typeParam(a, "T")
	up := typeParam(a, "U")

	subst := template.New()
	subst.Bind(up, a.Types.Bool())

	template.Deduce(a.Types.Typename(tp), a.Types.Integer(true, 32), subst)
	require.False(t, subst.Failed)
	kept, ok := subst.Lookup(up)
	require.True(t, ok)
	assert.Same(t, a.Types.Bool(), kept)

	// Re-deducing T against a different argument conflicts.
	template.Deduce(a.Types.Typename(tp), a.Types.Bool(), subst)
	assert.True(t, subst.Failed)
}

func TestDeduceStructureMismatchFails(t *testing.T) {
	a := ast.NewArena()
	tp := typeParam(a, "T")
	subst := template.New()
	template.Deduce(a.Types.Pointer(a.Types.Typename(tp)), a.Types.Bool(), subst)
	assert.True(t, subst.Failed)
}

func pred(v bool) ast.Constraint {
	lit := &ast.BoolLit{Value: v}
	return &ast.PredicateConstraint{Expr: lit}
}

func conj(l, r ast.Constraint) ast.Constraint {
	return &ast.ConjunctionConstraint{LHS: l, RHS: r}
}

func disj(l, r ast.Constraint) ast.Constraint {
	return &ast.DisjunctionConstraint{LHS: l, RHS: r}
}

// Subsumption is a preorder: reflexive and transitive.
func TestSubsumesPreorder(t *testing.T) {
	p := pred(true)
	q := pred(false)

	assert.True(t, template.Subsumes(p, p))
	assert.True(t, template.Subsumes(conj(p, q), conj(p, q)))

	// A && B subsumes A; A does not subsume A && B.
	assert.True(t, template.Subsumes(conj(p, q), p))
	assert.False(t, template.Subsumes(p, conj(p, q)))

	// A subsumes A || B; A || B does not subsume A.
	assert.True(t, template.Subsumes(p, disj(p, q)))
	assert.False(t, template.Subsumes(disj(p, q), p))

	// Transitivity across a chain: (A && B && C) => (A && B) => A.
	r := pred(true)
	abc := conj(conj(p, q), r)
	ab := conj(p, q)
	assert.True(t, template.Subsumes(abc, ab))
	assert.True(t, template.Subsumes(ab, p))
	assert.True(t, template.Subsumes(abc, p))
}

func TestSubsumesUnfoldsConcepts(t *testing.T) {
	a := ast.NewArena()
	atom := pred(true)
	cd := a.Concept(token.Location{}, 0, a.Simple(token.Location{}, token.Intern("A")), nil, nil)
	cd.Normalized = atom

	check := &ast.ConceptCheckConstraint{Concept: cd}
	// A concept check implies what its normalized body implies.
	assert.True(t, template.Subsumes(check, atom))
	// The body does not imply the named check.
	assert.False(t, template.Subsumes(atom, check))
}

func TestSatisfy(t *testing.T) {
	a := ast.NewArena()
	subst := template.New()

	assert.Equal(t, template.True, template.Satisfy(a, pred(true), subst))
	assert.Equal(t, template.False, template.Satisfy(a, pred(false), subst))
	assert.Equal(t, template.False, template.Satisfy(a, conj(pred(true), pred(false)), subst))
	assert.Equal(t, template.True, template.Satisfy(a, disj(pred(false), pred(true)), subst))

	// Deduction-valid atom.
	tp := typeParam(a, "T")
	dv := &ast.DeductionValidConstraint{
		Pattern: a.Types.Pointer(a.Types.Typename(tp)),
		Arg:     a.Types.Pointer(a.Types.Bool()),
	}
	assert.Equal(t, template.True, template.Satisfy(a, dv, subst))

	bad := &ast.DeductionValidConstraint{
		Pattern: a.Types.Pointer(a.Types.Typename(tp)),
		Arg:     a.Types.Bool(),
	}
	assert.Equal(t, template.False, template.Satisfy(a, bad, subst))
}

func TestSpecializeCachesByArguments(t *testing.T) {
	a := ast.NewArena()
	tp := typeParam(a, "T")
	v := a.Variable(token.Location{}, 0, a.Simple(token.Location{}, token.Intern("v")), a.Types.Pointer(a.Types.Typename(tp)), &ast.EmptyDef{})
	tmpl := a.Template(token.Location{}, 0, v.Name(), []ast.Decl{tp}, v)

	int32T := a.Types.Integer(true, 32)
	first, err := template.Specialize(a, tmpl, []ast.Node{int32T}, nil)
	require.NoError(t, err)
	second, err := template.Specialize(a, tmpl, []ast.Node{int32T}, nil)
	require.NoError(t, err)
	assert.Same(t, first, second)

	spec := first.(*ast.VariableDecl)
	assert.Same(t, a.Types.Pointer(int32T), spec.Type())

	other, err := template.Specialize(a, tmpl, []ast.Node{a.Types.Bool()}, nil)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestSpecializeRejectsMissingArgument(t *testing.T) {
	a := ast.NewArena()
	tp := typeParam(a, "T")
	v := a.Variable(token.Location{}, 0, a.Simple(token.Location{}, token.Intern("v")), a.Types.Typename(tp), &ast.EmptyDef{})
	tmpl := a.Template(token.Location{}, 0, v.Name(), []ast.Decl{tp}, v)

	_, err := template.Specialize(a, tmpl, nil, nil)
	assert.Error(t, err)
}

func TestNormalizeRequirements(t *testing.T) {
	reqs := []ast.Requirement{
		&ast.ExprRequirement{Expr: &ast.BoolLit{Value: true}},
		&ast.TypeRequirement{Type: nil},
	}
	c := template.NormalizeRequirements(reqs)
	cc, ok := c.(*ast.ConjunctionConstraint)
	require.True(t, ok)
	assert.IsType(t, &ast.ExpressionValidConstraint{}, cc.LHS)
	assert.IsType(t, &ast.TypeValidConstraint{}, cc.RHS)

	// An empty sequence normalizes to a trivially true predicate.
	empty := template.NormalizeRequirements(nil)
	assert.IsType(t, &ast.PredicateConstraint{}, empty)
}
