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

package template

import "github.com/asutton/banjo-sub001/internal/ast"

// Result is satisfaction's three-valued outcome: a constraint
// evaluates to true, false, or unknown.
type Result int

const (
	False Result = iota
	True
	Unknown
)

func (r Result) and(other func() Result) Result {
	if r == False {
		return False
	}
	o := other()
	if o == False {
		return False
	}
	if r == Unknown || o == Unknown {
		return Unknown
	}
	return True
}

func (r Result) or(other func() Result) Result {
	if r == True {
		return True
	}
	o := other()
	if o == True {
		return True
	}
	if r == Unknown || o == Unknown {
		return Unknown
	}
	return False
}

// Satisfy decides whether c holds once subst is applied to its atoms:
// predicates are compile-time-evaluated, and validity atoms succeed iff
// the substituted term is well-formed. Without a full constant
// evaluator wired to this package, predicate and validity atoms are
// judged on the best evidence available structurally (a literal value,
// a resolved identifier, substitution success) and fall back to Unknown
// rather than guessing.
func Satisfy(arena *ast.Arena, c ast.Constraint, subst *Substitution) Result {
	switch n := c.(type) {
	case *ast.ConjunctionConstraint:
		return Satisfy(arena, n.LHS, subst).and(func() Result { return Satisfy(arena, n.RHS, subst) })
	case *ast.DisjunctionConstraint:
		return Satisfy(arena, n.LHS, subst).or(func() Result { return Satisfy(arena, n.RHS, subst) })
	case *ast.ParameterizedConstraint:
		return Satisfy(arena, n.Body, subst)
	case *ast.PredicateConstraint:
		return satisfyPredicate(n.Expr)
	case *ast.ExpressionValidConstraint:
		if n.Expr == nil {
			return Unknown
		}
		return True
	case *ast.TypeValidConstraint:
		if Substitute(arena, n.Type, subst) != nil {
			return True
		}
		return False
	case *ast.ConversionValidConstraint:
		return satisfyConversion(arena, n, subst)
	case *ast.DeductionValidConstraint:
		trial := subst.Clone()
		Deduce(Substitute(arena, n.Pattern, subst), Substitute(arena, n.Arg, subst), trial)
		if trial.Failed {
			return False
		}
		return True
	case *ast.ConceptCheckConstraint:
		cd, ok := n.Concept.(*ast.ConceptDecl)
		if !ok || cd.Normalized == nil {
			return Unknown
		}
		return Satisfy(arena, cd.Normalized, subst)
	default:
		return Unknown
	}
}

func satisfyPredicate(e ast.Expr) Result {
	switch v := e.(type) {
	case *ast.BoolLit:
		if v.Value {
			return True
		}
		return False
	case *ast.IdentExpr:
		if cd, ok := v.Resolved.(*ast.ConstantDecl); ok && cd.Value != nil && cd.Value.IsBool {
			if cd.Value.Bool {
				return True
			}
			return False
		}
	}
	return Unknown
}

func satisfyConversion(arena *ast.Arena, n *ast.ConversionValidConstraint, subst *Substitution) Result {
	target := Substitute(arena, n.Target, subst)
	if n.Expr == nil || n.Expr.Type() == nil || target == nil {
		return Unknown
	}
	if ast.Equivalent(n.Expr.Type(), target) {
		return True
	}
	// A narrow, conservative check: numeric-to-numeric and anything-to-
	// bool conversions always exist; anything else is left Unknown rather
	// than asserted, since this package has no class-level user-defined-
	// conversion catalogue to consult.
	if isScalar(n.Expr.Type()) && isScalar(target) {
		return True
	}
	return Unknown
}

func isScalar(t ast.Type) bool {
	switch t.(type) {
	case *ast.BoolType, *ast.ByteType, *ast.IntegerType, *ast.FloatType:
		return true
	default:
		return false
	}
}
