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

import (
	"fmt"

	"github.com/asutton/banjo-sub001/internal/ast"
)

// Subsumes decides whether constraint a implies constraint b: every
// disjunctive clause of a (itself a conjunction of atoms) must imply
// every conjunctive clause of b (itself a disjunction of atoms), and a
// clause implies another iff some atom of the first matches (possibly
// via concept unfolding) some atom of the second.
//
// This is a syntactic approximation, not a complete propositional
// decision procedure — it is reflexive and transitive, which is the
// ordering the front end needs, and it covers the concept bodies the
// language can actually express (conjunctions/disjunctions of
// concept-checks and predicates).
func Subsumes(a, b ast.Constraint) bool {
	dnfA := toDNF(a)
	cnfB := toCNF(b)
	for _, clauseA := range dnfA {
		for _, clauseB := range cnfB {
			if !clauseImplies(clauseA, clauseB) {
				return false
			}
		}
	}
	return true
}

// clauseImplies reports whether the conjunction `as` implies the
// disjunction `bs`: true iff some atom of as matches some atom of bs.
func clauseImplies(as, bs []ast.Constraint) bool {
	for _, x := range as {
		for _, y := range bs {
			if atomImplies(x, y) {
				return true
			}
		}
	}
	return false
}

// toDNF expands c into disjunctive normal form: a list of clauses, each a
// conjunction (AND) of atoms.
func toDNF(c ast.Constraint) [][]ast.Constraint {
	switch n := c.(type) {
	case *ast.ConjunctionConstraint:
		left := toDNF(n.LHS)
		right := toDNF(n.RHS)
		var out [][]ast.Constraint
		for _, l := range left {
			for _, r := range right {
				out = append(out, append(append([]ast.Constraint{}, l...), r...))
			}
		}
		return out
	case *ast.DisjunctionConstraint:
		return append(toDNF(n.LHS), toDNF(n.RHS)...)
	case *ast.ParameterizedConstraint:
		return toDNF(n.Body)
	default:
		return [][]ast.Constraint{{c}}
	}
}

// toCNF expands c into conjunctive normal form: a list of clauses, each a
// disjunction (OR) of atoms.
func toCNF(c ast.Constraint) [][]ast.Constraint {
	switch n := c.(type) {
	case *ast.ConjunctionConstraint:
		return append(toCNF(n.LHS), toCNF(n.RHS)...)
	case *ast.DisjunctionConstraint:
		left := toCNF(n.LHS)
		right := toCNF(n.RHS)
		var out [][]ast.Constraint
		for _, l := range left {
			for _, r := range right {
				out = append(out, append(append([]ast.Constraint{}, l...), r...))
			}
		}
		return out
	case *ast.ParameterizedConstraint:
		return toCNF(n.Body)
	default:
		return [][]ast.Constraint{{c}}
	}
}

// atomImplies is implication on atoms: identical atoms trivially imply
// each other; a concept-check additionally implies anything its own
// normalized, argument-substituted body implies (concept unfolding).
func atomImplies(x, y ast.Constraint) bool {
	if atomKey(x) == atomKey(y) {
		return true
	}
	cc, ok := x.(*ast.ConceptCheckConstraint)
	if !ok {
		return false
	}
	cd, ok := cc.Concept.(*ast.ConceptDecl)
	if !ok || cd.Normalized == nil {
		return false
	}
	for _, clause := range toDNF(cd.Normalized) {
		for _, atom := range clause {
			if atomImplies(atom, y) {
				return true
			}
		}
	}
	return false
}

// atomKey renders a canonical key for an atomic constraint, used for the
// identity check atomImplies starts with.
func atomKey(c ast.Constraint) string {
	switch n := c.(type) {
	case *ast.ConceptCheckConstraint:
		s := fmt.Sprintf("concept@%p(", n.Concept)
		for _, a := range n.Args {
			s += termKeyNode(a) + ","
		}
		return s + ")"
	case *ast.PredicateConstraint:
		return "pred:" + exprKeyLocal(n.Expr)
	case *ast.ExpressionValidConstraint:
		return "exprvalid:" + exprKeyLocal(n.Expr)
	case *ast.TypeValidConstraint:
		return "typevalid:" + ast.TypeKey(n.Type)
	case *ast.ConversionValidConstraint:
		return "convvalid:" + exprKeyLocal(n.Expr) + "->" + ast.TypeKey(n.Target)
	case *ast.DeductionValidConstraint:
		return "deductvalid:" + ast.TypeKey(n.Pattern) + "<-" + ast.TypeKey(n.Arg)
	default:
		return fmt.Sprintf("%T@%p", c, c)
	}
}

func termKeyNode(n ast.Node) string {
	if t, ok := n.(ast.Type); ok {
		return ast.TypeKey(t)
	}
	return fmt.Sprintf("%T@%p", n, n)
}

func exprKeyLocal(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.BoolLit:
		return fmt.Sprintf("bool:%v", v.Value)
	case *ast.IntLit:
		return fmt.Sprintf("int:%d", v.Value)
	case *ast.IdentExpr:
		if v.Resolved != nil {
			return fmt.Sprintf("ident@%p", v.Resolved)
		}
		return fmt.Sprintf("ident:%s", ast.NameString(v.Name))
	default:
		return fmt.Sprintf("%T@%p", e, e)
	}
}
