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

// Normalize reduces a requires-expression or a concept's defining
// expression into an atomic-constraint DAG: exactly the combinators of
// internal/ast/cons.go, with nested concept checks left as named
// references rather than inlined, preserving subsumption structure for
// later comparison.
func Normalize(expr ast.Expr) ast.Constraint {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		switch e.Op {
		case ast.OpLogicalAnd:
			return &ast.ConjunctionConstraint{LHS: Normalize(e.LHS), RHS: Normalize(e.RHS)}
		case ast.OpLogicalOr:
			return &ast.DisjunctionConstraint{LHS: Normalize(e.LHS), RHS: Normalize(e.RHS)}
		}
	case *ast.IdentExpr:
		if ci, ok := e.Name.(*ast.ConceptIdent); ok {
			return &ast.ConceptCheckConstraint{Concept: ci.Concept, Args: ci.Args}
		}
	case *ast.ConversionExpr:
		return Normalize(e.Source)
	case *ast.CopyInitExpr:
		return Normalize(e.Source)
	case *ast.RequiresExpr:
		body := NormalizeRequirements(e.Requirements)
		if len(e.TemplateParams) == 0 && len(e.Params) == 0 {
			return body
		}
		return &ast.ParameterizedConstraint{Params: append(append([]ast.Decl{}, e.TemplateParams...), e.Params...), Body: body}
	}
	return &ast.PredicateConstraint{Expr: expr}
}

// NormalizeRequirements folds a requires-expression's usage-requirement
// sequence into a single conjunction of their normalized atomic forms (an
// empty sequence normalizes to a trivially-true predicate).
func NormalizeRequirements(reqs []ast.Requirement) ast.Constraint {
	var result ast.Constraint
	for _, r := range reqs {
		atom := normalizeRequirement(r)
		if result == nil {
			result = atom
		} else {
			result = &ast.ConjunctionConstraint{LHS: result, RHS: atom}
		}
	}
	if result == nil {
		return &ast.PredicateConstraint{Expr: &ast.BoolLit{Value: true}}
	}
	return result
}

func normalizeRequirement(r ast.Requirement) ast.Constraint {
	switch req := r.(type) {
	case *ast.ExprRequirement:
		return &ast.ExpressionValidConstraint{Expr: req.Expr}
	case *ast.TypeRequirement:
		return &ast.TypeValidConstraint{Type: req.Type}
	case *ast.CompoundRequirement:
		if req.ReturnType == nil {
			return &ast.ExpressionValidConstraint{Expr: req.Expr}
		}
		if dependsOnParam(req.ReturnType) {
			return &ast.DeductionValidConstraint{Pattern: req.ReturnType, Arg: req.Expr.Type()}
		}
		return &ast.ConversionValidConstraint{Expr: req.Expr, Target: req.ReturnType}
	default:
		return &ast.PredicateConstraint{Expr: &ast.BoolLit{Value: false}}
	}
}

// dependsOnParam reports whether t mentions a type-template-parameter
// anywhere in its structure, distinguishing a plain conversion-target
// type from a deduction pattern in a compound requirement's trailing type.
func dependsOnParam(t ast.Type) bool {
	switch n := t.(type) {
	case *ast.TypenameType:
		return true
	case *ast.PointerType:
		return dependsOnParam(n.Elem)
	case *ast.ReferenceType:
		return dependsOnParam(n.Elem)
	case *ast.QualifiedType:
		return dependsOnParam(n.Inner)
	case *ast.ArrayType:
		return dependsOnParam(n.Elem)
	case *ast.TupleType:
		for _, e := range n.Elems {
			if dependsOnParam(e) {
				return true
			}
		}
		return false
	case *ast.FunctionType:
		for _, p := range n.Params {
			if dependsOnParam(p) {
				return true
			}
		}
		return dependsOnParam(n.Return)
	default:
		return false
	}
}
