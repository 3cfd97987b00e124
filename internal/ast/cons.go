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

package ast

// Constraint variants are the normalized form a concept's defining
// expression is reduced to by internal/template.Normalize: a DAG of
// atomic constraints joined by conjunction/disjunction, suitable for
// subsumption comparison without re-walking the defining expression
// tree each time.

// ConceptCheckConstraint is an atomic constraint checking that Concept
// is satisfied by Args, e.g. the `Sortable<T>` inside a requires-clause.
type ConceptCheckConstraint struct {
	constraintBase
	Concept Decl
	Args    []Node
}

// PredicateConstraint is an atomic constraint wrapping a boolean
// constant-expression that doesn't reduce to one of the other forms.
type PredicateConstraint struct {
	constraintBase
	Expr Expr
}

// ExpressionValidConstraint is an atomic constraint from a requires-
// expression's simple-requirement: "this expression is valid."
type ExpressionValidConstraint struct {
	constraintBase
	Expr Expr // an UnparsedExpr until pass 4 attempts elaboration
}

// TypeValidConstraint is an atomic constraint from a type-requirement:
// "this type name is valid."
type TypeValidConstraint struct {
	constraintBase
	Type Type
}

// ConversionValidConstraint is an atomic constraint from a compound-
// requirement's trailing return-type: "Expr converts to Target."
type ConversionValidConstraint struct {
	constraintBase
	Expr   Expr
	Target Type
}

// DeductionValidConstraint is an atomic constraint from a compound-
// requirement whose trailing type is itself a deduced pattern: "Arg can
// be deduced against Pattern."
type DeductionValidConstraint struct {
	constraintBase
	Pattern Type
	Arg     Type
}

// ConjunctionConstraint is the normalized form of `A && B` between two
// constraints (subsumption requires both sides be satisfied).
type ConjunctionConstraint struct {
	constraintBase
	LHS Constraint
	RHS Constraint
}

// DisjunctionConstraint is the normalized form of `A || B`.
type DisjunctionConstraint struct {
	constraintBase
	LHS Constraint
	RHS Constraint
}

// ParameterizedConstraint wraps a nested requires-expression's own
// template/function parameter list around Body, so subsumption can
// compare parameter lists structurally where the nesting matters.
type ParameterizedConstraint struct {
	constraintBase
	Params []Decl
	Body   Constraint
}
