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

// Requirement variants are the raw, pre-normalization forms a
// requires-expression's body parses into. internal/template.Normalize
// reduces each to a Constraint.

// ExprRequirement is a simple-requirement: a bare expression statement,
// asserting only that the expression is well-formed.
type ExprRequirement struct {
	requirementBase
	Expr Expr // UnparsedExpr until pass 4 attempts elaboration
}

// TypeRequirement is `typename T::member;`: asserting that the named
// type is well-formed.
type TypeRequirement struct {
	requirementBase
	Type Type
}

// CompoundRequirement is `{ expr } [noexcept] [-> type];`: asserting the
// expression is well-formed, optionally that evaluating it cannot throw,
// and optionally that it converts to (or can be deduced against, per
// DeductionValidConstraint) the trailing type.
type CompoundRequirement struct {
	requirementBase
	Expr       Expr
	Noexcept   bool
	ReturnType Type // nil if there is no trailing `-> type`
}
