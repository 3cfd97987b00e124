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

import "github.com/asutton/banjo-sub001/internal/token"

// EmptyDef is a declaration with no body at all (e.g. a member declared
// but not yet defined).
type EmptyDef struct{ defBase }

// ExpressionDef is `= expr;`: a variable, constant, or concept body given
// by a single expression.
type ExpressionDef struct {
	defBase
	Value Expr
}

// FunctionDef is a function or coroutine body: `{ stmts }`.
type FunctionDef struct {
	defBase
	Body Stmt // always a *CompoundStmt once parsed
}

// ClassDef is a class or union body as a flat member sequence, kept
// alongside ClassDecl.Body/Scope so a Def value exists uniformly for
// every declaration category — Def is the common shape of whatever
// follows the declared name.
type ClassDef struct {
	defBase
	Body []Decl
}

// ConceptDef is a concept's defining expression: a constant-expression
// over the concept's parameters, frequently a RequiresExpr or a
// conjunction/disjunction of concept-checks.
type ConceptDef struct {
	defBase
	Value Expr
}

// DeletedDef marks `= delete;`: the declaration exists for overload
// resolution purposes but may never be selected.
type DeletedDef struct{ defBase }

// DefaultedDef marks `= default;`: request the compiler-synthesized
// definition (special member functions only).
type DefaultedDef struct{ defBase }

// IntrinsicDef marks a declaration whose definition is supplied by the
// compiler itself rather than by source text (built-in operators and
// conversions).
type IntrinsicDef struct{ defBase }

// RequirementsDef is an axiom body: a brace-enclosed sequence of
// usage-requirements, the same grammar a requires-expression body uses.
// Tokens holds the raw span until pass 4 reparses it into Requirements,
// the same deferred-parse treatment every other body form gets.
type RequirementsDef struct {
	defBase
	Tokens       []token.Token
	Requirements []Requirement
}
