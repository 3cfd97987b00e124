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

import (
	"github.com/asutton/banjo-sub001/internal/scope"
	"github.com/asutton/banjo-sub001/internal/token"
)

type BoolLit struct {
	exprBase
	Value bool
}

type IntLit struct {
	exprBase
	Value int64
}

type RealLit struct {
	exprBase
	Value float64
}

// IdentExpr is a name reference: unresolved until name resolution binds
// it to a declaration (or overload set), after which Resolved is set.
type IdentExpr struct {
	exprBase
	Name     Name
	Resolved Decl
}

type BinaryExpr struct {
	exprBase
	Op  OperatorKind
	LHS Expr
	RHS Expr
}

type UnaryExpr struct {
	exprBase
	Op      OperatorKind
	Operand Expr
}

type CallExpr struct {
	exprBase
	Target Expr
	Args   []Expr
}

// AccessExpr is `object.member`.
type AccessExpr struct {
	exprBase
	Object Expr
	Member Name
}

type TupleExpr struct {
	exprBase
	Elems []Expr
}

// RequiresExpr is `requires [<tparms>] [(parms)] { usage-reqs }`. Scope
// is the requires-expression's own scope, holding its template and value
// parameters; elaboration re-enters it to type the usage requirements.
type RequiresExpr struct {
	exprBase
	TemplateParams []Decl
	Params         []Decl
	Requirements   []Requirement
	Scope          *scope.Scope
}

// UnparsedExpr captures a raw token span for deferred parsing: the
// tokens between this expression's start and its terminator, to be
// reparsed by pass 4 once every referenced declaration has a type.
type UnparsedExpr struct {
	exprBase
	Tokens []token.Token
}

// ConversionKind enumerates the standard-conversion-sequence steps.
type ConversionKind int

const (
	ConvValue ConversionKind = iota
	ConvIntegerPromotion
	ConvFloatPromotion
	ConvNumeric // int<->float
	ConvQualification
	ConvUserDefined
	ConvBoolean
	ConvEllipsis
)

// ConversionExpr wraps Source, the result of applying one conversion-
// sequence step. Chains of these represent a full standard-conversion
// sequence (value, then at most one promotion, then at most one numeric
// conversion, then at most one qualification conversion, then — only
// during initialization — a user-defined conversion).
type ConversionExpr struct {
	exprBase
	Source Expr
	Kind   ConversionKind
}

// CopyInitExpr wraps the result of copy-initializing Target's type from
// Source (the `= e` form and argument passing).
type CopyInitExpr struct {
	exprBase
	Source Expr
	Target Type
}

// AggregateInitExpr is a brace-enclosed list initializing Target's fields
// in declaration order.
type AggregateInitExpr struct {
	exprBase
	Elems  []Expr
	Target Type
}
