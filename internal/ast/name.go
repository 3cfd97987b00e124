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

// SimpleIdent is a plain identifier name.
type SimpleIdent struct {
	nameBase
	Symbol token.Symbol
}

func (n *SimpleIdent) String() string { return string(n.Symbol) }

// OperatorKind enumerates the overloadable operators, used both by
// OperatorIdent (the declared name `operator+`) and by BinaryExpr/UnaryExpr.
type OperatorKind int

const (
	OpAdd OperatorKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpCompare // <=>
	OpLogicalAnd
	OpLogicalOr
	OpLogicalNot
	OpNeg // unary -
	OpPos // unary +
)

// OperatorIdent is a declared operator name, e.g. `def operator+: ...`.
type OperatorIdent struct {
	nameBase
	Op OperatorKind
}

// ConversionIdent names a user-defined conversion operator to Target.
type ConversionIdent struct {
	nameBase
	Target Type
}

// LiteralSuffixIdent names a user-defined literal suffix.
type LiteralSuffixIdent struct {
	nameBase
	Symbol token.Symbol
}

// DestructorIdent names a destructor, paired with the type it destroys.
type DestructorIdent struct {
	nameBase
	Target Type
}

// TemplateIdent pairs a template declaration reference with a concrete
// template-argument list, e.g. `v<int>`.
type TemplateIdent struct {
	nameBase
	Base     Name // the bare name ("v") as written, before <args> were attached
	Template Decl // the TemplateDecl this refers to; may be unresolved (nil) before lookup
	Args     []Node
}

// ConceptIdent pairs a concept declaration with its arguments, e.g.
// `Sortable<T>`.
type ConceptIdent struct {
	nameBase
	Base    Name
	Concept Decl
	Args    []Node
}

// QualifiedIdent pairs an enclosing-declaration reference with a nested
// name, e.g. `Outer::inner`.
type QualifiedIdent struct {
	nameBase
	Context Decl
	Nested  Name
}

// PlaceholderIdent is a compiler-generated name with a fresh number,
// used by elaboration when it must synthesize an entity with no source
// spelling (e.g. an unnamed parameter, a materialized temporary).
type PlaceholderIdent struct {
	nameBase
	Number uint64
}

// GlobalIdent is the empty name of the global namespace.
type GlobalIdent struct {
	nameBase
}
