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

// Package ast holds every category of node in the elaborated intermediate
// representation: names, types, expressions, statements, declarations,
// definitions, constraints and requirements. All nodes share the Node
// marker — the common base term — so a single visitor can walk a
// heterogeneous tree with one flat switch.
//
// Nodes are arena-owned: once built by a parser semantic action or an
// elaboration pass, a node lives until the translation unit is
// discarded. References between nodes are plain Go pointers rather than
// arena indices; the garbage collector handles the scope/declaration
// cycles that would otherwise need index indirection.
package ast

import (
	"github.com/asutton/banjo-sub001/internal/scope"
	"github.com/asutton/banjo-sub001/internal/token"
)

// Node is the base type every category implements.
type Node interface {
	isNode()
	// Loc returns the source location this node originates from, taken
	// from its originating token where one exists.
	Loc() token.Location
}

// base is embedded by every concrete node to supply Loc() and the unexported
// marker in one place.
type base struct {
	loc token.Location
}

func (b base) isNode()            {}
func (b base) Loc() token.Location { return b.loc }

// setLoc lets factories stamp a node's source location after construction
// (useful for hash-consed nodes, whose first occurrence wins the location).
func (b *base) setLoc(l token.Location) { b.loc = l }

// Name is any of the name-node variants.
type Name interface {
	Node
	isName()
}

type nameBase struct{ base }

func (nameBase) isName() {}

// Type is any of the type-node variants.
type Type interface {
	Node
	isType()
}

type typeBase struct{ base }

func (typeBase) isType() {}

// Expr is any expression node. Every expression carries its computed
// type, set by pass 4 (or left nil until then for Unparsed nodes).
type Expr interface {
	Node
	isExpr()
	Type() Type
	SetType(Type)
}

type exprBase struct {
	base
	typ Type
}

func (exprBase) isExpr()          {}
func (e *exprBase) Type() Type     { return e.typ }
func (e *exprBase) SetType(t Type) { e.typ = t }

// Stmt is any statement node.
type Stmt interface {
	Node
	isStmt()
}

type stmtBase struct{ base }

func (stmtBase) isStmt() {}

// Decl is any declaration node. It subsumes scope.Declarable so any
// declaration can bind directly into a Scope.
type Decl interface {
	Node
	scope.Declarable
	isDecl()
	// Name returns the declared name node (possibly qualified).
	Name() Name
	// Specifiers returns the declaration's specifier bitset.
	Specifiers() SpecifierSet
	// Context returns the enclosing context declaration, or nil for the
	// global namespace.
	Context() Decl
	// SetContext records the enclosing context declaration.
	SetContext(Decl)
	// Type returns the declaration's elaborated type; nil until pass 1
	// has run on it.
	Type() Type
	// SetType records the type computed by pass 1.
	SetType(Type)
}

type declBase struct {
	base
	spec SpecifierSet
	name Name
	cxt  Decl
	typ  Type
}

func (declBase) isDecl()              {}
func (d *declBase) Name() Name         { return d.name }
func (d *declBase) Specifiers() SpecifierSet { return d.spec }
func (d *declBase) Context() Decl      { return d.cxt }
func (d *declBase) SetContext(c Decl)  { d.cxt = c }
func (d *declBase) Type() Type         { return d.typ }
func (d *declBase) SetType(t Type)     { d.typ = t }

// Def is a declaration's definition/body, once it has one.
type Def interface {
	Node
	isDef()
}

type defBase struct{ base }

func (defBase) isDef() {}

// Constraint is a normalized-requirement node.
type Constraint interface {
	Node
	isConstraint()
}

type constraintBase struct{ base }

func (constraintBase) isConstraint() {}

// Requirement is a raw (pre-normalization) usage requirement appearing in
// a requires-expression body.
type Requirement interface {
	Node
	isRequirement()
}

type requirementBase struct{ base }

func (requirementBase) isRequirement() {}

// Visit invokes visitor for every direct child of node. It is the single
// dispatch point every pass uses to recurse: one switch on the concrete
// pointer type across all categories.
func Visit(node Node, visitor func(Node)) {
	switch n := node.(type) {

	// ---- Names ----
	case *SimpleIdent, *OperatorIdent, *LiteralSuffixIdent, *PlaceholderIdent, *GlobalIdent:
		// leaves

	case *ConversionIdent:
		visitor(n.Target)
	case *DestructorIdent:
		visitor(n.Target)
	case *TemplateIdent:
		for _, a := range n.Args {
			visitor(a)
		}
	case *ConceptIdent:
		for _, a := range n.Args {
			visitor(a)
		}
	case *QualifiedIdent:
		visitor(n.Nested)

	// ---- Types ----
	case *VoidType, *BoolType, *ByteType, *AutoType, *TypeOfTypesType, *ClassType, *EnumType, *UnionType, *TypenameType, *IntegerType, *FloatType, *UnparsedType:
		// leaves (class/enum/union/typename reference a Decl, not a child Node walked here)

	case *DecltypeType:
		visitor(n.Expr)
	case *FunctionType:
		for _, p := range n.Params {
			visitor(p)
		}
		visitor(n.Return)
	case *QualifiedType:
		visitor(n.Inner)
	case *PointerType:
		visitor(n.Elem)
	case *ReferenceType:
		visitor(n.Elem)
	case *ArrayType:
		visitor(n.Elem)
		if n.Extent != nil {
			visitor(n.Extent)
		}
	case *TupleType:
		for _, e := range n.Elems {
			visitor(e)
		}

	// ---- Expressions ----
	case *BoolLit, *IntLit, *RealLit:
		// leaves
	case *IdentExpr:
		visitor(n.Name)
	case *BinaryExpr:
		visitor(n.LHS)
		visitor(n.RHS)
	case *UnaryExpr:
		visitor(n.Operand)
	case *CallExpr:
		visitor(n.Target)
		for _, a := range n.Args {
			visitor(a)
		}
	case *AccessExpr:
		visitor(n.Object)
		visitor(n.Member)
	case *TupleExpr:
		for _, e := range n.Elems {
			visitor(e)
		}
	case *RequiresExpr:
		for _, p := range n.TemplateParams {
			visitor(p)
		}
		for _, p := range n.Params {
			visitor(p)
		}
		for _, r := range n.Requirements {
			visitor(r)
		}
	case *UnparsedExpr:
		// leaf: raw token span, nothing to recurse into yet
	case *ConversionExpr:
		visitor(n.Source)
	case *CopyInitExpr:
		visitor(n.Source)
	case *AggregateInitExpr:
		for _, e := range n.Elems {
			visitor(e)
		}

	// ---- Statements ----
	case *EmptyStmt, *BreakStmt, *ContinueStmt, *UnparsedStmt:
		// leaves
	case *CompoundStmt:
		for _, s := range n.Statements {
			visitor(s)
		}
	case *ExprStmt:
		visitor(n.Expr)
	case *DeclStmt:
		visitor(n.Decl)
	case *ReturnStmt:
		if n.Value != nil {
			visitor(n.Value)
		}
	case *YieldStmt:
		if n.Value != nil {
			visitor(n.Value)
		}
	case *IfStmt:
		visitor(n.Cond)
		visitor(n.Then)
		if n.Else != nil {
			visitor(n.Else)
		}
	case *WhileStmt:
		visitor(n.Cond)
		visitor(n.Body)

	// ---- Declarations ----
	case *VariableDecl:
		visitor(n.name)
		if n.DeclaredType != nil {
			visitor(n.DeclaredType)
		}
		if n.Def != nil {
			visitor(n.Def)
		}
	case *FieldDecl:
		visitor(n.name)
		if n.DeclaredType != nil {
			visitor(n.DeclaredType)
		}
	case *ConstantDecl:
		visitor(n.name)
		if n.DeclaredType != nil {
			visitor(n.DeclaredType)
		}
		if n.Def != nil {
			visitor(n.Def)
		}
	case *FunctionDecl:
		visitor(n.name)
		for _, p := range n.Params {
			visitor(p)
		}
		if n.ReturnType != nil {
			visitor(n.ReturnType)
		}
		if n.Def != nil {
			visitor(n.Def)
		}
	case *SuperDecl:
		// leaf: anonymous base subobject, no name or children to recurse into
	case *ClassDecl:
		visitor(n.name)
		for _, m := range n.Body {
			visitor(m)
		}
	case *EnumDecl:
		visitor(n.name)
	case *UnionDecl:
		visitor(n.name)
		for _, m := range n.Body {
			visitor(m)
		}
	case *NamespaceDecl:
		visitor(n.name)
		for _, m := range n.Body {
			visitor(m)
		}
	case *TemplateDecl:
		visitor(n.name)
		for _, p := range n.Params {
			visitor(p)
		}
		visitor(n.Parameterized)
	case *ConceptDecl:
		visitor(n.name)
		for _, p := range n.Params {
			visitor(p)
		}
		if n.Def != nil {
			visitor(n.Def)
		}
	case *AxiomDecl:
		visitor(n.name)
		for _, p := range n.Params {
			visitor(p)
		}
		if n.Def != nil {
			visitor(n.Def)
		}
	case *VariadicParamDecl:
		visitor(n.name)
	case *ObjectParamDecl:
		visitor(n.name)
		if n.DeclaredType != nil {
			visitor(n.DeclaredType)
		}
	case *ValueTemplateParamDecl:
		visitor(n.name)
		if n.DeclaredType != nil {
			visitor(n.DeclaredType)
		}
	case *TypeTemplateParamDecl:
		visitor(n.name)
	case *TemplateTemplateParamDecl:
		visitor(n.name)

	// ---- Definitions ----
	case *EmptyDef, *DeletedDef, *DefaultedDef, *IntrinsicDef:
		// leaves
	case *ExpressionDef:
		visitor(n.Value)
	case *FunctionDef:
		visitor(n.Body)
	case *ClassDef:
		for _, s := range n.Body {
			visitor(s)
		}
	case *ConceptDef:
		visitor(n.Value)
	case *RequirementsDef:
		for _, r := range n.Requirements {
			visitor(r)
		}

	// ---- Constraints ----
	case *ConceptCheckConstraint:
		for _, a := range n.Args {
			visitor(a)
		}
	case *PredicateConstraint:
		visitor(n.Expr)
	case *ExpressionValidConstraint:
		visitor(n.Expr)
	case *TypeValidConstraint:
		visitor(n.Type)
	case *ConversionValidConstraint:
		visitor(n.Expr)
		visitor(n.Target)
	case *DeductionValidConstraint:
		visitor(n.Pattern)
		visitor(n.Arg)
	case *ConjunctionConstraint:
		visitor(n.LHS)
		visitor(n.RHS)
	case *DisjunctionConstraint:
		visitor(n.LHS)
		visitor(n.RHS)
	case *ParameterizedConstraint:
		for _, p := range n.Params {
			visitor(p)
		}
		visitor(n.Body)

	// ---- Requirements ----
	case *ExprRequirement:
		visitor(n.Expr)
	case *TypeRequirement:
		visitor(n.Type)
	case *CompoundRequirement:
		visitor(n.Expr)
		if n.ReturnType != nil {
			visitor(n.ReturnType)
		}

	default:
		panic(internalUnreachable(n))
	}
}

func internalUnreachable(n interface{}) string {
	return "ast: unhandled node type in Visit"
}
