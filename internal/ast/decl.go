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
	"fmt"

	"github.com/asutton/banjo-sub001/internal/scope"
)

// Specifier is one bit of a declaration's specifier set.
type Specifier int

const (
	SpecStatic Specifier = 1 << iota
	SpecDynamic
	SpecVirtual
	SpecAbstract
	SpecInline
	SpecExplicit
	SpecImplicit
	SpecPublic
	SpecPrivate
	SpecProtected
	SpecIn
	SpecOut
	SpecMutable
	SpecConsume
	SpecInternal
)

// SpecifierSet is a bitset of Specifiers.
type SpecifierSet int

func (s SpecifierSet) Has(spec Specifier) bool { return s&SpecifierSet(spec) != 0 }

// NameString renders a Name's unqualified spelling, used as the key a
// Scope binds declarations under. Exported so internal/parser can compute
// the same lookup key for a freshly parsed name as was used to bind a
// matching declaration.
func NameString(n Name) string { return nameString(n) }

// nameString is NameString's implementation; kept as a separate
// unexported name so every DeclName() method below (and NameString's
// callers) share one switch.
func nameString(n Name) string {
	switch v := n.(type) {
	case *SimpleIdent:
		return string(v.Symbol)
	case *GlobalIdent:
		return ""
	case *QualifiedIdent:
		return nameString(v.Nested)
	case *DestructorIdent:
		return "~" + typeKey(v.Target)
	case *TemplateIdent:
		return nameString(v.Base)
	case *ConceptIdent:
		return nameString(v.Base)
	case *OperatorIdent:
		return fmt.Sprintf("operator%d", v.Op)
	case *ConversionIdent:
		return "operator " + typeKey(v.Target)
	case *LiteralSuffixIdent:
		return "operator\"\"" + string(v.Symbol)
	case *PlaceholderIdent:
		return fmt.Sprintf("$%d", v.Number)
	default:
		return fmt.Sprintf("%T", n)
	}
}

// VariableDecl is `var name : type [= expr];` at any scope.
type VariableDecl struct {
	declBase
	DeclaredType Type // may be an UnparsedType-shaped placeholder; see parser
	Def          Def
	Init         Expr // set once pass 4 elaborates Def into an expression, nil before
}

func (d *VariableDecl) DeclName() string          { return nameString(d.name) }
func (d *VariableDecl) DeclCategory() scope.Category { return scope.CategoryVariable }
func (d *VariableDecl) IsFunctionLike() bool      { return false }
func (d *VariableDecl) ParamKey() string          { return "" }
func (d *VariableDecl) ReturnKey() string          { return "" }

// FieldDecl is a non-static class member variable.
type FieldDecl struct {
	declBase
	DeclaredType Type
	Default      Expr
}

func (d *FieldDecl) DeclName() string            { return nameString(d.name) }
func (d *FieldDecl) DeclCategory() scope.Category { return scope.CategoryField }
func (d *FieldDecl) IsFunctionLike() bool         { return false }
func (d *FieldDecl) ParamKey() string             { return "" }
func (d *FieldDecl) ReturnKey() string            { return "" }

// ConstantDecl additionally caches its compile-time-evaluated value.
type ConstantDecl struct {
	declBase
	DeclaredType Type
	Def          Def
	Value        *ConstValue
}

// ConstValue is the compile-time-evaluated result of a constant's
// initializer, cached on the declaration by pass 4.
type ConstValue struct {
	IsBool bool
	Bool   bool
	IsInt  bool
	Int    int64
}

func (d *ConstantDecl) DeclName() string            { return nameString(d.name) }
func (d *ConstantDecl) DeclCategory() scope.Category { return scope.CategoryConstant }
func (d *ConstantDecl) IsFunctionLike() bool         { return false }
func (d *ConstantDecl) ParamKey() string             { return "" }
func (d *ConstantDecl) ReturnKey() string            { return "" }

// SuperDecl is a base-class subobject declaration.
type SuperDecl struct {
	declBase
}

// BaseName is a placeholder Name for anonymous base subobjects (they have
// no declared identifier of their own).
type BaseName struct{ nameBase }

func (d *SuperDecl) DeclName() string            { return "<base>" }
func (d *SuperDecl) DeclCategory() scope.Category { return scope.CategoryField }
func (d *SuperDecl) IsFunctionLike() bool         { return false }
func (d *SuperDecl) ParamKey() string             { return "" }
func (d *SuperDecl) ReturnKey() string            { return "" }

// FunctionDecl is `def name: (params) -> type {...}` (or `= expr;`).
type FunctionDecl struct {
	declBase
	Params     []Decl // ObjectParamDecl / VariadicParamDecl
	ReturnType Type
	Def        Def
	ParamScope *scope.Scope
	// IsCoroutine distinguishes a `coroutine def` from a plain `def`:
	// elaborated identically through pass 4, but subject to the
	// best-effort yield-reachability check of
	// internal/elaborate/coroutine.go.
	IsCoroutine bool
}

func (d *FunctionDecl) DeclName() string            { return nameString(d.name) }
func (d *FunctionDecl) DeclCategory() scope.Category { return scope.CategoryFunction }
func (d *FunctionDecl) IsFunctionLike() bool         { return true }
func (d *FunctionDecl) ParamKey() string {
	s := ""
	for i, p := range d.Params {
		if i > 0 {
			s += ","
		}
		if pd, ok := p.(*ObjectParamDecl); ok && pd.DeclaredType != nil {
			s += typeKey(pd.DeclaredType)
		} else {
			s += "?"
		}
	}
	return s
}
func (d *FunctionDecl) ReturnKey() string {
	if d.ReturnType == nil {
		return "?"
	}
	return typeKey(d.ReturnType)
}

// MethodDecl is a FunctionDecl with class-member specifics (virtual,
// abstract). Represented as a FunctionDecl whose SpecVirtual/SpecAbstract
// bits are set and whose Context is a ClassDecl; no separate Go type is
// needed since Specifiers() + Context() already distinguish it — a
// specifier bit beats a parallel type hierarchy.
type MethodDecl = FunctionDecl

// CoroutineDecl is likewise a FunctionDecl: coroutines share the
// declaration shape of functions, differing only in body elaboration
// (see internal/elaborate/coroutine.go), so they are represented
// identically.
type CoroutineDecl = FunctionDecl

// ClassDecl is `class name [: metatype] { members }`.
type ClassDecl struct {
	declBase
	Metatype Type // the optional `: metatype` annotation, nil if absent
	Body     []Decl // as parsed, source order
	Scope    *scope.Scope

	// Populated by pass 3 (class completion).
	Fields   []*FieldDecl
	Bases    []*SuperDecl
	Statics  []*VariableDecl
	Methods  []*FunctionDecl
	Nested   []Decl
	Complete bool
}

func (d *ClassDecl) DeclName() string            { return nameString(d.name) }
func (d *ClassDecl) DeclCategory() scope.Category { return scope.CategoryClass }
func (d *ClassDecl) IsFunctionLike() bool         { return false }
func (d *ClassDecl) ParamKey() string             { return "" }
func (d *ClassDecl) ReturnKey() string            { return "" }

// EnumDecl is `enum name { entries }`.
type EnumDecl struct {
	declBase
	Entries []EnumEntry
}

type EnumEntry struct {
	Name  Name
	Value Expr // explicit value, or nil to auto-increment
	// Const is the constant declaration the entry binds in the enclosing
	// scope, so entry names resolve like any other constant.
	Const *ConstantDecl
}

func (d *EnumDecl) DeclName() string            { return nameString(d.name) }
func (d *EnumDecl) DeclCategory() scope.Category { return scope.CategoryEnum }
func (d *EnumDecl) IsFunctionLike() bool         { return false }
func (d *EnumDecl) ParamKey() string             { return "" }
func (d *EnumDecl) ReturnKey() string            { return "" }

// UnionDecl is `union name { members }`.
type UnionDecl struct {
	declBase
	Body  []Decl
	Scope *scope.Scope
}

func (d *UnionDecl) DeclName() string            { return nameString(d.name) }
func (d *UnionDecl) DeclCategory() scope.Category { return scope.CategoryUnion }
func (d *UnionDecl) IsFunctionLike() bool         { return false }
func (d *UnionDecl) ParamKey() string             { return "" }
func (d *UnionDecl) ReturnKey() string            { return "" }

// NamespaceDecl introduces a nameable region that is not itself a value.
type NamespaceDecl struct {
	declBase
	Body  []Decl
	Scope *scope.Scope
}

func (d *NamespaceDecl) DeclName() string            { return nameString(d.name) }
func (d *NamespaceDecl) DeclCategory() scope.Category { return scope.CategoryNamespace }
func (d *NamespaceDecl) IsFunctionLike() bool         { return false }
func (d *NamespaceDecl) ParamKey() string             { return "" }
func (d *NamespaceDecl) ReturnKey() string            { return "" }

// TemplateDecl is `template <params> decl`: Parameterized holds the
// templated declaration (a function, class, variable, ...).
type TemplateDecl struct {
	declBase
	Params        []Decl // *ValueTemplateParamDecl / *TypeTemplateParamDecl / *TemplateTemplateParamDecl
	Parameterized Decl
	ParamScope    *scope.Scope
	// Constraint is the template's associated requires-clause, if any,
	// already normalized (nil if unconstrained).
	Constraint Constraint
	// Specializations caches declarations already produced by
	// internal/template.Specialize for a given argument key, so repeated
	// uses of the same template-id return the same specialized Decl.
	Specializations map[string]Decl
}

func (d *TemplateDecl) DeclName() string            { return nameString(d.name) }
func (d *TemplateDecl) DeclCategory() scope.Category { return scope.CategoryTemplate }
func (d *TemplateDecl) IsFunctionLike() bool {
	_, ok := d.Parameterized.(*FunctionDecl)
	return ok
}
func (d *TemplateDecl) ParamKey() string {
	if fd, ok := d.Parameterized.(*FunctionDecl); ok {
		return fd.ParamKey()
	}
	return ""
}
func (d *TemplateDecl) ReturnKey() string {
	if fd, ok := d.Parameterized.(*FunctionDecl); ok {
		return fd.ReturnKey()
	}
	return ""
}

// ConceptDecl is `concept name<params> = expr;`.
type ConceptDecl struct {
	declBase
	Params     []Decl
	ParamScope *scope.Scope
	Def        Def
	// Normalized caches the atomic-constraint DAG computed by
	// internal/template.Normalize on first use.
	Normalized Constraint
}

func (d *ConceptDecl) DeclName() string            { return nameString(d.name) }
func (d *ConceptDecl) DeclCategory() scope.Category { return scope.CategoryConcept }
func (d *ConceptDecl) IsFunctionLike() bool         { return false }
func (d *ConceptDecl) ParamKey() string             { return "" }
func (d *ConceptDecl) ReturnKey() string            { return "" }

// AxiomDecl is `axiom name(params) { requirements }`; its body is a
// sequence of requirements elaborated the same way a concept body is.
type AxiomDecl struct {
	declBase
	Params     []Decl
	ParamScope *scope.Scope
	Def        Def
}

func (d *AxiomDecl) DeclName() string            { return nameString(d.name) }
func (d *AxiomDecl) DeclCategory() scope.Category { return scope.CategoryAxiom }
func (d *AxiomDecl) IsFunctionLike() bool         { return false }
func (d *AxiomDecl) ParamKey() string             { return "" }
func (d *AxiomDecl) ReturnKey() string            { return "" }

// ---- Parameters ----

// VariadicParamDecl is a `...` parameter.
type VariadicParamDecl struct {
	declBase
}

func (d *VariadicParamDecl) DeclName() string            { return nameString(d.name) }
func (d *VariadicParamDecl) DeclCategory() scope.Category { return scope.CategoryParameter }
func (d *VariadicParamDecl) IsFunctionLike() bool         { return false }
func (d *VariadicParamDecl) ParamKey() string             { return "" }
func (d *VariadicParamDecl) ReturnKey() string            { return "" }

// ObjectParamDecl is an ordinary object or reference parameter.
type ObjectParamDecl struct {
	declBase
	DeclaredType Type
}

func (d *ObjectParamDecl) DeclName() string            { return nameString(d.name) }
func (d *ObjectParamDecl) DeclCategory() scope.Category { return scope.CategoryParameter }
func (d *ObjectParamDecl) IsFunctionLike() bool         { return false }
func (d *ObjectParamDecl) ParamKey() string             { return "" }
func (d *ObjectParamDecl) ReturnKey() string            { return "" }

// ValueTemplateParamDecl is a non-type template parameter, e.g. `N : int`.
type ValueTemplateParamDecl struct {
	declBase
	DeclaredType Type
	Default      Expr
}

func (d *ValueTemplateParamDecl) DeclName() string            { return nameString(d.name) }
func (d *ValueTemplateParamDecl) DeclCategory() scope.Category { return scope.CategoryTemplateParam }
func (d *ValueTemplateParamDecl) IsFunctionLike() bool         { return false }
func (d *ValueTemplateParamDecl) ParamKey() string             { return "" }
func (d *ValueTemplateParamDecl) ReturnKey() string            { return "" }

// TypeTemplateParamDecl is `typename T` (optionally constrained by a
// concept-id used in place of `typename`).
type TypeTemplateParamDecl struct {
	declBase
	Constraint Constraint // nil if unconstrained
	Default    Type
}

func (d *TypeTemplateParamDecl) DeclName() string            { return nameString(d.name) }
func (d *TypeTemplateParamDecl) DeclCategory() scope.Category { return scope.CategoryTemplateParam }
func (d *TypeTemplateParamDecl) IsFunctionLike() bool         { return false }
func (d *TypeTemplateParamDecl) ParamKey() string             { return "" }
func (d *TypeTemplateParamDecl) ReturnKey() string            { return "" }

// TemplateTemplateParamDecl is a parameter that is itself a template.
type TemplateTemplateParamDecl struct {
	declBase
	Params []Decl
}

func (d *TemplateTemplateParamDecl) DeclName() string            { return nameString(d.name) }
func (d *TemplateTemplateParamDecl) DeclCategory() scope.Category { return scope.CategoryTemplateParam }
func (d *TemplateTemplateParamDecl) IsFunctionLike() bool         { return false }
func (d *TemplateTemplateParamDecl) ParamKey() string             { return "" }
func (d *TemplateTemplateParamDecl) ReturnKey() string            { return "" }
