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

	"github.com/asutton/banjo-sub001/internal/token"
)

// TypeCategory distinguishes object, reference, and function types;
// qualifiers attach only to object types.
type TypeCategory int

const (
	CategoryObject TypeCategory = iota
	CategoryReference
	CategoryFunction
)

// Qual is one bit of a type's qualifier set.
type Qual int

const (
	QualConst Qual = 1 << iota
	QualVolatile
	QualMeta
	QualConsume
	QualNoexcept
)

// QualSet is a bitset of Quals.
type QualSet int

func (q QualSet) Has(bit Qual) bool { return q&QualSet(bit) != 0 }

// Category reports whether t is an object, reference, or function type,
// by structural type switch rather than a per-node virtual method, in
// keeping with the "tagged union + pattern match" design note of §9.
func Category(t Type) TypeCategory {
	switch t.(type) {
	case *ReferenceType:
		return CategoryReference
	case *FunctionType:
		return CategoryFunction
	default:
		return CategoryObject
	}
}

// Quals returns t's qualifier set: only QualifiedType carries one
// explicitly; every other type is unqualified. Function and reference
// types carry no qualifiers directly — a `const T&` is a reference to
// `const T`, i.e. the QualifiedType nests *inside* the ReferenceType's
// Elem, never the other way around.
func Quals(t Type) QualSet {
	if q, ok := t.(*QualifiedType); ok {
		return q.Quals
	}
	return 0
}

// Unqualified strips a QualifiedType wrapper, if any.
func Unqualified(t Type) Type {
	if q, ok := t.(*QualifiedType); ok {
		return q.Inner
	}
	return t
}

// ---- Singleton / structural type node kinds ----

type VoidType struct{ typeBase }
type BoolType struct{ typeBase }
type ByteType struct{ typeBase }
type AutoType struct{ typeBase }
type TypeOfTypesType struct{ typeBase }

// IntegerType is a signed or unsigned integer of a fixed bit precision
// (8/16/32/64).
type IntegerType struct {
	typeBase
	Signed    bool
	Precision int
}

// FloatType is a floating point type of a fixed bit precision (32/64).
type FloatType struct {
	typeBase
	Precision int
}

// DecltypeType defers to the type of Expr, resolved once Expr has been
// elaborated (pass 4).
type DecltypeType struct {
	typeBase
	Expr Expr
}

// FunctionType is structurally hash-consed: two function types with
// equal parameter and return types are the same node.
type FunctionType struct {
	typeBase
	Params []Type
	Return Type
}

// QualifiedType is `const`/`volatile`/... over an object type.
type QualifiedType struct {
	typeBase
	Inner Type
	Quals QualSet
}

// PointerType is `*T`.
type PointerType struct {
	typeBase
	Elem Type
}

// ReferenceType is `T&`. Per the invariant, Elem may itself be a
// QualifiedType (for `const T&`) but ReferenceType itself carries no
// qualifiers.
type ReferenceType struct {
	typeBase
	Elem Type
}

// ArrayType is `T[extent]`; Extent is nil for an unbounded array type.
type ArrayType struct {
	typeBase
	Elem   Type
	Extent Expr
}

// TupleType is a fixed-arity product type.
type TupleType struct {
	typeBase
	Elems []Type
}

// ClassType, EnumType, and UnionType reference their declarations; they
// are trivially unique per declaration (one type node per Decl) but still
// flow through the factory so all type construction goes through one
// place.
type ClassType struct {
	typeBase
	Decl Decl
}
type EnumType struct {
	typeBase
	Decl Decl
}
type UnionType struct {
	typeBase
	Decl Decl
}

// TypenameType references a type template parameter.
type TypenameType struct {
	typeBase
	Param Decl
}

// UnparsedType captures a raw token span for deferred parsing — member
// types and elaboration-only parameter types are captured the same way
// deferred expressions and statements are. Pass 1 opens a fresh
// type-parser over Tokens and replaces the declaration's DeclaredType
// with the result.
type UnparsedType struct {
	typeBase
	Tokens []token.Token
}

// ---- Factories ----

// TypeFactory hash-conses structural type categories: two
// constructions with equal parameters return the same *node, so pointer
// equality implies type equivalence for every category it manages.
type TypeFactory struct {
	voidT    *VoidType
	boolT    *BoolType
	byteT    *ByteType
	autoT    *AutoType
	kindT    *TypeOfTypesType
	integers map[string]*IntegerType
	floats   map[string]*FloatType
	funcs    map[string]*FunctionType
	quals    map[string]*QualifiedType
	ptrs     map[string]*PointerType
	refs     map[string]*ReferenceType
	arrays   map[string]*ArrayType
	tuples   map[string]*TupleType
	classes  map[Decl]*ClassType
	enums    map[Decl]*EnumType
	unions   map[Decl]*UnionType
	names    map[Decl]*TypenameType
}

// NewTypeFactory returns an empty, ready-to-use TypeFactory.
func NewTypeFactory() *TypeFactory {
	return &TypeFactory{
		integers: map[string]*IntegerType{},
		floats:   map[string]*FloatType{},
		funcs:    map[string]*FunctionType{},
		quals:    map[string]*QualifiedType{},
		ptrs:     map[string]*PointerType{},
		refs:     map[string]*ReferenceType{},
		arrays:   map[string]*ArrayType{},
		tuples:   map[string]*TupleType{},
		classes:  map[Decl]*ClassType{},
		enums:    map[Decl]*EnumType{},
		unions:   map[Decl]*UnionType{},
		names:    map[Decl]*TypenameType{},
	}
}

func (f *TypeFactory) Void() *VoidType {
	if f.voidT == nil {
		f.voidT = &VoidType{}
	}
	return f.voidT
}

func (f *TypeFactory) Bool() *BoolType {
	if f.boolT == nil {
		f.boolT = &BoolType{}
	}
	return f.boolT
}

func (f *TypeFactory) Byte() *ByteType {
	if f.byteT == nil {
		f.byteT = &ByteType{}
	}
	return f.byteT
}

func (f *TypeFactory) Auto() *AutoType {
	if f.autoT == nil {
		f.autoT = &AutoType{}
	}
	return f.autoT
}

func (f *TypeFactory) TypeOfTypes() *TypeOfTypesType {
	if f.kindT == nil {
		f.kindT = &TypeOfTypesType{}
	}
	return f.kindT
}

func (f *TypeFactory) Integer(signed bool, precision int) *IntegerType {
	key := fmt.Sprintf("%v:%d", signed, precision)
	if t, ok := f.integers[key]; ok {
		return t
	}
	t := &IntegerType{Signed: signed, Precision: precision}
	f.integers[key] = t
	return t
}

func (f *TypeFactory) Float(precision int) *FloatType {
	key := fmt.Sprintf("%d", precision)
	if t, ok := f.floats[key]; ok {
		return t
	}
	t := &FloatType{Precision: precision}
	f.floats[key] = t
	return t
}

func (f *TypeFactory) Function(params []Type, ret Type) *FunctionType {
	key := funcKey(params, ret)
	if t, ok := f.funcs[key]; ok {
		return t
	}
	cp := make([]Type, len(params))
	copy(cp, params)
	t := &FunctionType{Params: cp, Return: ret}
	f.funcs[key] = t
	return t
}

func funcKey(params []Type, ret Type) string {
	s := typeKey(ret) + "("
	for i, p := range params {
		if i > 0 {
			s += ","
		}
		s += typeKey(p)
	}
	return s + ")"
}

func (f *TypeFactory) Qualified(inner Type, q QualSet) *QualifiedType {
	if q == 0 {
		// An empty set over an already-qualified type returns that type
		// unchanged; any other inner gets a QualifiedType with no qualifiers.
		if qt, ok := inner.(*QualifiedType); ok {
			return qt
		}
	}
	key := fmt.Sprintf("%d:%s", q, typeKey(inner))
	if t, ok := f.quals[key]; ok {
		return t
	}
	t := &QualifiedType{Inner: inner, Quals: q}
	f.quals[key] = t
	return t
}

func (f *TypeFactory) Pointer(elem Type) *PointerType {
	key := typeKey(elem)
	if t, ok := f.ptrs[key]; ok {
		return t
	}
	t := &PointerType{Elem: elem}
	f.ptrs[key] = t
	return t
}

func (f *TypeFactory) Reference(elem Type) *ReferenceType {
	key := typeKey(elem)
	if t, ok := f.refs[key]; ok {
		return t
	}
	t := &ReferenceType{Elem: elem}
	f.refs[key] = t
	return t
}

func (f *TypeFactory) Array(elem Type, extent Expr) *ArrayType {
	key := typeKey(elem) + "#" + exprKey(extent)
	if t, ok := f.arrays[key]; ok {
		return t
	}
	t := &ArrayType{Elem: elem, Extent: extent}
	f.arrays[key] = t
	return t
}

func (f *TypeFactory) Tuple(elems []Type) *TupleType {
	key := ""
	for i, e := range elems {
		if i > 0 {
			key += ","
		}
		key += typeKey(e)
	}
	if t, ok := f.tuples[key]; ok {
		return t
	}
	cp := make([]Type, len(elems))
	copy(cp, elems)
	t := &TupleType{Elems: cp}
	f.tuples[key] = t
	return t
}

func (f *TypeFactory) Class(d Decl) *ClassType {
	if t, ok := f.classes[d]; ok {
		return t
	}
	t := &ClassType{Decl: d}
	f.classes[d] = t
	return t
}

func (f *TypeFactory) Enum(d Decl) *EnumType {
	if t, ok := f.enums[d]; ok {
		return t
	}
	t := &EnumType{Decl: d}
	f.enums[d] = t
	return t
}

func (f *TypeFactory) Union(d Decl) *UnionType {
	if t, ok := f.unions[d]; ok {
		return t
	}
	t := &UnionType{Decl: d}
	f.unions[d] = t
	return t
}

func (f *TypeFactory) Typename(d Decl) *TypenameType {
	if t, ok := f.names[d]; ok {
		return t
	}
	t := &TypenameType{Param: d}
	f.names[d] = t
	return t
}

// TypeKey exports typeKey for internal/template's substitution-map cache
// keys, which need the same canonical structural key this package uses
// for hash-consing.
func TypeKey(t Type) string { return typeKey(t) }

// typeKey computes a canonical structural key for hash-consing and for
// the equivalence tests in internal/template. Equal keys imply structural
// equivalence; since every structural factory method above is keyed the
// same way, equal keys also imply pointer equality for hash-consed nodes.
func typeKey(t Type) string {
	if t == nil {
		return "<nil>"
	}
	switch n := t.(type) {
	case *VoidType:
		return "void"
	case *BoolType:
		return "bool"
	case *ByteType:
		return "byte"
	case *AutoType:
		return "auto"
	case *TypeOfTypesType:
		return "typename"
	case *IntegerType:
		return fmt.Sprintf("int(%v,%d)", n.Signed, n.Precision)
	case *FloatType:
		return fmt.Sprintf("float(%d)", n.Precision)
	case *DecltypeType:
		return "decltype(" + exprKey(n.Expr) + ")"
	case *FunctionType:
		return funcKey(n.Params, n.Return)
	case *QualifiedType:
		return fmt.Sprintf("q(%d,%s)", n.Quals, typeKey(n.Inner))
	case *PointerType:
		return "*" + typeKey(n.Elem)
	case *ReferenceType:
		return "&" + typeKey(n.Elem)
	case *ArrayType:
		return typeKey(n.Elem) + "[" + exprKey(n.Extent) + "]"
	case *TupleType:
		s := "("
		for i, e := range n.Elems {
			if i > 0 {
				s += ","
			}
			s += typeKey(e)
		}
		return s + ")"
	case *ClassType:
		return fmt.Sprintf("class@%p", n.Decl)
	case *EnumType:
		return fmt.Sprintf("enum@%p", n.Decl)
	case *UnionType:
		return fmt.Sprintf("union@%p", n.Decl)
	case *TypenameType:
		return fmt.Sprintf("typeparam@%p", n.Param)
	default:
		return fmt.Sprintf("%T@%p", t, t)
	}
}

// exprKey is a best-effort structural key for expressions appearing in
// type position (array extents, decltype operands): good enough for
// hash-consing and equivalence without a full constant evaluator.
func exprKey(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch n := e.(type) {
	case *IntLit:
		return fmt.Sprintf("int:%d", n.Value)
	case *BoolLit:
		return fmt.Sprintf("bool:%v", n.Value)
	default:
		return fmt.Sprintf("%T@%p", e, e)
	}
}

// Equivalent reports whether a and b are the structurally same type. For
// any hash-consed category this is just pointer equality; the general
// form is provided for types arriving from distinct factories (e.g.
// during cross-translation-unit template argument comparisons).
func Equivalent(a, b Type) bool {
	if a == b {
		return true
	}
	return typeKey(a) == typeKey(b)
}
