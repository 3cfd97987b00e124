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

package elaborate

import (
	"fmt"

	"github.com/asutton/banjo-sub001/internal/ast"
)

// Layout queries, answerable once pass 3 has completed a class. The
// model is the usual C-like one: scalars are their precision in bytes,
// pointers and references are word-sized, aggregates place members in
// declaration order at their natural alignment.

const wordSize = 8

// SizeOf returns t's size in bytes.
func SizeOf(t ast.Type) (int, error) {
	switch n := ast.Unqualified(t).(type) {
	case *ast.BoolType, *ast.ByteType:
		return 1, nil
	case *ast.IntegerType:
		return n.Precision / 8, nil
	case *ast.FloatType:
		return n.Precision / 8, nil
	case *ast.PointerType, *ast.ReferenceType:
		return wordSize, nil
	case *ast.EnumType:
		return 4, nil
	case *ast.ArrayType:
		elem, err := SizeOf(n.Elem)
		if err != nil {
			return 0, err
		}
		extent, ok := intConst(n.Extent)
		if !ok {
			return 0, fmt.Errorf("array extent is not a constant")
		}
		return elem * int(extent), nil
	case *ast.TupleType:
		return aggregateSize(n.Elems)
	case *ast.ClassType:
		cd, ok := n.Decl.(*ast.ClassDecl)
		if !ok || !cd.Complete {
			return 0, fmt.Errorf("class is not complete")
		}
		return aggregateSize(classSubobjectTypes(cd))
	case *ast.UnionType:
		ud, ok := n.Decl.(*ast.UnionDecl)
		if !ok {
			return 0, fmt.Errorf("union is not complete")
		}
		max := 0
		for _, m := range ud.Body {
			fd, ok := m.(*ast.FieldDecl)
			if !ok {
				continue
			}
			sz, err := SizeOf(fd.DeclaredType)
			if err != nil {
				return 0, err
			}
			if sz > max {
				max = sz
			}
		}
		return max, nil
	default:
		return 0, fmt.Errorf("type has no size")
	}
}

// AlignOf returns t's natural alignment in bytes.
func AlignOf(t ast.Type) (int, error) {
	switch n := ast.Unqualified(t).(type) {
	case *ast.ArrayType:
		return AlignOf(n.Elem)
	case *ast.TupleType:
		return aggregateAlign(n.Elems)
	case *ast.ClassType:
		cd, ok := n.Decl.(*ast.ClassDecl)
		if !ok || !cd.Complete {
			return 0, fmt.Errorf("class is not complete")
		}
		return aggregateAlign(classSubobjectTypes(cd))
	default:
		sz, err := SizeOf(t)
		if err != nil {
			return 0, err
		}
		if sz > wordSize {
			return wordSize, nil
		}
		return sz, nil
	}
}

// OffsetOf returns the byte offset of the named field within a
// completed class, counting base subobjects first.
func OffsetOf(cd *ast.ClassDecl, field *ast.FieldDecl) (int, error) {
	if !cd.Complete {
		return 0, fmt.Errorf("class is not complete")
	}
	offset := 0
	place := func(t ast.Type) (int, error) {
		a, err := AlignOf(t)
		if err != nil {
			return 0, err
		}
		offset = align(offset, a)
		at := offset
		sz, err := SizeOf(t)
		if err != nil {
			return 0, err
		}
		offset += sz
		return at, nil
	}
	for _, b := range cd.Bases {
		if _, err := place(b.Type()); err != nil {
			return 0, err
		}
	}
	for _, f := range cd.Fields {
		at, err := place(f.DeclaredType)
		if err != nil {
			return 0, err
		}
		if f == field {
			return at, nil
		}
	}
	return 0, fmt.Errorf("field is not a member of this class")
}

func classSubobjectTypes(cd *ast.ClassDecl) []ast.Type {
	var ts []ast.Type
	for _, b := range cd.Bases {
		ts = append(ts, b.Type())
	}
	for _, f := range cd.Fields {
		ts = append(ts, f.DeclaredType)
	}
	return ts
}

func aggregateSize(elems []ast.Type) (int, error) {
	offset, maxAlign := 0, 1
	for _, t := range elems {
		a, err := AlignOf(t)
		if err != nil {
			return 0, err
		}
		if a > maxAlign {
			maxAlign = a
		}
		offset = align(offset, a)
		sz, err := SizeOf(t)
		if err != nil {
			return 0, err
		}
		offset += sz
	}
	return align(offset, maxAlign), nil
}

func aggregateAlign(elems []ast.Type) (int, error) {
	maxAlign := 1
	for _, t := range elems {
		a, err := AlignOf(t)
		if err != nil {
			return 0, err
		}
		if a > maxAlign {
			maxAlign = a
		}
	}
	return maxAlign, nil
}

func align(offset, alignment int) int {
	if alignment <= 1 {
		return offset
	}
	return (offset + alignment - 1) / alignment * alignment
}

func intConst(e ast.Expr) (int64, bool) {
	v, ok := Eval(e)
	if !ok || !v.IsInt {
		return 0, false
	}
	return v.Int, true
}
