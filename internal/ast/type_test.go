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

package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asutton/banjo-sub001/internal/ast"
)

// For every hash-consed category, constructing twice with equal
// parameters must return the same node: pointer equality implies
// equivalence, and equivalence implies pointer equality.
func TestTypeFactoryHashConsing(t *testing.T) {
	f := ast.NewTypeFactory()

	i32 := f.Integer(true, 32)
	assert.Same(t, i32, f.Integer(true, 32))
	assert.NotSame(t, i32, f.Integer(false, 32))
	assert.NotSame(t, i32, f.Integer(true, 64))

	assert.Same(t, f.Float(64), f.Float(64))
	assert.NotSame(t, f.Float(32), f.Float(64))

	assert.Same(t, f.Pointer(i32), f.Pointer(i32))
	assert.Same(t, f.Reference(i32), f.Reference(i32))

	fn := f.Function([]ast.Type{i32, f.Bool()}, i32)
	assert.Same(t, fn, f.Function([]ast.Type{i32, f.Bool()}, i32))
	assert.NotSame(t, fn, f.Function([]ast.Type{i32}, i32))

	tup := f.Tuple([]ast.Type{i32, i32})
	assert.Same(t, tup, f.Tuple([]ast.Type{i32, i32}))

	q := f.Qualified(i32, ast.QualSet(ast.QualConst))
	assert.Same(t, q, f.Qualified(i32, ast.QualSet(ast.QualConst)))

	assert.Same(t, f.Void(), f.Void())
	assert.Same(t, f.Bool(), f.Bool())
	assert.Same(t, f.Byte(), f.Byte())
	assert.Same(t, f.Auto(), f.Auto())
}

func TestTypeEquivalence(t *testing.T) {
	f := ast.NewTypeFactory()
	g := ast.NewTypeFactory()

	// Across factories, equivalence is structural.
	assert.True(t, ast.Equivalent(f.Pointer(f.Integer(true, 32)), g.Pointer(g.Integer(true, 32))))
	assert.False(t, ast.Equivalent(f.Integer(true, 32), f.Integer(false, 32)))
}

func TestTypeCategoriesAndQualifiers(t *testing.T) {
	f := ast.NewTypeFactory()
	i32 := f.Integer(true, 32)

	assert.Equal(t, ast.CategoryObject, ast.Category(i32))
	assert.Equal(t, ast.CategoryReference, ast.Category(f.Reference(i32)))
	assert.Equal(t, ast.CategoryFunction, ast.Category(f.Function(nil, f.Void())))

	// `const T&` is a reference to const T: the qualifier nests inside.
	constT := f.Qualified(i32, ast.QualSet(ast.QualConst))
	ref := f.Reference(constT)
	assert.Equal(t, ast.QualSet(0), ast.Quals(ref))
	assert.Equal(t, ast.QualSet(ast.QualConst), ast.Quals(constT))
	assert.Same(t, i32, ast.Unqualified(constT))
}

func TestArenaPlaceholdersAreFresh(t *testing.T) {
	a := ast.NewArena()
	p1 := a.FreshPlaceholder(a.Global().Loc())
	p2 := a.FreshPlaceholder(a.Global().Loc())
	assert.NotEqual(t, p1.Number, p2.Number)
	assert.Same(t, a.Global(), a.Global())
}
