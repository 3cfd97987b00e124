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

package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asutton/banjo-sub001/internal/scope"
)

// fakeDecl is a minimal Declarable for exercising the scope machinery
// without pulling in the ast package.
type fakeDecl struct {
	name string
	cat  scope.Category
	fn   bool
	pk   string
	rk   string
}

func (d *fakeDecl) DeclName() string             { return d.name }
func (d *fakeDecl) DeclCategory() scope.Category { return d.cat }
func (d *fakeDecl) IsFunctionLike() bool         { return d.fn }
func (d *fakeDecl) ParamKey() string             { return d.pk }
func (d *fakeDecl) ReturnKey() string            { return d.rk }

func variable(name string) *fakeDecl {
	return &fakeDecl{name: name, cat: scope.CategoryVariable}
}

func function(name, params, ret string) *fakeDecl {
	return &fakeDecl{name: name, cat: scope.CategoryFunction, fn: true, pk: params, rk: ret}
}

func TestBindAndLocalLookup(t *testing.T) {
	s := scope.New(scope.KindGlobal, nil, nil)
	x := variable("x")
	require.NoError(t, s.Bind(x))

	set := s.Lookup("x")
	require.NotNil(t, set)
	assert.Equal(t, []scope.Declarable{x}, set.Entries)
	assert.Nil(t, s.Lookup("y"))
}

func TestUnqualifiedLookupWalksOutward(t *testing.T) {
	global := scope.New(scope.KindGlobal, nil, nil)
	block := scope.New(scope.KindBlock, nil, global)
	inner := scope.New(scope.KindBlock, nil, block)

	x := variable("x")
	require.NoError(t, global.Bind(x))

	set := scope.UnqualifiedLookup(inner, "x")
	require.NotNil(t, set)
	assert.Equal(t, x, set.Entries[0])
	assert.Nil(t, scope.UnqualifiedLookup(inner, "missing"))
}

// Qualified lookup searches only the named scope, never the enclosing
// ones.
func TestQualifiedLookupDoesNotWalk(t *testing.T) {
	global := scope.New(scope.KindGlobal, nil, nil)
	class := scope.New(scope.KindClass, nil, global)
	require.NoError(t, global.Bind(variable("outer")))

	assert.Nil(t, scope.QualifiedLookup(class, "outer"))
	assert.Nil(t, scope.QualifiedLookup(nil, "outer"))
}

func TestOverloadMerge(t *testing.T) {
	s := scope.New(scope.KindGlobal, nil, nil)
	require.NoError(t, s.Bind(function("f", "int", "int")))
	require.NoError(t, s.Bind(function("f", "bool", "int")))
	assert.Len(t, s.Lookup("f").Entries, 2)

	// Same parameters, different return type.
	err := s.Bind(function("f", "int", "bool"))
	assert.Error(t, err)

	// A non-function may not join.
	assert.Error(t, s.Bind(variable("f")))

	// A function may not join a non-function.
	require.NoError(t, s.Bind(variable("g")))
	assert.Error(t, s.Bind(function("g", "", "int")))
}

// The scope-declaration-adjustment rule: a declaration disallowed in
// the current scope walks outward to the nearest acceptable one.
func TestDeclareAdjustsScope(t *testing.T) {
	global := scope.New(scope.KindGlobal, nil, nil)
	tparams := scope.New(scope.KindTemplateParameterList, nil, global)
	block := scope.New(scope.KindBlock, nil, tparams)

	tp := &fakeDecl{name: "T", cat: scope.CategoryTemplateParam}
	require.NoError(t, scope.Declare(block, tp))
	assert.Nil(t, block.Lookup("T"))
	require.NotNil(t, tparams.Lookup("T"))

	// A variable declared while a parameter-list scope is current walks
	// outward past it.
	params := scope.New(scope.KindParameterList, nil, global)
	v := variable("x")
	require.NoError(t, scope.Declare(params, v))
	assert.Nil(t, params.Lookup("x"))
	assert.NotNil(t, global.Lookup("x"))
}

func TestDeclareNoAcceptingScope(t *testing.T) {
	lone := scope.New(scope.KindParameterList, nil, nil)
	err := scope.Declare(lone, variable("x"))
	assert.Error(t, err)
}

func TestNamesDeterministic(t *testing.T) {
	s := scope.New(scope.KindGlobal, nil, nil)
	for _, n := range []string{"c", "a", "b"} {
		require.NoError(t, s.Bind(variable(n)))
	}
	assert.Equal(t, []string{"a", "b", "c"}, s.Names())
}
