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

package template

import "github.com/asutton/banjo-sub001/internal/ast"

// Deduce extends subst so that Substitute(arena, pattern, subst) would
// structurally equal arg, mutating subst in place and returning it.
// Deduction is type-directed: at each paired structural position, a
// type parameter in the pattern records a mapping (or checks
// consistency with an existing one); anything else recurses.
//
// Deduce is monotone (every binding already in subst survives): it never
// removes or overwrites a binding, only adds new ones or fails.
func Deduce(pattern, arg ast.Type, subst *Substitution) *Substitution {
	if subst.Failed {
		return subst
	}
	if pattern == nil || arg == nil {
		return subst.Fail()
	}
	switch p := pattern.(type) {
	case *ast.TypenameType:
		if existing, ok := subst.Lookup(p.Param); ok {
			if et, ok := existing.(ast.Type); ok && ast.Equivalent(et, arg) {
				return subst
			}
			return subst.Fail()
		}
		return subst.Bind(p.Param, arg)

	case *ast.PointerType:
		a, ok := arg.(*ast.PointerType)
		if !ok {
			return subst.Fail()
		}
		return Deduce(p.Elem, a.Elem, subst)

	case *ast.ReferenceType:
		a, ok := arg.(*ast.ReferenceType)
		if !ok {
			return subst.Fail()
		}
		return Deduce(p.Elem, a.Elem, subst)

	case *ast.QualifiedType:
		a, ok := arg.(*ast.QualifiedType)
		if !ok || a.Quals != p.Quals {
			return subst.Fail()
		}
		return Deduce(p.Inner, a.Inner, subst)

	case *ast.ArrayType:
		a, ok := arg.(*ast.ArrayType)
		if !ok {
			return subst.Fail()
		}
		return Deduce(p.Elem, a.Elem, subst)

	case *ast.TupleType:
		a, ok := arg.(*ast.TupleType)
		if !ok || len(a.Elems) != len(p.Elems) {
			return subst.Fail()
		}
		for i := range p.Elems {
			Deduce(p.Elems[i], a.Elems[i], subst)
			if subst.Failed {
				return subst
			}
		}
		return subst

	case *ast.FunctionType:
		a, ok := arg.(*ast.FunctionType)
		if !ok || len(a.Params) != len(p.Params) {
			return subst.Fail()
		}
		for i := range p.Params {
			Deduce(p.Params[i], a.Params[i], subst)
			if subst.Failed {
				return subst
			}
		}
		return Deduce(p.Return, a.Return, subst)

	default:
		// A non-dependent leaf (void/bool/byte/auto/integer/float/
		// class/enum/union/decltype): the structure matches only if the
		// argument is the identical type.
		if ast.Equivalent(pattern, arg) {
			return subst
		}
		return subst.Fail()
	}
}
