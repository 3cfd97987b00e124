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

// Package template implements the template/concept core: substitution,
// deduction, normalization, subsumption, satisfaction, and
// specialization. It depends on internal/ast for node shapes and on
// internal/scope indirectly through ast.Decl, but not on internal/parser
// or internal/elaborate, so it can be exercised in isolation by the
// rest of the front end.
package template

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/asutton/banjo-sub001/internal/ast"
)

// Substitution is a (possibly partial, possibly failed) map from
// template parameter declarations to argument terms. Failure is an
// explicit sentinel state on the map, not an error value: once failed,
// composite substitutions propagate failure rather than abort.
type Substitution struct {
	args   map[ast.Decl]ast.Node
	Failed bool
}

// New returns an empty, non-failed Substitution.
func New() *Substitution {
	return &Substitution{args: map[ast.Decl]ast.Node{}}
}

// Fail marks s as failed and returns it, for chaining inside deduction.
func (s *Substitution) Fail() *Substitution {
	s.Failed = true
	return s
}

// Bind records param -> arg. If param is already bound to a different
// term, the substitution fails instead of silently overwriting (deduction
// relies on this to detect an inconsistent re-mapping).
func (s *Substitution) Bind(param ast.Decl, arg ast.Node) *Substitution {
	if s.Failed {
		return s
	}
	if existing, ok := s.args[param]; ok {
		if !nodeEqual(existing, arg) {
			return s.Fail()
		}
		return s
	}
	s.args[param] = arg
	return s
}

// Lookup returns the term bound to param, if any.
func (s *Substitution) Lookup(param ast.Decl) (ast.Node, bool) {
	v, ok := s.args[param]
	return v, ok
}

// Clone makes an independent copy of s, so speculative deduction attempts
// (one per overload candidate) don't share mutable state.
func (s *Substitution) Clone() *Substitution {
	return &Substitution{args: maps.Clone(s.args), Failed: s.Failed}
}

// Params returns the bound parameters in a deterministic order, for
// stable cache keys and deterministic printing.
func (s *Substitution) Params() []ast.Decl {
	ks := maps.Keys(s.args)
	sort.Slice(ks, func(i, j int) bool { return fmt.Sprintf("%p", ks[i]) < fmt.Sprintf("%p", ks[j]) })
	return ks
}

// Key renders a canonical string for this substitution's bindings, used
// to key a TemplateDecl's specialization cache.
func (s *Substitution) Key() string {
	out := ""
	for _, p := range s.Params() {
		v, _ := s.Lookup(p)
		out += fmt.Sprintf("%p=%s;", p, termKey(v))
	}
	return out
}

func termKey(n ast.Node) string {
	switch v := n.(type) {
	case ast.Type:
		return ast.TypeKey(v)
	case *ast.IntLit:
		return fmt.Sprintf("int:%d", v.Value)
	case *ast.BoolLit:
		return fmt.Sprintf("bool:%v", v.Value)
	default:
		return fmt.Sprintf("%T@%p", n, n)
	}
}

func nodeEqual(a, b ast.Node) bool {
	at, aok := a.(ast.Type)
	bt, bok := b.(ast.Type)
	if aok && bok {
		return ast.Equivalent(at, bt)
	}
	return termKey(a) == termKey(b)
}

// Substitute applies subst to t, producing a new term with every free
// occurrence of a mapped type-template-parameter replaced by its bound
// argument. Substitution is total and structural: every composite type
// is rebuilt through arena.Types so hash-consed categories
// re-canonicalize and type invariants are preserved. A failed subst
// substitutes to itself unchanged at every position.
func Substitute(arena *ast.Arena, t ast.Type, subst *Substitution) ast.Type {
	if subst.Failed || t == nil {
		return t
	}
	switch n := t.(type) {
	case *ast.TypenameType:
		if v, ok := subst.Lookup(n.Param); ok {
			if vt, ok := v.(ast.Type); ok {
				return vt
			}
		}
		return t
	case *ast.PointerType:
		return arena.Types.Pointer(Substitute(arena, n.Elem, subst))
	case *ast.ReferenceType:
		return arena.Types.Reference(Substitute(arena, n.Elem, subst))
	case *ast.QualifiedType:
		return arena.Types.Qualified(Substitute(arena, n.Inner, subst), n.Quals)
	case *ast.ArrayType:
		return arena.Types.Array(Substitute(arena, n.Elem, subst), n.Extent)
	case *ast.TupleType:
		elems := make([]ast.Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = Substitute(arena, e, subst)
		}
		return arena.Types.Tuple(elems)
	case *ast.FunctionType:
		params := make([]ast.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = Substitute(arena, p, subst)
		}
		return arena.Types.Function(params, Substitute(arena, n.Return, subst))
	default:
		// void/bool/byte/auto/integer/float/class/enum/union/decltype:
		// no parameter can occur free inside these as written (a
		// decltype operand's own substitution is driven by expression
		// elaboration, outside this package's scope), so they substitute
		// to themselves.
		return t
	}
}
