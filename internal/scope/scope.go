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

// Package scope implements the scope tree and overload-set lookup
// machinery: a tree of scopes mirroring lexical nesting, each binding
// unqualified names to overload sets.
//
// The package is deliberately independent of internal/ast: a Scope binds
// values satisfying the small Declarable interface below, so the AST
// package can implement it on its Decl hierarchy without scope importing
// ast back — the scope/declaration reference cycle is broken by
// inverting the dependency instead of indexing into an arena.
package scope

import (
	"sort"

	"golang.org/x/exp/slices"
)

// Category distinguishes the kinds of declarations a scope may or may not
// accept, used by the scope-declaration-adjustment rule.
type Category int

const (
	CategoryVariable Category = iota
	CategoryField
	CategoryConstant
	CategoryFunction
	CategoryClass
	CategoryEnum
	CategoryUnion
	CategoryNamespace
	CategoryTemplate
	CategoryConcept
	CategoryAxiom
	CategoryTemplateParam
	CategoryParameter
)

// Declarable is the minimal surface a Scope needs from a declaration in
// order to bind and overload it. internal/ast.Decl implements this.
type Declarable interface {
	// DeclName is the unqualified name this declaration binds in its
	// scope.
	DeclName() string
	// DeclCategory classifies the declaration for scope-acceptance and
	// overload-merge decisions.
	DeclCategory() Category
	// IsFunctionLike reports whether this declaration participates in
	// overload sets the way a function does (functions and function
	// templates); non-function-like declarations may never share a name
	// with anything.
	IsFunctionLike() bool
	// ParamKey returns a string uniquely determined by the declaration's
	// parameter type list, used to tell two function-like declarations
	// apart for overloading. Two declarations with equal ParamKey are
	// redeclarations of the same signature, not overloads.
	ParamKey() string
	// ReturnKey returns a string uniquely determined by the declaration's
	// return type, used to check that same-signature overloads agree.
	ReturnKey() string
}

// Kind identifies what sort of lexical construct a Scope was opened for.
// It drives which declaration categories the scope will directly accept.
type Kind int

const (
	KindGlobal Kind = iota
	KindNamespace
	KindClass
	KindFunction
	KindParameterList
	KindTemplateParameterList
	KindBlock
	KindRequires
)

// accepts reports whether a scope of kind k is the right home for a
// declaration of category c, i.e. whether `declare` may bind it here
// directly instead of walking outward.
func (k Kind) accepts(c Category) bool {
	switch c {
	case CategoryTemplateParam:
		return k == KindTemplateParameterList
	case CategoryParameter:
		return k == KindParameterList
	default:
		// Every other declaration category may live in any "named
		// region" scope; block scopes accept locals and nested types,
		// template/parameter-list scopes accept nothing else.
		return k != KindTemplateParameterList && k != KindParameterList
	}
}

// OverloadSet is the non-empty, ordered group of declarations sharing one
// name in one scope.
type OverloadSet struct {
	Entries []Declarable
}

// Scope is one node of the scope tree.
type Scope struct {
	Kind   Kind
	Owner  Declarable // the context declaration this scope is attached to, if any
	Parent *Scope
	table  map[string]*OverloadSet
	names  []string // insertion order; Names returns a sorted copy
}

// New creates a scope of the given kind, nested inside parent (nil for
// the translation unit's global scope).
func New(kind Kind, owner Declarable, parent *Scope) *Scope {
	return &Scope{Kind: kind, Owner: owner, Parent: parent, table: map[string]*OverloadSet{}}
}

// Lookup performs local-only lookup: it does not walk outward.
func (s *Scope) Lookup(name string) *OverloadSet {
	return s.table[name]
}

// Names returns the scope's bound names in sorted order, for deterministic
// traversal (e.g. by pass 2's overload consistency check).
func (s *Scope) Names() []string {
	out := slices.Clone(s.names)
	sort.Strings(out)
	return out
}

// Bind binds d's name in this scope, applying the overload-merge
// policy: if name is unbound here, a fresh one-element
// overload set is created; otherwise d is merged into the existing set,
// or a declaration error is returned.
func (s *Scope) Bind(d Declarable) error {
	name := d.DeclName()
	set, ok := s.table[name]
	if !ok {
		s.table[name] = &OverloadSet{Entries: []Declarable{d}}
		s.names = append(s.names, name)
		return nil
	}
	return mergeOverload(set, d)
}

// mergeOverload decides overloadability: a new declaration may join an existing
// overload set only if every member (old and new) is function-like and
// pairwise overloadable: distinct parameter lists, or identical parameter
// lists with matching return types, which is appended as a redeclaration
// (a second definition of one signature is not rejected here). Anything
// else is a conflict.
func mergeOverload(set *OverloadSet, d Declarable) error {
	if !d.IsFunctionLike() {
		return &ConflictError{Name: d.DeclName(), Reason: "a non-function declaration cannot share a name with an existing declaration"}
	}
	for _, existing := range set.Entries {
		if !existing.IsFunctionLike() {
			return &ConflictError{Name: d.DeclName(), Reason: "a function cannot share a name with a non-function declaration"}
		}
		if existing.ParamKey() == d.ParamKey() {
			if existing.ReturnKey() != d.ReturnKey() {
				return &ConflictError{Name: d.DeclName(), Reason: "redeclaration with the same parameters but a different return type"}
			}
			// Identical redeclaration (e.g. a forward declaration being
			// completed); still appended so later passes can pick either.
		}
	}
	set.Entries = append(set.Entries, d)
	return nil
}

// ConflictError is returned by Bind when §4.6's merge policy rejects a
// declaration.
type ConflictError struct {
	Name   string
	Reason string
}

func (e *ConflictError) Error() string { return e.Name + ": " + e.Reason }

// UnqualifiedLookup walks outward from start through enclosing scopes
// until a binding for name is found, or returns nil at the root.
func UnqualifiedLookup(start *Scope, name string) *OverloadSet {
	for s := start; s != nil; s = s.Parent {
		if set := s.Lookup(name); set != nil {
			return set
		}
	}
	return nil
}

// QualifiedLookup searches only within the given scope (e.g. a class or
// namespace's own members), without walking outward to enclosing scopes.
func QualifiedLookup(in *Scope, name string) *OverloadSet {
	if in == nil {
		return nil
	}
	return in.Lookup(name)
}

// Declare binds d into scope s, applying the scope-declaration-
// adjustment rule: if s's kind does not accept d's category, walk
// outward to the nearest scope that does.
func Declare(s *Scope, d Declarable) error {
	target := s
	for target != nil && !target.Kind.accepts(d.DeclCategory()) {
		target = target.Parent
	}
	if target == nil {
		return &ConflictError{Name: d.DeclName(), Reason: "no enclosing scope accepts this declaration"}
	}
	return target.Bind(d)
}
