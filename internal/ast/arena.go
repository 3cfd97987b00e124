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

// Arena owns every node built for one translation unit: the hash-consing
// TypeFactory plus the monotonic counter behind fresh PlaceholderIdents.
// Node lifetime itself belongs to the garbage collector (see the package
// doc in node.go); Arena holds the state that must stay centralized:
// type hash-consing and name freshness.
type Arena struct {
	Types *TypeFactory

	nextPlaceholder uint64
	globalIdent     *GlobalIdent
}

// NewArena returns an empty, ready-to-use Arena.
func NewArena() *Arena {
	return &Arena{Types: NewTypeFactory()}
}

// Global returns the singleton name of the global namespace.
func (a *Arena) Global() *GlobalIdent {
	if a.globalIdent == nil {
		a.globalIdent = &GlobalIdent{}
	}
	return a.globalIdent
}

// FreshPlaceholder returns a new PlaceholderIdent with a number unique
// within this Arena, used by elaboration to synthesize entities with no
// source spelling (an unnamed parameter, a materialized temporary).
func (a *Arena) FreshPlaceholder(loc token.Location) *PlaceholderIdent {
	a.nextPlaceholder++
	n := &PlaceholderIdent{Number: a.nextPlaceholder}
	n.setLoc(loc)
	return n
}

// Simple builds a SimpleIdent for sym at loc.
func (a *Arena) Simple(loc token.Location, sym token.Symbol) *SimpleIdent {
	n := &SimpleIdent{Symbol: sym}
	n.setLoc(loc)
	return n
}
