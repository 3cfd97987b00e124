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

package token

import "sync"

// Symbol is an interned string. Two symbols compare equal iff their
// underlying strings are equal; this lets later passes use pointer/value
// equality instead of string comparison once a name has been interned.
type Symbol string

// symbolTable is the process-wide, append-only table of interned
// identifiers and keywords. The single-threaded pipeline needs no
// synchronization beyond protecting concurrent parses of independent
// translation units, which the mutex below provides.
type symbolTable struct {
	mu      sync.Mutex
	entries map[string]Symbol
}

var globalSymbols = &symbolTable{entries: make(map[string]Symbol)}

// Intern returns the canonical Symbol for s, registering it on first use.
func Intern(s string) Symbol {
	globalSymbols.mu.Lock()
	defer globalSymbols.mu.Unlock()
	if sym, ok := globalSymbols.entries[s]; ok {
		return sym
	}
	sym := Symbol(s)
	globalSymbols.entries[s] = sym
	return sym
}
