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

import "fmt"

// Location names a single point in a source file, 1-based like most
// editors and compilers report.
type Location struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Token is the lexer's unit of output: a kind, the location it was read
// from, its literal spelling, and decoded payloads for literal kinds.
type Token struct {
	Kind     Kind
	Loc      Location
	Spelling string // exact source text, including quotes for strings
	Symbol   Symbol // interned for Identifier and keyword kinds
	IntValue int64  // decoded value for Integer
}

func (t Token) String() string {
	if t.Kind == Identifier || t.Kind.IsKeyword() {
		return string(t.Symbol)
	}
	return t.Spelling
}
