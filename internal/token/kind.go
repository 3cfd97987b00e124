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

// Package token defines the flat, kinded token stream that the lexer
// produces and the parser consumes.
package token

// Kind identifies the lexical class of a token. The enumeration is
// extensible in spirit (higher layers could register further keywords
// through the symbol table) but the core set below is fixed and mirrors
// the language's real token vocabulary.
type Kind int

const (
	Invalid Kind = iota
	EOF

	Identifier
	Integer
	String

	// Punctuators
	LBrace
	RBrace
	LParen
	RParen
	LBracket
	RBracket
	Comma
	Colon
	ColonColon
	Semicolon
	Dot
	Ellipsis

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Bar
	Caret
	Tilde
	Eq
	EqEq
	BangEq
	Lt
	Gt
	LtEq
	GtEq
	LtEqGt
	LtLt
	GtGt
	AmpAmp
	BarBar
	Bang
	Arrow
	Question
	Dollar
	At

	// Keywords, alphabetical-ish by historical accretion
	firstKeyword
	Abstract
	Axiom
	Auto
	Bool
	Break
	Byte
	Char
	Case
	Class
	Concept
	Const
	Coroutine
	Consume
	Continue
	Decltype
	Def
	Default
	Delete
	Do
	Double
	Dynamic
	Else
	Enum
	Explicit
	Export
	False
	Float
	For
	Forward
	If
	Implicit
	Import
	In
	Inline
	Int
	Mutable
	Namespace
	Operator
	Out
	Public
	Private
	Protected
	Requires
	Return
	Static
	Struct
	Super
	Switch
	Template
	True
	Typename
	Uint
	Union
	Using
	Var
	Virtual
	Void
	Volatile
	While
	Yield
	lastKeyword
)

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool { return firstKeyword < k && k < lastKeyword }

// IsWord reports whether k could have been produced by scanning a run of
// identifier characters (an identifier, or a keyword registered over it).
func (k Kind) IsWord() bool { return k == Identifier || k.IsKeyword() }

var kindNames = map[Kind]string{
	Invalid:    "invalid",
	EOF:        "eof",
	Identifier: "identifier",
	Integer:    "integer",
	String:     "string",
	LBrace:     "{", RBrace: "}",
	LParen: "(", RParen: ")",
	LBracket: "[", RBracket: "]",
	Comma: ",", Colon: ":", ColonColon: "::", Semicolon: ";",
	Dot: ".", Ellipsis: "...",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Amp: "&", Bar: "|", Caret: "^", Tilde: "~",
	Eq: "=", EqEq: "==", BangEq: "!=",
	Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=", LtEqGt: "<=>",
	LtLt: "<<", GtGt: ">>", AmpAmp: "&&", BarBar: "||", Bang: "!",
	Arrow: "->", Question: "?", Dollar: "$", At: "@",
	Abstract: "abstract", Axiom: "axiom", Auto: "auto", Bool: "bool",
	Break: "break", Byte: "byte", Char: "char", Case: "case",
	Class: "class", Concept: "concept", Const: "const",
	Coroutine: "coroutine", Consume: "consume", Continue: "continue",
	Decltype: "decltype", Def: "def", Default: "default", Delete: "delete",
	Do: "do", Double: "double", Dynamic: "dynamic", Else: "else",
	Enum: "enum", Explicit: "explicit", Export: "export", False: "false",
	Float: "float", For: "for", Forward: "forward", If: "if",
	Implicit: "implicit", Import: "import", In: "in", Inline: "inline",
	Int: "int", Mutable: "mutable", Namespace: "namespace",
	Operator: "operator", Out: "out", Public: "public", Private: "private",
	Protected: "protected", Requires: "requires", Return: "return",
	Static: "static", Struct: "struct", Super: "super", Switch: "switch",
	Template: "template", True: "true", Typename: "typename", Uint: "uint",
	Union: "union", Using: "using", Var: "var", Virtual: "virtual",
	Void: "void", Volatile: "volatile", While: "while", Yield: "yield",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "?"
}

// Keywords maps every reserved spelling to its kind. The lexer's word
// scanner consults this after recognizing an identifier-shaped run of
// characters.
var Keywords = func() map[string]Kind {
	m := make(map[string]Kind, lastKeyword-firstKeyword)
	for k := firstKeyword + 1; k < lastKeyword; k++ {
		m[kindNames[k]] = k
	}
	return m
}()
