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

package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asutton/banjo-sub001/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexKinds(t *testing.T) {
	for _, test := range []struct {
		source   string
		expected []token.Kind
	}{
		{
			source: "var x : int = 1 + 2;",
			expected: []token.Kind{
				token.Var, token.Identifier, token.Colon, token.Int,
				token.Eq, token.Integer, token.Plus, token.Integer,
				token.Semicolon, token.EOF,
			},
		},
		{
			source: "def f: (x : bool) -> int { return 0; }",
			expected: []token.Kind{
				token.Def, token.Identifier, token.Colon, token.LParen,
				token.Identifier, token.Colon, token.Bool, token.RParen,
				token.Arrow, token.Int, token.LBrace, token.Return,
				token.Integer, token.Semicolon, token.RBrace, token.EOF,
			},
		},
		{
			source: "a <=> b ... :: <= >= << >>",
			expected: []token.Kind{
				token.Identifier, token.LtEqGt, token.Identifier,
				token.Ellipsis, token.ColonColon, token.LtEq, token.GtEq,
				token.LtLt, token.GtGt, token.EOF,
			},
		},
		{
			source:   "x // trailing comment\n",
			expected: []token.Kind{token.Identifier, token.EOF},
		},
	} {
		toks, errs := token.Lex("test.bnj", test.source)
		require.Empty(t, errs, "source %q", test.source)
		assert.Equal(t, test.expected, kinds(toks), "source %q", test.source)
	}
}

// The spelling of all emitted tokens, concatenated, must equal the
// source text modulo whitespace and comments.
func TestLexSpellingRoundTrip(t *testing.T) {
	source := "var point : (int, int) = (1, 2);\nclass C { def f: () -> bool = true; }"
	toks, errs := token.Lex("test.bnj", source)
	require.Empty(t, errs)

	var spelled strings.Builder
	for _, tok := range toks {
		spelled.WriteString(tok.Spelling)
	}
	squashed := strings.NewReplacer(" ", "", "\t", "", "\n", "").Replace(source)
	assert.Equal(t, squashed, spelled.String())
}

func TestLexIntegerPayload(t *testing.T) {
	toks, errs := token.Lex("test.bnj", "1234567")
	require.Empty(t, errs)
	require.Equal(t, token.Integer, toks[0].Kind)
	assert.Equal(t, int64(1234567), toks[0].IntValue)
}

func TestLexKeywordInterning(t *testing.T) {
	toks, errs := token.Lex("test.bnj", "class class")
	require.Empty(t, errs)
	assert.Equal(t, token.Class, toks[0].Kind)
	assert.Equal(t, toks[0].Symbol, toks[1].Symbol)
	assert.True(t, toks[0].Kind.IsKeyword())
	assert.True(t, toks[0].Kind.IsWord())
}

// An unrecognized character is reported, skipped, and the rest of the
// file still lexes.
func TestLexBadCharacterRecovers(t *testing.T) {
	toks, errs := token.Lex("test.bnj", "var # x")
	require.Len(t, errs, 1)
	assert.Equal(t, []token.Kind{token.Var, token.Identifier, token.EOF}, kinds(toks))
}

func TestLexLocations(t *testing.T) {
	toks, errs := token.Lex("test.bnj", "a\nbb ccc")
	require.Empty(t, errs)
	assert.Equal(t, 1, toks[0].Loc.Line)
	assert.Equal(t, 2, toks[1].Loc.Line)
	assert.Equal(t, 1, toks[1].Loc.Column)
	assert.Equal(t, 4, toks[2].Loc.Column)
}
