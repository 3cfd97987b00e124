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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asutton/banjo-sub001/internal/token"
)

func lexed(t *testing.T, src string) []token.Token {
	toks, errs := token.Lex("test.bnj", src)
	require.Empty(t, errs)
	return toks
}

func TestStreamPeekGet(t *testing.T) {
	s := token.NewStream(lexed(t, "a b c"))
	assert.Equal(t, token.Identifier, s.Peek().Kind)
	assert.Equal(t, "b", string(s.PeekN(1).Symbol))
	assert.Equal(t, "a", string(s.Get().Symbol))
	assert.Equal(t, "b", string(s.Get().Symbol))
	assert.False(t, s.EOF())
	assert.Equal(t, "c", string(s.Get().Symbol))
	assert.True(t, s.EOF())
	// Reading past the end keeps returning EOF.
	assert.Equal(t, token.EOF, s.Get().Kind)
	assert.Equal(t, token.EOF, s.Get().Kind)
}

func TestStreamPeekPastEnd(t *testing.T) {
	s := token.NewStream(lexed(t, "a"))
	assert.Equal(t, token.EOF, s.PeekN(5).Kind)
}

func TestStreamReposition(t *testing.T) {
	s := token.NewStream(lexed(t, "a b c"))
	s.Get()
	mark := s.Position()
	assert.Equal(t, "b", string(s.Get().Symbol))
	assert.Equal(t, "c", string(s.Get().Symbol))
	s.Reposition(mark)
	assert.Equal(t, "b", string(s.Get().Symbol))
}

// Splice merges several files' token lists into one stream with a
// single trailing EOF.
func TestStreamSplice(t *testing.T) {
	s := token.NewStream(lexed(t, "a b"))
	s.Splice(lexed(t, "c"), lexed(t, "d e"))

	var names []string
	for !s.EOF() {
		names = append(names, string(s.Get().Symbol))
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)
	assert.Equal(t, token.EOF, s.Peek().Kind)
}

func TestInternCanonical(t *testing.T) {
	a := token.Intern("same")
	b := token.Intern("same")
	assert.Equal(t, a, b)
}
