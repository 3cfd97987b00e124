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

// Stream is a flat, randomly-repositionable sequence of tokens, the
// parser's sole view of lexical input. Splice lets several files merge
// into one translation unit by concatenating their token lists.
type Stream struct {
	toks []Token
	pos  int
}

// NewStream wraps a token slice for parsing. The slice must end in an EOF
// token; Lex guarantees this.
func NewStream(toks []Token) *Stream {
	return &Stream{toks: toks}
}

// Peek returns the current token without consuming it.
func (s *Stream) Peek() Token { return s.PeekN(0) }

// PeekN returns the token n places ahead of the cursor (n==0 is Peek).
// Requesting past the end of the stream returns the trailing EOF token.
func (s *Stream) PeekN(n int) Token {
	i := s.pos + n
	if i >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}
	return s.toks[i]
}

// Get returns the current token and advances the cursor past it. Getting
// past EOF repeatedly returns EOF without panicking.
func (s *Stream) Get() Token {
	t := s.Peek()
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return t
}

// EOF reports whether the cursor is at the terminating EOF token.
func (s *Stream) EOF() bool { return s.Peek().Kind == EOF }

// Position is an opaque cursor snapshot for tentative parsing.
type Position int

// Position returns the stream's current cursor, to be restored later via
// Reposition.
func (s *Stream) Position() Position { return Position(s.pos) }

// Reposition rewinds (or, in principle, fast-forwards) the cursor to a
// previously captured Position.
func (s *Stream) Reposition(p Position) { s.pos = int(p) }

// Splice concatenates further token lists onto the end of the stream,
// dropping intermediate EOF markers so the merged stream has exactly one
// terminating EOF, as used when multiple source files are merged into a
// single translation unit.
func (s *Stream) Splice(lists ...[]Token) {
	merged := make([]Token, 0, len(s.toks))
	if len(s.toks) > 0 {
		merged = append(merged, s.toks[:len(s.toks)-1]...)
	}
	for _, l := range lists {
		if len(l) == 0 {
			continue
		}
		merged = append(merged, l[:len(l)-1]...)
	}
	if len(s.toks) > 0 {
		merged = append(merged, s.toks[len(s.toks)-1])
	} else {
		merged = append(merged, Token{Kind: EOF})
	}
	s.toks = merged
}
