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

package parser

import (
	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/token"
)

// binaryInfo pairs a token kind's operator identity with its precedence
// tier: logical-or < logical-and < bit-or < bit-xor < bit-and <
// equality < relational < shift < additive < multiplicative (lower
// number binds looser).
type binaryInfo struct {
	op   ast.OperatorKind
	prec int
}

const (
	precLogicalOr = iota + 1
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

var binaryOps = map[token.Kind]binaryInfo{
	token.BarBar:   {ast.OpLogicalOr, precLogicalOr},
	token.AmpAmp:   {ast.OpLogicalAnd, precLogicalAnd},
	token.Bar:      {ast.OpBitOr, precBitOr},
	token.Caret:    {ast.OpBitXor, precBitXor},
	token.Amp:      {ast.OpBitAnd, precBitAnd},
	token.EqEq:     {ast.OpEq, precEquality},
	token.BangEq:   {ast.OpNe, precEquality},
	token.Lt:       {ast.OpLt, precRelational},
	token.Gt:       {ast.OpGt, precRelational},
	token.LtEq:     {ast.OpLe, precRelational},
	token.GtEq:     {ast.OpGe, precRelational},
	token.LtEqGt:   {ast.OpCompare, precRelational},
	token.LtLt:     {ast.OpShl, precShift},
	token.GtGt:     {ast.OpShr, precShift},
	token.Plus:     {ast.OpAdd, precAdditive},
	token.Minus:    {ast.OpSub, precAdditive},
	token.Star:     {ast.OpMul, precMultiplicative},
	token.Slash:    {ast.OpDiv, precMultiplicative},
	token.Percent:  {ast.OpMod, precMultiplicative},
}

// unaryOps maps a prefix token to the unary operator it spells.
var unaryOps = map[token.Kind]ast.OperatorKind{
	token.Minus: ast.OpNeg,
	token.Plus:  ast.OpPos,
	token.Bang:  ast.OpLogicalNot,
	token.Tilde: ast.OpBitNot,
}
