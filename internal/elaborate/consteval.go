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

package elaborate

import "github.com/asutton/banjo-sub001/internal/ast"

// Eval is the compile-time evaluator pass 4 runs over a constant's
// initializer. It handles the integer/boolean fragment
// the language's constant expressions actually use; anything else
// reports not-constant rather than guessing.
func Eval(x ast.Expr) (*ast.ConstValue, bool) {
	switch n := x.(type) {
	case *ast.IntLit:
		return &ast.ConstValue{IsInt: true, Int: n.Value}, true
	case *ast.BoolLit:
		return &ast.ConstValue{IsBool: true, Bool: n.Value}, true
	case *ast.IdentExpr:
		if cd, ok := n.Resolved.(*ast.ConstantDecl); ok && cd.Value != nil {
			return cd.Value, true
		}
		return nil, false
	case *ast.ConversionExpr:
		return Eval(n.Source)
	case *ast.CopyInitExpr:
		return Eval(n.Source)
	case *ast.UnaryExpr:
		return evalUnary(n)
	case *ast.BinaryExpr:
		return evalBinary(n)
	default:
		return nil, false
	}
}

func evalUnary(n *ast.UnaryExpr) (*ast.ConstValue, bool) {
	v, ok := Eval(n.Operand)
	if !ok {
		return nil, false
	}
	switch n.Op {
	case ast.OpNeg:
		if v.IsInt {
			return &ast.ConstValue{IsInt: true, Int: -v.Int}, true
		}
	case ast.OpPos:
		if v.IsInt {
			return v, true
		}
	case ast.OpBitNot:
		if v.IsInt {
			return &ast.ConstValue{IsInt: true, Int: ^v.Int}, true
		}
	case ast.OpLogicalNot:
		if v.IsBool {
			return &ast.ConstValue{IsBool: true, Bool: !v.Bool}, true
		}
	}
	return nil, false
}

func evalBinary(n *ast.BinaryExpr) (*ast.ConstValue, bool) {
	l, ok := Eval(n.LHS)
	if !ok {
		return nil, false
	}
	// Short-circuit operators evaluate the right side lazily.
	switch n.Op {
	case ast.OpLogicalAnd:
		if !l.IsBool {
			return nil, false
		}
		if !l.Bool {
			return &ast.ConstValue{IsBool: true, Bool: false}, true
		}
		r, ok := Eval(n.RHS)
		if !ok || !r.IsBool {
			return nil, false
		}
		return &ast.ConstValue{IsBool: true, Bool: r.Bool}, true
	case ast.OpLogicalOr:
		if !l.IsBool {
			return nil, false
		}
		if l.Bool {
			return &ast.ConstValue{IsBool: true, Bool: true}, true
		}
		r, ok := Eval(n.RHS)
		if !ok || !r.IsBool {
			return nil, false
		}
		return &ast.ConstValue{IsBool: true, Bool: r.Bool}, true
	}

	r, ok := Eval(n.RHS)
	if !ok {
		return nil, false
	}
	if l.IsInt && r.IsInt {
		return evalIntOp(n.Op, l.Int, r.Int)
	}
	if l.IsBool && r.IsBool {
		switch n.Op {
		case ast.OpEq:
			return &ast.ConstValue{IsBool: true, Bool: l.Bool == r.Bool}, true
		case ast.OpNe:
			return &ast.ConstValue{IsBool: true, Bool: l.Bool != r.Bool}, true
		}
	}
	return nil, false
}

func evalIntOp(op ast.OperatorKind, l, r int64) (*ast.ConstValue, bool) {
	intVal := func(v int64) (*ast.ConstValue, bool) {
		return &ast.ConstValue{IsInt: true, Int: v}, true
	}
	boolVal := func(v bool) (*ast.ConstValue, bool) {
		return &ast.ConstValue{IsBool: true, Bool: v}, true
	}
	switch op {
	case ast.OpAdd:
		return intVal(l + r)
	case ast.OpSub:
		return intVal(l - r)
	case ast.OpMul:
		return intVal(l * r)
	case ast.OpDiv:
		if r == 0 {
			return nil, false
		}
		return intVal(l / r)
	case ast.OpMod:
		if r == 0 {
			return nil, false
		}
		return intVal(l % r)
	case ast.OpBitAnd:
		return intVal(l & r)
	case ast.OpBitOr:
		return intVal(l | r)
	case ast.OpBitXor:
		return intVal(l ^ r)
	case ast.OpShl:
		if r < 0 || r >= 64 {
			return nil, false
		}
		return intVal(l << uint(r))
	case ast.OpShr:
		if r < 0 || r >= 64 {
			return nil, false
		}
		return intVal(l >> uint(r))
	case ast.OpEq:
		return boolVal(l == r)
	case ast.OpNe:
		return boolVal(l != r)
	case ast.OpLt:
		return boolVal(l < r)
	case ast.OpGt:
		return boolVal(l > r)
	case ast.OpLe:
		return boolVal(l <= r)
	case ast.OpGe:
		return boolVal(l >= r)
	case ast.OpCompare:
		switch {
		case l < r:
			return intVal(-1)
		case l > r:
			return intVal(1)
		default:
			return intVal(0)
		}
	}
	return nil, false
}
