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

import (
	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/diag"
	"github.com/asutton/banjo-sub001/internal/scope"
)

// typeExpr computes and stamps x's type, bottom-up, so that every
// expression carries its computed type. Expressions inside constrained
// contexts may mention template parameters; such dependent positions
// type as the parameter's placeholder type and skip conversion checks,
// since their real types only exist per specialization.
func (e *Elaborator) typeExpr(x ast.Expr, s *scope.Scope) ast.Type {
	switch n := x.(type) {
	case *ast.BoolLit:
		n.SetType(e.Arena.Types.Bool())
	case *ast.IntLit:
		n.SetType(e.Arena.Types.Integer(true, 32))
	case *ast.RealLit:
		n.SetType(e.Arena.Types.Float(64))

	case *ast.IdentExpr:
		e.typeIdent(n, s)

	case *ast.UnaryExpr:
		e.typeUnary(n, s)

	case *ast.BinaryExpr:
		e.typeBinary(n, s)

	case *ast.CallExpr:
		e.typeCall(n, s)

	case *ast.AccessExpr:
		e.typeAccess(n, s)

	case *ast.TupleExpr:
		var elems []ast.Type
		for _, el := range n.Elems {
			elems = append(elems, e.typeExpr(el, s))
		}
		n.SetType(e.Arena.Types.Tuple(elems))

	case *ast.RequiresExpr:
		inner := n.Scope
		if inner == nil {
			inner = s
		}
		for _, r := range n.Requirements {
			r := r
			e.guard(func() { e.typeRequirement(r, inner) })
		}
		n.SetType(e.Arena.Types.Bool())

	case *ast.ConversionExpr, *ast.CopyInitExpr, *ast.AggregateInitExpr:
		// Typed at construction by the conversion machinery.

	case *ast.UnparsedExpr:
		e.Errs.Errorf(diag.Internal, n.Loc(), "unparsed expression reached typing")
		diag.Abort()

	default:
		e.Errs.Errorf(diag.Internal, x.Loc(), "unhandled expression in pass 4")
		diag.Abort()
	}
	return x.Type()
}

func (e *Elaborator) typeIdent(n *ast.IdentExpr, s *scope.Scope) {
	if _, isConcept := n.Name.(*ast.ConceptIdent); isConcept {
		n.SetType(e.Arena.Types.Bool())
		return
	}
	if n.Resolved == nil {
		set := scope.UnqualifiedLookup(s, ast.NameString(n.Name))
		if set == nil {
			e.Errs.Errorf(diag.Lookup, n.Loc(), "'%s' does not name a declaration", ast.NameString(n.Name))
			diag.Abort()
		}
		if len(set.Entries) > 1 {
			// An overload set used outside a call has no single type;
			// the enclosing call resolves it instead.
			return
		}
		n.Resolved, _ = set.Entries[0].(ast.Decl)
	}
	if n.Resolved == nil || n.Resolved.Type() == nil {
		e.Errs.Errorf(diag.Lookup, n.Loc(), "'%s' has no elaborated type", ast.NameString(n.Name))
		diag.Abort()
	}
	n.SetType(n.Resolved.Type())
}

func (e *Elaborator) typeUnary(n *ast.UnaryExpr, s *scope.Scope) {
	t := e.typeExpr(n.Operand, s)
	if isDependent(t) {
		n.SetType(t)
		return
	}
	switch n.Op {
	case ast.OpNeg, ast.OpPos:
		if !isInteger(t) && !isFloat(t) {
			e.Errs.Errorf(diag.Type, n.Loc(), "operand of unary %s is not numeric", opName(n.Op))
			diag.Abort()
		}
		n.SetType(ast.Unqualified(t))
	case ast.OpBitNot:
		if !isInteger(t) {
			e.Errs.Errorf(diag.Type, n.Loc(), "operand of '~' is not an integer")
			diag.Abort()
		}
		n.SetType(ast.Unqualified(t))
	case ast.OpLogicalNot:
		n.Operand = e.ensureBool(n.Operand)
		n.SetType(e.Arena.Types.Bool())
	default:
		e.Errs.Errorf(diag.Internal, n.Loc(), "unhandled unary operator")
		diag.Abort()
	}
}

func (e *Elaborator) typeBinary(n *ast.BinaryExpr, s *scope.Scope) {
	lt := e.typeExpr(n.LHS, s)
	rt := e.typeExpr(n.RHS, s)
	if isDependent(lt) || isDependent(rt) {
		if isDependent(lt) {
			n.SetType(lt)
		} else {
			n.SetType(rt)
		}
		return
	}
	switch n.Op {
	case ast.OpLogicalAnd, ast.OpLogicalOr:
		n.LHS = e.ensureBool(n.LHS)
		n.RHS = e.ensureBool(n.RHS)
		n.SetType(e.Arena.Types.Bool())

	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		e.usualArithmetic(n)
		n.SetType(e.Arena.Types.Bool())

	case ast.OpCompare:
		e.usualArithmetic(n)
		n.SetType(e.Arena.Types.Integer(true, 32))

	case ast.OpShl, ast.OpShr:
		if !isInteger(lt) || !isInteger(rt) {
			e.Errs.Errorf(diag.Type, n.Loc(), "shift operands must be integers")
			diag.Abort()
		}
		n.SetType(ast.Unqualified(lt))

	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		if !isInteger(lt) || !isInteger(rt) {
			e.Errs.Errorf(diag.Type, n.Loc(), "bitwise operands must be integers")
			diag.Abort()
		}
		n.SetType(e.usualArithmetic(n))

	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		n.SetType(e.usualArithmetic(n))

	default:
		e.Errs.Errorf(diag.Internal, n.Loc(), "unhandled binary operator")
		diag.Abort()
	}
}

// usualArithmetic converts both operands of n to their common
// arithmetic type and returns it.
func (e *Elaborator) usualArithmetic(n *ast.BinaryExpr) ast.Type {
	lt, rt := n.LHS.Type(), n.RHS.Type()
	common := commonArithmetic(e.Arena, lt, rt)
	if common == nil {
		e.Errs.Errorf(diag.Type, n.Loc(), "operands have no common arithmetic type")
		diag.Abort()
	}
	if !ast.Equivalent(ast.Unqualified(lt), common) {
		conv, err := e.standardConvert(n.LHS, common)
		if err != nil {
			e.Errs.Errorf(diag.Type, n.Loc(), "%v", err)
			diag.Abort()
		}
		n.LHS = conv
	}
	if !ast.Equivalent(ast.Unqualified(rt), common) {
		conv, err := e.standardConvert(n.RHS, common)
		if err != nil {
			e.Errs.Errorf(diag.Type, n.Loc(), "%v", err)
			diag.Abort()
		}
		n.RHS = conv
	}
	return common
}

// commonArithmetic computes the usual-arithmetic-conversion result of
// two scalar types: float beats integer, wider beats narrower, and an
// unsigned operand as wide as the result makes the result unsigned.
func commonArithmetic(arena *ast.Arena, l, r ast.Type) ast.Type {
	ul, ur := ast.Unqualified(l), ast.Unqualified(r)
	if isFloat(ul) || isFloat(ur) {
		prec := 32
		if ft, ok := ul.(*ast.FloatType); ok && ft.Precision > prec {
			prec = ft.Precision
		}
		if ft, ok := ur.(*ast.FloatType); ok && ft.Precision > prec {
			prec = ft.Precision
		}
		if isInteger(ul) || isInteger(ur) || (isFloat(ul) && isFloat(ur)) {
			return arena.Types.Float(prec)
		}
		return nil
	}
	if !isInteger(ul) || !isInteger(ur) {
		return nil
	}
	signed, prec := true, 32
	for _, t := range []ast.Type{ul, ur} {
		if it, ok := t.(*ast.IntegerType); ok && it.Precision > prec {
			prec = it.Precision
		}
	}
	for _, t := range []ast.Type{ul, ur} {
		if it, ok := t.(*ast.IntegerType); ok && !it.Signed && it.Precision >= prec {
			signed = false
		}
	}
	return arena.Types.Integer(signed, prec)
}

func (e *Elaborator) typeCall(c *ast.CallExpr, s *scope.Scope) {
	for _, a := range c.Args {
		e.typeExpr(a, s)
	}
	id, ok := c.Target.(*ast.IdentExpr)
	if ok && id.Resolved == nil {
		if _, isConcept := id.Name.(*ast.ConceptIdent); !isConcept {
			e.resolveCall(c, id, s)
			return
		}
	}
	if ok {
		switch target := id.Resolved.(type) {
		case *ast.FunctionDecl:
			cand, viable := e.tryCandidate(target, c.Args, false)
			if !viable {
				e.Errs.Errorf(diag.Overload, c.Loc(), "no viable candidate for call to '%s'", target.DeclName())
				diag.Abort()
			}
			id.SetType(target.Type())
			c.Args = cand.conv
			c.SetType(target.ReturnType)
			return
		case *ast.TemplateDecl:
			spec := e.deduceFunctionTemplate(target, c.Args)
			if spec == nil {
				e.Errs.Errorf(diag.Constraint, c.Loc(), "cannot deduce template arguments for '%s'", target.DeclName())
				diag.Abort()
			}
			id.Resolved = spec
			e.typeCall(c, s)
			return
		}
	}
	// Calling through a value of function type.
	t := e.typeExpr(c.Target, s)
	ft, isFn := ast.Unqualified(t).(*ast.FunctionType)
	if !isFn {
		e.Errs.Errorf(diag.Type, c.Loc(), "called expression is not a function")
		diag.Abort()
	}
	if len(c.Args) != len(ft.Params) {
		e.Errs.Errorf(diag.Type, c.Loc(), "wrong number of arguments")
		diag.Abort()
	}
	for i, a := range c.Args {
		c.Args[i] = e.convertOrError(a, ft.Params[i])
	}
	c.SetType(ft.Return)
}

func (e *Elaborator) typeAccess(n *ast.AccessExpr, s *scope.Scope) {
	t := e.typeExpr(n.Object, s)
	if isDependent(t) {
		n.SetType(t)
		return
	}
	ct, ok := ast.Unqualified(t).(*ast.ClassType)
	if !ok {
		e.Errs.Errorf(diag.Type, n.Loc(), "member access on a non-class value")
		diag.Abort()
	}
	cd, _ := ct.Decl.(*ast.ClassDecl)
	if cd == nil {
		e.Errs.Errorf(diag.Internal, n.Loc(), "class type without declaration")
		diag.Abort()
	}
	set := scope.QualifiedLookup(cd.Scope, ast.NameString(n.Member))
	if set == nil {
		e.Errs.Errorf(diag.Lookup, n.Loc(), "'%s' is not a member of '%s'", ast.NameString(n.Member), cd.DeclName())
		diag.Abort()
	}
	if len(set.Entries) != 1 {
		e.Errs.Errorf(diag.Overload, n.Loc(), "member '%s' is ambiguous", ast.NameString(n.Member))
		diag.Abort()
	}
	md, _ := set.Entries[0].(ast.Decl)
	if md == nil || md.Type() == nil {
		e.Errs.Errorf(diag.Lookup, n.Loc(), "member '%s' has no elaborated type", ast.NameString(n.Member))
		diag.Abort()
	}
	n.SetType(md.Type())
}

// ensureBool applies the boolean conversion only when the operand
// isn't already bool, so a bool-valued atom (a literal, a
// concept check) keeps its shape for later normalization.
func (e *Elaborator) ensureBool(x ast.Expr) ast.Expr {
	if _, ok := ast.Unqualified(x.Type()).(*ast.BoolType); ok {
		return x
	}
	return e.convertOrError(x, e.Arena.Types.Bool())
}

// isDependent reports whether t mentions a template parameter anywhere
// in its structure.
func isDependent(t ast.Type) bool {
	switch n := t.(type) {
	case nil:
		return false
	case *ast.TypenameType:
		return true
	case *ast.PointerType:
		return isDependent(n.Elem)
	case *ast.ReferenceType:
		return isDependent(n.Elem)
	case *ast.QualifiedType:
		return isDependent(n.Inner)
	case *ast.ArrayType:
		return isDependent(n.Elem)
	case *ast.TupleType:
		for _, el := range n.Elems {
			if isDependent(el) {
				return true
			}
		}
		return false
	case *ast.FunctionType:
		for _, p := range n.Params {
			if isDependent(p) {
				return true
			}
		}
		return isDependent(n.Return)
	default:
		return false
	}
}

func opName(op ast.OperatorKind) string {
	switch op {
	case ast.OpNeg:
		return "-"
	case ast.OpPos:
		return "+"
	default:
		return "?"
	}
}
