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
	"fmt"

	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/diag"
)

// Conversions and initialization. A standard conversion sequence is at
// most: one value conversion, one promotion, one numeric conversion,
// one qualification conversion. User-defined conversions apply only
// during initialization, and boolean conversion reduces any scalar to
// bool.

func wrapConv(x ast.Expr, kind ast.ConversionKind, t ast.Type) ast.Expr {
	c := &ast.ConversionExpr{Source: x, Kind: kind}
	c.SetType(t)
	ast.SetLoc(c, x.Loc())
	return c
}

func isScalar(t ast.Type) bool {
	switch ast.Unqualified(t).(type) {
	case *ast.BoolType, *ast.ByteType, *ast.IntegerType, *ast.FloatType, *ast.PointerType, *ast.EnumType:
		return true
	default:
		return false
	}
}

func isInteger(t ast.Type) bool {
	switch ast.Unqualified(t).(type) {
	case *ast.BoolType, *ast.ByteType, *ast.IntegerType:
		return true
	default:
		return false
	}
}

func isFloat(t ast.Type) bool {
	_, ok := ast.Unqualified(t).(*ast.FloatType)
	return ok
}

// standardConvert builds the standard conversion sequence taking x to
// target, or reports why none exists.
func (e *Elaborator) standardConvert(x ast.Expr, target ast.Type) (ast.Expr, error) {
	src := x.Type()
	if src == nil {
		return nil, fmt.Errorf("expression has no type")
	}
	if ast.Equivalent(src, target) {
		return x, nil
	}
	usrc := ast.Unqualified(src)
	utgt := ast.Unqualified(target)

	// Qualification conversion alone: same underlying type, target
	// carries at least the source's qualifiers.
	if ast.Equivalent(usrc, utgt) {
		if ast.Quals(target)&ast.Quals(src) == ast.Quals(src) {
			return wrapConv(x, ast.ConvQualification, target), nil
		}
		return nil, fmt.Errorf("conversion would lose qualifiers")
	}

	// Boolean conversion: any scalar reduces to bool.
	if _, ok := utgt.(*ast.BoolType); ok {
		if isScalar(usrc) {
			return e.requalify(wrapConv(x, ast.ConvBoolean, utgt), target), nil
		}
		return nil, fmt.Errorf("cannot convert to bool")
	}

	switch {
	case isInteger(usrc) && isInteger(utgt):
		return e.requalify(wrapConv(x, ast.ConvIntegerPromotion, utgt), target), nil
	case isFloat(usrc) && isFloat(utgt):
		return e.requalify(wrapConv(x, ast.ConvFloatPromotion, utgt), target), nil
	case isInteger(usrc) && isFloat(utgt), isFloat(usrc) && isInteger(utgt):
		return e.requalify(wrapConv(x, ast.ConvNumeric, utgt), target), nil
	}
	return nil, fmt.Errorf("no conversion exists")
}

// requalify appends the trailing qualification-conversion step when the
// destination carries qualifiers the converted value lacks.
func (e *Elaborator) requalify(x ast.Expr, target ast.Type) ast.Expr {
	if ast.Equivalent(x.Type(), target) {
		return x
	}
	return wrapConv(x, ast.ConvQualification, target)
}

// referenceCompatible reports whether a reference to dst may bind
// directly to a value of src: equivalent unqualified types, with dst's
// qualifier set a superset of src's.
func referenceCompatible(dst, src ast.Type) bool {
	if !ast.Equivalent(ast.Unqualified(dst), ast.Unqualified(src)) {
		return false
	}
	return ast.Quals(dst)&ast.Quals(src) == ast.Quals(src)
}

// copyInitialize implements the `= e` form and argument passing: direct
// reference binding when compatible, and otherwise the standard
// conversion sequence wrapped in a copy-init node. A class-typed source
// initializes only a target of the same class; no user-defined
// conversion is searched.
func (e *Elaborator) copyInitialize(x ast.Expr, target ast.Type) (ast.Expr, error) {
	if agg, ok := x.(*ast.AggregateInitExpr); ok {
		return e.aggregateInitialize(agg, target)
	}
	src := x.Type()
	if src == nil {
		return nil, fmt.Errorf("initializer has no type")
	}

	if rt, ok := target.(*ast.ReferenceType); ok {
		if referenceCompatible(rt.Elem, src) {
			return x, nil
		}
		// Materialize a temporary of the referenced type and bind to it.
		conv, err := e.standardConvert(x, ast.Unqualified(rt.Elem))
		if err != nil {
			return nil, fmt.Errorf("cannot bind reference: %v", err)
		}
		init := &ast.CopyInitExpr{Source: conv, Target: target}
		init.SetType(target)
		ast.SetLoc(init, x.Loc())
		return init, nil
	}

	if _, ok := ast.Unqualified(src).(*ast.ClassType); ok {
		// A class-typed source admits only a user-defined conversion,
		// and no conversion operator catalogue exists for the class
		// unless the types already agree.
		if ast.Equivalent(ast.Unqualified(src), ast.Unqualified(target)) {
			init := &ast.CopyInitExpr{Source: x, Target: target}
			init.SetType(target)
			ast.SetLoc(init, x.Loc())
			return init, nil
		}
		return nil, fmt.Errorf("no user-defined conversion from class type")
	}

	conv, err := e.standardConvert(x, target)
	if err != nil {
		return nil, err
	}
	init := &ast.CopyInitExpr{Source: conv, Target: target}
	init.SetType(target)
	ast.SetLoc(init, x.Loc())
	return init, nil
}

// aggregateInitialize matches a brace-enclosed list against the fields
// of a class (or the elements of a tuple/array) in declaration order.
func (e *Elaborator) aggregateInitialize(agg *ast.AggregateInitExpr, target ast.Type) (ast.Expr, error) {
	var elemTypes []ast.Type
	switch t := ast.Unqualified(target).(type) {
	case *ast.ClassType:
		cd, ok := t.Decl.(*ast.ClassDecl)
		if !ok || !cd.Complete {
			return nil, fmt.Errorf("cannot aggregate-initialize an incomplete class")
		}
		for _, f := range cd.Fields {
			elemTypes = append(elemTypes, f.DeclaredType)
		}
	case *ast.TupleType:
		elemTypes = t.Elems
	case *ast.ArrayType:
		for range agg.Elems {
			elemTypes = append(elemTypes, t.Elem)
		}
	default:
		return nil, fmt.Errorf("type cannot be aggregate-initialized")
	}
	if len(agg.Elems) > len(elemTypes) {
		return nil, fmt.Errorf("too many initializers")
	}
	for i, x := range agg.Elems {
		conv, err := e.copyInitialize(x, elemTypes[i])
		if err != nil {
			return nil, err
		}
		agg.Elems[i] = conv
	}
	agg.Target = target
	agg.SetType(target)
	return agg, nil
}

// convertOrError applies copy-initialization, reporting a type error at
// x's location and aborting the enclosing elaboration on failure.
func (e *Elaborator) convertOrError(x ast.Expr, target ast.Type) ast.Expr {
	conv, err := e.copyInitialize(x, target)
	if err != nil {
		e.Errs.Errorf(diag.Type, x.Loc(), "%v", err)
		diag.Abort()
	}
	return conv
}

// ZeroInitialize builds the zero-initializer for t: a zero-valued
// literal for scalars, element-wise recursion for arrays, tuples, and
// classes. References cannot be zero-initialized.
func ZeroInitialize(arena *ast.Arena, t ast.Type) (ast.Expr, error) {
	switch n := ast.Unqualified(t).(type) {
	case *ast.BoolType:
		x := &ast.BoolLit{Value: false}
		x.SetType(n)
		return x, nil
	case *ast.ByteType, *ast.IntegerType, *ast.EnumType, *ast.PointerType:
		x := &ast.IntLit{Value: 0}
		x.SetType(ast.Unqualified(t))
		return x, nil
	case *ast.FloatType:
		x := &ast.RealLit{Value: 0}
		x.SetType(n)
		return x, nil
	case *ast.TupleType:
		agg := &ast.AggregateInitExpr{Target: t}
		agg.SetType(t)
		for _, et := range n.Elems {
			x, err := ZeroInitialize(arena, et)
			if err != nil {
				return nil, err
			}
			agg.Elems = append(agg.Elems, x)
		}
		return agg, nil
	case *ast.ArrayType:
		extent, ok := intConst(n.Extent)
		if !ok {
			return nil, fmt.Errorf("array extent is not a constant")
		}
		agg := &ast.AggregateInitExpr{Target: t}
		agg.SetType(t)
		for i := int64(0); i < extent; i++ {
			x, err := ZeroInitialize(arena, n.Elem)
			if err != nil {
				return nil, err
			}
			agg.Elems = append(agg.Elems, x)
		}
		return agg, nil
	case *ast.ClassType:
		cd, ok := n.Decl.(*ast.ClassDecl)
		if !ok || !cd.Complete {
			return nil, fmt.Errorf("cannot zero-initialize an incomplete class")
		}
		agg := &ast.AggregateInitExpr{Target: t}
		agg.SetType(t)
		for _, f := range cd.Fields {
			x, err := ZeroInitialize(arena, f.DeclaredType)
			if err != nil {
				return nil, err
			}
			agg.Elems = append(agg.Elems, x)
		}
		return agg, nil
	case *ast.ReferenceType:
		return nil, fmt.Errorf("a reference cannot be zero-initialized")
	default:
		return nil, fmt.Errorf("type cannot be zero-initialized")
	}
}

// DefaultInitialize builds the default-initializer for t: nil (trivial,
// value indeterminate) for scalars, field-wise recursion for classes
// that would invoke a synthesized default constructor. Tuples and arrays
// also yield nil: their elements are not visited, so a reference element
// inside one is not reported. References cannot be default-initialized.
func DefaultInitialize(arena *ast.Arena, t ast.Type) (ast.Expr, error) {
	switch n := ast.Unqualified(t).(type) {
	case *ast.ReferenceType:
		return nil, fmt.Errorf("a reference cannot be default-initialized")
	case *ast.ClassType:
		cd, ok := n.Decl.(*ast.ClassDecl)
		if !ok || !cd.Complete {
			return nil, fmt.Errorf("cannot default-initialize an incomplete class")
		}
		if userProvidedDefaultCtor(cd) != nil {
			// The synthesized call is left to the code-generator
			// collaborator; the initializer is represented field-wise
			// here.
			return nil, nil
		}
		agg := &ast.AggregateInitExpr{Target: t}
		agg.SetType(t)
		for _, f := range cd.Fields {
			x, err := DefaultInitialize(arena, f.DeclaredType)
			if err != nil {
				return nil, err
			}
			if x != nil {
				agg.Elems = append(agg.Elems, x)
			}
		}
		return agg, nil
	case *ast.TupleType, *ast.ArrayType:
		return nil, nil
	default:
		return nil, nil
	}
}

// ValueInitialize zero-initializes then default-initializes for types
// with no user-provided default constructor, and default-initializes
// otherwise.
func ValueInitialize(arena *ast.Arena, t ast.Type) (ast.Expr, error) {
	if ct, ok := ast.Unqualified(t).(*ast.ClassType); ok {
		if cd, ok := ct.Decl.(*ast.ClassDecl); ok && userProvidedDefaultCtor(cd) != nil {
			return DefaultInitialize(arena, t)
		}
	}
	return ZeroInitialize(arena, t)
}

// userProvidedDefaultCtor finds a user-written nullary method named
// after the class, if one exists.
func userProvidedDefaultCtor(cd *ast.ClassDecl) *ast.FunctionDecl {
	for _, m := range cd.Methods {
		if m.DeclName() != cd.DeclName() || len(objectParams(m)) != 0 {
			continue
		}
		if _, defaulted := m.Def.(*ast.DefaultedDef); defaulted {
			continue
		}
		return m
	}
	return nil
}
