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
	"github.com/asutton/banjo-sub001/internal/parser"
	"github.com/asutton/banjo-sub001/internal/scope"
)

// declarationTypes is pass 1: every declaration's deferred type span is
// reparsed against the scope it was captured in, and the declaration's
// canonical type is built through the type factory. After this pass
// every non-template declaration answers Type() with a node containing
// no unparsed regions.
func (e *Elaborator) declarationTypes(stmts []ast.Stmt) {
	e.eachDecl(stmts, func(d ast.Decl) { e.declType(d, e.Global) })
}

// resolveType reparses t if it is a deferred span, using s as the scope
// in effect; an already-parsed type passes through untouched.
func (e *Elaborator) resolveType(t ast.Type, s *scope.Scope) ast.Type {
	ut, ok := t.(*ast.UnparsedType)
	if !ok {
		return t
	}
	pr := parser.Reopen(e.Arena, e.Errs, ut.Tokens, s)
	return pr.ParseType()
}

func (e *Elaborator) declType(d ast.Decl, s *scope.Scope) {
	switch n := d.(type) {
	case *ast.VariableDecl:
		n.DeclaredType = e.resolveType(n.DeclaredType, s)
		n.SetType(n.DeclaredType)

	case *ast.ConstantDecl:
		if n.DeclaredType != nil {
			n.DeclaredType = e.resolveType(n.DeclaredType, s)
			n.SetType(n.DeclaredType)
		}

	case *ast.FieldDecl:
		n.DeclaredType = e.resolveType(n.DeclaredType, s)
		n.SetType(n.DeclaredType)

	case *ast.SuperDecl:
		n.SetType(e.resolveType(n.Type(), s))

	case *ast.FunctionDecl:
		var paramTypes []ast.Type
		for _, prm := range n.Params {
			if op, ok := prm.(*ast.ObjectParamDecl); ok {
				op.DeclaredType = e.resolveType(op.DeclaredType, n.ParamScope)
				op.SetType(op.DeclaredType)
				paramTypes = append(paramTypes, op.DeclaredType)
			}
			// A variadic parameter contributes no type; the ellipsis
			// conversion covers its arguments at each call site.
		}
		n.ReturnType = e.resolveType(n.ReturnType, n.ParamScope)
		n.SetType(e.Arena.Types.Function(paramTypes, n.ReturnType))

	case *ast.ClassDecl:
		if n.Metatype != nil {
			n.Metatype = e.resolveType(n.Metatype, s)
		}
		n.SetType(e.Arena.Types.TypeOfTypes())
		for _, m := range n.Body {
			m := m
			e.guard(func() { e.declType(m, n.Scope) })
		}

	case *ast.UnionDecl:
		n.SetType(e.Arena.Types.TypeOfTypes())
		for _, m := range n.Body {
			m := m
			e.guard(func() { e.declType(m, n.Scope) })
		}

	case *ast.EnumDecl:
		n.SetType(e.Arena.Types.TypeOfTypes())
		et := e.Arena.Types.Enum(n)
		for _, entry := range n.Entries {
			entry.Const.DeclaredType = et
			entry.Const.SetType(et)
		}

	case *ast.NamespaceDecl:
		n.SetType(e.Arena.Types.Void())
		for _, m := range n.Body {
			m := m
			e.guard(func() { e.declType(m, n.Scope) })
		}

	case *ast.TemplateDecl:
		for _, prm := range n.Params {
			if vp, ok := prm.(*ast.ValueTemplateParamDecl); ok {
				vp.DeclaredType = e.resolveType(vp.DeclaredType, n.ParamScope)
				vp.SetType(vp.DeclaredType)
			}
		}
		e.declType(n.Parameterized, n.ParamScope)
		n.SetType(n.Parameterized.Type())

	case *ast.ConceptDecl:
		for _, prm := range n.Params {
			if vp, ok := prm.(*ast.ValueTemplateParamDecl); ok {
				vp.DeclaredType = e.resolveType(vp.DeclaredType, n.ParamScope)
				vp.SetType(vp.DeclaredType)
			}
		}
		n.SetType(e.Arena.Types.Bool())

	case *ast.AxiomDecl:
		for _, prm := range n.Params {
			if op, ok := prm.(*ast.ObjectParamDecl); ok {
				op.DeclaredType = e.resolveType(op.DeclaredType, n.ParamScope)
				op.SetType(op.DeclaredType)
			}
		}
		n.SetType(e.Arena.Types.Void())

	case *ast.ObjectParamDecl:
		n.DeclaredType = e.resolveType(n.DeclaredType, s)
		n.SetType(n.DeclaredType)

	case *ast.VariadicParamDecl, *ast.TypeTemplateParamDecl, *ast.TemplateTemplateParamDecl:
		// Nothing to resolve: type/template parameters had their kind
		// set at parse time; a variadic parameter has no type at all.

	case *ast.ValueTemplateParamDecl:
		n.DeclaredType = e.resolveType(n.DeclaredType, s)
		n.SetType(n.DeclaredType)

	default:
		e.Errs.Errorf(diag.Internal, d.Loc(), "unhandled declaration in pass 1")
		diag.Abort()
	}
}
