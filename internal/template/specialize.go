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

package template

import (
	"fmt"

	"github.com/asutton/banjo-sub001/internal/ast"
)

// Specialize validates args against tmpl's parameter list (binding each
// parameter, applying defaults where an argument is missing, and
// requiring a type for a type parameter; a value argument is bound as
// written, not converted to its parameter's type) and substitutes to
// produce a specialized declaration. The declaration body is not yet
// instantiated — that happens on demand — so only the specialized
// signature (a VariableDecl's type, a FunctionDecl's parameter/return
// types) is built here; bodies stay as the template's own Def, reparsed
// against the specialization's own scope only when the code-generator
// collaborator actually instantiates it.
//
// Results are cached on tmpl.Specializations keyed by the substitution's
// canonical Key, so repeated uses of one template-id (e.g. `v<int>` used
// twice) return the identical specialized Decl.
func Specialize(arena *ast.Arena, tmpl *ast.TemplateDecl, args []ast.Node, loc ast.Node) (ast.Decl, error) {
	subst, err := BindArguments(tmpl, args)
	if err != nil {
		return nil, err
	}
	key := subst.Key()
	if tmpl.Specializations == nil {
		tmpl.Specializations = map[string]ast.Decl{}
	}
	if cached, ok := tmpl.Specializations[key]; ok {
		return cached, nil
	}
	spec := substituteDecl(arena, tmpl.Parameterized, subst)
	tmpl.Specializations[key] = spec
	return spec, nil
}

// BindArguments walks tmpl's parameter list positionally against args,
// binding each parameter to its argument (or default, if args ran out).
// Exported so callers can check the template's associated constraint
// against the same substitution before committing to a specialization.
func BindArguments(tmpl *ast.TemplateDecl, args []ast.Node) (*Substitution, error) {
	subst := New()
	for i, param := range tmpl.Params {
		var arg ast.Node
		switch {
		case i < len(args):
			arg = args[i]
		case paramDefault(param) != nil:
			arg = paramDefault(param)
		default:
			return nil, fmt.Errorf("missing template argument for parameter %d", i)
		}
		switch p := param.(type) {
		case *ast.TypeTemplateParamDecl:
			argType, ok := arg.(ast.Type)
			if !ok {
				return nil, fmt.Errorf("template argument %d must be a type", i)
			}
			subst.Bind(p, argType)
		case *ast.ValueTemplateParamDecl:
			subst.Bind(p, arg)
		case *ast.TemplateTemplateParamDecl:
			subst.Bind(p, arg)
		}
	}
	if subst.Failed {
		return nil, fmt.Errorf("inconsistent template arguments")
	}
	return subst, nil
}

func paramDefault(d ast.Decl) ast.Node {
	switch p := d.(type) {
	case *ast.TypeTemplateParamDecl:
		if p.Default != nil {
			return p.Default
		}
	case *ast.ValueTemplateParamDecl:
		if p.Default != nil {
			return p.Default
		}
	}
	return nil
}

// substituteDecl produces a shallow, type-substituted clone of the
// templated declaration. Templated variables, constants, and functions
// are cloned in full; any other declaration category substitutes only
// its declared type, which is sufficient for the Type query every
// specialization must answer.
func substituteDecl(arena *ast.Arena, d ast.Decl, subst *Substitution) ast.Decl {
	switch v := d.(type) {
	case *ast.VariableDecl:
		clone := *v
		clone.DeclaredType = Substitute(arena, v.DeclaredType, subst)
		clone.SetType(clone.DeclaredType)
		return &clone
	case *ast.FunctionDecl:
		clone := *v
		clone.ReturnType = Substitute(arena, v.ReturnType, subst)
		params := make([]ast.Decl, len(v.Params))
		for i, p := range v.Params {
			params[i] = substituteParam(arena, p, subst)
		}
		clone.Params = params
		paramTypes := make([]ast.Type, 0, len(params))
		for _, p := range params {
			if op, ok := p.(*ast.ObjectParamDecl); ok {
				paramTypes = append(paramTypes, op.DeclaredType)
			}
		}
		clone.SetType(arena.Types.Function(paramTypes, clone.ReturnType))
		return &clone
	case *ast.ConstantDecl:
		clone := *v
		clone.DeclaredType = Substitute(arena, v.DeclaredType, subst)
		clone.SetType(clone.DeclaredType)
		return &clone
	default:
		return d
	}
}

func substituteParam(arena *ast.Arena, d ast.Decl, subst *Substitution) ast.Decl {
	if p, ok := d.(*ast.ObjectParamDecl); ok {
		clone := *p
		clone.DeclaredType = Substitute(arena, p.DeclaredType, subst)
		clone.SetType(clone.DeclaredType)
		return &clone
	}
	return d
}
