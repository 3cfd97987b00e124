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

package ast

import "github.com/asutton/banjo-sub001/internal/token"

// SetLoc stamps n's source location. Factories below do this themselves;
// the parser uses it for nodes it builds with plain composite literals
// (expressions, statements), whose location field is otherwise
// inaccessible outside this package.
func SetLoc(n Node, l token.Location) {
	type locSetter interface{ setLoc(token.Location) }
	if s, ok := n.(locSetter); ok {
		s.setLoc(l)
	}
}

// The declaration factory: one constructor per declaration variant,
// each emitting a fresh node per call — declarations carry no
// structural identity, so nothing here is hash-consed. Each stamps the
// common header: location, specifier set, and declared name.

func (a *Arena) header(loc token.Location, spec SpecifierSet, name Name) declBase {
	d := declBase{spec: spec, name: name}
	d.setLoc(loc)
	return d
}

func (a *Arena) Variable(loc token.Location, spec SpecifierSet, name Name, t Type, def Def) *VariableDecl {
	return &VariableDecl{declBase: a.header(loc, spec, name), DeclaredType: t, Def: def}
}

func (a *Arena) Field(loc token.Location, spec SpecifierSet, name Name, t Type, dflt Expr) *FieldDecl {
	return &FieldDecl{declBase: a.header(loc, spec, name), DeclaredType: t, Default: dflt}
}

func (a *Arena) Constant(loc token.Location, spec SpecifierSet, name Name, t Type, def Def) *ConstantDecl {
	return &ConstantDecl{declBase: a.header(loc, spec, name), DeclaredType: t, Def: def}
}

// Super builds a base-subobject declaration; the base class type is the
// declaration's own type.
func (a *Arena) Super(loc token.Location, spec SpecifierSet, base Type) *SuperDecl {
	d := &SuperDecl{declBase: a.header(loc, spec, &BaseName{})}
	d.SetType(base)
	return d
}

func (a *Arena) Function(loc token.Location, spec SpecifierSet, name Name, params []Decl, ret Type, def Def) *FunctionDecl {
	return &FunctionDecl{declBase: a.header(loc, spec, name), Params: params, ReturnType: ret, Def: def}
}

func (a *Arena) Class(loc token.Location, spec SpecifierSet, name Name) *ClassDecl {
	return &ClassDecl{declBase: a.header(loc, spec, name)}
}

func (a *Arena) Enum(loc token.Location, spec SpecifierSet, name Name) *EnumDecl {
	return &EnumDecl{declBase: a.header(loc, spec, name)}
}

func (a *Arena) Union(loc token.Location, spec SpecifierSet, name Name) *UnionDecl {
	return &UnionDecl{declBase: a.header(loc, spec, name)}
}

func (a *Arena) Namespace(loc token.Location, spec SpecifierSet, name Name) *NamespaceDecl {
	return &NamespaceDecl{declBase: a.header(loc, spec, name)}
}

func (a *Arena) Template(loc token.Location, spec SpecifierSet, name Name, params []Decl, inner Decl) *TemplateDecl {
	return &TemplateDecl{declBase: a.header(loc, spec, name), Params: params, Parameterized: inner}
}

func (a *Arena) Concept(loc token.Location, spec SpecifierSet, name Name, params []Decl, def Def) *ConceptDecl {
	return &ConceptDecl{declBase: a.header(loc, spec, name), Params: params, Def: def}
}

func (a *Arena) Axiom(loc token.Location, spec SpecifierSet, name Name, params []Decl, def Def) *AxiomDecl {
	return &AxiomDecl{declBase: a.header(loc, spec, name), Params: params, Def: def}
}

func (a *Arena) VariadicParam(loc token.Location, name Name) *VariadicParamDecl {
	return &VariadicParamDecl{declBase: a.header(loc, 0, name)}
}

func (a *Arena) ObjectParam(loc token.Location, spec SpecifierSet, name Name, t Type) *ObjectParamDecl {
	return &ObjectParamDecl{declBase: a.header(loc, spec, name), DeclaredType: t}
}

func (a *Arena) ValueTemplateParam(loc token.Location, name Name, t Type, dflt Expr) *ValueTemplateParamDecl {
	return &ValueTemplateParamDecl{declBase: a.header(loc, 0, name), DeclaredType: t, Default: dflt}
}

func (a *Arena) TypeTemplateParam(loc token.Location, name Name, dflt Type) *TypeTemplateParamDecl {
	return &TypeTemplateParamDecl{declBase: a.header(loc, 0, name), Default: dflt}
}

func (a *Arena) TemplateTemplateParam(loc token.Location, name Name, params []Decl) *TemplateTemplateParamDecl {
	return &TemplateTemplateParamDecl{declBase: a.header(loc, 0, name), Params: params}
}
