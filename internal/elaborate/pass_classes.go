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
)

// classCompletion is pass 3: every class body is partitioned into
// fields, base subobjects, static variables, methods, and nested types,
// in source order. Once Complete is set, layout queries (SizeOf,
// AlignOf, OffsetOf) are answerable for the class.
func (e *Elaborator) classCompletion(stmts []ast.Stmt) {
	e.eachDecl(stmts, e.completeDecl)
}

func (e *Elaborator) completeDecl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.ClassDecl:
		e.completeClass(n)
	case *ast.UnionDecl:
		for _, m := range n.Body {
			e.completeDecl(m)
		}
	case *ast.NamespaceDecl:
		for _, m := range n.Body {
			e.completeDecl(m)
		}
	case *ast.TemplateDecl:
		e.completeDecl(n.Parameterized)
	}
}

func (e *Elaborator) completeClass(d *ast.ClassDecl) {
	d.Fields = nil
	d.Bases = nil
	d.Statics = nil
	d.Methods = nil
	d.Nested = nil
	for _, m := range d.Body {
		switch md := m.(type) {
		case *ast.FieldDecl:
			d.Fields = append(d.Fields, md)
		case *ast.SuperDecl:
			d.Bases = append(d.Bases, md)
		case *ast.VariableDecl:
			d.Statics = append(d.Statics, md)
		case *ast.FunctionDecl:
			d.Methods = append(d.Methods, md)
		default:
			d.Nested = append(d.Nested, m)
			e.completeDecl(m)
		}
	}
	d.Complete = true
}
