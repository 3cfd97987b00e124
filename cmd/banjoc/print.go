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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/compiler"
)

// printUnit writes a readable rendering of the elaborated tree — an
// approximation for humans, not a round-trippable inverse of the
// grammar.
func printUnit(w io.Writer, unit *compiler.Unit) {
	fmt.Fprintf(w, "// %s\n", unit.Path)
	for _, s := range unit.Stmts {
		if ds, ok := s.(*ast.DeclStmt); ok {
			printDecl(w, ds.Decl, 0)
		}
	}
}

func indent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat("  ", depth))
}

func printDecl(w io.Writer, d ast.Decl, depth int) {
	indent(w, depth)
	switch n := d.(type) {
	case *ast.VariableDecl:
		fmt.Fprintf(w, "var %s : %s", n.DeclName(), typeString(n.Type()))
		if n.Init != nil {
			fmt.Fprintf(w, " = %s", exprString(n.Init))
		}
		fmt.Fprintln(w, ";")
	case *ast.ConstantDecl:
		fmt.Fprintf(w, "const %s : %s", n.DeclName(), typeString(n.Type()))
		if n.Value != nil {
			if n.Value.IsInt {
				fmt.Fprintf(w, " = %d", n.Value.Int)
			} else if n.Value.IsBool {
				fmt.Fprintf(w, " = %v", n.Value.Bool)
			}
		}
		fmt.Fprintln(w, ";")
	case *ast.FieldDecl:
		fmt.Fprintf(w, "var %s : %s;\n", n.DeclName(), typeString(n.Type()))
	case *ast.SuperDecl:
		fmt.Fprintf(w, "super : %s;\n", typeString(n.Type()))
	case *ast.FunctionDecl:
		fmt.Fprintf(w, "def %s : %s", n.DeclName(), typeString(n.Type()))
		switch def := n.Def.(type) {
		case *ast.DeletedDef:
			fmt.Fprintln(w, " = delete;")
		case *ast.DefaultedDef:
			fmt.Fprintln(w, " = default;")
		case *ast.FunctionDef:
			fmt.Fprintln(w)
			printStmt(w, def.Body, depth+1)
		default:
			fmt.Fprintln(w, ";")
		}
	case *ast.ClassDecl:
		fmt.Fprintf(w, "class %s {\n", n.DeclName())
		for _, m := range n.Body {
			printDecl(w, m, depth+1)
		}
		indent(w, depth)
		fmt.Fprintln(w, "}")
	case *ast.UnionDecl:
		fmt.Fprintf(w, "union %s {\n", n.DeclName())
		for _, m := range n.Body {
			printDecl(w, m, depth+1)
		}
		indent(w, depth)
		fmt.Fprintln(w, "}")
	case *ast.EnumDecl:
		fmt.Fprintf(w, "enum %s {", n.DeclName())
		for i, entry := range n.Entries {
			if i > 0 {
				io.WriteString(w, ",")
			}
			fmt.Fprintf(w, " %s", ast.NameString(entry.Name))
			if entry.Const != nil && entry.Const.Value != nil {
				fmt.Fprintf(w, " = %d", entry.Const.Value.Int)
			}
		}
		fmt.Fprintln(w, " }")
	case *ast.NamespaceDecl:
		fmt.Fprintf(w, "namespace %s {\n", n.DeclName())
		for _, m := range n.Body {
			printDecl(w, m, depth+1)
		}
		indent(w, depth)
		fmt.Fprintln(w, "}")
	case *ast.TemplateDecl:
		fmt.Fprintf(w, "template <%d params>\n", len(n.Params))
		printDecl(w, n.Parameterized, depth+1)
	case *ast.ConceptDecl:
		fmt.Fprintf(w, "concept %s<%d params>;\n", n.DeclName(), len(n.Params))
	case *ast.AxiomDecl:
		fmt.Fprintf(w, "axiom %s(%d params);\n", n.DeclName(), len(n.Params))
	default:
		fmt.Fprintf(w, "%T %s;\n", d, d.DeclName())
	}
}

func printStmt(w io.Writer, s ast.Stmt, depth int) {
	indent(w, depth)
	switch n := s.(type) {
	case *ast.CompoundStmt:
		fmt.Fprintln(w, "{")
		for _, c := range n.Statements {
			printStmt(w, c, depth+1)
		}
		indent(w, depth)
		fmt.Fprintln(w, "}")
	case *ast.ExprStmt:
		fmt.Fprintf(w, "%s;\n", exprString(n.Expr))
	case *ast.DeclStmt:
		fmt.Fprintln(w)
		printDecl(w, n.Decl, depth)
	case *ast.ReturnStmt:
		if n.Value != nil {
			fmt.Fprintf(w, "return %s;\n", exprString(n.Value))
		} else {
			fmt.Fprintln(w, "return;")
		}
	case *ast.YieldStmt:
		if n.Value != nil {
			fmt.Fprintf(w, "yield %s;\n", exprString(n.Value))
		} else {
			fmt.Fprintln(w, "yield;")
		}
	case *ast.IfStmt:
		fmt.Fprintf(w, "if (%s)\n", exprString(n.Cond))
		printStmt(w, n.Then, depth+1)
		if n.Else != nil {
			indent(w, depth)
			fmt.Fprintln(w, "else")
			printStmt(w, n.Else, depth+1)
		}
	case *ast.WhileStmt:
		fmt.Fprintf(w, "while (%s)\n", exprString(n.Cond))
		printStmt(w, n.Body, depth+1)
	case *ast.BreakStmt:
		fmt.Fprintln(w, "break;")
	case *ast.ContinueStmt:
		fmt.Fprintln(w, "continue;")
	case *ast.EmptyStmt:
		fmt.Fprintln(w, ";")
	default:
		fmt.Fprintf(w, "%T;\n", s)
	}
}

var opSpellings = map[ast.OperatorKind]string{
	ast.OpAdd: "+", ast.OpSub: "-", ast.OpMul: "*", ast.OpDiv: "/", ast.OpMod: "%",
	ast.OpBitAnd: "&", ast.OpBitOr: "|", ast.OpBitXor: "^", ast.OpBitNot: "~",
	ast.OpShl: "<<", ast.OpShr: ">>",
	ast.OpEq: "==", ast.OpNe: "!=", ast.OpLt: "<", ast.OpGt: ">",
	ast.OpLe: "<=", ast.OpGe: ">=", ast.OpCompare: "<=>",
	ast.OpLogicalAnd: "&&", ast.OpLogicalOr: "||", ast.OpLogicalNot: "!",
	ast.OpNeg: "-", ast.OpPos: "+",
}

func opSpelling(op ast.OperatorKind) string {
	if s, ok := opSpellings[op]; ok {
		return s
	}
	return "?"
}

func typeString(t ast.Type) string {
	if t == nil {
		return "<untyped>"
	}
	return ast.TypeKey(t)
}

func exprString(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.BoolLit:
		return fmt.Sprintf("%v", n.Value)
	case *ast.IntLit:
		return fmt.Sprintf("%d", n.Value)
	case *ast.RealLit:
		return fmt.Sprintf("%g", n.Value)
	case *ast.IdentExpr:
		return ast.NameString(n.Name)
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", exprString(n.LHS), opSpelling(n.Op), exprString(n.RHS))
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s%s)", opSpelling(n.Op), exprString(n.Operand))
	case *ast.CallExpr:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = exprString(a)
		}
		return fmt.Sprintf("%s(%s)", exprString(n.Target), strings.Join(parts, ", "))
	case *ast.AccessExpr:
		return fmt.Sprintf("%s.%s", exprString(n.Object), ast.NameString(n.Member))
	case *ast.TupleExpr:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			parts[i] = exprString(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.ConversionExpr:
		return exprString(n.Source)
	case *ast.CopyInitExpr:
		return exprString(n.Source)
	case *ast.AggregateInitExpr:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			parts[i] = exprString(el)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.RequiresExpr:
		return "requires {...}"
	default:
		return fmt.Sprintf("%T", e)
	}
}
