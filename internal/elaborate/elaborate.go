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

// Package elaborate implements the multi-pass elaboration pipeline:
// pass 1 resolves every declaration's declared type, pass 2 validates
// overload sets, pass 3 completes class layout, and
// pass 4 parses and types every deferred expression. Each pass runs to
// completion over the translation unit before the next begins; pass 4
// leans on that ordering when it resolves names whose declarations
// appear later in source order.
package elaborate

import (
	"context"

	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/banjolog"
	"github.com/asutton/banjo-sub001/internal/diag"
	"github.com/asutton/banjo-sub001/internal/scope"
)

// Elaborator carries the shared state every pass needs: the arena the
// parser built into, the error sink, and the translation unit's global
// scope.
type Elaborator struct {
	Arena  *ast.Arena
	Errs   *diag.List
	Global *scope.Scope

	ctx context.Context
}

// New returns an Elaborator over the given arena, error sink, and
// global scope — the same three the parser was constructed with.
func New(arena *ast.Arena, errs *diag.List, global *scope.Scope) *Elaborator {
	return &Elaborator{Arena: arena, Errs: errs, Global: global, ctx: context.Background()}
}

// Run executes the four passes in order over the translation unit's
// top-level statements. Errors accumulate in Errs; a declaration that
// aborts mid-pass is skipped for the remainder of that pass, and later
// passes tolerate the resulting holes.
func (e *Elaborator) Run(ctx context.Context, stmts []ast.Stmt) {
	e.ctx = ctx
	banjolog.D(ctx, "elaborate: pass 1, declaration types")
	e.declarationTypes(stmts)
	banjolog.D(ctx, "elaborate: pass 2, overload consistency")
	e.overloadConsistency(stmts)
	banjolog.D(ctx, "elaborate: pass 3, class completion")
	e.classCompletion(stmts)
	banjolog.D(ctx, "elaborate: pass 4, expression elaboration")
	e.expressionElaboration(stmts)
}

// guard runs fn, swallowing an Abort so the caller can continue with
// the next declaration — the elaboration-time analogue of the parser's
// statement-boundary recovery.
func (e *Elaborator) guard(fn func()) {
	defer diag.Recover()
	fn()
}

// eachDecl applies fn to the declaration of every declaration statement
// in stmts, each under its own recovery guard.
func (e *Elaborator) eachDecl(stmts []ast.Stmt, fn func(ast.Decl)) {
	for _, s := range stmts {
		ds, ok := s.(*ast.DeclStmt)
		if !ok {
			continue
		}
		e.guard(func() { fn(ds.Decl) })
	}
}
