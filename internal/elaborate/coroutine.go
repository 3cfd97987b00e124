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
	"github.com/asutton/banjo-sub001/internal/banjolog"
)

// checkCoroutine runs a best-effort yield-reachability check after a
// coroutine body has elaborated: every control-flow path should contain
// a yield or be unreachable. The analysis is conservative — when it
// cannot prove the property it warns rather than failing, since full
// reachability analysis is outside this pipeline's scope.
func (e *Elaborator) checkCoroutine(d *ast.FunctionDecl) {
	fd, ok := d.Def.(*ast.FunctionDef)
	if !ok {
		return
	}
	if !pathsYield(fd.Body) {
		banjolog.W(e.ctx, "%s: coroutine '%s' has a path with no yield",
			d.Loc(), d.DeclName())
	}
}

// pathsYield reports whether every path through s provably yields or
// terminates (returns) before falling off the end.
func pathsYield(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.YieldStmt:
		return true
	case *ast.ReturnStmt:
		// A path that returns never falls off the end; vacuously fine.
		return true
	case *ast.CompoundStmt:
		for _, c := range n.Statements {
			if pathsYield(c) {
				return true
			}
		}
		return false
	case *ast.IfStmt:
		if n.Else == nil {
			return false
		}
		return pathsYield(n.Then) && pathsYield(n.Else)
	case *ast.WhileStmt:
		// The loop may execute zero times, so its body proves nothing
		// for the path around it.
		return false
	default:
		return false
	}
}
