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
	"github.com/asutton/banjo-sub001/internal/template"
	"github.com/asutton/banjo-sub001/internal/token"
)

// overloadConsistency is pass 2: with every declaration now typed, each
// overload set is re-validated pairwise. Parse-time binding already
// rejected the obvious conflicts, but parameter types were still
// deferred spans then, so same-signature redeclarations with diverging
// return types only become detectable here. Errors within one set are
// collected and re-thrown as one combined declaration error.
func (e *Elaborator) overloadConsistency(stmts []ast.Stmt) {
	for _, s := range e.collectScopes(stmts) {
		for _, name := range s.Names() {
			e.checkOverloadSet(s.Lookup(name))
		}
	}
}

// collectScopes gathers the translation unit's named scopes: the global
// scope plus every class, union, and namespace scope, recursively.
func (e *Elaborator) collectScopes(stmts []ast.Stmt) []*scope.Scope {
	scopes := []*scope.Scope{e.Global}
	var walk func(d ast.Decl)
	walk = func(d ast.Decl) {
		switch n := d.(type) {
		case *ast.ClassDecl:
			scopes = append(scopes, n.Scope)
			for _, m := range n.Body {
				walk(m)
			}
		case *ast.UnionDecl:
			scopes = append(scopes, n.Scope)
			for _, m := range n.Body {
				walk(m)
			}
		case *ast.NamespaceDecl:
			scopes = append(scopes, n.Scope)
			for _, m := range n.Body {
				walk(m)
			}
		case *ast.TemplateDecl:
			walk(n.Parameterized)
		}
	}
	for _, s := range stmts {
		if ds, ok := s.(*ast.DeclStmt); ok {
			walk(ds.Decl)
		}
	}
	return scopes
}

func (e *Elaborator) checkOverloadSet(set *scope.OverloadSet) {
	if set == nil || len(set.Entries) < 2 {
		return
	}
	var causes []diag.Error
	var loc token.Location
	for i, a := range set.Entries {
		ad, _ := a.(ast.Decl)
		if ad != nil && i == 0 {
			loc = ad.Loc()
		}
		for _, b := range set.Entries[i+1:] {
			bd, _ := b.(ast.Decl)
			at := bLoc(bd, ad)
			switch {
			case !a.IsFunctionLike() || !b.IsFunctionLike():
				causes = append(causes, diag.New(diag.Overload, at,
					"'%s' redeclared as a different kind of entity", a.DeclName()))
			case a.ParamKey() == b.ParamKey() && a.ReturnKey() != b.ReturnKey():
				causes = append(causes, diag.New(diag.Overload, at,
					"'%s' redeclared with the same parameters but a different return type", a.DeclName()))
			}
		}
	}
	if len(causes) > 0 {
		e.Errs.Add(diag.Composite(loc, causes))
	}
}

func bLoc(primary, fallback ast.Decl) token.Location {
	if primary != nil {
		return primary.Loc()
	}
	if fallback != nil {
		return fallback.Loc()
	}
	return token.Location{}
}

// candidate is one entry of an overload set considered for a call.
type candidate struct {
	fn       *ast.FunctionDecl
	viaTmpl  bool
	score    int
	conv     []ast.Expr
}

// resolveCall performs call-site overload resolution: the viable
// candidates are those whose arity matches and whose every argument
// converts to the corresponding parameter type; among viable
// candidates an exact parameter-type match outranks one reached by
// conversion, and a plain function outranks a template specialization
// at equal rank.
func (e *Elaborator) resolveCall(c *ast.CallExpr, id *ast.IdentExpr, s *scope.Scope) {
	set := scope.UnqualifiedLookup(s, ast.NameString(id.Name))
	if set == nil {
		e.Errs.Errorf(diag.Lookup, id.Loc(), "'%s' does not name a declaration", ast.NameString(id.Name))
		diag.Abort()
	}
	var viable []candidate
	for _, entry := range set.Entries {
		switch d := entry.(type) {
		case *ast.FunctionDecl:
			if cand, ok := e.tryCandidate(d, c.Args, false); ok {
				viable = append(viable, cand)
			}
		case *ast.TemplateDecl:
			if spec := e.deduceFunctionTemplate(d, c.Args); spec != nil {
				if cand, ok := e.tryCandidate(spec, c.Args, true); ok {
					viable = append(viable, cand)
				}
			}
		}
	}
	if len(viable) == 0 {
		e.Errs.Errorf(diag.Overload, c.Loc(), "no viable candidate for call to '%s'", ast.NameString(id.Name))
		diag.Abort()
	}
	best := viable[0]
	ambiguous := false
	for _, cand := range viable[1:] {
		switch {
		case cand.score > best.score,
			cand.score == best.score && best.viaTmpl && !cand.viaTmpl:
			best = cand
			ambiguous = false
		case cand.score == best.score && cand.viaTmpl == best.viaTmpl:
			ambiguous = true
		}
	}
	if ambiguous {
		e.Errs.Errorf(diag.Overload, c.Loc(), "call to '%s' is ambiguous", ast.NameString(id.Name))
		diag.Abort()
	}
	id.Resolved = best.fn
	id.SetType(best.fn.Type())
	c.Args = best.conv
	c.SetType(best.fn.ReturnType)
}

// tryCandidate checks fn against the typed argument list, building the
// converted arguments and an exactness score: two points per
// exactly-matching argument, one per conversion.
func (e *Elaborator) tryCandidate(fn *ast.FunctionDecl, args []ast.Expr, viaTmpl bool) (candidate, bool) {
	params := objectParams(fn)
	variadic := isVariadic(fn)
	if len(args) < len(params) || (len(args) > len(params) && !variadic) {
		return candidate{}, false
	}
	cand := candidate{fn: fn, viaTmpl: viaTmpl}
	for i, a := range args {
		if i >= len(params) {
			// Ellipsis conversion for trailing variadic arguments.
			conv := &ast.ConversionExpr{Source: a, Kind: ast.ConvEllipsis}
			conv.SetType(a.Type())
			cand.conv = append(cand.conv, conv)
			cand.score++
			continue
		}
		pt := params[i].DeclaredType
		if a.Type() != nil && ast.Equivalent(a.Type(), pt) {
			cand.conv = append(cand.conv, a)
			cand.score += 2
			continue
		}
		conv, err := e.copyInitialize(a, pt)
		if err != nil {
			return candidate{}, false
		}
		cand.conv = append(cand.conv, conv)
		cand.score++
	}
	return cand, true
}

func objectParams(fn *ast.FunctionDecl) []*ast.ObjectParamDecl {
	var out []*ast.ObjectParamDecl
	for _, p := range fn.Params {
		if op, ok := p.(*ast.ObjectParamDecl); ok {
			out = append(out, op)
		}
	}
	return out
}

func isVariadic(fn *ast.FunctionDecl) bool {
	for _, p := range fn.Params {
		if _, ok := p.(*ast.VariadicParamDecl); ok {
			return true
		}
	}
	return false
}

// deduceFunctionTemplate attempts to deduce tmpl's parameters from the
// call's argument types and specialize it — deduction as the implicit
// path into specialization. Returns nil when tmpl does not parameterize
// a function or deduction fails.
func (e *Elaborator) deduceFunctionTemplate(tmpl *ast.TemplateDecl, args []ast.Expr) *ast.FunctionDecl {
	fd, ok := tmpl.Parameterized.(*ast.FunctionDecl)
	if !ok {
		return nil
	}
	params := objectParams(fd)
	if len(params) != len(args) {
		return nil
	}
	subst := template.New()
	for i, a := range args {
		if a.Type() == nil {
			return nil
		}
		template.Deduce(params[i].DeclaredType, a.Type(), subst)
		if subst.Failed {
			return nil
		}
	}
	var targs []ast.Node
	for _, p := range tmpl.Params {
		v, bound := subst.Lookup(p)
		if !bound {
			return nil
		}
		targs = append(targs, v)
	}
	if tmpl.Constraint != nil && template.Satisfy(e.Arena, tmpl.Constraint, subst) == template.False {
		return nil
	}
	spec, err := template.Specialize(e.Arena, tmpl, targs, nil)
	if err != nil {
		return nil
	}
	sfd, _ := spec.(*ast.FunctionDecl)
	return sfd
}
