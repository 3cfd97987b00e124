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

package compiler

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/asutton/banjo-sub001/internal/ast"
	"github.com/asutton/banjo-sub001/internal/banjolog"
	"github.com/asutton/banjo-sub001/internal/diag"
	"github.com/asutton/banjo-sub001/internal/elaborate"
	"github.com/asutton/banjo-sub001/internal/parser"
	"github.com/asutton/banjo-sub001/internal/scope"
	"github.com/asutton/banjo-sub001/internal/token"
)

// Unit is one translated compilation unit: the spliced token stream of
// the root file and everything it imports, the parsed top-level
// statement list, and the arena/scope/errors that carry its elaborated
// state.
type Unit struct {
	Path   string
	Tokens []token.Token
	Stmts  []ast.Stmt
	Arena  *ast.Arena
	Global *scope.Scope
	Errs   diag.List
}

// Processor caches translation state across files: Resolve on an
// already translated path returns the cached Unit, and a path found
// mid-resolution of itself is a recursive-import error.
type Processor struct {
	Loader Loader
	Config Config
	Units  map[string]*Unit
}

// NewProcessor returns a Processor loading from the filesystem with the
// given configuration.
func NewProcessor(cfg Config) *Processor {
	return &Processor{
		Loader: DirLoader{Roots: cfg.SearchPaths},
		Config: cfg,
		Units:  map[string]*Unit{},
	}
}

// Tokenize lexes one file (without following imports), for the driver's
// token-emission mode. Lexical errors are recorded on the returned
// Unit.
func (p *Processor) Tokenize(ctx context.Context, path string) (*Unit, error) {
	abs, err := p.Loader.Find(path, "")
	if err != nil {
		return nil, errors.Wrap(err, "finding input")
	}
	src, err := p.Loader.Load(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", abs)
	}
	unit := &Unit{Path: abs}
	toks, lexErrs := token.Lex(abs, src)
	for _, le := range lexErrs {
		unit.Errs.Errorf(diag.Lexical, le.Loc, "%s", le.Msg)
	}
	unit.Tokens = toks
	return unit, nil
}

// Resolve translates path (and, recursively, its imports) through the
// full pipeline: lex, splice, parse, elaborate. Cached per canonical
// path.
func (p *Processor) Resolve(ctx context.Context, path string) (*Unit, error) {
	abs, err := p.Loader.Find(path, "")
	if err != nil {
		return nil, errors.Wrap(err, "finding input")
	}
	if unit, ok := p.Units[abs]; ok {
		if unit == nil {
			return nil, errors.Errorf("recursive import of %s", abs)
		}
		return unit, nil
	}
	p.Units[abs] = nil // mark to detect reentry

	unit := &Unit{Path: abs, Arena: ast.NewArena(), Global: scope.New(scope.KindGlobal, nil, nil)}

	included := map[string]bool{}
	toks, err := p.gatherTokens(ctx, abs, unit, included)
	if err != nil {
		delete(p.Units, abs)
		return nil, err
	}
	unit.Tokens = toks

	banjolog.I(ctx, "parse: %s (%d tokens)", abs, len(toks))
	pr := parser.New(unit.Arena, &unit.Errs, toks, unit.Global)
	unit.Stmts = pr.ParseTranslationUnit()

	el := elaborate.New(unit.Arena, &unit.Errs, unit.Global)
	el.Run(ctx, unit.Stmts)

	p.Units[abs] = unit
	return unit, nil
}

// gatherTokens lexes abs and recursively splices in each file it
// imports (`import "path";` at the top of the file), each included at
// most once, producing the merged token stream of one translation unit.
func (p *Processor) gatherTokens(ctx context.Context, abs string, unit *Unit, included map[string]bool) ([]token.Token, error) {
	if included[abs] {
		return nil, nil
	}
	included[abs] = true

	src, err := p.Loader.Load(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", abs)
	}
	toks, lexErrs := token.Lex(abs, src)
	for _, le := range lexErrs {
		unit.Errs.Errorf(diag.Lexical, le.Loc, "%s", le.Msg)
	}

	// Strip the leading import sequence, splicing each imported file's
	// tokens ahead of this file's own.
	var imported [][]token.Token
	i := 0
	for i+2 < len(toks) && toks[i].Kind == token.Import {
		if toks[i+1].Kind != token.String || toks[i+2].Kind != token.Semicolon {
			unit.Errs.Errorf(diag.Syntax, toks[i].Loc, "malformed import: expected a quoted path and ';'")
			break
		}
		rel := unquote(toks[i+1].Spelling)
		child, err := p.Loader.Find(rel, abs)
		if err != nil {
			unit.Errs.Errorf(diag.Lookup, toks[i+1].Loc, "%v", err)
			i += 3
			continue
		}
		banjolog.D(ctx, "import: %s -> %s", abs, child)
		childToks, err := p.gatherTokens(ctx, child, unit, included)
		if err != nil {
			return nil, err
		}
		if childToks != nil {
			imported = append(imported, childToks)
		}
		i += 3
	}
	rest := toks[i:]

	if len(imported) == 0 {
		return rest, nil
	}
	stream := token.NewStream(imported[0])
	stream.Splice(imported[1:]...)
	stream.Splice(rest)
	var merged []token.Token
	for {
		t := stream.Get()
		merged = append(merged, t)
		if t.Kind == token.EOF {
			return merged, nil
		}
	}
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// CheckErrors prints up to Config.MaxErrors diagnostics from the unit
// in full, notes how many were withheld, and returns a single error if
// any were present.
func (p *Processor) CheckErrors(ctx context.Context, w io.Writer, unit *Unit) error {
	if !unit.Errs.HasErrors() {
		return nil
	}
	limit := p.Config.MaxErrors
	if limit <= 0 {
		limit = DefaultMaxErrors
	}
	for i, e := range unit.Errs {
		if i >= limit {
			fmt.Fprintf(w, "and %d more errors\n", len(unit.Errs)-limit)
			break
		}
		fmt.Fprintln(w, e.Error())
		for _, cause := range e.Causes {
			fmt.Fprintf(w, "  %s\n", cause.Error())
		}
	}
	return errors.Errorf("%s: translation failed with %d error(s)", unit.Path, len(unit.Errs))
}
