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

package compiler_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asutton/banjo-sub001/internal/compiler"
	"github.com/asutton/banjo-sub001/internal/token"
)

func mapProcessor(sources map[string]string) *compiler.Processor {
	p := compiler.NewProcessor(compiler.Config{MaxErrors: compiler.DefaultMaxErrors})
	p.Loader = compiler.MapLoader(sources)
	return p
}

func TestResolveSingleFile(t *testing.T) {
	p := mapProcessor(map[string]string{
		"main.bnj": "var x : int = 1 + 2;",
	})
	unit, err := p.Resolve(context.Background(), "main.bnj")
	require.NoError(t, err)
	require.False(t, unit.Errs.HasErrors(), "errors: %v", unit.Errs)
	require.Len(t, unit.Stmts, 1)
	assert.NotNil(t, unit.Global.Lookup("x"))
}

func TestResolveCachesUnits(t *testing.T) {
	p := mapProcessor(map[string]string{
		"main.bnj": "var x : int = 0;",
	})
	first, err := p.Resolve(context.Background(), "main.bnj")
	require.NoError(t, err)
	second, err := p.Resolve(context.Background(), "main.bnj")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

// An import splices the imported file's tokens ahead of the importer's,
// so imported declarations are visible to the importing file.
func TestImportSplicesIntoOneUnit(t *testing.T) {
	p := mapProcessor(map[string]string{
		"lib.bnj":  "def twice: (x : int) -> int = x + x;",
		"main.bnj": `import "lib.bnj"; var y : int = twice(21);`,
	})
	unit, err := p.Resolve(context.Background(), "main.bnj")
	require.NoError(t, err)
	require.False(t, unit.Errs.HasErrors(), "errors: %v", unit.Errs)
	assert.NotNil(t, unit.Global.Lookup("twice"))
	assert.NotNil(t, unit.Global.Lookup("y"))
}

// A file imported along two paths is spliced exactly once.
func TestDiamondImportIncludedOnce(t *testing.T) {
	p := mapProcessor(map[string]string{
		"base.bnj": "var shared : int = 1;",
		"a.bnj":    `import "base.bnj"; var a : int = shared;`,
		"b.bnj":    `import "base.bnj"; var b : int = shared;`,
		"main.bnj": `import "a.bnj"; import "b.bnj"; var m : int = a + b;`,
	})
	unit, err := p.Resolve(context.Background(), "main.bnj")
	require.NoError(t, err)
	require.False(t, unit.Errs.HasErrors(), "errors: %v", unit.Errs)

	count := 0
	for _, tok := range unit.Tokens {
		if tok.Kind == token.Identifier && string(tok.Symbol) == "shared" {
			count++
		}
	}
	// Once in its declaration, once per use in a and b.
	assert.Equal(t, 3, count)
}

// Mutually importing files terminate: each file is included once.
func TestMutualImportTerminates(t *testing.T) {
	p := mapProcessor(map[string]string{
		"a.bnj": `import "b.bnj"; var a : int = 0;`,
		"b.bnj": `import "a.bnj"; var b : int = 0;`,
	})
	unit, err := p.Resolve(context.Background(), "a.bnj")
	require.NoError(t, err)
	assert.NotNil(t, unit.Global.Lookup("a"))
	assert.NotNil(t, unit.Global.Lookup("b"))
}

func TestTokenizeReportsLexicalErrors(t *testing.T) {
	p := mapProcessor(map[string]string{
		"bad.bnj": "var # x : int;",
	})
	unit, err := p.Tokenize(context.Background(), "bad.bnj")
	require.NoError(t, err)
	assert.True(t, unit.Errs.HasErrors())
}

func TestCheckErrorsLimitsOutput(t *testing.T) {
	p := mapProcessor(map[string]string{
		// Five undeclared names, each its own lookup error.
		"main.bnj": `
			var a : int = u1;
			var b : int = u2;
			var c : int = u3;
			var d : int = u4;
			var e : int = u5;
		`,
	})
	p.Config.MaxErrors = 2
	unit, err := p.Resolve(context.Background(), "main.bnj")
	require.NoError(t, err)
	require.True(t, unit.Errs.HasErrors())

	var buf bytes.Buffer
	err = p.CheckErrors(context.Background(), &buf, unit)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "more errors")
	assert.Equal(t, 2+1, strings.Count(buf.String(), "\n"))
}

func TestDirLoaderSearchesRoots(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "lib")
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	libPath := filepath.Join(libDir, "util.bnj")
	require.NoError(t, os.WriteFile(libPath, []byte("var u : int = 0;"), 0o644))

	l := compiler.DirLoader{Roots: []string{libDir}}
	found, err := l.Find("util.bnj", filepath.Join(dir, "main.bnj"))
	require.NoError(t, err)
	assert.Equal(t, libPath, found)

	src, err := l.Load(found)
	require.NoError(t, err)
	assert.Contains(t, src, "var u")

	_, err = l.Find("missing.bnj", filepath.Join(dir, "main.bnj"))
	assert.Error(t, err)
}

func TestGlobLoaderFindsByPattern(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "vendor", "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	target := filepath.Join(sub, "dep.bnj")
	require.NoError(t, os.WriteFile(target, []byte("var d : int = 0;"), 0o644))

	l := compiler.GlobLoader{Patterns: []string{filepath.Join(dir, "vendor", "**", "*.bnj")}}
	found, err := l.Find("dep.bnj", "")
	require.NoError(t, err)
	assert.Equal(t, target, found)

	_, err = l.Find("absent.bnj", "")
	assert.Error(t, err)
}
