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
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Loader finds and loads source files for imports.
type Loader interface {
	// Find resolves an import path, written relative to the importing
	// file (from), to the canonical path Load accepts. The returned
	// path is also the cache key for the translation state.
	Find(path, from string) (string, error)
	// Load returns the source text of a path returned by Find.
	Load(path string) (string, error)
}

// DirLoader resolves imports against the importing file's directory
// first and then each configured search root in order.
type DirLoader struct {
	Roots []string
}

func (l DirLoader) Find(path, from string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	dirs := []string{filepath.Dir(from)}
	dirs = append(dirs, l.Roots...)
	for _, dir := range dirs {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", err
			}
			return abs, nil
		}
	}
	return "", fmt.Errorf("cannot find '%s'", path)
}

func (l DirLoader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GlobLoader resolves an import by expanding each doublestar pattern in
// Patterns (e.g. `./vendor/**/*.bnj`) and returning the first match whose
// base name or whole path equals the import path; the import path itself
// is not used as a pattern. An alternative to DirLoader for trees whose
// files live under pattern-described roots rather than at a relative
// path.
type GlobLoader struct {
	Patterns []string
}

func (l GlobLoader) Find(path, from string) (string, error) {
	for _, pattern := range l.Patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return "", err
		}
		for _, m := range matches {
			if filepath.Base(m) == path || m == path {
				abs, err := filepath.Abs(m)
				if err != nil {
					return "", err
				}
				return abs, nil
			}
		}
	}
	return "", fmt.Errorf("cannot find '%s' in glob roots", path)
}

func (l GlobLoader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MapLoader serves sources from memory, for tests and tooling.
type MapLoader map[string]string

func (l MapLoader) Find(path, from string) (string, error) {
	if _, ok := l[path]; !ok {
		return "", fmt.Errorf("cannot find '%s'", path)
	}
	return path, nil
}

func (l MapLoader) Load(path string) (string, error) {
	src, ok := l[path]
	if !ok {
		return "", fmt.Errorf("cannot load '%s'", path)
	}
	return src, nil
}
