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

// Package compiler orchestrates the translation pipeline over source
// files: loading, lexing, import splicing, parsing, and elaboration,
// with per-file caching. It is the seam between the language core and
// the driver.
package compiler

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries the knobs the driver may set: where imports are
// searched and how many errors are printed before the rest are
// summarized.
type Config struct {
	SearchPaths []string
	MaxErrors   int
}

// DefaultMaxErrors bounds how many diagnostics CheckErrors prints in
// full before summarizing the remainder.
const DefaultMaxErrors = 10

// LoadConfig builds a Config from the environment, first loading a
// `.env` beside the invocation if one exists (explicit environment
// variables win over file entries, which is godotenv's default).
// Recognized variables: BANJOC_SEARCH_PATH (list separated by the
// platform's path list separator) and BANJOC_MAX_ERRORS.
func LoadConfig() Config {
	_ = godotenv.Load() // absent .env is not an error

	cfg := Config{MaxErrors: DefaultMaxErrors}
	if sp := os.Getenv("BANJOC_SEARCH_PATH"); sp != "" {
		for _, p := range strings.Split(sp, string(os.PathListSeparator)) {
			if p = strings.TrimSpace(p); p != "" {
				cfg.SearchPaths = append(cfg.SearchPaths, filepath.Clean(p))
			}
		}
	}
	if me := os.Getenv("BANJOC_MAX_ERRORS"); me != "" {
		if n, err := strconv.Atoi(me); err == nil && n > 0 {
			cfg.MaxErrors = n
		}
	}
	return cfg
}
