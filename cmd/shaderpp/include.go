// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/shaderpp/shaderpp/preprocessor"
	"github.com/shaderpp/shaderpp/scanner"
)

// fsIncludeResolver resolves "#include" paths against a list of search
// directories, in order, the same <path1>:<path2> lookup convention as a
// compiler's -I flags. Absolute paths are used as given. Quoted and <...>
// includes are looked up the same way; the including file's own directory
// is not searched.
type fsIncludeResolver struct {
	searchDirs []string

	// seenGuards remembers, by resolved absolute path, the guard macro
	// name detected on first read so a header whose content matches the
	// classic #ifndef/#define pattern is not reopened once the guard
	// macro is expected to already be defined. This is a CLI-level
	// optimization; the engine's own control flow never consults it.
	seenGuards map[string]string
}

func newFSIncludeResolver(searchDirs []string) *fsIncludeResolver {
	return &fsIncludeResolver{
		searchDirs: searchDirs,
		seenGuards: map[string]string{},
	}
}

// Resolve implements preprocessor.IncludeResolver.
func (r *fsIncludeResolver) Resolve(path string, isSystem bool) (scanner.InputStream, bool) {
	full := r.find(path)
	if full == "" {
		log.Printf("shaderpp: could not resolve include %q", path)
		return nil, false
	}
	if guard, seen := r.seenGuards[full]; seen && guard != "" {
		return nil, false
	}
	content, err := os.ReadFile(full)
	if err != nil {
		log.Printf("shaderpp: failed to open resolved include %q: %v", full, err)
		return nil, false
	}
	if _, tracked := r.seenGuards[full]; !tracked {
		r.seenGuards[full] = preprocessor.DetectIncludeGuard(string(content))
	}
	return scanner.NewStringStream(string(content)), true
}

func (r *fsIncludeResolver) find(path string) string {
	if filepath.IsAbs(path) {
		if fileExists(path) {
			return path
		}
		return ""
	}
	for _, dir := range r.searchDirs {
		candidate := filepath.Join(dir, path)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
