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

// Command shaderpp runs the preprocessor engine over a file, acting as
// the "host" from spec.md §1/§6: it supplies the root input stream, a
// filesystem include resolver, and an error sink that logs to stderr.
package main

import (
	"cmp"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/shaderpp/shaderpp/internal/collections"
	"github.com/shaderpp/shaderpp/macro"
	"github.com/shaderpp/shaderpp/platform"
	"github.com/shaderpp/shaderpp/preprocessor"
	"github.com/shaderpp/shaderpp/scanner"
)

func main() {
	defines := repeatedFlag{}
	undefines := repeatedFlag{}
	includeDirs := repeatedFlag{}
	configPath := flag.String("config", "shaderpp.yaml", "Optional YAML run configuration")
	skipComments := flag.Bool("skip-comments", false, "Drop comments from the output instead of passing them through")
	output := flag.String("o", "", "Output file path; defaults to stdout")
	platformFlag := flag.String("platform", "", "Seed predefined macros for an OS/ARCH pair, e.g. linux/amd64 or macos/arm64")
	dumpDefined := flag.Bool("dump-defined", false, "After processing, print the final set of defined macro names to stderr")
	flag.Var(&defines, "D", "Define a macro, repeatable: -DNAME or -DNAME=VALUE")
	flag.Var(&undefines, "U", "Remove a macro from the initial seed, repeatable")
	flag.Var(&includeDirs, "I", "Add an include search directory, repeatable; may contain glob segments")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("shaderpp requires exactly one argument: the root source file")
	}
	rootPath := flag.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("shaderpp: %v", err)
	}

	searchDirs, err := expandIncludeDirs(append(cfg.IncludePaths, includeDirs.values...))
	if err != nil {
		log.Fatalf("shaderpp: %v", err)
	}

	var platformSeed macro.Seed
	if p := cmp.Or(*platformFlag, cfg.Platform); p != "" {
		plat, err := parsePlatform(p)
		if err != nil {
			log.Fatalf("shaderpp: %v", err)
		}
		platformSeed = platform.Env(plat)
	}

	allUndefines := append(cfg.Undefines, undefines.values...)
	seed, err := buildSeed(append(cfg.Defines, defines.values...), allUndefines)
	if err != nil {
		log.Fatalf("shaderpp: %v", err)
	}
	platformSeed, err = removeUndefined(platformSeed, allUndefines)
	if err != nil {
		log.Fatalf("shaderpp: %v", err)
	}
	seed = mergeSeeds(platformSeed, seed)

	rootContent, err := os.ReadFile(rootPath)
	if err != nil {
		log.Fatalf("shaderpp: reading %q: %v", rootPath, err)
	}

	resolver := newFSIncludeResolver(searchDirs)
	hadErrors := false
	exp := preprocessor.New(scanner.NewStringStream(string(rootContent)), preprocessor.Options{
		SkipComments:    *skipComments || cfg.SkipComments,
		UserDefines:     seed,
		IncludeResolver: resolver.Resolve,
		ErrorSink: func(rec preprocessor.ErrorRecord) {
			hadErrors = true
			log.Printf("shaderpp: %s at line %d", rec.Kind, rec.Line)
		},
	})

	out := exp.Process()

	if *dumpDefined {
		for _, name := range exp.DefinedNames().SortedValues(strings.Compare) {
			fmt.Fprintln(os.Stderr, name)
		}
	}

	if err := writeOutput(*output, out); err != nil {
		log.Fatalf("shaderpp: %v", err)
	}
	if hadErrors {
		os.Exit(1)
	}
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := fmt.Print(content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// expandIncludeDirs resolves glob-patterned -I entries (e.g.
// "vendor/*/include") into concrete directories, in the order supplied.
// A non-glob entry that doesn't exist is kept as-is; resolution failures
// there surface later as "could not resolve include", not here.
func expandIncludeDirs(dirs []string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		if !doublestar.ValidatePattern(dir) || !strings.ContainsAny(dir, "*?[{") {
			out = append(out, dir)
			continue
		}
		matches, err := doublestar.FilepathGlob(dir)
		if err != nil {
			return nil, fmt.Errorf("expanding include path glob %q: %w", dir, err)
		}
		out = append(out, matches...)
	}
	return out, nil
}

func buildSeed(defines, undefines []string) (macro.Seed, error) {
	seed := macro.Seed{}
	for _, d := range defines {
		m, err := macro.ParseDefine(d)
		if err != nil {
			return nil, err
		}
		seed = append(seed, m)
	}
	return removeUndefined(seed, undefines)
}

// removeUndefined filters seed, dropping any macro named in undefines (in
// "-U"-style form, tolerant of a leading "-U"). It lets a -platform seed be
// pruned with the same -U flags used to prune -D defines.
func removeUndefined(seed macro.Seed, undefines []string) (macro.Seed, error) {
	if len(undefines) == 0 {
		return seed, nil
	}
	remove := map[string]bool{}
	for _, u := range undefines {
		name, err := macro.ParseUndefine(u)
		if err != nil {
			return nil, err
		}
		remove[name] = true
	}
	return collections.FilterSlice(seed, func(m macro.Macro) bool { return !remove[m.Name] }), nil
}

// mergeSeeds concatenates base and overlay, keeping overlay's definition
// whenever both name the same macro, so an explicit -D always wins over a
// -platform default without the table-level "already defined" error
// New() would otherwise report for the duplicate.
func mergeSeeds(base, overlay macro.Seed) macro.Seed {
	overlaid := make(map[string]bool, len(overlay))
	for _, m := range overlay {
		overlaid[m.Name] = true
	}
	merged := make(macro.Seed, 0, len(base)+len(overlay))
	for _, m := range base {
		if !overlaid[m.Name] {
			merged = append(merged, m)
		}
	}
	return append(merged, overlay...)
}

// repeatedFlag implements flag.Value for a repeatable string flag.
type repeatedFlag struct {
	values []string
}

func (r *repeatedFlag) String() string { return strings.Join(r.values, ",") }

func (r *repeatedFlag) Set(value string) error {
	r.values = append(r.values, value)
	return nil
}
