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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderpp/shaderpp/macro"
)

func TestRepeatedFlagAccumulates(t *testing.T) {
	var f repeatedFlag
	require.NoError(t, f.Set("a"))
	require.NoError(t, f.Set("b"))
	assert.Equal(t, []string{"a", "b"}, f.values)
	assert.Equal(t, "a,b", f.String())
}

func TestBuildSeedDefinesAndUndefines(t *testing.T) {
	seed, err := buildSeed([]string{"FOO", "BAR=2"}, nil)
	require.NoError(t, err)
	require.Len(t, seed, 2)
	assert.Equal(t, "FOO", seed[0].Name)
	assert.Equal(t, "BAR", seed[1].Name)
}

func TestBuildSeedUndefineRemovesEarlierDefine(t *testing.T) {
	seed, err := buildSeed([]string{"FOO", "BAR=2"}, []string{"FOO"})
	require.NoError(t, err)
	require.Len(t, seed, 1)
	assert.Equal(t, "BAR", seed[0].Name)
}

func TestBuildSeedInvalidDefineIsError(t *testing.T) {
	_, err := buildSeed([]string{"1FOO"}, nil)
	assert.Error(t, err)
}

func TestBuildSeedInvalidUndefineIsError(t *testing.T) {
	_, err := buildSeed(nil, []string{"1FOO"})
	assert.Error(t, err)
}

func TestExpandIncludeDirsPassesThroughNonGlobEntries(t *testing.T) {
	out, err := expandIncludeDirs([]string{"vendor/include", "/abs/path"})
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/include", "/abs/path"}, out)
}

func TestExpandIncludeDirsExpandsGlobEntries(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor", "a", "include"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor", "b", "include"), 0o755))

	out, err := expandIncludeDirs([]string{filepath.Join(root, "vendor", "*", "include")})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestLoadConfigMissingFileIsNotAnError(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, fileConfig{}, cfg)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shaderpp.yaml")
	content := "defines:\n  - FOO\n  - BAR=2\nskip_comments: true\ninclude_paths:\n  - vendor/include\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"FOO", "BAR=2"}, cfg.Defines)
	assert.True(t, cfg.SkipComments)
	assert.Equal(t, []string{"vendor/include"}, cfg.IncludePaths)
}

func TestLoadConfigParsesPlatform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shaderpp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform: linux/amd64\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "linux/amd64", cfg.Platform)
}

func TestFSIncludeResolverFindsAlongSearchDirs(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "include")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "foo.h"), []byte("int x;\n"), 0o644))

	resolver := newFSIncludeResolver([]string{root, sub})
	stream, ok := resolver.Resolve("foo.h", false)
	require.True(t, ok)
	assert.True(t, stream.HasNextLine())
	assert.Equal(t, "int x;\n", stream.ReadLine())
}

func TestFSIncludeResolverUnresolvedReturnsFalse(t *testing.T) {
	resolver := newFSIncludeResolver([]string{t.TempDir()})
	_, ok := resolver.Resolve("missing.h", false)
	assert.False(t, ok)
}

func TestFSIncludeResolverSkipsReopeningGuardedHeader(t *testing.T) {
	root := t.TempDir()
	content := "#ifndef FOO_H\n#define FOO_H\nint x;\n#endif\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "foo.h"), []byte(content), 0o644))

	resolver := newFSIncludeResolver([]string{root})
	_, ok := resolver.Resolve("foo.h", false)
	require.True(t, ok)

	_, ok = resolver.Resolve("foo.h", false)
	assert.False(t, ok)
}

func TestParsePlatformResolvesAliases(t *testing.T) {
	p, err := parsePlatform("macos/arm64")
	require.NoError(t, err)
	assert.Equal(t, "osx/aarch64", p.String())
}

func TestParsePlatformRejectsMissingSlash(t *testing.T) {
	_, err := parsePlatform("linux")
	assert.Error(t, err)
}

func TestParsePlatformRejectsUnknownOS(t *testing.T) {
	_, err := parsePlatform("plan9/amd64")
	assert.Error(t, err)
}

func TestRemoveUndefinedDropsNamedMacros(t *testing.T) {
	seed := macro.Seed{macro.ObjectLike("linux"), macro.ObjectLike("__linux__")}
	out, err := removeUndefined(seed, []string{"linux"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "__linux__", out[0].Name)
}

func TestRemoveUndefinedNoUndefinesReturnsSeedUnchanged(t *testing.T) {
	seed := macro.Seed{macro.ObjectLike("linux")}
	out, err := removeUndefined(seed, nil)
	require.NoError(t, err)
	assert.Equal(t, seed, out)
}

func TestMergeSeedsOverlayWinsOnNameCollision(t *testing.T) {
	base := macro.Seed{macro.ObjectLike("FOO"), macro.ObjectLike("BAR")}
	overlayDefine, err := macro.ParseDefine("FOO=2")
	require.NoError(t, err)
	overlay := macro.Seed{overlayDefine}

	merged := mergeSeeds(base, overlay)
	require.Len(t, merged, 2)

	byName := map[string]macro.Macro{}
	for _, m := range merged {
		byName[m.Name] = m
	}
	assert.Equal(t, overlayDefine, byName["FOO"])
	assert.Equal(t, base[1], byName["BAR"])
}
