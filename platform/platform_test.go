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

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateKnownPlatform(t *testing.T) {
	p, err := Create(Linux, X86_64)
	require.NoError(t, err)
	assert.Equal(t, Platform{OS: Linux, Arch: X86_64}, p)
}

func TestCreateResolvesAliases(t *testing.T) {
	p, err := Create(OS("macos"), Arch("amd64"))
	require.NoError(t, err)
	assert.Equal(t, Platform{OS: OSX, Arch: X86_64}, p)
}

func TestCreateUnknownOSIsError(t *testing.T) {
	_, err := Create(OS("plan9"), X86_64)
	assert.Error(t, err)
}

func TestCreateUnknownArchIsError(t *testing.T) {
	_, err := Create(Linux, Arch("vax"))
	assert.Error(t, err)
}

func TestComparePlatforms(t *testing.T) {
	a := Platform{OS: Linux, Arch: X86_64}
	b := Platform{OS: Linux, Arch: AArch64}
	c := Platform{OS: Windows, Arch: X86_64}

	assert.Positive(t, Compare(a, b))
	assert.Negative(t, Compare(b, a))
	assert.Zero(t, Compare(a, a))
	assert.Negative(t, Compare(a, c))
}

func TestPlatformString(t *testing.T) {
	assert.Equal(t, "linux/x86_64", Platform{OS: Linux, Arch: X86_64}.String())
}

func TestEnvForKnownPlatformIncludesExpectedMacros(t *testing.T) {
	seed := Env(Platform{OS: Linux, Arch: X86_64})
	names := map[string]bool{}
	for _, m := range seed {
		names[m.Name] = true
	}
	assert.True(t, names["__linux__"])
	assert.True(t, names["unix"])
	assert.True(t, names["__x86_64__"])
	for _, m := range seed {
		assert.False(t, m.IsFunctionLike())
		require.Len(t, m.Body, 1)
		assert.Equal(t, "1", m.Body[0].Text)
	}
}

func TestEnvForApplePlatformIncludesFamilyMacros(t *testing.T) {
	seed := Env(Platform{OS: OSX, Arch: AArch64})
	names := map[string]bool{}
	for _, m := range seed {
		names[m.Name] = true
	}
	assert.True(t, names["__APPLE__"])
	assert.True(t, names["__MACH__"])
	assert.True(t, names["TARGET_OS_OSX"])
}

func TestEnvForUnknownPlatformIsEmptyNotNil(t *testing.T) {
	seed := Env(Platform{OS: OS("bogus"), Arch: Arch("bogus")})
	assert.NotNil(t, seed)
	assert.Empty(t, seed)
}
