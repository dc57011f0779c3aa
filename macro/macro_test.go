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

package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableDefineAndLookup(t *testing.T) {
	table := NewTable()
	assert.True(t, table.Defined(LineBuiltin))

	m := ObjectLike("FOO")
	require.NoError(t, table.Define(m))
	got, ok := table.Lookup("FOO")
	require.True(t, ok)
	assert.Equal(t, m, got)
	assert.False(t, got.IsFunctionLike())
}

func TestTableDefineDuplicateIsError(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Define(ObjectLike("FOO")))
	err := table.Define(ObjectLike("FOO"))
	assert.ErrorIs(t, err, ErrAlreadyDefined)
}

func TestTableDefineBuiltinNameIsError(t *testing.T) {
	table := NewTable()
	err := table.Define(ObjectLike(LineBuiltin))
	assert.ErrorIs(t, err, ErrAlreadyDefined)
}

func TestTableUndefUnknownIsError(t *testing.T) {
	table := NewTable()
	err := table.Undef("NOPE")
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestTableUndefRemoves(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Define(ObjectLike("FOO")))
	require.NoError(t, table.Undef("FOO"))
	assert.False(t, table.Defined("FOO"))
}

func TestFunctionLikeZeroParams(t *testing.T) {
	m := Macro{Name: "EMPTY", Params: []string{}}
	assert.True(t, m.IsFunctionLike())
}

func TestSnapshotIsACopy(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Define(ObjectLike("FOO")))
	snap := table.Snapshot()
	delete(snap, "FOO")
	assert.True(t, table.Defined("FOO"))
}

func TestNamesIncludesBuiltinAndUserDefines(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Define(ObjectLike("FOO")))
	names := table.Names()
	assert.True(t, names.Contains("FOO"))
	assert.True(t, names.Contains(LineBuiltin))
	assert.False(t, names.Contains("BAR"))
}

func TestParseDefine(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedName  string
		expectedBody  string
		expectedError bool
	}{
		{name: "bare name", input: "FOO", expectedName: "FOO", expectedBody: "1"},
		{name: "name with value", input: "FOO=42", expectedName: "FOO", expectedBody: "42"},
		{name: "leading -D", input: "-DFOO=42", expectedName: "FOO", expectedBody: "42"},
		{name: "invalid name", input: "1FOO", expectedError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := ParseDefine(tc.input)
			if tc.expectedError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedName, m.Name)
			require.Len(t, m.Body, 1)
			assert.Equal(t, tc.expectedBody, m.Body[0].Text)
		})
	}
}

func TestParseUndefine(t *testing.T) {
	name, err := ParseUndefine("-UFOO")
	require.NoError(t, err)
	assert.Equal(t, "FOO", name)

	_, err = ParseUndefine("1FOO")
	assert.Error(t, err)
}
