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

package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaderpp/shaderpp/token"
)

func allTokens(s *Scanner) []token.Token {
	var out []token.Token
	for {
		t := s.NextToken()
		if t.Kind == token.End {
			return out
		}
		out = append(out, t)
	}
}

func TestNextToken(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedKinds []token.Kind
		expectedTexts []string
	}{
		{
			name:          "identifier",
			input:         "identifier123",
			expectedKinds: []token.Kind{token.Identifier},
			expectedTexts: []string{"identifier123"},
		},
		{
			name:          "keyword",
			input:         "int",
			expectedKinds: []token.Kind{token.Keyword},
			expectedTexts: []string{"int"},
		},
		{
			name:          "number decimal",
			input:         "123",
			expectedKinds: []token.Kind{token.Number},
			expectedTexts: []string{"123"},
		},
		{
			name:          "number hex",
			input:         "0x1F",
			expectedKinds: []token.Kind{token.Number},
			expectedTexts: []string{"0x1F"},
		},
		{
			name:          "fractional is not fused",
			input:         "1.0001",
			expectedKinds: []token.Kind{token.Number, token.Blob, token.Number},
			expectedTexts: []string{"1", ".", "0001"},
		},
		{
			name:          "single line comment",
			input:         "// a comment\nrest",
			expectedKinds: []token.Kind{token.Commentary, token.Newline, token.Identifier},
			expectedTexts: []string{"// a comment", "\n", "rest"},
		},
		{
			name:          "multi line comment",
			input:         "/* a\nb */x",
			expectedKinds: []token.Kind{token.Commentary, token.Identifier},
			expectedTexts: []string{"/* a\nb */", "x"},
		},
		{
			name:          "unterminated multi line comment at eof",
			input:         "/* never closes",
			expectedKinds: []token.Kind{token.Commentary},
			expectedTexts: []string{"/* never closes"},
		},
		{
			name:          "two char operators greedy",
			input:         "<<>>=&&||==!=<=>=",
			expectedKinds: []token.Kind{token.ShiftLeft, token.ShiftRight, token.Blob, token.LogicalAnd, token.LogicalOr, token.Equal, token.NotEqual, token.LessEqual, token.GreaterEqual},
		},
		{
			name:          "define directive",
			input:         "#define",
			expectedKinds: []token.Kind{token.Define},
		},
		{
			name:          "ifndef not if",
			input:         "#ifndef",
			expectedKinds: []token.Kind{token.Ifndef},
		},
		{
			name:          "stringize operator",
			input:         "#X",
			expectedKinds: []token.Kind{token.Stringize, token.Identifier},
		},
		{
			name:          "concat operator",
			input:         "##",
			expectedKinds: []token.Kind{token.Concat},
		},
		{
			name:          "hash then space is a blob",
			input:         "# ",
			expectedKinds: []token.Kind{token.Blob, token.Space},
			expectedTexts: []string{"#", " "},
		},
		{
			name:          "custom directive not registered falls through",
			input:         "#mydir",
			expectedKinds: []token.Kind{token.Stringize, token.Identifier},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(NewStringStream(tc.input))
			tokens := allTokens(s)
			kinds := make([]token.Kind, len(tokens))
			for i, tok := range tokens {
				kinds[i] = tok.Kind
			}
			assert.Equal(t, tc.expectedKinds, kinds)
			if tc.expectedTexts != nil {
				texts := make([]string, len(tokens))
				for i, tok := range tokens {
					texts[i] = tok.Text
				}
				assert.Equal(t, tc.expectedTexts, texts)
			}
		})
	}
}

func TestCustomDirective(t *testing.T) {
	s := New(NewStringStream("#mydir rest"))
	s.AddCustomDirective("mydir")
	tok := s.NextToken()
	require.Equal(t, token.CustomDirective, tok.Kind)
	assert.Equal(t, "mydir", tok.Text)
}

func TestLineContinuation(t *testing.T) {
	s := New(NewStringStream("FOO\\\nBAR"))
	tokens := allTokens(s)
	require.Len(t, tokens, 2)
	assert.Equal(t, "FOO", tokens[0].Text)
	assert.Equal(t, "BAR", tokens[1].Text)
	assert.Equal(t, 2, tokens[1].Pos.Line)
}

func TestLineContinuationInsideStringNotFolded(t *testing.T) {
	s := New(NewStringStream(`"a\` + "\n" + `b"` + "\nNEXT"))
	tokens := allTokens(s)
	// The trailing backslash inside the quoted text is an escape, not a
	// continuation: both physical lines survive as their own Newline
	// tokens instead of being folded into one logical line.
	newlines := 0
	for _, tok := range tokens {
		if tok.Kind == token.Newline {
			newlines++
		}
	}
	assert.Equal(t, 2, newlines)
	assert.Equal(t, "NEXT", tokens[len(tokens)-1].Text)
}

func TestPeekTokenBuffersInOrder(t *testing.T) {
	s := New(NewStringStream("A B C"))
	first := s.PeekToken(0)
	second := s.PeekToken(2)
	assert.Equal(t, "A", first.Text)
	assert.Equal(t, "B", second.Text)
	assert.Equal(t, "A", s.NextToken().Text)
	assert.Equal(t, token.Space, s.NextToken().Kind)
	assert.Equal(t, "B", s.NextToken().Text)
}

func TestPushTokensFrontPrecedesStream(t *testing.T) {
	s := New(NewStringStream("B"))
	s.PushTokensFront([]token.Token{token.New(token.Identifier, "A", token.CursorStart)})
	assert.Equal(t, "A", s.NextToken().Text)
	assert.Equal(t, "B", s.NextToken().Text)
}

func TestPushStreamStacksInclude(t *testing.T) {
	s := New(NewStringStream("OUTER"))
	s.PushStream(NewStringStream("INNER"))
	assert.Equal(t, "INNER", s.NextToken().Text)
	assert.Equal(t, "OUTER", s.NextToken().Text)
}

func TestEndOnExhaustion(t *testing.T) {
	s := New(NewStringStream(""))
	assert.Equal(t, token.End, s.NextToken().Kind)
	assert.Equal(t, token.End, s.NextToken().Kind)
}
