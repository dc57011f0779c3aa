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
	"regexp"

	"github.com/shaderpp/shaderpp/token"
)

var (
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	reNumber     = regexp.MustCompile(`^(?:0[xX][0-9a-fA-F]+|[0-9]+)`)

	// reBoundary matches the first byte of any run recognised elsewhere in
	// the grammar; a blob run ends the character before such a byte.
	reBoundary = regexp.MustCompile(`[\s#0-9A-Za-z_,()\[\]<>"+\-*/&|!;=]`)
)

// directives is the fixed '#'-keyword table, longest-prefix keywords first
// so that e.g. "ifndef" is matched before "if".
var directives = []struct {
	keyword string
	kind    token.Kind
}{
	{"ifndef", token.Ifndef},
	{"ifdef", token.Ifdef},
	{"include", token.Include},
	{"define", token.Define},
	{"undef", token.Undef},
	{"endif", token.Endif},
	{"elif", token.Elif},
	{"else", token.Else},
	{"if", token.If},
}

// keywords is the fixed closed set of C keywords; the scanner tags an
// identifier matching one of these as token.Keyword instead of
// token.Identifier. The preprocessor still accepts a Keyword token as a
// macro name, the same as an Identifier.
var keywords = func() map[string]struct{} {
	names := []string{
		"auto", "break", "case", "char", "const", "continue", "default",
		"do", "double", "else", "enum", "extern", "float", "for", "goto",
		"if", "inline", "int", "long", "register", "restrict", "return",
		"short", "signed", "sizeof", "static", "struct", "switch",
		"typedef", "union", "unsigned", "void", "volatile", "while",
	}
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}()

var twoCharOperators = map[string]token.Kind{
	"<<": token.ShiftLeft,
	">>": token.ShiftRight,
	"<=": token.LessEqual,
	">=": token.GreaterEqual,
	"&&": token.LogicalAnd,
	"||": token.LogicalOr,
	"==": token.Equal,
	"!=": token.NotEqual,
}

var oneCharOperators = map[byte]token.Kind{
	',': token.Comma,
	'(': token.ParenOpen,
	')': token.ParenClose,
	'[': token.BracketOpen,
	']': token.BracketClose,
	'<': token.AngleOpen,
	'>': token.AngleClose,
	'"': token.Quote,
	';': token.Semicolon,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'&': token.Amp,
	'|': token.Pipe,
	'!': token.Bang,
}

// matchPunctuation recognises two-character operators greedily, falls back
// to single-character punctuation, and special-cases a lone '=' as a blob
// per the grammar (it is not assignment in this language subset).
func matchPunctuation(b string) (token.Kind, int, bool) {
	if len(b) >= 2 {
		if k, ok := twoCharOperators[b[:2]]; ok {
			return k, 2, true
		}
	}
	if b[0] == '=' {
		return token.Blob, 1, true
	}
	if k, ok := oneCharOperators[b[0]]; ok {
		return k, 1, true
	}
	return 0, 0, false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func matchLen(re *regexp.Regexp, b string) int {
	loc := re.FindStringIndex(b)
	if loc == nil {
		return 0
	}
	return loc[1]
}

// blobLen returns the length of a catch-all run starting at b[0], ending
// just before the next byte recognised by any other rule.
func blobLen(b string) int {
	if len(b) <= 1 {
		return len(b)
	}
	if loc := reBoundary.FindStringIndex(b[1:]); loc != nil {
		return 1 + loc[0]
	}
	return len(b)
}
