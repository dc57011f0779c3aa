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
	"fmt"
	"regexp"
	"strings"

	"github.com/shaderpp/shaderpp/scanner"
	"github.com/shaderpp/shaderpp/token"
)

// IdentifierRegex matches a valid macro name: '_' or a letter, then any run
// of letters, digits, or '_'.
var IdentifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseDefine parses a "-D"-style command line definition: "NAME",
// "NAME=VALUE", tolerant of a leading "-D" (gcc/clang convention). A bare
// "NAME" defines the traditional body of a literal 1, matching the
// preprocessor's bodyless-#define convention.
func ParseDefine(definition string) (Macro, error) {
	definition = strings.TrimPrefix(definition, "-D")
	name, value := definition, ""
	if eq := strings.Index(definition, "="); eq >= 0 {
		name, value = definition[:eq], definition[eq+1:]
	}
	if !IdentifierRegex.MatchString(name) {
		return Macro{}, fmt.Errorf("invalid macro name %q", name)
	}
	if value == "" {
		return Macro{Name: name, Body: []token.Token{token.New(token.Number, "1", token.CursorStart)}}, nil
	}
	return Macro{Name: name, Body: tokenizeValue(value)}, nil
}

// ParseUndefine parses a "-U"-style command line removal, tolerant of a
// leading "-U".
func ParseUndefine(definition string) (string, error) {
	name := strings.TrimPrefix(definition, "-U")
	if !IdentifierRegex.MatchString(name) {
		return "", fmt.Errorf("invalid macro name %q", name)
	}
	return name, nil
}

// tokenizeValue runs value through the scanner so a command-line body is
// represented the same way a #define body would be: a plain token
// sequence, with no trailing newline/end token.
func tokenizeValue(value string) []token.Token {
	sc := scanner.New(scanner.NewStringStream(value))
	var out []token.Token
	for {
		t := sc.NextToken()
		if t.Kind == token.End {
			break
		}
		out = append(out, t)
	}
	return out
}
