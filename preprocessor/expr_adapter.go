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

package preprocessor

import (
	"strconv"

	"github.com/shaderpp/shaderpp/expr"
	"github.com/shaderpp/shaderpp/macro"
	"github.com/shaderpp/shaderpp/scanner"
	"github.com/shaderpp/shaderpp/token"
)

// evalConstantExpr parses and evaluates tokens (already whitespace-skipped
// by captureDirectiveLine) as a #if/#elif expression. A parse failure
// reports UnexpectedToken and evaluates to false.
func (e *Expander) evalConstantExpr(tokens []token.Token, line int) int {
	parsed, err := expr.NewParser(tokens).Parse()
	if err != nil {
		e.reportError(UnexpectedToken, line)
		return 0
	}
	return parsed.Eval(exprLookup{e})
}

// exprLookup adapts the Expander's macro table to expr.Lookup, per §4.5's
// identifier semantics: an object-like macro's body is evaluated
// recursively as its own expression; a function-like macro called with
// arguments has its expansion evaluated the same way; anything else
// parses as an integer, defaulting to 0.
type exprLookup struct{ e *Expander }

func (l exprLookup) Defined(name string) bool { return l.e.macros.Defined(name) }

func (l exprLookup) EvalIdent(name string) int {
	if macro.IsBuiltin(name) {
		return l.e.scanner.CurrentLine()
	}
	m, ok := l.e.macros.Lookup(name)
	if ok && !m.IsFunctionLike() {
		return l.e.evalConstantExpr(stripSpaces(m.Body), 0)
	}
	return parseIntOrZero(name)
}

func (l exprLookup) EvalCall(name string, args []string) int {
	m, ok := l.e.macros.Lookup(name)
	if !ok || !m.IsFunctionLike() || len(args) != len(m.Params) {
		return 0
	}
	substitution := map[string]string{}
	for i, p := range m.Params {
		substitution[p] = args[i]
	}
	var sb []token.Token
	for _, bt := range m.Body {
		if bt.Kind == token.Identifier || bt.Kind == token.Keyword {
			if val, ok := substitution[bt.Text]; ok {
				sb = append(sb, tokenizeArg(val)...)
				continue
			}
		}
		sb = append(sb, bt)
	}
	return l.e.evalConstantExpr(stripSpaces(sb), 0)
}

func stripSpaces(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != token.Space {
			out = append(out, t)
		}
	}
	return out
}

func tokenizeArg(text string) []token.Token {
	sc := scanner.New(scanner.NewStringStream(text))
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

func parseIntOrZero(text string) int {
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0
	}
	return int(v)
}
