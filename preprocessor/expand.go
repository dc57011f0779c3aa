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

	"github.com/shaderpp/shaderpp/macro"
	"github.com/shaderpp/shaderpp/token"
)

// handleIdentifier implements §4.3.2. An identifier immediately followed
// by '##' is never expanded, regardless of macro kind — this is what
// blocks prescan through concatenation even for the __LINE__ builtin.
func (e *Expander) handleIdentifier(t token.Token) {
	if e.skip() {
		return
	}
	m, found := e.macros.Lookup(t.Text)
	if !found || e.inExpansionContext(t.Text) {
		e.emit(t.Text)
		return
	}
	if e.nextNonSpaceIsConcat() {
		e.emit(t.Text)
		return
	}

	switch {
	case macro.IsBuiltin(t.Text):
		e.emit(strconv.Itoa(t.Pos.Line))
	case !m.IsFunctionLike():
		e.expandObjectLike(m)
	default:
		e.expandFunctionLike(m, t)
	}
}

// nextNonSpaceIsConcat reports whether the next non-space token in the
// scanner's lookahead is '##', without consuming anything — concat itself
// skips surrounding whitespace when it pastes (see handleConcat), so the
// adjacency check here has to look past it the same way.
func (e *Expander) nextNonSpaceIsConcat() bool {
	offset := 0
	for e.scanner.PeekToken(offset).Kind == token.Space {
		offset++
	}
	return e.scanner.PeekToken(offset).Kind == token.Concat
}

// expandObjectLike pushes the macro body back through the scanner,
// terminated by a reject sentinel that releases the name from the
// expansion context once the replacement has fully drained.
func (e *Expander) expandObjectLike(m macro.Macro) {
	seq := make([]token.Token, len(m.Body), len(m.Body)+1)
	copy(seq, m.Body)
	seq = append(seq, token.Token{Kind: token.RejectMacro, Text: m.Name})
	e.expansionContext = append(e.expansionContext, m.Name)
	e.scanner.PushTokensFront(seq)
}

// expandFunctionLike looks past whitespace for '('; if absent, the name
// passes through unexpanded and the peeked tokens are left untouched in
// the scanner's lookahead. Otherwise it captures arguments, substitutes
// them into the body, and pushes the result the same way as object-like
// expansion.
func (e *Expander) expandFunctionLike(m macro.Macro, name token.Token) {
	offset := 0
	for e.scanner.PeekToken(offset).Kind == token.Space {
		offset++
	}
	if e.scanner.PeekToken(offset).Kind != token.ParenOpen {
		e.emit(name.Text)
		return
	}
	for i := 0; i <= offset; i++ {
		e.scanner.NextToken() // discard skipped whitespace and '('
	}

	args := e.captureCallArguments()
	if len(args) != len(m.Params) {
		e.reportError(InconsistentMacroArity, name.Pos.Line)
		return
	}

	substitution := map[string][]token.Token{}
	for i, p := range m.Params {
		substitution[p] = args[i]
	}

	var seq []token.Token
	for _, bt := range m.Body {
		if bt.Kind == token.Identifier || bt.Kind == token.Keyword {
			if replacement, ok := substitution[bt.Text]; ok {
				seq = append(seq, replacement...)
				continue
			}
		}
		seq = append(seq, bt)
	}
	seq = append(seq, token.Token{Kind: token.RejectMacro, Text: m.Name})
	e.expansionContext = append(e.expansionContext, m.Name)
	e.scanner.PushTokensFront(seq)
}

// captureCallArguments reads tokens up to the matching ')', splitting on
// top-level commas and tracking parenthesis nesting. A call with literally
// nothing between its parentheses (not even whitespace) yields zero
// arguments; anything else — including a lone space — yields one empty
// argument per slot, matching the classic "FOO()" vs "FOO( )" distinction.
func (e *Expander) captureCallArguments() [][]token.Token {
	var args [][]token.Token
	var current []token.Token
	sawAnyToken := false
	depth := 0
	for {
		t := e.scanner.NextToken()
		if t.Kind == token.End {
			break
		}
		if depth == 0 && t.Kind == token.ParenClose {
			if sawAnyToken || len(args) > 0 {
				args = append(args, trimArgument(current))
			}
			break
		}
		if depth == 0 && t.Kind == token.Comma {
			args = append(args, trimArgument(current))
			current = nil
			sawAnyToken = true
			continue
		}
		if t.Kind == token.ParenOpen {
			depth++
		} else if t.Kind == token.ParenClose {
			depth--
		}
		sawAnyToken = true
		current = append(current, t)
	}
	return args
}

// trimArgument drops leading/trailing space tokens from a captured
// argument, per the "leading and trailing spaces per argument are
// collapsed" rule.
func trimArgument(tokens []token.Token) []token.Token {
	start, end := 0, len(tokens)
	for start < end && tokens[start].Kind == token.Space {
		start++
	}
	for end > start && tokens[end-1].Kind == token.Space {
		end--
	}
	return tokens[start:end]
}
