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
	"errors"

	"github.com/shaderpp/shaderpp/macro"
	"github.com/shaderpp/shaderpp/token"
)

var errInvalidMacroDefinition = errors.New("invalid macro definition")

// handleDefine parses "define SPACE identifier (parameter-list)? body
// NEWLINE". The header and body are always parsed (to stay synchronized
// with the scanner), but the resulting macro is only registered when the
// current conditional frame is active.
func (e *Expander) handleDefine(line int) {
	header := e.scanner.NextToken()
	if header.Kind != token.Space {
		e.reportError(InvalidMacroDefinition, line)
		if header.Kind != token.Newline && header.Kind != token.End {
			e.skipToNewline()
		}
		return
	}
	name := e.scanner.NextToken()
	if name.Kind != token.Identifier && name.Kind != token.Keyword {
		e.reportError(InvalidMacroDefinition, line)
		e.skipToNewline()
		return
	}

	var params []string
	next := e.scanner.PeekToken(0)
	switch next.Kind {
	case token.ParenOpen:
		var err error
		params, err = e.parseParamList()
		if err != nil {
			e.reportError(InvalidMacroDefinition, line)
			e.skipToNewline()
			return
		}
	case token.Space, token.Newline, token.End:
		// valid separators before the body; consumed as part of body capture.
	default:
		e.reportError(InvalidMacroDefinition, line)
		e.skipToNewline()
		return
	}

	// Consume the single required header/body separator, if present, so
	// it is never itself captured as the body's first token.
	if e.scanner.PeekToken(0).Kind == token.Space {
		e.scanner.NextToken()
	}

	body := e.captureMacroBody(name.Text)
	if !e.skip() {
		if err := e.macros.Define(macro.Macro{Name: name.Text, Params: params, Body: body}); err != nil {
			e.reportError(MacroAlreadyDefined, line)
		}
	}
}

// parseParamList parses "( SPACE* name (SPACE* , SPACE* name)* SPACE* )",
// returning a non-nil (possibly empty) slice on success.
func (e *Expander) parseParamList() ([]string, error) {
	e.scanner.NextToken() // '('
	params := []string{}
	e.skipSpaces()
	if e.scanner.PeekToken(0).Kind == token.ParenClose {
		e.scanner.NextToken()
		return params, nil
	}
	for {
		t := e.scanner.NextToken()
		if t.Kind != token.Identifier && t.Kind != token.Keyword {
			return nil, errInvalidMacroDefinition
		}
		params = append(params, t.Text)
		e.skipSpaces()
		switch e.scanner.PeekToken(0).Kind {
		case token.Comma:
			e.scanner.NextToken()
			e.skipSpaces()
		case token.ParenClose:
			e.scanner.NextToken()
			return params, nil
		default:
			return nil, errInvalidMacroDefinition
		}
	}
}

func (e *Expander) skipSpaces() {
	for e.scanner.PeekToken(0).Kind == token.Space {
		e.scanner.NextToken()
	}
}

// captureMacroBody collects the raw token sequence up to the next newline,
// downgrading any identifier equal to selfName to a blob (single-level
// self-reference suppression), and substitutes the bodyless-define
// convention (an entirely blank body becomes the literal 1).
func (e *Expander) captureMacroBody(selfName string) []token.Token {
	var body []token.Token
	allBlank := true
	for {
		t := e.scanner.NextToken()
		if t.Kind == token.Newline || t.Kind == token.End {
			break
		}
		if t.Kind != token.Space {
			allBlank = false
		}
		if (t.Kind == token.Identifier || t.Kind == token.Keyword) && t.Text == selfName {
			t = token.Token{Kind: token.Blob, Text: t.Text, Pos: t.Pos}
		}
		body = append(body, t)
	}
	if allBlank {
		return []token.Token{token.New(token.Number, "1", token.CursorStart)}
	}
	return body
}

// handleUndef parses "undef SPACE identifier", removing the macro only
// when the current conditional frame is active.
func (e *Expander) handleUndef(line int) {
	e.skipSpaces()
	name := e.scanner.NextToken()
	e.skipToNewline()
	if name.Kind != token.Identifier && name.Kind != token.Keyword {
		e.reportError(InvalidMacroDefinition, line)
		return
	}
	if e.skip() {
		return
	}
	if err := e.macros.Undef(name.Text); err != nil {
		e.reportError(UndefinedMacro, line)
	}
}
