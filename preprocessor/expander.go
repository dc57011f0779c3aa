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

// Package preprocessor is the Expander: it drives the scanner to
// completion, maintains the macro table and the conditional-block stack,
// performs macro expansion, and emits the expanded output string.
package preprocessor

import (
	"bytes"

	"github.com/shaderpp/shaderpp/internal/collections"
	"github.com/shaderpp/shaderpp/macro"
	"github.com/shaderpp/shaderpp/scanner"
	"github.com/shaderpp/shaderpp/token"
)

// IncludeResolver resolves a "#include" path to a stream. isSystem is true
// for <...> includes, false for "...". A false return means inclusion
// silently fails, the host's choice.
type IncludeResolver func(path string, isSystem bool) (scanner.InputStream, bool)

// CustomDirectiveHandler is invoked when its registered directive name is
// encountered. It receives the expander (to inspect the symbol table) and
// the text already written to the output, and returns a string spliced into
// the output in its place. The scanner is not passed to it, so a handler
// cannot read the tokens that follow the directive.
type CustomDirectiveHandler func(e *Expander, currentOutput string) string

// Options configures an Expander.
type Options struct {
	// SkipComments drops commentary tokens from the output instead of
	// passing them through.
	SkipComments bool
	// UserDefines seeds the symbol table before processing begins.
	UserDefines []macro.Macro
	ErrorSink       ErrorSink
	IncludeResolver IncludeResolver
}

// Expander is the engine's single-threaded, synchronous driver. It is not
// safe for concurrent use, and its callbacks must not call back into it.
type Expander struct {
	scanner *scanner.Scanner
	macros  *macro.Table

	conditionals     []conditionalFrame
	expansionContext []string

	customHandlers map[string]CustomDirectiveHandler

	opts Options
	out  bytes.Buffer
}

// New returns an Expander reading from root, configured by opts.
// UserDefines that fail to register (e.g. a name collision with __LINE__)
// are reported to opts.ErrorSink as MacroAlreadyDefined.
func New(root scanner.InputStream, opts Options) *Expander {
	e := &Expander{
		scanner:        scanner.New(root),
		macros:         macro.NewTable(),
		customHandlers: map[string]CustomDirectiveHandler{},
		opts:           opts,
	}
	for _, m := range opts.UserDefines {
		if err := e.macros.Define(m); err != nil {
			e.reportError(MacroAlreadyDefined, 0)
		}
	}
	return e
}

// AddCustomDirective registers a host-provided directive handler. When
// "#name" is seen, handler is invoked and its return value spliced into the
// output.
func (e *Expander) AddCustomDirective(name string, handler CustomDirectiveHandler) {
	e.customHandlers[name] = handler
	e.scanner.AddCustomDirective(name)
}

// SymbolTable returns a read-only snapshot of the currently defined macros.
func (e *Expander) SymbolTable() map[string]macro.Macro {
	return e.macros.Snapshot()
}

// DefinedNames returns the set of currently defined macro names, for hosts
// that only need membership rather than each macro's full body (e.g. a
// "-dump-defined" diagnostic).
func (e *Expander) DefinedNames() collections.Set[string] {
	return e.macros.Names()
}

// Process drives the scanner to completion and returns the concatenated
// expanded text.
func (e *Expander) Process() string {
	for {
		t := e.scanner.NextToken()
		if t.Kind == token.End {
			break
		}
		e.dispatch(t)
	}
	return e.out.String()
}

func (e *Expander) reportError(kind ErrorKind, line int) {
	if e.opts.ErrorSink != nil {
		e.opts.ErrorSink(ErrorRecord{Kind: kind, Line: line})
	}
}

// emit appends text to the output unless the current conditional frame
// suppresses it.
func (e *Expander) emit(text string) {
	if !e.skip() {
		e.out.WriteString(text)
	}
}

func (e *Expander) dispatch(t token.Token) {
	switch t.Kind {
	case token.Define:
		e.handleDefine(t.Pos.Line)
	case token.Undef:
		e.handleUndef(t.Pos.Line)
	case token.If:
		e.pushConditional(e.evalConstantExpr(e.captureDirectiveLine(), t.Pos.Line) == 0)
	case token.Ifdef:
		name := e.captureDirectiveName()
		e.pushConditional(!e.macros.Defined(name))
	case token.Ifndef:
		name := e.captureDirectiveName()
		e.pushConditional(e.macros.Defined(name))
	case token.Elif:
		e.handleElif(t.Pos.Line)
	case token.Else:
		e.handleElse(t.Pos.Line)
	case token.Endif:
		e.handleEndif(t.Pos.Line)
	case token.Include:
		e.handleInclude(t.Pos.Line)
	case token.Identifier, token.Keyword:
		e.handleIdentifier(t)
	case token.RejectMacro:
		e.releaseExpansionContext(t.Text)
	case token.Concat:
		e.handleConcat()
	case token.Stringize:
		e.handleStringize(t.Pos.Line)
	case token.CustomDirective:
		e.handleCustomDirective(t)
	case token.Commentary:
		if !e.opts.SkipComments {
			e.emit(t.Text)
		}
	default:
		e.emit(t.Text)
	}
}

// skipToNewline discards tokens up to and including the next newline (or
// end of input), used to resynchronize after a directive's meaningful
// content has been consumed or a parse error abandons the rest of a line.
func (e *Expander) skipToNewline() {
	for {
		t := e.scanner.NextToken()
		if t.Kind == token.Newline || t.Kind == token.End {
			return
		}
	}
}

// captureDirectiveLine collects tokens up to (not including) the next
// newline/end, dropping spaces, for use by the #if/#elif expression
// grammar which operates on a whitespace-skipped token sequence.
func (e *Expander) captureDirectiveLine() []token.Token {
	var out []token.Token
	for {
		t := e.scanner.NextToken()
		if t.Kind == token.Newline || t.Kind == token.End {
			return out
		}
		if t.Kind == token.Space {
			continue
		}
		out = append(out, t)
	}
}

// captureDirectiveName reads a single identifier name (skipping leading
// spaces) then discards the remainder of the line, for #ifdef/#ifndef.
func (e *Expander) captureDirectiveName() string {
	for {
		t := e.scanner.NextToken()
		switch t.Kind {
		case token.Space:
			continue
		case token.Newline, token.End:
			return ""
		case token.Identifier, token.Keyword:
			e.skipToNewline()
			return t.Text
		default:
			e.skipToNewline()
			return ""
		}
	}
}

func (e *Expander) releaseExpansionContext(name string) {
	for i := len(e.expansionContext) - 1; i >= 0; i-- {
		if e.expansionContext[i] == name {
			e.expansionContext = append(e.expansionContext[:i], e.expansionContext[i+1:]...)
			return
		}
	}
}

func (e *Expander) inExpansionContext(name string) bool {
	for _, n := range e.expansionContext {
		if n == name {
			return true
		}
	}
	return false
}

// handleConcat implements the '##' operator: trailing whitespace already
// written to the output is trimmed, any whitespace before the next token
// is skipped, and that token's raw text is appended directly with no
// further expansion.
func (e *Expander) handleConcat() {
	e.trimTrailingSpaces()
	for e.scanner.PeekToken(0).Kind == token.Space {
		e.scanner.NextToken()
	}
	next := e.scanner.NextToken()
	if next.Kind == token.End {
		return
	}
	if !e.skip() {
		e.out.WriteString(next.Text)
	}
}

func (e *Expander) trimTrailingSpaces() {
	b := e.out.Bytes()
	n := len(b)
	for n > 0 && (b[n-1] == ' ' || b[n-1] == '\t') {
		n--
	}
	e.out.Truncate(n)
}

// handleStringize implements the '#' operator: legal only while an
// expansion is in progress, it consumes the next token and appends its raw
// text surrounded by double quotes.
func (e *Expander) handleStringize(line int) {
	if len(e.expansionContext) == 0 {
		e.reportError(IncorrectOperationUsage, line)
		return
	}
	next := e.scanner.NextToken()
	if next.Kind == token.End {
		return
	}
	if !e.skip() {
		e.out.WriteByte('"')
		e.out.WriteString(next.Text)
		e.out.WriteByte('"')
	}
}

func (e *Expander) handleCustomDirective(t token.Token) {
	handler, ok := e.customHandlers[t.Text]
	if !ok {
		e.reportError(UndefinedDirective, t.Pos.Line)
		return
	}
	result := handler(e, e.out.String())
	if !e.skip() {
		e.out.WriteString(result)
	}
}
