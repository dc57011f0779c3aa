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

import "github.com/shaderpp/shaderpp/token"

// handleInclude implements §4.3.3: consume spaces, require '<' or '"',
// accumulate raw text up to the matching delimiter. The path is always
// parsed to stay synchronized with the scanner; resolution is skipped when
// the current conditional frame is inactive.
func (e *Expander) handleInclude(line int) {
	e.skipSpaces()
	open := e.scanner.NextToken()

	var closeKind token.Kind
	isSystem := false
	switch open.Kind {
	case token.AngleOpen:
		closeKind = token.AngleClose
		isSystem = true
	case token.Quote:
		closeKind = token.Quote
	default:
		e.reportError(InvalidIncludeDirective, line)
		e.skipToNewline()
		return
	}

	var path string
	for {
		t := e.scanner.NextToken()
		switch t.Kind {
		case closeKind:
			e.skipToNewline()
			e.resolveInclude(path, isSystem, line)
			return
		case token.Newline, token.End:
			e.reportError(UnexpectedEndOfIncludePath, line)
			return
		default:
			path += t.Text
		}
	}
}

func (e *Expander) resolveInclude(path string, isSystem bool, line int) {
	if e.skip() {
		return
	}
	if e.opts.IncludeResolver == nil {
		return
	}
	stream, ok := e.opts.IncludeResolver(path, isSystem)
	if !ok {
		return
	}
	e.scanner.PushStream(stream)
}
