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

package token

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Cursor is a 1-based source position, used only for diagnostics and for
// the built-in __LINE__ replacement.
type Cursor struct {
	Line, Column int
}

var (
	// CursorStart is the position at the beginning of a stream.
	CursorStart = Cursor{Line: 1, Column: 1}
	// CursorEnd is the sentinel position attached to the end-of-input token.
	CursorEnd = Cursor{}
)

func (c Cursor) String() string {
	if c == CursorEnd {
		return "EOF"
	}
	return fmt.Sprintf("%d:%d", c.Line, c.Column)
}

// AdvancedBy returns the cursor position immediately after consuming text,
// assuming the receiver points at the start of text. Newlines in text
// increment the line and reset the column; other runes advance the column.
func (c Cursor) AdvancedBy(text string) Cursor {
	newlines := strings.Count(text, "\n")
	tailStart := 1 + strings.LastIndex(text, "\n")
	tailLen := utf8.RuneCountInString(text[tailStart:])

	if newlines == 0 {
		c.Column += tailLen
	} else {
		c.Line += newlines
		c.Column = 1 + tailLen
	}
	return c
}
