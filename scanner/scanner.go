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

// Package scanner turns a stack of InputStreams into a pull-based stream of
// tokens: directives, operators, identifiers, numbers, string delimiters
// and commentary. It never signals errors itself — malformed input is
// passed through as best-effort blob tokens, leaving interpretation to the
// caller.
package scanner

import (
	"strings"

	"github.com/shaderpp/shaderpp/token"
)

// Scanner produces tokens on demand from the active (topmost) stream in its
// stream stack. It owns a lookahead/pushback queue so callers can peek
// ahead and feed replacement tokens back through the same pipeline.
type Scanner struct {
	streams []InputStream
	buf     string
	cursor  token.Cursor
	lastPos token.Cursor

	lookahead []token.Token

	customDirectives map[string]struct{}
}

// New returns a Scanner reading from root.
func New(root InputStream) *Scanner {
	return &Scanner{
		streams:          []InputStream{root},
		cursor:           token.CursorStart,
		customDirectives: map[string]struct{}{},
	}
}

// AddCustomDirective registers name so that a "#name" directive line
// produces a token.CustomDirective token carrying name as its text, instead
// of falling through to stringize/concat/blob handling.
func (s *Scanner) AddCustomDirective(name string) {
	s.customDirectives[name] = struct{}{}
}

// PushStream makes in the active stream; the scanner takes ownership and
// will pop it once it reports exhaustion.
func (s *Scanner) PushStream(in InputStream) {
	s.streams = append(s.streams, in)
}

// PopStream discards the active stream without draining it, used when a
// caller abandons an include early.
func (s *Scanner) PopStream() {
	if len(s.streams) > 0 {
		s.streams = s.streams[:len(s.streams)-1]
	}
}

// PushTokensFront inserts sequence at the head of the lookahead queue, used
// by callers feeding macro replacement tokens back through the scanner.
func (s *Scanner) PushTokensFront(sequence []token.Token) {
	if len(sequence) == 0 {
		return
	}
	merged := make([]token.Token, 0, len(sequence)+len(s.lookahead))
	merged = append(merged, sequence...)
	merged = append(merged, s.lookahead...)
	s.lookahead = merged
}

// PeekToken returns a lookahead token without consuming it; offset 0 peeks
// the token NextToken would return next.
func (s *Scanner) PeekToken(offset int) token.Token {
	for len(s.lookahead) <= offset {
		t := s.produce()
		s.lookahead = append(s.lookahead, t)
		if t.Kind == token.End {
			break
		}
	}
	if offset < len(s.lookahead) {
		return s.lookahead[offset]
	}
	return token.EndToken
}

// NextToken returns the next token from the active stream, or token.End
// once every stream is exhausted.
func (s *Scanner) NextToken() token.Token {
	var t token.Token
	if len(s.lookahead) > 0 {
		t = s.lookahead[0]
		s.lookahead = s.lookahead[1:]
	} else {
		t = s.produce()
	}
	s.lastPos = t.Pos
	return t
}

// CurrentLine is the line of the most recently produced token.
func (s *Scanner) CurrentLine() int { return s.lastPos.Line }

// CurrentColumn is the column of the most recently produced token.
func (s *Scanner) CurrentColumn() int { return s.lastPos.Column }

// produce performs the actual per-call scanning logic: acquire a non-empty
// buffer, silently skip folded continuation markers, then scan one token.
func (s *Scanner) produce() token.Token {
	for {
		if !s.fillBuffer() {
			return token.EndToken
		}
		if strings.HasPrefix(s.buf, continuationMarker) {
			s.advance(len(continuationMarker))
			continue
		}
		return s.scanOne()
	}
}

// fillBuffer ensures s.buf is non-empty, popping exhausted streams and
// folding backslash-continued lines from the new active stream. It returns
// false only once every stream is exhausted.
func (s *Scanner) fillBuffer() bool {
	for s.buf == "" {
		if len(s.streams) == 0 {
			return false
		}
		top := s.streams[len(s.streams)-1]
		if !top.HasNextLine() {
			s.streams = s.streams[:len(s.streams)-1]
			continue
		}
		s.buf = joinContinuations(top.ReadLine(), top)
	}
	return true
}

// consume carves the first length bytes off s.buf into a token of kind
// kind, advancing the cursor by the consumed text.
func (s *Scanner) consume(kind token.Kind, length int) token.Token {
	text := s.buf[:length]
	pos := s.cursor
	s.advance(length)
	return token.New(kind, text, pos)
}

func (s *Scanner) advance(length int) {
	s.cursor = s.cursor.AdvancedBy(s.buf[:length])
	s.buf = s.buf[length:]
}

// scanOne consumes exactly one token from the front of s.buf, which is
// guaranteed non-empty and not positioned at a continuation marker.
func (s *Scanner) scanOne() token.Token {
	b := s.buf
	switch {
	case b[0] == '\r' && len(b) > 1 && b[1] == '\n':
		return s.consume(token.Newline, 2)
	case b[0] == '\n':
		return s.consume(token.Newline, 1)
	case isSpace(b[0]):
		return s.consume(token.Space, 1)
	case b[0] == '/' && len(b) > 1 && b[1] == '/':
		return s.scanSingleLineComment()
	case b[0] == '/' && len(b) > 1 && b[1] == '*':
		return s.scanMultiLineComment()
	case b[0] == '#':
		return s.scanHash()
	case isDigit(b[0]):
		return s.consume(token.Number, matchLen(reNumber, b))
	case isIdentStart(b[0]):
		return s.scanIdentifier()
	default:
		if kind, n, ok := matchPunctuation(b); ok {
			return s.consume(kind, n)
		}
		return s.consume(token.Blob, blobLen(b))
	}
}

// scanSingleLineComment consumes a "//" comment up to (not including) the
// terminating newline, which the next call scans as its own token.
func (s *Scanner) scanSingleLineComment() token.Token {
	if i := strings.IndexByte(s.buf, '\n'); i >= 0 {
		return s.consume(token.Commentary, i)
	}
	return s.consume(token.Commentary, len(s.buf))
}

// scanMultiLineComment consumes a "/* ... */" comment, pulling further
// physical lines as needed. An unterminated comment at true end of input is
// silently closed rather than treated as an error.
func (s *Scanner) scanMultiLineComment() token.Token {
	pos := s.cursor
	var text strings.Builder
	for {
		if i := strings.Index(s.buf, "*/"); i >= 0 {
			text.WriteString(s.buf[:i+2])
			s.advance(i + 2)
			break
		}
		text.WriteString(s.buf)
		s.advance(len(s.buf))
		if !s.fillBuffer() {
			break
		}
	}
	return token.Token{Kind: token.Commentary, Text: text.String(), Pos: pos}
}

// scanHash implements step 5 of the scanning algorithm: directive lookup
// (built-in table, then registered custom directives), falling back to
// concat/stringize/blob based on the character immediately after '#'.
func (s *Scanner) scanHash() token.Token {
	rest := s.buf[1:]
	wsLen := 0
	for wsLen < len(rest) && isSpace(rest[wsLen]) {
		wsLen++
	}
	candidate := rest[wsLen:]

	if kind, name, ok := matchDirectiveKeyword(candidate); ok {
		return s.consume(kind, 1+wsLen+len(name))
	}
	if name, ok := s.matchCustomDirective(candidate); ok {
		return token.Token{
			Kind: token.CustomDirective,
			Text: name,
			Pos:  s.cursorAfterConsuming(1 + wsLen + len(name)),
		}
	}

	switch {
	case len(rest) > 0 && rest[0] == '#':
		return s.consume(token.Concat, 2)
	case len(rest) == 0 || isSpace(rest[0]) || rest[0] == '\n':
		return s.consume(token.Blob, 1)
	default:
		return s.consume(token.Stringize, 1)
	}
}

// cursorAfterConsuming records a token's start position, then consumes
// length bytes; it exists so scanHash can build a CustomDirective token
// without reusing consume's fixed kind/text shape.
func (s *Scanner) cursorAfterConsuming(length int) token.Cursor {
	pos := s.cursor
	s.advance(length)
	return pos
}

func matchDirectiveKeyword(candidate string) (token.Kind, string, bool) {
	for _, d := range directives {
		if !strings.HasPrefix(candidate, d.keyword) {
			continue
		}
		if isWordBoundary(candidate, len(d.keyword)) {
			return d.kind, d.keyword, true
		}
	}
	return 0, "", false
}

func (s *Scanner) matchCustomDirective(candidate string) (string, bool) {
	n := matchLen(reIdentifier, candidate)
	if n == 0 {
		return "", false
	}
	name := candidate[:n]
	if _, ok := s.customDirectives[name]; ok {
		return name, true
	}
	return "", false
}

// isWordBoundary reports whether candidate[at] does not continue an
// identifier, so "ifdef" does not match inside "ifdefine".
func isWordBoundary(candidate string, at int) bool {
	if at >= len(candidate) {
		return true
	}
	c := candidate[at]
	return !(isIdentStart(c) || isDigit(c))
}

// scanIdentifier consumes an identifier run, tagging it as token.Defined,
// token.Keyword, or plain token.Identifier.
func (s *Scanner) scanIdentifier() token.Token {
	n := matchLen(reIdentifier, s.buf)
	text := s.buf[:n]
	switch {
	case text == "defined":
		return s.consume(token.Defined, n)
	default:
		if _, ok := keywords[text]; ok {
			return s.consume(token.Keyword, n)
		}
		return s.consume(token.Identifier, n)
	}
}
