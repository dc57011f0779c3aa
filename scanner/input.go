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

import "strings"

// InputStream is a line-producing capability the scanner consumes. The
// scanner owns a stream from the push that introduces it until it pops the
// stream after the stream reports exhaustion.
type InputStream interface {
	// ReadLine returns the next physical line, including its trailing
	// newline if one is present, or the empty string once exhausted.
	ReadLine() string
	// HasNextLine reports whether ReadLine would return another line.
	HasNextLine() bool
}

// stringStream is an InputStream over an in-memory string, split into
// physical lines that retain their trailing newline.
type stringStream struct {
	lines []string
	pos   int
}

// NewStringStream returns an InputStream that serves content line by line.
// It is the stream implementation used by this package's own tests and is a
// convenient root stream for callers that already hold source text in
// memory.
func NewStringStream(content string) InputStream {
	return &stringStream{lines: splitKeepingNewlines(content)}
}

func splitKeepingNewlines(s string) []string {
	var lines []string
	for len(s) > 0 {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			lines = append(lines, s[:i+1])
			s = s[i+1:]
		} else {
			lines = append(lines, s)
			break
		}
	}
	return lines
}

func (s *stringStream) ReadLine() string {
	if s.pos >= len(s.lines) {
		return ""
	}
	line := s.lines[s.pos]
	s.pos++
	return line
}

func (s *stringStream) HasNextLine() bool {
	return s.pos < len(s.lines)
}
