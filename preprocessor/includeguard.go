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
	"bufio"
	"regexp"
	"strings"
)

var (
	reIfndefGuard = regexp.MustCompile(`^\s*#\s*ifndef\s+([A-Za-z_][A-Za-z0-9_]*)\s*$`)
	reDefineGuard = regexp.MustCompile(`^\s*#\s*define\s+([A-Za-z_][A-Za-z0-9_]*)\b`)
)

// DetectIncludeGuard reports the guard macro name if the first non-blank
// lines of content follow the classic "#ifndef GUARD" / "#define GUARD"
// pattern, and the empty string otherwise. It is a convenience for hosts
// building an include resolver that wants to avoid reopening a header it
// has already fully processed; the engine's own control flow never calls
// it, so re-inclusion remains entirely the host's decision per §4.3.3.
func DetectIncludeGuard(content string) string {
	scanner := bufio.NewScanner(strings.NewReader(content))
	var ifndefName string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if ifndefName == "" {
			m := reIfndefGuard.FindStringSubmatch(line)
			if m == nil {
				return ""
			}
			ifndefName = m[1]
			continue
		}
		m := reDefineGuard.FindStringSubmatch(line)
		if m == nil || m[1] != ifndefName {
			return ""
		}
		return ifndefName
	}
	return ""
}
