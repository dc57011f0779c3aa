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

// conditionalFrame is one entry of the #if stack. parentActive is resolved
// once at push time from the whole enclosing chain, so the output decision
// for any token only ever needs to look at the top frame:
// should_skip || !parent_active ≡ skip output.
type conditionalFrame struct {
	shouldSkip     bool
	hasElse        bool
	anyBranchTaken bool
	parentActive   bool
}

// currentActive reports whether a frame pushed right now would inherit an
// active chain: true iff the conditional stack is empty, or its top frame
// is itself active (not skipped, and its own parent active).
func (e *Expander) currentActive() bool {
	if len(e.conditionals) == 0 {
		return true
	}
	top := e.conditionals[len(e.conditionals)-1]
	return top.parentActive && !top.shouldSkip
}

// pushConditional opens a new frame with the given initial predicate.
func (e *Expander) pushConditional(shouldSkip bool) {
	e.conditionals = append(e.conditionals, conditionalFrame{
		shouldSkip:     shouldSkip,
		anyBranchTaken: !shouldSkip,
		parentActive:   e.currentActive(),
	})
}

// topConditional returns a pointer to the active frame; callers must only
// invoke it when the stack is non-empty.
func (e *Expander) topConditional() *conditionalFrame {
	return &e.conditionals[len(e.conditionals)-1]
}

// skip reports whether output should currently be suppressed.
func (e *Expander) skip() bool {
	if len(e.conditionals) == 0 {
		return false
	}
	top := e.topConditional()
	return top.shouldSkip || !top.parentActive
}

func (e *Expander) handleElif(line int) {
	if len(e.conditionals) == 0 {
		e.reportError(UnbalancedEndif, line)
		return
	}
	frame := e.topConditional()
	exprTokens := e.captureDirectiveLine()
	if frame.hasElse {
		e.reportError(ElifBlockAfterElseFound, line)
		return
	}
	result := e.evalConstantExpr(exprTokens, line)
	newSkip := frame.anyBranchTaken || result == 0
	frame.shouldSkip = newSkip
	if !newSkip {
		frame.anyBranchTaken = true
	}
}

func (e *Expander) handleElse(line int) {
	e.skipToNewline()
	if len(e.conditionals) == 0 {
		e.reportError(UnbalancedEndif, line)
		return
	}
	frame := e.topConditional()
	if frame.hasElse {
		e.reportError(AnotherElseBlockFound, line)
		return
	}
	newSkip := frame.anyBranchTaken || !frame.shouldSkip
	frame.shouldSkip = newSkip
	frame.hasElse = true
	if !newSkip {
		frame.anyBranchTaken = true
	}
}

func (e *Expander) handleEndif(line int) {
	e.skipToNewline()
	if len(e.conditionals) == 0 {
		e.reportError(UnbalancedEndif, line)
		return
	}
	e.conditionals = e.conditionals[:len(e.conditionals)-1]
}
