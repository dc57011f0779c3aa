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

// Package macro holds the symbol table: macro descriptors, their
// definition/removal, and the built-in __LINE__ entry.
package macro

import (
	"fmt"

	"github.com/shaderpp/shaderpp/internal/collections"
	"github.com/shaderpp/shaderpp/token"
)

// LineBuiltin is the name of the only built-in macro.
const LineBuiltin = "__LINE__"

// Macro is one symbol-table entry. Params is nil for an object-like macro;
// a non-nil (possibly empty) slice marks it function-like.
type Macro struct {
	Name   string
	Params []string
	Body   []token.Token
}

// Seed is a batch of macro descriptors meant to seed a Table before
// processing begins, e.g. via Options.UserDefines.
type Seed []Macro

// ObjectLike returns an object-like macro whose body is the literal
// integer 1, the usual shape for a presence-only predefined macro like
// _WIN32 or __linux__.
func ObjectLike(name string) Macro {
	return Macro{Name: name, Body: []token.Token{token.New(token.Number, "1", token.CursorStart)}}
}

// IsFunctionLike reports whether m takes a parameter list, even an empty
// one — zero-parameter function-like macros are expanded only when called
// with "()", unlike object-like macros.
func (m Macro) IsFunctionLike() bool { return m.Params != nil }

// ErrAlreadyDefined is returned by Define when name is already present.
var ErrAlreadyDefined = fmt.Errorf("macro already defined")

// ErrUndefined is returned by Undef when name is not present.
var ErrUndefined = fmt.Errorf("macro undefined")

// Table is the symbol table. Names are unique; the zero Table is not
// usable — construct with NewTable.
type Table struct {
	entries map[string]Macro
}

// NewTable returns an empty table pre-seeded only with the built-in
// __LINE__ marker entry (Body left empty; __LINE__'s value is computed at
// expansion time, not stored here).
func NewTable() *Table {
	t := &Table{entries: map[string]Macro{}}
	t.entries[LineBuiltin] = Macro{Name: LineBuiltin}
	return t
}

// IsBuiltin reports whether name identifies a macro whose expansion is
// computed rather than stored.
func IsBuiltin(name string) bool { return name == LineBuiltin }

// Define adds m to the table. Redefining an existing name (including
// __LINE__) is an error.
func (t *Table) Define(m Macro) error {
	if _, exists := t.entries[m.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyDefined, m.Name)
	}
	t.entries[m.Name] = m
	return nil
}

// Undef removes name from the table. Removing an unknown name is an error.
func (t *Table) Undef(name string) error {
	if _, exists := t.entries[name]; !exists {
		return fmt.Errorf("%w: %s", ErrUndefined, name)
	}
	delete(t.entries, name)
	return nil
}

// Lookup returns the macro registered under name, if any.
func (t *Table) Lookup(name string) (Macro, bool) {
	m, ok := t.entries[name]
	return m, ok
}

// Defined reports whether name is in the table (used by #ifdef, #ifndef,
// and the defined() operator).
func (t *Table) Defined(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Names returns the set of currently defined macro names.
func (t *Table) Names() collections.Set[string] {
	names := make(collections.Set[string], len(t.entries))
	for name := range t.entries {
		names.Add(name)
	}
	return names
}

// Snapshot returns a read-only copy of the table's entries, matching the
// engine's symbol_table() contract.
func (t *Table) Snapshot() map[string]Macro {
	out := make(map[string]Macro, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}
