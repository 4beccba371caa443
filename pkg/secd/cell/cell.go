// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cell

import (
	"errors"

	"github.com/consensys/go-secd/pkg/util/collection/list"
)

// Cell is the unit of data held in every machine register and written to the
// wire.  A cell is exactly one of: an instruction (Opcode), an atom (UInt,
// SInt, Char or Float) or a List of cells.  The set of alternatives is closed.
type Cell interface {
	// Equals determines whether this cell is structurally equal to another.
	Equals(other Cell) bool
	// String returns the textual (assembly) form of this cell.
	String() string
	// marker restricting implementations to this package.
	cell()
}

// ErrNotPlaceholder is returned when attempting to back-patch a list which was
// not created as a placeholder.
var ErrNotPlaceholder = errors.New("list is not a placeholder frame")

// ErrAlreadyPatched is returned when attempting to back-patch a placeholder
// which has already been filled.
var ErrAlreadyPatched = errors.New("placeholder frame already patched")

// List is the list alternative of a cell.  Ordinarily, a list is an immutable
// value.  A placeholder list (see Placeholder) additionally holds a shared
// handle whose contents are filled in later.  Every copy of a placeholder sees
// the contents once filled, which is how a recursive closure ends up capturing
// an environment that refers back to itself.
type List struct {
	items list.List[Cell]
	// non-nil only for placeholders
	hole *hole
}

type hole struct {
	items  list.List[Cell]
	filled bool
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ Cell = List{}

// Nil is the canonical empty list, which also serves as boolean false.
var Nil = List{}

// True is the canonical non-empty list used as boolean true.
var True = NewList(SInt(1))

// NewList constructs a list cell holding the given cells, where the first
// becomes the head.
func NewList(items ...Cell) List {
	return List{items: list.New(items...)}
}

// ListOf wraps a persistent list of cells as a cell.
func ListOf(items list.List[Cell]) List {
	return List{items: items}
}

// Placeholder constructs an initially empty list which may subsequently be
// filled exactly in place via Patch.
func Placeholder() List {
	return List{hole: &hole{}}
}

func (List) cell() {}

// Items returns the cells held in this list.  For a placeholder, these are the
// contents it was last patched with (initially none).
func (l List) Items() list.List[Cell] {
	if l.hole != nil {
		return l.hole.items
	}
	//
	return l.items
}

// IsEmpty checks whether this list holds no cells.
func (l List) IsEmpty() bool {
	return l.Items().IsEmpty()
}

// Len returns the number of cells in this list.
func (l List) Len() uint {
	return l.Items().Len()
}

// IsPlaceholder checks whether this list was created by Placeholder.
func (l List) IsPlaceholder() bool {
	return l.hole != nil
}

// IsPatched checks whether this list is a placeholder which has been filled.
func (l List) IsPatched() bool {
	return l.hole != nil && l.hole.filled
}

// Key returns a comparable identity shared by every copy of a placeholder, or
// nil for an ordinary list.  This allows traversals outside this package to
// detect a placeholder being revisited.
func (l List) Key() any {
	if l.hole == nil {
		return nil
	}
	//
	return l.hole
}

// Patch fills the contents of a placeholder.  Every copy of the placeholder
// observes the new contents.  A placeholder can be filled at most once.
func (l List) Patch(items list.List[Cell]) error {
	if l.hole == nil {
		return ErrNotPlaceholder
	} else if l.hole.filled {
		return ErrAlreadyPatched
	}
	//
	l.hole.items = items
	l.hole.filled = true
	//
	return nil
}

// Equals implementation for the Cell interface.
func (l List) Equals(other Cell) bool {
	return equals(l, other, nil)
}

func (l List) String() string {
	return format(l)
}

// Bool converts a boolean into the canonical true or false cell.
func Bool(b bool) Cell {
	if b {
		return True
	}
	//
	return Nil
}

// IsNil checks whether a given cell is the empty list.
func IsNil(c Cell) bool {
	l, ok := c.(List)
	return ok && l.IsEmpty()
}

// IsTrue checks whether a given cell counts as true, which is the case for
// every cell other than the empty list.
func IsTrue(c Cell) bool {
	return !IsNil(c)
}

// AsList returns the given cell as a list, if it is one.
func AsList(c Cell) (List, bool) {
	l, ok := c.(List)
	return l, ok
}

// Describe returns a short description of what sort of cell is given, for use
// in error messages.
func Describe(c Cell) string {
	switch c := c.(type) {
	case nil:
		return "nothing"
	case Opcode:
		return "instruction"
	case Atom:
		return c.Kind().String()
	case List:
		if c.IsEmpty() {
			return "nil"
		}
		//
		return "list"
	}
	//
	return "unknown"
}

// Cells converts a persistent list of cells into a slice.
func Cells(l List) []Cell {
	return l.Items().ToSlice()
}

// Same checks whether two lists are literally the same, either because they
// share a placeholder or because they share the same underlying list.
func Same(l, r List) bool {
	if l.hole != nil || r.hole != nil {
		return l.hole == r.hole
	}
	//
	return l.items.Same(r.items)
}

// ============================================================================
// Equality
// ============================================================================

type holePair struct {
	left, right *hole
}

// Compare two cells for structural equality.  Placeholders can (once patched)
// make a structure refer back to itself, hence the pairs of placeholders
// currently being compared are tracked.  Revisiting such a pair means no
// difference was found along that path.
func equals(l List, other Cell, seen map[holePair]bool) bool {
	r, ok := other.(List)
	//
	if !ok {
		return false
	}
	//
	if l.hole != nil && r.hole != nil {
		if l.hole == r.hole {
			return true
		}
		//
		key := holePair{l.hole, r.hole}
		//
		if seen[key] {
			return true
		} else if seen == nil {
			seen = make(map[holePair]bool)
		}
		//
		seen[key] = true
		defer delete(seen, key)
	}
	//
	return l.Items().Equal(r.Items(), func(a, b Cell) bool {
		if al, ok := a.(List); ok {
			return equals(al, b, seen)
		}
		//
		return a.Equals(b)
	})
}
