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
package list

import (
	"errors"
	"fmt"
	"iter"

	"github.com/consensys/go-secd/pkg/util"
)

// ErrEmpty is returned when removing an item from an empty list.
var ErrEmpty = errors.New("list is empty")

// ErrIndexOutOfRange is matched (via errors.Is) by every IndexError.
var ErrIndexOutOfRange = errors.New("list index out of range")

// IndexError reports an attempt to access an item beyond the end of a list.
type IndexError struct {
	// Index requested
	Index uint
	// Length of the list at the time of the request
	Length uint
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("list index %d out of range (length %d)", e.Index, e.Length)
}

// Is allows an IndexError to match ErrIndexOutOfRange.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// List is an immutable singly linked sequence whose tails are shared between
// every list built from them.  The zero value is the empty list.  No
// operation ever modifies an existing list: pushing returns a new list, and
// popping returns the tail which is already shared with the original.
type List[T any] struct {
	node *node[T]
}

type node[T any] struct {
	head T
	tail List[T]
}

// Empty returns the empty list.
func Empty[T any]() List[T] {
	return List[T]{}
}

// New constructs a list holding the given items, where the first item given
// becomes the head of the list.
func New[T any](items ...T) List[T] {
	var l List[T]
	//
	for i := len(items) - 1; i >= 0; i-- {
		l = l.Push(items[i])
	}
	//
	return l
}

// IsEmpty checks whether this list has no items.
func (l List[T]) IsEmpty() bool {
	return l.node == nil
}

// Push returns a new list with the given item as its head and this list as its
// tail.  This list is unaffected.
func (l List[T]) Push(item T) List[T] {
	return List[T]{&node[T]{item, l}}
}

// Pop returns the head of this list along with its tail, or ErrEmpty if there
// is nothing to pop.
func (l List[T]) Pop() (T, List[T], error) {
	if l.node == nil {
		var empty T
		return empty, l, ErrEmpty
	}
	//
	return l.node.head, l.node.tail, nil
}

// Peek returns the head of this list, if there is one.
func (l List[T]) Peek() util.Option[T] {
	if l.node == nil {
		return util.None[T]()
	}
	//
	return util.Some(l.node.head)
}

// Tail returns everything after the head of this list.  The tail of the empty
// list is the empty list.
func (l List[T]) Tail() List[T] {
	if l.node == nil {
		return l
	}
	//
	return l.node.tail
}

// Index returns the nth item from the head of this list (counting from 0).
func (l List[T]) Index(n uint) (T, error) {
	var i uint
	//
	for it := l; it.node != nil; it = it.node.tail {
		if i == n {
			return it.node.head, nil
		}
		//
		i++
	}
	//
	var empty T
	//
	return empty, &IndexError{n, i}
}

// Len counts the items in this list.  This traverses the whole list.
func (l List[T]) Len() uint {
	var n uint
	//
	for it := l; it.node != nil; it = it.node.tail {
		n++
	}
	//
	return n
}

// All iterates the items of this list, starting from the head.
func (l List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for it := l; it.node != nil; it = it.node.tail {
			if !yield(it.node.head) {
				return
			}
		}
	}
}

// ToSlice returns the items of this list in order, head first.
func (l List[T]) ToSlice() []T {
	var items []T
	//
	for item := range l.All() {
		items = append(items, item)
	}
	//
	return items
}

// Reverse returns a new list holding the items of this list in reverse order.
func (l List[T]) Reverse() List[T] {
	var r List[T]
	//
	for item := range l.All() {
		r = r.Push(item)
	}
	//
	return r
}

// Append returns a new list holding the items of this list followed by those
// of the other.  The other list is shared, whilst this list is copied.
func (l List[T]) Append(other List[T]) List[T] {
	var (
		items  = l.ToSlice()
		result = other
	)
	//
	for i := len(items) - 1; i >= 0; i-- {
		result = result.Push(items[i])
	}
	//
	return result
}

// Same checks whether two lists share the same first node, meaning they are
// the very same list rather than merely equal ones.
func (l List[T]) Same(other List[T]) bool {
	return l.node == other.node
}

// Equal determines whether two lists hold pairwise equal items, as determined
// by the given item equality.
func (l List[T]) Equal(other List[T], eq func(T, T) bool) bool {
	var a, b = l, other
	//
	for a.node != nil && b.node != nil {
		if !eq(a.node.head, b.node.head) {
			return false
		}
		//
		a, b = a.node.tail, b.node.tail
	}
	//
	return a.node == nil && b.node == nil
}

// Equals determines whether two lists of comparable items are equal.
func Equals[T comparable](l, r List[T]) bool {
	return l.Equal(r, func(a, b T) bool { return a == b })
}

// String renders the list using the default formatting of its items.
func (l List[T]) String() string {
	var s = "["
	//
	for i, item := range l.ToSlice() {
		if i != 0 {
			s += ", "
		}
		//
		s += fmt.Sprintf("%v", item)
	}
	//
	return s + "]"
}
