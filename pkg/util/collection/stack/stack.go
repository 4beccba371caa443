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
package stack

// Stack is a mutable LIFO work stack backed by an array.  Unlike a persistent
// list, pushing and popping modify the stack in place, making it suitable for
// scratch state owned by a single algorithm (e.g. tracking the lists still
// open whilst decoding).
type Stack[T any] struct {
	items []T
}

// NewStack returns an empty stack
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Stack[T]) IsEmpty() bool {
	return len(p.items) == 0
}

// Len returns the number of items on the stack.
func (p *Stack[T]) Len() uint {
	return uint(len(p.items))
}

// Top returns a pointer to the topmost item, allowing it to be updated in
// place.  This panics if the stack is empty.
func (p *Stack[T]) Top() *T {
	var n = len(p.items)
	//
	if n == 0 {
		panic("top of empty stack")
	}
	//
	return &p.items[n-1]
}

// Push a new item onto the stack
func (p *Stack[T]) Push(item T) {
	p.items = append(p.items, item)
}

// Pop the topmost item off the stack, which panics if the stack is empty.
func (p *Stack[T]) Pop() T {
	var n = len(p.items)
	//
	if n == 0 {
		panic("cannot pop from empty stack")
	}
	// Get last item
	item := p.items[n-1]
	// Clear the slot so the item can be collected
	var empty T
	p.items[n-1] = empty
	p.items = p.items[:n-1]
	// Done
	return item
}

// Clear removes all items from the stack, retaining its capacity.
func (p *Stack[T]) Clear() {
	clear(p.items)
	p.items = p.items[:0]
}
