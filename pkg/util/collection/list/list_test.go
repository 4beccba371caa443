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
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_List_Empty_01(t *testing.T) {
	var l List[int]
	//
	require.True(t, l.IsEmpty())
	require.Equal(t, uint(0), l.Len())
	require.True(t, l.Peek().IsEmpty())
	//
	_, tail, err := l.Pop()
	require.ErrorIs(t, err, ErrEmpty)
	require.True(t, tail.IsEmpty())
}

func Test_List_Push_01(t *testing.T) {
	var (
		l1 = New(2, 3)
		l2 = l1.Push(1)
	)
	// Original unchanged
	require.Equal(t, []int{2, 3}, l1.ToSlice())
	require.Equal(t, []int{1, 2, 3}, l2.ToSlice())
	// Tail is shared, not copied
	require.True(t, l2.Tail().Same(l1))
}

func Test_List_Pop_01(t *testing.T) {
	var l = New("a", "b")
	//
	head, tail, err := l.Pop()
	require.NoError(t, err)
	require.Equal(t, "a", head)
	require.Equal(t, []string{"b"}, tail.ToSlice())
	// Popping does not consume the original
	require.Equal(t, uint(2), l.Len())
}

func Test_List_Peek_01(t *testing.T) {
	var l = New(7, 8)
	//
	v, ok := l.Peek().Get()
	require.True(t, ok)
	require.Equal(t, 7, v)
}

func Test_List_Index_01(t *testing.T) {
	var l = New(10, 20, 30)
	//
	for i, expected := range []int{10, 20, 30} {
		v, err := l.Index(uint(i))
		require.NoError(t, err)
		require.Equal(t, expected, v)
	}
}

func Test_List_Index_02(t *testing.T) {
	var (
		l      = New(10, 20, 30)
		ierr   *IndexError
		_, err = l.Index(3)
	)
	//
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	require.True(t, errors.As(err, &ierr))
	require.Equal(t, uint(3), ierr.Index)
	require.Equal(t, uint(3), ierr.Length)
}

func Test_List_Equal_01(t *testing.T) {
	require.True(t, Equals(New(1, 2, 3), New(1, 2, 3)))
	require.False(t, Equals(New(1, 2, 3), New(1, 2)))
	require.False(t, Equals(New(1, 2), New(1, 3)))
	require.True(t, Equals(Empty[int](), New[int]()))
}

func Test_List_Reverse_01(t *testing.T) {
	require.Equal(t, []int{3, 2, 1}, New(1, 2, 3).Reverse().ToSlice())
	require.True(t, Empty[int]().Reverse().IsEmpty())
}

func Test_List_Append_01(t *testing.T) {
	var (
		tail = New(3, 4)
		l    = New(1, 2).Append(tail)
	)
	//
	require.Equal(t, []int{1, 2, 3, 4}, l.ToSlice())
	require.True(t, l.Tail().Tail().Same(tail))
}

func Test_List_Long_01(t *testing.T) {
	var l List[int]
	// Long lists must not blow the stack when measured or compared.
	for i := range 100_000 {
		l = l.Push(i)
	}
	//
	require.Equal(t, uint(100_000), l.Len())
	require.True(t, Equals(l, l.Reverse().Reverse()))
}
