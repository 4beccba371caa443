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
package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/util/collection/list"
	"github.com/consensys/go-secd/pkg/util/collection/stack"
)

// Encoder writes tagged values into an in-memory buffer.
type Encoder struct {
	buffer bytes.Buffer
}

// Bytes returns everything encoded so far.
func (p *Encoder) Bytes() []byte {
	return p.buffer.Bytes()
}

// WritePreamble writes the magic identifier and the current format version.
func (p *Encoder) WritePreamble() {
	var (
		magicBytes   [2]byte
		versionBytes [2]byte
	)
	//
	binary.BigEndian.PutUint16(magicBytes[:], MAGIC)
	binary.BigEndian.PutUint16(versionBytes[:], VERSION)
	// Write magic identifier
	p.buffer.Write(magicBytes[:])
	// Write version
	p.buffer.Write(versionBytes[:])
}

// Encode a single cell.  Lists are encoded as chains of cons cells terminated
// by nil.  Nothing is written if encoding fails.
func (p *Encoder) Encode(c cell.Cell) error {
	var mark = p.buffer.Len()
	//
	if err := p.encode(c); err != nil {
		p.buffer.Truncate(mark)
		return err
	}
	//
	return nil
}

// Encode a single cell into bytes, without any preamble.
func Encode(c cell.Cell) ([]byte, error) {
	var encoder Encoder
	//
	if err := encoder.Encode(c); err != nil {
		return nil, err
	}
	//
	return encoder.Bytes(), nil
}

// EncodeProgram encodes a program, which consists of a preamble followed by
// each cell of the program in turn.
func EncodeProgram(program list.List[cell.Cell]) ([]byte, error) {
	var encoder Encoder
	//
	encoder.WritePreamble()
	//
	for c := range program.All() {
		if err := encoder.Encode(c); err != nil {
			return nil, err
		}
	}
	//
	return encoder.Bytes(), nil
}

// ============================================================================
// Helpers
// ============================================================================

// A list which is part way through being encoded.
type pending struct {
	// Items remaining to be encoded
	rest list.List[cell.Cell]
	// Identity of the placeholder being encoded (if applicable)
	key any
}

// Encode a cell using an explicit stack of partially encoded lists.  Patched
// placeholders can make a structure refer back to itself, and such structures
// have no finite encoding.
func (p *Encoder) encode(c cell.Cell) error {
	var (
		lists  = stack.NewStack[pending]()
		active = make(map[any]bool)
	)
	//
	if err := p.open(c, lists, active); err != nil {
		return err
	}
	//
	for !lists.IsEmpty() {
		top := lists.Top()
		item, rest, err := top.rest.Pop()
		//
		if err != nil {
			// list is complete
			p.buffer.WriteByte(TAG_NIL)
			delete(active, top.key)
			lists.Pop()
			//
			continue
		}
		//
		top.rest = rest
		//
		p.buffer.WriteByte(TAG_CONS)
		//
		if err := p.open(item, lists, active); err != nil {
			return err
		}
	}
	//
	return nil
}

// Begin encoding a given cell, which either writes it out entirely (for an
// atom or instruction) or pushes it onto the stack of lists to encode.
func (p *Encoder) open(c cell.Cell, lists *stack.Stack[pending], active map[any]bool) error {
	l, ok := c.(cell.List)
	//
	if !ok {
		return p.encodeLeaf(c)
	}
	//
	key := l.Key()
	//
	if key != nil {
		if active[key] {
			return ErrCyclic
		}
		//
		active[key] = true
	}
	//
	lists.Push(pending{l.Items(), key})
	//
	return nil
}

func (p *Encoder) encodeLeaf(c cell.Cell) error {
	var buf [8]byte
	//
	switch c := c.(type) {
	case cell.Opcode:
		if !c.IsValid() {
			return fmt.Errorf("%w: 0x%02X", ErrInvalidOpcode, uint8(c))
		}
		//
		p.buffer.WriteByte(byte(c))
	case cell.UInt:
		binary.BigEndian.PutUint64(buf[:], uint64(c))
		p.buffer.WriteByte(TAG_UINT)
		p.buffer.Write(buf[:])
	case cell.SInt:
		binary.BigEndian.PutUint64(buf[:], uint64(c))
		p.buffer.WriteByte(TAG_SINT)
		p.buffer.Write(buf[:])
	case cell.Float:
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(float64(c)))
		p.buffer.WriteByte(TAG_FLOAT)
		p.buffer.Write(buf[:])
	case cell.Char:
		if c < 0 || !cell.IsScalarValue(uint32(c)) {
			return fmt.Errorf("%w: 0x%X", ErrInvalidChar, int32(c))
		}
		//
		binary.BigEndian.PutUint32(buf[:4], uint32(c))
		p.buffer.WriteByte(TAG_CHAR)
		p.buffer.Write(buf[:4])
	default:
		return fmt.Errorf("cannot encode %s", cell.Describe(c))
	}
	//
	return nil
}
