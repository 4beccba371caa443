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
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/util/collection/list"
	"github.com/consensys/go-secd/pkg/util/collection/stack"
	log "github.com/sirupsen/logrus"
)

// Decoder reads tagged values from a byte source, keeping a running count of
// the bytes consumed.
type Decoder struct {
	source  *bufio.Reader
	numRead uint
	version uint16
}

// NewDecoder constructs a decoder for a given byte source.
func NewDecoder(source io.Reader) *Decoder {
	return &Decoder{source: bufio.NewReader(source)}
}

// NumRead returns the number of bytes consumed so far.
func (p *Decoder) NumRead() uint {
	return p.numRead
}

// Version returns the format version read from the preamble (if it has been
// read).
func (p *Decoder) Version() uint16 {
	return p.version
}

// CheckMagic reads the magic identifier, failing if it does not match.
func (p *Decoder) CheckMagic() error {
	var offset = p.numRead
	//
	magic, err := p.readUint16("magic")
	//
	if err != nil {
		return err
	} else if magic != MAGIC {
		return &DecodeError{Kind: BAD_MAGIC, Offset: offset,
			Msg: fmt.Sprintf("expected 0x%04X, found 0x%04X", MAGIC, magic)}
	}
	//
	return nil
}

// CheckVersion reads the format version.  An unknown version is reported as an
// UNSUPPORTED_VERSION error, after which decoding can still continue.
func (p *Decoder) CheckVersion() error {
	var offset = p.numRead
	//
	version, err := p.readUint16("version")
	//
	if err != nil {
		return err
	}
	//
	p.version = version
	//
	if version != VERSION {
		return &DecodeError{Kind: UNSUPPORTED_VERSION, Offset: offset,
			Msg: fmt.Sprintf("expected %d, found %d", VERSION, version)}
	}
	//
	return nil
}

// ReadPreamble reads and checks the preamble.  A bad magic identifier is fatal,
// whilst an unknown version is logged and otherwise ignored.
func (p *Decoder) ReadPreamble() error {
	if err := p.CheckMagic(); err != nil {
		return err
	}
	//
	if err := p.CheckVersion(); errors.Is(err, ErrUnsupportedVersion) {
		log.Warnf("decoding bytecode regardless: %s", err)
	} else if err != nil {
		return err
	}
	//
	return nil
}

// Next decodes the next value from the source, returning io.EOF (unwrapped)
// when the source is cleanly exhausted.  Any other failure is a *DecodeError.
func (p *Decoder) Next() (cell.Cell, error) {
	tag, err := p.source.ReadByte()
	//
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	} else if err != nil {
		return nil, &DecodeError{Kind: TRUNCATED_INPUT, Offset: p.numRead, Cause: err}
	}
	//
	p.numRead++
	//
	c, err := p.decode(tag)
	//
	if err == nil {
		log.Debugf("decoded %s, %d bytes read", c, p.numRead)
	}
	//
	return c, err
}

// DecodeAll decodes values until the source is exhausted.  On failure, the
// values decoded before the failure are returned with the error.
func (p *Decoder) DecodeAll() (list.List[cell.Cell], error) {
	var cells []cell.Cell
	//
	for {
		c, err := p.Next()
		//
		if errors.Is(err, io.EOF) {
			return list.New(cells...), nil
		} else if err != nil {
			return list.New(cells...), err
		}
		//
		cells = append(cells, c)
	}
}

// DecodeProgram decodes a program (i.e. a preamble followed by zero or more
// values) from a byte source.  On failure, the prefix of the program decoded
// before the failure is returned with the error.
func DecodeProgram(source io.Reader) (list.List[cell.Cell], error) {
	program, _, err := decodeProgram(NewDecoder(source))
	return program, err
}

// Decode decodes a program held in a byte slice, additionally returning the
// number of bytes consumed.
func Decode(data []byte) (list.List[cell.Cell], uint, error) {
	return decodeProgram(NewDecoder(bytes.NewReader(data)))
}

func decodeProgram(decoder *Decoder) (list.List[cell.Cell], uint, error) {
	if err := decoder.ReadPreamble(); err != nil {
		return list.Empty[cell.Cell](), decoder.NumRead(), err
	}
	//
	program, err := decoder.DecodeAll()
	//
	return program, decoder.NumRead(), err
}

// ============================================================================
// Helpers
// ============================================================================

// Decode a value beginning with a given tag.  Cons cells are decoded using an
// explicit stack of the lists currently open, hence neither the nesting depth
// nor the length of a list grows the call stack.
func (p *Decoder) decode(tag byte) (cell.Cell, error) {
	var (
		open  = stack.NewStack[[]cell.Cell]()
		value cell.Cell
		err   error
	)
	//
	for {
		// Descend through cons cells to the first car which isn't one
		for tag == TAG_CONS {
			open.Push(nil)
			//
			if tag, err = p.readByte("car"); err != nil {
				return nil, err
			}
		}
		//
		if value, err = p.decodeLeaf(tag); err != nil {
			return nil, err
		}
		// Ascend through every list which this value completes
		for {
			if open.IsEmpty() {
				return value, nil
			}
			//
			items := open.Top()
			*items = append(*items, value)
			//
			var cdr byte
			//
			if cdr, err = p.readByte("cdr"); err != nil {
				return nil, err
			} else if cdr == TAG_CONS {
				// list continues with another car
				if tag, err = p.readByte("car"); err != nil {
					return nil, err
				}
				//
				break
			} else if cdr != TAG_NIL {
				return nil, &DecodeError{Kind: UNKNOWN_TAG, Offset: p.numRead - 1, Byte: cdr,
					Msg: fmt.Sprintf("expected 0x%02X or 0x%02X in cdr position, found 0x%02X", TAG_CONS, TAG_NIL, cdr)}
			}
			//
			value = cell.NewList(open.Pop()...)
		}
	}
}

// Decode a value which is not a cons cell.
func (p *Decoder) decodeLeaf(tag byte) (cell.Cell, error) {
	var offset = p.numRead - 1
	//
	switch {
	case tag <= TAG_MAX_OPCODE:
		return cell.Opcode(tag), nil
	case tag <= TAG_MAX_RESERVED:
		return nil, &DecodeError{Kind: RESERVED_OPCODE, Offset: offset, Byte: tag,
			Msg: fmt.Sprintf("opcode 0x%02X is reserved", tag)}
	case tag == TAG_UINT:
		v, err := p.readUint64("uint")
		return cell.UInt(v), err
	case tag == TAG_SINT:
		v, err := p.readUint64("sint")
		return cell.SInt(int64(v)), err
	case tag == TAG_FLOAT:
		v, err := p.readUint64("float")
		return cell.Float(math.Float64frombits(v)), err
	case tag == TAG_CHAR:
		var buf [4]byte
		//
		if err := p.readFull(buf[:], "char"); err != nil {
			return nil, err
		}
		//
		v := binary.BigEndian.Uint32(buf[:])
		//
		if !cell.IsScalarValue(v) {
			return nil, &DecodeError{Kind: INVALID_CHAR_SCALAR, Offset: offset, Byte: tag,
				Msg: fmt.Sprintf("0x%X is not a unicode scalar value", v)}
		}
		//
		return cell.Char(rune(v)), nil
	case tag > TAG_FLOAT && tag <= TAG_MAX_CONST:
		return nil, &DecodeError{Kind: UNKNOWN_TAG, Offset: offset, Byte: tag,
			Msg: fmt.Sprintf("constant tag 0x%02X is reserved", tag)}
	}
	//
	return nil, &DecodeError{Kind: UNKNOWN_TAG, Offset: offset, Byte: tag,
		Msg: fmt.Sprintf("unsupported byte 0x%02X", tag)}
}

func (p *Decoder) readByte(what string) (byte, error) {
	b, err := p.source.ReadByte()
	//
	if err != nil {
		return 0, p.truncated(what, err)
	}
	//
	p.numRead++
	//
	return b, nil
}

func (p *Decoder) readUint16(what string) (uint16, error) {
	var buf [2]byte
	//
	if err := p.readFull(buf[:], what); err != nil {
		return 0, err
	}
	//
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (p *Decoder) readUint64(what string) (uint64, error) {
	var buf [8]byte
	//
	if err := p.readFull(buf[:], what); err != nil {
		return 0, err
	}
	//
	return binary.BigEndian.Uint64(buf[:]), nil
}

// Read exactly enough bytes to fill a given buffer.
func (p *Decoder) readFull(buf []byte, what string) error {
	n, err := io.ReadFull(p.source, buf)
	p.numRead += uint(n)
	//
	if err != nil {
		return p.truncated(what, err)
	}
	//
	return nil
}

func (p *Decoder) truncated(what string, err error) error {
	var derr = &DecodeError{Kind: TRUNCATED_INPUT, Offset: p.numRead, Msg: "end of input whilst reading " + what}
	// Retain failures of the source itself
	if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		derr.Cause = err
	}
	//
	return derr
}
