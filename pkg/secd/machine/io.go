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
package machine

import (
	"bufio"
	"errors"
	"io"

	"github.com/consensys/go-secd/pkg/secd/cell"
)

// CharIO binds the READC and WRITEC instructions to an actual device.
type CharIO interface {
	// ReadChar reads the next character, returning io.EOF at the end of input.
	ReadChar() (rune, error)
	// WriteChar writes a single character.
	WriteChar(r rune) error
}

// StreamIO is a character device over a pair of byte streams, decoding and
// encoding characters as UTF-8.  Either stream may be nil, in which case
// reading gives end of input and writing is an error.
type StreamIO struct {
	in  *bufio.Reader
	out *bufio.Writer
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ CharIO = (*StreamIO)(nil)

// NewStreamIO constructs a character device reading from in and writing to
// out.  Output is buffered until Flush is called.
func NewStreamIO(in io.Reader, out io.Writer) *StreamIO {
	var dev StreamIO
	//
	if in != nil {
		dev.in = bufio.NewReader(in)
	}
	//
	if out != nil {
		dev.out = bufio.NewWriter(out)
	}
	//
	return &dev
}

// ReadChar implementation for the CharIO interface.
func (p *StreamIO) ReadChar() (rune, error) {
	if p.in == nil {
		return 0, io.EOF
	}
	//
	r, _, err := p.in.ReadRune()
	//
	return r, err
}

// WriteChar implementation for the CharIO interface.
func (p *StreamIO) WriteChar(r rune) error {
	if p.out == nil {
		return errors.New("no output stream")
	}
	//
	_, err := p.out.WriteRune(r)
	//
	return err
}

// Flush any buffered output.
func (p *StreamIO) Flush() error {
	if p.out == nil {
		return nil
	}
	//
	return p.out.Flush()
}

// Execute READC or WRITEC.
func (p *executor) charIO() *EvalError {
	if p.io == nil {
		return failure(UNBOUND_IO, p.op, "no character device")
	}
	//
	if p.op == cell.READC {
		r, err := p.io.ReadChar()
		//
		switch {
		case errors.Is(err, io.EOF):
			p.push(cell.Nil)
		case err != nil:
			return &EvalError{Kind: IO_FAILURE, Op: p.op, HasOp: true, Cause: err}
		default:
			p.push(cell.Char(r))
		}
		//
		return nil
	}
	//
	item, err := p.pop()
	if err != nil {
		return err
	}
	//
	c, ok := item.(cell.Char)
	if !ok {
		return mismatch(p.op, "char", item)
	}
	//
	if werr := p.io.WriteChar(rune(c)); werr != nil {
		return &EvalError{Kind: IO_FAILURE, Op: p.op, HasOp: true, Cause: werr}
	}
	//
	return nil
}
