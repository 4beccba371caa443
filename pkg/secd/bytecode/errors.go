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
	"errors"
	"fmt"
)

// ErrorKind classifies the ways in which decoding can fail.
type ErrorKind uint8

const (
	// BAD_MAGIC indicates the input does not begin with the magic identifier.
	BAD_MAGIC ErrorKind = iota
	// UNSUPPORTED_VERSION indicates an unknown format version.  This is the
	// only non-fatal kind.
	UNSUPPORTED_VERSION
	// RESERVED_OPCODE indicates a byte in the reserved opcode range.
	RESERVED_OPCODE
	// TRUNCATED_INPUT indicates the input ended part way through a value.
	TRUNCATED_INPUT
	// INVALID_CHAR_SCALAR indicates a character payload which is not a
	// Unicode scalar value.
	INVALID_CHAR_SCALAR
	// UNKNOWN_TAG indicates a byte which identifies nothing.
	UNKNOWN_TAG
)

// Sentinel errors, one for each kind, for use with errors.Is.
var (
	ErrBadMagic           = errors.New("bad magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrReservedOpcode     = errors.New("reserved opcode")
	ErrTruncatedInput     = errors.New("truncated input")
	ErrInvalidCharScalar  = errors.New("invalid character scalar")
	ErrUnknownTag         = errors.New("unknown tag")
)

// Encoding errors.
var (
	// ErrCyclic is returned when encoding a structure which refers back to
	// itself through a back-patched placeholder frame.
	ErrCyclic = errors.New("cannot encode self-referential structure")
	// ErrInvalidOpcode is returned when encoding an unassigned opcode.
	ErrInvalidOpcode = errors.New("cannot encode invalid opcode")
	// ErrInvalidChar is returned when encoding a character which is not a
	// Unicode scalar value.
	ErrInvalidChar = errors.New("cannot encode invalid character")
)

var sentinels = [...]error{
	ErrBadMagic, ErrUnsupportedVersion, ErrReservedOpcode, ErrTruncatedInput, ErrInvalidCharScalar, ErrUnknownTag,
}

// Sentinel returns the sentinel error corresponding to this kind.
func (k ErrorKind) Sentinel() error {
	if int(k) < len(sentinels) {
		return sentinels[k]
	}
	//
	return nil
}

func (k ErrorKind) String() string {
	if s := k.Sentinel(); s != nil {
		return s.Error()
	}
	//
	return fmt.Sprintf("error(%d)", uint8(k))
}

// DecodeError reports a failure to decode, along with the offset in the input
// at which it arose.
type DecodeError struct {
	// Kind of failure
	Kind ErrorKind
	// Offset of the offending byte (or of the end of input, if truncated)
	Offset uint
	// Offending byte (where applicable)
	Byte byte
	// Additional detail
	Msg string
	// Underlying cause (e.g. from the byte source)
	Cause error
}

func (e *DecodeError) Error() string {
	var msg = fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
	//
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	//
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Cause)
	}
	//
	return msg
}

// Is allows a DecodeError to match the sentinel for its kind.
func (e *DecodeError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// Unwrap exposes the underlying cause, if any.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}
