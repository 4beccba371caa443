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
	"fmt"
	"strings"
)

// Opcode identifies a machine instruction.  The numeric value of each opcode
// is also its byte in the bytecode format.
type Opcode uint8

// NOTE: the values here are fixed by the bytecode format and must not change.
const (
	NIL    Opcode = 0x00 // push the empty list
	LD     Opcode = 0x01 // LD (f s): push Env[f][s]
	LDF    Opcode = 0x02 // LDF code: push closure (code env)
	AP     Opcode = 0x03 // apply closure to argument list
	APCC   Opcode = 0x04 // apply closure, passing the current continuation
	JOIN   Opcode = 0x05 // resume after SEL
	RAP    Opcode = 0x06 // recursive apply (back-patches DUM frame)
	RET    Opcode = 0x07 // return from closure
	DUM    Opcode = 0x08 // push placeholder frame onto Env
	SEL    Opcode = 0x09 // SEL then else: conditional branch
	ADD    Opcode = 0x0A
	SUB    Opcode = 0x0B
	MUL    Opcode = 0x0C
	DIV    Opcode = 0x0D
	MOD    Opcode = 0x0E
	FDIV   Opcode = 0x0F
	EQ     Opcode = 0x10
	GT     Opcode = 0x11
	GTE    Opcode = 0x12
	LT     Opcode = 0x13
	LTE    Opcode = 0x14
	ATOM   Opcode = 0x15
	NULL   Opcode = 0x16
	READC  Opcode = 0x17
	WRITEC Opcode = 0x18
	CONS   Opcode = 0x19
	CAR    Opcode = 0x1A
	CDR    Opcode = 0x1B
	LDC    Opcode = 0x1C // LDC constant: push constant
	STOP   Opcode = 0x1D
)

// MAX_OPCODE is the highest opcode currently assigned.  Everything above it
// (upto the reserved limit in the bytecode format) is reserved.
const MAX_OPCODE = STOP

var mnemonics = [...]string{
	"NIL", "LD", "LDF", "AP", "APCC", "JOIN", "RAP", "RET", "DUM", "SEL",
	"ADD", "SUB", "MUL", "DIV", "MOD", "FDIV",
	"EQ", "GT", "GTE", "LT", "LTE",
	"ATOM", "NULL", "READC", "WRITEC", "CONS", "CAR", "CDR", "LDC", "STOP",
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ Cell = NIL

func (Opcode) cell() {}

// IsValid checks whether this opcode is assigned to an instruction.
func (op Opcode) IsValid() bool {
	return op <= MAX_OPCODE
}

// Equals implementation for the Cell interface.
func (op Opcode) Equals(other Cell) bool {
	o, ok := other.(Opcode)
	return ok && o == op
}

func (op Opcode) String() string {
	if op.IsValid() {
		return mnemonics[op]
	}
	//
	return fmt.Sprintf("OP(0x%02X)", uint8(op))
}

// Operands returns the number of inline operands which this instruction
// consumes from the control stream.
func (op Opcode) Operands() uint {
	switch op {
	case LD, LDF, LDC:
		return 1
	case SEL:
		return 2
	default:
		return 0
	}
}

// Opcodes returns every assigned opcode in numeric order.
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, len(mnemonics))
	//
	for i := range len(mnemonics) {
		ops = append(ops, Opcode(i))
	}
	//
	return ops
}

// ParseOpcode looks up an opcode by its mnemonic, ignoring case.
func ParseOpcode(name string) (Opcode, bool) {
	name = strings.ToUpper(name)
	//
	for i, m := range mnemonics {
		if m == name {
			return Opcode(i), true
		}
	}
	//
	return 0, false
}
