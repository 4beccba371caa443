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

// ============================================================================
// Bytecode Format
// ============================================================================
//
// A program begins with a four byte preamble: a two byte magic identifier and
// a two byte format version, both big-endian.  This is followed by a sequence
// of tagged values, each of which is one of:
//
//   0x00 .. 0x1D   an instruction, identified by its opcode
//   0x1E .. 0x30   reserved opcodes
//   0xC0 car cdr   a cons cell, where cdr is either 0xC0 (the list continues
//                  with another car) or 0x00 (the list ends)
//   0xC1 u64       an unsigned integer
//   0xC2 i64       a signed integer
//   0xC3 u32       a character (which must be a Unicode scalar value)
//   0xC4 f64       a float (IEEE-754 double)
//   0xC5 .. 0xCF   reserved constant tags
//
// All multi-byte payloads are big-endian.  Observe that 0x00 is overloaded:
// in cdr position it terminates a list, elsewhere it is the NIL instruction.

// MAGIC identifies a bytecode file.
const MAGIC uint16 = 0x5ECD

// VERSION is the format version written by this encoder.
const VERSION uint16 = 0x0000

// PREAMBLE_SIZE is the number of bytes in the preamble.
const PREAMBLE_SIZE = 4

// Tag bytes.
const (
	TAG_NIL            byte = 0x00
	TAG_MAX_OPCODE     byte = 0x1D
	TAG_MAX_RESERVED   byte = 0x30
	TAG_CONS           byte = 0xC0
	TAG_UINT           byte = 0xC1
	TAG_SINT           byte = 0xC2
	TAG_CHAR           byte = 0xC3
	TAG_FLOAT          byte = 0xC4
	TAG_MAX_CONST      byte = 0xCF
	TAG_FIRST_RESERVED      = TAG_MAX_OPCODE + 1
)
