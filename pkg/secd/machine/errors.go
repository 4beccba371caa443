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
	"errors"
	"fmt"
	"strings"

	"github.com/consensys/go-secd/pkg/secd/cell"
)

// ErrorKind classifies the ways in which evaluation can fail.
type ErrorKind uint8

const (
	// STACK_UNDERFLOW indicates a pop from an empty Stack or Dump.
	STACK_UNDERFLOW ErrorKind = iota
	// ENV_INDEX_OUT_OF_RANGE indicates an LD beyond the environment's bounds.
	ENV_INDEX_OUT_OF_RANGE
	// TYPE_MISMATCH indicates an operand of the wrong sort.
	TYPE_MISMATCH
	// ARITHMETIC indicates division or modulus by zero.
	ARITHMETIC
	// MALFORMED_OPERAND indicates a missing or ill-formed inline operand.
	MALFORMED_OPERAND
	// EMPTY_LIST indicates CAR or CDR of the empty list.
	EMPTY_LIST
	// CONTROL_EXHAUSTED indicates Control ran out without STOP in strict mode.
	CONTROL_EXHAUSTED
	// BUDGET_EXHAUSTED indicates the step budget ran out before halting.
	BUDGET_EXHAUSTED
	// INVALID_INSTRUCTION indicates the head of Control is not an instruction.
	INVALID_INSTRUCTION
	// UNBOUND_IO indicates READC or WRITEC without a character device.
	UNBOUND_IO
	// IO_FAILURE indicates the character device reported an error.
	IO_FAILURE
)

// Sentinel errors, one for each kind, for use with errors.Is.
var (
	ErrStackUnderflow             = errors.New("stack underflow")
	ErrEnvironmentIndexOutOfRange = errors.New("environment index out of range")
	ErrTypeMismatch               = errors.New("type mismatch")
	ErrArithmetic                 = errors.New("arithmetic error")
	ErrMalformedOperand           = errors.New("malformed operand")
	ErrEmptyList                  = errors.New("empty list")
	ErrControlExhausted           = errors.New("control exhausted without STOP")
	ErrBudgetExhausted            = errors.New("step budget exhausted")
	ErrInvalidInstruction         = errors.New("invalid instruction")
	ErrUnboundIO                  = errors.New("no character device bound")
	ErrIOFailure                  = errors.New("character device failure")
)

var sentinels = [...]error{
	ErrStackUnderflow, ErrEnvironmentIndexOutOfRange, ErrTypeMismatch, ErrArithmetic,
	ErrMalformedOperand, ErrEmptyList, ErrControlExhausted, ErrBudgetExhausted,
	ErrInvalidInstruction, ErrUnboundIO, ErrIOFailure,
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

// EvalError reports an evaluation failure.  It carries the state at the point
// of failure (i.e. before the failing instruction executed), so the embedding
// caller can report the guest program's defect in full.
type EvalError struct {
	// Kind of failure
	Kind ErrorKind
	// Instruction being executed (if any)
	Op cell.Opcode
	// Whether or not Op is meaningful
	HasOp bool
	// Expected sort of operand (for type mismatches)
	Expected string
	// Actual sort of operand found (for type mismatches)
	Found string
	// Additional detail
	Msg string
	// Underlying cause (e.g. from the character device)
	Cause error
	// State at the point of failure
	State State
}

func (e *EvalError) Error() string {
	var builder strings.Builder
	//
	if e.HasOp {
		builder.WriteString(fmt.Sprintf("[%s] ", e.Op))
	}
	//
	builder.WriteString(e.Kind.String())
	//
	if e.Expected != "" {
		builder.WriteString(fmt.Sprintf(": expected %s, found %s", e.Expected, e.Found))
	}
	//
	if e.Msg != "" {
		builder.WriteString(": ")
		builder.WriteString(e.Msg)
	}
	//
	if e.Cause != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Cause.Error())
	}
	//
	return builder.String()
}

// Is allows an EvalError to match the sentinel for its kind.
func (e *EvalError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// Unwrap exposes the underlying cause, if any.
func (e *EvalError) Unwrap() error {
	return e.Cause
}

// ============================================================================
// Helpers
// ============================================================================

func failure(kind ErrorKind, op cell.Opcode, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Op: op, HasOp: true, Msg: fmt.Sprintf(format, args...)}
}

func mismatch(op cell.Opcode, expected string, found cell.Cell) *EvalError {
	return &EvalError{Kind: TYPE_MISMATCH, Op: op, HasOp: true, Expected: expected, Found: cell.Describe(found)}
}
