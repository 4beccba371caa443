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
	"github.com/consensys/go-secd/pkg/secd/cell"
)

// Step executes exactly one instruction from the head of Control, returning
// the successor state and whether or not the instruction was STOP.  The given
// state is never modified.  On failure, the returned error is an *EvalError
// carrying the given state and the returned state is the given state.  The
// character device is only consulted by READC and WRITEC, and may be nil.
func Step(state State, io CharIO) (State, bool, error) {
	var exec = executor{state, 0, io}
	//
	halt, err := exec.step()
	//
	if err != nil {
		err.State = state
		return state, false, err
	}
	//
	return exec.State, halt, nil
}

// executor holds the registers being updated by a single step.  Since
// registers are persistent lists, updating them here never affects the state
// from which they were taken.
type executor struct {
	State
	// instruction being executed
	op cell.Opcode
	// character device (if bound)
	io CharIO
}

func (p *executor) step() (bool, *EvalError) {
	head, control, err := p.Control.Pop()
	//
	if err != nil {
		return false, &EvalError{Kind: CONTROL_EXHAUSTED}
	}
	//
	op, ok := head.(cell.Opcode)
	//
	if !ok || !op.IsValid() {
		return false, &EvalError{Kind: INVALID_INSTRUCTION, Msg: "found " + head.String()}
	}
	//
	p.op = op
	p.Control = control
	//
	switch op {
	case cell.NIL:
		p.push(cell.Nil)
		return false, nil
	case cell.STOP:
		return true, nil
	case cell.LDC, cell.LD, cell.SEL, cell.JOIN:
		return false, p.control()
	case cell.LDF, cell.AP, cell.APCC, cell.RAP, cell.RET, cell.DUM:
		return false, p.closure()
	case cell.ADD, cell.SUB, cell.MUL, cell.DIV, cell.MOD, cell.FDIV:
		return false, p.arithmetic()
	case cell.EQ, cell.GT, cell.GTE, cell.LT, cell.LTE:
		return false, p.comparison()
	case cell.ATOM, cell.NULL, cell.CONS, cell.CAR, cell.CDR:
		return false, p.listOp()
	case cell.READC, cell.WRITEC:
		return false, p.charIO()
	}
	// Unreachable since all valid opcodes are handled above.
	return false, &EvalError{Kind: INVALID_INSTRUCTION, Msg: "unhandled " + op.String()}
}

// ============================================================================
// Register helpers
// ============================================================================

func (p *executor) push(c cell.Cell) {
	p.Stack = p.Stack.Push(c)
}

// pop the topmost cell from the stack.
func (p *executor) pop() (cell.Cell, *EvalError) {
	item, stack, err := p.Stack.Pop()
	//
	if err != nil {
		return nil, failure(STACK_UNDERFLOW, p.op, "stack is empty")
	}
	//
	p.Stack = stack
	//
	return item, nil
}

// pop the topmost cell from the stack, which must be a list.
func (p *executor) popList(expected string) (cell.List, *EvalError) {
	item, err := p.pop()
	//
	if err != nil {
		return cell.Nil, err
	}
	//
	l, ok := cell.AsList(item)
	//
	if !ok {
		return cell.Nil, mismatch(p.op, expected, item)
	}
	//
	return l, nil
}

// pop the topmost cell from the stack, which must be an atom.
func (p *executor) popAtom() (cell.Atom, *EvalError) {
	item, err := p.pop()
	//
	if err != nil {
		return nil, err
	}
	//
	atom, ok := item.(cell.Atom)
	//
	if !ok {
		return nil, mismatch(p.op, "atom", item)
	}
	//
	return atom, nil
}

// pop an inline operand from control.
func (p *executor) popOperand() (cell.Cell, *EvalError) {
	item, control, err := p.Control.Pop()
	//
	if err != nil {
		return nil, failure(MALFORMED_OPERAND, p.op, "missing operand")
	}
	//
	p.Control = control
	//
	return item, nil
}

// pop an inline operand from control, which must be a list of instructions.
func (p *executor) popCode() (cell.List, *EvalError) {
	item, err := p.popOperand()
	//
	if err != nil {
		return cell.Nil, err
	}
	//
	code, ok := cell.AsList(item)
	//
	if !ok {
		return cell.Nil, failure(MALFORMED_OPERAND, p.op, "expected code list, found %s", cell.Describe(item))
	}
	//
	return code, nil
}

// pop the topmost entry from the dump.
func (p *executor) popDump() (cell.Cell, *EvalError) {
	item, dump, err := p.Dump.Pop()
	//
	if err != nil {
		return nil, failure(STACK_UNDERFLOW, p.op, "dump is empty")
	}
	//
	p.Dump = dump
	//
	return item, nil
}
