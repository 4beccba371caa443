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

	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/util/collection/list"
)

// Execute LDC, LD, SEL or JOIN.
func (p *executor) control() *EvalError {
	switch p.op {
	case cell.LDC:
		return p.ldc()
	case cell.LD:
		return p.ld()
	case cell.SEL:
		return p.sel()
	default:
		return p.join()
	}
}

// LDC c: push the constant c.
func (p *executor) ldc() *EvalError {
	c, err := p.popOperand()
	//
	if err != nil {
		return err
	} else if _, ok := c.(cell.Opcode); ok {
		return failure(MALFORMED_OPERAND, p.op, "expected constant, found instruction %s", c)
	}
	//
	p.push(c)
	//
	return nil
}

// LD (f s): push the sth value of the fth frame of the environment.
func (p *executor) ld() *EvalError {
	operand, err := p.popOperand()
	//
	if err != nil {
		return err
	}
	//
	f, s, ok := frameSlot(operand)
	//
	if !ok {
		return failure(MALFORMED_OPERAND, p.op, "expected (frame slot) pair, found %s", operand)
	}
	//
	frame, ierr := p.Env.Index(f)
	//
	if ierr != nil {
		return envIndexError(p.op, "frame", ierr)
	}
	//
	values, ok := cell.AsList(frame)
	//
	if !ok {
		return mismatch(p.op, "list", frame)
	}
	//
	value, ierr := values.Items().Index(s)
	//
	if ierr != nil {
		return envIndexError(p.op, "slot", ierr)
	}
	//
	p.push(value)
	//
	return nil
}

// SEL t e: branch on the topmost stack value, saving the remaining control on
// the dump for JOIN.
func (p *executor) sel() *EvalError {
	then, err := p.popCode()
	if err != nil {
		return err
	}
	//
	otherwise, err := p.popCode()
	if err != nil {
		return err
	}
	//
	condition, err := p.pop()
	if err != nil {
		return err
	}
	//
	p.Dump = p.Dump.Push(cell.ListOf(p.Control))
	//
	if cell.IsTrue(condition) {
		p.Control = then.Items()
	} else {
		p.Control = otherwise.Items()
	}
	//
	return nil
}

// JOIN: resume the control saved by the corresponding SEL.
func (p *executor) join() *EvalError {
	saved, err := p.popDump()
	//
	if err != nil {
		return err
	}
	//
	control, ok := cell.AsList(saved)
	//
	if !ok {
		return mismatch(p.op, "saved control", saved)
	}
	//
	p.Control = control.Items()
	//
	return nil
}

// Decode the operand of an LD instruction, which should be a list of exactly
// two non-negative integers.
func frameSlot(operand cell.Cell) (uint, uint, bool) {
	pair, ok := cell.AsList(operand)
	//
	if !ok || pair.Len() != 2 {
		return 0, 0, false
	}
	//
	var (
		items = pair.Items()
		f, s  cell.Cell
	)
	//
	f, items, _ = items.Pop()
	s, _, _ = items.Pop()
	//
	fi, fok := index(f)
	si, sok := index(s)
	//
	return fi, si, fok && sok
}

func index(c cell.Cell) (uint, bool) {
	switch c := c.(type) {
	case cell.UInt:
		return uint(c), true
	case cell.SInt:
		return uint(c), c >= 0
	}
	//
	return 0, false
}

func envIndexError(op cell.Opcode, what string, err error) *EvalError {
	var ierr *list.IndexError
	//
	if errors.As(err, &ierr) {
		return failure(ENV_INDEX_OUT_OF_RANGE, op, "%s %d out of range (length %d)", what, ierr.Index, ierr.Length)
	}
	//
	return failure(ENV_INDEX_OUT_OF_RANGE, op, "%s: %s", what, err)
}
