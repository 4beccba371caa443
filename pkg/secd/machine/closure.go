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

// Closures have no representation beyond data.  A closure is the two element
// list (code env), and a saved call frame on the dump is the three element list
// (stack env control).  A continuation (as reified by APCC) is the five element
// list (APCC stack env control dump).

// Closure constructs the closure cell for a given body of code and captured
// environment.
func Closure(code cell.List, env Register) cell.List {
	return cell.NewList(code, cell.ListOf(env))
}

// Continuation constructs the continuation which, when applied, resumes
// execution from the given state.
func Continuation(state State) cell.List {
	return cell.NewList(cell.APCC, cell.ListOf(state.Stack), cell.ListOf(state.Env),
		cell.ListOf(state.Control), cell.ListOf(state.Dump))
}

// Execute LDF, AP, APCC, RAP, RET or DUM.
func (p *executor) closure() *EvalError {
	switch p.op {
	case cell.LDF:
		return p.ldf()
	case cell.AP, cell.APCC:
		return p.apply()
	case cell.RAP:
		return p.rap()
	case cell.RET:
		return p.ret()
	default:
		// DUM
		p.Env = p.Env.Push(cell.Placeholder())
		return nil
	}
}

// LDF f: push a closure of f over the current environment.
func (p *executor) ldf() *EvalError {
	code, err := p.popCode()
	//
	if err != nil {
		return err
	}
	//
	p.push(Closure(code, p.Env))
	//
	return nil
}

// AP / APCC: apply the closure on top of the stack to the argument list below
// it.  APCC additionally passes the caller's continuation as the first
// argument.
func (p *executor) apply() *EvalError {
	fn, err := p.popList("closure")
	if err != nil {
		return err
	}
	//
	args, err := p.popList("argument list")
	if err != nil {
		return err
	}
	// Applying a continuation abandons the current state altogether.
	if regs, ok := continuation(fn); ok {
		return p.resume(regs, args)
	}
	//
	code, env, err := p.closureParts(fn)
	if err != nil {
		return err
	}
	//
	frame := args
	//
	if p.op == cell.APCC {
		frame = cell.ListOf(args.Items().Push(Continuation(p.State)))
	}
	//
	p.call(code, env.Push(frame), p.Env)
	//
	return nil
}

// RAP: apply the closure on top of the stack to the argument list below it,
// where the arguments fill the placeholder frame at the head of the closure's
// environment (as pushed by a preceding DUM).  That frame must also head the
// current environment and must not have been filled already.  Thus, closures in the arguments
// which captured that placeholder can now refer to themselves.
func (p *executor) rap() *EvalError {
	fn, err := p.popList("closure")
	if err != nil {
		return err
	}
	//
	args, err := p.popList("argument list")
	if err != nil {
		return err
	}
	//
	if _, ok := continuation(fn); ok {
		return mismatch(p.op, "closure", fn)
	}
	//
	code, env, err := p.closureParts(fn)
	if err != nil {
		return err
	}
	//
	hole, ok := placeholder(env)
	if !ok {
		return failure(TYPE_MISMATCH, p.op, "closure environment has no placeholder frame")
	}
	//
	if frame, ok := placeholder(p.Env); !ok {
		return failure(TYPE_MISMATCH, p.op, "environment has no placeholder frame")
	} else if !cell.Same(hole, frame) {
		return failure(TYPE_MISMATCH, p.op, "closure environment does not share the placeholder frame")
	} else if hole.IsPatched() {
		return failure(TYPE_MISMATCH, p.op, "placeholder frame already patched")
	}
	//
	if perr := hole.Patch(args.Items()); perr != nil {
		return failure(TYPE_MISMATCH, p.op, "%s", perr)
	}
	// The caller's environment is restored without its placeholder frame.
	p.call(code, env, p.Env.Tail())
	//
	return nil
}

// RET: return the value on top of the stack to the caller saved on the dump.
func (p *executor) ret() *EvalError {
	value, err := p.pop()
	if err != nil {
		return err
	}
	//
	saved, err := p.popDump()
	if err != nil {
		return err
	}
	//
	regs, ok := registers(saved, 3)
	if !ok {
		return mismatch(p.op, "saved frame", saved)
	}
	//
	p.Stack = regs[0].Push(value)
	p.Env = regs[1]
	p.Control = regs[2]
	//
	return nil
}

// Enter a given body of code under a given environment, saving the caller's
// registers (with the given environment) on the dump.
func (p *executor) call(code cell.List, env Register, callerEnv Register) {
	saved := cell.NewList(cell.ListOf(p.Stack), cell.ListOf(callerEnv), cell.ListOf(p.Control))
	//
	p.Dump = p.Dump.Push(saved)
	p.Stack = Register{}
	p.Env = env
	p.Control = code.Items()
}

// Resume a continuation by restoring all four registers, then pushing the
// first argument (or the empty list if there is none) as the result.
func (p *executor) resume(regs []Register, args cell.List) *EvalError {
	var result = args.Items().Peek().UnwrapOr(cell.Nil)
	//
	p.Stack = regs[0].Push(result)
	p.Env = regs[1]
	p.Control = regs[2]
	p.Dump = regs[3]
	//
	return nil
}

// Split a closure into its code and captured environment.
func (p *executor) closureParts(fn cell.List) (cell.List, Register, *EvalError) {
	parts, ok := registers(fn, 2)
	//
	if !ok {
		return cell.Nil, Register{}, mismatch(p.op, "closure", fn)
	}
	//
	return cell.ListOf(parts[0]), parts[1], nil
}

// Check whether a given list is a continuation and, if so, return its four
// registers.
func continuation(fn cell.List) ([]Register, bool) {
	if head, ok := fn.Items().Peek().Get(); !ok || !head.Equals(cell.APCC) {
		return nil, false
	}
	//
	return registers(cell.ListOf(fn.Items().Tail()), 4)
}

// Split a given cell into exactly n lists.
func registers(c cell.Cell, n uint) ([]Register, bool) {
	l, ok := cell.AsList(c)
	//
	if !ok || l.Len() != n {
		return nil, false
	}
	//
	regs := make([]Register, 0, n)
	//
	for item := range l.Items().All() {
		r, ok := cell.AsList(item)
		if !ok {
			return nil, false
		}
		//
		regs = append(regs, r.Items())
	}
	//
	return regs, true
}

// Return the placeholder frame at the head of a given environment, if there
// is one.
func placeholder(env Register) (cell.List, bool) {
	head, ok := env.Peek().Get()
	//
	if !ok {
		return cell.Nil, false
	}
	//
	frame, ok := cell.AsList(head)
	//
	return frame, ok && frame.IsPlaceholder()
}
