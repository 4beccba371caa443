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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/util/collection/list"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Scenarios
// ============================================================================

func Test_Machine_Add_01(t *testing.T) {
	checkTop(t, cell.SInt(20), cell.LDC, cell.SInt(10), cell.LDC, cell.SInt(10), cell.ADD)
}

func Test_Machine_Nil_01(t *testing.T) {
	checkTop(t, cell.Nil, cell.NIL)
}

func Test_Machine_Ldc_01(t *testing.T) {
	checkTop(t, cell.Char('a'), cell.LDC, cell.Char('a'))
	checkTop(t, cell.NewList(cell.SInt(1), cell.UInt(2)), cell.LDC, cell.NewList(cell.SInt(1), cell.UInt(2)))
}

func Test_Machine_Ldc_02(t *testing.T) {
	checkFails(t, ErrMalformedOperand, cell.LDC, cell.ADD)
	checkFails(t, ErrMalformedOperand, cell.LDC)
}

func Test_Machine_Stop_01(t *testing.T) {
	// Instructions after STOP are never executed
	checkTop(t, cell.SInt(1), cell.LDC, cell.SInt(1), cell.STOP, cell.ADD)
}

func Test_Machine_Strict_01(t *testing.T) {
	var program = list.New[cell.Cell](cell.LDC, cell.SInt(1))
	// Strict mode requires STOP
	state, err := Eval(program, Config{})
	require.ErrorIs(t, err, ErrControlExhausted)
	require.True(t, cell.SInt(1).Equals(state.Stack.Peek().Unwrap()))
	// Implicit mode does not
	_, err = Eval(program, Config{ImplicitStop: true})
	require.NoError(t, err)
	// STOP satisfies strict mode
	_, err = Eval(program.Append(list.New[cell.Cell](cell.STOP)), Config{})
	require.NoError(t, err)
}

func Test_Machine_Strict_02(t *testing.T) {
	// An empty program halts immediately in implicit mode
	state, err := Eval(Register{}, Config{ImplicitStop: true})
	require.NoError(t, err)
	require.True(t, state.Equals(State{}))
}

// ============================================================================
// Environment
// ============================================================================

func Test_Machine_Ld_01(t *testing.T) {
	var env = list.New[cell.Cell](cell.NewList(cell.SInt(1), cell.SInt(2)), cell.NewList(cell.SInt(3), cell.SInt(4)))
	//
	checkStateTop(t, cell.SInt(1), State{Env: env}, cell.LD, pair(0, 0))
	checkStateTop(t, cell.SInt(2), State{Env: env}, cell.LD, pair(0, 1))
	checkStateTop(t, cell.SInt(3), State{Env: env}, cell.LD, cell.NewList(cell.UInt(1), cell.UInt(0)))
	checkStateTop(t, cell.SInt(4), State{Env: env}, cell.LD, pair(1, 1))
}

func Test_Machine_Ld_02(t *testing.T) {
	var env = list.New[cell.Cell](cell.NewList(cell.SInt(1)), cell.Char('w'))
	//
	checkStateFails(t, ErrEnvironmentIndexOutOfRange, State{}, cell.LD, pair(1, 0))
	checkStateFails(t, ErrEnvironmentIndexOutOfRange, State{Env: env}, cell.LD, pair(0, 1))
	checkStateFails(t, ErrEnvironmentIndexOutOfRange, State{Env: env}, cell.LD, pair(2, 0))
	checkStateFails(t, ErrTypeMismatch, State{Env: env}, cell.LD, pair(1, 1))
}

func Test_Machine_Ld_03(t *testing.T) {
	var env = list.New[cell.Cell](cell.NewList(cell.SInt(1)))
	//
	checkStateFails(t, ErrMalformedOperand, State{Env: env}, cell.LD, cell.NewList(cell.SInt(0)))
	checkStateFails(t, ErrMalformedOperand, State{Env: env}, cell.LD, cell.NewList(cell.SInt(0), cell.SInt(0), cell.SInt(0)))
	checkStateFails(t, ErrMalformedOperand, State{Env: env}, cell.LD, cell.NewList(cell.SInt(-1), cell.SInt(0)))
	checkStateFails(t, ErrMalformedOperand, State{Env: env}, cell.LD, cell.NewList(cell.Char('a'), cell.SInt(0)))
	checkStateFails(t, ErrMalformedOperand, State{Env: env}, cell.LD, cell.SInt(0))
	checkStateFails(t, ErrMalformedOperand, State{Env: env}, cell.LD)
}

func Test_Machine_Ldf_01(t *testing.T) {
	var (
		env  = list.New[cell.Cell](cell.NewList(cell.SInt(1)))
		code = cell.NewList(cell.LD, pair(0, 0), cell.RET)
	)
	//
	checkStateTop(t, cell.NewList(code, cell.ListOf(env)), State{Env: env}, cell.LDF, code)
	checkStateFails(t, ErrMalformedOperand, State{Env: env}, cell.LDF, cell.SInt(1))
}

func Test_Machine_Dum_01(t *testing.T) {
	var (
		env      = list.New[cell.Cell](cell.NewList(cell.Char('a')))
		state, _ = run(t, State{Env: env}, cell.DUM)
		top      = state.Env.Peek().Unwrap().(cell.List)
	)
	//
	require.True(t, top.IsPlaceholder())
	require.True(t, top.IsEmpty())
	require.Equal(t, uint(2), state.Env.Len())
}

// ============================================================================
// Application
// ============================================================================

func Test_Machine_Ap_01(t *testing.T) {
	var (
		code    = cell.NewList(cell.LD, pair(1, 0), cell.LD, pair(0, 0), cell.ADD, cell.RET)
		closure = cell.NewList(code, cell.NewList(cell.NewList(cell.SInt(1))))
		env     = list.New[cell.Cell](cell.NewList(cell.Char('D')))
		state   = State{
			Stack:   list.New[cell.Cell](closure, cell.NewList(cell.SInt(41)), cell.Char('x')),
			Env:     env,
			Control: list.New[cell.Cell](cell.AP, cell.STOP),
		}
	)
	// One step enters the closure
	next, _, err := Step(state, nil)
	require.NoError(t, err)
	require.True(t, next.Stack.IsEmpty())
	require.True(t, cell.ListOf(next.Control).Equals(code))
	require.True(t, cell.ListOf(next.Env).Equals(cell.NewList(cell.NewList(cell.SInt(41)), cell.NewList(cell.SInt(1)))))
	require.Equal(t, uint(1), next.Dump.Len())
	// Upon return, everything is as before except for the result.
	m := New(Register{}).WithState(state)
	_, err = ExecuteAll(&m, 1)
	require.NoError(t, err)
	//
	final := m.State()
	require.True(t, final.Equals(State{
		Stack:   list.New[cell.Cell](cell.SInt(42), cell.Char('x')),
		Env:     env,
		Control: Register{},
	}))
}

func Test_Machine_Ap_02(t *testing.T) {
	var closure = cell.NewList(cell.NewList(cell.RET))
	//
	checkStateFails(t, ErrTypeMismatch, State{Stack: list.New[cell.Cell](closure, cell.Nil)}, cell.AP)
	checkStateFails(t, ErrTypeMismatch, State{Stack: list.New[cell.Cell](cell.SInt(1), cell.Nil)}, cell.AP)
	checkStateFails(t, ErrTypeMismatch, State{Stack: list.New[cell.Cell](cell.NewList(cell.NewList(cell.RET), cell.Nil), cell.SInt(1))}, cell.AP)
	checkStateFails(t, ErrStackUnderflow, State{Stack: list.New[cell.Cell](cell.NewList(cell.NewList(cell.RET), cell.Nil))}, cell.AP)
}

func Test_Machine_Ret_01(t *testing.T) {
	var (
		saved = cell.NewList(
			cell.NewList(cell.Char('S'), cell.Char('L')),
			cell.NewList(cell.NewList(cell.Char('E'), cell.Char('L')), cell.NewList(cell.Char('E'), cell.Char('D'))),
			cell.NewList(cell.Char('C')))
		state = State{
			Stack:   list.New[cell.Cell](cell.SInt(100), cell.SInt(320)),
			Control: list.New[cell.Cell](cell.RET),
			Dump:    list.New[cell.Cell](saved),
		}
	)
	//
	next, _, err := Step(state, nil)
	require.NoError(t, err)
	require.True(t, next.Equals(State{
		Stack:   list.New[cell.Cell](cell.SInt(100), cell.Char('S'), cell.Char('L')),
		Env:     list.New[cell.Cell](cell.NewList(cell.Char('E'), cell.Char('L')), cell.NewList(cell.Char('E'), cell.Char('D'))),
		Control: list.New[cell.Cell](cell.Char('C')),
	}))
}

func Test_Machine_Ret_02(t *testing.T) {
	checkStateFails(t, ErrStackUnderflow, State{Stack: list.New[cell.Cell](cell.SInt(1))}, cell.RET)
	checkStateFails(t, ErrStackUnderflow, State{}, cell.RET)
	checkStateFails(t, ErrTypeMismatch, State{Stack: list.New[cell.Cell](cell.SInt(1)), Dump: list.New[cell.Cell](cell.SInt(2))}, cell.RET)
}

func Test_Machine_Rap_01(t *testing.T) {
	// Counts down from 1000 to 0 recursively, adding one on the way back up.
	var program = recursive(1000)
	//
	state, err := Eval(program, Config{})
	require.NoError(t, err)
	require.True(t, cell.SInt(1000).Equals(state.Stack.Peek().Unwrap()))
	require.True(t, state.Env.IsEmpty())
	require.True(t, state.Dump.IsEmpty())
}

func Test_Machine_Rap_02(t *testing.T) {
	for _, n := range []int64{0, 1, 2, 10, 5000} {
		state, err := Eval(recursive(n), Config{})
		require.NoError(t, err)
		require.True(t, cell.SInt(n).Equals(state.Stack.Peek().Unwrap()))
	}
}

func Test_Machine_Rap_03(t *testing.T) {
	var closure = cell.NewList(cell.NewList(cell.RET), cell.Nil)
	// No placeholder in either environment
	checkStateFails(t, ErrTypeMismatch, State{Stack: list.New[cell.Cell](closure, cell.Nil)}, cell.RAP)
	// Placeholder in the caller's environment, but not the closure's
	checkStateFails(t, ErrTypeMismatch, State{
		Stack: list.New[cell.Cell](closure, cell.Nil),
		Env:   list.New[cell.Cell](cell.Placeholder())}, cell.RAP)
}

func Test_Machine_Rap_04(t *testing.T) {
	// A second RAP without a fresh DUM, from within a callee whose frame is the
	// already patched placeholder.
	var (
		inner    = cell.NewList(cell.NIL, cell.LDC, cell.SInt(5), cell.CONS, cell.LDF, cell.NewList(cell.LDC, cell.SInt(2), cell.RET), cell.RAP, cell.RET)
		program  = list.New[cell.Cell](cell.DUM, cell.NIL, cell.LDF, cell.NewList(cell.LDC, cell.SInt(1), cell.RET), cell.CONS, cell.LDF, inner, cell.RAP, cell.STOP)
		retained State
		before   string
	)
	//
	observer := func(step uint, _, after State) {
		if step == 6 {
			retained = after
			before = after.Env.String()
		}
	}
	//
	_, err := Eval(program, Config{Observer: observer})
	require.ErrorIs(t, err, ErrTypeMismatch)
	// The state retained after the first RAP is unaffected
	require.NotEmpty(t, before)
	require.Equal(t, before, retained.Env.String())
}

func Test_Machine_Rap_05(t *testing.T) {
	// The closure captured a different placeholder from the one heading the
	// current environment.
	var (
		current  = cell.Placeholder()
		captured = cell.Placeholder()
		closure  = cell.NewList(cell.NewList(cell.RET), cell.ListOf(list.New[cell.Cell](captured)))
	)
	//
	checkStateFails(t, ErrTypeMismatch, State{
		Stack: list.New[cell.Cell](closure, cell.Nil),
		Env:   list.New[cell.Cell](current)}, cell.RAP)
	//
	require.False(t, current.IsPatched())
	require.False(t, captured.IsPatched())
}

func Test_Machine_Apcc_01(t *testing.T) {
	// The continuation escapes the callee, skipping LDC 99 RET
	var body = cell.NewList(cell.NIL, cell.LDC, cell.SInt(7), cell.CONS, cell.LD, pair(0, 0), cell.AP, cell.LDC, cell.SInt(99), cell.RET)
	//
	state, err := Eval(list.New[cell.Cell](cell.NIL, cell.LDF, body, cell.APCC, cell.STOP), Config{})
	require.NoError(t, err)
	require.True(t, state.Equals(State{Stack: list.New[cell.Cell](cell.SInt(7))}))
}

func Test_Machine_Apcc_02(t *testing.T) {
	// Arguments follow the continuation in the callee's frame, and a
	// continuation applied to nothing produces nil.
	var body = cell.NewList(cell.NIL, cell.LD, pair(0, 0), cell.AP)
	//
	checkTop(t, cell.Nil, cell.NIL, cell.LDC, cell.Char('z'), cell.CONS, cell.LDF, body, cell.APCC, cell.STOP)
	checkTop(t, cell.Char('z'), cell.NIL, cell.LDC, cell.Char('z'), cell.CONS, cell.LDF, cell.NewList(cell.LD, pair(0, 1), cell.RET), cell.APCC, cell.STOP)
}

func Test_Machine_Apcc_03(t *testing.T) {
	var k = Continuation(State{})
	//
	checkStateFails(t, ErrTypeMismatch, State{Stack: list.New[cell.Cell](k, cell.Nil)}, cell.RAP)
}

// ============================================================================
// Branching
// ============================================================================

func Test_Machine_Sel_01(t *testing.T) {
	checkSel(t, cell.True, true)
	checkSel(t, cell.NewList(cell.SInt(0)), true)
	checkSel(t, cell.SInt(0), true)
	checkSel(t, cell.Nil, false)
}

func Test_Machine_Sel_02(t *testing.T) {
	var program = func(c cell.Cell) []cell.Cell {
		return []cell.Cell{cell.LDC, c, cell.SEL, cell.NewList(cell.LDC, cell.SInt(1), cell.JOIN), cell.NewList(cell.LDC, cell.SInt(2), cell.JOIN), cell.LDC, cell.SInt(3), cell.ADD}
	}
	//
	checkTop(t, cell.SInt(4), program(cell.True)...)
	checkTop(t, cell.SInt(5), program(cell.Nil)...)
}

func Test_Machine_Sel_03(t *testing.T) {
	checkStateFails(t, ErrMalformedOperand, State{Stack: list.New[cell.Cell](cell.True)}, cell.SEL, cell.NewList(cell.JOIN))
	checkStateFails(t, ErrMalformedOperand, State{Stack: list.New[cell.Cell](cell.True)}, cell.SEL, cell.SInt(1), cell.NewList(cell.JOIN))
	checkStateFails(t, ErrStackUnderflow, State{}, cell.SEL, cell.NewList(cell.JOIN), cell.NewList(cell.JOIN))
	checkStateFails(t, ErrStackUnderflow, State{}, cell.JOIN)
	checkStateFails(t, ErrTypeMismatch, State{Dump: list.New[cell.Cell](cell.SInt(1))}, cell.JOIN)
}

// ============================================================================
// Lists
// ============================================================================

func Test_Machine_List_01(t *testing.T) {
	var l = cell.NewList(cell.Char('A'), cell.Char('B'))
	//
	checkTop(t, cell.Char('A'), cell.LDC, l, cell.CAR)
	checkTop(t, cell.NewList(cell.Char('B')), cell.LDC, l, cell.CDR)
	checkTop(t, cell.Nil, cell.LDC, cell.NewList(cell.Char('B')), cell.CDR)
	checkTop(t, cell.NewList(cell.Char('A'), cell.Char('B'), cell.Char('C')), cell.LDC, cell.NewList(cell.Char('B'), cell.Char('C')), cell.LDC, cell.Char('A'), cell.CONS)
	checkTop(t, cell.NewList(cell.Nil), cell.NIL, cell.NIL, cell.CONS)
}

func Test_Machine_List_02(t *testing.T) {
	checkFails(t, ErrEmptyList, cell.NIL, cell.CAR)
	checkFails(t, ErrEmptyList, cell.NIL, cell.CDR)
	checkFails(t, ErrTypeMismatch, cell.LDC, cell.SInt(1), cell.CAR)
	checkFails(t, ErrTypeMismatch, cell.LDC, cell.SInt(1), cell.LDC, cell.SInt(1), cell.CONS)
	checkFails(t, ErrStackUnderflow, cell.LDC, cell.SInt(1), cell.CONS)
	checkFails(t, ErrStackUnderflow, cell.CDR)
}

func Test_Machine_Atom_01(t *testing.T) {
	checkTop(t, cell.True, cell.LDC, cell.SInt(1), cell.ATOM)
	checkTop(t, cell.True, cell.LDC, cell.UInt(1), cell.ATOM)
	checkTop(t, cell.True, cell.LDC, cell.Char('a'), cell.ATOM)
	checkTop(t, cell.True, cell.LDC, cell.Float(1.5), cell.ATOM)
	checkTop(t, cell.Nil, cell.NIL, cell.ATOM)
	checkTop(t, cell.Nil, cell.LDC, cell.NewList(cell.SInt(1)), cell.ATOM)
	checkStateTop(t, cell.Nil, State{Stack: list.New[cell.Cell](cell.DUM)}, cell.ATOM)
}

func Test_Machine_Null_01(t *testing.T) {
	checkTop(t, cell.True, cell.NIL, cell.NULL)
	checkTop(t, cell.Nil, cell.LDC, cell.SInt(1), cell.NULL)
	checkTop(t, cell.Nil, cell.LDC, cell.NewList(cell.SInt(1)), cell.NULL)
	checkFails(t, ErrStackUnderflow, cell.NULL)
}

// ============================================================================
// Character I/O
// ============================================================================

func Test_Machine_CharIO_01(t *testing.T) {
	var (
		out bytes.Buffer
		dev = NewStreamIO(strings.NewReader("hé"), &out)
	)
	//
	state, err := Eval(list.New[cell.Cell](cell.READC, cell.WRITEC, cell.READC, cell.WRITEC, cell.READC, cell.STOP), Config{IO: dev})
	require.NoError(t, err)
	require.NoError(t, dev.Flush())
	require.Equal(t, "hé", out.String())
	// End of input gives nil
	require.True(t, cell.IsNil(state.Stack.Peek().Unwrap()))
}

func Test_Machine_CharIO_02(t *testing.T) {
	var dev = NewStreamIO(nil, nil)
	//
	checkFails(t, ErrUnboundIO, cell.READC)
	checkFails(t, ErrUnboundIO, cell.LDC, cell.Char('a'), cell.WRITEC)
	//
	_, err := Eval(list.New[cell.Cell](cell.LDC, cell.SInt(1), cell.WRITEC), Config{IO: dev, ImplicitStop: true})
	require.ErrorIs(t, err, ErrTypeMismatch)
	//
	_, err = Eval(list.New[cell.Cell](cell.LDC, cell.Char('a'), cell.WRITEC), Config{IO: dev, ImplicitStop: true})
	require.ErrorIs(t, err, ErrIOFailure)
}

// ============================================================================
// Driver
// ============================================================================

func Test_Machine_Budget_01(t *testing.T) {
	// Loops forever
	var (
		body    = cell.NewList(cell.NIL, cell.LD, pair(1, 0), cell.AP, cell.RET)
		program = list.New[cell.Cell](cell.DUM, cell.NIL, cell.LDF, body, cell.CONS, cell.LDF, cell.NewList(cell.NIL, cell.LD, pair(0, 0), cell.AP, cell.RET), cell.RAP, cell.STOP)
	)
	//
	state, err := Eval(program, Config{MaxSteps: 10000})
	require.ErrorIs(t, err, ErrBudgetExhausted)
	require.False(t, state.Control.IsEmpty())
}

func Test_Machine_Budget_02(t *testing.T) {
	var program = list.New[cell.Cell](cell.LDC, cell.SInt(1), cell.LDC, cell.SInt(2), cell.ADD, cell.STOP)
	// Exactly enough
	_, err := Eval(program, Config{MaxSteps: 4})
	require.NoError(t, err)
	// Not quite enough
	state, err := Eval(program, Config{MaxSteps: 3})
	require.ErrorIs(t, err, ErrBudgetExhausted)
	require.True(t, cell.ListOf(state.Control).Equals(cell.NewList(cell.STOP)))
}

func Test_Machine_Execute_01(t *testing.T) {
	var (
		m     = New(recursive(50)).WithConfig(Config{})
		m2    = New(recursive(50)).WithConfig(Config{})
		n1, _ = ExecuteAll(&m, 1)
		n2, _ = ExecuteAll(&m2, 1000)
	)
	//
	require.Equal(t, n1, n2)
	require.Equal(t, n1, m.Steps())
	require.True(t, m.Halted())
	require.True(t, m.State().Equals(m2.State()))
}

func Test_Machine_ExecuteAll_01(t *testing.T) {
	var m = New(recursive(100))
	// A zero chunk size still runs to completion
	n, err := ExecuteAll(&m, 0)
	require.NoError(t, err)
	require.True(t, m.Halted())
	require.Equal(t, m.Steps(), n)
	require.True(t, cell.SInt(100).Equals(m.State().Stack.Peek().Unwrap()))
}

func Test_Machine_Observer_01(t *testing.T) {
	var (
		steps  uint
		states []State
	)
	//
	observer := func(step uint, before, after State) {
		steps = step
		states = append(states, before)
	}
	//
	_, err := Eval(list.New[cell.Cell](cell.LDC, cell.SInt(1), cell.LDC, cell.SInt(2), cell.ADD, cell.STOP), Config{Observer: observer})
	require.NoError(t, err)
	require.Equal(t, uint(4), steps)
	require.Len(t, states, 4)
	// Earlier states are unaffected by later steps
	require.True(t, states[0].Stack.IsEmpty())
	require.Equal(t, uint(1), states[1].Stack.Len())
}

func Test_Machine_Error_01(t *testing.T) {
	var (
		state   = State{Stack: list.New[cell.Cell](cell.SInt(1)), Control: list.New[cell.Cell](cell.ADD)}
		_, _, e = Step(state, nil)
		err     *EvalError
	)
	//
	require.True(t, errors.As(e, &err))
	require.Equal(t, STACK_UNDERFLOW, err.Kind)
	require.Equal(t, cell.ADD, err.Op)
	require.True(t, err.State.Equals(state))
	require.Contains(t, err.Error(), "[ADD] stack underflow")
}

func Test_Machine_Error_02(t *testing.T) {
	checkFails(t, ErrInvalidInstruction, cell.SInt(1))
	checkFails(t, ErrInvalidInstruction, cell.Opcode(0x1E))
	checkFails(t, ErrInvalidInstruction, cell.NewList(cell.ADD))
}

// ============================================================================
// Helpers
// ============================================================================

func pair(f, s int64) cell.List {
	return cell.NewList(cell.SInt(f), cell.SInt(s))
}

// Construct a program which recurses to depth n, returning n.
func recursive(n int64) Register {
	var (
		body = cell.NewList(
			cell.LD, pair(0, 0), cell.LDC, cell.SInt(0), cell.EQ,
			cell.SEL,
			cell.NewList(cell.LDC, cell.SInt(0), cell.JOIN),
			cell.NewList(cell.NIL, cell.LDC, cell.SInt(1), cell.LD, pair(0, 0), cell.SUB, cell.CONS, cell.LD, pair(1, 0), cell.AP, cell.LDC, cell.SInt(1), cell.ADD, cell.JOIN),
			cell.RET)
		main = cell.NewList(cell.NIL, cell.LDC, cell.SInt(n), cell.CONS, cell.LD, pair(0, 0), cell.AP, cell.RET)
	)
	//
	return list.New[cell.Cell](cell.DUM, cell.NIL, cell.LDF, body, cell.CONS, cell.LDF, main, cell.RAP, cell.STOP)
}

// Run a program from a given initial state in implicit mode.
func run(t *testing.T, state State, program ...cell.Cell) (State, error) {
	t.Helper()
	//
	m := New(Register{}).
		WithConfig(Config{ImplicitStop: true}).
		WithState(state.WithControl(list.New(program...)))
	//
	_, err := ExecuteAll(&m, DEFAULT_CHUNK)
	//
	return m.State(), err
}

func checkTop(t *testing.T, expected cell.Cell, program ...cell.Cell) {
	t.Helper()
	checkStateTop(t, expected, State{}, program...)
}

func checkStateTop(t *testing.T, expected cell.Cell, state State, program ...cell.Cell) {
	t.Helper()
	//
	final, err := run(t, state, program...)
	require.NoError(t, err)
	//
	top, ok := final.Top()
	require.True(t, ok, "stack is empty")
	require.True(t, expected.Equals(top), "expected %s, found %s", expected, top)
}

func checkFails(t *testing.T, expected error, program ...cell.Cell) {
	t.Helper()
	checkStateFails(t, expected, State{}, program...)
}

func checkStateFails(t *testing.T, expected error, state State, program ...cell.Cell) {
	t.Helper()
	//
	_, err := run(t, state, program...)
	require.ErrorIs(t, err, expected)
}

func checkSel(t *testing.T, condition cell.Cell, taken bool) {
	var (
		then      = cell.NewList(cell.LDC, cell.SInt(1), cell.JOIN)
		otherwise = cell.NewList(cell.LDC, cell.SInt(2), cell.JOIN)
		rest      = list.New[cell.Cell](cell.LDC, cell.SInt(3), cell.STOP)
		state     = State{
			Stack:   list.New(condition),
			Control: list.New[cell.Cell](cell.SEL, then, otherwise).Append(rest),
		}
		expected = otherwise
	)
	//
	if taken {
		expected = then
	}
	// One step selects the branch, saving the remainder.
	next, _, err := Step(state, nil)
	require.NoError(t, err)
	require.True(t, next.Stack.IsEmpty())
	require.True(t, cell.ListOf(next.Control).Equals(expected))
	require.True(t, next.Dump.Peek().Unwrap().Equals(cell.ListOf(rest)))
	// Completing the branch resumes the remainder.
	next, _, err = Step(next, nil)
	require.NoError(t, err)
	next, _, err = Step(next, nil)
	require.NoError(t, err)
	require.True(t, cell.ListOf(next.Control).Equals(cell.ListOf(rest)))
	require.True(t, next.Dump.IsEmpty())
}
