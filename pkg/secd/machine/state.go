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
	"fmt"

	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/util/collection/list"
)

// Register is the type of every machine register: a persistent list of cells
// whose head is its top.
type Register = list.List[cell.Cell]

// State captures the four registers of the machine.  States are values: every
// step consumes one state and produces another, sharing all unmodified
// structure with its predecessor.  Hence, retaining earlier states (e.g. for
// tracing) is safe.
type State struct {
	// Stack holds intermediate values.
	Stack Register
	// Env holds the environment, which is a list of frames where each frame is
	// itself a list of bound values.
	Env Register
	// Control holds the instructions (and their inline operands) yet to be
	// executed.
	Control Register
	// Dump holds saved register snapshots, used to resume execution after a
	// function return or a conditional branch.
	Dump Register
}

// NewState constructs an initial state for running a given program, where all
// registers are empty except Control.
func NewState(program Register) State {
	return State{Control: program}
}

// WithStack returns a copy of this state with the given stack.
func (s State) WithStack(stack Register) State {
	s.Stack = stack
	return s
}

// WithEnv returns a copy of this state with the given environment.
func (s State) WithEnv(env Register) State {
	s.Env = env
	return s
}

// WithControl returns a copy of this state with the given control.
func (s State) WithControl(control Register) State {
	s.Control = control
	return s
}

// WithDump returns a copy of this state with the given dump.
func (s State) WithDump(dump Register) State {
	s.Dump = dump
	return s
}

// Top returns the topmost item of the stack (if any), which is typically the
// result of a program.
func (s State) Top() (cell.Cell, bool) {
	return s.Stack.Peek().Get()
}

// Equals checks whether two states have structurally equal registers.
func (s State) Equals(o State) bool {
	return equalRegisters(s.Stack, o.Stack) &&
		equalRegisters(s.Env, o.Env) &&
		equalRegisters(s.Control, o.Control) &&
		equalRegisters(s.Dump, o.Dump)
}

func (s State) String() string {
	return fmt.Sprintf("S: (%s) E: (%s) C: (%s) D: (%s)",
		cell.FormatCells(s.Stack), cell.FormatCells(s.Env),
		cell.FormatCells(s.Control), cell.FormatCells(s.Dump))
}

func equalRegisters(l, r Register) bool {
	return cell.ListOf(l).Equals(cell.ListOf(r))
}
