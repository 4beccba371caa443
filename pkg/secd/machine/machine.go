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
	log "github.com/sirupsen/logrus"
)

// DEFAULT_CHUNK is the number of steps executed between checks by Eval.
const DEFAULT_CHUNK = 1024

// Observer is notified after every successful step, receiving the number of
// steps executed so far along with the states before and after the step.
type Observer func(step uint, before, after State)

// Config determines how a machine is run.
type Config struct {
	// ImplicitStop determines whether exhausting Control halts the machine
	// (as for interactive evaluation), or is an error (as for strict
	// execution of bytecode, which must end with STOP).
	ImplicitStop bool
	// MaxSteps bounds the number of steps executed, where zero means
	// unbounded.  Running out of steps is a BUDGET_EXHAUSTED failure.
	MaxSteps uint
	// IO binds READC and WRITEC, and may be nil.
	IO CharIO
	// Observer (if given) is notified after every step.
	Observer Observer
}

// Core captures a machine which can be executed in chunks of steps.
type Core interface {
	// Execute the machine for (at most) the given number of steps, returning
	// the actual number of steps executed and an error (if execution failed).
	// Fewer steps than requested are executed only when the machine halts or
	// fails.
	Execute(steps uint) (uint, error)
	// Halted indicates whether or not the machine has halted successfully.
	Halted() bool
}

// ExecuteAll executes a given machine to completion in chunks of n steps,
// returning the number of steps executed and/or any error arising.  A chunk
// size of zero is taken as DEFAULT_CHUNK.
func ExecuteAll[M Core](machine M, n uint) (uint, error) {
	var nsteps uint
	//
	if n == 0 {
		n = DEFAULT_CHUNK
	}
	//
	for {
		// Execute upto n steps
		m, err := machine.Execute(n)
		// update the tally
		nsteps += m
		// check for termination
		if err != nil || m < n || machine.Halted() {
			return nsteps, err
		}
	}
}

// Machine drives the step function over a given program.  Execution is an
// iterative loop, hence guest programs can recurse arbitrarily deeply without
// growing the host's call stack.
type Machine struct {
	state  State
	config Config
	steps  uint
	halted bool
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ Core = (*Machine)(nil)

// New constructs a machine ready to run a given program under the default
// configuration.
func New(program Register) Machine {
	return Machine{state: NewState(program)}
}

// WithConfig returns a machine updated with the given configuration, but
// which is otherwise identical to before.
func (p Machine) WithConfig(config Config) Machine {
	var m = p
	//
	m.config = config
	//
	return m
}

// WithState returns a machine updated to start from the given state, but which
// is otherwise identical to before.
func (p Machine) WithState(state State) Machine {
	var m = p
	//
	m.state = state
	m.halted = false
	//
	return m
}

// State returns the current state of this machine.  After a failure, this is
// the state at the point of failure.
func (p *Machine) State() State {
	return p.state
}

// Halted implementation for the Core interface.
func (p *Machine) Halted() bool {
	return p.halted
}

// Steps returns the total number of steps executed by this machine.
func (p *Machine) Steps() uint {
	return p.steps
}

// Execute implementation for the Core interface.
func (p *Machine) Execute(steps uint) (uint, error) {
	var nsteps uint
	//
	for ; nsteps < steps && !p.halted; nsteps++ {
		if p.state.Control.IsEmpty() {
			if p.config.ImplicitStop {
				p.halt()
				break
			}
			//
			return nsteps, &EvalError{Kind: CONTROL_EXHAUSTED, State: p.state}
		} else if p.config.MaxSteps != 0 && p.steps >= p.config.MaxSteps {
			return nsteps, &EvalError{Kind: BUDGET_EXHAUSTED, State: p.state,
				Msg: "halted after maximum number of steps"}
		}
		//
		next, stop, err := Step(p.state, p.config.IO)
		//
		if err != nil {
			log.Debugf("machine failed after %d steps: %s", p.steps, err)
			return nsteps, err
		}
		//
		p.steps++
		//
		if p.config.Observer != nil {
			p.config.Observer(p.steps, p.state, next)
		}
		//
		p.state = next
		//
		if stop {
			p.halt()
		}
	}
	//
	return nsteps, nil
}

func (p *Machine) halt() {
	p.halted = true
	log.Debugf("machine halted after %d steps", p.steps)
}

// Eval runs a given program to completion under a given configuration,
// returning the final state.  On failure, the state at the point of failure is
// returned along with an *EvalError.
func Eval(program Register, config Config) (State, error) {
	var m = New(program).WithConfig(config)
	//
	_, err := ExecuteAll(&m, DEFAULT_CHUNK)
	//
	return m.State(), err
}
