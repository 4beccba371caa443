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
package trace

import (
	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/secd/machine"
)

// Snapshot captures a single step of execution.  Since machine states share
// structure with one another, retaining them is cheap.
type Snapshot struct {
	// Step number (counting from 1)
	Step uint
	// Instruction executed by this step.
	Instruction cell.Cell
	// State immediately after the step.
	State machine.State
}

// Recorder retains snapshots of execution, and is attached to a machine via
// its Observer.  A recorder with a limit retains only the most recent
// snapshots.
type Recorder struct {
	// Maximum number of snapshots retained (or zero for all).
	limit uint
	// Initial state of the machine (i.e. before the first step recorded).
	initial machine.State
	// Retained snapshots, used as a ring buffer when limited.
	snapshots []Snapshot
	// Index of the oldest snapshot in the ring.
	head int
	// Total number of steps observed.
	total uint
}

// NewRecorder constructs a recorder which retains at most limit snapshots,
// where zero means unlimited.
func NewRecorder(limit uint) *Recorder {
	return &Recorder{limit: limit}
}

// Observer returns an observer which records into this recorder.
func (p *Recorder) Observer() machine.Observer {
	return p.Observe
}

// Observe records a single step.
func (p *Recorder) Observe(step uint, before, after machine.State) {
	var snapshot = Snapshot{step, before.Control.Peek().UnwrapOr(nil), after}
	//
	if p.total == 0 {
		p.initial = before
	}
	//
	p.total++
	//
	if p.limit == 0 || uint(len(p.snapshots)) < p.limit {
		p.snapshots = append(p.snapshots, snapshot)
		return
	}
	// Overwrite the oldest snapshot
	p.snapshots[p.head] = snapshot
	p.head = (p.head + 1) % len(p.snapshots)
}

// Initial returns the state before the first step observed.
func (p *Recorder) Initial() machine.State {
	return p.initial
}

// Total returns the number of steps observed, which can exceed the number of
// snapshots retained.
func (p *Recorder) Total() uint {
	return p.total
}

// Snapshots returns the retained snapshots, oldest first.
func (p *Recorder) Snapshots() []Snapshot {
	var snapshots = make([]Snapshot, 0, len(p.snapshots))
	//
	snapshots = append(snapshots, p.snapshots[p.head:]...)
	snapshots = append(snapshots, p.snapshots[:p.head]...)
	//
	return snapshots
}

// Reset discards everything recorded so far.
func (p *Recorder) Reset() {
	p.snapshots = nil
	p.head = 0
	p.total = 0
	p.initial = machine.State{}
}
