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
	"fmt"

	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/secd/machine"
	"github.com/fxamacker/cbor/v2"
)

// FORMAT_VERSION identifies the layout of exported traces.
const FORMAT_VERSION uint = 1

// Document is the exported form of a trace.  Registers are held in their
// printed form, which is well defined even for self-referential environments.
type Document struct {
	Version uint `cbor:"1,keyasint"`
	// Initial state, before the first recorded step
	Initial Registers `cbor:"2,keyasint"`
	// Total number of steps executed
	Total uint `cbor:"3,keyasint"`
	// Retained steps, oldest first
	Steps []Step `cbor:"4,keyasint,omitempty"`
	// Failure which ended execution (if any)
	Failure string `cbor:"5,keyasint,omitempty"`
}

// Step is the exported form of a single snapshot.
type Step struct {
	Number      uint      `cbor:"1,keyasint"`
	Instruction string    `cbor:"2,keyasint"`
	After       Registers `cbor:"3,keyasint"`
}

// Registers is the exported form of a machine state.
type Registers struct {
	Stack   string `cbor:"1,keyasint"`
	Env     string `cbor:"2,keyasint"`
	Control string `cbor:"3,keyasint"`
	Dump    string `cbor:"4,keyasint"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: failed to create CBOR enc mode: %v", err))
	}
	//
	cborEncMode = em
}

// Export converts everything retained by a recorder into a document, along
// with the error which ended execution (if any).
func (p *Recorder) Export(failure error) Document {
	var doc = Document{Version: FORMAT_VERSION, Initial: registersOf(p.initial), Total: p.total}
	//
	for _, s := range p.Snapshots() {
		var insn string
		//
		if s.Instruction != nil {
			insn = s.Instruction.String()
		}
		//
		doc.Steps = append(doc.Steps, Step{s.Step, insn, registersOf(s.State)})
	}
	//
	if failure != nil {
		doc.Failure = failure.Error()
	}
	//
	return doc
}

// Marshal serializes a document to CBOR bytes, using canonical encoding such
// that identical traces give identical bytes.
func Marshal(doc *Document) ([]byte, error) {
	return cborEncMode.Marshal(doc)
}

// Unmarshal deserializes a document from CBOR bytes.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("trace: unmarshal document: %w", err)
	}
	//
	return &doc, nil
}

func registersOf(state machine.State) Registers {
	return Registers{
		Stack:   cell.FormatCells(state.Stack),
		Env:     cell.FormatCells(state.Env),
		Control: cell.FormatCells(state.Control),
		Dump:    cell.FormatCells(state.Dump),
	}
}
