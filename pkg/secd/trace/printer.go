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
	"io"

	"github.com/consensys/go-secd/pkg/util/termio"
)

// Print writes a human readable listing of a document as a table, one step
// per row, with a column for each register.  Columns are clipped to maxWidth
// (where zero means unbounded), and failures are shown in red when escapes
// are enabled.
func Print(out io.Writer, doc *Document, maxWidth uint, escapes bool) error {
	var (
		nrows = 2 + uint(len(doc.Steps))
		row   = uint(2)
	)
	//
	if omitted(doc) {
		nrows++
	}
	//
	if doc.Failure != "" {
		nrows++
	}
	//
	table := termio.NewTablePrinter(6, nrows)
	table.SetRow(0, "step", "instr", "stack", "env", "control", "dump")
	table.SetRowEscape(0, termio.BoldAnsiEscape())
	setRegisters(table, 1, "init", "", doc.Initial)
	//
	if omitted(doc) {
		table.SetRow(row, "...", fmt.Sprintf("(%d steps omitted)", doc.Steps[0].Number-1), "", "", "", "")
		row++
	}
	//
	for _, s := range doc.Steps {
		setRegisters(table, row, fmt.Sprintf("%d", s.Number), s.Instruction, s.After)
		row++
	}
	//
	if doc.Failure != "" {
		table.SetRow(row, "error", doc.Failure, "", "", "", "")
		table.SetRowEscape(row, termio.BoldAnsiEscape().FgColour(termio.TERM_RED))
	}
	//
	if maxWidth != 0 {
		// Leave the failure message intact
		for col := uint(2); col < 6; col++ {
			table.SetMaxWidth(col, maxWidth)
		}
	}
	//
	table.AnsiEscapes(escapes)
	//
	return table.Print(out)
}

func omitted(doc *Document) bool {
	return len(doc.Steps) > 0 && doc.Steps[0].Number > 1
}

func setRegisters(table *termio.TablePrinter, row uint, step, instruction string, r Registers) {
	table.SetRow(row, step, instruction, paren(r.Stack), paren(r.Env), paren(r.Control), paren(r.Dump))
}

func paren(s string) string {
	return "(" + s + ")"
}
