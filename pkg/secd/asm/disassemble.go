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
package asm

import (
	"strings"

	"github.com/consensys/go-secd/pkg/secd/cell"
)

// Disassemble renders a program in its textual form, such that assembling the
// result gives back the same program.  Each top-level instruction is placed on
// its own line, together with any inline operands it consumes.
func Disassemble(program Program) string {
	var (
		builder strings.Builder
		// Number of operands still expected on the current line
		operands uint
	)
	//
	for c := range program.All() {
		if operands > 0 {
			builder.WriteString(" ")
			builder.WriteString(c.String())
			operands--
			//
			continue
		} else if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		//
		builder.WriteString(c.String())
		//
		if op, ok := c.(cell.Opcode); ok {
			operands = op.Operands()
		}
	}
	//
	if builder.Len() > 0 {
		builder.WriteString("\n")
	}
	//
	return builder.String()
}
