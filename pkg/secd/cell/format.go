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
package cell

import (
	"strings"

	"github.com/consensys/go-secd/pkg/util/collection/list"
)

// RECURSIVE_FRAME is printed in place of a placeholder frame which is
// encountered again whilst it is already being printed.
const RECURSIVE_FRAME = "#<rec>"

// format a list in its textual form, e.g. "(LDC 1 (0u 1u))".
func format(l List) string {
	var (
		builder strings.Builder
		active  = make(map[*hole]bool)
	)
	//
	writeList(&builder, l, active)
	//
	return builder.String()
}

func writeList(builder *strings.Builder, l List, active map[*hole]bool) {
	if l.hole != nil {
		if active[l.hole] {
			builder.WriteString(RECURSIVE_FRAME)
			return
		}
		//
		active[l.hole] = true
		defer delete(active, l.hole)
	}
	//
	builder.WriteString("(")
	//
	first := true
	//
	for item := range l.Items().All() {
		if !first {
			builder.WriteString(" ")
		}
		//
		first = false
		//
		if sub, ok := item.(List); ok {
			writeList(builder, sub, active)
		} else {
			builder.WriteString(item.String())
		}
	}
	//
	builder.WriteString(")")
}

// FormatCells renders a sequence of cells separated by spaces, which is the
// textual form of a program or a register.
func FormatCells(cells list.List[Cell]) string {
	var parts []string
	//
	for c := range cells.All() {
		parts = append(parts, c.String())
	}
	//
	return strings.Join(parts, " ")
}
