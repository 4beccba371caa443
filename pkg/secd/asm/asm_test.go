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
	"math"
	"testing"

	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/secd/machine"
	"github.com/consensys/go-secd/pkg/util/collection/list"
	"github.com/consensys/go-secd/pkg/util/source"
	"github.com/stretchr/testify/require"
)

func Test_Assemble_01(t *testing.T) {
	checkAssemble(t, "LDC 1 LDC 2 ADD STOP", cell.LDC, cell.SInt(1), cell.LDC, cell.SInt(2), cell.ADD, cell.STOP)
}

func Test_Assemble_02(t *testing.T) {
	// Mnemonics are case insensitive
	checkAssemble(t, "nil ldc 1u Cons", cell.NIL, cell.LDC, cell.UInt(1), cell.CONS)
}

func Test_Assemble_03(t *testing.T) {
	checkAssemble(t, "LDF (LD (0 0) RET)",
		cell.LDF, cell.NewList(cell.LD, cell.NewList(cell.SInt(0), cell.SInt(0)), cell.RET))
}

func Test_Assemble_04(t *testing.T) {
	checkAssemble(t, `LDC (-1 2.5 #\a #\  #\( nan ())`,
		cell.LDC, cell.NewList(cell.SInt(-1), cell.Float(2.5), cell.Char('a'), cell.Char(' '), cell.Char('('),
			cell.Float(math.NaN()), cell.Nil))
}

func Test_Assemble_05(t *testing.T) {
	checkAssemble(t, "; nothing but comments\n")
}

func Test_Assemble_06(t *testing.T) {
	var (
		f1 = source.NewSourceFile("a.sasm", []byte("LDC 1"))
		f2 = source.NewSourceFile("b.sasm", []byte("STOP"))
	)
	//
	program, errs := Assemble(*f1, *f2)
	require.Empty(t, errs)
	checkProgram(t, program, cell.LDC, cell.SInt(1), cell.STOP)
}

func Test_Assemble_Invalid_01(t *testing.T) {
	checkAssembleError(t, "LDC 1\nFOO", `<input>:2:1: unknown instruction or constant "FOO"`)
}

func Test_Assemble_Invalid_02(t *testing.T) {
	checkAssembleError(t, "LDC (1 2", "<input>:1:9: unexpected end-of-file")
}

func Test_Assemble_Invalid_03(t *testing.T) {
	checkAssembleError(t, `LDC #\uD800`, `<input>:1:5: unknown instruction or constant "#\uD800"`)
}

func Test_Assemble_Invalid_04(t *testing.T) {
	// Every bad symbol is reported
	_, errs := Assemble(*source.NewSourceFile("test", []byte("(x 1 y)")))
	require.Len(t, errs, 2)
	require.Equal(t, "test:1:2: unknown instruction or constant \"x\"", errs[0].Error())
	require.Equal(t, "test:1:6: unknown instruction or constant \"y\"", errs[1].Error())
}

func Test_ParseCell_01(t *testing.T) {
	c, err := ParseCell(" (1 (2u)) ")
	require.NoError(t, err)
	require.True(t, cell.NewList(cell.SInt(1), cell.NewList(cell.UInt(2))).Equals(c))
	//
	_, err = ParseCell("1 2")
	require.Error(t, err)
	//
	_, err = ParseCell("")
	require.Error(t, err)
}

func Test_Disassemble_01(t *testing.T) {
	checkDisassemble(t, "LDC 1\nLDC 2\nADD\nSTOP\n", cell.LDC, cell.SInt(1), cell.LDC, cell.SInt(2), cell.ADD, cell.STOP)
}

func Test_Disassemble_02(t *testing.T) {
	checkDisassemble(t, "LD (0 1)\nSEL (LDC 1 JOIN) (NIL JOIN)\nLDF (RET)\n",
		cell.LD, cell.NewList(cell.SInt(0), cell.SInt(1)),
		cell.SEL, cell.NewList(cell.LDC, cell.SInt(1), cell.JOIN), cell.NewList(cell.NIL, cell.JOIN),
		cell.LDF, cell.NewList(cell.RET))
}

func Test_Disassemble_03(t *testing.T) {
	// An instruction used as an operand does not take operands of its own
	checkDisassemble(t, "LDC LDF\nSTOP\n", cell.LDC, cell.LDF, cell.STOP)
	checkDisassemble(t, "")
}

func Test_Disassemble_04(t *testing.T) {
	var text = recursive(50)
	//
	program, err := AssembleString(text)
	require.NoError(t, err)
	//
	again, err := AssembleString(Disassemble(program))
	require.NoError(t, err)
	require.True(t, cell.ListOf(program).Equals(cell.ListOf(again)))
}

func Test_Assemble_Eval_01(t *testing.T) {
	program, err := AssembleString(recursive(300))
	require.NoError(t, err)
	//
	state, err := machine.Eval(program, machine.Config{})
	require.NoError(t, err)
	//
	top, ok := state.Top()
	require.True(t, ok)
	require.Equal(t, cell.Cell(cell.SInt(300)), top)
}

// ===================================================================
// Test Helpers
// ===================================================================

// A program which counts down from n to zero recursively, adding one on each
// return.
func recursive(n int) string {
	return `
	DUM NIL
	LDF (LD (0 0) LDC 0 EQ
	     SEL (LDC 0 JOIN)
	         (NIL LDC 1 LD (0 0) SUB CONS LD (1 0) AP LDC 1 ADD JOIN)
	     RET)
	CONS
	LDF (NIL LDC ` + cell.SInt(n).String() + ` CONS LD (0 0) AP RET)
	RAP
	STOP`
}

func checkAssemble(t *testing.T, text string, expected ...cell.Cell) {
	t.Helper()
	//
	program, err := AssembleString(text)
	require.NoError(t, err)
	checkProgram(t, program, expected...)
}

func checkAssembleError(t *testing.T, text string, expected string) {
	t.Helper()
	//
	_, err := AssembleString(text)
	require.Error(t, err)
	require.Equal(t, expected, err.Error())
}

func checkDisassemble(t *testing.T, expected string, cells ...cell.Cell) {
	t.Helper()
	//
	text := Disassemble(list.New(cells...))
	require.Equal(t, expected, text)
	//
	program, err := AssembleString(text)
	require.NoError(t, err)
	checkProgram(t, program, cells...)
}

func checkProgram(t *testing.T, program Program, expected ...cell.Cell) {
	t.Helper()
	//
	actual := cell.ListOf(program)
	// NaN never equals itself, so compare printed forms
	require.Equal(t, cell.NewList(expected...).String(), actual.String())
}
