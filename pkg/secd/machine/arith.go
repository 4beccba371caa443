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
	"cmp"
	"math"

	"github.com/consensys/go-secd/pkg/secd/cell"
)

// Execute ADD, SUB, MUL, DIV, MOD or FDIV.  The topmost stack value is the left
// operand.
func (p *executor) arithmetic() *EvalError {
	a, err := p.popAtom()
	if err != nil {
		return err
	}
	//
	b, err := p.popAtom()
	if err != nil {
		return err
	}
	//
	result, err := applyArithmetic(p.op, a, b)
	if err != nil {
		return err
	}
	//
	p.push(result)
	//
	return nil
}

// Execute EQ, GT, GTE, LT or LTE.  The topmost stack value is the left operand.
func (p *executor) comparison() *EvalError {
	a, err := p.popAtom()
	if err != nil {
		return err
	}
	//
	b, err := p.popAtom()
	if err != nil {
		return err
	}
	//
	result, err := applyComparison(p.op, a, b)
	if err != nil {
		return err
	}
	//
	p.push(cell.Bool(result))
	//
	return nil
}

// Apply an arithmetic instruction to two atoms, following the
// numeric tower.  That is, if either operand is a Float, then both are widened
// to Float.  Otherwise, both must be integers of the same kind.  FDIV always
// produces a Float.
func applyArithmetic(op cell.Opcode, a, b cell.Atom) (cell.Atom, *EvalError) {
	if err := checkNumeric(op, a, b); err != nil {
		return nil, err
	}
	//
	if op == cell.FDIV || a.Kind() == cell.FLOAT || b.Kind() == cell.FLOAT {
		return floatArithmetic(op, toFloat(a), toFloat(b))
	}
	//
	switch a := a.(type) {
	case cell.UInt:
		return intArithmetic(op, a, b.(cell.UInt))
	default:
		return intArithmetic(op, a.(cell.SInt), b.(cell.SInt))
	}
}

// Apply a comparison instruction to two atoms, widening as for
// arithmetic.  Characters are compared by scalar value, and only with other
// characters.
func applyComparison(op cell.Opcode, a, b cell.Atom) (bool, *EvalError) {
	var c int
	//
	switch {
	case a.Kind() == cell.CHAR || b.Kind() == cell.CHAR:
		if a.Kind() != b.Kind() {
			return false, mismatchAtoms(op, a, b)
		}
		//
		c = cmp.Compare(a.(cell.Char), b.(cell.Char))
	case a.Kind() == cell.FLOAT || b.Kind() == cell.FLOAT:
		fa, fb := toFloat(a), toFloat(b)
		// Every comparison involving NaN fails.
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return false, nil
		}
		//
		c = cmp.Compare(fa, fb)
	case a.Kind() != b.Kind():
		return false, mismatchAtoms(op, a, b)
	case a.Kind() == cell.UINT:
		c = cmp.Compare(a.(cell.UInt), b.(cell.UInt))
	default:
		c = cmp.Compare(a.(cell.SInt), b.(cell.SInt))
	}
	//
	switch op {
	case cell.EQ:
		return c == 0, nil
	case cell.GT:
		return c > 0, nil
	case cell.GTE:
		return c >= 0, nil
	case cell.LT:
		return c < 0, nil
	default:
		return c <= 0, nil
	}
}

func checkNumeric(op cell.Opcode, a, b cell.Atom) *EvalError {
	switch {
	case a.Kind() == cell.CHAR:
		return mismatch(op, "number", a)
	case b.Kind() == cell.CHAR:
		return mismatch(op, "number", b)
	case a.Kind() == cell.FLOAT || b.Kind() == cell.FLOAT || op == cell.FDIV:
		return nil
	case a.Kind() != b.Kind():
		return mismatchAtoms(op, a, b)
	}
	//
	return nil
}

func floatArithmetic(op cell.Opcode, a, b float64) (cell.Atom, *EvalError) {
	switch op {
	case cell.ADD:
		return cell.Float(a + b), nil
	case cell.SUB:
		return cell.Float(a - b), nil
	case cell.MUL:
		return cell.Float(a * b), nil
	case cell.MOD:
		if b == 0 {
			return nil, failure(ARITHMETIC, op, "modulus by zero")
		}
		//
		return cell.Float(math.Mod(a, b)), nil
	default:
		// DIV or FDIV
		if b == 0 {
			return nil, failure(ARITHMETIC, op, "division by zero")
		}
		//
		return cell.Float(a / b), nil
	}
}

// Integer arithmetic wraps on overflow and division truncates towards zero.
func intArithmetic[T cell.UInt | cell.SInt](op cell.Opcode, a, b T) (cell.Atom, *EvalError) {
	var r T
	//
	switch op {
	case cell.ADD:
		r = a + b
	case cell.SUB:
		r = a - b
	case cell.MUL:
		r = a * b
	case cell.DIV:
		if b == 0 {
			return nil, failure(ARITHMETIC, op, "division by zero")
		}
		//
		r = a / b
	default:
		// MOD
		if b == 0 {
			return nil, failure(ARITHMETIC, op, "modulus by zero")
		}
		//
		r = a % b
	}
	//
	return cell.Atom(r), nil
}

// Widen a numeric atom to a float.  Characters never reach here.
func toFloat(a cell.Atom) float64 {
	switch a := a.(type) {
	case cell.UInt:
		return float64(a)
	case cell.SInt:
		return float64(a)
	case cell.Float:
		return float64(a)
	}
	//
	return math.NaN()
}

func mismatchAtoms(op cell.Opcode, a, b cell.Atom) *EvalError {
	return &EvalError{Kind: TYPE_MISMATCH, Op: op, HasOp: true,
		Expected: a.Kind().String(), Found: b.Kind().String()}
}
