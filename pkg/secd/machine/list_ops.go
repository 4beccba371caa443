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
	"github.com/consensys/go-secd/pkg/secd/cell"
)

// Execute ATOM, NULL, CONS, CAR or CDR.
func (p *executor) listOp() *EvalError {
	switch p.op {
	case cell.ATOM, cell.NULL:
		item, err := p.pop()
		if err != nil {
			return err
		}
		//
		if p.op == cell.ATOM {
			_, ok := item.(cell.Atom)
			p.push(cell.Bool(ok))
		} else {
			p.push(cell.Bool(cell.IsNil(item)))
		}
	case cell.CONS:
		item, err := p.pop()
		if err != nil {
			return err
		}
		//
		tail, err := p.popList("list")
		if err != nil {
			return err
		}
		//
		p.push(cell.ListOf(tail.Items().Push(item)))
	default:
		// CAR or CDR
		l, err := p.popList("list")
		if err != nil {
			return err
		}
		//
		head, rest, perr := l.Items().Pop()
		if perr != nil {
			return failure(EMPTY_LIST, p.op, "cannot take %s of nil", p.op)
		}
		//
		if p.op == cell.CAR {
			p.push(head)
		} else {
			p.push(cell.ListOf(rest))
		}
	}
	//
	return nil
}
