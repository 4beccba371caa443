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
	"fmt"

	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/util/collection/list"
	"github.com/consensys/go-secd/pkg/util/source"
	"github.com/consensys/go-secd/pkg/util/source/sexp"
)

// Program is a sequence of cells which is ready to be loaded into the Control
// register.
type Program = list.List[cell.Cell]

// Assemble takes a given set of assembly files, and translates them into a
// single program.  Instructions are written by their mnemonic (in any case),
// constants in their printed form and lists in parentheses.  Files are
// concatenated in the order given.
func Assemble(assembly ...source.File) (Program, []source.SyntaxError) {
	var (
		cells  []cell.Cell
		errors []source.SyntaxError
	)
	// Translate each file in turn.
	for i := range assembly {
		cs, errs := assembleFile(&assembly[i])
		cells = append(cells, cs...)
		errors = append(errors, errs...)
	}
	//
	if len(errors) != 0 {
		return list.Empty[cell.Cell](), errors
	}
	//
	return list.New(cells...), nil
}

// AssembleString is a convenience which assembles a program held in a string.
// The returned error (if any) reports the first syntax error encountered.
func AssembleString(text string) (Program, error) {
	program, errs := Assemble(*source.NewSourceFile("<input>", []byte(text)))
	//
	if len(errs) != 0 {
		return program, &errs[0]
	}
	//
	return program, nil
}

// ParseCell parses a given text into a single cell, such as a constant or an instruction.
func ParseCell(text string) (cell.Cell, error) {
	srcfile := source.NewSourceFile("<input>", []byte(text))
	term, srcmap, err := sexp.Parse(srcfile)
	//
	if err != nil {
		return nil, err
	} else if term == nil {
		return nil, fmt.Errorf("empty input")
	}
	//
	c, errs := translate(term, srcmap)
	//
	if len(errs) != 0 {
		return nil, &errs[0]
	}
	//
	return c, nil
}

func assembleFile(srcfile *source.File) ([]cell.Cell, []source.SyntaxError) {
	terms, srcmap, err := sexp.ParseAll(srcfile)
	//
	if err != nil {
		return nil, []source.SyntaxError{*err}
	}
	//
	var (
		cells  = make([]cell.Cell, len(terms))
		errors []source.SyntaxError
	)
	//
	for i, term := range terms {
		var errs []source.SyntaxError
		cells[i], errs = translate(term, srcmap)
		errors = append(errors, errs...)
	}
	//
	return cells, errors
}

// Translate an S-Expression into a cell.
func translate(term sexp.SExp, srcmap *source.Map[sexp.SExp]) (cell.Cell, []source.SyntaxError) {
	if l := term.AsList(); l != nil {
		var (
			items  = make([]cell.Cell, l.Len())
			errors []source.SyntaxError
		)
		//
		for i, e := range l.Elements {
			var errs []source.SyntaxError
			items[i], errs = translate(e, srcmap)
			errors = append(errors, errs...)
		}
		//
		return cell.NewList(items...), errors
	}
	//
	c, err := translateSymbol(term.AsSymbol().Value)
	//
	if err != nil {
		return nil, []source.SyntaxError{*srcmap.SyntaxError(term, err.Error())}
	}
	//
	return c, nil
}

func translateSymbol(symbol string) (cell.Cell, error) {
	if op, ok := cell.ParseOpcode(symbol); ok {
		return op, nil
	}
	//
	atom, err := cell.ParseAtom(symbol)
	//
	if err != nil {
		return nil, fmt.Errorf("unknown instruction or constant \"%s\"", symbol)
	}
	//
	return atom, nil
}
