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
package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-secd/pkg/secd/asm"
	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/secd/machine"
	"github.com/consensys/go-secd/pkg/util/source"
)

// Expectation describes how a test program should behave when run.  This is
// given by directives at the beginning of the file, such as:
//
//	;;result:(1 2)
//	;;fails:TYPE_MISMATCH
//	;;input:"abc\n"
//	;;output:"xyz"
//	;;implicit_stop
//	;;max_steps:100
type Expectation struct {
	// Value expected on top of the stack (if any)
	Result cell.Cell
	// Whether or not the program is expected to fail
	Fails bool
	// Kind of failure expected
	Failure machine.ErrorKind
	// Characters available to READC
	Input string
	// Characters expected to be written by WRITEC
	Output string
	// Whether control running out halts the machine
	ImplicitStop bool
	// Step budget (where zero is unbounded)
	MaxSteps uint
}

// Config returns the machine configuration for this expectation, using a given
// character device.
func (p *Expectation) Config(device machine.CharIO) machine.Config {
	return machine.Config{ImplicitStop: p.ImplicitStop, MaxSteps: p.MaxSteps, IO: device}
}

// Directive is a single "name:value" line at the beginning of a test file.
type Directive struct {
	Line  int
	Name  string
	Value string
}

// ERROR_KINDS maps the name of each failure kind to the kind itself.
var ERROR_KINDS = map[string]machine.ErrorKind{
	"STACK_UNDERFLOW":        machine.STACK_UNDERFLOW,
	"ENV_INDEX_OUT_OF_RANGE": machine.ENV_INDEX_OUT_OF_RANGE,
	"TYPE_MISMATCH":          machine.TYPE_MISMATCH,
	"ARITHMETIC":             machine.ARITHMETIC,
	"MALFORMED_OPERAND":      machine.MALFORMED_OPERAND,
	"EMPTY_LIST":             machine.EMPTY_LIST,
	"CONTROL_EXHAUSTED":      machine.CONTROL_EXHAUSTED,
	"BUDGET_EXHAUSTED":       machine.BUDGET_EXHAUSTED,
	"INVALID_INSTRUCTION":    machine.INVALID_INSTRUCTION,
	"UNBOUND_IO":             machine.UNBOUND_IO,
	"IO_FAILURE":             machine.IO_FAILURE,
}

// ReadExpectation extracts the directives at the beginning of a given file,
// and combines them into an expectation.
func ReadExpectation(srcfile *source.File) (Expectation, []error) {
	var expect Expectation
	//
	directives, errs := ExtractAttributes(srcfile, extractDirective)
	//
	for _, d := range directives {
		if err := expect.apply(d); err != nil {
			errs = append(errs, fmt.Errorf("%s:%d: %w", srcfile.Filename(), d.Line, err))
		}
	}
	//
	if expect.Fails && expect.Result != nil {
		errs = append(errs, fmt.Errorf("%s: cannot expect both a result and a failure", srcfile.Filename()))
	}
	//
	return expect, errs
}

func (p *Expectation) apply(d Directive) error {
	var err error
	//
	switch d.Name {
	case "result":
		p.Result, err = asm.ParseCell(d.Value)
	case "fails":
		var ok bool
		//
		if p.Failure, ok = ERROR_KINDS[d.Value]; !ok {
			return fmt.Errorf("unknown failure \"%s\"", d.Value)
		}
		//
		p.Fails = true
	case "input":
		p.Input, err = strconv.Unquote(d.Value)
	case "output":
		p.Output, err = strconv.Unquote(d.Value)
	case "implicit_stop":
		p.ImplicitStop = true
	case "max_steps":
		var n uint64
		n, err = strconv.ParseUint(d.Value, 10, 64)
		p.MaxSteps = uint(n)
	default:
		return fmt.Errorf("unknown directive \"%s\"", d.Name)
	}
	//
	if err != nil {
		return fmt.Errorf("invalid %s directive (%w)", d.Name, err)
	}
	//
	return nil
}

// Extract a directive from a given line, or return false if it does not
// describe one.
func extractDirective(lineno int, lines []source.Line, _ *source.File) (bool, Directive, error) {
	var contents = lines[lineno].String()
	//
	if !strings.HasPrefix(contents, ";;") {
		return false, Directive{}, nil
	}
	//
	contents = strings.TrimSpace(contents[2:])
	//
	name, value, _ := strings.Cut(contents, ":")
	//
	return true, Directive{lineno + 1, name, value}, nil
}
