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
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/consensys/go-secd/pkg/secd/asm"
	"github.com/consensys/go-secd/pkg/secd/bytecode"
	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/secd/machine"
)

// Check that a given assembly program behaves as described by the directives
// at its beginning.  The program is run twice: once as assembled, and once
// after a round trip through bytecode.
func Check(t *testing.T, test string) {
	var filename = fmt.Sprintf("%s/%s.%s", TestDir, test, ASSEMBLY_EXTENSION)
	// Enable testing each file in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	//
	expect, errs := ReadExpectation(srcfile)
	if len(errs) > 0 {
		t.Fatal(errors.Join(errs...))
	}
	//
	program, serrs := asm.Assemble(*srcfile)
	if len(serrs) > 0 {
		t.Fatalf("Error %s\n%s", filename, errorToString(serrs[0]))
	}
	//
	checkExecution(t, filename, program, expect)
	// Now via bytecode
	bytes, err := bytecode.EncodeProgram(program)
	if err != nil {
		t.Fatalf("Error %s (encoding): %s", filename, err)
	}
	//
	decoded, n, err := bytecode.Decode(bytes)
	if err != nil {
		t.Fatalf("Error %s (decoding): %s", filename, err)
	} else if n != uint(len(bytes)) {
		t.Fatalf("Error %s (decoding): read %d of %d bytes", filename, n, len(bytes))
	} else if cell.FormatCells(decoded) != cell.FormatCells(program) {
		t.Fatalf("Error %s (decoding): program changed\nexpected %s\nactual   %s", filename,
			cell.FormatCells(program), cell.FormatCells(decoded))
	}
	//
	checkExecution(t, filename+" (bytecode)", decoded, expect)
}

func checkExecution(t *testing.T, name string, program asm.Program, expect Expectation) {
	var (
		out    strings.Builder
		device = machine.NewStreamIO(strings.NewReader(expect.Input), &out)
	)
	//
	state, err := machine.Eval(program, expect.Config(device))
	//
	if ferr := device.Flush(); ferr != nil {
		t.Fatalf("Error %s: %s", name, ferr)
	}
	//
	if expect.Fails {
		checkFailure(t, name, err, expect.Failure)
	} else if err != nil {
		t.Errorf("Error %s: unexpected failure %s", name, err)
	} else if expect.Result != nil {
		top, ok := state.Top()
		// Compare printed forms, since NaN is never equal to itself.
		if !ok {
			t.Errorf("Error %s: expected %s, found empty stack", name, expect.Result)
		} else if top.String() != expect.Result.String() {
			t.Errorf("Error %s: expected %s, found %s", name, expect.Result, top)
		}
	}
	//
	if out.String() != expect.Output {
		t.Errorf("Error %s: expected output %q, found %q", name, expect.Output, out.String())
	}
}

func checkFailure(t *testing.T, name string, err error, kind machine.ErrorKind) {
	var evalErr *machine.EvalError
	//
	if err == nil {
		t.Errorf("Error %s: expected %s failure, but succeeded", name, kind)
	} else if !errors.As(err, &evalErr) {
		t.Errorf("Error %s: expected %s failure, found %s", name, kind, err)
	} else if evalErr.Kind != kind {
		t.Errorf("Error %s: expected %s failure, found %s", name, kind, evalErr)
	}
}
