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
package main

import (
	"math/rand/v2"
	"os"
	"path"
	"testing"

	"github.com/consensys/go-secd/pkg/secd/asm"
	"github.com/consensys/go-secd/pkg/secd/machine"
	"github.com/consensys/go-secd/pkg/util/source"
	"github.com/stretchr/testify/require"
)

func Test_TestGen_Arith_01(t *testing.T) {
	checkModel(t, "arith", -8, 8)
}

func Test_TestGen_Arith_02(t *testing.T) {
	// Large elements overflow
	checkModel(t, "arith", -1<<61, 1<<61)
}

func Test_TestGen_Compare_01(t *testing.T) {
	checkModel(t, "compare", -2, 2)
}

func Test_TestGen_List_01(t *testing.T) {
	checkModel(t, "list", 0, 100)
}

func Test_TestGen_Write_01(t *testing.T) {
	var (
		dir      = t.TempDir()
		cfg      = TestGenConfig{findModel("list"), 1, 1, 2, 2}
		rng      = rand.New(rand.NewPCG(1, 1))
		programs = generateTestPrograms(cfg, rng, 3)
	)
	//
	writeTestPrograms(cfg.model, dir, programs)
	//
	for _, name := range []string{"list_01.sasm", "list_02.sasm", "list_03.sasm"} {
		bytes, err := os.ReadFile(path.Join(dir, name))
		require.NoError(t, err)
		// Programs only assemble if the result directive is a comment
		_, errs := asm.Assemble(*source.NewSourceFile(name, bytes))
		require.Empty(t, errs)
	}
}

// Check the oracle for a given model agrees with the machine.
func checkModel(t *testing.T, name string, minElem, maxElem int) {
	var (
		cfg = TestGenConfig{findModel(name), minElem, maxElem, 0, 20}
		rng = rand.New(rand.NewPCG(1, 2))
	)
	//
	for _, p := range generateTestPrograms(cfg, rng, 100) {
		program, err := asm.AssembleString(p.Text)
		require.NoError(t, err)
		//
		state, err := machine.Eval(program, machine.Config{ImplicitStop: true})
		require.NoError(t, err, p.Text)
		//
		top, ok := state.Top()
		require.True(t, ok)
		require.Equal(t, p.Expected.String(), top.String(), p.Text)
	}
}
