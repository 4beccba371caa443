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
	"fmt"
	"math/rand/v2"
	"os"
	"path"
	"strings"

	"github.com/consensys/go-secd/pkg/cmd"
	"github.com/consensys/go-secd/pkg/secd/cell"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Int("min-elem", -8, "Minimum element")
	rootCmd.Flags().Int("max-elem", 8, "Maximum element")
	rootCmd.Flags().Uint("min-lines", 1, "Minimum number of operations")
	rootCmd.Flags().Uint("max-lines", 6, "Maximum number of operations")
	rootCmd.Flags().Uint("count", 10, "Number of programs to generate")
	rootCmd.Flags().Uint64("seed", 1, "Seed for the random number generator")
	rootCmd.Flags().String("dir", "testdata/secd/auto", "Directory to write programs into")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen model",
	Short: "Test generation utility for go-secd.",
	Run: func(c *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(c.UsageString())
			os.Exit(1)
		}
		//
		var cfg TestGenConfig
		// Lookup model
		cfg.model = findModel(args[0])
		cfg.min_elem = getInt(c, "min-elem")
		cfg.max_elem = getInt(c, "max-elem")
		cfg.min_lines = cmd.GetUint(c, "min-lines")
		cfg.max_lines = cmd.GetUint(c, "max-lines")
		//
		count := cmd.GetUint(c, "count")
		seed, _ := c.Flags().GetUint64("seed")
		rng := rand.New(rand.NewPCG(seed, seed))
		// Generate & write out
		programs := generateTestPrograms(cfg, rng, count)
		writeTestPrograms(cfg.model, cmd.GetString(c, "dir"), programs)
		os.Exit(0)
	},
}

// TestGenConfig encapsulates configuration related to test generation.
type TestGenConfig struct {
	model     Model
	min_elem  int
	max_elem  int
	min_lines uint
	max_lines uint
}

// TestProgram is a generated program together with the value it should leave
// on top of the stack.
type TestProgram struct {
	Text     string
	Expected cell.Cell
}

// GeneratorFn generates a program of a given number of operations, and
// determines (independently of the machine) what it should evaluate to.
type GeneratorFn = func(cfg TestGenConfig, rng *rand.Rand, n uint) TestProgram

// Model represents a hard-coded oracle for a given kind of program.
type Model struct {
	// Name of the model in question
	Name string
	// Generator for programs (and their results)
	Generate GeneratorFn
}

var models []Model = []Model{
	{"arith", arithModel},
	{"compare", compareModel},
	{"list", listModel},
}

func findModel(name string) Model {
	for _, m := range models {
		if m.Name == name {
			return m
		}
	}
	//
	fmt.Printf("unknown model \"%s\"\n", name)
	os.Exit(1)
	// unreachable
	return Model{}
}

// Generate a given number of test programs.
func generateTestPrograms(cfg TestGenConfig, rng *rand.Rand, count uint) []TestProgram {
	programs := make([]TestProgram, count)
	//
	for i := range programs {
		n := cfg.min_lines
		//
		if cfg.max_lines > cfg.min_lines {
			n += rng.UintN(cfg.max_lines - cfg.min_lines + 1)
		}
		//
		programs[i] = cfg.model.Generate(cfg, rng, n)
	}
	//
	return programs
}

func writeTestPrograms(model Model, dir string, programs []TestProgram) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(err)
	}
	//
	for i, p := range programs {
		var sb strings.Builder
		// Construct filename
		filename := path.Join(dir, fmt.Sprintf("%s_%02d.sasm", model.Name, i+1))
		//
		sb.WriteString(fmt.Sprintf(";;result:%s\n", p.Expected))
		sb.WriteString(p.Text)
		sb.WriteString("STOP\n")
		// Write the file
		if err := os.WriteFile(filename, []byte(sb.String()), 0644); err != nil {
			panic(err)
		}
	}
	// Log what happened
	log.Infof("Wrote %d %s programs to %s\n", len(programs), model.Name, dir)
}

// ============================================================================
// Models
// ============================================================================

// Apply a chain of arithmetic operations, where each new operand is the left
// operand.  Division is only used when the accumulator is non-zero.
func arithModel(cfg TestGenConfig, rng *rand.Rand, n uint) TestProgram {
	var (
		sb  strings.Builder
		acc = randomElement(cfg, rng)
	)
	//
	sb.WriteString(fmt.Sprintf("LDC %s\n", acc))
	//
	for range n {
		var (
			b  = randomElement(cfg, rng)
			op = cell.ADD + cell.Opcode(rng.IntN(5))
		)
		//
		if acc == 0 && (op == cell.DIV || op == cell.MOD) {
			op = cell.MUL
		}
		//
		switch op {
		case cell.ADD:
			acc = b + acc
		case cell.SUB:
			acc = b - acc
		case cell.MUL:
			acc = b * acc
		case cell.DIV:
			acc = b / acc
		default:
			acc = b % acc
		}
		//
		sb.WriteString(fmt.Sprintf("LDC %s %s\n", b, op))
	}
	//
	return TestProgram{sb.String(), acc}
}

// Compare two elements.
func compareModel(cfg TestGenConfig, rng *rand.Rand, _ uint) TestProgram {
	var (
		a, b   = randomElement(cfg, rng), randomElement(cfg, rng)
		op     = cell.EQ + cell.Opcode(rng.IntN(5))
		result bool
	)
	//
	switch op {
	case cell.EQ:
		result = b == a
	case cell.GT:
		result = b > a
	case cell.GTE:
		result = b >= a
	case cell.LT:
		result = b < a
	default:
		result = b <= a
	}
	//
	return TestProgram{fmt.Sprintf("LDC %s LDC %s %s\n", a, b, op), cell.Bool(result)}
}

// Build a list one element at a time, then drop a random number of elements
// from its front.
func listModel(cfg TestGenConfig, rng *rand.Rand, n uint) TestProgram {
	var (
		sb    strings.Builder
		items []cell.Cell
	)
	//
	sb.WriteString("NIL\n")
	//
	for range n {
		e := randomElement(cfg, rng)
		items = append([]cell.Cell{e}, items...)
		sb.WriteString(fmt.Sprintf("LDC %s CONS\n", e))
	}
	//
	for drop := rng.UintN(n + 1); drop > 0; drop-- {
		items = items[1:]
		//
		sb.WriteString("CDR\n")
	}
	//
	return TestProgram{sb.String(), cell.NewList(items...)}
}

func randomElement(cfg TestGenConfig, rng *rand.Rand) cell.SInt {
	if cfg.max_elem <= cfg.min_elem {
		return cell.SInt(cfg.min_elem)
	}
	//
	return cell.SInt(cfg.min_elem + rng.IntN(cfg.max_elem-cfg.min_elem+1))
}

func getInt(c *cobra.Command, flag string) int {
	r, err := c.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}
