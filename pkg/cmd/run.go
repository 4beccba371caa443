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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-secd/pkg/secd/asm"
	"github.com/consensys/go-secd/pkg/secd/machine"
	"github.com/consensys/go-secd/pkg/secd/trace"
	"github.com/consensys/go-secd/pkg/util"
	"github.com/consensys/go-secd/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] program_file",
	Short: "run a program to completion.",
	Long: `Run a given program (either assembly text or bytecode) to completion, and print
	 the value on top of the stack.  READC and WRITEC are bound to standard input and
	 output.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			config    = getConfig(cmd)
			showState = GetFlag(cmd, "state")
			showTrace = GetFlag(cmd, "show-trace")
			traceFile = GetString(cmd, "trace")
			program   = ReadProgramFile(args[0])
			recorder  *trace.Recorder
		)
		//
		if showTrace || traceFile != "" {
			recorder = trace.NewRecorder(config.Trace.Limit)
		}
		//
		state, err := runProgram(program, config, recorder)
		// Report trace (if applicable)
		if recorder != nil {
			doc := recorder.Export(err)
			//
			if showTrace {
				width := GetUint(cmd, "trace-width")
				//
				if perr := trace.Print(os.Stdout, &doc, width, termio.IsTerminal(os.Stdout)); perr != nil {
					fmt.Printf("error writing trace: %s\n", perr)
					os.Exit(2)
				}
			}
			//
			if traceFile != "" {
				writeTraceFile(&doc, traceFile)
			}
		}
		//
		if err != nil {
			log.Error(err)
			os.Exit(1)
		} else if showState {
			fmt.Println(state)
		} else if top, ok := state.Top(); ok {
			fmt.Println(top)
		}
	},
}

// Run a program under a given configuration, with character I/O bound to the
// standard streams.
func runProgram(program asm.Program, config Config, recorder *trace.Recorder) (machine.State, error) {
	var (
		stats   = util.NewPerfStats()
		device  = machine.NewStreamIO(os.Stdin, os.Stdout)
		runtime = config.Runtime()
	)
	//
	runtime.IO = device
	//
	if recorder != nil {
		runtime.Observer = recorder.Observer()
	}
	//
	m := machine.New(program).WithConfig(runtime)
	_, err := machine.ExecuteAll(&m, config.Machine.Chunk)
	// Ensure any output is written out
	if ferr := device.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	//
	stats.Log("Execution", m.Steps())
	//
	return m.State(), err
}

func writeTraceFile(doc *trace.Document, filename string) {
	bytes, err := trace.Marshal(doc)
	if err == nil {
		err = os.WriteFile(filename, bytes, 0644)
	}
	//
	if err != nil {
		fmt.Printf("error writing %s: %s\n", filename, err)
		os.Exit(2)
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("implicit-stop", false, "halt when control is exhausted (rather than failing)")
	runCmd.Flags().Uint("max-steps", 0, "maximum number of steps to execute (0 for unbounded)")
	runCmd.Flags().Bool("state", false, "print the final state, rather than the top of the stack")
	runCmd.Flags().Bool("show-trace", false, "print each step executed")
	runCmd.Flags().String("trace", "", "write an execution trace (CBOR) to the given file")
	runCmd.Flags().Uint("trace-limit", 0, "retain only the given number of most recent steps (0 for all)")
	runCmd.Flags().Uint("trace-width", 40, "maximum width of each register shown by --show-trace (0 for unbounded)")
}
