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
	"github.com/consensys/go-secd/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble [flags] assembly_file(s)",
	Short: "assemble a program into bytecode.",
	Long: `Assemble a given set of assembly file(s) into a single bytecode program, which
	 can subsequently be run without requiring the assembler.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		output := GetString(cmd, "output")
		// Read assembly files
		srcfiles, err := source.ReadFiles(args...)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		program, errs := asm.Assemble(srcfiles...)
		//
		if len(errs) != 0 {
			for _, err := range errs {
				printSyntaxError(&err)
			}
			//
			os.Exit(2)
		}
		//
		WriteBytecodeFile(program, output)
	},
}

var disassembleCmd = &cobra.Command{
	Use:   "disassemble [flags] program_file",
	Short: "print a program as assembly text.",
	Long:  `Print a given program (typically bytecode) as assembly text, one instruction per line.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		program := ReadProgramFile(args[0])
		//
		fmt.Print(asm.Disassemble(program))
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(disassembleCmd)
	assembleCmd.Flags().StringP("output", "o", "a.secd", "specify output file.")
}
