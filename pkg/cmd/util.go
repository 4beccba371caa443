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
	"path"
	"strings"

	"github.com/consensys/go-secd/pkg/secd/asm"
	"github.com/consensys/go-secd/pkg/secd/bytecode"
	"github.com/consensys/go-secd/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// ReadProgramFile reads a program from a file, using either the assembler or
// the bytecode decoder depending on its extension.  Errors are reported and
// cause an exit.
func ReadProgramFile(filename string) asm.Program {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	switch path.Ext(filename) {
	case ".sasm":
		srcfile := source.NewSourceFile(filename, bytes)
		program, errs := asm.Assemble(*srcfile)
		//
		if len(errs) == 0 {
			return program
		}
		//
		for _, err := range errs {
			printSyntaxError(&err)
		}
	case ".secd", ".bin":
		program, n, err := bytecode.Decode(bytes)
		//
		if err == nil {
			log.Debugf("decoded %d bytes from %s", n, filename)
			return program
		}
		//
		fmt.Printf("%s: %s (%d cells decoded)\n", filename, err, program.Len())
	default:
		fmt.Printf("unknown program file format: %s\n", path.Ext(filename))
	}
	//
	os.Exit(2)
	// unreachable
	return asm.Program{}
}

// WriteBytecodeFile encodes a program and writes it to a given file.
func WriteBytecodeFile(program asm.Program, filename string) {
	bytes, err := bytecode.EncodeProgram(program)
	if err == nil {
		err = os.WriteFile(filename, bytes, 0644)
	}
	//
	if err != nil {
		fmt.Printf("error writing %s: %s\n", filename, err)
		os.Exit(2)
	}
	//
	log.Debugf("wrote %d bytes to %s", len(bytes), filename)
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	// Calculate length (ensures don't overflow line)
	length := min(line.Start()+line.Length()-span.Start(), span.Length())
	// Print error + line number
	fmt.Printf("%s:%d: %s\n", err.SourceFile().Filename(), line.Number(), err.Message())
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", span.Start()-line.Start()))
	// Print highlight
	fmt.Println(strings.Repeat("^", max(1, length)))
}
