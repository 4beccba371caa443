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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/go-secd/pkg/secd/asm"
	"github.com/consensys/go-secd/pkg/secd/cell"
	"github.com/consensys/go-secd/pkg/secd/machine"
	"github.com/consensys/go-secd/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// PROMPT is shown before each line of input.
const PROMPT = "secd> "

var replCmd = &cobra.Command{
	Use:   "repl [flags]",
	Short: "evaluate instructions interactively.",
	Long: `Read instructions a line at a time, evaluating each line against the machine state
	 left by the previous one.  Control running out halts the machine (rather than failing).
	 Lines beginning with a colon are commands (see :help).`,
	Run: func(cmd *cobra.Command, args []string) {
		var config = getConfig(cmd).Runtime()
		//
		console, err := termio.NewConsole(PROMPT)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		err = RunRepl(console, NewSession(config, console))
		//
		if cerr := console.Close(); err == nil {
			err = cerr
		}
		//
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
	},
}

// Session retains the state of the machine between lines of interactive
// input.
type Session struct {
	config machine.Config
	device *machine.StreamIO
	state  machine.State
	steps  uint
}

// NewSession constructs a session in which WRITEC writes to a given output.
// READC always sees the end of input, since input is reserved for lines.
func NewSession(config machine.Config, out io.Writer) *Session {
	var device = machine.NewStreamIO(strings.NewReader(""), out)
	//
	config.ImplicitStop = true
	config.IO = device
	//
	return &Session{config: config, device: device}
}

// State returns the current machine state.
func (p *Session) State() machine.State {
	return p.state
}

// Steps returns the total number of steps executed so far.
func (p *Session) Steps() uint {
	return p.steps
}

// Reset discards the machine state.
func (p *Session) Reset() {
	p.state = machine.State{}
	p.steps = 0
}

// Eval assembles a line of text and executes it against the current state.  On
// failure, the state is left as it was before the line.
func (p *Session) Eval(text string) error {
	program, err := asm.AssembleString(text)
	if err != nil {
		return err
	}
	//
	m := machine.New(program).WithState(p.state.WithControl(program)).WithConfig(p.config)
	nsteps, err := machine.ExecuteAll(&m, machine.DEFAULT_CHUNK)
	// Ensure any output is written out
	if ferr := p.device.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	//
	if err != nil {
		return err
	}
	//
	p.state = m.State()
	p.steps += nsteps
	//
	return nil
}

// RunRepl reads lines from a console until its input is exhausted (or :quit is
// given), evaluating each in turn.
func RunRepl(console termio.Console, session *Session) error {
	var (
		okEscape  = termio.NewAnsiEscape().FgColour(termio.TERM_GREEN)
		errEscape = termio.BoldAnsiEscape().FgColour(termio.TERM_RED)
	)
	//
	for {
		line, err := console.ReadLine()
		//
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		//
		line = strings.TrimSpace(line)
		//
		var output string
		//
		switch {
		case line == "":
			continue
		case line == ":quit" || line == ":q":
			return nil
		case line == ":help":
			output = ":state  print the machine state\n:steps  print the number of steps executed\n" +
				":reset  clear the machine state\n:quit   leave"
		case line == ":state":
			output = session.State().String()
		case line == ":steps":
			output = fmt.Sprintf("%d", session.Steps())
		case line == ":reset":
			session.Reset()
			continue
		case strings.HasPrefix(line, ":"):
			output = styled(console, errEscape, fmt.Sprintf("unknown command %s", line))
		default:
			if err := session.Eval(line); err != nil {
				output = styled(console, errEscape, err.Error())
			} else if top, ok := session.State().Top(); ok {
				output = styled(console, okEscape, top.String())
			} else {
				output = styled(console, okEscape, cell.Nil.String())
			}
		}
		//
		if _, err := fmt.Fprintln(console, output); err != nil {
			return err
		}
	}
}

func styled(console termio.Console, escape termio.AnsiEscape, text string) string {
	if console.Styled() {
		return escape.Wrap(text)
	}
	//
	return text
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().Uint("max-steps", 0, "maximum number of steps to execute per line (0 for unbounded)")
}
