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
package termio

import (
	"bufio"
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// Console provides line-at-a-time interaction, as needed for a read-eval-print
// loop.
type Console interface {
	io.Writer
	// ReadLine reads the next line of input (without its line terminator),
	// returning io.EOF once input is exhausted.
	ReadLine() (string, error)
	// SetPrompt sets the prompt shown before each line is read.
	SetPrompt(prompt string)
	// Styled determines whether ANSI escapes can be written.
	Styled() bool
	// Close restores the underlying device (if necessary).
	Close() error
}

// NewConsole constructs a console for the standard streams.  When these are
// attached to a terminal, this gives line editing and history.  Otherwise,
// lines are read verbatim.
func NewConsole(prompt string) (Console, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return NewTerminal(prompt)
	}
	//
	return NewStreamConsole(os.Stdin, os.Stdout), nil
}

// IsTerminal checks whether a given writer is attached to a terminal, and so
// can display ANSI escapes.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	//
	return ok && term.IsTerminal(int(f.Fd()))
}

// ============================================================================
// Terminal
// ============================================================================

// Terminal is a console attached to an interactive terminal, which is placed
// into raw mode for line editing.
type Terminal struct {
	// file descriptor for input.
	fd int
	// Underlying terminal
	xterm *term.Terminal
	// Stores original state of terminal so this can be restored.
	state *term.State
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ Console = (*Terminal)(nil)

// NewTerminal constructs a new terminal.
func NewTerminal(prompt string) (*Terminal, error) {
	fd := int(os.Stdin.Fd())
	//
	if !term.IsTerminal(fd) {
		return nil, errors.New("invalid terminal")
	}
	// Move terminal into raw mode
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	// Construct "screen"
	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	// Grab terminal screen
	terminal := term.NewTerminal(screen, prompt)
	// Size is needed for line wrapping
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		_ = terminal.SetSize(w, h)
	}
	//
	return &Terminal{fd, terminal, state}, nil
}

// ReadLine implementation for the Console interface.
func (t *Terminal) ReadLine() (string, error) {
	return t.xterm.ReadLine()
}

// SetPrompt implementation for the Console interface.
func (t *Terminal) SetPrompt(prompt string) {
	t.xterm.SetPrompt(prompt)
}

// Write implementation for the io.Writer interface.  Line feeds are translated
// as necessary for raw mode.
func (t *Terminal) Write(bytes []byte) (int, error) {
	return t.xterm.Write(bytes)
}

// Styled implementation for the Console interface.
func (t *Terminal) Styled() bool {
	return true
}

// Close restores the terminal to its original state.
func (t *Terminal) Close() error {
	return term.Restore(t.fd, t.state)
}

// ============================================================================
// Stream Console
// ============================================================================

// StreamConsole is a console over plain byte streams (e.g. a pipe).  Prompts
// are not shown.
type StreamConsole struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NOTE: This is used for compile time type checking if the given type
// satisfies the given interface.
var _ Console = (*StreamConsole)(nil)

// NewStreamConsole constructs a console reading lines from a given input, and
// writing to a given output.
func NewStreamConsole(in io.Reader, out io.Writer) *StreamConsole {
	return &StreamConsole{bufio.NewScanner(in), out}
}

// ReadLine implementation for the Console interface.
func (p *StreamConsole) ReadLine() (string, error) {
	if p.scanner.Scan() {
		return p.scanner.Text(), nil
	} else if err := p.scanner.Err(); err != nil {
		return "", err
	}
	//
	return "", io.EOF
}

// SetPrompt implementation for the Console interface.
func (p *StreamConsole) SetPrompt(string) {}

// Write implementation for the io.Writer interface.
func (p *StreamConsole) Write(bytes []byte) (int, error) {
	return p.out.Write(bytes)
}

// Styled implementation for the Console interface.
func (p *StreamConsole) Styled() bool {
	return false
}

// Close implementation for the Console interface.
func (p *StreamConsole) Close() error {
	return nil
}
