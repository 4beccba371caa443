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
package sexp

import (
	"unicode"

	"github.com/consensys/go-secd/pkg/util/source"
)

// Parse a given file into exactly one S-expression, or return an error if the
// file is malformed.  A source map is also returned for reporting errors.
func Parse(s *source.File) (SExp, *source.Map[SExp], *source.SyntaxError) {
	p := NewParser(s)
	// Parse the input
	sExp, err := p.Parse()
	// Sanity check everything was parsed
	if err == nil {
		p.SkipWhiteSpace()
		//
		if p.index != len(p.text) {
			return nil, nil, p.error("unexpected remainder")
		}
	}
	// Done
	return sExp, p.SourceMap(), err
}

// ParseAll converts a given file into zero or more S-expressions, or returns
// an error if the file is malformed.  A source map is also returned for
// reporting errors.  The key distinction from Parse is that this function
// continues parsing after the first S-expression is encountered.
func ParseAll(s *source.File) ([]SExp, *source.Map[SExp], *source.SyntaxError) {
	p := NewParser(s)
	//
	terms := make([]SExp, 0)
	// Parse the input
	for {
		term, err := p.Parse()
		// Sanity check everything was parsed
		if err != nil {
			return terms, p.srcmap, err
		} else if term == nil {
			// EOF reached
			return terms, p.srcmap, nil
		}

		terms = append(terms, term)
	}
}

// Parser represents a parser in the process of parsing a given string into one
// or more S-expressions.
type Parser struct {
	// Source file being parsed
	srcfile *source.File
	// Cache (for simplicity)
	text []rune
	// Determine current position within text
	index int
	// Mapping from constructed S-Expressions to their spans in the original text.
	srcmap *source.Map[SExp]
}

// NewParser constructs a new instance of Parser
func NewParser(srcfile *source.File) *Parser {
	// Construct initial parser.
	return &Parser{
		srcfile: srcfile,
		text:    srcfile.Contents(),
		index:   0,
		srcmap:  source.NewSourceMap[SExp](srcfile),
	}
}

// SourceMap returns the internal source map constructing during parsing.  Using
// this one can determine, for each SExp, where in the original text it
// originated.  This is helpful, for example, when reporting syntax errors.
func (p *Parser) SourceMap() *source.Map[SExp] {
	return p.srcmap
}

// Parse the next S-Expression, or produce an error.  Nil is returned (without
// an error) when the end of the input is reached.  Lists are parsed using an
// explicit stack of open lists, hence arbitrarily deep nesting is permitted.
func (p *Parser) Parse() (SExp, *source.SyntaxError) {
	var (
		open   []*List
		starts []int
	)
	//
	for {
		// Skip over any whitespace.  This is import to get the correct starting
		// point for this term.
		p.SkipWhiteSpace()
		// Record start of this term
		start := p.index
		// Extract next token from the stream
		token := p.Next()
		//
		var term SExp
		//
		switch {
		case token == nil && len(open) == 0:
			return nil, nil
		case token == nil:
			return nil, p.error("unexpected end-of-file")
		case len(token) == 1 && token[0] == '(':
			open = append(open, EmptyList())
			starts = append(starts, start)
			//
			continue
		case len(token) == 1 && token[0] == ')':
			if len(open) == 0 {
				p.index-- // backup
				return nil, p.error("unexpected end-of-list")
			}
			//
			n := len(open) - 1
			term, start = open[n], starts[n]
			open, starts = open[:n], starts[:n]
		default:
			// Must be a symbol
			term = &Symbol{string(token)}
		}
		// Register item in source map
		p.srcmap.Put(term, source.NewSpan(start, p.index))
		//
		if len(open) == 0 {
			return term, nil
		}
		//
		open[len(open)-1].Append(term)
	}
}

// Next extracts the next token from a given string.
func (p *Parser) Next() []rune {
	// Skip any whitespace and/or comments.
	p.SkipWhiteSpace()
	// Catch end-of-file
	if p.index == len(p.text) {
		return nil
	}
	// Check what we have
	switch p.text[p.index] {
	case '(', ')':
		// List begin / end
		p.index = p.index + 1
		return p.text[p.index-1 : p.index]
	}
	// Symbol
	return p.parseSymbol()
}

// SkipWhiteSpace skips over any whitespace, including comments.
func (p *Parser) SkipWhiteSpace() {
	for p.index < len(p.text) && (unicode.IsSpace(p.text[p.index]) || p.text[p.index] == ';') {
		// Skip comment
		if p.text[p.index] == ';' {
			p.index = findEndOfComment(p.index, p.text)
		} else {
			// skip space
			p.index++
		}
	}
}

// Parse a symbol.  A character literal (e.g. #\() always includes the rune
// following its backslash, even when that would otherwise end the symbol.
func (p *Parser) parseSymbol() []rune {
	var (
		start = p.index
		i     = p.index
	)
	//
	if i+2 < len(p.text) && p.text[i] == '#' && p.text[i+1] == '\\' {
		i += 3
	}
	//
	for i < len(p.text) && !isDelimiter(p.text[i]) {
		i++
	}
	//
	p.index = i
	//
	return p.text[start:i]
}

func isDelimiter(r rune) bool {
	return r == '(' || r == ')' || r == ';' || unicode.IsSpace(r)
}

func findEndOfComment(index int, text []rune) int {
	for j := index; j < len(text); j++ {
		if text[j] == '\n' {
			return j + 1
		}
	}
	//
	return len(text)
}

// Construct a parser error at the current position in the input stream.
func (p *Parser) error(msg string) *source.SyntaxError {
	span := source.NewSpan(p.index, min(p.index+1, len(p.text)))
	return p.srcfile.SyntaxError(span, msg)
}
