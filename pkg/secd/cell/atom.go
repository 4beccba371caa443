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
package cell

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Kind distinguishes the different sorts of atom.
type Kind uint8

const (
	// UINT is a 64bit unsigned integer.
	UINT Kind = iota
	// SINT is a 64bit two's complement signed integer.
	SINT
	// CHAR is a Unicode scalar value.
	CHAR
	// FLOAT is a 64bit IEEE-754 floating point number.
	FLOAT
)

func (k Kind) String() string {
	switch k {
	case UINT:
		return "uint"
	case SINT:
		return "sint"
	case CHAR:
		return "char"
	case FLOAT:
		return "float"
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsInteger checks whether this is one of the integer kinds.
func (k Kind) IsInteger() bool {
	return k == UINT || k == SINT
}

// Atom is an immutable scalar value.  Atoms are equal when they are of the same
// kind and hold the same value.
type Atom interface {
	Cell
	// Kind identifies which sort of atom this is.
	Kind() Kind
}

// UInt is an unsigned integer atom.
type UInt uint64

// SInt is a signed integer atom.
type SInt int64

// Char is a character atom, holding a Unicode scalar value.
type Char rune

// Float is a floating point atom.  Equality follows IEEE-754, hence NaN is not
// equal to itself.
type Float float64

var (
	_ Atom = UInt(0)
	_ Atom = SInt(0)
	_ Atom = Char(0)
	_ Atom = Float(0)
)

func (UInt) cell()  {}
func (SInt) cell()  {}
func (Char) cell()  {}
func (Float) cell() {}

// Kind implementation for the Atom interface.
func (UInt) Kind() Kind { return UINT }

// Kind implementation for the Atom interface.
func (SInt) Kind() Kind { return SINT }

// Kind implementation for the Atom interface.
func (Char) Kind() Kind { return CHAR }

// Kind implementation for the Atom interface.
func (Float) Kind() Kind { return FLOAT }

// Equals implementation for the Cell interface.
func (a UInt) Equals(other Cell) bool {
	b, ok := other.(UInt)
	return ok && a == b
}

// Equals implementation for the Cell interface.
func (a SInt) Equals(other Cell) bool {
	b, ok := other.(SInt)
	return ok && a == b
}

// Equals implementation for the Cell interface.
func (a Char) Equals(other Cell) bool {
	b, ok := other.(Char)
	return ok && a == b
}

// Equals implementation for the Cell interface.
func (a Float) Equals(other Cell) bool {
	b, ok := other.(Float)
	return ok && a == b
}

func (a UInt) String() string {
	return strconv.FormatUint(uint64(a), 10) + "u"
}

func (a SInt) String() string {
	return strconv.FormatInt(int64(a), 10)
}

// String renders a character as #\c when it is printable, or as #\uXXXX
// otherwise.
func (a Char) String() string {
	r := rune(a)
	//
	if unicode.IsGraphic(r) && !unicode.IsSpace(r) && !strings.ContainsRune("();[]{}", r) {
		return `#\` + string(r)
	}
	//
	return fmt.Sprintf(`#\u%04X`, r)
}

// String renders a float such that it is never mistaken for an integer.
func (a Float) String() string {
	f := float64(a)
	//
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	//
	s := strconv.FormatFloat(f, 'g', -1, 64)
	//
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	//
	return s
}

// ParseAtom parses the textual form of an atom, as produced by String.
func ParseAtom(text string) (Atom, error) {
	switch {
	case text == "":
		return nil, fmt.Errorf("empty atom")
	case strings.HasPrefix(text, `#\`):
		return parseChar(text[2:])
	case text == "nan":
		return Float(math.NaN()), nil
	case text == "+inf" || text == "inf":
		return Float(math.Inf(1)), nil
	case text == "-inf":
		return Float(math.Inf(-1)), nil
	case strings.HasSuffix(text, "u"):
		v, err := strconv.ParseUint(text[:len(text)-1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid unsigned integer \"%s\"", text)
		}
		//
		return UInt(v), nil
	case strings.ContainsAny(text, ".eE"):
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float \"%s\"", text)
		}
		//
		return Float(v), nil
	}
	//
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer \"%s\"", text)
	}
	//
	return SInt(v), nil
}

func parseChar(text string) (Atom, error) {
	runes := []rune(text)
	//
	switch {
	case len(runes) == 1:
		return Char(runes[0]), nil
	case len(runes) > 1 && runes[0] == 'u':
		v, err := strconv.ParseUint(string(runes[1:]), 16, 32)
		if err != nil || !IsScalarValue(uint32(v)) {
			return nil, fmt.Errorf("invalid character \"#\\%s\"", text)
		}
		//
		return Char(rune(v)), nil
	}
	//
	return nil, fmt.Errorf("invalid character \"#\\%s\"", text)
}

// IsScalarValue checks whether a given code point is a Unicode scalar value
// (i.e. in range and not a surrogate).
func IsScalarValue(v uint32) bool {
	return v <= unicode.MaxRune && (v < 0xD800 || v > 0xDFFF)
}
