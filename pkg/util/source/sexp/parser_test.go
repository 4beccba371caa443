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
	"strings"
	"testing"

	"github.com/consensys/go-secd/pkg/util/source"
	"github.com/stretchr/testify/require"
)

func Test_SExp_Parse_01(t *testing.T) {
	checkParse(t, "LDC 1 STOP", "LDC", "1", "STOP")
}

func Test_SExp_Parse_02(t *testing.T) {
	checkParse(t, "LDF (LD (0 0) RET)", "LDF", "(LD (0 0) RET)")
}

func Test_SExp_Parse_03(t *testing.T) {
	checkParse(t, "; comment\nNIL ;another\n  ()  ", "NIL", "()")
}

func Test_SExp_Parse_04(t *testing.T) {
	checkParse(t, `(#\( #\) #\; #\a)`, `(#\( #\) #\; #\a)`)
}

func Test_SExp_Parse_05(t *testing.T) {
	// Nesting is not limited by the call stack
	var depth = 100000
	//
	text := strings.Repeat("(", depth) + "x" + strings.Repeat(")", depth)
	terms, _, err := ParseAll(source.NewSourceFile("test", []byte(text)))
	require.Nil(t, err)
	require.Len(t, terms, 1)
	//
	term := terms[0]
	//
	for range depth {
		require.Equal(t, 1, term.AsList().Len())
		term = term.AsList().Get(0)
	}
	//
	require.Equal(t, "x", term.AsSymbol().Value)
}

func Test_SExp_Parse_06(t *testing.T) {
	var srcfile = source.NewSourceFile("test", []byte("LDC\n  (1 2)"))
	//
	terms, srcmap, err := ParseAll(srcfile)
	require.Nil(t, err)
	//
	span := srcmap.Get(terms[1])
	require.Equal(t, 6, span.Start())
	require.Equal(t, 11, span.End())
}

func Test_SExp_Parse_07(t *testing.T) {
	term, _, err := Parse(source.NewSourceFile("test", []byte("  (a b) ; done\n")))
	require.Nil(t, err)
	require.Equal(t, "(a b)", term.String())
}

func Test_SExp_Invalid_01(t *testing.T) {
	checkParseError(t, "(LDC 1", "test:1:7: unexpected end-of-file")
}

func Test_SExp_Invalid_02(t *testing.T) {
	checkParseError(t, "STOP\n )", "test:2:2: unexpected end-of-list")
}

func Test_SExp_Invalid_03(t *testing.T) {
	_, _, err := Parse(source.NewSourceFile("test", []byte("(a) b")))
	require.NotNil(t, err)
	require.Equal(t, "unexpected remainder", err.Message())
}

func checkParse(t *testing.T, text string, expected ...string) {
	t.Helper()
	//
	terms, _, err := ParseAll(source.NewSourceFile("test", []byte(text)))
	require.Nil(t, err)
	require.Len(t, terms, len(expected))
	//
	for i, term := range terms {
		require.Equal(t, expected[i], term.String())
	}
}

func checkParseError(t *testing.T, text string, expected string) {
	t.Helper()
	//
	_, _, err := ParseAll(source.NewSourceFile("test", []byte(text)))
	require.NotNil(t, err)
	require.Equal(t, expected, err.Error())
}
