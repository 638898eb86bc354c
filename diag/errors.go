// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diag defines the located diagnostics posted by the checker. It is
// the host's error channel referred to throughout spec.md §7: the validator
// never returns a structured error to its caller, it posts one of these
// through validate.Validate and returns false.
package diag

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/larkscript/typecheck/token"
)

// Message is a printf-style message kept unformatted so it can be rendered,
// compared, or (in principle) localized later without committing to a
// string at construction time.
type Message struct {
	format string
	args   []interface{}
}

// Newf creates a Message for human consumption.
func Newf(format string, args ...interface{}) Message {
	return Message{format: format, args: args}
}

func (m Message) Msg() (string, []interface{}) { return m.format, m.args }

func (m Message) Error() string { return fmt.Sprintf(m.format, m.args...) }

// Code identifies the diagnostic taxonomy entry from spec.md §7. It is
// carried alongside the human message so callers (and tests) can match on
// the kind of rejection without parsing prose.
type Code string

const (
	UnknownTypeName    Code = "UnknownTypeName"
	IllegalTypeForm    Code = "IllegalTypeForm"
	IncompleteType     Code = "IncompleteType"
	Undefined          Code = "Undefined"
	Redeclared         Code = "Redeclared"
	ComplexLHS         Code = "ComplexLHS"
	MultipleTargets    Code = "MultipleTargets"
	DeclInNonRoot      Code = "DeclInNonRoot"
	TypeMismatch       Code = "TypeMismatch"
	UnrecognizedNumber Code = "UnrecognizedNumber"
	UnrecognizedConst  Code = "UnrecognizedConstant"
	Unimplemented      Code = "Unimplemented"
	InternalErrorCode  Code = "InternalError"
)

// Error is the interface satisfied by every diagnostic the checker posts. It
// mirrors cue/errors.Error: a position, the unformatted message, and the
// taxonomy code. It has no path component.
type Error interface {
	error
	Position() token.Pos
	Code() Code
	Msg() (format string, args []interface{})
}

type posError struct {
	pos  token.Pos
	code Code
	Message
}

func (e *posError) Position() token.Pos { return e.pos }
func (e *posError) Code() Code          { return e.code }

var _ Error = (*posError)(nil)

// NewfCode creates a located Error with the given taxonomy code.
func NewfCode(code Code, p token.Pos, format string, args ...interface{}) Error {
	return &posError{pos: p, code: code, Message: Newf(format, args...)}
}

// list is how multiple diagnostics are carried together; the checker itself
// only ever uses the first one (spec.md §7's "first error wins"), but
// Append/Errors exist for hosts that want to collect more than one pass's
// worth of rejections.
type list []Error

func (p list) Error() string {
	var b strings.Builder
	for i, e := range p {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// Position, Code, and Msg report the first diagnostic's, so that a list can
// itself satisfy Error for callers that only look at one error at a time
// (spec.md §7's "first error wins" policy); Errors(err) recovers the full
// set when a caller wants every diagnostic.
func (p list) Position() token.Pos {
	if len(p) == 0 {
		return token.NoPos
	}
	return p[0].Position()
}

func (p list) Code() Code {
	if len(p) == 0 {
		return ""
	}
	return p[0].Code()
}

func (p list) Msg() (string, []interface{}) {
	if len(p) == 0 {
		return "", nil
	}
	return p[0].Msg()
}

var _ Error = list(nil)

// Append combines two errors, flattening lists as necessary, preserving
// order.
func Append(a, b Error) Error {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	var out list
	if al, ok := a.(list); ok {
		out = append(out, al...)
	} else {
		out = append(out, a)
	}
	if bl, ok := b.(list); ok {
		out = append(out, bl...)
	} else {
		out = append(out, b)
	}
	return out
}

// Errors flattens err into its constituent diagnostics.
func Errors(err Error) []Error {
	if err == nil {
		return nil
	}
	if l, ok := err.(list); ok {
		return []Error(l)
	}
	return []Error{err}
}

// Print writes a human-readable rendering of err to w: one
// "file:line:col: message" line per diagnostic, followed by the offending
// source line when it can be read, mirroring cue/errors.Print. src, when
// non-nil, is consulted instead of re-opening the file named in the
// position — this is how the typecheck CLI supplies the lines of the fixture
// file it read without the file being reopened from disk.
func Print(w io.Writer, err Error, src map[string][]string) {
	for _, e := range Errors(err) {
		pos := e.Position()
		fmt.Fprintf(w, "%s: %s\n", pos, e.Error())
		if line := sourceLine(pos, src); line != "" {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

// sourceLine returns line pos.Line of the named file, preferring src (an
// in-memory filename -> lines map, typically supplied by the embedding
// host) and falling back to reading pos.Filename from disk. It returns ""
// when the line cannot be located, matching spec.md §6's
// "source_line_text_or_none".
func sourceLine(pos token.Pos, src map[string][]string) string {
	if !pos.IsValid() || pos.Line <= 0 {
		return ""
	}
	if lines, ok := src[pos.Filename]; ok {
		if pos.Line <= len(lines) {
			return lines[pos.Line-1]
		}
		return ""
	}
	if pos.Filename == "" {
		return ""
	}
	f, err := os.Open(pos.Filename)
	if err != nil {
		return ""
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		if n == pos.Line {
			return sc.Text()
		}
	}
	return ""
}
