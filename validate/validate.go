// Copyright 2020 CUE Authors
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

// Package validate implements the two public entry points of spec.md §6:
// NewGlobalScope, which a host calls once to obtain a persistent root
// scope, and Validate, which a host calls once per parsed chunk (a module,
// an interactive REPL statement list, or a bare expression) to type-check
// it against that scope.
package validate

import (
	"fmt"

	"github.com/larkscript/typecheck/ast"
	"github.com/larkscript/typecheck/check"
	"github.com/larkscript/typecheck/diag"
	"github.com/larkscript/typecheck/scope"
	"github.com/larkscript/typecheck/token"
)

// NewGlobalScope returns a fresh root scope with no bindings.
//
// The source intends to eventually seed this scope with built-in names such
// as int/float/bool/str as reflective type tokens (spec.md §6); that is a
// planned extension this implementation does not yet perform, so the
// returned scope is empty, exactly as the current subset requires.
func NewGlobalScope() *scope.Scope {
	return scope.NewRoot()
}

// Result carries the outcome of one Validate call: whether the program was
// accepted, and, on rejection, the diagnostic that was posted.
type Result struct {
	OK  bool
	Err diag.Error
}

// Validate type-checks mod against root, per spec.md §4.6. It never panics
// on a malformed mod value it doesn't recognize; unsupported Mod shapes
// (Suite) are rejected with InternalError, matching the source's behavior.
//
// On rejection, root's bindings are rolled back to their state before this
// call (spec.md §4.2's transaction contract) and the diagnostic is returned
// through Result.Err, the "host's error channel" of spec.md §7 — the
// boolean return alone, as in the C API, would tell a caller nothing about
// why.
func Validate(mod ast.Mod, filename string, root *scope.Scope) Result {
	snap, err := scope.Begin(root, filename)
	if err != nil {
		// Misuse of the API (root is not actually a root, or a validation
		// is already in flight): not a program diagnostic, so there is
		// nothing to roll back and no scope.Snapshot to use.
		return Result{OK: false, Err: diag.NewfCode(diag.InternalErrorCode, posOf(mod, filename), "%s", err)}
	}

	c := check.New(filename)
	var checkErr diag.Error

	switch n := mod.(type) {
	case *ast.Module:
		checkErr = c.Stmts(root, n.Body, true)
	case *ast.Interactive:
		checkErr = c.Stmts(root, n.Body, true)
	case *ast.Expression:
		_, checkErr = c.Expr(root, n.Body, false)
	case *ast.Suite:
		checkErr = diag.NewfCode(diag.InternalErrorCode, posOf(mod, filename), "Suite is not a supported top-level form")
	default:
		checkErr = diag.NewfCode(diag.InternalErrorCode, posOf(mod, filename), "unrecognized top-level node %T", mod)
	}

	if checkErr != nil {
		scope.Rollback(root, snap)
		return Result{OK: false, Err: checkErr}
	}
	scope.Commit(root)
	return Result{OK: true}
}

func posOf(mod ast.Mod, filename string) token.Pos {
	pos := mod.Pos()
	pos.Filename = filename
	return pos
}

// String renders a Result the way a REPL driver would: "ok" or the
// diagnostic's message, for quick inspection in tests and the CLI.
func (r Result) String() string {
	if r.OK {
		return "ok"
	}
	return fmt.Sprintf("reject: %s", r.Err)
}
