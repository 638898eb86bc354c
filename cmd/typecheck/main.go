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

// Command typecheck is a minimal embedding host for the validator: it reads
// a serialized AST fixture and runs it through validate.Validate, printing
// an accept/reject verdict the way a REPL driver built on this library
// would. It exists to exercise the library end to end in integration tests;
// the validator itself has no CLI of its own (spec.md §6).
package main

import (
	"fmt"
	"os"

	"github.com/larkscript/typecheck/cmd/typecheck/internal/cli"
)

func main() {
	os.Exit(run())
}

// run executes the command tree and returns a process exit code. It is
// factored out of main so the script-driven integration tests can invoke it
// in-process via testscript.RunMain, the way cmd/cue's own Main is.
func run() int {
	if err := cli.New().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
