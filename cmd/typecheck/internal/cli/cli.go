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

// Package cli builds the cobra command tree for the typecheck demo binary,
// mirroring cmd/cue's Command/root.go split between command wiring and
// command bodies.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/pretty"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/larkscript/typecheck/diag"
	"github.com/larkscript/typecheck/internal/astfixture"
	"github.com/larkscript/typecheck/scope"
	"github.com/larkscript/typecheck/validate"
)

// New builds the root *cobra.Command for the typecheck binary.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "typecheck",
		Short:         "run the static type validator over an AST fixture",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCheckCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	var dumpScope bool
	cmd := &cobra.Command{
		Use:   "check <fixture>",
		Short: "validate an AST fixture (JSON or YAML) and report accept/reject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], dumpScope)
		},
	}
	addDumpScopeFlag(cmd.Flags(), &dumpScope)
	return cmd
}

// addDumpScopeFlag registers --dump-scope directly against the pflag.FlagSet
// cobra hands back, the way cmd/cue/cmd's addOutFlags/addGlobalFlags helpers
// take a *pflag.FlagSet rather than a *cobra.Command so flag wiring can be
// shared across multiple subcommands.
func addDumpScopeFlag(f *pflag.FlagSet, dumpScope *bool) {
	f.BoolVar(dumpScope, "dump-scope", false, "after an accepted run, print the final scope bindings (supplements spec.md with garter's REPL debug flag)")
}

func runCheck(w, errw io.Writer, path string, dumpScope bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("typecheck: %w", err)
	}

	decode := astfixture.DecodeJSON
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		decode = astfixture.DecodeYAML
	}
	mod, err := decode(data)
	if err != nil {
		return fmt.Errorf("typecheck: %w", err)
	}

	root := validate.NewGlobalScope()
	result := validate.Validate(mod, path, root)
	if !result.OK {
		src := map[string][]string{path: splitLines(data)}
		diag.Print(errw, result.Err, src)
		return fmt.Errorf("typecheck: %s: rejected", path)
	}

	fmt.Fprintf(w, "%s: accepted\n", path)
	if dumpScope {
		dumpBindings(w, root)
	}
	return nil
}

func dumpBindings(w io.Writer, root *scope.Scope) {
	// scope.Scope has no exported binding iterator, so the CLI prints the
	// whole root value, unexported fields included, with kr/pretty's
	// %#v-style formatter, keeping pretty-printing entirely separate from
	// the core walk.
	fmt.Fprintf(w, "scope:\n%# v\n", pretty.Formatter(root))
}

func splitLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

// stdoutIsTerminal reports whether stdout looks like an interactive
// terminal. Nothing in the CLI calls it: diag.Print output is always plain
// text, with no color.
func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}
