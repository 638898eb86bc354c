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

// Package scope implements the name-to-type environment of spec.md §3.2: a
// singly linked chain of binding maps, with a transactional snapshot/
// rollback pair used by the top-level driver to make one validation call
// atomic from the caller's perspective.
package scope

import (
	"fmt"

	"github.com/larkscript/typecheck/types"
)

// A Scope is one node in the lexical chain. The subset never constructs a
// child scope (block scoping is reserved, spec.md §4.2's New note), but the
// type supports it so that reservation doesn't require a later breaking
// change.
type Scope struct {
	parent   *Scope
	bindings map[string]*types.Type

	// filename is set only on the root, and only for the duration of an
	// ongoing validate.Validate call (spec.md §3.2).
	filename string
}

// NewRoot returns a fresh root scope with no bindings. This is
// validate.NewGlobalScope's implementation (spec.md §6's first entry
// point); the root persists across successive calls in a REPL-style host.
func NewRoot() *Scope {
	return &Scope{bindings: map[string]*types.Type{}}
}

// NewChild returns a scope nested under parent. Reserved for future block
// scoping; the statement judgment in package check never calls it today.
func NewChild(parent *Scope) *Scope {
	return &Scope{parent: parent, bindings: map[string]*types.Type{}}
}

// Lookup walks the scope chain starting at s, returning the bound type and
// true, or nil, false if name is unbound anywhere in the chain.
func (s *Scope) Lookup(name string) (*types.Type, bool) {
	for n := s; n != nil; n = n.parent {
		if t, ok := n.bindings[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// ErrRedeclared is returned by Declare when name is already bound in s's own
// node (not a parent).
type ErrRedeclared struct{ Name string }

func (e *ErrRedeclared) Error() string {
	return fmt.Sprintf("name %q already declared in this scope", e.Name)
}

// Declare binds name to t in s's own node. It fails with *ErrRedeclared if
// name is already bound in this node; shadowing a parent's binding is
// permitted by the model (spec.md §3.2) even though the current subset
// never creates child scopes to exercise it.
func (s *Scope) Declare(name string, t *types.Type) error {
	if _, ok := s.bindings[name]; ok {
		return &ErrRedeclared{Name: name}
	}
	s.bindings[name] = t
	return nil
}

// Root climbs to the root of s's chain.
func (s *Scope) Root() *Scope {
	n := s
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Filename returns the filename recorded on s's root, if any.
func (s *Scope) Filename() string {
	return s.Root().filename
}

// Snapshot is an element-wise copy of a root scope's top-level bindings,
// taken before a validation call. Copying the map's entries is sufficient
// (spec.md §4.2): the *types.Type values themselves remain shared and are
// logically immutable except for Equal's late-binding, which only ever adds
// information, so sharing a Type pointer between the live scope and a
// snapshot can never make the snapshot observably stale in a way that
// matters for rollback.
type Snapshot struct {
	bindings map[string]*types.Type
}

// Begin starts a validation transaction on the root scope root: it asserts
// no transaction is already open (root.filename == ""), records filename,
// and returns a Snapshot of the current bindings to roll back to on
// failure.
func Begin(root *Scope, filename string) (Snapshot, error) {
	if root.parent != nil {
		return Snapshot{}, fmt.Errorf("scope: Begin called on a non-root scope")
	}
	if root.filename != "" {
		return Snapshot{}, fmt.Errorf("scope: validation already in progress for %q", root.filename)
	}
	root.filename = filename
	snap := Snapshot{bindings: make(map[string]*types.Type, len(root.bindings))}
	for k, v := range root.bindings {
		snap.bindings[k] = v
	}
	return snap, nil
}

// Commit ends a successful validation transaction, clearing filename and
// keeping whatever bindings accumulated during the walk.
func Commit(root *Scope) {
	root.filename = ""
}

// Rollback ends a failed validation transaction: filename is cleared and
// root's bindings are replaced wholesale by snap, discarding any partial
// declarations the aborted walk had already made.
func Rollback(root *Scope, snap Snapshot) {
	root.filename = ""
	root.bindings = snap.bindings
}
