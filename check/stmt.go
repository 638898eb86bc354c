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

package check

import (
	"github.com/larkscript/typecheck/ast"
	"github.com/larkscript/typecheck/diag"
	"github.com/larkscript/typecheck/scope"
	"github.com/larkscript/typecheck/types"
)

// Stmt validates a single statement against s, per spec.md §4.5. stmtRoot
// is true iff stmt sits at a position where declarations are legal (the
// top-level module body, or, reserved, a function body root).
func (c *Checker) Stmt(s *scope.Scope, stmt ast.Stmt, stmtRoot bool) diag.Error {
	switch n := stmt.(type) {
	case *ast.Assign:
		return c.assign(s, n, stmtRoot)

	case *ast.AugAssign:
		return c.augAssign(s, n, stmtRoot)

	case *ast.If:
		tt, err := c.Expr(s, n.Test, false)
		if err != nil {
			return err
		}
		if tt != types.Bool {
			return c.errf(n.Test, diag.TypeMismatch, "if test must be bool, got %s", tt.Kind)
		}
		if err := c.Stmts(s, n.Body, false); err != nil {
			return err
		}
		return c.Stmts(s, n.Orelse, false)

	case *ast.ExprStmt:
		_, err := c.Expr(s, n.Value, false)
		return err

	case *ast.Break, *ast.Continue:
		return nil

	case *ast.FunctionDef, *ast.ClassDef, *ast.Return, *ast.For,
		*ast.While, *ast.Assert, *ast.Global, *ast.Nonlocal:
		return c.errf(stmt, diag.Unimplemented, "%T is not implemented", stmt)

	default:
		return c.errf(stmt, diag.InternalErrorCode, "unrecognized statement node %T", stmt)
	}
}

// assign implements spec.md §4.5's Assign rule.
func (c *Checker) assign(s *scope.Scope, n *ast.Assign, stmtRoot bool) diag.Error {
	if len(n.Targets) != 1 {
		return c.errf(n, diag.MultipleTargets, "assignment must have exactly one target, got %d", len(n.Targets))
	}
	target := n.Targets[0]

	valueType, err := c.Expr(s, n.Value, false)
	if err != nil {
		return err
	}

	var targetType *types.Type
	if n.Type != nil {
		if _, ok := n.Type.(*ast.Ellipsis); ok {
			targetType = valueType
		} else {
			targetType, err = c.ParseType(s, n.Type)
			if err != nil {
				return err
			}
		}
		if !types.IsComplete(targetType) {
			return c.errf(n.Type, diag.IncompleteType, "declared type is incomplete")
		}
		if !stmtRoot {
			return c.errf(n, diag.DeclInNonRoot, "declarations are only allowed at statement-root position")
		}
		if err := c.declTarget(s, target, targetType); err != nil {
			return err
		}
	} else {
		targetType, err = c.Expr(s, target, true)
		if err != nil {
			return err
		}
	}

	if !types.Equal(targetType, valueType) {
		return c.errf(n, diag.TypeMismatch, "cannot assign %s to %s", valueType.Kind, targetType.Kind)
	}
	return nil
}

// declTarget implements spec.md §4.5's check_decl_target.
func (c *Checker) declTarget(s *scope.Scope, target ast.Expr, t *types.Type) diag.Error {
	name, ok := target.(*ast.Name)
	if !ok {
		return c.errf(target, diag.ComplexLHS, "declaration target must be a plain name")
	}
	if err := s.Declare(name.Id, t); err != nil {
		return c.errf(target, diag.Redeclared, "%q is already declared in this scope", name.Id)
	}
	return nil
}

// augAssign implements spec.md §4.5's AugAssign rule by desugaring
// `x op= y` to the equivalent `x = x op y` and running the ordinary binary-
// operator and assignment rules against it. There is no annotation, so this
// always goes through the re-assignment path — an undeclared target
// surfaces as Undefined from evaluating the desugared left operand
// (spec.md §9.4).
func (c *Checker) augAssign(s *scope.Scope, n *ast.AugAssign, stmtRoot bool) diag.Error {
	pos := n.Pos()
	rhs := &ast.BinOp{Left: n.Target, Op: n.Op, Right: n.Value}
	rhs.SetPos(pos.Line, pos.Column)
	desugared := &ast.Assign{Targets: []ast.Expr{n.Target}, Value: rhs}
	desugared.SetPos(pos.Line, pos.Column)
	return c.assign(s, desugared, stmtRoot)
}
