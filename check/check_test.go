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
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/larkscript/typecheck/ast"
	"github.com/larkscript/typecheck/diag"
	"github.com/larkscript/typecheck/scope"
	"github.com/larkscript/typecheck/types"
)

func name(id string) *ast.Name { return &ast.Name{Id: id} }

func num(kind ast.NumKind, text string) *ast.Num { return &ast.Num{Kind: kind, Text: text} }

func TestExprNum(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ty, err := c.Expr(s, num(ast.IntNum, "3"), false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Int))

	ty, err = c.Expr(s, num(ast.FloatNum, "3.0"), false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Float))

	_, err = c.Expr(s, num(ast.InvalidNum, "0x1"), false)
	qt.Assert(t, qt.Equals(err.Code(), diag.UnrecognizedNumber))
}

func TestExprNameConstant(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ty, err := c.Expr(s, &ast.NameConstant{Value: ast.ConstantTrue}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Bool))

	_, err = c.Expr(s, &ast.NameConstant{Value: ast.ConstantNone}, false)
	qt.Assert(t, qt.Equals(err.Code(), diag.UnrecognizedConst))
}

func TestExprNameUndefined(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	_, err := c.Expr(s, name("y"), false)
	qt.Assert(t, qt.Equals(err.Code(), diag.Undefined))
}

func TestExprBoolOp(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ty, err := c.Expr(s, &ast.BoolOp{Op: ast.And, Values: []ast.Expr{
		&ast.NameConstant{Value: ast.ConstantTrue},
		&ast.NameConstant{Value: ast.ConstantFalse},
	}}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Bool))

	_, err = c.Expr(s, &ast.BoolOp{Op: ast.Or, Values: []ast.Expr{
		num(ast.IntNum, "1"),
	}}, false)
	qt.Assert(t, qt.Equals(err.Code(), diag.TypeMismatch))
}

func TestExprListHomogeneous(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ty, err := c.Expr(s, &ast.List{Elts: []ast.Expr{
		num(ast.IntNum, "1"), num(ast.IntNum, "2"), num(ast.IntNum, "3"),
	}}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty.Kind, types.ListKind))
	qt.Assert(t, qt.Equals(ty.Elt, types.Int))
}

func TestExprListEmptyIsUnbound(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ty, err := c.Expr(s, &ast.List{}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty.Kind, types.ListKind))
	qt.Assert(t, qt.IsNil(ty.Elt))
	qt.Assert(t, qt.IsFalse(types.IsComplete(ty)))
}

func TestExprListMismatch(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	_, err := c.Expr(s, &ast.List{Elts: []ast.Expr{
		num(ast.IntNum, "1"), &ast.Str{Value: "x"},
	}}, false)
	qt.Assert(t, qt.Equals(err.Code(), diag.TypeMismatch))
}

func TestExprDictRejected(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	_, err := c.Expr(s, &ast.Dict{}, false)
	qt.Assert(t, qt.Equals(err.Code(), diag.Unimplemented))
}

func TestExprIfExpBothArms(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ty, err := c.Expr(s, &ast.IfExp{
		Test:   &ast.NameConstant{Value: ast.ConstantTrue},
		Body:   num(ast.IntNum, "1"),
		Orelse: num(ast.IntNum, "2"),
	}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Int))
}

func TestExprIfExpNoElseArmUnchecked(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ty, err := c.Expr(s, &ast.IfExp{
		Test: &ast.NameConstant{Value: ast.ConstantTrue},
		Body: num(ast.IntNum, "1"),
	}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Int))
}

func TestExprIfExpMismatchedArms(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	_, err := c.Expr(s, &ast.IfExp{
		Test:   &ast.NameConstant{Value: ast.ConstantTrue},
		Body:   num(ast.IntNum, "1"),
		Orelse: &ast.Str{Value: "x"},
	}, false)
	qt.Assert(t, qt.Equals(err.Code(), diag.TypeMismatch))
}

func TestUnaryOpTable(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ty, err := c.Expr(s, &ast.UnaryOp{Op: ast.Invert, Operand: num(ast.IntNum, "1")}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Int))

	ty, err = c.Expr(s, &ast.UnaryOp{Op: ast.Not, Operand: &ast.NameConstant{Value: ast.ConstantTrue}}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Bool))

	ty, err = c.Expr(s, &ast.UnaryOp{Op: ast.USub, Operand: num(ast.FloatNum, "1.5")}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Float))

	_, err = c.Expr(s, &ast.UnaryOp{Op: ast.Invert, Operand: num(ast.FloatNum, "1.5")}, false)
	qt.Assert(t, qt.Equals(err.Code(), diag.TypeMismatch))
}

func TestBinOpDivisionAsymmetry(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ty, err := c.Expr(s, &ast.BinOp{Left: num(ast.IntNum, "7"), Op: ast.Div, Right: num(ast.IntNum, "2")}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Float))

	ty, err = c.Expr(s, &ast.BinOp{Left: num(ast.FloatNum, "7"), Op: ast.FloorDiv, Right: num(ast.FloatNum, "2")}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Int))
}

func TestBinOpStringConcat(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ty, err := c.Expr(s, &ast.BinOp{Left: &ast.Str{Value: "a"}, Op: ast.Add, Right: &ast.Str{Value: "b"}}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty, types.Str))

	_, err = c.Expr(s, &ast.BinOp{Left: &ast.Str{Value: "a"}, Op: ast.Sub, Right: &ast.Str{Value: "b"}}, false)
	qt.Assert(t, qt.Equals(err.Code(), diag.TypeMismatch))
}

func TestBinOpBitwiseRequiresInt(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	_, err := c.Expr(s, &ast.BinOp{Left: num(ast.FloatNum, "1.0"), Op: ast.BitAnd, Right: num(ast.IntNum, "1")}, false)
	qt.Assert(t, qt.Equals(err.Code(), diag.TypeMismatch))
}

func TestBinOpMatMultAlwaysRejected(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	_, err := c.Expr(s, &ast.BinOp{Left: num(ast.IntNum, "1"), Op: ast.MatMult, Right: num(ast.IntNum, "1")}, false)
	qt.Assert(t, qt.Equals(err.Code(), diag.Unimplemented))
}

func TestBinOpListConcat(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	left := &ast.List{Elts: []ast.Expr{num(ast.IntNum, "1")}}
	right := &ast.List{} // empty: unbound, late-binds against left
	ty, err := c.Expr(s, &ast.BinOp{Left: left, Op: ast.Add, Right: right}, false)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ty.Kind, types.ListKind))
	qt.Assert(t, qt.Equals(ty.Elt, types.Int))
}

func TestParseTypeScalarsAndCollections(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	for n, want := range map[string]*types.Type{"int": types.Int, "float": types.Float, "bool": types.Bool, "str": types.Str} {
		ty, err := c.ParseType(s, name(n))
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(ty, want))
	}

	_, err := c.ParseType(s, name("Widget"))
	qt.Assert(t, qt.Equals(err.Code(), diag.UnknownTypeName))

	listTy, err := c.ParseType(s, &ast.List{Elts: []ast.Expr{name("int")}})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(listTy.Kind, types.ListKind))
	qt.Assert(t, qt.Equals(listTy.Elt, types.Int))

	dictTy, err := c.ParseType(s, &ast.Dict{Keys: []ast.Expr{name("str")}, Values: []ast.Expr{name("int")}})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(dictTy.Kind, types.DictKind))
	qt.Assert(t, qt.Equals(dictTy.Key, types.Str))
	qt.Assert(t, qt.Equals(dictTy.Val, types.Int))

	_, err = c.ParseType(s, &ast.List{Elts: []ast.Expr{name("int"), name("str")}})
	qt.Assert(t, qt.Equals(err.Code(), diag.IllegalTypeForm))

	_, err = c.ParseType(s, num(ast.IntNum, "1"))
	qt.Assert(t, qt.Equals(err.Code(), diag.IllegalTypeForm))
}

func declInt(targetName string) *ast.Assign {
	return &ast.Assign{
		Targets: []ast.Expr{name(targetName)},
		Type:    name("int"),
		Value:   num(ast.IntNum, "3"),
	}
}

func TestStmtAssignDeclaration(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	err := c.Stmt(s, declInt("x"), true)
	qt.Assert(t, qt.IsNil(err))

	got, ok := s.Lookup("x")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(got, types.Int))
}

func TestStmtAssignReDeclareRejected(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	qt.Assert(t, qt.IsNil(c.Stmt(s, declInt("x"), true)))
	err := c.Stmt(s, declInt("x"), true)
	qt.Assert(t, qt.Equals(err.Code(), diag.Redeclared))
}

func TestStmtAssignDeclInNonRootRejected(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	err := c.Stmt(s, declInt("x"), false)
	qt.Assert(t, qt.Equals(err.Code(), diag.DeclInNonRoot))
}

func TestStmtAssignReassignmentMismatch(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	qt.Assert(t, qt.IsNil(c.Stmt(s, declInt("x"), true)))
	reassign := &ast.Assign{Targets: []ast.Expr{name("x")}, Value: num(ast.FloatNum, "3.0")}
	err := c.Stmt(s, reassign, true)
	qt.Assert(t, qt.Equals(err.Code(), diag.TypeMismatch))
}

func TestStmtAssignReassignmentUndefined(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	reassign := &ast.Assign{Targets: []ast.Expr{name("y")}, Value: num(ast.IntNum, "3")}
	err := c.Stmt(s, reassign, true)
	qt.Assert(t, qt.Equals(err.Code(), diag.Undefined))
}

func TestStmtAssignMultipleTargetsRejected(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	assign := &ast.Assign{Targets: []ast.Expr{name("a"), name("b")}, Type: name("int"), Value: num(ast.IntNum, "1")}
	err := c.Stmt(s, assign, true)
	qt.Assert(t, qt.Equals(err.Code(), diag.MultipleTargets))
}

func TestStmtAssignComplexLHSRejected(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	assign := &ast.Assign{
		Targets: []ast.Expr{&ast.List{Elts: []ast.Expr{name("a")}}},
		Type:    name("int"),
		Value:   num(ast.IntNum, "1"),
	}
	err := c.Stmt(s, assign, true)
	qt.Assert(t, qt.Equals(err.Code(), diag.ComplexLHS))
}

func TestStmtAssignEllipsisInfersFromValue(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	assign := &ast.Assign{Targets: []ast.Expr{name("x")}, Type: &ast.Ellipsis{}, Value: num(ast.IntNum, "5")}
	qt.Assert(t, qt.IsNil(c.Stmt(s, assign, true)))

	got, _ := s.Lookup("x")
	qt.Assert(t, qt.Equals(got, types.Int))
}

func TestStmtAssignListDeclarationBindsElementType(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	assign := &ast.Assign{
		Targets: []ast.Expr{name("xs")},
		Type:    &ast.List{Elts: []ast.Expr{name("int")}},
		Value:   &ast.List{Elts: []ast.Expr{num(ast.IntNum, "1")}},
	}
	qt.Assert(t, qt.IsNil(c.Stmt(s, assign, true)))
	got, _ := s.Lookup("xs")
	qt.Assert(t, qt.Equals(got.Elt, types.Int))
}

func TestStmtAugAssign(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	qt.Assert(t, qt.IsNil(c.Stmt(s, declInt("x"), true)))
	aug := &ast.AugAssign{Target: name("x"), Op: ast.Add, Value: num(ast.IntNum, "1")}
	qt.Assert(t, qt.IsNil(c.Stmt(s, aug, true)))
}

func TestStmtAugAssignUndefinedTarget(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	aug := &ast.AugAssign{Target: name("z"), Op: ast.Add, Value: num(ast.IntNum, "1")}
	err := c.Stmt(s, aug, true)
	qt.Assert(t, qt.Equals(err.Code(), diag.Undefined))
}

func TestStmtIfRequiresBoolTest(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ifStmt := &ast.If{Test: num(ast.IntNum, "1")}
	err := c.Stmt(s, ifStmt, true)
	qt.Assert(t, qt.Equals(err.Code(), diag.TypeMismatch))
}

func TestStmtIfBranchesAreNonRoot(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	ifStmt := &ast.If{
		Test: &ast.NameConstant{Value: ast.ConstantTrue},
		Body: []ast.Stmt{declInt("x")},
	}
	err := c.Stmt(s, ifStmt, true)
	qt.Assert(t, qt.Equals(err.Code(), diag.DeclInNonRoot))
}

func TestStmtUnimplementedKinds(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	for _, st := range []ast.Stmt{
		&ast.FunctionDef{}, &ast.ClassDef{}, &ast.Return{}, &ast.For{},
		&ast.While{}, &ast.Assert{}, &ast.Global{}, &ast.Nonlocal{},
	} {
		err := c.Stmt(s, st, true)
		qt.Assert(t, qt.Equals(err.Code(), diag.Unimplemented))
	}
}

func TestStmtBreakContinueAccepted(t *testing.T) {
	c := New("t.src")
	s := scope.NewRoot()

	qt.Assert(t, qt.IsNil(c.Stmt(s, &ast.Break{}, true)))
	qt.Assert(t, qt.IsNil(c.Stmt(s, &ast.Continue{}, true)))
}
