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

// Package astfixture decodes a serialized AST — a stand-in for the output
// of the upstream parser that spec.md treats as an external collaborator —
// into the ast package's node types. This lets the CLI driver and the test
// suite exercise the checker without writing a tokenizer/parser, which is
// explicitly out of scope (spec.md §1).
//
// The wire format is a generic tagged-union tree: every node is a map with
// a "kind" string naming the ast type ("Module", "Assign", "Name", ...)
// plus kind-specific fields, and optional "line"/"col" integers. It can be
// authored as JSON (decoded with the standard library's encoding/json) or
// as YAML (decoded with gopkg.in/yaml.v3, matching the teacher's choice of
// YAML library for configuration-shaped input).
package astfixture

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/larkscript/typecheck/ast"
)

// DecodeJSON decodes a JSON-encoded fixture into an ast.Mod.
func DecodeJSON(data []byte) (ast.Mod, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("astfixture: invalid JSON: %w", err)
	}
	return decodeMod(raw)
}

// DecodeYAML decodes a YAML-encoded fixture into an ast.Mod.
func DecodeYAML(data []byte) (ast.Mod, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("astfixture: invalid YAML: %w", err)
	}
	raw = normalizeYAML(raw)
	return decodeMod(raw)
}

// normalizeYAML recursively converts the map[string]interface{} shape
// yaml.v3 produces for mappings (it returns map[string]interface{} for
// string-keyed maps already in this library's configuration, but nested
// sequences/maps still need walking) so decodeMod sees the same shapes
// DecodeJSON does.
func normalizeYAML(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[k] = normalizeYAML(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = normalizeYAML(e)
		}
		return out
	default:
		return v
	}
}

func asMap(v interface{}) (map[string]interface{}, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("astfixture: expected a node object, got %T", v)
	}
	return m, nil
}

func kindOf(m map[string]interface{}) string {
	k, _ := m["kind"].(string)
	return k
}

func intField(m map[string]interface{}, name string) int {
	switch v := m[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func strField(m map[string]interface{}, name string) string {
	s, _ := m[name].(string)
	return s
}

func setPos(n ast.WithPos, m map[string]interface{}) {
	n.SetPos(intField(m, "line"), intField(m, "col"))
}

func decodeMod(v interface{}) (ast.Mod, error) {
	m, err := asMap(v)
	if err != nil {
		return nil, err
	}
	switch kindOf(m) {
	case "Module":
		body, err := decodeStmtList(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.Module{Body: body}, nil
	case "Interactive":
		body, err := decodeStmtList(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.Interactive{Body: body}, nil
	case "Expression":
		e, err := decodeExpr(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.Expression{Body: e}, nil
	case "Suite":
		body, err := decodeStmtList(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.Suite{Body: body}, nil
	default:
		return nil, fmt.Errorf("astfixture: unrecognized top-level kind %q", kindOf(m))
	}
}

func decodeStmtList(v interface{}) ([]ast.Stmt, error) {
	items, _ := v.([]interface{})
	out := make([]ast.Stmt, 0, len(items))
	for _, it := range items {
		st, err := decodeStmt(it)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func decodeExprList(v interface{}) ([]ast.Expr, error) {
	items, _ := v.([]interface{})
	out := make([]ast.Expr, 0, len(items))
	for _, it := range items {
		e, err := decodeExpr(it)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeStmt(v interface{}) (ast.Stmt, error) {
	m, err := asMap(v)
	if err != nil {
		return nil, err
	}
	switch kindOf(m) {
	case "Assign":
		targets, err := decodeExprList(m["targets"])
		if err != nil {
			return nil, err
		}
		val, err := decodeExpr(m["value"])
		if err != nil {
			return nil, err
		}
		var typ ast.Expr
		if m["type"] != nil {
			typ, err = decodeExpr(m["type"])
			if err != nil {
				return nil, err
			}
		}
		n := &ast.Assign{Targets: targets, Type: typ, Value: val}
		setPos(n, m)
		return n, nil

	case "AugAssign":
		target, err := decodeExpr(m["target"])
		if err != nil {
			return nil, err
		}
		val, err := decodeExpr(m["value"])
		if err != nil {
			return nil, err
		}
		op, err := decodeOperator(strField(m, "op"))
		if err != nil {
			return nil, err
		}
		n := &ast.AugAssign{Target: target, Op: op, Value: val}
		setPos(n, m)
		return n, nil

	case "If":
		test, err := decodeExpr(m["test"])
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtList(m["body"])
		if err != nil {
			return nil, err
		}
		orelse, err := decodeStmtList(m["orelse"])
		if err != nil {
			return nil, err
		}
		n := &ast.If{Test: test, Body: body, Orelse: orelse}
		setPos(n, m)
		return n, nil

	case "Expr":
		val, err := decodeExpr(m["value"])
		if err != nil {
			return nil, err
		}
		n := &ast.ExprStmt{Value: val}
		setPos(n, m)
		return n, nil

	case "Break":
		n := &ast.Break{}
		setPos(n, m)
		return n, nil
	case "Continue":
		n := &ast.Continue{}
		setPos(n, m)
		return n, nil
	case "FunctionDef":
		n := &ast.FunctionDef{}
		setPos(n, m)
		return n, nil
	case "ClassDef":
		n := &ast.ClassDef{}
		setPos(n, m)
		return n, nil
	case "Return":
		n := &ast.Return{}
		setPos(n, m)
		return n, nil
	case "For":
		n := &ast.For{}
		setPos(n, m)
		return n, nil
	case "While":
		n := &ast.While{}
		setPos(n, m)
		return n, nil
	case "Assert":
		n := &ast.Assert{}
		setPos(n, m)
		return n, nil
	case "Global":
		n := &ast.Global{}
		setPos(n, m)
		return n, nil
	case "Nonlocal":
		n := &ast.Nonlocal{}
		setPos(n, m)
		return n, nil
	default:
		return nil, fmt.Errorf("astfixture: unrecognized statement kind %q", kindOf(m))
	}
}

func decodeExpr(v interface{}) (ast.Expr, error) {
	if v == nil {
		return nil, nil
	}
	m, err := asMap(v)
	if err != nil {
		return nil, err
	}
	switch kindOf(m) {
	case "Num":
		kind := ast.InvalidNum
		switch strField(m, "numKind") {
		case "int":
			kind = ast.IntNum
		case "float":
			kind = ast.FloatNum
		}
		n := &ast.Num{Kind: kind, Text: strField(m, "text")}
		setPos(n, m)
		return n, nil

	case "Str":
		n := &ast.Str{Value: strField(m, "value")}
		setPos(n, m)
		return n, nil

	case "JoinedStr":
		values, err := decodeExprList(m["values"])
		if err != nil {
			return nil, err
		}
		n := &ast.JoinedStr{Values: values}
		setPos(n, m)
		return n, nil

	case "Name":
		n := &ast.Name{Id: strField(m, "id")}
		setPos(n, m)
		return n, nil

	case "NameConstant":
		val := ast.ConstantNone
		switch strField(m, "value") {
		case "True":
			val = ast.ConstantTrue
		case "False":
			val = ast.ConstantFalse
		}
		n := &ast.NameConstant{Value: val}
		setPos(n, m)
		return n, nil

	case "BoolOp":
		op := ast.And
		if strField(m, "op") == "or" {
			op = ast.Or
		}
		values, err := decodeExprList(m["values"])
		if err != nil {
			return nil, err
		}
		n := &ast.BoolOp{Op: op, Values: values}
		setPos(n, m)
		return n, nil

	case "BinOp":
		left, err := decodeExpr(m["left"])
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(m["right"])
		if err != nil {
			return nil, err
		}
		op, err := decodeOperator(strField(m, "op"))
		if err != nil {
			return nil, err
		}
		n := &ast.BinOp{Left: left, Op: op, Right: right}
		setPos(n, m)
		return n, nil

	case "UnaryOp":
		operand, err := decodeExpr(m["operand"])
		if err != nil {
			return nil, err
		}
		var op ast.UnaryOperator
		switch strField(m, "op") {
		case "~":
			op = ast.Invert
		case "not":
			op = ast.Not
		case "+":
			op = ast.UAdd
		case "-":
			op = ast.USub
		default:
			return nil, fmt.Errorf("astfixture: unrecognized unary operator %q", strField(m, "op"))
		}
		n := &ast.UnaryOp{Op: op, Operand: operand}
		setPos(n, m)
		return n, nil

	case "IfExp":
		test, err := decodeExpr(m["test"])
		if err != nil {
			return nil, err
		}
		body, err := decodeExpr(m["body"])
		if err != nil {
			return nil, err
		}
		var orelse ast.Expr
		if m["orelse"] != nil {
			orelse, err = decodeExpr(m["orelse"])
			if err != nil {
				return nil, err
			}
		}
		n := &ast.IfExp{Test: test, Body: body, Orelse: orelse}
		setPos(n, m)
		return n, nil

	case "List":
		elts, err := decodeExprList(m["elts"])
		if err != nil {
			return nil, err
		}
		n := &ast.List{Elts: elts}
		setPos(n, m)
		return n, nil

	case "Dict":
		keys, err := decodeExprList(m["keys"])
		if err != nil {
			return nil, err
		}
		values, err := decodeExprList(m["values"])
		if err != nil {
			return nil, err
		}
		n := &ast.Dict{Keys: keys, Values: values}
		setPos(n, m)
		return n, nil

	case "Ellipsis":
		n := &ast.Ellipsis{}
		setPos(n, m)
		return n, nil

	default:
		return nil, fmt.Errorf("astfixture: unrecognized expression kind %q", kindOf(m))
	}
}

func decodeOperator(s string) (ast.Operator, error) {
	switch s {
	case "+":
		return ast.Add, nil
	case "-":
		return ast.Sub, nil
	case "*":
		return ast.Mult, nil
	case "/":
		return ast.Div, nil
	case "//":
		return ast.FloorDiv, nil
	case "%":
		return ast.Mod, nil
	case "**":
		return ast.Pow, nil
	case "<<":
		return ast.LShift, nil
	case ">>":
		return ast.RShift, nil
	case "|":
		return ast.BitOr, nil
	case "^":
		return ast.BitXor, nil
	case "&":
		return ast.BitAnd, nil
	case "@":
		return ast.MatMult, nil
	default:
		return 0, fmt.Errorf("astfixture: unrecognized operator %q", s)
	}
}
