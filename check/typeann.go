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

// ParseType elaborates a declaration's type-annotation expression into a
// *types.Type, per spec.md §4.4. scope is accepted (and reserved) for a
// future where user-defined class names resolve against it; the subset
// never looks anything up there today.
func (c *Checker) ParseType(s *scope.Scope, typeExpr ast.Expr) (*types.Type, diag.Error) {
	switch n := typeExpr.(type) {
	case *ast.Name:
		switch n.Id {
		case "int":
			return types.Int, nil
		case "float":
			return types.Float, nil
		case "bool":
			return types.Bool, nil
		case "str":
			return types.Str, nil
		default:
			return nil, c.errf(n, diag.UnknownTypeName, "unknown type name %q", n.Id)
		}

	case *ast.Dict:
		if len(n.Keys) != 1 || len(n.Values) != 1 {
			return nil, c.errf(n, diag.IllegalTypeForm, "dict type annotation must have exactly one key and one value, got %d", len(n.Keys))
		}
		kt, err := c.ParseType(s, n.Keys[0])
		if err != nil {
			return nil, err
		}
		vt, err := c.ParseType(s, n.Values[0])
		if err != nil {
			return nil, err
		}
		return types.MakeDict(kt, vt), nil

	case *ast.List:
		if len(n.Elts) != 1 {
			return nil, c.errf(n, diag.IllegalTypeForm, "list type annotation must have exactly one element, got %d", len(n.Elts))
		}
		et, err := c.ParseType(s, n.Elts[0])
		if err != nil {
			return nil, err
		}
		return types.MakeList(et), nil

	default:
		return nil, c.errf(typeExpr, diag.IllegalTypeForm, "illegal type annotation form %T", typeExpr)
	}
}
