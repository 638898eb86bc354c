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

// Package types is the algebraic type model of spec.md §3.1: scalars, a
// homogeneous List, a homogeneous Dict, and a nominal Class, together with
// the Equal procedure that unifies deferred ("unbound") container payloads
// in place.
package types

import "github.com/google/uuid"

// Kind tags the variant a Type value carries.
type Kind int

const (
	Invalid Kind = iota
	IntKind
	FloatKind
	BoolKind
	StrKind
	ListKind
	DictKind
	ClassKind
)

func (k Kind) String() string {
	switch k {
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case BoolKind:
		return "bool"
	case StrKind:
		return "str"
	case ListKind:
		return "list"
	case DictKind:
		return "dict"
	case ClassKind:
		return "class"
	default:
		return "invalid"
	}
}

// A Type is a tagged variant per spec.md §3.1. The four scalar kinds never
// allocate: Int, Float, Bool, and Str below are the process-wide singletons,
// and every comparison against them is a pointer comparison. List and Dict
// are heap-allocated and may be *incomplete* (Elt/Key+Val nil) when they
// originate from an empty literal; Equal late-binds an incomplete side's
// payload from a complete sibling the first time the two are compared
// (spec.md §4.1). Class is nominal: two Class types are equal iff their
// ClassID match.
//
// Type is never copied by value once constructed for a compound kind — it is
// always referred to through *Type — because Equal mutates List/Dict payload
// fields in place and every holder of the pointer must observe the mutation.
type Type struct {
	Kind Kind

	// List/Dict payload. Elt is the element type for List; Key/Val are the
	// key and value types for Dict. Both are nil when the container is
	// unbound (constructed from an empty literal and never unified).
	Elt *Type
	Key *Type
	Val *Type

	// Class payload. ID is the zero uuid.UUID when the class reference is
	// incomplete (reserved: class elaboration is not implemented by the
	// subset, so every Class value seen today has a zero ID).
	ClassID uuid.UUID
}

// Scalar singletons. Every scalar Type in the system is one of these four
// pointers; Make* for scalar kinds always returns one of them.
var (
	Int   = &Type{Kind: IntKind}
	Float = &Type{Kind: FloatKind}
	Bool  = &Type{Kind: BoolKind}
	Str   = &Type{Kind: StrKind}
)

// MakeScalar returns the process-wide singleton for a scalar kind. It panics
// if k is not one of IntKind, FloatKind, BoolKind, StrKind — callers that
// don't already know k is scalar should switch on Kind themselves.
func MakeScalar(k Kind) *Type {
	switch k {
	case IntKind:
		return Int
	case FloatKind:
		return Float
	case BoolKind:
		return Bool
	case StrKind:
		return Str
	default:
		panic("types: MakeScalar called with non-scalar kind")
	}
}

// MakeList allocates a List type. Pass nil for elt to build an unbound list
// type (the type of an empty list literal).
func MakeList(elt *Type) *Type {
	return &Type{Kind: ListKind, Elt: elt}
}

// MakeDict allocates a Dict type. Pass nil, nil to build an unbound dict
// type (the type of an empty dict literal).
func MakeDict(key, val *Type) *Type {
	return &Type{Kind: DictKind, Key: key, Val: val}
}

// MakeClass allocates a Class type with the given identity. The zero
// uuid.UUID marks an incomplete (unresolved) class reference.
func MakeClass(id uuid.UUID) *Type {
	return &Type{Kind: ClassKind, ClassID: id}
}

// IsComplete reports whether t and everything reachable from it has a
// payload: scalars are always complete; List/Dict are complete iff their
// payload is present and itself complete; Class is complete iff its
// ClassID is non-zero. Declarations require IsComplete (spec.md §4.5,
// IncompleteType).
func IsComplete(t *Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case IntKind, FloatKind, BoolKind, StrKind:
		return true
	case ListKind:
		return t.Elt != nil && IsComplete(t.Elt)
	case DictKind:
		return t.Key != nil && t.Val != nil && IsComplete(t.Key) && IsComplete(t.Val)
	case ClassKind:
		return t.ClassID != uuid.Nil
	default:
		return false
	}
}

// Equal is the central routine of spec.md §4.1. It is reflexive and
// symmetric but, because it may late-bind an incomplete List/Dict payload in
// place, each call is a unification step rather than a pure predicate:
// calling Equal(a, b) can change what IsComplete(a) or IsComplete(b) report
// afterward. The mutation only ever adds information (an incomplete side
// adopts the other's payload), so repeated calls converge and never
// contradict an earlier result.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case IntKind, FloatKind, BoolKind, StrKind:
		return true
	case ClassKind:
		// Two incomplete (zero-ID) classes compare equal, mirroring the C
		// source's pointer comparison of two NULL identity tags; see
		// DESIGN.md for why this resolves spec.md §9.2 this way.
		return a.ClassID == b.ClassID
	case ListKind:
		return equalContainer(&a.Elt, &b.Elt)
	case DictKind:
		if !equalContainer(&a.Key, &b.Key) {
			return false
		}
		return equalContainer(&a.Val, &b.Val)
	default:
		return false
	}
}

// equalContainer implements the late-binding rule for a single List/Dict
// payload slot: if both sides are absent, there is nothing to compare yet
// (equal, still unbound); if exactly one is absent, it is late-bound to the
// other's payload; if both are present, recurse.
func equalContainer(a, b **Type) bool {
	switch {
	case *a == nil && *b == nil:
		return true
	case *a == nil:
		*a = *b
		return true
	case *b == nil:
		*b = *a
		return true
	default:
		return Equal(*a, *b)
	}
}
