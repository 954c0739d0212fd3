// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import "fmt"

// Path traverses a sequential path into the structure of v, and returns the
// value reached. Path elements are strings (denoting object keys), integers
// (denoting offsets into arrays), functions (see below), or nil.
//
// If a path element is a string, the corresponding value must be an object,
// and the string selects the value of the member with that key.
//
// If a path element is an integer, the corresponding value must be an array
// or object, and the integer selects an element of the array, or the value of
// a member of the object in order. Negative indices count backward from the
// end (-1 is last, -2 second last). An error is reported if the index is out
// of bounds.
//
// If a path element is a function, it is called with the current value and
// its result becomes the next value in the sequence. The function must have
// the signature
//
//	func(ast.Value) (ast.Value, error)
//
// If the function reports an error, traversal stops and Path returns v with
// that error. A nil path element is ignored.
func Path(v Value, path ...any) (Value, error) {
	cur := v
	for i, elt := range path {
		switch t := elt.(type) {
		case string:
			obj, ok := cur.(*Object)
			if !ok {
				return v, fmt.Errorf("at %d: cannot traverse %T with %q", i, cur, t)
			}
			next, ok := obj.Get(t)
			if !ok {
				return v, fmt.Errorf("at %d: key %q not found", i, t)
			}
			cur = next

		case int:
			switch e := cur.(type) {
			case Array:
				j, ok := fixArrayBound(len(e), t)
				if !ok {
					return v, fmt.Errorf("at %d: array index %d out of bounds (n=%d)", i, t, len(e))
				}
				cur = e[j]
			case *Object:
				j, ok := fixArrayBound(e.Len(), t)
				if !ok {
					return v, fmt.Errorf("at %d: object index %d out of bounds (n=%d)", i, t, e.Len())
				}
				cur = e.members[j].Value
			default:
				return v, fmt.Errorf("at %d: cannot traverse %T with %d", i, cur, t)
			}

		case func(Value) (Value, error):
			next, err := t(cur)
			if err != nil {
				return v, err
			}
			cur = next

		case nil:
			// skip

		default:
			return v, fmt.Errorf("at %d: invalid path element %T", i, elt)
		}
	}
	return cur, nil
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
