// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// ToValue converts a Go value into a Value. The input must be nil, a Value,
// or one of the following types:
//
//	bool                     → Bool
//	int, int8, ..., int64    → Int
//	uint, uint8, ..., uint64 → Int, or Float if greater than math.MaxInt64
//	float32, float64         → Float
//	string                   → String
//	[]any, []Value           → Array, with elements converted
//	map[string]any           → *Object, with keys in sorted order
//
// ToValue panics for any other input.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case Value:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(t)
	case int8:
		return Int(t)
	case int16:
		return Int(t)
	case int32:
		return Int(t)
	case int64:
		return Int(t)
	case uint:
		return fromUint(uint64(t))
	case uint8:
		return Int(t)
	case uint16:
		return Int(t)
	case uint32:
		return Int(t)
	case uint64:
		return fromUint(t)
	case float32:
		return Float(t)
	case float64:
		return Float(t)
	case string:
		return String(t)
	case []any:
		out := make(Array, len(t))
		for i, elt := range t {
			out[i] = ToValue(elt)
		}
		return out
	case []Value:
		return Array(t)
	case map[string]any:
		obj := new(Object)
		for _, key := range slices.Sorted(maps.Keys(t)) {
			obj.Set(key, ToValue(t[key]))
		}
		return obj
	default:
		panic(fmt.Sprintf("ast: unsupported value type %T", v))
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(u)
	}
	return Int(u)
}
