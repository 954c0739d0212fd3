// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a tree of generic JSON values, and a Builder that
// constructs value trees from the events of a jpush.Parser.
package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jpush"
)

// A Value is an arbitrary JSON value. The concrete type of a Value is one of
// Null, Bool, Int, Float, String, Array, or *Object.
type Value interface {
	// JSON renders the value as compact JSON text.
	JSON() string
}

type nullValue struct{}

// Null is the JSON null value.
var Null Value = nullValue{}

// JSON satisfies the Value interface.
func (nullValue) JSON() string { return "null" }

func (nullValue) String() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

// An Int is an integer value.
type Int int64

// JSON satisfies the Value interface.
func (z Int) JSON() string { return strconv.FormatInt(int64(z), 10) }

// A Float is a floating-point value.
type Float float64

// JSON satisfies the Value interface. The result always has a fraction or an
// exponent, so that it is read back as a Float. JSON has no representation
// for NaN or infinities, which are rendered as null.
func (f Float) JSON() string {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "null"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// A String is a string value.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return jpush.Quote(string(s)) }

// An Array is a sequence of values.
type Array []Value

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
func Field(key string, val Value) *Member { return &Member{Key: key, Value: val} }

// An Object is a collection of key-value members with unique keys. Members
// are kept in the order their keys were first added. The zero value is an
// empty object ready for use.
type Object struct {
	members []*Member
	index   map[string]int // key → offset in members
}

// NewObject constructs an object from the given members, in order. If a key
// occurs more than once, the last value for that key wins.
func NewObject(ms ...*Member) *Object {
	o := new(Object)
	for _, m := range ms {
		o.Set(m.Key, m.Value)
	}
	return o
}

// Set sets the value of key in o. If o already has a member with that key,
// its value is replaced in place; otherwise a new member is added at the end.
func (o *Object) Set(key string, val Value) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = val
		return
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, &Member{Key: key, Value: val})
}

// Find returns the member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	if i, ok := o.index[key]; ok {
		return o.members[i]
	}
	return nil
}

// Get returns the value of key in o, and reports whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	if m := o.Find(key); m != nil {
		return m.Value, true
	}
	return nil, false
}

// Len reports the number of members in o.
func (o *Object) Len() int { return len(o.members) }

// Members returns the members of o in order. The caller must not modify the
// slice, though the values of its members may be updated.
func (o *Object) Members() []*Member { return o.members }

// Keys returns the keys of o in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// JSON satisfies the Value interface.
func (o *Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(jpush.Quote(m.Key))
		sb.WriteByte(':')
		sb.WriteString(m.Value.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Equal reports whether o and v are objects with the same keys, mapped to
// structurally equal values. The order of members is not compared.
func (o *Object) Equal(v Value) bool {
	p, ok := v.(*Object)
	if !ok || o.Len() != p.Len() {
		return false
	}
	for _, m := range o.members {
		pv, ok := p.Get(m.Key)
		if !ok || !Equal(m.Value, pv) {
			return false
		}
	}
	return true
}

// Equal reports whether a and b are structurally equal. Arrays are equal if
// they have equal elements in the same order; objects are equal if they have
// the same keys with equal values, regardless of order. An Int is never equal
// to a Float.
func Equal(a, b Value) bool {
	switch t := a.(type) {
	case Array:
		u, ok := b.(Array)
		if !ok || len(t) != len(u) {
			return false
		}
		for i := range t {
			if !Equal(t[i], u[i]) {
				return false
			}
		}
		return true
	case *Object:
		return t.Equal(b)
	case Float:
		u, ok := b.(Float)
		return ok && (t == u || (math.IsNaN(float64(t)) && math.IsNaN(float64(u))))
	}
	return a == b
}
