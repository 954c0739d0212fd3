// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"

	"github.com/creachadair/jpush"
)

// ErrNoResult is reported by Builder.Result when no document is complete.
var ErrNoResult = errors.New("no complete value")

// A Builder implements the jpush.Handler interface to construct value trees
// from the events of a parser. One Builder serves every document the parser
// reports: each complete document adds a value to the Builder.
type Builder struct {
	stk  []frame
	vals []Value

	// The top-level value of the current document, held until the document
	// ends.
	top    Value
	hasTop bool
}

// A frame is an array or object under construction.
type frame struct {
	arr Array
	obj *Object // if nil, this frame is an array

	key    string // pending key, for an object
	hasKey bool
}

// NewBuilder constructs a Builder and registers it with p.
func NewBuilder(p *jpush.Parser) *Builder {
	b := new(Builder)
	p.Handle(b)
	return b
}

// Result returns the value of the most recently completed document. If no
// document has been completed, it reports ErrNoResult.
func (b *Builder) Result() (Value, error) {
	if len(b.vals) == 0 {
		return nil, ErrNoResult
	}
	return b.vals[len(b.vals)-1], nil
}

// Values returns the values of all completed documents, in order.
func (b *Builder) Values() []Value { return b.vals }

// Reset discards all completed values and any partial value.
func (b *Builder) Reset() { b.clear(); b.vals = nil }

func (b *Builder) clear() { b.stk = b.stk[:0]; b.top, b.hasTop = nil, false }

func (b *Builder) push(f frame) { b.stk = append(b.stk, f) }

func (b *Builder) pop() frame {
	last := b.stk[len(b.stk)-1]
	b.stk = b.stk[:len(b.stk)-1]
	return last
}

// reduce adds a complete value to the innermost open container, or holds it
// as the pending result if no container is open.
func (b *Builder) reduce(v Value) error {
	if len(b.stk) == 0 {
		b.top, b.hasTop = v, true
		return nil
	}
	top := &b.stk[len(b.stk)-1]
	if top.obj == nil {
		top.arr = append(top.arr, v)
		return nil
	}
	if !top.hasKey {
		return errors.New("object value without a key")
	}
	top.obj.Set(top.key, v)
	top.key, top.hasKey = "", false
	return nil
}

// StartDocument implements part of the jpush.Handler interface.
func (b *Builder) StartDocument(jpush.Event) error { b.clear(); return nil }

// EndDocument implements part of the jpush.Handler interface. The value of
// the document becomes visible to Result and Values only here.
func (b *Builder) EndDocument(jpush.Event) error {
	if len(b.stk) != 0 {
		return fmt.Errorf("end of document with %d open values", len(b.stk))
	} else if !b.hasTop {
		return errors.New("end of document without a value")
	}
	b.vals = append(b.vals, b.top)
	b.top, b.hasTop = nil, false
	return nil
}

// StartObject implements part of the jpush.Handler interface.
func (b *Builder) StartObject(jpush.Event) error {
	b.push(frame{obj: new(Object)})
	return nil
}

// EndObject implements part of the jpush.Handler interface. A pending key
// with no value, as left by a partial document, is discarded.
func (b *Builder) EndObject(jpush.Event) error { return b.reduce(b.pop().obj) }

// StartArray implements part of the jpush.Handler interface.
func (b *Builder) StartArray(jpush.Event) error {
	b.push(frame{arr: Array{}})
	return nil
}

// EndArray implements part of the jpush.Handler interface.
func (b *Builder) EndArray(jpush.Event) error { return b.reduce(b.pop().arr) }

// Key implements part of the jpush.Handler interface.
func (b *Builder) Key(e jpush.Event) error {
	top := &b.stk[len(b.stk)-1]
	top.key, top.hasKey = e.Value.(string), true
	return nil
}

// Value implements part of the jpush.Handler interface.
func (b *Builder) Value(e jpush.Event) error {
	v, err := scalar(e)
	if err != nil {
		return err
	}
	return b.reduce(v)
}

// scalar converts the payload of a Value event.
func scalar(e jpush.Event) (Value, error) {
	switch t := e.Value.(type) {
	case nil:
		return Null, nil
	case bool:
		return Bool(t), nil
	case int64:
		return Int(t), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	default:
		return nil, fmt.Errorf("unknown value %T for %v", e.Value, e.Token)
	}
}
