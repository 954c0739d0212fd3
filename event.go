// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jpush

import "fmt"

// EventKind identifies the kind of a parser event.
type EventKind byte

// Constants defining the valid EventKind values.
const (
	StartDocument EventKind = iota // before the first token of a top-level value
	EndDocument                    // after a top-level value is complete
	StartObject                    // open brace "{"
	EndObject                      // close brace "}"
	StartArray                     // open bracket "["
	EndArray                       // close bracket "]"
	Key                            // object member key
	Value                          // scalar value: string, number, true, false, null

	numEventKinds
)

var eventStr = [...]string{
	StartDocument: "StartDocument",
	EndDocument:   "EndDocument",
	StartObject:   "StartObject",
	EndObject:     "EndObject",
	StartArray:    "StartArray",
	EndArray:      "EndArray",
	Key:           "Key",
	Value:         "Value",
}

func (k EventKind) String() string {
	if k >= numEventKinds {
		return fmt.Sprintf("EventKind(%d)", k)
	}
	return eventStr[k]
}

// An Event is a structural notification from a Parser.
type Event struct {
	Kind EventKind

	// For Key and Value events, the token that produced the event.
	// For other kinds, the token is Invalid.
	Token Token

	// For Key and Value events, the decoded payload:
	//
	//	Token        | Value
	//	------------ | -------------------------------------------
	//	String       | string, with escapes decoded
	//	Integer      | int64, or float64 if out of range for int64
	//	Number       | float64
	//	True, False  | bool
	//	Null         | nil
	//
	// For other kinds, Value is nil.
	Value any

	// The location of the token that produced the event. StartDocument and
	// EndDocument events have the span of the token that triggered them.
	Span Span

	// The number of open objects and arrays after the event takes effect.
	// A StartObject at the top level has depth 1, its EndObject depth 0.
	Depth int
}

// String renders a compact human-readable summary of the event.
func (e Event) String() string {
	switch e.Kind {
	case Key:
		return fmt.Sprintf("Key %q", e.Value)
	case Value:
		switch e.Token {
		case String:
			return fmt.Sprintf("Value %q", e.Value)
		case True, False, Null:
			return "Value " + e.Token.String()
		}
		return fmt.Sprintf("Value %v %v", e.Token, e.Value)
	default:
		return e.Kind.String()
	}
}

// A Listener receives events from a Parser. If a listener reports an error,
// parsing stops, the parser fails permanently, and that error is returned to
// the caller of Feed or Finish.
//
// A listener must not call Feed or Finish on the parser that invoked it.
type Listener func(Event) error

// A Handler receives every kind of event from a Parser. See Parser.Handle.
type Handler interface {
	StartDocument(Event) error
	EndDocument(Event) error
	StartObject(Event) error
	EndObject(Event) error
	StartArray(Event) error
	EndArray(Event) error
	Key(Event) error
	Value(Event) error
}

// A dispatcher delivers events to the listeners registered for their kind,
// in order of registration.
type dispatcher struct {
	table   [numEventKinds][]Listener
	started bool // at least one event has been dispatched
}

func (d *dispatcher) register(kind EventKind, f Listener) {
	d.table[kind] = append(d.table[kind], f)
}

func (d *dispatcher) dispatch(e Event) error {
	d.started = true
	for _, f := range d.table[e.Kind] {
		if err := f(e); err != nil {
			return err
		}
	}
	return nil
}
