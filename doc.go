// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jpush implements an incremental push parser for JSON.
//
// # Parsing
//
// The Parser type consumes JSON text delivered in chunks of any size, and
// reports the structure of the input as a sequence of events. The caller
// pushes input with Feed, and the parser dispatches an event for each token
// as soon as the token is complete. A token split across chunks is held
// until the rest of it arrives:
//
//	p := jpush.NewParser()
//	p.Register(jpush.Key, func(e jpush.Event) error {
//	   log.Printf("Key: %s", e.Value)
//	   return nil
//	})
//	for chunk := range chunks {
//	   if err := p.Feed(chunk); err != nil {
//	      log.Fatalf("Feed: %v", err)
//	   }
//	}
//	if err := p.Finish(); err != nil {
//	   log.Fatalf("Finish: %v", err)
//	}
//
// A document whose top-level value is an object or array is complete as soon
// as its closing bracket is consumed. A top-level scalar such as 42 has no
// closing delimiter, and more digits might still arrive, so its document ends
// only when the caller calls Finish.
//
// In case of invalid input, parsing stops and an error of concrete type
// *jpush.SyntaxError is returned. The Kind field of the error distinguishes
// lexical, grammar, encoding, and incomplete-input failures. Once a parser
// has failed, every later call reports the same error. Events dispatched
// before the failure are not retracted.
//
// # Events
//
// The events of a document are reported in the order of the input:
//
//	Event kind               | Reported for
//	------------------------ | --------------------------------------------
//	StartDocument            | before the first token of a top-level value
//	StartObject, EndObject   | { ... }
//	StartArray, EndArray     | [ ... ]
//	Key                      | "key" in an object member "key": value
//	Value                    | true, false, null, number, string
//	EndDocument              | after the top-level value is complete
//
// Listeners are registered per event kind with Register, or for all kinds at
// once with Handle, and are called synchronously in registration order from
// within Feed or Finish. Numbers without a fraction or exponent are reported
// as int64 values, and other numbers as float64.
//
// # Options
//
// By default a parser accepts exactly one standard JSON value. The methods
// AllowComments, AllowTrailingCommas, AllowInvalidUTF8, AllowTrailingGarbage,
// AllowMultipleValues, AllowPartialValues, and LimitDepth relax or tighten
// this, and must be called before the first call to Feed.
//
// Package ast builds trees of values from the events of a parser, and package
// feed delivers input to a parser from an io.Reader or a WebSocket.
package jpush
