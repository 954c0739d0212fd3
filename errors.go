// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jpush

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is reported by Feed and Finish after a successful Finish.
	ErrClosed = errors.New("parser is closed")

	// ErrReentrant is reported by Feed and Finish when called from a
	// listener of the same parser.
	ErrReentrant = errors.New("reentrant call to parser")

	// ErrInvalidUTF8 is wrapped by the SyntaxError reported for malformed
	// UTF-8 in a string, unless AllowInvalidUTF8 is enabled.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// ErrorKind classifies the errors reported by a Parser.
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	LexicalError    ErrorKind = 1 + iota // input cannot begin any valid token
	GrammarError                         // valid token in an invalid position
	EncodingError                        // malformed UTF-8 in a string
	IncompleteError                      // input ended before the document was complete
)

var kindStr = [...]string{
	LexicalError:    "lexical error",
	GrammarError:    "grammar error",
	EncodingError:   "encoding error",
	IncompleteError: "incomplete document",
}

func (k ErrorKind) String() string {
	if int(k) >= len(kindStr) || kindStr[k] == "" {
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
	return kindStr[k]
}

// SyntaxError is the concrete type of errors reported by a Parser for
// invalid input.
type SyntaxError struct {
	Kind     ErrorKind
	Offset   int     // byte offset of the failure in the input stream
	Location LineCol // line and column of Offset
	Message  string

	err error // the underlying cause, if any
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %s: %s", s.Kind, s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// handlerError wraps an error reported by a listener, so that it can be told
// apart from syntax errors during recovery.
type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

// scanError is reported by the lexer for a failure at offset pos of the
// bytes it was given.
type scanError struct {
	pos  int
	kind ErrorKind
	msg  string
}

func (s *scanError) Error() string { return s.msg }

func scanErrorf(pos int, kind ErrorKind, msg string, args ...any) *scanError {
	return &scanError{pos: pos, kind: kind, msg: fmt.Sprintf(msg, args...)}
}
