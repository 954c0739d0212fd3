// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpush

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/creachadair/jpush/internal/buffer"
	"github.com/creachadair/jpush/internal/escape"
	"github.com/valyala/fastjson/fastfloat"
	"go4.org/mem"
)

// A state is a position in the JSON grammar.
type state byte

const (
	stValue       state = iota // expecting a top-level value
	stObjectStart              // after "{": key or "}"
	stObjectKey                // after "," in an object: key
	stObjectColon              // after a key: ":"
	stObjectValue              // after ":": member value
	stObjectNext               // after a member value: "," or "}"
	stArrayStart               // after "[": value or "]"
	stArrayValue               // after "," in an array: value
	stArrayNext                // after an element: "," or "]"
	stDone                     // after a complete top-level value
	stError                    // after a failure
)

var stateStr = [...]string{
	stValue:       "value",
	stObjectStart: "object",
	stObjectKey:   "object",
	stObjectColon: "object",
	stObjectValue: "object",
	stObjectNext:  "object",
	stArrayStart:  "array",
	stArrayValue:  "array",
	stArrayNext:   "array",
	stDone:        "value",
	stError:       "error",
}

func (s state) String() string { return stateStr[s] }

// A frame is one open object or array.
type frame struct {
	kind Token // LBrace or LSquare
}

// A Parser is an incremental JSON parser. The caller delivers input in
// chunks of any size by calling Feed, and the parser reports the structure
// of the input to registered listeners as soon as each token is complete.
//
// A Parser holds only the unconsumed tail of its input and one frame per
// open object or array, so its memory use does not grow with the size of the
// document.
//
// A document whose top-level value is an object or array ends when its
// closing bracket is consumed. A top-level scalar has no closing delimiter,
// so the caller must call Finish to end it.
//
// Once Feed or Finish reports an error, the parser is permanently failed
// and every later call reports the same error.
type Parser struct {
	cur  buffer.Cursor
	lex  lexer
	disp dispatcher
	stk  []frame

	state state
	open  bool // StartDocument has been sent without EndDocument
	ndocs int  // number of completed documents
	err   error
	busy  bool // a call to Feed or Finish is active
	done  bool // Finish has succeeded

	tcomma   bool // allow trailing commas in objects and arrays
	badUTF8  bool // pass malformed UTF-8 in strings
	garbage  bool // ignore input after the first value
	multi    bool // accept a sequence of top-level values
	partial  bool // Finish may close an incomplete document
	maxDepth int  // if > 0, the maximum nesting depth
}

// NewParser constructs a new Parser with default settings. By default a
// parser accepts exactly one RFC 8259 JSON value.
func NewParser() *Parser { return new(Parser) }

// AllowComments configures the parser to accept (true) or reject (false)
// comments. Comments are a non-standard extension of JSON. If enabled, C++
// style block comments (/* ... */) and line comments (// ...) are treated as
// whitespace.
func (p *Parser) AllowComments(ok bool) { p.lex.comments = ok }

// AllowTrailingCommas configures the parser to allow (true) or reject (false)
// trailing commas in objects and arrays.
func (p *Parser) AllowTrailingCommas(ok bool) { p.tcomma = ok }

// AllowInvalidUTF8 configures the parser to pass (true) or reject (false)
// malformed UTF-8 in string values and keys.
func (p *Parser) AllowInvalidUTF8(ok bool) { p.badUTF8 = ok }

// AllowTrailingGarbage configures the parser to ignore (true) or reject
// (false) any input following the first complete top-level value.
func (p *Parser) AllowTrailingGarbage(ok bool) { p.garbage = ok }

// AllowMultipleValues configures the parser to accept (true) or reject
// (false) a stream of concatenated top-level values. Each value is reported
// as a separate document.
func (p *Parser) AllowMultipleValues(ok bool) { p.multi = ok }

// AllowPartialValues configures whether Finish accepts an incomplete
// document. If true, Finish discards a truncated token, closes any open
// objects and arrays, and ends the document.
func (p *Parser) AllowPartialValues(ok bool) { p.partial = ok }

// LimitDepth limits the nesting depth of objects and arrays to n.
// If n ≤ 0, nesting is not limited.
func (p *Parser) LimitDepth(n int) { p.maxDepth = n }

// Register adds f to the listeners for events of the given kind.
// Listeners for the same kind are called in order of registration.
func (p *Parser) Register(kind EventKind, f Listener) {
	if kind >= numEventKinds {
		panic(fmt.Sprintf("jpush: invalid event kind %v", kind))
	}
	p.disp.register(kind, f)
}

// Handle registers the methods of h as listeners for every event kind.
func (p *Parser) Handle(h Handler) {
	p.Register(StartDocument, h.StartDocument)
	p.Register(EndDocument, h.EndDocument)
	p.Register(StartObject, h.StartObject)
	p.Register(EndObject, h.EndObject)
	p.Register(StartArray, h.StartArray)
	p.Register(EndArray, h.EndArray)
	p.Register(Key, h.Key)
	p.Register(Value, h.Value)
}

// Depth reports the number of currently open objects and arrays.
func (p *Parser) Depth() int { return len(p.stk) }

// Started reports whether the parser has dispatched any event.
func (p *Parser) Started() bool { return p.disp.started }

// Done reports whether Finish has completed successfully.
func (p *Parser) Done() bool { return p.done }

// Documents reports the number of complete documents parsed so far.
func (p *Parser) Documents() int { return p.ndocs }

// Offset reports the number of input bytes consumed so far. Bytes of an
// incomplete token held for the next call to Feed are not counted.
func (p *Parser) Offset() int { return p.cur.Offset() }

// Feed delivers the next chunk of input to the parser. Feed consumes every
// complete token in the input so far and dispatches the resulting events
// before returning. Bytes of an incomplete token at the end of data are
// retained until more input arrives. The parser does not retain data.
//
// In case of invalid input, Feed reports an error of concrete type
// *SyntaxError. If a listener reports an error, Feed returns that error.
func (p *Parser) Feed(data []byte) (err error) {
	if p.busy {
		return ErrReentrant
	} else if p.err != nil {
		return p.err
	} else if p.done {
		return ErrClosed
	}
	p.busy = true
	defer func() { p.busy = false }()
	defer p.recoverParseError(&err)

	p.cur.Append(data)
	p.run(false)
	return nil
}

// Finish reports that no further input will be delivered. Any token held at
// the end of the input is completed, and a pending top-level scalar is ended.
// Finish reports an error of kind IncompleteError if the document is not
// complete, unless partial values are allowed.
//
// After Finish succeeds, further calls to Feed or Finish report ErrClosed.
func (p *Parser) Finish() (err error) {
	if p.busy {
		return ErrReentrant
	} else if p.err != nil {
		return p.err
	} else if p.done {
		return ErrClosed
	}
	p.busy = true
	defer func() { p.busy = false }()
	defer p.recoverParseError(&err)

	p.run(true)
	switch {
	case len(p.stk) != 0:
		if !p.partial {
			p.syntaxError(IncompleteError, p.cur.Offset(), p.curPos(0),
				"unexpected end of input in %v", p.state)
		}
		p.closeAll()
	case p.open:
		p.endDocument(p.tokenSpan(0))
	case p.ndocs == 0 && !p.multi:
		msg := "unexpected end of input"
		if !p.disp.started {
			msg = "no value in input"
		}
		p.syntaxError(IncompleteError, p.cur.Offset(), p.curPos(0), "%s", msg)
	}
	p.done = true
	return nil
}

func (p *Parser) recoverParseError(errp *error) {
	if perr := recover(); perr != nil {
		switch err := perr.(type) {
		case *SyntaxError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(perr)
		}
		p.err = *errp
		p.state = stError
	}
}

// run consumes tokens from the buffered input until it is exhausted or ends
// inside an incomplete token.
func (p *Parser) run(final bool) {
	for {
		if p.state == stDone && p.garbage {
			p.cur.Discard()
			return
		}

		n, err := p.lex.skipSpace(p.cur.Remaining(), final)
		p.cur.Advance(n)
		if err != nil {
			p.lexFail(err, final)
			return
		}
		src := p.cur.Remaining()
		if len(src) == 0 {
			return
		} else if p.state == stDone {
			p.syntaxError(GrammarError, p.cur.Offset(), p.curPos(0),
				"unexpected data after top-level value")
		}

		tok, n, err := p.lex.scan(src, final)
		if err != nil {
			p.lexFail(err, final)
			return
		}
		a := anchor{
			tok:  tok,
			text: src[:n],
			span: Span{Pos: p.cur.Offset(), End: p.cur.Offset() + n},
			loc:  p.curPos(0),
		}
		p.cur.Advance(n)
		p.step(a)
	}
}

// lexFail handles an error from the lexer. The caller must stop consuming
// input after lexFail returns.
func (p *Parser) lexFail(err error, final bool) {
	if err == errMore {
		return
	}
	se := err.(*scanError)
	if final && se.kind == IncompleteError && p.partial && len(p.stk) != 0 {
		p.cur.Discard() // drop the truncated token
		return
	}
	p.syntaxError(se.kind, p.cur.Offset()+se.pos, p.curPos(se.pos), "%s", se.msg)
}

// An anchor is a complete token and its location.
type anchor struct {
	tok  Token
	text []byte // raw text, valid until the next Append
	span Span
	loc  LineCol
}

// step advances the state machine by one token.
func (p *Parser) step(a anchor) {
	switch p.state {
	case stValue, stObjectValue:
		p.parseValue(a)

	case stArrayStart, stArrayValue:
		if a.tok == RSquare && (p.state == stArrayStart || p.tcomma) {
			p.closeContainer(a)
		} else if p.state == stArrayValue && a.tok == RSquare {
			p.syntaxError(GrammarError, a.span.Pos, a.loc, "unexpected %v after comma", a.tok)
		} else {
			p.parseValue(a)
		}

	case stObjectStart, stObjectKey:
		if a.tok == String {
			p.emit(Key, a, p.decodeString(a))
			p.state = stObjectColon
		} else if a.tok == RBrace && (p.state == stObjectStart || p.tcomma) {
			p.closeContainer(a)
		} else if p.state == stObjectStart {
			p.syntaxError(GrammarError, a.span.Pos, a.loc, "%s", tokLabel(a.tok, RBrace, String))
		} else {
			p.syntaxError(GrammarError, a.span.Pos, a.loc, "%s", tokLabel(a.tok, String))
		}

	case stObjectColon:
		if a.tok != Colon {
			p.syntaxError(GrammarError, a.span.Pos, a.loc, "%s", tokLabel(a.tok, Colon))
		}
		p.state = stObjectValue

	case stObjectNext:
		switch a.tok {
		case Comma:
			p.state = stObjectKey
		case RBrace:
			p.closeContainer(a)
		default:
			p.syntaxError(GrammarError, a.span.Pos, a.loc, "%s", tokLabel(a.tok, RBrace, Comma))
		}

	case stArrayNext:
		switch a.tok {
		case Comma:
			p.state = stArrayValue
		case RSquare:
			p.closeContainer(a)
		default:
			p.syntaxError(GrammarError, a.span.Pos, a.loc, "%s", tokLabel(a.tok, RSquare, Comma))
		}

	default:
		panic(fmt.Sprintf("jpush: token %v in state %v", a.tok, p.state))
	}
}

// parseValue handles a token where a value is expected.
func (p *Parser) parseValue(a anchor) {
	switch tok := a.tok; {
	case tok == LBrace || tok == LSquare:
		if p.maxDepth > 0 && len(p.stk) >= p.maxDepth {
			p.syntaxError(GrammarError, a.span.Pos, a.loc, "nesting depth exceeds %d", p.maxDepth)
		}
		if len(p.stk) == 0 {
			p.startDocument(a.span)
		}
		p.stk = append(p.stk, frame{kind: tok})
		if tok == LBrace {
			p.emit(StartObject, a, nil)
			p.state = stObjectStart
		} else {
			p.emit(StartArray, a, nil)
			p.state = stArrayStart
		}

	case tok.isScalar():
		v := p.decode(a)
		if len(p.stk) == 0 {
			p.startDocument(a.span)
		}
		p.emit(Value, a, v)
		p.afterValue()

	default:
		p.syntaxError(GrammarError, a.span.Pos, a.loc, "unexpected %v", tok)
	}
}

// afterValue updates the state after a complete value. A top-level scalar
// leaves its document open, since only Finish or the start of another value
// can end it.
func (p *Parser) afterValue() {
	if len(p.stk) == 0 {
		if p.multi {
			p.state = stValue
		} else {
			p.state = stDone
		}
	} else if p.stk[len(p.stk)-1].kind == LBrace {
		p.state = stObjectNext
	} else {
		p.state = stArrayNext
	}
}

// closeContainer pops the innermost frame, which the caller has checked
// matches the closing token in a.
func (p *Parser) closeContainer(a anchor) {
	p.stk = p.stk[:len(p.stk)-1]
	if a.tok == RBrace {
		p.emit(EndObject, a, nil)
	} else {
		p.emit(EndArray, a, nil)
	}
	if len(p.stk) == 0 {
		p.endDocument(a.span)
	} else {
		p.afterValue()
	}
}

// closeAll closes every open frame and ends the document, for a partial
// value at the end of input.
func (p *Parser) closeAll() {
	span := p.tokenSpan(0)
	for len(p.stk) != 0 {
		top := p.stk[len(p.stk)-1]
		p.stk = p.stk[:len(p.stk)-1]
		kind := EndArray
		if top.kind == LBrace {
			kind = EndObject
		}
		p.dispatch(Event{Kind: kind, Span: span, Depth: len(p.stk)})
	}
	p.endDocument(span)
}

func (p *Parser) startDocument(span Span) {
	if p.open {
		p.endDocument(Span{Pos: span.Pos, End: span.Pos})
	}
	p.open = true
	p.dispatch(Event{Kind: StartDocument, Span: span})
}

func (p *Parser) endDocument(span Span) {
	p.open = false
	p.ndocs++
	if p.multi {
		p.state = stValue
	} else {
		p.state = stDone
	}
	p.dispatch(Event{Kind: EndDocument, Span: span})
}

func (p *Parser) emit(kind EventKind, a anchor, v any) {
	e := Event{Kind: kind, Span: a.span, Depth: len(p.stk)}
	if kind == Key || kind == Value {
		e.Token = a.tok
		e.Value = v
	}
	p.dispatch(e)
}

func (p *Parser) dispatch(e Event) {
	if err := p.disp.dispatch(e); err != nil {
		panic(handlerError{err})
	}
}

// decode returns the payload of the scalar token in a.
func (p *Parser) decode(a anchor) any {
	switch a.tok {
	case True:
		return true
	case False:
		return false
	case Null:
		return nil
	case String:
		return p.decodeString(a)
	case Integer:
		if z, err := fastfloat.ParseInt64(string(a.text)); err == nil {
			return z
		}
		return parseFloat(a.text) // out of range for int64
	case Number:
		return parseFloat(a.text)
	}
	panic(fmt.Sprintf("jpush: decode %v", a.tok))
}

func (p *Parser) decodeString(a anchor) string {
	raw := a.text[1 : len(a.text)-1]
	if !p.badUTF8 {
		if i, ok := escape.CheckUTF8(raw); !ok {
			pos := a.span.Pos + 1 + i
			p.syntaxError(EncodingError, pos, p.posOf(a, 1+i), "%w in string", ErrInvalidUTF8)
		}
	}
	dec, err := escape.Unquote(mem.B(raw))
	if err != nil {
		p.syntaxError(LexicalError, a.span.Pos, a.loc, "invalid string: %w", err)
	}
	return string(dec)
}

// parseFloat parses a number the lexer has already checked for syntax.
// Values beyond the range of float64 become ±Inf.
//
// This does not use fastfloat.Parse, which does not always round to the
// nearest float64 (e.g., 8.41e21).
func parseFloat(text []byte) float64 {
	f, _ := strconv.ParseFloat(string(text), 64)
	return f
}

// curPos reports the line and column of the unconsumed byte at offset i.
func (p *Parser) curPos(i int) LineCol {
	line, col := p.cur.PositionAt(i)
	return LineCol{Line: line + 1, Column: col}
}

// posOf reports the line and column of offset i in the token of a.
func (p *Parser) posOf(a anchor, i int) LineCol {
	lc := a.loc
	for _, b := range a.text[:i] {
		if b == '\n' {
			lc.Line++
			lc.Column = 0
		} else {
			lc.Column++
		}
	}
	return lc
}

// tokenSpan returns an empty span at offset i of the unconsumed input.
func (p *Parser) tokenSpan(i int) Span {
	pos := p.cur.Offset() + i
	return Span{Pos: pos, End: pos}
}

func (p *Parser) syntaxError(kind ErrorKind, offset int, loc LineCol, msg string, args ...any) {
	err := fmt.Errorf(msg, args...) // msg may use %w
	panic(&SyntaxError{
		Kind:     kind,
		Offset:   offset,
		Location: loc,
		Message:  err.Error(),
		err:      errors.Unwrap(err),
	})
}

// tokLabel makes a human-readable description of an unexpected token.
func tokLabel(got Token, want ...Token) string {
	if len(want) == 1 {
		return fmt.Sprintf("expected %v, got %v", want[0], got)
	}
	return fmt.Sprintf("expected %v or %v, got %v", want[0], want[1], got)
}
