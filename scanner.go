// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpush

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/creachadair/jpush/internal/escape"
	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// isScalar reports whether t is a complete value by itself.
func (t Token) isScalar() bool { return t >= Integer && t <= Null }

// errMore is reported by the lexer when the input ends inside a token that
// further input could complete.
var errMore = errors.New("more input needed")

// A lexer recognizes tokens at the front of a byte slice. It keeps no copy of
// the input; the caller retains unconsumed bytes and presents them again,
// with more input appended, after the lexer reports errMore.
//
// When final is true, the caller promises no more input will follow, and a
// token truncated by the end of input is reported as an IncompleteError.
type lexer struct {
	comments bool // treat comments as whitespace

	// For a string or comment that was incomplete on the last call, the
	// number of its bytes already checked. Scanning resumes there.
	resume int
}

// skipSpace reports the number of whitespace bytes (and comments, if enabled)
// at the front of src. If src ends inside a comment, skipSpace returns the
// offset of the start of that comment along with errMore.
func (lx *lexer) skipSpace(src []byte, final bool) (int, error) {
	i := 0
	for i < len(src) {
		if isSpace(src[i]) {
			i++
		} else if src[i] == '/' && lx.comments {
			n, err := lx.scanComment(src[i:], final)
			if err != nil {
				if se, ok := err.(*scanError); ok {
					se.pos += i
				}
				return i, err
			}
			i += n
		} else {
			break
		}
	}
	return i, nil
}

// scan recognizes one token at the front of src, which must be non-empty and
// must not begin with whitespace. It returns the token and its length.
func (lx *lexer) scan(src []byte, final bool) (Token, int, error) {
	ch := src[0]
	if t, ok := selfDelim(ch); ok {
		return t, 1, nil
	}
	switch {
	case ch == '"':
		n, err := lx.scanString(src, final)
		return String, n, err
	case isNumStart(ch):
		return scanNumber(src, final)
	case ch == 't':
		return scanName(src, "true", True, final)
	case ch == 'f':
		return scanName(src, "false", False, final)
	case ch == 'n':
		return scanName(src, "null", Null, final)
	}
	if ch >= utf8.RuneSelf {
		if r, _ := utf8.DecodeRune(src); r != utf8.RuneError {
			return Invalid, 0, scanErrorf(0, LexicalError, "unexpected %q", r)
		}
	}
	return Invalid, 0, scanErrorf(0, LexicalError, "unexpected %q", ch)
}

// incomplete reports the error for a token of the given label that is cut
// short at the end of the available input.
func incomplete(pos int, final bool, label string) error {
	if final {
		return scanErrorf(pos, IncompleteError, "unexpected end of input in %s", label)
	}
	return errMore
}

func (lx *lexer) scanString(src []byte, final bool) (int, error) {
	i := max(1, lx.resume)
	for i < len(src) {
		switch ch := src[i]; {
		case ch == '"':
			lx.resume = 0
			return i + 1, nil

		case ch == '\\':
			if i+1 == len(src) {
				return lx.stringMore(i, final)
			}
			switch src[i+1] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				i += 2
			case 'u':
				j := i + 2
				for ; j < len(src) && j < i+6; j++ {
					if !escape.IsHexDigit(src[j]) {
						lx.resume = 0
						return 0, scanErrorf(j, LexicalError, "invalid Unicode escape: not a hex digit: %q", src[j])
					}
				}
				if j < i+6 {
					return lx.stringMore(i, final)
				}
				i = j
			default:
				lx.resume = 0
				return 0, scanErrorf(i+1, LexicalError, "invalid %q after escape", src[i+1])
			}

		case ch < ' ':
			lx.resume = 0
			return 0, scanErrorf(i, LexicalError, "unescaped control %q", ch)

		default:
			i++
		}
	}
	return lx.stringMore(i, final)
}

// stringMore records that a string was scanned up to offset i (which is not
// inside an escape sequence) and reports that more input is needed.
func (lx *lexer) stringMore(i int, final bool) (int, error) {
	if final {
		lx.resume = 0
	} else {
		lx.resume = i
	}
	return 0, incomplete(i, final, "string")
}

// Number scanner states.
const (
	numStart    = iota
	numSign     // after "-"
	numZero     // after a leading "0"
	numInt      // in integer digits
	numDot      // after "."
	numFrac     // in fraction digits
	numExp      // after "e" or "E"
	numExpSign  // after exponent sign
	numExpDigit // in exponent digits
)

// scanNumber scans the number at the front of src. A number is only complete
// once a byte that cannot continue it is seen, or at the end of final input.
func scanNumber(src []byte, final bool) (Token, int, error) {
	tok := Integer
	st := numStart
	for i, ch := range src {
		switch st {
		case numStart:
			if ch == '-' {
				st = numSign
			} else if ch == '0' {
				st = numZero
			} else {
				st = numInt
			}
			continue

		case numSign:
			if ch == '0' {
				st = numZero
			} else if isDigit(ch) {
				st = numInt
			} else {
				return Invalid, 0, scanErrorf(i, LexicalError, "got %q, want digit", ch)
			}
			continue

		case numZero, numInt:
			if isDigit(ch) {
				if st == numZero {
					return Invalid, 0, scanErrorf(i, LexicalError, "extra leading zeroes")
				}
				continue
			} else if ch == '.' {
				tok, st = Number, numDot
				continue
			} else if ch == 'e' || ch == 'E' {
				tok, st = Number, numExp
				continue
			}

		case numDot:
			if !isDigit(ch) {
				return Invalid, 0, scanErrorf(i, LexicalError, "no digits after decimal point")
			}
			st = numFrac
			continue

		case numFrac:
			if isDigit(ch) {
				continue
			} else if ch == 'e' || ch == 'E' {
				st = numExp
				continue
			}

		case numExp:
			if ch == '-' || ch == '+' {
				st = numExpSign
			} else if isDigit(ch) {
				st = numExpDigit
			} else {
				return Invalid, 0, scanErrorf(i, LexicalError, "got %q, want sign or digit", ch)
			}
			continue

		case numExpSign:
			if !isDigit(ch) {
				return Invalid, 0, scanErrorf(i, LexicalError, "missing exponent digits")
			}
			st = numExpDigit
			continue

		case numExpDigit:
			if isDigit(ch) {
				continue
			}
		}

		// Reaching here, ch cannot continue the number, which is complete.
		return tok, i, nil
	}

	if !final {
		return Invalid, 0, errMore
	}
	switch st {
	case numZero, numInt, numFrac, numExpDigit:
		return tok, len(src), nil
	}
	return Invalid, 0, incomplete(len(src), final, "number")
}

// scanName scans the constant want at the front of src.
func scanName(src []byte, want string, tok Token, final bool) (Token, int, error) {
	n := min(len(src), len(want))
	if got := mem.B(src[:n]); !got.Equal(mem.S(want[:n])) {
		end := 1
		for end < len(src) && isNameByte(src[end]) {
			end++
		}
		return Invalid, 0, scanErrorf(0, LexicalError, "unknown constant %q", src[:end])
	}
	if n < len(want) {
		return Invalid, 0, incomplete(n, final, want)
	}
	return tok, n, nil
}

func (lx *lexer) scanComment(src []byte, final bool) (int, error) {
	if len(src) < 2 {
		return 0, incomplete(len(src), final, "comment")
	}
	switch src[1] {
	case '/': // line comment to LF
		start := max(2, lx.resume)
		if i := bytes.IndexByte(src[start:], '\n'); i >= 0 {
			lx.resume = 0
			return start + i + 1, nil
		} else if final {
			lx.resume = 0
			return len(src), nil // a line comment may end the input
		}
		lx.resume = len(src)
		return 0, errMore

	case '*': // block comment
		start := max(2, lx.resume)
		if i := bytes.Index(src[start:], []byte("*/")); i >= 0 {
			lx.resume = 0
			return start + i + 2, nil
		} else if final {
			lx.resume = 0
			return 0, incomplete(len(src), final, "comment")
		}

		// A trailing "*" may be completed by a "/" in the next chunk.
		lx.resume = max(2, len(src)-1)
		return 0, errMore

	default:
		return 0, scanErrorf(1, LexicalError, "invalid %q in comment", src[1])
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isNameByte(ch byte) bool { return ch >= 'a' && ch <= 'z' }

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch byte) (Token, bool) {
	i := strings.IndexByte("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
