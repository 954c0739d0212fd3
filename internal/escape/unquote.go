// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles decoding, validation, and quoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes the body of a JSON string literal. The input must have the
// enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. A \u escape
// naming half of a surrogate pair is combined with the following escape if it
// completes the pair, and is otherwise replaced by the Unicode replacement
// rune. Unquote reports an error for an unknown or incomplete escape.
func Unquote(src mem.RO) ([]byte, error) {
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(make([]byte, 0, src.Len()), src), nil
	}
	dec := make([]byte, 0, src.Len())
	for {
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		b := src.At(0)
		src = src.SliceFrom(1)
		switch b {
		case '"', '\\', '/':
			dec = append(dec, b)
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			r, n, err := decodeUnicode(src)
			if err != nil {
				return nil, err
			}
			dec = utf8.AppendRune(dec, r)
			src = src.SliceFrom(n)
		default:
			return nil, fmt.Errorf("invalid escape %q", b)
		}

		i = mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dec, src), nil
		}
	}
}

// decodeUnicode decodes the hex digits of a \u escape at the front of src,
// whose "\u" prefix has already been consumed. It returns the decoded rune and
// the number of bytes of src consumed.
func decodeUnicode(src mem.RO) (rune, int, error) {
	if src.Len() < 4 {
		return 0, 0, errors.New("incomplete Unicode escape")
	}
	v, err := parseHex(src.SliceTo(4))
	if err != nil {
		return 0, 0, err
	}
	r := rune(v)
	if !utf16.IsSurrogate(r) {
		return r, 4, nil
	}

	// A high surrogate may be completed by an immediately following \u escape
	// for a low surrogate. Anything else leaves the surrogate unpaired.
	if src.Len() >= 10 && src.At(4) == '\\' && src.At(5) == 'u' {
		if lo, err := parseHex(src.SliceFrom(6).SliceTo(4)); err == nil {
			if pr := utf16.DecodeRune(r, rune(lo)); pr != utf8.RuneError {
				return pr, 10, nil
			}
		}
	}
	return utf8.RuneError, 4, nil
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}

// IsHexDigit reports whether b is an ASCII hexadecimal digit.
func IsHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
