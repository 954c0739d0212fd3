// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package escape

import "unicode/utf8"

// CheckUTF8 reports whether raw is well-formed UTF-8. If not, it also returns
// the offset of the first byte of the first malformed sequence.
func CheckUTF8(raw []byte) (int, bool) {
	if utf8.Valid(raw) {
		return 0, true
	}
	for i := 0; i < len(raw); {
		if raw[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, n := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && n <= 1 {
			return i, false
		}
		i += n
	}
	return len(raw), false // unreachable for invalid input
}
