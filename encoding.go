// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpush

import (
	"bytes"
	"errors"

	"github.com/creachadair/jpush/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.AppendQuote(nil, mem.S(src))) }

// Unquote decodes a JSON string literal. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
// Unquote reports an error for an unknown or incomplete escape sequence.
func Unquote(src []byte) ([]byte, error) {
	if len(src) < 2 || !bytes.HasPrefix(src, []byte(`"`)) || !bytes.HasSuffix(src, []byte(`"`)) {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.B(src[1 : len(src)-1]))
}
