// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"context"
	"io"

	"github.com/creachadair/jpush"
	"github.com/creachadair/jpush/feed"
)

// Parse parses and returns a single JSON value from r.
func Parse(r io.Reader) (Value, error) {
	p := jpush.NewParser()
	b := NewBuilder(p)
	if _, err := feed.Copy(context.Background(), p, r, 0); err != nil {
		return nil, err
	}
	return b.Result()
}

// ParseAll parses and returns a stream of concatenated JSON values from r.
// In case of error, any complete values already parsed are returned along
// with the error.
func ParseAll(r io.Reader) ([]Value, error) {
	p := jpush.NewParser()
	p.AllowMultipleValues(true)
	b := NewBuilder(p)
	_, err := feed.Copy(context.Background(), p, r, 0)
	return b.Values(), err
}
