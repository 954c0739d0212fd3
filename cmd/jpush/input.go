// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/creachadair/jpush"
	"github.com/creachadair/jpush/feed"
	"github.com/spf13/cobra"
)

// run feeds the input selected by the command to p: the WebSocket at
// opts.url if set, otherwise the file named by args[0], or standard input if
// that is "-".
func run(cmd *cobra.Command, args []string, opts *options, cfg config, p *jpush.Parser) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.url != "" {
		if len(args) != 0 {
			return errors.New("cannot combine --url with a file argument")
		}
		return feed.WebSocket(ctx, p, opts.url)
	}
	if len(args) != 1 {
		return errors.New("exactly one input file (or - for stdin) is required")
	}

	var r io.Reader
	if args[0] == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	n, err := feed.Copy(ctx, p, r, cfg.Chunk)
	log.Infof("read %d bytes, %d documents", n, p.Documents())
	return err
}
