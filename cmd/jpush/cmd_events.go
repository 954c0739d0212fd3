// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/creachadair/jpush"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var opts options
	var showSpans bool

	cmd := &cobra.Command{
		Use:   "events [file|-]",
		Short: "Print the parse events for JSON input",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			p := cfg.newParser()
			out := cmd.OutOrStdout()
			show := func(e jpush.Event) error {
				indent := e.Depth
				switch e.Kind {
				case jpush.StartObject, jpush.StartArray:
					indent--
				}
				var err error
				if showSpans {
					_, err = fmt.Fprintf(out, "%-10s %s%s\n", e.Span, strings.Repeat("  ", indent), e)
				} else {
					_, err = fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", indent), e)
				}
				return err
			}
			for k := jpush.StartDocument; k <= jpush.Value; k++ {
				p.Register(k, show)
			}
			return run(cmd, args, &opts, cfg, p)
		},
	}
	opts.bind(cmd.Flags())
	cmd.Flags().BoolVar(&showSpans, "spans", false, "include the input span of each event")
	return cmd
}
