// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/creachadair/jpush/ast"
	"github.com/creachadair/jpush/jpath"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var opts options
	var pathExpr string

	cmd := &cobra.Command{
		Use:   "build [file|-]",
		Short: "Build and print the values described by JSON input",
		Long: `Build the value of each document in the input and print it as compact
JSON, one value per line. With --path, print only the selected part of
each value, for example --path '$.items[0].name'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			var sel jpath.Expr
			if pathExpr != "" {
				sel, err = jpath.Parse(pathExpr)
				if err != nil {
					return fmt.Errorf("invalid --path: %w", err)
				}
			}

			p := cfg.newParser()
			b := ast.NewBuilder(p)
			rerr := run(cmd, args, &opts, cfg, p)

			// Print whatever values were completed, even if the input later failed.
			out := cmd.OutOrStdout()
			for i, v := range b.Values() {
				got, err := sel.Eval(v)
				if err != nil {
					return fmt.Errorf("document %d: %w", i+1, err)
				}
				if _, err := fmt.Fprintln(out, got.JSON()); err != nil {
					return err
				}
			}
			return rerr
		},
	}
	opts.bind(cmd.Flags())
	cmd.Flags().StringVar(&pathExpr, "path", "", "select part of each value (for example $.a.b[0])")
	return cmd
}
