package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockgrader/internal/tickers"
)

func newLookupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup SYMBOL",
		Short: "Resolve a symbol through the ticker table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			tbl, err := tickers.Load(cfg.Tickers.Path)
			if err != nil {
				return err
			}
			m, ok := tbl.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%s: not found", tickers.Normalize(args[0]))
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}
}
