package main

import (
	"github.com/spf13/cobra"

	"stockgrader/internal/grading"
)

func newScoreCmd() *cobra.Command {
	var (
		pe, eps, marketCap, volume float64
		explain                    bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Grade literal fundamentals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			pick := func(name string, v float64) *float64 {
				if !flags.Changed(name) {
					return nil
				}
				return &v
			}
			s := grading.Snapshot{
				PERatio:   pick("pe", pe),
				EPS:       pick("eps", eps),
				MarketCap: pick("market-cap", marketCap),
				Volume:    pick("volume", volume),
			}
			if explain {
				return printJSON(cmd.OutOrStdout(), grading.Explain(s))
			}
			return printJSON(cmd.OutOrStdout(), grading.Compute(s))
		},
	}
	cmd.Flags().Float64Var(&pe, "pe", 0, "price/earnings ratio")
	cmd.Flags().Float64Var(&eps, "eps", 0, "earnings per share")
	cmd.Flags().Float64Var(&marketCap, "market-cap", 0, "market capitalisation")
	cmd.Flags().Float64Var(&volume, "volume", 0, "traded volume (not scored)")
	cmd.Flags().BoolVar(&explain, "explain", false, "print each factor's contribution")
	return cmd
}
