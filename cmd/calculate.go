package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ridgepoint/commission-cli/internal/commission"
)

var (
	calcMonth int
	calcYear  int
	calcRep   string
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate commissions for a month",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if calcMonth < 1 || calcMonth > 12 {
			return eris.Errorf("invalid month %d", calcMonth)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := commission.NewCalculator(st).Run(ctx, calcMonth, calcYear, calcRep)
		if err != nil {
			return eris.Wrap(err, "calculate commissions")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	calculateCmd.Flags().IntVar(&calcMonth, "month", 0, "commission month 1-12 (required)")
	calculateCmd.Flags().IntVar(&calcYear, "year", 0, "commission year (required)")
	calculateCmd.Flags().StringVar(&calcRep, "rep", "", "limit to one rep code")
	_ = calculateCmd.MarkFlagRequired("month")
	_ = calculateCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(calculateCmd)
}
