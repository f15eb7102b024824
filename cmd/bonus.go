package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ridgepoint/commission-cli/internal/bonus"
	"github.com/ridgepoint/commission-cli/internal/model"
	"github.com/ridgepoint/commission-cli/internal/money"
)

var (
	bonusGoal         float64
	bonusActual       float64
	bonusBudget       float64
	bonusBucketWeight float64
	bonusSubWeight    float64
	bonusRep          string
	bonusQuarter      string
	bonusBucket       string
	bonusSubGoal      string
)

var bonusCmd = &cobra.Command{
	Use:   "bonus",
	Short: "Compute a quarterly bonus payout for one quota bucket",
	Long:  "Pure plan arithmetic; the attainment floor and cap come from plan configuration. With --rep and --quarter the result is also stored as a plan entry.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		goal := money.FromFloat(bonusGoal)
		actual := money.FromFloat(bonusActual)
		payout := bonus.ComputePayout(goal, actual,
			bonus.Config{
				MaxBudget:        money.FromFloat(bonusBudget),
				BucketWeight:     money.FromFloat(bonusBucketWeight),
				SubWeight:        money.FromFloat(bonusSubWeight),
				MinAttainment:    money.FromFloat(cfg.Plan.MinAttainment),
				MaxAttainmentCap: money.FromFloat(cfg.Plan.MaxAttainmentCap),
			},
		)

		if bonusRep != "" && bonusQuarter != "" {
			ctx := cmd.Context()
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			entry := &model.BonusEntry{
				SalesPerson: bonusRep,
				Quarter:     bonusQuarter,
				Bucket:      bonusBucket,
				SubGoal:     bonusSubGoal,
				GoalValue:   money.Round2(goal),
				ActualValue: money.Round2(actual),
				Attainment:  payout.Attainment,
				BucketMax:   payout.BucketMax,
				Payout:      payout.Payout,
				UpdatedAt:   time.Now().UTC(),
			}
			if err := st.SaveBonusEntry(ctx, entry); err != nil {
				return err
			}
			zap.L().Info("bonus entry saved",
				zap.String("rep", bonusRep),
				zap.String("quarter", bonusQuarter),
				zap.String("bucket", bonusBucket),
			)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{
			"attainment": payout.Attainment.String(),
			"bucket_max": payout.BucketMax.StringFixed(2),
			"payout":     payout.Payout.StringFixed(2),
		})
	},
}

func init() {
	bonusCmd.Flags().Float64Var(&bonusGoal, "goal", 0, "quota goal (required)")
	bonusCmd.Flags().Float64Var(&bonusActual, "actual", 0, "actual attainment value (required)")
	bonusCmd.Flags().Float64Var(&bonusBudget, "budget", 0, "whole-quarter bonus budget (required)")
	bonusCmd.Flags().Float64Var(&bonusBucketWeight, "bucket-weight", 1, "bucket share of the budget, 0-1")
	bonusCmd.Flags().Float64Var(&bonusSubWeight, "sub-weight", 0, "sub-goal share, 0-1 (0 = whole bucket)")
	bonusCmd.Flags().StringVar(&bonusRep, "rep", "", "rep code; with --quarter, persist the entry")
	bonusCmd.Flags().StringVar(&bonusQuarter, "quarter", "", `plan quarter, e.g. "2026-Q1"`)
	bonusCmd.Flags().StringVar(&bonusBucket, "bucket", "revenue", "quota bucket name")
	bonusCmd.Flags().StringVar(&bonusSubGoal, "sub-goal", "", "sub-goal name within the bucket")
	_ = bonusCmd.MarkFlagRequired("goal")
	_ = bonusCmd.MarkFlagRequired("actual")
	_ = bonusCmd.MarkFlagRequired("budget")
	rootCmd.AddCommand(bonusCmd)
}
