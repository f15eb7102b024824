package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ridgepoint/commission-cli/internal/acctsync"
)

var syncLive bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync customer account types from Copper CRM",
	Long:  "Matches ERP customers to Copper companies and writes back resolved account types. With --live, companies are pulled from the Copper API first; otherwise the locally mirrored table is used.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if syncLive {
			client, err := initCopper()
			if err != nil {
				return err
			}
			companies, err := client.ListCompanies(ctx)
			if err != nil {
				return eris.Wrap(err, "pull copper companies")
			}
			n, err := st.SaveCopperCompanies(ctx, companies)
			if err != nil {
				return eris.Wrap(err, "mirror copper companies")
			}
			zap.L().Info("copper companies mirrored", zap.Int64("count", n))
		}

		stats, err := acctsync.NewSyncer(st).Run(ctx)
		if err != nil {
			return eris.Wrap(err, "sync account types")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncLive, "live", false, "pull companies from the Copper API before matching")
	rootCmd.AddCommand(syncCmd)
}
