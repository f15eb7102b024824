package main

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ridgepoint/commission-cli/internal/fetcher"
	"github.com/ridgepoint/commission-cli/internal/ingest"
)

var ingestFilePath string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a sales-order extract (CSV or XLSX) into the ledger",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := fetcher.Rows(ctx, ingestFilePath)
		if err != nil {
			return eris.Wrap(err, "read extract")
		}

		importID := uuid.NewString()
		stats, err := ingest.NewReconciler(st).Run(ctx, importID, rows)
		if err != nil {
			return eris.Wrap(err, "ingest extract")
		}

		zap.L().Info("ingest complete",
			zap.String("import_id", importID),
			zap.String("file", ingestFilePath),
		)

		out := map[string]any{"import_id": importID, "stats": stats}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestFilePath, "file", "", "path to extract file (required)")
	_ = ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)
}
