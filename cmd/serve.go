package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ridgepoint/commission-cli/internal/acctsync"
	"github.com/ridgepoint/commission-cli/internal/bonus"
	"github.com/ridgepoint/commission-cli/internal/commission"
	"github.com/ridgepoint/commission-cli/internal/config"
	"github.com/ridgepoint/commission-cli/internal/fetcher"
	"github.com/ridgepoint/commission-cli/internal/ingest"
	"github.com/ridgepoint/commission-cli/internal/model"
	"github.com/ridgepoint/commission-cli/internal/money"
	"github.com/ridgepoint/commission-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the commission API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, cfg),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(st store.Store, cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/ingest", handleIngest(st, cfg))
	r.Get("/api/imports/{id}", handleImportStatus(st))
	r.Post("/api/calculate", handleCalculate(st))
	r.Post("/api/sync", handleSync(st))
	r.Post("/api/bonus", handleBonus(st, cfg))
	r.Get("/api/bonus/{rep}/{quarter}", handleBonusPlan(st))

	return r
}

// handleIngest accepts a multipart extract upload, answers immediately
// with the import id, and runs the ingestion in the background. Progress
// is polled through GET /api/imports/{id}.
func handleIngest(st store.Store, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := int64(cfg.Ingest.MaxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart upload")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file field is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "read upload")
			return
		}

		rows, err := fetcher.RowsFromBytes(r.Context(), data, filepath.Ext(header.Filename))
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		importID := uuid.NewString()

		// The request context dies with the response; the ingestion run
		// outlives it.
		go func() {
			if _, err := ingest.NewReconciler(st).Run(context.Background(), importID, rows); err != nil {
				zap.L().Error("background ingestion failed",
					zap.String("import_id", importID),
					zap.Error(err),
				)
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{"import_id": importID})
	}
}

func handleImportStatus(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, err := st.GetProgress(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "load progress")
			return
		}
		if p == nil {
			writeError(w, http.StatusNotFound, "unknown import id")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func handleCalculate(st store.Store) http.HandlerFunc {
	calc := commission.NewCalculator(st)
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Month int    `json:"month"`
			Year  int    `json:"year"`
			Rep   string `json:"rep"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Month < 1 || req.Month > 12 || req.Year == 0 {
			writeError(w, http.StatusBadRequest, "month and year are required")
			return
		}

		result, err := calc.Run(r.Context(), req.Month, req.Year, req.Rep)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleSync(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := acctsync.NewSyncer(st).Run(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// handleBonus computes one quota bucket. When the request names a rep and
// quarter the result is also stored, so plan edits recompute in place.
func handleBonus(st store.Store, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Goal         float64 `json:"goal"`
			Actual       float64 `json:"actual"`
			Budget       float64 `json:"budget"`
			BucketWeight float64 `json:"bucket_weight"`
			SubWeight    float64 `json:"sub_weight"`
			SalesPerson  string  `json:"sales_person"`
			Quarter      string  `json:"quarter"`
			Bucket       string  `json:"bucket"`
			SubGoal      string  `json:"sub_goal"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.BucketWeight == 0 {
			req.BucketWeight = 1
		}

		goal := money.FromFloat(req.Goal)
		actual := money.FromFloat(req.Actual)
		payout := bonus.ComputePayout(goal, actual,
			bonus.Config{
				MaxBudget:        money.FromFloat(req.Budget),
				BucketWeight:     money.FromFloat(req.BucketWeight),
				SubWeight:        money.FromFloat(req.SubWeight),
				MinAttainment:    money.FromFloat(cfg.Plan.MinAttainment),
				MaxAttainmentCap: money.FromFloat(cfg.Plan.MaxAttainmentCap),
			},
		)

		if req.SalesPerson != "" && req.Quarter != "" {
			bucket := req.Bucket
			if bucket == "" {
				bucket = "revenue"
			}
			entry := &model.BonusEntry{
				SalesPerson: req.SalesPerson,
				Quarter:     req.Quarter,
				Bucket:      bucket,
				SubGoal:     req.SubGoal,
				GoalValue:   money.Round2(goal),
				ActualValue: money.Round2(actual),
				Attainment:  payout.Attainment,
				BucketMax:   payout.BucketMax,
				Payout:      payout.Payout,
				UpdatedAt:   time.Now().UTC(),
			}
			if err := st.SaveBonusEntry(r.Context(), entry); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"attainment": payout.Attainment.String(),
			"bucket_max": payout.BucketMax.StringFixed(2),
			"payout":     payout.Payout.StringFixed(2),
		})
	}
}

func handleBonusPlan(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := st.ListBonusEntries(r.Context(),
			chi.URLParam(r, "rep"), chi.URLParam(r, "quarter"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
