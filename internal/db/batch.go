package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// MaxBatchOps is the hard per-transaction operation ceiling. A batch is
// flushed once it holds this many pending statements.
const MaxBatchOps = 400

// BatchWriter queues upsert statements and commits them in bounded batches.
// A failed flush is logged and the writer re-arms with a fresh batch; the
// failed batch's writes are lost. That is accepted best-effort behavior for
// a long-running idempotent ingestion, which re-runs safely.
type BatchWriter struct {
	pool    Pool
	batch   *pgx.Batch
	flushed int
	failed  int
	log     *zap.Logger
}

// NewBatchWriter creates a BatchWriter over the given pool.
func NewBatchWriter(pool Pool) *BatchWriter {
	return &BatchWriter{
		pool:  pool,
		batch: &pgx.Batch{},
		log:   zap.L().With(zap.String("component", "db.batch_writer")),
	}
}

// Queue adds a statement to the pending batch, flushing first if the batch
// is at the operation ceiling.
func (w *BatchWriter) Queue(ctx context.Context, sql string, args ...any) {
	if w.batch.Len() >= MaxBatchOps {
		w.Flush(ctx)
	}
	w.batch.Queue(sql, args...)
}

// Flush commits the pending batch. Errors are absorbed: the writer logs,
// counts the failure, and starts a fresh batch.
func (w *BatchWriter) Flush(ctx context.Context) {
	if w.batch.Len() == 0 {
		return
	}
	n := w.batch.Len()
	err := w.pool.SendBatch(ctx, w.batch).Close()
	w.batch = &pgx.Batch{}
	if err != nil {
		w.failed++
		w.log.Error("batch commit failed, continuing with fresh batch",
			zap.Int("ops", n),
			zap.Error(err),
		)
		return
	}
	w.flushed++
}

// Close flushes the remainder and returns an error if any batch failed
// during the writer's lifetime.
func (w *BatchWriter) Close(ctx context.Context) error {
	w.Flush(ctx)
	if w.failed > 0 {
		return eris.Errorf("db: %d of %d batches failed to commit", w.failed, w.failed+w.flushed)
	}
	return nil
}

// Flushed returns the count of successfully committed batches.
func (w *BatchWriter) Flushed() int { return w.flushed }

// Failed returns the count of batches lost to commit errors.
func (w *BatchWriter) Failed() int { return w.failed }

// Pending returns the number of statements queued but not yet committed.
func (w *BatchWriter) Pending() int { return w.batch.Len() }
