package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBatchResults struct {
	err error
}

func (f *fakeBatchResults) Exec() (pgconn.CommandTag, error)     { return pgconn.CommandTag{}, f.err }
func (f *fakeBatchResults) Query() (pgx.Rows, error)             { return nil, f.err }
func (f *fakeBatchResults) QueryRow() pgx.Row                    { return nil }
func (f *fakeBatchResults) Close() error                         { return f.err }

type fakePool struct {
	Pool
	sent    []int // size of each sent batch
	failFor int   // index of batch to fail (-1 = never)
}

func (f *fakePool) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.sent = append(f.sent, b.Len())
	if f.failFor == len(f.sent)-1 {
		return &fakeBatchResults{err: errors.New("connection reset")}
	}
	return &fakeBatchResults{}
}

func TestBatchWriter_FlushesAtCeiling(t *testing.T) {
	pool := &fakePool{failFor: -1}
	w := NewBatchWriter(pool)
	ctx := context.Background()

	for i := 0; i < MaxBatchOps+10; i++ {
		w.Queue(ctx, "INSERT INTO line_items (line_item_id) VALUES ($1)", i)
	}
	require.NoError(t, w.Close(ctx))

	assert.Equal(t, []int{MaxBatchOps, 10}, pool.sent)
	assert.Equal(t, 2, w.Flushed())
	assert.Zero(t, w.Failed())
	assert.Zero(t, w.Pending())
}

func TestBatchWriter_EmptyFlushIsNoop(t *testing.T) {
	pool := &fakePool{failFor: -1}
	w := NewBatchWriter(pool)
	w.Flush(context.Background())
	require.NoError(t, w.Close(context.Background()))
	assert.Empty(t, pool.sent)
}

func TestBatchWriter_FailedBatchRearms(t *testing.T) {
	pool := &fakePool{failFor: 0}
	w := NewBatchWriter(pool)
	ctx := context.Background()

	w.Queue(ctx, "INSERT INTO sales_orders (order_id) VALUES ($1)", "SO-1")
	w.Flush(ctx)
	assert.Equal(t, 1, w.Failed())

	// Writer keeps accepting work after a lost batch.
	w.Queue(ctx, "INSERT INTO sales_orders (order_id) VALUES ($1)", "SO-2")
	err := w.Close(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, w.Flushed())
	assert.Equal(t, []int{1, 1}, pool.sent)
}
