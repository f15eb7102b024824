package fetcher

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRows(t *testing.T, rowCh <-chan []string, errCh <-chan error) ([][]string, error) {
	t.Helper()
	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	for err := range errCh {
		if err != nil {
			return rows, err
		}
	}
	return rows, nil
}

func TestStreamCSV_Basic(t *testing.T) {
	input := "SO Number,Total Price\nSO-1,100.00\nSO-2,50.00\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"SO Number", "Total Price"}, rows[0])
	assert.Equal(t, []string{"SO-2", "50.00"}, rows[2])
}

func TestStreamCSV_HeaderChannel(t *testing.T) {
	input := "Customer ID,Salesman\nC1,JDOE\nC2,ASMITH\n"
	headerCh := make(chan []string, 1)

	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
	})

	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"C1", "JDOE"}, rows[0])
	assert.Equal(t, []string{"Customer ID", "Salesman"}, <-headerCh)
}

func TestStreamCSV_TrimSpace(t *testing.T) {
	input := " SO-1 , 100.00 \n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{TrimSpace: true})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"SO-1", "100.00"}, rows[0])
}

func TestStreamCSV_VariableFieldCounts(t *testing.T) {
	// ERP exports drop trailing empty cells; short rows must pass through.
	input := "a,b,c\nSO-1,100.00\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[1], 2)
}

func TestStreamCSV_PipeDelimited(t *testing.T) {
	input := "SO-1|100.00\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{Delimiter: '|'})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"SO-1", "100.00"}, rows[0])
}

func TestStreamCSV_Empty(t *testing.T) {
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(""), CSVOptions{})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStreamCSV_ContextCancellation(t *testing.T) {
	var sb strings.Builder
	for range 10000 {
		sb.WriteString("SO-1,100.00\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	rowCh, errCh := StreamCSV(ctx, strings.NewReader(sb.String()), CSVOptions{})

	<-rowCh
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-rowCh:
			if !ok {
				rowCh = nil
			}
		case err, ok := <-errCh:
			if ok && err != nil {
				assert.Contains(t, err.Error(), "context")
				return
			}
			if !ok {
				t.Fatal("error channel closed without a cancellation error")
			}
		case <-deadline:
			t.Fatal("stream did not stop after cancellation")
		}
	}
}
