package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxkit/bupot-extractor/internal/batch"
	"github.com/taxkit/bupot-extractor/internal/resolve"
	"github.com/taxkit/bupot-extractor/internal/schema"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestSaveAndListRuns(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	b := batch.Batch{
		Records: []resolve.Fields{
			{schema.KeyNomor: "AB12CD34E", schema.KeyDPP: int64(1000000), schema.KeyFile: "a.pdf"},
			{schema.KeyNomor: "ZZ99XX88Y", schema.KeyFile: "b.pdf"},
		},
		Stats: batch.Stats{
			TotalInputs:   3,
			TotalRecords:  2,
			UniqueRows:    2,
			DuplicateRows: 0,
		},
	}

	runID, err := h.SaveRun(ctx, b, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	runs, err := h.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, 3, runs[0].TotalInputs)
	assert.Equal(t, 2, runs[0].TotalRecords)
	assert.Equal(t, 1, runs[0].Failures)
}

func TestListRunsEmpty(t *testing.T) {
	h := openTestHistory(t)
	runs, err := h.ListRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
