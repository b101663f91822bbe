package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/taxkit/bupot-extractor/internal/batch"
	"github.com/taxkit/bupot-extractor/internal/resolve"
	"github.com/taxkit/bupot-extractor/internal/schema"
)

func TestWriteXLSX(t *testing.T) {
	b := batch.Batch{
		Records: []resolve.Fields{
			{
				schema.KeyNomor:        "AB12CD34E",
				schema.KeyNamaPemotong: "PT MAJU JAYA",
				schema.KeyDPP:          int64(1000000),
				schema.KeyTarif:        int64(2),
				schema.KeyPPH:          int64(20000),
				schema.KeyFile:         "a.pdf",
			},
			{
				// sparse record: most fields absent
				schema.KeyNomor: "ZZ99XX88Y",
				schema.KeyFile:  "b.pdf",
			},
		},
	}

	data, err := NewService(nil).WriteXLSX(b)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	const sheet = "Hasil Ekstraksi"

	// header row follows the canonical column order
	for i, want := range schema.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	colOf := func(key string) int {
		for i, k := range schema.Columns {
			if k == key {
				return i + 1
			}
		}
		t.Fatalf("unknown key %q", key)
		return 0
	}
	cellValue := func(key string, row int) string {
		cell, _ := excelize.CoordinatesToCellName(colOf(key), row)
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "AB12CD34E", cellValue(schema.KeyNomor, 2))
	assert.Equal(t, "PT MAJU JAYA", cellValue(schema.KeyNamaPemotong, 2))
	assert.Equal(t, "1000000", cellValue(schema.KeyDPP, 2))
	assert.Equal(t, "a.pdf", cellValue(schema.KeyFile, 2))

	assert.Equal(t, "ZZ99XX88Y", cellValue(schema.KeyNomor, 3))
	assert.Equal(t, "", cellValue(schema.KeyNamaPemotong, 3))
	assert.Equal(t, "", cellValue(schema.KeyDPP, 3))
}

func TestWriteXLSXEmptyBatch(t *testing.T) {
	data, err := NewService(nil).WriteXLSX(batch.Batch{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetCellValue("Hasil Ekstraksi", "A1")
	require.NoError(t, err)
	assert.Equal(t, schema.Columns[0], got)
}
