package archive

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestExpandZip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "slips.zip")
	writeZip(t, zipPath, map[string]string{
		"bukti1.pdf":        "%PDF-1.4 one",
		"nested/bukti2.PDF": "%PDF-1.4 two",
		"readme.txt":        "not a slip",
	})

	e := NewExpander(nil, "", nil)
	pdfs, err := e.Expand(context.Background(), zipPath, t.TempDir())
	require.NoError(t, err)
	require.Len(t, pdfs, 2)
	assert.Equal(t, "bukti1.pdf", filepath.Base(pdfs[0]))
	assert.Equal(t, "bukti2.PDF", filepath.Base(pdfs[1]))
}

func TestExpandZipNoPDFs(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "empty.zip")
	writeZip(t, zipPath, map[string]string{"notes.txt": "nothing here"})

	e := NewExpander(nil, "", nil)
	pdfs, err := e.Expand(context.Background(), zipPath, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, pdfs)
}

func TestExpandZipRejectsEscapingEntry(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.zip")
	writeZip(t, zipPath, map[string]string{"../escape.pdf": "%PDF-1.4"})

	e := NewExpander(nil, "", nil)
	_, err := e.Expand(context.Background(), zipPath, t.TempDir())
	require.Error(t, err)
}

func TestExpandUnsupported(t *testing.T) {
	e := NewExpander(nil, "", nil)
	_, err := e.Expand(context.Background(), "file.7z", t.TempDir())
	require.Error(t, err)
}

// rarRunner pretends to be unar: it drops a PDF into the destination given
// by the -o flag.
type rarRunner struct {
	calls [][]string
}

func (r *rarRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	var dest string
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			dest = args[i+1]
		}
	}
	if err := os.WriteFile(filepath.Join(dest, "dari_rar.pdf"), []byte("%PDF-1.4"), 0o640); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

func TestExpandRarUsesRunner(t *testing.T) {
	rr := &rarRunner{}
	e := NewExpander(rr, "unar", nil)

	pdfs, err := e.Expand(context.Background(), "slips.rar", t.TempDir())
	require.NoError(t, err)
	require.Len(t, pdfs, 1)
	assert.Equal(t, "dari_rar.pdf", filepath.Base(pdfs[0]))
	require.Len(t, rr.calls, 1)
	assert.Equal(t, "unar", rr.calls[0][0])
}
