// Package archive expands uploaded zip/rar/tar archives into a caller-owned
// directory and reports the PDF documents they contain. The extraction core
// has no opinion on archive formats; it only sees the resulting paths.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	moby "github.com/moby/go-archive"

	"github.com/taxkit/bupot-extractor/constants"
	"github.com/taxkit/bupot-extractor/internal/textract"
)

type Expander struct {
	runner textract.Runner
	unar   string // binary name or absolute path; if empty -> "unar"
	logger *slog.Logger
}

func NewExpander(runner textract.Runner, unar string, logger *slog.Logger) *Expander {
	if runner == nil {
		runner = textract.ExecRunner{}
	}
	if unar == "" {
		unar = "unar"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Expander{runner: runner, unar: unar, logger: logger}
}

// Expand unpacks the archive at path into dest and returns the contained PDF
// paths in sorted order. dest must be a directory owned by the caller; it is
// never shared between runs. An archive with no PDFs yields an empty list,
// not an error.
func (e *Expander) Expand(ctx context.Context, path, dest string) ([]string, error) {
	sub, err := os.MkdirTemp(dest, "arc-*")
	if err != nil {
		return nil, fmt.Errorf("create expansion dir: %w", err)
	}

	switch constants.ClassifyPath(path) {
	case constants.KindZip:
		err = e.expandZip(path, sub)
	case constants.KindTar:
		err = e.expandTar(path, sub)
	case constants.KindRar:
		err = e.expandRar(ctx, path, sub)
	default:
		return nil, fmt.Errorf("unsupported archive: %s", filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", filepath.Base(path), err)
	}

	pdfs, err := collectPDFs(sub)
	if err != nil {
		return nil, err
	}
	e.logger.Info("archive.expanded", "archive", filepath.Base(path), "pdfs", len(pdfs))
	return pdfs, nil
}

func (e *Expander) expandZip(path, dest string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %q: %w", f.Name, err)
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
		if err != nil {
			_ = rc.Close()
			return err
		}
		_, err = io.Copy(out, rc)
		_ = rc.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write zip entry %q: %w", f.Name, err)
		}
	}
	return nil
}

func (e *Expander) expandTar(path, dest string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open tar: %w", err)
	}
	defer func() { _ = f.Close() }()

	rd, err := moby.DecompressStream(f)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	defer func() { _ = rd.Close() }()

	return moby.Untar(rd, dest, &moby.TarOptions{NoLchown: true})
}

func (e *Expander) expandRar(ctx context.Context, path, dest string) error {
	// unar -force-overwrite -o <dest> <file>
	_, errb, err := e.runner.Run(ctx, e.unar, "-force-overwrite", "-o", dest, path)
	if err != nil {
		return fmt.Errorf("unar: %w (%s)", err, strings.TrimSpace(string(errb)))
	}
	return nil
}

func collectPDFs(root string) ([]string, error) {
	var pdfs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if constants.ClassifyPath(path) == constants.KindPDF {
			pdfs = append(pdfs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk expansion dir: %w", err)
	}
	sort.Strings(pdfs)
	return pdfs, nil
}

// safeJoin rejects entry names that would escape dest.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %q", name)
	}
	return target, nil
}
