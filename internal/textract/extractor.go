package textract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/taxkit/bupot-extractor/internal/common"
)

// Method values reported in acquisition results.
const (
	MethodPDFText = "pdf-text"
	MethodPDFOCR  = "pdf-ocr"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "ind+eng"
	DPI           int    // rasterization DPI for scanned slips, default 300
	MaxPages      int    // 0 = no limit
}

// Result is the outcome of acquiring text for one document. Text is already
// normalized and safe to feed to the field resolver.
type Result struct {
	Text     string
	Pages    int
	Method   string // MethodPDFText | MethodPDFOCR
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	// seams for tests
	textLayer func(path string) (string, int, error)
	pageCheck func(path string) error
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "ind+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	e := &Extractor{cfg: cfg, runner: ExecRunner{}, logger: logger}
	e.textLayer = e.pdfTextLayer
	e.pageCheck = func(path string) error {
		_, err := api.PageCountFile(path)
		return err
	}
	return e
}

// WithRunner replaces the command runner. Tests use this to stub out
// pdftoppm and tesseract.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Acquire returns the normalized text for one document. The embedded text
// layer is tried first; when it is empty or whitespace-only the document is
// rasterized and each page is OCRed. Scanned slips carry no text layer, so
// the fallback is the common path for them.
func (e *Extractor) Acquire(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	if err := e.pageCheck(path); err != nil {
		return Result{}, common.NewAppError("TEXT_ACQUISITION", fmt.Sprintf("unreadable pdf %q", path),
			fmt.Errorf("%w: %w", common.ErrTextAcquisition, err))
	}

	text, pages, err := e.textLayer(path)
	if err != nil {
		e.logger.Warn("text layer read failed, falling back to ocr", "path", path, "error", err)
	}
	if strings.TrimSpace(text) != "" {
		e.logger.Debug("text layer ok", "path", path, "pages", pages)
		return Result{
			Text:     Normalize(text),
			Pages:    pages,
			Method:   MethodPDFText,
			Duration: time.Since(start),
		}, nil
	}

	text, pages, warns, err := e.pdfOCR(ctx, path)
	if err != nil {
		return Result{Warnings: warns}, common.NewAppError("TEXT_ACQUISITION", fmt.Sprintf("ocr failed for %q", path),
			fmt.Errorf("%w: %w", common.ErrTextAcquisition, err))
	}
	return Result{
		Text:     Normalize(text),
		Pages:    pages,
		Method:   MethodPDFOCR,
		Duration: time.Since(start),
		Warnings: warns,
	}, nil
}
