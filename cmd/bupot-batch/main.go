package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/taxkit/bupot-extractor/constants"
	"github.com/taxkit/bupot-extractor/internal/archive"
	"github.com/taxkit/bupot-extractor/internal/batch"
	"github.com/taxkit/bupot-extractor/internal/common"
	"github.com/taxkit/bupot-extractor/internal/export"
	"github.com/taxkit/bupot-extractor/internal/repository"
	"github.com/taxkit/bupot-extractor/internal/schema"
	"github.com/taxkit/bupot-extractor/internal/textract"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		out        = flag.String("out", "hasil_ekstraksi.xlsx", "output XLSX file path")
		schemaPath = flag.String("schema", "", "JSON pattern-set override (optional)")
		workers    = flag.Int("workers", 0, "parallel workers (0 = BATCH_WORKERS env, default sequential)")
		timeout    = flag.String("timeout", "", "per-document timeout, e.g. 90s (default BATCH_DOC_TIMEOUT env)")
		history    = flag.String("history", "", "SQLite run-history database path (optional)")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		printError("Usage: bupot-batch [flags] <pdf|zip|rar|tar|dir>...\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *timeout != "" {
		d, err := time.ParseDuration(*timeout)
		if err != nil {
			printError("Error: invalid -timeout: %v\n", err)
			os.Exit(1)
		}
		cfg.Batch.DocTimeout = d
	}
	if *history != "" {
		cfg.History.DBPath = *history
	}

	fieldSchema := schema.Default()
	if *schemaPath != "" {
		s, err := schema.Load(*schemaPath)
		if err != nil {
			logger.Error("failed to load pattern schema", "path", *schemaPath, "error", err)
			os.Exit(1)
		}
		fieldSchema = s
		logger.Info("using pattern schema override", "path", *schemaPath, "version", s.Version)
	}

	// Staging area for archive contents, scoped to this run.
	staging, err := os.MkdirTemp("", "bupot-extract-*")
	if err != nil {
		logger.Error("failed to create staging dir", "error", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	runner := textract.ExecRunner{}
	expander := archive.NewExpander(runner, cfg.OCR.Unar, logger)

	inputs, kinds := gatherInputs(ctx, logger, expander, staging, flag.Args())
	logger.Info("inputs gathered",
		"documents", len(inputs),
		"pdf", kinds[constants.KindPDF],
		"zip", kinds[constants.KindZip],
		"rar", kinds[constants.KindRar],
		"tar", kinds[constants.KindTar],
	)
	if len(inputs) == 0 {
		logger.Warn("no documents to process")
		return
	}

	extractor := textract.NewExtractor(textract.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)

	agg := batch.NewAggregator(batch.Config{
		Workers:    cfg.Batch.Workers,
		DocTimeout: cfg.Batch.DocTimeout,
	}, extractor, fieldSchema, logger)

	result, docErrs := agg.Process(ctx, inputs)
	for _, de := range docErrs {
		logger.Error("document failed", "file", de.File, "error", de.Err)
	}

	xlsxBytes, err := export.NewService(logger).WriteXLSX(result)
	if err != nil {
		logger.Error("failed to build workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	if cfg.History.DBPath != "" {
		hist, err := repository.Open(cfg.History.DBPath, logger)
		if err != nil {
			logger.Error("failed to open history db", "error", err)
		} else {
			defer func() { _ = hist.Close() }()
			if runID, err := hist.SaveRun(ctx, result, len(docErrs)); err != nil {
				logger.Error("failed to save run history", "error", err)
			} else {
				logger.Info("run history saved", "run_id", runID)
			}
		}
	}

	logger.Info("batch complete",
		"output", *out,
		"documents", len(inputs),
		"records", result.Stats.TotalRecords,
		"unique", result.Stats.UniqueRows,
		"duplicates", result.Stats.DuplicateRows,
		"failures", len(docErrs),
	)
}

// gatherInputs resolves the positional arguments into a flat document list:
// directories are walked for supported files, archives are expanded into the
// staging dir, PDFs pass through. Unreadable archives are logged and skipped;
// an empty result is a zero-document run, not a failure.
func gatherInputs(ctx context.Context, logger *slog.Logger, expander *archive.Expander, staging string, args []string) ([]batch.Input, map[constants.InputKind]int) {
	kinds := map[constants.InputKind]int{}
	var inputs []batch.Input

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			logger.Error("input not accessible", "path", arg, "error", err)
			continue
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() {
				return walkErr
			}
			if constants.ClassifyPath(path) != constants.KindUnknown {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			logger.Error("failed to walk directory", "path", arg, "error", err)
		}
	}

	for _, path := range paths {
		kind := constants.ClassifyPath(path)
		switch {
		case kind == constants.KindPDF:
			kinds[kind]++
			inputs = append(inputs, batch.Input{Path: path, Origin: batch.OriginSingle})
		case constants.IsArchiveKind(kind):
			kinds[kind]++
			pdfs, err := expander.Expand(ctx, path, staging)
			if err != nil {
				logger.Error("archive expansion failed", "archive", path, "error", err)
				continue
			}
			for _, p := range pdfs {
				inputs = append(inputs, batch.Input{
					Path:    p,
					Origin:  batch.OriginArchive,
					Archive: filepath.Base(path),
				})
			}
		default:
			logger.Warn("skipping unsupported input", "path", path)
		}
	}
	return inputs, kinds
}
