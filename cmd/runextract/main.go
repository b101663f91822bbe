// runextract acquires text from a single slip and prints the resolved
// fields. Debugging aid for authoring new patterns.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/taxkit/bupot-extractor/internal/common"
	"github.com/taxkit/bupot-extractor/internal/resolve"
	"github.com/taxkit/bupot-extractor/internal/schema"
	"github.com/taxkit/bupot-extractor/internal/textract"
)

func main() {
	var (
		showText   = flag.Bool("text", false, "also print the normalized text")
		schemaPath = flag.String("schema", "", "JSON pattern-set override (optional)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: runextract [flags] <file.pdf>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	path := flag.Arg(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	fieldSchema := schema.Default()
	if *schemaPath != "" {
		s, err := schema.Load(*schemaPath)
		if err != nil {
			logger.Error("failed to load pattern schema", "path", *schemaPath, "error", err)
			os.Exit(1)
		}
		fieldSchema = s
	}

	extractor := textract.NewExtractor(textract.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)

	res, err := extractor.Acquire(context.Background(), path)
	if err != nil {
		logger.Error("acquisition failed", "path", path, "error", err)
		os.Exit(1)
	}
	logger.Info("text acquired", "method", res.Method, "pages", res.Pages, "bytes", len(res.Text))

	if *showText {
		fmt.Println("=== NORMALIZED TEXT ===")
		fmt.Println(res.Text)
		fmt.Println("=======================")
	}

	fields := resolve.Resolve(res.Text, fieldSchema)
	if len(fields) == 0 {
		fmt.Println("(no fields matched)")
		return
	}
	for _, key := range schema.Columns {
		if v, ok := fields[key]; ok {
			fmt.Printf("%-18s %v\n", key+":", v)
		}
	}
}
