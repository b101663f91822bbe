package batch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/taxkit/bupot-extractor/internal/resolve"
	"github.com/taxkit/bupot-extractor/internal/schema"
	"github.com/taxkit/bupot-extractor/internal/textract"
)

// TextAcquirer yields normalized text for one document. Satisfied by
// *textract.Extractor; stubbed in tests.
type TextAcquirer interface {
	Acquire(ctx context.Context, path string) (textract.Result, error)
}

// Config holds aggregation behavior.
type Config struct {
	Workers    int           // <=1 means sequential
	DocTimeout time.Duration // per-document bound, 0 = none
}

type Aggregator struct {
	cfg       Config
	extractor TextAcquirer
	schema    *schema.Schema
	logger    *slog.Logger
}

func NewAggregator(cfg Config, ex TextAcquirer, s *schema.Schema, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if s == nil {
		s = schema.Default()
	}
	return &Aggregator{cfg: cfg, extractor: ex, schema: s, logger: logger}
}

// Process runs acquisition then resolution for every input. One document's
// failure is recorded against its file name and the rest of the batch goes
// on: N inputs with K failures yield N-K records. Deduplication runs once,
// after all documents complete, keeping the first occurrence in input order.
func (a *Aggregator) Process(ctx context.Context, inputs []Input) (Batch, []DocError) {
	results := make([]resolve.Fields, len(inputs))
	errs := make([]error, len(inputs))

	if a.cfg.Workers > 1 && len(inputs) > 1 {
		a.processPooled(ctx, inputs, results, errs)
	} else {
		for i, in := range inputs {
			results[i], errs[i] = a.processOne(ctx, in)
		}
	}

	var records []resolve.Fields
	var docErrs []DocError
	for i, in := range inputs {
		name := filepath.Base(in.Path)
		if errs[i] != nil {
			a.logger.Error("batch.doc.failed", "file", name, "error", errs[i])
			docErrs = append(docErrs, DocError{File: name, Err: errs[i]})
			continue
		}
		a.logger.Info("batch.doc.ok", "file", name, "fields", len(results[i]))
		records = append(records, results[i])
	}

	unique, dupes := dedupe(records)
	b := Batch{Records: unique, Stats: a.stats(inputs, len(records), dupes)}
	a.logger.Info("batch.done",
		"inputs", b.Stats.TotalInputs,
		"records", b.Stats.TotalRecords,
		"unique", b.Stats.UniqueRows,
		"duplicates", b.Stats.DuplicateRows,
		"failures", len(docErrs),
	)
	return b, docErrs
}

func (a *Aggregator) processOne(ctx context.Context, in Input) (resolve.Fields, error) {
	if a.cfg.DocTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.DocTimeout)
		defer cancel()
	}
	res, err := a.extractor.Acquire(ctx, in.Path)
	if err != nil {
		return nil, err
	}
	fields := resolve.Resolve(res.Text, a.schema)
	fields[schema.KeyFile] = filepath.Base(in.Path)
	return fields, nil
}

type docTask struct {
	idx     int
	ctx     context.Context
	input   Input
	results []resolve.Fields
	errs    []error
	wg      *sync.WaitGroup
}

// processPooled fans documents out over a bounded ants pool. Results land in
// slices indexed by input position, so final ordering stays the input order.
func (a *Aggregator) processPooled(ctx context.Context, inputs []Input, results []resolve.Fields, errs []error) {
	pool, err := ants.NewPoolWithFunc(a.cfg.Workers, func(arg any) {
		t, ok := arg.(*docTask)
		if !ok {
			return
		}
		defer t.wg.Done()
		t.results[t.idx], t.errs[t.idx] = a.processOne(t.ctx, t.input)
	})
	if err != nil {
		a.logger.Warn("worker pool unavailable, processing sequentially", "error", err)
		for i, in := range inputs {
			results[i], errs[i] = a.processOne(ctx, in)
		}
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		t := &docTask{idx: i, ctx: ctx, input: in, results: results, errs: errs, wg: &wg}
		if err := pool.Invoke(t); err != nil {
			errs[i] = err
			wg.Done()
		}
	}
	wg.Wait()
}

func (a *Aggregator) stats(inputs []Input, total, dupes int) Stats {
	s := Stats{
		TotalInputs:   len(inputs),
		ArchivePDFs:   map[string]int{},
		TotalRecords:  total,
		DuplicateRows: dupes,
		UniqueRows:    total - dupes,
	}
	for _, in := range inputs {
		switch in.Origin {
		case OriginArchive:
			s.ArchiveInputs++
			s.ArchivePDFs[in.Archive]++
		default:
			s.SingleInputs++
		}
	}
	return s
}
