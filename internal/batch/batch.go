// Package batch drives text acquisition and field resolution over a set of
// documents, isolating per-document failures and deduplicating the result.
package batch

import (
	"github.com/taxkit/bupot-extractor/internal/resolve"
)

// Origin says where a document came from.
type Origin string

const (
	OriginSingle  Origin = "single"
	OriginArchive Origin = "archive"
)

// Input is one document to process. Archive carries the source archive's base
// name when the document was unpacked from one.
type Input struct {
	Path    string
	Origin  Origin
	Archive string
}

// DocError records one document's failure without aborting the batch.
type DocError struct {
	File string
	Err  error
}

// Stats are the observability counters for one extraction run.
type Stats struct {
	TotalInputs   int
	SingleInputs  int
	ArchiveInputs int
	// ArchivePDFs counts how many documents each archive contributed.
	ArchivePDFs   map[string]int
	TotalRecords  int
	DuplicateRows int
	UniqueRows    int
}

// Batch is the finalized, deduplicated record collection for one run, in
// original input order.
type Batch struct {
	Records []resolve.Fields
	Stats   Stats
}
