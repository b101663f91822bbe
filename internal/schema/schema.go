// Package schema holds the field-extraction pattern sets for bukti potong
// PPh 23 documents. New document layouts are supported by appending patterns
// to a field's list, not by branching code.
package schema

import "regexp"

// Reserved field names produced by the resolver. KeyFile is attached by the
// batch aggregator, not matched from text.
const (
	KeyNomorDokumen   = "Nomor Dokumen"
	KeyNomor          = "Nomor"
	KeyMasaPajak      = "Masa Pajak"
	KeyKodeObjekPajak = "Kode Objek Pajak"
	KeyNPWP           = "NPWP"
	KeyNamaPemotong   = "Nama Pemotong"
	KeyTanggal        = "Tanggal"
	KeyNITKU          = "NITKU"
	KeyPPH            = "PPH"
	KeyDPP            = "DPP"
	KeyTarif          = "Tarif"
	KeyFile           = "File"
)

// NomorLength is the expected length of a well-formed document number; a
// mismatch is a cheap detector for the alternate slip layout.
const NomorLength = 9

// Columns is the canonical column order for the tabular sink and for
// structural record equality.
var Columns = []string{
	KeyNomorDokumen,
	KeyNomor,
	KeyMasaPajak,
	KeyKodeObjekPajak,
	KeyNPWP,
	KeyNamaPemotong,
	KeyTanggal,
	KeyNITKU,
	KeyPPH,
	KeyDPP,
	KeyTarif,
	KeyFile,
}

// Field is one named field with its ordered fallback pattern list. Every
// pattern has exactly one capture group; the first pattern that matches wins.
type Field struct {
	Name     string
	Patterns []*regexp.Regexp
}

// TripleSpec locates the correlated (DPP, Tarif, PPH) table row. Each anchor
// pattern has exactly three capture groups in that order; anchors are tried
// in order and the first match wins for all three values together.
type TripleSpec struct {
	Anchors []*regexp.Regexp
}

// Schema is the full versioned pattern set. Fields are resolved in declared
// order; Fallback fields are only consulted when the primary result fails the
// layout-variant check (see resolve.Resolve).
type Schema struct {
	Version  int
	Fields   []Field
	Fallback []Field
	Triple   TripleSpec
}

// Default returns the built-in PPh 23 schema covering both observed slip
// layout variants.
func Default() *Schema {
	return &Schema{
		Version: 2,
		Fields: []Field{
			{Name: KeyNomorDokumen, Patterns: compile(
				`Nomor Dokumen\s*:\s*:?\s*([\w\s/-]+?)(?:\s*\d{1,2}\s+[A-Za-z]+\s+\d{4}|$)`,
				`B\.9\s+Nomor Dokumen\s*:\s*([\w/-]+)`,
			)},
			{Name: KeyNomor, Patterns: compile(
				`NOMOR\s*([\w\d]+)`,
				`PEMUNGUTAN\s+PPh\s+PEMUNGUTAN\s+([A-Z0-9]+)`,
			)},
			{Name: KeyMasaPajak, Patterns: compile(
				`MASA PAJAK\s*([\d-]+)`,
				`PEMUNGUTAN\s+PPh\s+PEMUNGUTAN\s+[A-Z0-9]+\s+([\d-]+)\s+TIDAK FINAL`,
			)},
			{Name: KeyKodeObjekPajak, Patterns: compile(
				`B\.7\s+(24-\d{3}-\d{2})`,
				`B\.\d+\s+([\d-]+)\s+`,
			)},
			{Name: KeyNPWP, Patterns: compile(
				`NPWP / NIK\s*:\s*(\d+)`,
				`C\.1\s+NPWP / NIK\s*:\s*(\d+)\s+C\.2`,
			)},
			{Name: KeyNamaPemotong, Patterns: compile(
				`C\.3\s+NAMA PEMOTONG DAN/ATAU PEMUNGUT PPH\s*:\s*(.*?)\s*C\.4`,
			)},
			{Name: KeyTanggal, Patterns: compile(
				`C\.4\s+TANGGAL\s*:\s*(\d+\s+[A-Za-z]+\s+\d+)`,
				`C\.4\s+TANGGAL\s*:\s*(.*?)\s+C\.5`,
			)},
			{Name: KeyNITKU, Patterns: compile(
				`NITKU\s*:?\s*(\d{16,22})`,
			)},
		},
		Fallback: []Field{
			{Name: KeyNomor, Patterns: compile(
				`PEMUNGUTAN\s+PPh\s+PEMUNGUTAN\s+([A-Z0-9]+)`,
			)},
			{Name: KeyNamaPemotong, Patterns: compile(
				`C\.3\s+NAMA PEMOTONG DAN/ATAU PEMUNGUT\s+PPh\s*:\s*(.*?)\s+C\.4`,
			)},
		},
		Triple: TripleSpec{
			Anchors: compile(
				`24-\d{3}-\d{2}.*?UU PPh\.\s*([\d.,]+)\s*(\d+)\s*([\d.,]+)`,
				`24-\d{3}-\d{2}\s+Jasa Perantara dan/atau Keagenan\s+([\d.,]+)\s+(\d+)\s+([\d.,]+)`,
			),
		},
	}
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}
