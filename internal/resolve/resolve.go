// Package resolve turns normalized slip text into a field map using the
// ordered pattern sets in the schema package.
package resolve

import (
	"log/slog"
	"strings"

	"github.com/taxkit/bupot-extractor/internal/schema"
)

// Fields maps field name -> extracted value: string for text fields, int64
// for the numeric triple. A field with no matching pattern is absent from the
// map, never zero or empty.
type Fields map[string]any

// String returns the named field as a string, or "" when absent or non-string.
func (f Fields) String(key string) string {
	v, ok := f[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Resolve runs the primary pattern pass, then a bounded fallback pass for the
// layout-variant fields, then the numeric triple. The input text must already
// be normalized (single-space separators, no newlines).
func Resolve(text string, s *schema.Schema) Fields {
	fields := Fields{}
	for _, field := range s.Fields {
		if v, ok := matchFirst(text, field); ok {
			fields[field.Name] = v
		}
	}
	fields = applyFallback(text, s, fields)
	resolveTriple(text, s.Triple, fields)
	return fields
}

// matchFirst applies a field's pattern list in order; the first pattern that
// matches wins and later patterns are not attempted.
func matchFirst(text string, field schema.Field) (string, bool) {
	for _, re := range field.Patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// applyFallback re-resolves the two layout-variant fields against the
// alternate phrasing, per field: a document number of unexpected length only
// retries the number, a missing name only retries the name. It returns a new
// map and leaves the primary result untouched on a fallback miss.
func applyFallback(text string, s *schema.Schema, primary Fields) Fields {
	needs := map[string]bool{
		schema.KeyNomor:        len(primary.String(schema.KeyNomor)) != schema.NomorLength,
		schema.KeyNamaPemotong: primary.String(schema.KeyNamaPemotong) == "",
	}

	out := make(Fields, len(primary))
	for k, v := range primary {
		out[k] = v
	}
	for _, field := range s.Fallback {
		if !needs[field.Name] {
			continue
		}
		if v, ok := matchFirst(text, field); ok {
			out[field.Name] = v
		}
	}
	return out
}

// resolveTriple captures (DPP, Tarif, PPH) as one correlated group from the
// first matching anchor. The three values only make sense as a tuple from the
// same table row, so a parse failure leaves all of them absent.
func resolveTriple(text string, t schema.TripleSpec, fields Fields) {
	for _, re := range t.Anchors {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		dpp, err := ParseAmount(m[1])
		if err != nil {
			slog.Warn("triple dpp unparseable", "raw", m[1], "error", err)
			return
		}
		tarif, err := ParseAmount(m[2])
		if err != nil {
			slog.Warn("triple tarif unparseable", "raw", m[2], "error", err)
			return
		}
		pph, err := ParseAmount(m[3])
		if err != nil {
			slog.Warn("triple pph unparseable", "raw", m[3], "error", err)
			return
		}
		fields[schema.KeyDPP] = dpp
		fields[schema.KeyTarif] = tarif
		fields[schema.KeyPPH] = pph
		return
	}
}
