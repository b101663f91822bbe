package batch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taxkit/bupot-extractor/internal/resolve"
)

// dedupe removes structurally equal records, keeping the first occurrence in
// original order, and returns the duplicate count. Equality covers every
// field including File: identical field maps from two different source files
// are both retained.
func dedupe(records []resolve.Fields) ([]resolve.Fields, int) {
	seen := make(map[string]struct{}, len(records))
	unique := make([]resolve.Fields, 0, len(records))
	dupes := 0
	for _, r := range records {
		k := recordKey(r)
		if _, ok := seen[k]; ok {
			dupes++
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, r)
	}
	return unique, dupes
}

// recordKey builds a canonical string over all present fields. Absent keys
// are distinguishable from empty values.
func recordKey(r resolve.Fields) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('\x01')
		fmt.Fprintf(&b, "%v", r[k])
		b.WriteByte('\x02')
	}
	return b.String()
}
