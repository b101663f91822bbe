package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taxkit/bupot-extractor/internal/common"
)

// ParseAmount converts a locale-formatted amount (e.g. "1.000.000" or
// "1,234,567") into integral currency units. Thousands grouping dots are
// stripped before the decimal comma is discarded; a value like "1.234.567"
// would otherwise be misparsed. Fractional parts are not retained.
func ParseAmount(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	if !isDigits(s) {
		return 0, common.NewAppError("NUMERIC_FORMAT", fmt.Sprintf("not a numeric amount %q", raw), common.ErrNumericFormat)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, common.NewAppError("NUMERIC_FORMAT", fmt.Sprintf("amount out of range %q", raw),
			fmt.Errorf("%w: %w", common.ErrNumericFormat, err))
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
