package constants

import "strings"

// InputKind classifies a raw input before expansion.
type InputKind string

// Stable values (reported in batch stats).
const (
	KindPDF     InputKind = "PDF"
	KindZip     InputKind = "ZIP"
	KindRar     InputKind = "RAR"
	KindTar     InputKind = "TAR"
	KindUnknown InputKind = ""
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ClassifyPath maps a file path to its input kind by extension.
func ClassifyPath(path string) InputKind {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return KindPDF
	case strings.HasSuffix(lower, ".zip"):
		return KindZip
	case strings.HasSuffix(lower, ".rar"):
		return KindRar
	case strings.HasSuffix(lower, ".tar"), strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return KindTar
	default:
		return KindUnknown
	}
}

// IsArchiveKind reports whether the kind needs expansion before processing.
func IsArchiveKind(k InputKind) bool {
	return k == KindZip || k == KindRar || k == KindTar
}
