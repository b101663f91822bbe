package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		path string
		want InputKind
	}{
		{"bukti.pdf", KindPDF},
		{"BUKTI.PDF", KindPDF},
		{"slips.zip", KindZip},
		{"slips.rar", KindRar},
		{"slips.tar", KindTar},
		{"slips.tar.gz", KindTar},
		{"slips.tgz", KindTar},
		{"notes.txt", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPath(tt.path))
		})
	}
}

func TestIsArchiveKind(t *testing.T) {
	assert.True(t, IsArchiveKind(KindZip))
	assert.True(t, IsArchiveKind(KindRar))
	assert.True(t, IsArchiveKind(KindTar))
	assert.False(t, IsArchiveKind(KindPDF))
	assert.False(t, IsArchiveKind(KindUnknown))
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "pdf", NormalizeExt(".PDF"))
	assert.Equal(t, "zip", NormalizeExt("zip"))
}
