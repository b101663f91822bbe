package textract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"already normalized", "NOMOR AB12CD34E MASA PAJAK 01-2024", "NOMOR AB12CD34E MASA PAJAK 01-2024"},
		{"newlines collapse", "NOMOR\nAB12CD34E\r\nMASA PAJAK", "NOMOR AB12CD34E MASA PAJAK"},
		{"runs collapse", "a  \t b\n\n\nc", "a b c"},
		{"leading and trailing", "  padded \n", "padded"},
		{"form feed page break", "page one\n\f\npage two", "page one page two"},
		{"whitespace only", " \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"NOMOR\nAB12CD34E\t\tMASA  PAJAK",
		"  a  b  c  ",
		"single",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}
