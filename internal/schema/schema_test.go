package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultShape(t *testing.T) {
	s := Default()
	require.NotEmpty(t, s.Fields)
	require.NotEmpty(t, s.Fallback)
	require.NotEmpty(t, s.Triple.Anchors)

	for _, f := range s.Fields {
		assert.NotEmpty(t, f.Patterns, "field %q has no patterns", f.Name)
		for _, re := range f.Patterns {
			assert.Equal(t, 1, re.NumSubexp(), "field %q pattern %q", f.Name, re)
		}
	}
	for _, f := range s.Fallback {
		for _, re := range f.Patterns {
			assert.Equal(t, 1, re.NumSubexp(), "fallback %q pattern %q", f.Name, re)
		}
	}
	for _, re := range s.Triple.Anchors {
		assert.Equal(t, 3, re.NumSubexp(), "anchor %q", re)
	}
}

func TestDefaultCoversReservedKeys(t *testing.T) {
	s := Default()
	names := map[string]bool{}
	for _, f := range s.Fields {
		names[f.Name] = true
	}
	for _, key := range []string{KeyNomorDokumen, KeyNomor, KeyMasaPajak, KeyKodeObjekPajak, KeyNPWP, KeyNamaPemotong, KeyTanggal} {
		assert.True(t, names[key], "missing field %q", key)
	}
}

func writeSchemaFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeSchemaFile(t, `{
		"version": 3,
		"fields": [
			{"name": "Nomor", "patterns": ["NOMOR\\s*([\\w\\d]+)"]}
		],
		"fallback": [
			{"name": "Nomor", "patterns": ["ALT\\s*(\\w+)"]}
		],
		"triple": {"anchors": ["ROW\\s+([\\d.,]+)\\s+(\\d+)\\s+([\\d.,]+)"]}
	}`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Version)
	require.Len(t, s.Fields, 1)
	assert.Equal(t, "Nomor", s.Fields[0].Name)
	require.Len(t, s.Triple.Anchors, 1)
}

func TestLoadDefaultsTripleWhenOmitted(t *testing.T) {
	path := writeSchemaFile(t, `{
		"version": 3,
		"fields": [{"name": "Nomor", "patterns": ["NOMOR\\s*(\\w+)"]}]
	}`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, len(Default().Triple.Anchors), len(s.Triple.Anchors))
}

func TestLoadRejectsMissingVersion(t *testing.T) {
	path := writeSchemaFile(t, `{"fields": [{"name": "a", "patterns": ["(x)"]}]}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadRegexp(t *testing.T) {
	path := writeSchemaFile(t, `{
		"version": 1,
		"fields": [{"name": "a", "patterns": ["(unclosed"]}]
	}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsWrongGroupCount(t *testing.T) {
	path := writeSchemaFile(t, `{
		"version": 1,
		"fields": [{"name": "a", "patterns": ["no capture group"]}]
	}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
