package fixes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "powerplant.yaml"))
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "/src/NUClear/src/PowerPlant.cpp", doc.MainSourceFile)
	require.Len(t, doc.Diagnostics, 2)

	diag := doc.Diagnostics[1]
	assert.Equal(t, "modernize-use-nullptr", diag.DiagnosticName)
	assert.Equal(t, 310, diag.DiagnosticMessage.FileOffset)
	require.Len(t, diag.DiagnosticMessage.Replacements, 1)
	assert.Equal(t, "nullptr", diag.DiagnosticMessage.Replacements[0].ReplacementText)

	doc, err = Load(filepath.Join("testdata", "empty.yaml"))
	require.NoError(t, err)
	assert.Nil(t, doc)

	_, err = Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestCollect(t *testing.T) {
	files, err := Collect([]string{"testdata"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "empty.yaml"),
		filepath.Join("testdata", "powerplant.yaml"),
		filepath.Join("testdata", "reactor.yaml"),
	}, files)

	files, err = Collect([]string{filepath.Join("testdata", "reactor.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("testdata", "reactor.yaml")}, files)

	_, err = Collect([]string{filepath.Join("testdata", "missing")})
	assert.Error(t, err)
}

func TestMergeDeduplicates(t *testing.T) {
	files, err := Collect([]string{"testdata"})
	require.NoError(t, err)

	docs := []*Document{}
	for _, file := range files {
		doc, err := Load(file)
		require.NoError(t, err)
		docs = append(docs, doc)
	}

	merged := Merge(docs)
	require.Len(t, merged.Diagnostics, 2)
	assert.Equal(t, "readability-braces-around-statements", merged.Diagnostics[0].DiagnosticName)
	assert.Equal(t, "modernize-use-nullptr", merged.Diagnostics[1].DiagnosticName)
}

func TestWriteRoundTrip(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "powerplant.yaml"))
	require.NoError(t, err)

	dir := t.TempDir()
	out := filepath.Join(dir, "merged.yaml")
	require.NoError(t, Write(out, Merge([]*Document{doc})))

	back, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, doc.Diagnostics, back.Diagnostics)

	// no temporary files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
