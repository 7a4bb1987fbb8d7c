package compdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryArgs(t *testing.T) {
	entries, err := Load(filepath.Join("testdata", "a.json"))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	args, err := entries[1].Args()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/usr/bin/c++", "-DNUCLEAR", `-DNAME="nuclear tests"`, "-o", "Reactor.cpp.o", "-c", "../src/Reactor.cpp",
	}, args)

	flags, err := entries[1].CompilerFlags()
	require.NoError(t, err)
	assert.Equal(t, []string{"-DNUCLEAR", `-DNAME="nuclear tests"`}, flags)

	broken := Entry{File: "x.cpp", Command: `c++ "unterminated`}
	_, err = broken.Args()
	assert.Error(t, err)
}

func TestSourcePath(t *testing.T) {
	entries, err := Load(filepath.Join("testdata", "a.json"))
	require.NoError(t, err)

	assert.Equal(t, "/src/NUClear/src/PowerPlant.cpp", entries[0].SourcePath())
	assert.Equal(t, "/src/NUClear/src/Reactor.cpp", entries[1].SourcePath())
}

func TestMergeReplacesDuplicates(t *testing.T) {
	entries, err := Merge([]string{filepath.Join("testdata", "a.json"), filepath.Join("testdata", "b.json")})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// b.json redefines PowerPlant.cpp in place
	assert.Equal(t, "PowerPlant.o", entries[0].Output)
	assert.Equal(t, "../src/Reactor.cpp", entries[1].File)
	assert.Equal(t, "/src/NUClear/tests/api/Every.cpp", entries[2].File)

	flags, err := entries[0].CompilerFlags()
	require.NoError(t, err)
	assert.Equal(t, []string{"-O2"}, flags)
}

func TestWriteLoad(t *testing.T) {
	entries, err := Load(filepath.Join("testdata", "b.json"))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "compile_commands.json")
	require.NoError(t, Write(out, entries))

	back, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, entries, back)

	_, err = Load(filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)
}
