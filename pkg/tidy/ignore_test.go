package tidy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIgnoreList(t *testing.T) {
	list, err := LoadIgnoreList("")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = LoadIgnoreList(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, list)

	file := filepath.Join(t.TempDir(), "ignore")
	require.NoError(t, os.WriteFile(file, []byte("# generated code\n\n  *.pb.cc  \nthird_party/\n"), 0o660))
	list, err = LoadIgnoreList(file)
	require.NoError(t, err)
	assert.Equal(t, IgnoreList{"*.pb.cc", "third_party/"}, list)

	require.NoError(t, os.WriteFile(file, []byte("[broken\n"), 0o660))
	_, err = LoadIgnoreList(file)
	assert.Error(t, err)
}

func TestIgnoreListMatch(t *testing.T) {
	list := IgnoreList{"*.pb.cc", "third_party/", "src/extension/trace/*.cpp"}

	tests := []struct {
		path string
		want string
	}{
		{"message.pb.cc", "*.pb.cc"},
		{"/build/generated/message.pb.cc", "*.pb.cc"},
		{"/src/third_party/fmt/format.cc", "third_party/"},
		{"third_party/x.cpp", "third_party/"},
		{"/repo/src/extension/trace/protobuf.cpp", "src/extension/trace/*.cpp"},
		{"/repo/src/extension/trace/sub/protobuf.cpp", ""},
		{"/repo/src/PowerPlant.cpp", ""},
		// a file named like the directory pattern is not a directory
		{"/repo/third_party", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, list.Match(tt.path))
		})
	}
}

func TestSourceArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"plain", []string{"a.cpp", "b.cpp"}, []string{"a.cpp", "b.cpp"}},
		{"build dir", []string{"-p", "build", "a.cpp"}, []string{"a.cpp"}},
		{"joined value", []string{"-p=build", "--checks=-*", "a.cpp"}, []string{"a.cpp"}},
		{"separate value", []string{"--checks", "-*,readability-*", "a.cpp"}, []string{"a.cpp"}},
		{"compiler args", []string{"--quiet", "a.cpp", "--", "g++", "-c", "b.cpp"}, []string{"a.cpp"}},
		{"none", []string{"--version"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceArgs(tt.args))
		})
	}
}
