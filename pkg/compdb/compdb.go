// Package compdb handles clang compilation databases (compile_commands.json).
package compdb

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/shell"
)

// Entry is a single translation unit in a compilation database
type Entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	Output    string   `json:"output,omitempty"`
}

// Args returns the compiler command line. Databases written with "command" are split using
// shell quoting rules.
func (e Entry) Args() ([]string, error) {
	if len(e.Arguments) > 0 {
		return e.Arguments, nil
	}

	args, err := shell.Fields(e.Command, func(string) string { return "" })
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse command for %s", e.File)
	}

	return args, nil
}

// CompilerFlags returns the compiler arguments without the compiler itself, the output file and
// the translation unit, as expected after -- on a clang-tidy command line.
func (e Entry) CompilerFlags() ([]string, error) {
	args, err := e.Args()
	if err != nil {
		return nil, err
	}

	result := []string{}
	src := e.SourcePath()
	for idx := 1; idx < len(args); idx++ {
		arg := args[idx]
		switch {
		case arg == "-o":
			idx++
		case arg == "-c" || arg == e.File || arg == src:
		default:
			result = append(result, arg)
		}
	}

	return result, nil
}

// SourcePath returns the absolute path of the translation unit
func (e Entry) SourcePath() string {
	if filepath.IsAbs(e.File) {
		return filepath.Clean(e.File)
	}

	return filepath.Join(e.Directory, e.File)
}

// Load reads a compilation database. Assumes that only absolute paths are used for directories.
func Load(file string) ([]Entry, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read %s", file)
	}

	var entries []Entry
	err = json.Unmarshal(data, &entries)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to decode %s", file)
	}

	return entries, nil
}

// Merge loads several compilation databases and concatenates their entries. Later databases
// replace entries for the same source file.
func Merge(files []string) ([]Entry, error) {
	output := make([]Entry, 0)
	index := make(map[string]int)

	for _, fpath := range files {
		chunk, err := Load(fpath)
		if err != nil {
			return nil, err
		}

		for _, entry := range chunk {
			src := entry.SourcePath()
			if pos, ok := index[src]; ok {
				output[pos] = entry
				continue
			}

			index[src] = len(output)
			output = append(output, entry)
		}
	}

	return output, nil
}

// Write stores entries as a compilation database
func Write(file string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return eris.Wrap(err, "failed to encode output")
	}

	err = os.WriteFile(file, data, 0o660)
	if err != nil {
		return eris.Wrapf(err, "failed to write to %s", file)
	}

	return nil
}
