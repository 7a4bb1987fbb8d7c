package tidy

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// IgnoreList holds glob patterns for translation units that shouldn't be analysed.
type IgnoreList []string

// clang-tidy options which take their value as the next argument
var valueFlags = map[string]bool{
	"p":                true,
	"checks":           true,
	"config":           true,
	"config-file":      true,
	"header-filter":    true,
	"line-filter":      true,
	"export-fixes":     true,
	"extra-arg":        true,
	"extra-arg-before": true,
}

// LoadIgnoreList reads one pattern per line from file. Blank lines and lines starting with #
// are skipped. A missing file (or an empty path) yields an empty list.
func LoadIgnoreList(file string) (IgnoreList, error) {
	if file == "" {
		return nil, nil
	}

	handle, err := os.Open(file)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "failed to open ignore file %s", file)
	}
	defer handle.Close()

	result := IgnoreList{}
	scanner := bufio.NewScanner(handle)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if _, err := path.Match(filepath.ToSlash(line), ""); err != nil {
			return nil, eris.Wrapf(err, "invalid pattern %q in %s", line, file)
		}
		result = append(result, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "failed to read ignore file %s", file)
	}

	return result, nil
}

// Match returns the first pattern matching the given path or "" if none does.
// A pattern matches if it matches the whole path or any trailing run of its components.
// Patterns ending in / only match directories containing the path.
func (l IgnoreList) Match(file string) string {
	parts := strings.Split(filepath.ToSlash(filepath.Clean(file)), "/")

	for _, pattern := range l {
		pattern = filepath.ToSlash(pattern)
		dirOnly := strings.HasSuffix(pattern, "/")
		pattern = strings.TrimSuffix(pattern, "/")

		for start := range parts {
			if dirOnly {
				for end := start + 1; end < len(parts); end++ {
					if matchParts(pattern, parts[start:end]) {
						return pattern + "/"
					}
				}
				continue
			}

			if matchParts(pattern, parts[start:]) {
				return pattern
			}
		}
	}

	return ""
}

func matchParts(pattern string, parts []string) bool {
	ok, err := path.Match(pattern, strings.Join(parts, "/"))
	return err == nil && ok
}

// SourceArgs picks the translation units out of a clang-tidy argument list.
// Everything after a standalone -- belongs to the compiler and is skipped.
func SourceArgs(args []string) []string {
	result := []string{}
	skipNext := false

	for _, arg := range args {
		if skipNext {
			skipNext = false
			continue
		}

		if arg == "--" {
			break
		}

		if strings.HasPrefix(arg, "-") {
			name := strings.TrimLeft(arg, "-")
			if !strings.Contains(name, "=") && valueFlags[name] {
				skipNext = true
			}
			continue
		}

		result = append(result, arg)
	}

	return result
}
