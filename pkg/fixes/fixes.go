// Package fixes reads and merges the YAML files clang-tidy writes with --export-fixes.
package fixes

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type Replacement struct {
	FilePath        string `yaml:"FilePath"`
	Offset          int    `yaml:"Offset"`
	Length          int    `yaml:"Length"`
	ReplacementText string `yaml:"ReplacementText"`
}

type Range struct {
	FilePath   string `yaml:"FilePath"`
	FileOffset int    `yaml:"FileOffset"`
	Length     int    `yaml:"Length"`
}

type Message struct {
	Message      string        `yaml:"Message"`
	FilePath     string        `yaml:"FilePath"`
	FileOffset   int           `yaml:"FileOffset"`
	Replacements []Replacement `yaml:"Replacements"`
	Ranges       []Range       `yaml:"Ranges,omitempty"`
}

type Diagnostic struct {
	DiagnosticName    string    `yaml:"DiagnosticName"`
	DiagnosticMessage Message   `yaml:"DiagnosticMessage"`
	Notes             []Message `yaml:"Notes,omitempty"`
	Level             string    `yaml:"Level"`
	BuildDirectory    string    `yaml:"BuildDirectory"`
}

// Document is the content of a single fixes file
type Document struct {
	MainSourceFile string       `yaml:"MainSourceFile"`
	Diagnostics    []Diagnostic `yaml:"Diagnostics"`
}

func (d *Diagnostic) key() string {
	msg := d.DiagnosticMessage
	parts := []string{d.DiagnosticName, msg.Message, msg.FilePath, fmt.Sprint(msg.FileOffset)}
	for _, r := range msg.Replacements {
		parts = append(parts, fmt.Sprintf("%s:%d:%d:%s", r.FilePath, r.Offset, r.Length, r.ReplacementText))
	}

	return strings.Join(parts, "\x00")
}

// Load parses a fixes file. Empty files yield a nil document.
func Load(file string) (*Document, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read %s", file)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	doc := &Document{}
	err = yaml.Unmarshal(data, doc)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to decode %s", file)
	}

	return doc, nil
}

// Collect expands the passed paths into a list of fixes files. Directories contribute their
// *.yaml files in lexical order.
func Collect(paths []string) ([]string, error) {
	result := []string{}
	for _, item := range paths {
		info, err := os.Stat(item)
		if err != nil {
			return nil, eris.Wrapf(err, "Could not stat %s", item)
		}

		if !info.IsDir() {
			result = append(result, item)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(item, "*.yaml"))
		if err != nil {
			return nil, eris.Wrapf(err, "Failed to list %s", item)
		}

		sort.Strings(matches)
		result = append(result, matches...)
	}

	return result, nil
}

// Merge combines the diagnostics of all documents. Identical diagnostics reported by several
// translation units (usually from shared headers) are only kept once.
func Merge(docs []*Document) *Document {
	result := &Document{Diagnostics: []Diagnostic{}}
	seen := make(map[string]bool)

	for _, doc := range docs {
		if doc == nil {
			continue
		}

		for _, diag := range doc.Diagnostics {
			key := diag.key()
			if seen[key] {
				continue
			}

			seen[key] = true
			result.Diagnostics = append(result.Diagnostics, diag)
		}
	}

	return result
}

// Write stores doc at file. The data is written to a temporary file first and then moved into
// place so readers never see a partial file.
func Write(file string, doc *Document) error {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	err := encoder.Encode(doc)
	if err != nil {
		return eris.Wrap(err, "failed to encode fixes")
	}

	err = encoder.Close()
	if err != nil {
		return eris.Wrap(err, "failed to encode fixes")
	}
	buf.WriteString("...\n")

	tmpFile := fmt.Sprintf("%s.%s.tmp", file, nanoid.New())
	err = os.WriteFile(tmpFile, buf.Bytes(), 0o660)
	if err != nil {
		return eris.Wrapf(err, "failed to write to %s", tmpFile)
	}

	err = os.Rename(tmpFile, file)
	if err != nil {
		os.Remove(tmpFile)
		return eris.Wrapf(err, "failed to move %s to %s", tmpFile, file)
	}

	return nil
}
