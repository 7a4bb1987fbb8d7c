package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var levelColors = map[string]string{
	"trace": "[blue]",
	"debug": "[blue]",
	"info":  "[green]",
	"warn":  "[yellow]",
	"error": "[red]",
	"fatal": "[red]",
	"panic": "[red]",
}

// ConsoleWriter turns zerolog's JSON events into short coloured lines
type ConsoleWriter struct {
	Out io.Writer
	// Verbose appends every field of the event below the message
	Verbose bool

	buffer strings.Builder
	lock   sync.Mutex
}

// NewConsoleWriter returns a ConsoleWriter printing to out
func NewConsoleWriter(out io.Writer, verbose bool) *ConsoleWriter {
	return &ConsoleWriter{Out: out, Verbose: verbose}
}

// relativeTo replaces path in msg with its location relative to the working directory
func relativeTo(msg, path string) string {
	relPath, err := filepath.Rel(".", path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return msg
	}

	return strings.ReplaceAll(msg, path, relPath)
}

func (w *ConsoleWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	if err := d.Decode(&evt); err != nil {
		return 0, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	level, _ := evt[zerolog.LevelFieldName].(string)
	color, ok := levelColors[level]
	if !ok {
		color = levelColors["info"]
	}

	w.buffer.Reset()
	w.buffer.WriteString(color)
	w.buffer.WriteString("tidy: ")
	if color == levelColors["error"] {
		w.buffer.WriteString("Error: ")
	}

	msg, _ := evt[zerolog.MessageFieldName].(string)
	if path, ok := evt["path"].(string); ok {
		msg = relativeTo(msg, path)
	}
	w.buffer.WriteString(msg)

	if details, ok := evt[zerolog.ErrorFieldName]; ok {
		w.buffer.WriteString("\n")
		w.buffer.WriteString(fmt.Sprint(details))
	}

	if w.Verbose {
		names := make([]string, 0, len(evt))
		for name := range evt {
			names = append(names, name)
		}
		sort.Strings(names)

		w.buffer.WriteString("\n")
		for _, name := range names {
			fmt.Fprintf(&w.buffer, "  %s: %+v\n", name, evt[name])
		}
	}

	w.buffer.WriteString("[reset]\n")
	if _, err := colorstring.Fprint(w.Out, w.buffer.String()); err != nil {
		return 0, err
	}

	// zerolog treats short writes as errors
	return len(p), nil
}
