package tidy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
)

// Defaults used by New
const (
	DefaultCacheEnv    = "CTCACHE_DIR"
	DefaultCacheSubdir = "cache"
	DefaultFixesFlag   = "--export-fixes"
)

// ExitError carries the exit code of the analysis run up to main
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("analysis exited with status %d", e.Code)
}

// Invocation describes a single run of the analysis tool through the caching proxy
type Invocation struct {
	OutputDir  string
	IgnoreFile string
	Proxy      string
	Tool       string
	Args       []string

	// CacheEnv names the environment variable the proxy reads its cache location from
	CacheEnv    string
	CacheSubdir string
	FixesFlag   string

	// Env is the environment the child inherits. nil means os.Environ().
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Invocation with the default cache and fixes settings
func New(outputDir, ignoreFile, proxy, tool string, args []string) *Invocation {
	return &Invocation{
		OutputDir:   outputDir,
		IgnoreFile:  ignoreFile,
		Proxy:       proxy,
		Tool:        tool,
		Args:        args,
		CacheEnv:    DefaultCacheEnv,
		CacheSubdir: DefaultCacheSubdir,
		FixesFlag:   DefaultFixesFlag,
	}
}

// FromArgs parses <output dir> <ignore file> <proxy> <tool> [tool args...]
func FromArgs(args []string) (*Invocation, error) {
	if len(args) < 4 {
		return nil, eris.Errorf("Expected at least 4 arguments but got %d!", len(args))
	}

	return New(args[0], args[1], args[2], args[3], args[4:]), nil
}

// AddArgs appends extra analysis arguments. They are inserted before a standalone -- so they
// don't end up on the compiler command line.
func (inv *Invocation) AddArgs(extra ...string) {
	if len(extra) == 0 {
		return
	}

	args := make([]string, 0, len(inv.Args)+len(extra))
	pos := len(inv.Args)
	for idx, arg := range inv.Args {
		if arg == "--" {
			pos = idx
			break
		}
	}

	args = append(args, inv.Args[:pos]...)
	args = append(args, extra...)
	inv.Args = append(args, inv.Args[pos:]...)
}

// FixesPath returns the file the tool exports its fixes to
func (inv *Invocation) FixesPath() string {
	return filepath.Join(inv.OutputDir, FixesKey(inv.Args)+FixesExt)
}

func (inv *Invocation) environ() []string {
	if inv.Env == nil {
		return os.Environ()
	}
	return inv.Env
}

func envName(name string) string {
	if runtime.GOOS == "windows" {
		return strings.ToUpper(name)
	}
	return name
}

func lookupEnv(env []string, name string) (string, bool) {
	name = envName(name)
	value := ""
	found := false
	for _, item := range env {
		parts := strings.SplitN(item, "=", 2)
		if len(parts) == 2 && envName(parts[0]) == name {
			value = parts[1]
			found = true
		}
	}

	return value, found
}

// CacheDir returns the proxy's cache directory. If the cache variable is unset or empty it
// defaults to a subdirectory of the output directory.
func (inv *Invocation) CacheDir() string {
	value, ok := lookupEnv(inv.environ(), inv.CacheEnv)
	if ok && value != "" {
		return value
	}

	return filepath.Join(inv.OutputDir, inv.CacheSubdir)
}

// ChildEnv returns the environment for the proxy with the cache variable set
func (inv *Invocation) ChildEnv() []string {
	env := inv.environ()
	name := envName(inv.CacheEnv)
	result := make([]string, 0, len(env)+1)
	for _, item := range env {
		parts := strings.SplitN(item, "=", 2)

		// skip the overriden entry to avoid conflicts
		if envName(parts[0]) != name {
			result = append(result, item)
		}
	}

	return append(result, fmt.Sprintf("%s=%s", inv.CacheEnv, inv.CacheDir()))
}

// Prepare creates the output and cache directories and removes fixes left over by a previous run
func (inv *Invocation) Prepare(ctx context.Context) error {
	for _, dir := range []string{inv.OutputDir, inv.CacheDir()} {
		if err := os.MkdirAll(dir, 0o770); err != nil {
			return eris.Wrapf(err, "Failed to create %s", dir)
		}
	}

	fixesPath := inv.FixesPath()
	err := os.Remove(fixesPath)
	if err != nil && !eris.Is(err, os.ErrNotExist) {
		log(ctx).Warn().Err(err).Str("path", fixesPath).Msg("Could not delete stale fixes")
	} else if err == nil {
		log(ctx).Debug().Str("path", fixesPath).Msg("Removed stale fixes")
	}

	return nil
}

// Ignored reports whether one of the translation units matches the ignore file. The matched
// unit is returned as well.
func (inv *Invocation) Ignored() (bool, string, error) {
	ignores, err := LoadIgnoreList(inv.IgnoreFile)
	if err != nil {
		return false, "", err
	}

	if len(ignores) == 0 {
		return false, "", nil
	}

	for _, src := range SourceArgs(inv.Args) {
		if ignores.Match(src) != "" {
			return true, src, nil
		}
	}

	return false, "", nil
}

// Command builds the proxy command line: proxy tool --export-fixes=<fixes> args...
func (inv *Invocation) Command(ctx context.Context) *exec.Cmd {
	args := make([]string, 0, len(inv.Args)+2)
	args = append(args, inv.Tool, inv.FixesFlag+"="+inv.FixesPath())
	args = append(args, inv.Args...)

	cmd := exec.CommandContext(ctx, inv.Proxy, args...)
	cmd.Env = inv.ChildEnv()
	cmd.Stdin = inv.Stdin
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	return cmd
}

// Run prepares the output directory and runs the tool through the proxy. The returned code is
// the child's exit code; an error means the child could not be run at all.
func (inv *Invocation) Run(ctx context.Context) (int, error) {
	if err := inv.Prepare(ctx); err != nil {
		return 1, err
	}

	ignored, src, err := inv.Ignored()
	if err != nil {
		return 1, err
	}
	if ignored {
		log(ctx).Info().Str("path", src).Msgf("Skipping %s because it matches %s", src, inv.IgnoreFile)
		log(ctx).Debug().Str("path", src).Int("code", 0).Msg("Analysis not started, reporting exit status 0")
		return 0, nil
	}

	cmd := inv.Command(ctx)
	log(ctx).Debug().Strs("args", cmd.Args).Str("cache", inv.CacheDir()).Msg("Running analysis")

	err = cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// killed by a signal
			code = 1
		}
		return code, nil
	}

	return 1, eris.Wrapf(err, "Failed to run %s", inv.Proxy)
}
