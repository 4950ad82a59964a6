// Package shell provides a virtual shell that abstracts away dry runs and
// tracks working-directory and environment state for the assembly pipeline.
//
// In dry-run mode filesystem and environment side effects are suppressed but
// every operation still logs the command it would have run and reports
// success, so a dry assembly produces the same decision trail as a real one.
package shell

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Shell tracks cwd and environment mutations, honoring dry-run mode.
type Shell struct {
	cwd      string   // simulated working directory for dry runs
	dirStack []string // pushd/popd stack
	envStack []map[string]string
	dryRun   bool
}

// New creates a Shell rooted at the process working directory.
func New(dryRun bool) (*Shell, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	return &Shell{cwd: wd, dryRun: dryRun}, nil
}

// DryRun reports whether side effects are suppressed.
func (s *Shell) DryRun() bool { return s.dryRun }

// Cwd returns the current working directory, accounting for dry runs.
func (s *Shell) Cwd() string {
	if s.dryRun {
		return s.cwd
	}
	wd, err := os.Getwd()
	if err != nil {
		return s.cwd
	}
	return wd
}

func (s *Shell) chdir(dir string) error {
	if s.dryRun {
		if filepath.IsAbs(dir) || strings.HasPrefix(dir, "$") {
			s.cwd = dir
		} else {
			s.cwd = filepath.Join(s.cwd, dir)
		}
		return nil
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("failed to change directory: %w", err)
	}
	s.cwd = dir
	return nil
}

// Cd changes the working directory.
func (s *Shell) Cd(dir string) error {
	logCommand("cd", dir)
	return s.chdir(dir)
}

// Pushd is equivalent to bash/zsh pushd.
func (s *Shell) Pushd(dir string) error {
	logCommand("pushd", dir)
	s.dirStack = append(s.dirStack, s.Cwd())
	return s.chdir(dir)
}

// Popd is equivalent to bash/zsh popd. No-op on an empty stack.
func (s *Shell) Popd() error {
	if len(s.dirStack) == 0 {
		return nil
	}
	top := s.dirStack[len(s.dirStack)-1]
	logCommand("popd", top)
	if err := s.chdir(top); err != nil {
		return err
	}
	s.dirStack = s.dirStack[:len(s.dirStack)-1]
	return nil
}

// Mkdir is equivalent to mkdir -p.
func (s *Shell) Mkdir(dir string) error {
	logCommand("mkdir", "-p", dir)
	if s.dryRun {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// MkTemp makes and returns the path to a temp directory.
func (s *Shell) MkTemp() (string, error) {
	if s.dryRun {
		return os.ExpandEnv("$TMPDIR/build"), nil
	}
	dir, err := os.MkdirTemp("", "envbuilder-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	return dir, nil
}

// Rm removes a file or directory recursively. Absent paths are not an error.
func (s *Shell) Rm(path string) error {
	logCommand("rm", "-rf", path)
	if s.dryRun {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// Setenv sets an environment variable.
func (s *Shell) Setenv(name, value string) error {
	logCommand("export", fmt.Sprintf("%s=%s", name, value))
	if s.dryRun {
		return nil
	}
	if err := os.Setenv(name, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", name, err)
	}
	return nil
}

// Getenv gets an environment variable, or def when unset.
func (s *Shell) Getenv(name, def string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return def
}

// AddPathEnv appends a path to a PATH-style environment variable.
func (s *Shell) AddPathEnv(name, path string) error {
	prev := os.Getenv(name)
	value := path
	if prev != "" {
		value = prev + string(os.PathListSeparator) + path
	}
	return s.Setenv(name, value)
}

// PrependPathEnv prepends a path to a PATH-style environment variable so it
// takes precedence over existing entries.
func (s *Shell) PrependPathEnv(name, path string) error {
	prev := os.Getenv(name)
	value := path
	if prev != "" {
		value = path + string(os.PathListSeparator) + prev
	}
	return s.Setenv(name, value)
}

// PushEnv stores the current environment on a stack for restoration later.
func (s *Shell) PushEnv() {
	logCommand("pushenv")
	snapshot := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			snapshot[kv[:i]] = kv[i+1:]
		}
	}
	s.envStack = append(s.envStack, snapshot)
}

// PopEnv restores the environment to the state on the top of the stack.
func (s *Shell) PopEnv() error {
	if len(s.envStack) == 0 {
		return fmt.Errorf("environment stack is empty")
	}
	logCommand("popenv")
	saved := s.envStack[len(s.envStack)-1]
	s.envStack = s.envStack[:len(s.envStack)-1]
	if s.dryRun {
		return nil
	}
	// clear out values that won't be overwritten
	for _, kv := range os.Environ() {
		name := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			name = kv[:i]
		}
		if _, ok := saved[name]; !ok {
			_ = os.Unsetenv(name)
		}
	}
	for name, value := range saved {
		if err := os.Setenv(name, value); err != nil {
			return fmt.Errorf("failed to restore %s: %w", name, err)
		}
	}
	return nil
}

func logCommand(args ...string) {
	slog.Debug("shell", slog.String("cmd", strings.Join(args, " ")))
}
