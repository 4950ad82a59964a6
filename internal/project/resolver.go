package project

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	builderrors "git.home.luguber.info/inful/envbuilder/internal/errors"
	"git.home.luguber.info/inful/envbuilder/internal/logfields"
)

// Find locates a project by name or path. A nameOrPath containing path
// separators is split: the directory portion becomes an additional hint
// (absolutized) and the final segment is the bare name used for matching.
// Searched in order: the split hint, the supplied hints, then the scope.
// No match anywhere returns an unresolved Project, never an error.
func Find(nameOrPath string, hints []string, scope *SearchContext) (*Project, error) {
	name, splitHints := splitRef(nameOrPath)

	var dirs []string
	dirs = append(dirs, splitHints...)
	dirs = append(dirs, hints...)
	dirs = append(dirs, scope.Dirs()...)

	for _, dir := range dirs {
		p, err := matchInDir(dir, name)
		if err != nil {
			return nil, err
		}
		if p != nil {
			slog.Info("Found project", logfields.Project(p.Name), logfields.Path(p.Path))
			return p, nil
		}
	}

	slog.Debug("Project not found locally", logfields.Project(name))
	return NewRef(name), nil
}

// DefaultProject discovers the single project reachable from the scope,
// principally the launch directory. Zero discoverable projects return an
// unresolved empty reference; more than one is a deterministic error naming
// the candidates.
func DefaultProject(scope *SearchContext) (*Project, error) {
	type candidate struct {
		name string
		path string
	}
	seen := make(map[string]candidate)

	for _, dir := range scope.Dirs() {
		if defPath, ok := findDefinition(dir); ok {
			def, err := LoadDefinition(defPath)
			if err != nil {
				return nil, err
			}
			seen[dir] = candidate{name: def.Name, path: dir}
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			sub := filepath.Join(dir, e.Name())
			if defPath, ok := findDefinition(sub); ok {
				def, err := LoadDefinition(defPath)
				if err != nil {
					return nil, err
				}
				seen[sub] = candidate{name: def.Name, path: sub}
			}
		}
	}

	if len(seen) == 0 {
		slog.Debug("No project discoverable in search scope")
		return &Project{}, nil
	}
	if len(seen) > 1 {
		var names []string
		for _, c := range seen {
			names = append(names, c.name)
		}
		sort.Strings(names)
		return nil, builderrors.ProjectAmbiguous(strings.Join(scope.Dirs(), string(os.PathListSeparator)), names)
	}

	for _, c := range seen {
		return resolveAt(c.path, c.name)
	}
	return &Project{}, nil // unreachable
}

// splitRef splits a name-or-path reference into the bare project name and
// any path-derived hints.
func splitRef(nameOrPath string) (string, []string) {
	parts := strings.Split(nameOrPath, string(os.PathSeparator))
	if len(parts) <= 1 {
		return nameOrPath, nil
	}
	joined := filepath.Join(parts...)
	if strings.HasPrefix(nameOrPath, string(os.PathSeparator)) {
		joined = string(os.PathSeparator) + joined
	}
	abs, err := filepath.Abs(joined)
	if err != nil {
		return parts[len(parts)-1], nil
	}
	return parts[len(parts)-1], []string{abs}
}

// matchInDir checks whether dir contains the named project, either directly
// or as an immediate subdirectory of that name.
func matchInDir(dir, name string) (*Project, error) {
	if defPath, ok := findDefinition(dir); ok {
		def, err := LoadDefinition(defPath)
		if err != nil {
			return nil, err
		}
		if def.Name == name {
			return newResolved(dir, def)
		}
	}

	sub := filepath.Join(dir, name)
	if _, ok := findDefinition(sub); ok {
		return resolveAt(sub, name)
	}
	return nil, nil
}

// resolveAt loads the definition in dir and returns a resolved Project.
func resolveAt(dir, name string) (*Project, error) {
	defPath, ok := findDefinition(dir)
	if !ok {
		return NewRef(name), nil
	}
	def, err := LoadDefinition(defPath)
	if err != nil {
		return nil, err
	}
	return newResolved(dir, def)
}

func newResolved(dir string, def *Definition) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, builderrors.WorkspaceError("abs", err)
	}
	return &Project{Name: def.Name, Path: abs, def: def}, nil
}
