package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	builderrors "git.home.luguber.info/inful/envbuilder/internal/errors"
)

// Definition file names probed in each searched directory.
var definitionFileNames = []string{"builder.yaml", "builder.yml"}

// Definition is the on-disk project description (builder.yaml).
type Definition struct {
	Name     string                    `yaml:"name"`
	Upstream string                    `yaml:"upstream,omitempty"`
	Config   map[string]any            `yaml:"config,omitempty"`
	Variants map[string]map[string]any `yaml:"variants,omitempty"`
}

// LoadDefinition parses a builder.yaml file. Environment variables in the
// file body are expanded before parsing. The project name defaults to the
// containing directory's base name when omitted.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project definition: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var def Definition
	if err := yaml.Unmarshal([]byte(expanded), &def); err != nil {
		return nil, builderrors.ProjectDefinitionInvalid(path, err)
	}
	if def.Name == "" {
		def.Name = filepath.Base(filepath.Dir(path))
	}
	return &def, nil
}

// findDefinition returns the definition file path inside dir, if any.
func findDefinition(dir string) (string, bool) {
	for _, name := range definitionFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
