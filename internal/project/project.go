package project

import (
	builderrors "git.home.luguber.info/inful/envbuilder/internal/errors"
)

// Project is a software project known by name and, once resolved, by its
// on-disk location. An unresolved Project (empty Path) is a reference that
// still needs to be fetched.
type Project struct {
	Name string
	Path string // absolute location; empty means not yet materialized

	def     *Definition
	variant string
}

// NewRef creates an unresolved Project reference.
func NewRef(name string) *Project {
	return &Project{Name: name}
}

// Resolved reports whether the project points at an existing definition.
func (p *Project) Resolved() bool {
	return p != nil && p.Path != "" && p.def != nil
}

// Upstream returns the project's configured upstream URL, if known.
func (p *Project) Upstream() string {
	if p == nil || p.def == nil {
		return ""
	}
	return p.def.Upstream
}

// UseVariant selects the named configuration variant. An empty name keeps
// the base configuration. Selecting a variant the definition does not
// declare is a configuration error.
func (p *Project) UseVariant(name string) error {
	if name == "" {
		p.variant = ""
		return nil
	}
	if p.def == nil {
		return builderrors.VariantUnknown(p.Name, name)
	}
	if _, ok := p.def.Variants[name]; !ok {
		return builderrors.VariantUnknown(p.Name, name)
	}
	p.variant = name
	return nil
}

// GetConfig builds the merged Configuration: project base, then the selected
// variant overlay, then cliOverrides with the highest precedence.
func (p *Project) GetConfig(cliOverrides map[string]string) (*Configuration, error) {
	if !p.Resolved() {
		return nil, builderrors.New(builderrors.CategoryProject, builderrors.SeverityFatal,
			"cannot build configuration for unresolved project").WithContext("project", p.Name)
	}

	merged := make(map[string]string)
	for k, v := range flatten(p.def.Config) {
		merged[k] = v
	}
	if p.variant != "" {
		for k, v := range flatten(p.def.Variants[p.variant]) {
			merged[k] = v
		}
	}
	for k, v := range cliOverrides {
		merged[k] = v
	}
	return newConfiguration(merged), nil
}
