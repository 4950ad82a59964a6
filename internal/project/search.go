package project

import "slices"

// SearchContext is the ordered set of directories consulted when resolving
// a project by name. It is owned by the assembler and appended to as new
// directories become known; order matters, first match wins.
type SearchContext struct {
	dirs []string
}

// NewSearchContext creates a context with the given initial directories.
func NewSearchContext(dirs ...string) *SearchContext {
	c := &SearchContext{}
	c.Append(dirs...)
	return c
}

// Append adds directories to the end of the search order, skipping ones
// already present.
func (c *SearchContext) Append(dirs ...string) {
	for _, d := range dirs {
		if d == "" || slices.Contains(c.dirs, d) {
			continue
		}
		c.dirs = append(c.dirs, d)
	}
}

// Dirs returns a copy of the search order.
func (c *SearchContext) Dirs() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.dirs)
}
