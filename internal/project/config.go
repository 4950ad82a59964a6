package project

import (
	"fmt"
	"sort"
)

// Recognized configuration keys with typed fields on Configuration.
const (
	KeyBuildDir   = "build_dir"
	KeyDepsDir    = "deps_dir"
	KeyInstallDir = "install_dir"
)

// Configuration is the merged, read-only project configuration. The
// recognized directory keys get typed fields; everything else is carried in
// a pass-through overlay consulted by Get.
type Configuration struct {
	BuildDir   string
	DepsDir    string
	InstallDir string

	extra map[string]string
}

func newConfiguration(merged map[string]string) *Configuration {
	cfg := &Configuration{extra: make(map[string]string)}
	for k, v := range merged {
		switch k {
		case KeyBuildDir:
			cfg.BuildDir = v
		case KeyDepsDir:
			cfg.DepsDir = v
		case KeyInstallDir:
			cfg.InstallDir = v
		default:
			cfg.extra[k] = v
		}
	}
	return cfg
}

// Get returns the value for key, or def when the key is absent or empty.
func (c *Configuration) Get(key, def string) string {
	var v string
	switch key {
	case KeyBuildDir:
		v = c.BuildDir
	case KeyDepsDir:
		v = c.DepsDir
	case KeyInstallDir:
		v = c.InstallDir
	default:
		v = c.extra[key]
	}
	if v == "" {
		return def
	}
	return v
}

// Has reports whether key carries a non-empty value.
func (c *Configuration) Has(key string) bool {
	return c.Get(key, "") != ""
}

// Keys returns all non-empty keys in sorted order.
func (c *Configuration) Keys() []string {
	var keys []string
	for _, k := range []string{KeyBuildDir, KeyDepsDir, KeyInstallDir} {
		if c.Get(k, "") != "" {
			keys = append(keys, k)
		}
	}
	for k := range c.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// flatten converts a yaml scalar map into string values.
func flatten(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}
