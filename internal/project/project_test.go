package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	builderrors "git.home.luguber.info/inful/envbuilder/internal/errors"
)

const variantDefinition = `name: sample
upstream: https://example.com/sample.git
config:
  build_dir: out
  cmake_args: -DFOO=1
variants:
  debug:
    build_dir: out-debug
    debug_symbols: "true"
`

func loadSample(t *testing.T) *Project {
	t.Helper()
	base := t.TempDir()
	writeProject(t, base, "sample", variantDefinition)
	p, err := Find("sample", nil, NewSearchContext(base))
	require.NoError(t, err)
	require.True(t, p.Resolved())
	return p
}

func TestProject_Upstream(t *testing.T) {
	p := loadSample(t)
	require.Equal(t, "https://example.com/sample.git", p.Upstream())
	require.Empty(t, NewRef("x").Upstream())
}

func TestProject_UseVariantUnknown(t *testing.T) {
	p := loadSample(t)
	err := p.UseVariant("nope")
	require.Error(t, err)
	require.True(t, builderrors.IsCategory(err, builderrors.CategoryConfig))

	require.NoError(t, p.UseVariant(""))
	require.NoError(t, p.UseVariant("debug"))
}

func TestProject_GetConfigPrecedence(t *testing.T) {
	p := loadSample(t)

	// Base only.
	cfg, err := p.GetConfig(nil)
	require.NoError(t, err)
	require.Equal(t, "out", cfg.BuildDir)
	require.Equal(t, "-DFOO=1", cfg.Get("cmake_args", ""))
	require.Empty(t, cfg.DepsDir)

	// Variant overlays base.
	require.NoError(t, p.UseVariant("debug"))
	cfg, err = p.GetConfig(nil)
	require.NoError(t, err)
	require.Equal(t, "out-debug", cfg.BuildDir)
	require.Equal(t, "true", cfg.Get("debug_symbols", ""))

	// CLI overrides beat the variant.
	cfg, err = p.GetConfig(map[string]string{"build_dir": "cli-out", "extra_key": "v"})
	require.NoError(t, err)
	require.Equal(t, "cli-out", cfg.BuildDir)
	require.Equal(t, "v", cfg.Get("extra_key", ""))
}

func TestProject_GetConfigUnresolved(t *testing.T) {
	_, err := NewRef("ghost").GetConfig(nil)
	require.Error(t, err)
}

func TestConfiguration_GetDefault(t *testing.T) {
	cfg := newConfiguration(map[string]string{"deps_dir": "/d"})
	require.Equal(t, "/d", cfg.Get("deps_dir", "fallback"))
	require.Equal(t, "fallback", cfg.Get("build_dir", "fallback"))
	require.Equal(t, "fallback", cfg.Get("unknown", "fallback"))
	require.True(t, cfg.Has("deps_dir"))
	require.False(t, cfg.Has("install_dir"))
}

func TestLoadDefinition_NameDefaultsToDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "implied")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, "builder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("config:\n  build_dir: b\n"), 0o600))

	def, err := LoadDefinition(path)
	require.NoError(t, err)
	require.Equal(t, "implied", def.Name)
}

func TestLoadDefinition_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SAMPLE_BUILD_DIR", "/expanded/build")
	dir := filepath.Join(t.TempDir(), "envexp")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, "builder.yaml")
	body := "name: envexp\nconfig:\n  build_dir: ${SAMPLE_BUILD_DIR}\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	def, err := LoadDefinition(path)
	require.NoError(t, err)
	require.Equal(t, "/expanded/build", def.Config["build_dir"])
}
