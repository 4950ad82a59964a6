// Package env assembles the build environment for a resolved project:
// source directory, merged configuration, derived build/deps/install
// directories, and the environment-variable side effects downstream build
// steps depend on.
package env

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/envbuilder/internal/branch"
	"git.home.luguber.info/inful/envbuilder/internal/download"
	builderrors "git.home.luguber.info/inful/envbuilder/internal/errors"
	"git.home.luguber.info/inful/envbuilder/internal/logfields"
	"git.home.luguber.info/inful/envbuilder/internal/metrics"
	"git.home.luguber.info/inful/envbuilder/internal/project"
	"git.home.luguber.info/inful/envbuilder/internal/shell"
	"git.home.luguber.info/inful/envbuilder/internal/vars"
)

// Downloader fetches an unresolved project reference so it becomes
// resolvable at or under dest.
type Downloader interface {
	Download(ctx context.Context, p *project.Project, branchName, dest string) error
}

// BranchResolver determines the active source-control branch.
type BranchResolver interface {
	Resolve(ctx context.Context) (string, branch.Source)
}

// Options configures one environment assembly. The zero value assembles the
// project discoverable from the working directory on the resolved branch.
type Options struct {
	Project   string            // name or path reference; empty discovers a default
	Branch    string            // explicit branch; empty triggers resolution
	Variant   string            // configuration variant to overlay
	CLIConfig map[string]string // highest-precedence configuration overrides
	DryRun    bool              // suppress filesystem/process side effects

	Source     *project.Project // pre-resolved project, skips name lookup
	Shell      *shell.Shell     // defaults to a new shell in the working directory
	Downloader Downloader       // defaults to download.NewClient("")
	Branches   BranchResolver   // defaults to branch.NewResolver("")
	Publisher  vars.Publisher   // defaults to publishing BUILDER_* process variables
}

// Environment is the assembled result. Once RootDir is set, all derived
// directories are absolute.
type Environment struct {
	RunID        string
	Branch       string
	BranchSource branch.Source
	Project      *project.Project
	Config       *project.Configuration
	Variables    *vars.Store
	Scope        *project.SearchContext
	Shell        *shell.Shell

	LaunchDir  string
	RootDir    string
	BuildDir   string
	DepsDir    string
	InstallDir string
}

// Resolved reports whether the assembly produced a buildable environment.
// An unresolved environment is the "nothing to build" outcome, not an error.
func (e *Environment) Resolved() bool {
	return e != nil && e.Project.Resolved()
}

// goos is swapped in tests to exercise the platform-conditional path logic.
var goos = runtime.GOOS

// Assemble builds the environment. The only fatal failures are a project
// that stays unresolved after a reported-successful download and malformed
// configuration; an undiscoverable project returns an unresolved
// Environment with a nil error.
func Assemble(ctx context.Context, opts Options) (*Environment, error) {
	e, err := assemble(ctx, opts)
	switch {
	case err != nil:
		metrics.AssembliesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	case !e.Resolved():
		metrics.AssembliesTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
	default:
		metrics.AssembliesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	}
	return e, err
}

func assemble(ctx context.Context, opts Options) (*Environment, error) {
	e := &Environment{RunID: uuid.NewString()}
	slog.Info("Assembling build environment", logfields.RunID(e.RunID))

	// Branch: explicit wins, otherwise walk the resolution chain.
	if opts.Branch != "" {
		e.Branch, e.BranchSource = opts.Branch, "explicit"
		slog.Info("Using explicit branch", logfields.Branch(e.Branch))
	} else {
		resolver := opts.Branches
		if resolver == nil {
			resolver = branch.NewResolver("")
		}
		e.Branch, e.BranchSource = resolver.Resolve(ctx)
		metrics.BranchSourceTotal.WithLabelValues(string(e.BranchSource)).Inc()
	}

	// Shell and search scope, rooted at the launch directory.
	sh := opts.Shell
	if sh == nil {
		var err error
		if sh, err = shell.New(opts.DryRun); err != nil {
			return nil, builderrors.WorkspaceError("init", err)
		}
	}
	e.Shell = sh

	launchDir, err := filepath.Abs(sh.Cwd())
	if err != nil {
		return nil, builderrors.WorkspaceError("abs", err)
	}
	e.LaunchDir = launchDir
	e.Scope = project.NewSearchContext(launchDir)

	publisher := opts.Publisher
	if publisher == nil {
		publisher = processPublisher(sh)
	}
	e.Variables = vars.NewStore(publisher)

	if err := e.resolveProject(ctx, opts); err != nil {
		return nil, err
	}
	if !e.Project.Resolved() {
		// Nothing to build: no project requested and none discoverable.
		// Terminal but not fatal, and no build directory side effects.
		slog.Info("No project resolved, nothing to build", logfields.RunID(e.RunID))
		return e, nil
	}

	if err := e.buildConfig(opts); err != nil {
		return nil, err
	}
	if err := e.deriveDirectories(); err != nil {
		return nil, err
	}
	if err := e.exportSearchPaths(); err != nil {
		return nil, err
	}
	if err := e.prepareBuildDir(); err != nil {
		return nil, err
	}

	// Later build actions resolve dependencies through these too.
	e.Scope.Append(e.BuildDir, e.RootDir, e.DepsDir)
	return e, nil
}

// resolveProject settles e.Project: a supplied object, the discoverable
// default, or a find with download fallback.
func (e *Environment) resolveProject(ctx context.Context, opts Options) error {
	if opts.Source != nil {
		e.Project = opts.Source
		return nil
	}
	if opts.Project == "" {
		p, err := project.DefaultProject(e.Scope)
		if err != nil {
			return err
		}
		e.Project = p
		return nil
	}

	p, err := project.Find(opts.Project, nil, e.Scope)
	if err != nil {
		return err
	}
	if !p.Resolved() {
		slog.Info("Project could not be found locally, downloading",
			logfields.Project(p.Name), logfields.Branch(e.Branch))
		dl := e.downloader(opts)
		if err := dl.Download(ctx, p, e.Branch, e.LaunchDir); err != nil {
			return err
		}
		p, err = project.Find(p.Name, []string{e.LaunchDir}, e.Scope)
		if err != nil {
			return err
		}
		if !p.Resolved() {
			// The downloader reported success but left nothing resolvable.
			return builderrors.ProjectUnresolvedAfterDownload(p.Name)
		}
	}
	e.Project = p
	return nil
}

func (e *Environment) downloader(opts Options) Downloader {
	if opts.Downloader != nil {
		return opts.Downloader
	}
	return download.NewClient("").WithDryRun(opts.DryRun)
}

// buildConfig selects the variant and merges base, overlay, and CLI
// overrides into the read-only configuration.
func (e *Environment) buildConfig(opts Options) error {
	if err := e.Project.UseVariant(opts.Variant); err != nil {
		return err
	}
	cfg, err := e.Project.GetConfig(opts.CLIConfig)
	if err != nil {
		return err
	}
	e.Config = cfg
	return nil
}

// deriveDirectories computes and publishes root, build, deps, and install
// directories, in that dependency order, and switches to the source root.
func (e *Environment) deriveDirectories() error {
	rootDir, err := filepath.Abs(e.Project.Path)
	if err != nil {
		return builderrors.WorkspaceError("abs", err)
	}
	e.RootDir = rootDir
	if err := e.Variables.Set("root_dir", rootDir); err != nil {
		return err
	}
	if err := e.Shell.Cd(rootDir); err != nil {
		return builderrors.WorkspaceError("cd", err)
	}

	e.BuildDir = absAgainst(rootDir, e.Config.Get(project.KeyBuildDir, filepath.Join(rootDir, "build")))
	if err := e.Variables.Set("build_dir", e.BuildDir); err != nil {
		return err
	}

	e.DepsDir = absAgainst(rootDir, e.Config.Get(project.KeyDepsDir, filepath.Join(e.BuildDir, "deps")))
	if err := e.Variables.Set("deps_dir", e.DepsDir); err != nil {
		return err
	}

	e.InstallDir = absAgainst(rootDir, e.Config.Get(project.KeyInstallDir, filepath.Join(e.BuildDir, "install")))
	if err := e.Variables.Set("install_dir", e.InstallDir); err != nil {
		return err
	}

	slog.Info("Root directory", logfields.Dir(e.RootDir))
	slog.Info("Build directory", logfields.Dir(e.BuildDir))
	return nil
}

// exportSearchPaths mutates the platform search-path variable so downstream
// tests can find shared libraries and binaries the build will install.
func (e *Environment) exportSearchPaths() error {
	if goos == "windows" {
		return e.Shell.PrependPathEnv("PATH", filepath.Join(e.InstallDir, "bin"))
	}
	if err := e.Shell.PrependPathEnv("LD_LIBRARY_PATH", filepath.Join(e.InstallDir, "lib64")); err != nil {
		return err
	}
	return e.Shell.PrependPathEnv("LD_LIBRARY_PATH", filepath.Join(e.InstallDir, "lib"))
}

// prepareBuildDir destroys and recreates the build directory, exactly once
// per assembly.
func (e *Environment) prepareBuildDir() error {
	if err := e.Shell.Rm(e.BuildDir); err != nil {
		return builderrors.WorkspaceError("rm", err)
	}
	if err := e.Shell.Mkdir(e.BuildDir); err != nil {
		return builderrors.WorkspaceError("mkdir", err)
	}
	return nil
}

// processPublisher mirrors variables into the process environment as
// BUILDER_<KEY> so spawned build steps inherit them.
func processPublisher(sh *shell.Shell) vars.Publisher {
	return vars.PublisherFunc(func(key, value string) error {
		return sh.Setenv("BUILDER_"+strings.ToUpper(key), value)
	})
}

// absAgainst makes p absolute, resolving relative paths against base.
func absAgainst(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
