// Package branch determines the active source-control branch for a build.
//
// Resolution walks a fixed chain: CI pull-request signals first, then the
// generic CI ref, then a git probe of the current checkout, then a static
// default. Branch detection must never abort environment assembly, so probe
// failures are mapped to "no signal" rather than propagated.
package branch

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/envbuilder/internal/logfields"
)

// DefaultBranch is the static fallback when no other signal is available.
const DefaultBranch = "main"

// Environment signals consumed, in precedence order.
const (
	envTravisPullRequestBranch = "TRAVIS_PULL_REQUEST_BRANCH"
	envGithubHeadRef           = "GITHUB_HEAD_REF"
	envGithubRef               = "GITHUB_REF"
)

// branchRefPrefix marks a branch-shaped ref; tags and other ref kinds fall
// through to the git probe.
const branchRefPrefix = "refs/heads/"

// remotePrefix is stripped from remote-tracking branch names in probe output.
const remotePrefix = "remotes/origin/"

// detachedSentinel is git's marker for a detached HEAD in branch listings.
const detachedSentinel = "(no branch)"

// Source identifies which step of the chain produced a branch.
type Source string

const (
	SourceTravisPR      Source = "travis_pr"
	SourceGithubHeadRef Source = "github_head_ref"
	SourceGithubRef     Source = "github_ref"
	SourceGitProbe      Source = "git_probe"
	SourceDefault       Source = "default"
)

// ProbeFunc lists branches containing the current checkout position.
// It returns the raw output lines of the version-control tool.
type ProbeFunc func(ctx context.Context, dir string) ([]string, error)

// Resolver resolves the active branch from CI signals, git state, and a
// static fallback, in that order.
type Resolver struct {
	dir   string // directory probed for git state; empty means cwd
	probe ProbeFunc
}

// NewResolver creates a Resolver probing git state in dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: dir, probe: gitBranchProbe}
}

// WithProbe overrides the version-control probe (fluent helper, used in tests).
func (r *Resolver) WithProbe(p ProbeFunc) *Resolver { r.probe = p; return r }

// Resolve returns the active branch name. It never fails; every step in the
// chain degrades to the next, ending at DefaultBranch.
func (r *Resolver) Resolve(ctx context.Context) (string, Source) {
	if b := os.Getenv(envTravisPullRequestBranch); b != "" {
		slog.Info("Found branch from Travis PR signal", logfields.Branch(b))
		return b, SourceTravisPR
	}

	// GITHUB_HEAD_REF is only set for pull_request events. When present the
	// checkout is a detached synthetic merge ref, so the head ref names the
	// branch being merged from and takes precedence over GITHUB_REF.
	if b := os.Getenv(envGithubHeadRef); b != "" {
		slog.Info("Found branch from GitHub head ref", logfields.Branch(b))
		return b, SourceGithubHeadRef
	}
	if ref := os.Getenv(envGithubRef); ref != "" {
		if strings.HasPrefix(ref, branchRefPrefix) {
			b := strings.TrimPrefix(ref, branchRefPrefix)
			slog.Info("Found branch from GitHub ref", logfields.Branch(b))
			return b, SourceGithubRef
		}
		// Not branch-shaped (a tag or merge ref); keep going.
		slog.Debug("GitHub ref is not a branch ref", slog.String("ref", ref))
	}

	lines, err := r.probe(ctx, r.dir)
	if err != nil {
		// Suppressed by contract: a missing tool or non-repository directory
		// means "no signal", not a failed assembly.
		slog.Debug("Branch probe produced no signal", logfields.Error(err))
	} else if b, ok := pickBranch(lines); ok {
		slog.Info("Working in branch", logfields.Branch(b))
		return b, SourceGitProbe
	}

	slog.Info("No branch signal found, using default", logfields.Branch(DefaultBranch))
	return DefaultBranch, SourceDefault
}

// pickBranch selects a branch from `git branch -a --contains HEAD` output.
// The currently checked-out branch carries a leading '*'; a detached HEAD is
// listed as the "(no branch)" sentinel and never selected.
func pickBranch(lines []string) (string, bool) {
	var branches []string
	var current string
	for _, line := range lines {
		name := strings.TrimSpace(strings.TrimLeft(line, "* \t"))
		if name == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "*") && current == "" {
			if name != detachedSentinel {
				current = name
			}
		}
		branches = append(branches, name)
	}

	if current != "" {
		return current, true
	}

	// Detached HEAD: take the first listed branch (a fresh CI sync has
	// exactly one), stripping the remote-tracking prefix.
	for _, b := range branches {
		if b == detachedSentinel {
			continue
		}
		return strings.TrimPrefix(b, remotePrefix), true
	}
	return "", false
}
