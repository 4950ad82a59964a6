package branch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearSignals(t *testing.T) {
	t.Helper()
	t.Setenv(envTravisPullRequestBranch, "")
	t.Setenv(envGithubHeadRef, "")
	t.Setenv(envGithubRef, "")
}

func failingProbe(context.Context, string) ([]string, error) {
	return nil, fmt.Errorf("not a git repository")
}

func fixedProbe(lines ...string) ProbeFunc {
	return func(context.Context, string) ([]string, error) { return lines, nil }
}

func TestResolve_DefaultWhenNoSignals(t *testing.T) {
	clearSignals(t)
	r := NewResolver(t.TempDir()).WithProbe(failingProbe)

	b, src := r.Resolve(context.Background())
	require.Equal(t, DefaultBranch, b)
	require.Equal(t, SourceDefault, src)
}

func TestResolve_TravisPRBranchWinsOverEverything(t *testing.T) {
	clearSignals(t)
	t.Setenv(envTravisPullRequestBranch, "feature-x")
	t.Setenv(envGithubHeadRef, "other")
	t.Setenv(envGithubRef, "refs/heads/main")
	r := NewResolver("").WithProbe(fixedProbe("* develop"))

	b, src := r.Resolve(context.Background())
	require.Equal(t, "feature-x", b)
	require.Equal(t, SourceTravisPR, src)
}

func TestResolve_GithubHeadRefBeatsRef(t *testing.T) {
	clearSignals(t)
	t.Setenv(envGithubHeadRef, "pr-source")
	t.Setenv(envGithubRef, "refs/heads/main")
	r := NewResolver("").WithProbe(failingProbe)

	b, src := r.Resolve(context.Background())
	require.Equal(t, "pr-source", b)
	require.Equal(t, SourceGithubHeadRef, src)
}

func TestResolve_GithubRefBranchShaped(t *testing.T) {
	clearSignals(t)
	t.Setenv(envGithubRef, "refs/heads/main")
	r := NewResolver("").WithProbe(failingProbe)

	b, src := r.Resolve(context.Background())
	require.Equal(t, "main", b)
	require.Equal(t, SourceGithubRef, src)
}

func TestResolve_GithubRefTagFallsThrough(t *testing.T) {
	clearSignals(t)
	t.Setenv(envGithubRef, "refs/tags/v1")
	r := NewResolver("").WithProbe(fixedProbe("* release-1.2"))

	b, src := r.Resolve(context.Background())
	require.Equal(t, "release-1.2", b)
	require.Equal(t, SourceGitProbe, src)
}

func TestResolve_ProbeErrorFallsToDefault(t *testing.T) {
	clearSignals(t)
	r := NewResolver("").WithProbe(failingProbe)

	b, src := r.Resolve(context.Background())
	require.Equal(t, DefaultBranch, b)
	require.Equal(t, SourceDefault, src)
}

func TestPickBranch(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
		ok    bool
	}{
		{
			name:  "current branch marked",
			lines: []string{"  main", "* feature", "  remotes/origin/main", ""},
			want:  "feature",
			ok:    true,
		},
		{
			name:  "detached head picks first listed",
			lines: []string{"* (no branch)", "  remotes/origin/release", ""},
			want:  "release",
			ok:    true,
		},
		{
			name:  "remote prefix stripped only without current",
			lines: []string{"  remotes/origin/v1-branch"},
			want:  "v1-branch",
			ok:    true,
		},
		{
			name:  "empty output",
			lines: []string{""},
			want:  "",
			ok:    false,
		},
		{
			name:  "only sentinel",
			lines: []string{"* (no branch)"},
			want:  "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickBranch(tt.lines)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
