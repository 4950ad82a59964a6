// Package download materializes unresolved project references by cloning
// their upstream repositories.
package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	builderrors "git.home.luguber.info/inful/envbuilder/internal/errors"
	"git.home.luguber.info/inful/envbuilder/internal/logfields"
	"git.home.luguber.info/inful/envbuilder/internal/metrics"
	"git.home.luguber.info/inful/envbuilder/internal/project"
	"git.home.luguber.info/inful/envbuilder/internal/retry"
)

// DefaultRemoteBase is where bare project names are fetched from when the
// reference carries no upstream URL of its own.
const DefaultRemoteBase = "https://github.com/awslabs"

// Client clones project sources with retry for transient network failures.
type Client struct {
	remoteBase   string
	shallowDepth int
	policy       retry.Policy
	dryRun       bool
}

// NewClient creates a downloader fetching bare names from remoteBase.
// An empty remoteBase uses DefaultRemoteBase.
func NewClient(remoteBase string) *Client {
	if remoteBase == "" {
		remoteBase = DefaultRemoteBase
	}
	return &Client{remoteBase: remoteBase, policy: retry.DefaultPolicy()}
}

// WithShallowDepth limits clone history (fluent helper).
func (c *Client) WithShallowDepth(depth int) *Client { c.shallowDepth = depth; return c }

// WithPolicy overrides the retry policy (fluent helper).
func (c *Client) WithPolicy(p retry.Policy) *Client { c.policy = p; return c }

// WithDryRun suppresses the actual clone while still logging it.
func (c *Client) WithDryRun(dryRun bool) *Client { c.dryRun = dryRun; return c }

// Download clones the project's upstream at the given branch into
// dest/<name>. On success the project is resolvable under dest.
func (c *Client) Download(ctx context.Context, p *project.Project, branch, dest string) error {
	url := p.Upstream()
	if url == "" {
		url = fmt.Sprintf("%s/%s.git", strings.TrimSuffix(c.remoteBase, "/"), p.Name)
	}
	target := filepath.Join(dest, p.Name)

	slog.Info("Downloading project", logfields.Project(p.Name), logfields.URL(url),
		logfields.Branch(branch), logfields.Path(target))
	if c.dryRun {
		return nil
	}

	err := c.withRetry(ctx, p.Name, func() error {
		return c.cloneOnce(ctx, url, branch, target)
	})
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return builderrors.DownloadFailed(p.Name, err)
	}
	metrics.DownloadsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return nil
}

func (c *Client) cloneOnce(ctx context.Context, url, branch, target string) error {
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to remove existing directory: %w", err)
	}

	opts := &git.CloneOptions{URL: url}
	if branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
		opts.SingleBranch = true
	}
	if c.shallowDepth > 0 {
		opts.Depth = c.shallowDepth
	}

	_, err := git.PlainCloneContext(ctx, target, false, opts)
	if err != nil && branch != "" && isMissingReference(err) {
		// The requested branch does not exist upstream; fall back to the
		// remote's default branch.
		slog.Warn("Branch not found upstream, cloning default branch",
			logfields.URL(url), logfields.Branch(branch))
		opts.ReferenceName = ""
		opts.SingleBranch = false
		_, err = git.PlainCloneContext(ctx, target, false, opts)
	}
	if err != nil {
		return classifyCloneError(url, err)
	}
	return nil
}

// withRetry retries transient failures per the client's policy.
func (c *Client) withRetry(ctx context.Context, name string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("Retrying download", logfields.Project(name), logfields.Attempt(attempt))
			select {
			case <-time.After(c.policy.Delay(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTransient(err) {
			return err
		}
	}
	return fmt.Errorf("download failed after retries: %w", lastErr)
}
