package download

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"

	builderrors "git.home.luguber.info/inful/envbuilder/internal/errors"
)

// classifyCloneError wraps go-git errors into typed categories so callers
// can branch on them without string parsing.
func classifyCloneError(url string, err error) error {
	if builderrors.Is(err, transport.ErrAuthenticationRequired) || builderrors.Is(err, transport.ErrAuthorizationFailed) {
		return builderrors.Wrap(err, builderrors.CategoryGit, builderrors.SeverityFatal, "authentication failed").
			WithContext("url", url)
	}
	if builderrors.Is(err, transport.ErrRepositoryNotFound) {
		return builderrors.Wrap(err, builderrors.CategoryGit, builderrors.SeverityFatal, "repository not found").
			WithContext("url", url)
	}

	l := strings.ToLower(err.Error())
	if strings.Contains(l, "rate limit") || strings.Contains(l, "too many requests") {
		return builderrors.WrapRetryable(err, builderrors.CategoryNetwork, builderrors.SeverityWarning, "rate limited").
			WithContext("url", url)
	}
	if strings.Contains(l, "timeout") || strings.Contains(l, "i/o timeout") ||
		strings.Contains(l, "connection refused") || strings.Contains(l, "connection reset") {
		return builderrors.WrapRetryable(err, builderrors.CategoryNetwork, builderrors.SeverityWarning, "network error").
			WithContext("url", url)
	}
	return fmt.Errorf("failed to clone %s: %w", url, err)
}

// isMissingReference reports whether err means the requested branch does not
// exist on the remote.
func isMissingReference(err error) bool {
	if err == nil {
		return false
	}
	l := strings.ToLower(err.Error())
	return strings.Contains(l, "reference not found") || strings.Contains(l, "couldn't find remote ref")
}

// isTransient reports whether a failure is worth retrying.
func isTransient(err error) bool {
	var be *builderrors.BuilderError
	return builderrors.As(err, &be) && be.Retryable
}
