package branch

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// gitBranchProbe shells out to git to list all branches (local and remote)
// containing the current checkout position.
func gitBranchProbe(ctx context.Context, dir string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "branch", "-a", "--contains", "HEAD")
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git branch probe failed: %w", err)
	}
	return strings.Split(string(out), "\n"), nil
}
