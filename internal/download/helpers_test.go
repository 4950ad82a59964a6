package download

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/envbuilder/internal/project"
)

// initLocalRepo turns dir into a git repository with one committed
// builder.yaml so it can serve as a clone source.
func initLocalRepo(t *testing.T, dir string) error {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return err
	}
	body := "name: fixture\n"
	if err := os.WriteFile(filepath.Join(dir, "builder.yaml"), []byte(body), 0o600); err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	if _, err := wt.Add("builder.yaml"); err != nil {
		return err
	}
	_, err = wt.Commit("add definition", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	return err
}

// projectWithUpstream resolves a throwaway project whose definition points
// its upstream at url.
func projectWithUpstream(t *testing.T, name, url string) (*project.Project, error) {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	body := fmt.Sprintf("name: %s\nupstream: %s\n", name, url)
	if err := os.WriteFile(filepath.Join(dir, "builder.yaml"), []byte(body), 0o600); err != nil {
		return nil, err
	}
	return project.Find(name, nil, project.NewSearchContext(base))
}
