package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Corpus is a checked-out fixture repository.
type Corpus struct {
	URL    string
	Commit string
	Dir    string
}

// FetchCorpus clones the fixture repository at url, resolves rev and checks
// it out into <cacheDir>/<repo>/<commit>. Existing checkouts are reused.
func FetchCorpus(url, rev, cacheDir string) (*Corpus, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("corpus: repository URL required")
	}
	if cacheDir == "" {
		return nil, fmt.Errorf("corpus: cache directory required")
	}
	rev = strings.TrimSpace(rev)
	if rev == "" {
		rev = defaultRev
	}
	baseDir := filepath.Join(cacheDir, sanitizePathSegment(url))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("corpus: create cache: %w", err)
	}

	if plumbing.IsHash(rev) {
		existing := filepath.Join(baseDir, rev)
		if _, err := os.Stat(existing); err == nil {
			return &Corpus{URL: url, Commit: rev, Dir: existing}, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "fetch-*")
	if err != nil {
		return nil, fmt.Errorf("corpus: temp dir: %w", err)
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return nil, err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("corpus: git clone %s: %w", url, err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("corpus: resolve revision %s: %w", rev, err)
	}
	commit := hash.String()
	targetDir := filepath.Join(baseDir, commit)
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return &Corpus{URL: url, Commit: commit, Dir: targetDir}, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("corpus: worktree: %w", err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("corpus: git checkout %s: %w", rev, err)
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("corpus: store checkout: %w", err)
	}
	return &Corpus{URL: url, Commit: commit, Dir: targetDir}, nil
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), ".")
}
