// Package git implements the worktree manager: resolving and creating
// per-worker git worktrees, and ensuring the project's git-exclude file
// hides the generated .hive/ directory (§6 "Persisted state").
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Worktree is one entry from `git worktree list --porcelain`.
type Worktree struct {
	Path   string
	HEAD   string
	Branch string // empty for a detached HEAD
}

// WorktreeManager creates and resolves worktrees for a single repository.
type WorktreeManager struct {
	repoPath string
	baseDir  string
}

// NewWorktreeManagerFromPaths builds a manager directly from paths,
// bypassing any git discovery — used by callers that already know the
// repo and worktree-base locations (and by tests).
func NewWorktreeManagerFromPaths(repoPath, baseDir string) *WorktreeManager {
	return &WorktreeManager{repoPath: repoPath, baseDir: baseDir}
}

// NewWorktreeManager resolves repoPath to its main repo and places new
// worktrees in a sibling "<repo>-worktrees" directory.
func NewWorktreeManager(repoPath string) *WorktreeManager {
	main := ResolveMainRepo(repoPath)
	baseDir := main + "-worktrees"
	return &WorktreeManager{repoPath: main, baseDir: baseDir}
}

// isValidWorktree reports whether path looks like a git worktree: it must
// exist and contain a .git *file* (not directory) pointing at the real
// repo's internal worktree metadata.
func (m *WorktreeManager) isValidWorktree(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// sanitizeBranchName strips the ref-namespace prefixes this tool manages
// (refs/heads/, agent/, feature/) and flattens any remaining slashes to
// dashes, so a branch name is always safe to use as a directory/worktree
// component.
func sanitizeBranchName(name string) string {
	name = strings.TrimPrefix(name, "refs/heads/")
	name = strings.TrimPrefix(name, "agent/")
	name = strings.TrimPrefix(name, "feature/")
	return strings.ReplaceAll(name, "/", "-")
}

// parseWorktreeList parses the output of `git worktree list --porcelain`.
func parseWorktreeList(output string) []Worktree {
	var result []Worktree
	var cur *Worktree

	flush := func() {
		if cur != nil {
			result = append(result, *cur)
			cur = nil
		}
	}

	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			cur = &Worktree{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "HEAD "):
			if cur != nil {
				cur.HEAD = strings.TrimPrefix(line, "HEAD ")
			}
		case strings.HasPrefix(line, "branch "):
			if cur != nil {
				cur.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
			}
		case line == "detached":
			// leaves cur.Branch empty
		}
	}
	flush()

	return result
}

// ResolveMainRepo returns the main repository path for path: path itself
// if it's an ordinary repo (or not a repo at all), or the main repo's
// path if path is a linked worktree (parsed from its .git gitdir pointer,
// e.g. "/main/.git/worktrees/<name>").
func ResolveMainRepo(path string) string {
	data, err := os.ReadFile(filepath.Join(path, ".git"))
	if err != nil {
		return path
	}

	content := strings.TrimSpace(string(data))
	const prefix = "gitdir: "
	if !strings.HasPrefix(content, prefix) {
		return path
	}
	gitdir := strings.TrimPrefix(content, prefix)

	idx := strings.Index(gitdir, "/.git/worktrees/")
	if idx < 0 {
		return path
	}
	return gitdir[:idx]
}

// List returns every worktree known to the repo.
func (m *WorktreeManager) List() ([]Worktree, error) {
	out, err := exec.Command("git", "-C", m.repoPath, "worktree", "list", "--porcelain").Output()
	if err != nil {
		return nil, fmt.Errorf("git worktree list: %w", err)
	}
	return parseWorktreeList(string(out)), nil
}

// Create adds a new worktree under baseDir on a sanitized branch name,
// creating the branch if it doesn't already exist.
func (m *WorktreeManager) Create(branch string) (Worktree, error) {
	clean := sanitizeBranchName(branch)
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return Worktree{}, fmt.Errorf("create worktree base dir: %w", err)
	}
	path := filepath.Join(m.baseDir, clean)

	cmd := exec.Command("git", "-C", m.repoPath, "worktree", "add", "-B", clean, path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return Worktree{}, fmt.Errorf("git worktree add: %w: %s", err, out)
	}

	return Worktree{Path: path, Branch: clean}, nil
}

// Remove removes a worktree by path.
func (m *WorktreeManager) Remove(path string) error {
	cmd := exec.Command("git", "-C", m.repoPath, "worktree", "remove", path, "--force")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git worktree remove: %w: %s", err, out)
	}
	return nil
}

// EnsureHiveExcluded makes sure the repository's git-exclude file contains
// a ".hive/" line, resolving the exclude file through the main repo when
// called from inside a linked worktree, per §6 "Persisted state".
func EnsureHiveExcluded(repoPath string) error {
	main := ResolveMainRepo(repoPath)
	excludePath := filepath.Join(main, ".git", "info", "exclude")

	if err := os.MkdirAll(filepath.Dir(excludePath), 0o755); err != nil {
		return fmt.Errorf("ensure git info dir: %w", err)
	}

	existing, err := os.ReadFile(excludePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read exclude file: %w", err)
	}

	for _, line := range strings.Split(string(existing), "\n") {
		if strings.TrimSpace(line) == ".hive/" {
			return nil
		}
	}

	f, err := os.OpenFile(excludePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open exclude file: %w", err)
	}
	defer f.Close()

	content := string(existing)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	_, err = f.WriteString(".hive/\n")
	return err
}
