// Package gitops runs local git operations for the review workflow.
package gitops

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"github.com/agentic-dev/reviewctl/internal/logging"
)

// unsafeBranchChars matches characters replaced when deriving branch names from issue keys.
var unsafeBranchChars = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// Git executes git commands inside a fixed working directory.
type Git struct {
	logger       *slog.Logger
	workDir      string
	branchPrefix string
}

// New constructs a Git helper. An empty branch prefix defaults to "feature".
func New(logger *slog.Logger, workDir, branchPrefix string) *Git {
	if branchPrefix == "" {
		branchPrefix = "feature"
	}
	return &Git{logger: logger, workDir: workDir, branchPrefix: branchPrefix}
}

// run executes a git command and returns its trimmed stdout.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// IsRepo reports whether the working directory is inside a git repository.
func (g *Git) IsRepo(ctx context.Context) bool {
	_, err := g.run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// CurrentBranch returns the currently checked out branch name.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	return g.run(ctx, "branch", "--show-current")
}

// DefaultBranch resolves the repository default branch, falling back to
// main/master probing and finally "main".
func (g *Git) DefaultBranch(ctx context.Context) string {
	if out, err := g.run(ctx, "symbolic-ref", "refs/remotes/origin/HEAD", "--short"); err == nil {
		return strings.TrimPrefix(out, "origin/")
	}
	for _, branch := range []string{"main", "master"} {
		if _, err := g.run(ctx, "show-ref", "--verify", "refs/heads/"+branch); err == nil {
			return branch
		}
	}
	return "main"
}

// CreateFeatureBranch creates and checks out a feature branch derived from
// the issue key, branching off a freshly pulled default branch. When the
// branch already exists it is checked out instead.
func (g *Git) CreateFeatureBranch(ctx context.Context, issueKey string) (string, error) {
	safeKey := unsafeBranchChars.ReplaceAllString(issueKey, "-")
	branch := g.branchPrefix + "/" + safeKey

	_, _ = g.run(ctx, "fetch", "origin")

	defaultBranch := g.DefaultBranch(ctx)
	if _, err := g.run(ctx, "checkout", defaultBranch); err == nil {
		_, _ = g.run(ctx, "pull", "origin", defaultBranch)
	}

	if _, err := g.run(ctx, "checkout", "-b", branch); err != nil {
		if _, switchErr := g.run(ctx, "checkout", branch); switchErr != nil {
			return "", fmt.Errorf("create branch %q: %w", branch, err)
		}
		if g.logger != nil {
			g.logger.Warn("branch already exists, switched to it", "branch", branch)
		}
		return branch, nil
	}

	if g.logger != nil {
		g.logger.Info("created branch", "branch", branch)
	}
	return branch, nil
}

// Checkout switches to an existing branch, trying a remote tracking checkout
// when the local branch is missing.
func (g *Git) Checkout(ctx context.Context, branch string) error {
	_, _ = g.run(ctx, "fetch", "origin")

	if _, err := g.run(ctx, "checkout", branch); err == nil {
		return nil
	}
	if _, err := g.run(ctx, "checkout", "-b", branch, "origin/"+branch); err != nil {
		return fmt.Errorf("checkout branch %q: %w", branch, err)
	}
	return nil
}

// HasUncommittedChanges reports whether the working tree has staged or
// unstaged changes.
func (g *Git) HasUncommittedChanges(ctx context.Context) bool {
	out, err := g.run(ctx, "status", "--porcelain")
	return err == nil && strings.TrimSpace(out) != ""
}

// Commit stages all changes and commits them with a conventional message
// scoped by the issue key, returning the short commit hash.
func (g *Git) Commit(ctx context.Context, issueKey, message string) (string, error) {
	if _, err := g.run(ctx, "add", "-A"); err != nil {
		return "", fmt.Errorf("stage changes: %w", err)
	}

	status, err := g.run(ctx, "status", "--porcelain")
	if err == nil && status == "" {
		return "", fmt.Errorf("no changes to commit")
	}

	full := message
	if issueKey != "" {
		full = fmt.Sprintf("feat(%s): %s", issueKey, message)
	}
	if _, err := g.run(ctx, "commit", "-m", full); err != nil {
		return "", err
	}

	hash, err := g.HeadShortHash(ctx)
	if err != nil {
		return "", err
	}
	if g.logger != nil {
		g.logger.Info("committed changes", "hash", hash, "message", full)
	}
	return hash, nil
}

// CommitFixes commits an already prepared fix batch with the given message.
func (g *Git) CommitFixes(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", fmt.Errorf("empty commit message")
	}
	if _, err := g.run(ctx, "add", "-u"); err != nil {
		return "", fmt.Errorf("stage fixes: %w", err)
	}
	if _, err := g.run(ctx, "commit", "-m", message); err != nil {
		return "", err
	}
	return g.HeadShortHash(ctx)
}

// Push pushes the given branch (or the current one when empty) to origin.
func (g *Git) Push(ctx context.Context, branch string) error {
	if branch == "" {
		current, err := g.CurrentBranch(ctx)
		if err != nil {
			return err
		}
		branch = current
	}

	// Push progress arrives on stderr; forward it to the log while keeping
	// a copy for the error message.
	cmd := exec.CommandContext(ctx, "git", "push", "-u", "origin", branch)
	cmd.Dir = g.workDir
	progress := logging.NewWriter(g.logger)
	var stderr bytes.Buffer
	cmd.Stdout = progress
	cmd.Stderr = io.MultiWriter(&stderr, progress)

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("push branch %q: %s", branch, msg)
	}
	if g.logger != nil {
		g.logger.Info("pushed branch", "branch", branch)
	}
	return nil
}

// HeadShortHash returns the short hash of the last commit.
func (g *Git) HeadShortHash(ctx context.Context) (string, error) {
	return g.run(ctx, "rev-parse", "--short", "HEAD")
}
