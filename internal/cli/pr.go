package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentic-dev/reviewctl/internal/config"
	"github.com/agentic-dev/reviewctl/internal/githubapi"
	"github.com/agentic-dev/reviewctl/internal/gitops"
	"github.com/agentic-dev/reviewctl/internal/patch"
	"github.com/agentic-dev/reviewctl/internal/report"
	"github.com/agentic-dev/reviewctl/internal/review"
)

// newPRCommand groups the pull request subcommands.
func newPRCommand(opts *Options) *cobra.Command {
	return newGroupCommand(
		"pr",
		"Analyze and remediate pull request reviews",
		newPRAnalyzeCommand(opts),
		newPRFixCommand(opts),
		newPRReplyCommand(opts),
	)
}

// prSession carries the collaborators a pr subcommand needs after setup.
type prSession struct {
	cfg    *config.Config
	client *githubapi.Client
	logger *slog.Logger
}

// newPRSession loads configuration and builds the GitHub client.
func newPRSession(ctx context.Context, opts *Options) (*prSession, error) {
	logger := LoggerFromContext(ctx)

	cfg, err := config.Load(opts.ConfigPath, opts.Dir)
	if err != nil {
		return nil, err
	}
	if cfg.GitHub.Repo == "" {
		return nil, fmt.Errorf("no repository configured: set GITHUB_REPO or github.repo in %s", opts.ConfigPath)
	}

	client, err := githubapi.NewClient(logger, cfg.GitHub.Token, cfg.GitHub.Repo)
	if err != nil {
		return nil, err
	}

	return &prSession{cfg: cfg, client: client, logger: logger}, nil
}

// resolvePR accepts either a PR number or a branch name. With no argument it
// falls back to the PR for the currently checked out branch.
func (s *prSession) resolvePR(ctx context.Context, workDir, arg string) (githubapi.PullRequest, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		branch, err := gitops.New(s.logger, workDir, s.cfg.Workflow.BranchPrefix).CurrentBranch(ctx)
		if err != nil {
			return githubapi.PullRequest{}, fmt.Errorf("no PR given and current branch could not be determined: %w", err)
		}
		return s.client.GetPullRequestForBranch(ctx, branch)
	}
	if number, err := strconv.Atoi(arg); err == nil {
		return s.client.GetPullRequest(ctx, number)
	}
	return s.client.GetPullRequestForBranch(ctx, arg)
}

// analyze fetches all comments for the PR and classifies them into buckets.
func (s *prSession) analyze(ctx context.Context, pr githubapi.PullRequest) (*review.Summary, error) {
	inline, err := s.client.ListReviewComments(ctx, pr.Number)
	if err != nil {
		return nil, err
	}
	comments := review.FromRaw(inline)
	review.DetectAlreadyFixed(comments, inline)

	general, err := s.client.ListIssueComments(ctx, pr.Number)
	if err != nil {
		return nil, err
	}
	comments = append(comments, review.FromRaw(general)...)

	return review.Summarize(pr.Info(), comments, review.NewClassifier()), nil
}

// newPRAnalyzeCommand builds `pr analyze [PR]`.
func newPRAnalyzeCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [PR-NUMBER|BRANCH]",
		Short: "Classify review comments and write remediation artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			session, err := newPRSession(ctx, opts)
			if err != nil {
				return err
			}

			var prArg string
			if len(args) > 0 {
				prArg = args[0]
			}
			pr, err := session.resolvePR(ctx, opts.Dir, prArg)
			if err != nil {
				return err
			}
			session.logger.Info("analyzing pull request", "pr", pr.Number, "title", pr.Title)

			summary, err := session.analyze(ctx, pr)
			if err != nil {
				return err
			}

			writer, err := report.NewWriter(session.logger, filepath.Join(opts.Dir, session.cfg.Workflow.ContextDir))
			if err != nil {
				return err
			}
			path, err := writer.WriteReviewArtifacts(summary)
			if err != nil {
				return err
			}

			session.logger.Info("analysis complete",
				"pr", pr.Number,
				"total", summary.TotalComments,
				"resolved", len(summary.Resolved),
				"auto_fixable", len(summary.AutoFixable),
				"simple_fixes", len(summary.SimpleFixes),
				"discussions", len(summary.Discussions),
				"complex_fixes", len(summary.ComplexFixes),
			)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// newPRFixCommand builds `pr fix [PR]`.
func newPRFixCommand(opts *Options) *cobra.Command {
	var (
		dryRun bool
		commit bool
	)

	cmd := &cobra.Command{
		Use:   "fix [PR-NUMBER|BRANCH]",
		Short: "Apply auto-fixable review comments to the working tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			session, err := newPRSession(ctx, opts)
			if err != nil {
				return err
			}

			var prArg string
			if len(args) > 0 {
				prArg = args[0]
			}
			pr, err := session.resolvePR(ctx, opts.Dir, prArg)
			if err != nil {
				return err
			}

			summary, err := session.analyze(ctx, pr)
			if err != nil {
				return err
			}
			if len(summary.AutoFixable) == 0 {
				session.logger.Info("no auto-fixable comments", "pr", pr.Number)
				return nil
			}

			git := gitops.New(session.logger, opts.Dir, session.cfg.Workflow.BranchPrefix)
			if pr.HeadBranch != "" && git.IsRepo(ctx) {
				if current, err := git.CurrentBranch(ctx); err == nil && current != pr.HeadBranch {
					if err := git.Checkout(ctx, pr.HeadBranch); err != nil {
						return fmt.Errorf("switch to PR branch: %w", err)
					}
					session.logger.Info("checked out PR branch", "branch", pr.HeadBranch)
				}
			}

			applier := patch.NewApplier(session.logger, opts.Dir)
			fixes := applier.ApplyAll(summary.AutoFixable, dryRun)

			applied := 0
			for _, fix := range fixes {
				if fix.Success {
					applied++
					session.logger.Info("fix applied", "path", fix.Path, "detail", fix.Message)
				} else {
					session.logger.Warn("fix skipped", "path", fix.Path, "reason", fix.Message)
				}
			}
			session.logger.Info("fix run complete", "pr", pr.Number, "applied", applied, "total", len(fixes))

			if commit && !dryRun && applied > 0 {
				hash, err := git.CommitFixes(ctx, patch.CommitMessage(fixes))
				if err != nil {
					return fmt.Errorf("commit fixes: %w", err)
				}
				session.logger.Info("fixes committed", "commit", hash)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without touching files")
	cmd.Flags().BoolVar(&commit, "commit", false, "Commit the applied fixes")
	return cmd
}

// newPRReplyCommand builds `pr reply [PR]`.
func newPRReplyCommand(opts *Options) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reply [PR-NUMBER|BRANCH]",
		Short: "Post drafted replies to discussion comments",
		Long:  "Shows the drafted replies for question and suggestion comments. With --confirm, posts each draft as a threaded reply.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			session, err := newPRSession(ctx, opts)
			if err != nil {
				return err
			}

			var prArg string
			if len(args) > 0 {
				prArg = args[0]
			}
			pr, err := session.resolvePR(ctx, opts.Dir, prArg)
			if err != nil {
				return err
			}

			summary, err := session.analyze(ctx, pr)
			if err != nil {
				return err
			}
			if len(summary.Discussions) == 0 {
				session.logger.Info("no discussion comments", "pr", pr.Number)
				return nil
			}

			posted, failed := 0, 0
			for _, c := range summary.Discussions {
				if c.Analysis.DraftReply == "" {
					continue
				}
				if !confirm {
					session.logger.Info("draft reply", "comment", c.ID, "author", c.Author, "reply", c.Analysis.DraftReply)
					continue
				}
				// The threaded reply endpoint only works on inline review
				// comments; PR-level comments get a quoting top-level comment.
				var postErr error
				if c.Path != "" {
					postErr = session.client.ReplyToComment(ctx, pr.Number, c.ID, c.Analysis.DraftReply)
				} else {
					body := fmt.Sprintf("> %s\n\n%s", c.Body, c.Analysis.DraftReply)
					postErr = session.client.CreateComment(ctx, pr.Number, body)
				}
				if postErr != nil {
					failed++
					session.logger.Warn("reply failed", "comment", c.ID, "error", postErr)
					continue
				}
				posted++
				session.logger.Info("reply posted", "comment", c.ID, "author", c.Author)
			}

			if !confirm {
				session.logger.Info("run again with --confirm to post the drafts", "pr", pr.Number)
				return nil
			}
			session.logger.Info("reply run complete", "pr", pr.Number, "posted", posted, "failed", failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Actually post the drafted replies")
	return cmd
}
