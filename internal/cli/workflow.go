package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentic-dev/reviewctl/internal/config"
	"github.com/agentic-dev/reviewctl/internal/githubapi"
	"github.com/agentic-dev/reviewctl/internal/gitops"
	"github.com/agentic-dev/reviewctl/internal/jira"
	"github.com/agentic-dev/reviewctl/internal/report"
)

// newWorkflowCommand groups the workflow subcommands.
func newWorkflowCommand(opts *Options) *cobra.Command {
	return newGroupCommand(
		"workflow",
		"Drive the tracker-to-PR development workflow",
		newWorkflowRunCommand(opts),
	)
}

// newWorkflowRunCommand builds `workflow run ISSUE-KEY`: fetch the issue,
// branch, write the implementation context, push and open a pull request.
func newWorkflowRunCommand(opts *Options) *cobra.Command {
	var (
		skipTracker bool
		draft       bool
	)

	cmd := &cobra.Command{
		Use:   "run ISSUE-KEY",
		Short: "Start work on a tracker issue and open a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := LoggerFromContext(ctx)
			issueKey := strings.ToUpper(strings.TrimSpace(args[0]))

			cfg, err := config.Load(opts.ConfigPath, opts.Dir)
			if err != nil {
				return err
			}

			git := gitops.New(logger, opts.Dir, cfg.Workflow.BranchPrefix)
			if !git.IsRepo(ctx) {
				return fmt.Errorf("%s is not a git repository", opts.Dir)
			}

			var tracker *jira.Client
			issue := &jira.Issue{Key: issueKey, Summary: issueKey, Status: "Unknown", Type: "Task", Priority: "None"}
			if !skipTracker {
				tracker, err = jira.NewClient(logger, cfg.Jira.Server, cfg.Jira.Email, cfg.Jira.APIToken)
				if err != nil {
					return err
				}
				issue, err = tracker.FetchIssue(ctx, issueKey)
				if err != nil {
					return err
				}
				logger.Info("issue fetched", "key", issue.Key, "summary", issue.Summary, "status", issue.Status)
			}

			branch, err := git.CreateFeatureBranch(ctx, issueKey)
			if err != nil {
				return err
			}
			logger.Info("feature branch ready", "branch", branch)

			if tracker != nil {
				if err := tracker.TransitionTo(ctx, issueKey, cfg.Jira.StatusInProgress); err != nil {
					logger.Warn("tracker transition failed", "status", cfg.Jira.StatusInProgress, "error", err)
				}
			}

			writer, err := report.NewWriter(logger, filepath.Join(opts.Dir, cfg.Workflow.ContextDir))
			if err != nil {
				return err
			}
			contextPath, err := writer.WriteIssueContext(issue)
			if err != nil {
				return err
			}
			logger.Info("implementation context written", "path", contextPath)

			if git.HasUncommittedChanges(ctx) {
				hash, err := git.Commit(ctx, issueKey, "start work on "+issue.Summary)
				if err != nil {
					return fmt.Errorf("commit context: %w", err)
				}
				logger.Info("context committed", "commit", hash)
			}

			if err := git.Push(ctx, branch); err != nil {
				return err
			}

			client, err := githubapi.NewClient(logger, cfg.GitHub.Token, cfg.GitHub.Repo)
			if err != nil {
				return err
			}
			body, err := writer.PRBody(issue)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("[%s] %s", issue.Key, issue.Summary)
			prURL, err := client.CreatePullRequest(ctx, title, body, branch, git.DefaultBranch(ctx), draft)
			if err != nil {
				return err
			}
			logger.Info("pull request opened", "url", prURL)

			if tracker != nil {
				if err := tracker.TransitionTo(ctx, issueKey, cfg.Jira.StatusInReview); err != nil {
					logger.Warn("tracker transition failed", "status", cfg.Jira.StatusInReview, "error", err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), prURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipTracker, "skip-tracker", false, "Skip tracker lookups and transitions")
	cmd.Flags().BoolVar(&draft, "draft", false, "Open the pull request as a draft")
	return cmd
}
