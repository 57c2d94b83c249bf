// Package config contains the layered configuration loader for reviewctl.
// Values are resolved from built-in defaults, then an optional reviewctl.yaml
// file, then the first .env file found (working directory before the user's
// ~/.reviewctl directory), then the process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	envparse "github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/agentic-dev/reviewctl/internal/env"
)

const (
	// DefaultConfigPath is the default yaml configuration file name.
	DefaultConfigPath = "reviewctl.yaml"
	// defaultBranchPrefix prefixes feature branches derived from issue keys.
	defaultBranchPrefix = "feature"
	// defaultContextDir is where review artifacts are generated.
	defaultContextDir = ".copilot"
)

// GitHubConfig holds GitHub access settings.
type GitHubConfig struct {
	// Token is the API token from GITHUB_TOKEN.
	Token string `env:"GITHUB_TOKEN" yaml:"-"`
	// Repo is the owner/repo slug from GITHUB_REPO.
	Repo string `env:"GITHUB_REPO" yaml:"repo"`
}

// JiraConfig holds tracker connection and workflow status settings.
type JiraConfig struct {
	// Server is the Jira base URL from JIRA_SERVER.
	Server string `env:"JIRA_SERVER" yaml:"server"`
	// Email is the account email from JIRA_EMAIL.
	Email string `env:"JIRA_EMAIL" yaml:"email"`
	// APIToken is the API token from JIRA_API_TOKEN.
	APIToken string `env:"JIRA_API_TOKEN" yaml:"-"`
	// StatusInProgress is the in-progress status name from JIRA_STATUS_IN_PROGRESS.
	StatusInProgress string `env:"JIRA_STATUS_IN_PROGRESS" yaml:"statusInProgress"`
	// StatusInReview is the in-review status name from JIRA_STATUS_IN_REVIEW.
	StatusInReview string `env:"JIRA_STATUS_IN_REVIEW" yaml:"statusInReview"`
	// StatusDone is the done status name from JIRA_STATUS_DONE.
	StatusDone string `env:"JIRA_STATUS_DONE" yaml:"statusDone"`
}

// WorkflowConfig holds local workflow settings.
type WorkflowConfig struct {
	// BranchPrefix prefixes feature branches from REVIEWCTL_BRANCH_PREFIX.
	BranchPrefix string `env:"REVIEWCTL_BRANCH_PREFIX" yaml:"branchPrefix"`
	// ContextDir is the artifact output directory from REVIEWCTL_CONTEXT_DIR.
	ContextDir string `env:"REVIEWCTL_CONTEXT_DIR" yaml:"contextDir"`
}

// Config is the resolved reviewctl configuration.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Jira     JiraConfig     `yaml:"jira"`
	Workflow WorkflowConfig `yaml:"workflow"`
}

// Load resolves configuration for a run rooted at workDir. A missing yaml
// file or .env file is not an error; a malformed one is.
func Load(configPath, workDir string) (*Config, error) {
	cfg := &Config{
		Jira: JiraConfig{
			StatusInProgress: "In Progress",
			StatusInReview:   "In Review",
			StatusDone:       "Done",
		},
		Workflow: WorkflowConfig{
			BranchPrefix: defaultBranchPrefix,
			ContextDir:   defaultContextDir,
		},
	}

	if err := applyYAML(cfg, configPath, workDir); err != nil {
		return nil, err
	}

	fileVars, err := env.LoadFirstEnvFile(envFileCandidates(workDir))
	if err != nil {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	// Process environment wins over .env file values.
	envMap := env.Merge(fileVars, env.FromOS())
	if err := envparse.ParseWithOptions(cfg, envparse.Options{Environment: envMap}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// applyYAML overlays values from the yaml configuration file when it exists.
func applyYAML(cfg *Config, configPath, workDir string) error {
	explicit := configPath != "" && configPath != DefaultConfigPath
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(workDir, configPath)
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("read config %q: %w", configPath, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %q: %w", configPath, err)
	}
	return nil
}

// envFileCandidates lists .env locations in priority order.
func envFileCandidates(workDir string) []string {
	candidates := []string{filepath.Join(workDir, ".env")}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".reviewctl", ".env"))
	}
	return candidates
}
