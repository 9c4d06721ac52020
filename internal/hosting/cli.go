package hosting

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// DefaultListLimit bounds how many repositories a single list call
// returns. Course organizations stay well under this.
const DefaultListLimit = 200

// CLI is a reusable client that shells out to the gh CLI.
// It follows the http.Client pattern: create once, use many times.
// Thread-safe for concurrent use.
type CLI struct {
	// GhPath is the path to the gh binary. Defaults to "gh" (found in
	// PATH).
	GhPath string

	// Timeout is the default timeout applied per invocation. Zero means
	// no timeout beyond the caller's context.
	Timeout time.Duration

	// ListLimit caps repository listing. Defaults to DefaultListLimit.
	ListLimit int
}

// NewCLI creates a CLI client with default settings.
func NewCLI() *CLI {
	return &CLI{
		GhPath:    "gh",
		ListLimit: DefaultListLimit,
	}
}

// ListRepos returns the names of the organization's repositories via
// `gh repo list --json name`.
func (c *CLI) ListRepos(ctx context.Context, org string) ([]string, error) {
	limit := c.ListLimit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	output, err := c.run(ctx, "repo", "list", org, "--limit", strconv.Itoa(limit), "--json", "name")
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
	}

	var entries []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(output, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse repository list: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// Clone checks out org/repo into destDir via `gh repo clone`.
func (c *CLI) Clone(ctx context.Context, org, repo, destDir string) error {
	if _, err := c.run(ctx, "repo", "clone", org+"/"+repo, destDir); err != nil {
		return fmt.Errorf("failed to clone %s/%s: %w", org, repo, err)
	}
	return nil
}

// CreateIssue opens an issue on org/repo via `gh issue create`.
func (c *CLI) CreateIssue(ctx context.Context, org, repo, title, body string) error {
	_, err := c.run(ctx,
		"issue", "create",
		"--repo", org+"/"+repo,
		"--title", title,
		"--body", body,
	)
	if err != nil {
		return fmt.Errorf("failed to create issue on %s/%s: %w", org, repo, err)
	}
	return nil
}

// run executes a gh command, applying the client timeout and returning
// the combined output. Errors carry the captured output so hosting
// failures are diagnosable from the run log.
func (c *CLI) run(ctx context.Context, args ...string) ([]byte, error) {
	ctxToUse := ctx
	var cancel context.CancelFunc
	if c.Timeout > 0 {
		ctxToUse, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	ghPath := c.GhPath
	if ghPath == "" {
		ghPath = "gh"
	}

	cmd := exec.CommandContext(ctxToUse, ghPath, args...)
	SetCleanEnv(cmd)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("gh invocation failed: %w (output: %s)", err, string(output))
	}
	return output, nil
}
