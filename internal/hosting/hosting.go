// Package hosting provides the client for the version-control hosting
// service. All access goes through the gh CLI: listing an organization's
// repositories, cloning one, and opening a result issue on it.
package hosting

import "context"

// Service is the grader's view of the hosting provider. The engine
// depends on this interface; tests inject in-memory fakes.
type Service interface {
	// ListRepos returns the names of the organization's repositories.
	ListRepos(ctx context.Context, org string) ([]string, error)

	// Clone checks out org/repo into destDir.
	Clone(ctx context.Context, org, repo, destDir string) error

	// CreateIssue opens an issue with the given title and body on
	// org/repo.
	CreateIssue(ctx context.Context, org, repo, title, body string) error
}
