package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for repograder
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repograder",
		Short: "Batch grader for per-student course repositories",
		Long: `Repograder reconciles a course roster against the student repositories
in a hosting organization, evaluates each repository's answer files
against the answer key for the student's group, posts a result issue on
every evaluated repository, and writes a CSV summary report.

Repositories are discovered by course prefix and matched to students by
the login derived from each repository name.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}
