package cmd

import (
	"fmt"
	"os"

	"github.com/mgarrido/repograder/internal/logger"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration, roster, and answer key without contacting the hosting service",
		Long: `Validate the run inputs before grading.

Loads the configuration, the roster, and the answer key, and reports
problems that would degrade a grading run: malformed roster records,
answer keys with missing slots, and roster groups that have no answer
key entry. No hosting-service calls are made.

Examples:
  repograder validate
  repograder validate --config custom.yaml`,
		Args: cobra.NoArgs,
		RunE: validateCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .repograder/config.yaml)")
	cmd.Flags().String("org", "", "Hosting organization holding the student repositories")
	cmd.Flags().String("roster", "", "Path to the semicolon-delimited roster file")
	cmd.Flags().String("answer-key", "", "Path to the JSON answer key file")
	cmd.Flags().String("identifier-pattern", "", "Regex whose first capture group extracts the login from a repo name")

	return cmd
}

// validateCommand implements the validate command logic
func validateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	log := logger.NewConsoleLogger(os.Stdout, "debug")

	problems := 0

	r, skipped, err := loadRoster(cfg, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Roster: %d students loaded\n", r.Len())
	if len(skipped) > 0 {
		problems += len(skipped)
		fmt.Fprintf(out, "Roster: %d records skipped:\n", len(skipped))
		for _, s := range skipped {
			fmt.Fprintf(out, "  - %s: %v\n", s.Reason, s.Fields)
		}
	}

	key, err := loadAnswerKey(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Answer key: %d groups\n", len(key.Groups()))
	for _, keyErr := range key.Validate() {
		problems++
		fmt.Fprintf(out, "Answer key: %s\n", keyErr.Error())
	}

	// A roster group without an answer key entry rejects every student
	// in the group at grading time.
	for _, group := range r.Groups() {
		if _, ok := key.Lookup(group); !ok {
			problems++
			fmt.Fprintf(out, "Group %s appears in the roster but has no answer key entry\n", group)
		}
	}

	if _, err := newExtractor(cfg); err != nil {
		return err
	}

	if problems > 0 {
		return fmt.Errorf("validation found %d problem(s)", problems)
	}

	fmt.Fprintln(out, "All inputs are valid")
	return nil
}
