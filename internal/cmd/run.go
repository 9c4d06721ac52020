package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mgarrido/repograder/internal/config"
	"github.com/mgarrido/repograder/internal/engine"
	"github.com/mgarrido/repograder/internal/filelock"
	"github.com/mgarrido/repograder/internal/hosting"
	"github.com/mgarrido/repograder/internal/logger"
	"github.com/mgarrido/repograder/internal/report"
	"github.com/mgarrido/repograder/internal/repoindex"
	"github.com/mgarrido/repograder/internal/roster"
	"github.com/spf13/cobra"
)

// runLogger is the logging surface the run command fans out to console
// and file loggers.
type runLogger interface {
	engine.Logger
	LogTrace(message string)
	LogRecord(record engine.Record)
	LogRunSummary(summary engine.Summary)
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate every submission and write the summary report",
		Long: `Evaluate the course's student repositories against the answer key.

The run discovers the organization's repositories matching the course
prefix, reconciles them against the roster, clones and grades each
submission, posts a result issue per evaluated repository, and writes
the CSV summary report.

Configuration is loaded from .repograder/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  repograder run --org my-course-org --prefix "NoSQL"
  repograder run --mode roster            # iterate the roster instead of the repos
  repograder run --dry-run                # show the reconciliation plan, no clones
  repograder run --no-notify              # skip result issues
  repograder run --config custom.yaml --output informe.csv`,
		Args: cobra.NoArgs,
		RunE: runCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .repograder/config.yaml)")
	cmd.Flags().String("org", "", "Hosting organization holding the student repositories")
	cmd.Flags().String("prefix", "", "Course prefix repository names must contain")
	cmd.Flags().String("roster", "", "Path to the semicolon-delimited roster file")
	cmd.Flags().String("answer-key", "", "Path to the JSON answer key file")
	cmd.Flags().String("output", "", "Path of the CSV summary report")
	cmd.Flags().String("workdir", "", "Directory repositories are cloned into")
	cmd.Flags().String("mode", "", "Driving collection: repos or roster")
	cmd.Flags().Int("limit", 0, "Maximum repositories returned by discovery")
	cmd.Flags().String("timeout", "", "Maximum duration of a single hosting call (e.g., 30s, 2m)")
	cmd.Flags().String("identifier-pattern", "", "Regex whose first capture group extracts the login from a repo name")
	cmd.Flags().Bool("dry-run", false, "Show the reconciliation plan without cloning or notifying")
	cmd.Flags().Bool("no-notify", false, "Do not post result issues")
	cmd.Flags().Bool("verbose", false, "Show detailed execution information")
	cmd.Flags().String("log-dir", "", "Directory for run log files")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig(cmd)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	// Determine log level: verbose flag overrides config
	logLevel := cfg.LogLevel
	if verbose {
		logLevel = "debug"
	}

	// Console logger for real-time progress, file logger for the run log
	consoleLog := logger.NewConsoleLogger(os.Stdout, logLevel)
	fileLog, err := logger.NewFileLogger(cfg.LogDir, logLevel)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()

	log := &multiLogger{loggers: []runLogger{consoleLog, fileLog}}
	log.LogInfo(fmt.Sprintf("run %s: org=%s prefix=%q mode=%s", fileLog.RunID(), cfg.Org, cfg.Prefix, cfg.Mode))

	// Load the run's immutable inputs
	r, skipped, err := loadRoster(cfg, log)
	if err != nil {
		return err
	}
	log.LogInfo(fmt.Sprintf("roster loaded: %d students, %d records skipped", r.Len(), len(skipped)))

	key, err := loadAnswerKey(cfg)
	if err != nil {
		return err
	}
	// A structurally broken key would reject or misgrade every student in
	// the affected group; refuse to grade with it.
	if keyErrs := key.Validate(); len(keyErrs) > 0 {
		for _, keyErr := range keyErrs {
			log.LogError("answer key: " + keyErr.Error())
		}
		return fmt.Errorf("answer key is invalid: %d problem(s) found, see log", len(keyErrs))
	}

	extractor, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	host := hosting.NewCLI()
	host.Timeout = cfg.Timeout
	host.ListLimit = cfg.ListLimit

	eng := &engine.Engine{
		Host:      host,
		Roster:    r,
		Key:       key,
		Extractor: extractor,
		Log:       log,
		Org:       cfg.Org,
		Prefix:    cfg.Prefix,
		Workdir:   cfg.Workdir,
	}
	if cfg.Notify && !dryRun {
		eng.Notifier = &report.IssueNotifier{Host: host, Org: cfg.Org}
	}

	ctx := context.Background()

	// Discovery failure is fatal: nothing can proceed without the list
	names, err := eng.Discover(ctx)
	if err != nil {
		log.LogError(err.Error())
		return err
	}

	if dryRun {
		printPlan(cmd, cfg, r, extractor, names)
		return nil
	}

	// One run at a time per workdir
	lock, err := filelock.NewRunLock(cfg.Workdir)
	if err != nil {
		return err
	}
	acquired, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("another grading run is active in %s", cfg.Workdir)
	}
	defer lock.Unlock()

	records, err := eng.Run(ctx, names, engine.Mode(cfg.Mode))
	if err != nil {
		return err
	}

	for _, rec := range records {
		log.LogRecord(rec)
	}

	if err := report.WriteCSV(cfg.OutputFile, records); err != nil {
		log.LogError(err.Error())
		return err
	}

	summary := engine.Summarize(records)
	log.LogRunSummary(summary)
	fmt.Fprintf(cmd.OutOrStdout(), "\nReport written to: %s\n", cfg.OutputFile)
	fmt.Fprintf(cmd.OutOrStdout(), "Run log: %s\n", fileLog.Path())

	return nil
}

// loadMergedConfig loads the configuration file and applies flag
// overrides, validating the merged result.
func loadMergedConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var flags config.Flags
	if cmd.Flags().Changed("org") {
		v, _ := cmd.Flags().GetString("org")
		flags.Org = &v
	}
	if cmd.Flags().Changed("prefix") {
		v, _ := cmd.Flags().GetString("prefix")
		flags.Prefix = &v
	}
	if cmd.Flags().Changed("roster") {
		v, _ := cmd.Flags().GetString("roster")
		flags.RosterFile = &v
	}
	if cmd.Flags().Changed("answer-key") {
		v, _ := cmd.Flags().GetString("answer-key")
		flags.AnswerKeyFile = &v
	}
	if cmd.Flags().Changed("output") {
		v, _ := cmd.Flags().GetString("output")
		flags.OutputFile = &v
	}
	if cmd.Flags().Changed("workdir") {
		v, _ := cmd.Flags().GetString("workdir")
		flags.Workdir = &v
	}
	if cmd.Flags().Changed("mode") {
		v, _ := cmd.Flags().GetString("mode")
		flags.Mode = &v
	}
	if cmd.Flags().Changed("limit") {
		v, _ := cmd.Flags().GetInt("limit")
		flags.ListLimit = &v
	}
	if cmd.Flags().Changed("timeout") {
		s, _ := cmd.Flags().GetString("timeout")
		timeout, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", s, err)
		}
		flags.Timeout = &timeout
	}
	if cmd.Flags().Changed("identifier-pattern") {
		v, _ := cmd.Flags().GetString("identifier-pattern")
		flags.IdentifierPattern = &v
	}
	if cmd.Flags().Changed("no-notify") {
		noNotify, _ := cmd.Flags().GetBool("no-notify")
		notify := !noNotify
		flags.Notify = &notify
	}
	if cmd.Flags().Changed("log-dir") {
		v, _ := cmd.Flags().GetString("log-dir")
		flags.LogDir = &v
	}

	cfg.MergeWithFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// printPlan shows the reconciliation that a full run would perform,
// without cloning or notifying.
func printPlan(cmd *cobra.Command, cfg *config.Config, r *roster.Roster, extractor *repoindex.Extractor, names []string) {
	out := cmd.OutOrStdout()
	useColor := out == os.Stdout && isatty.IsTerminal(os.Stdout.Fd()) && !color.NoColor

	bold := func(s string) string { return s }
	yellow := bold
	if useColor {
		bold = func(s string) string { return color.New(color.Bold).Sprint(s) }
		yellow = func(s string) string { return color.New(color.FgYellow).Sprint(s) }
	}

	fmt.Fprintf(out, "%s\n", bold("Dry run: reconciliation plan"))
	fmt.Fprintf(out, "Organization: %s\n", cfg.Org)
	fmt.Fprintf(out, "Prefix:       %q\n", cfg.Prefix)
	fmt.Fprintf(out, "Mode:         %s\n", cfg.Mode)
	fmt.Fprintf(out, "Repositories: %d\n\n", len(names))

	idx := repoindex.Build(names, extractor)

	for _, name := range names {
		identifier := extractor.Extract(name)
		if student, ok := r.Lookup(identifier); ok {
			fmt.Fprintf(out, "  %s -> %s (%s)\n", name, student.Identifier, student.Group)
		} else {
			fmt.Fprintf(out, "  %s -> %s\n", name, yellow("login not in roster"))
		}
	}

	var missing []string
	for _, student := range r.Students() {
		if _, ok := idx.RepoFor(student.Identifier); !ok {
			missing = append(missing, student.Identifier)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(out, "\n%s\n", bold(fmt.Sprintf("Students without a repository (%d):", len(missing))))
		for _, login := range missing {
			fmt.Fprintf(out, "  %s\n", login)
		}
	}

	fmt.Fprintln(out, "\nNo repositories were cloned and no issues were posted.")
}

// multiLogger fans every log call out to all wrapped loggers.
type multiLogger struct {
	loggers []runLogger
}

func (ml *multiLogger) LogTrace(message string) {
	for _, l := range ml.loggers {
		l.LogTrace(message)
	}
}

func (ml *multiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

func (ml *multiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

func (ml *multiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

func (ml *multiLogger) LogRecord(record engine.Record) {
	for _, l := range ml.loggers {
		l.LogRecord(record)
	}
}

func (ml *multiLogger) LogRunSummary(summary engine.Summary) {
	for _, l := range ml.loggers {
		l.LogRunSummary(summary)
	}
}
