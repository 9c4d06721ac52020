// Package engine drives one grading run: it discovers the course's
// repositories, reconciles them against the roster in either direction,
// clones and evaluates each matched submission, and folds everything into
// the ordered list of result records that feeds the report and the
// per-repository notifications.
package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mgarrido/repograder/internal/answerkey"
	"github.com/mgarrido/repograder/internal/evaluator"
	"github.com/mgarrido/repograder/internal/hosting"
	"github.com/mgarrido/repograder/internal/repoindex"
	"github.com/mgarrido/repograder/internal/roster"
)

// Mode selects the driving collection of the fold: the discovered
// repositories (the default) or the roster.
type Mode string

const (
	// ModeRepos iterates discovered repositories in discovery order;
	// repositories whose login is not enrolled are rejected with
	// ReasonLoginNotFound.
	ModeRepos Mode = "repos"

	// ModeRoster iterates roster entries in insertion order; students
	// with no repository are rejected with ReasonRepoNotSubmitted.
	ModeRoster Mode = "roster"
)

// Logger receives run progress lines. Satisfied by logger.ConsoleLogger
// and logger.FileLogger.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Notifier delivers the per-repository result notification. A nil
// Notifier on the Engine disables notifications.
type Notifier interface {
	Notify(ctx context.Context, record Record) error
}

// Engine evaluates a batch of submissions. All collaborators are loaded
// once before the run and are immutable while it executes; the run itself
// is strictly sequential (clone, evaluate, notify per repository).
type Engine struct {
	Host      hosting.Service
	Roster    *roster.Roster
	Key       *answerkey.Store
	Extractor *repoindex.Extractor
	Notifier  Notifier
	Log       Logger

	Org     string
	Prefix  string
	Workdir string
}

// Discover lists the organization's repositories and keeps those whose
// name contains the course prefix. A failure here is fatal for the run:
// nothing meaningful can proceed without the repository list.
func (e *Engine) Discover(ctx context.Context) ([]string, error) {
	names, err := e.Host.ListRepos(ctx, e.Org)
	if err != nil {
		return nil, fmt.Errorf("repository discovery failed: %w", err)
	}
	filtered := repoindex.FilterByPrefix(names, e.Prefix)
	e.logInfo(fmt.Sprintf("discovered %d repositories, %d match prefix %q", len(names), len(filtered), e.Prefix))
	return filtered, nil
}

// Run folds the discovered repository names into the ordered result
// records. Per-record failures (clone, notification) degrade only that
// record; Run itself fails only on invalid input.
func (e *Engine) Run(ctx context.Context, names []string, mode Mode) ([]Record, error) {
	switch mode {
	case ModeRepos:
		return e.runRepoDriven(ctx, names), nil
	case ModeRoster:
		return e.runRosterDriven(ctx, names), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// runRepoDriven produces one record per discovered repository, in
// discovery order.
func (e *Engine) runRepoDriven(ctx context.Context, names []string) []Record {
	records := make([]Record, 0, len(names))
	for _, repo := range names {
		e.logInfo("evaluating " + repo)
		rec := e.gradeRepo(ctx, repo, e.Extractor.Extract(repo))
		records = append(records, rec)
		e.notify(ctx, rec)
	}
	return records
}

// runRosterDriven produces one record per roster entry, in roster
// insertion order.
func (e *Engine) runRosterDriven(ctx context.Context, names []string) []Record {
	idx := repoindex.Build(names, e.Extractor)
	students := e.Roster.Students()
	records := make([]Record, 0, len(students))
	for _, s := range students {
		repo, ok := idx.RepoFor(s.Identifier)
		if !ok {
			e.logDebug("no repository submitted for " + s.Identifier)
			records = append(records, Record{
				Login:  s.Identifier,
				Group:  s.Group,
				Status: StatusRejected,
				Reason: ReasonRepoNotSubmitted,
			})
			continue
		}

		e.logInfo("evaluating " + repo)
		rec := e.gradeRepo(ctx, repo, s.Identifier)
		records = append(records, rec)
		e.notify(ctx, rec)
	}
	return records
}

// gradeRepo clones one repository and evaluates its submission,
// producing the record for it. Clone failures and unknown logins are
// terminal rejections for this record only.
func (e *Engine) gradeRepo(ctx context.Context, repo, login string) Record {
	student, enrolled := e.Roster.Lookup(login)

	dest := e.CloneDest(repo)
	if err := e.Host.Clone(ctx, e.Org, repo, dest); err != nil {
		e.logError(fmt.Sprintf("clone failed for %s: %v", repo, err))
		return Record{
			Repo:   repo,
			Login:  orUnknown(login),
			Group:  bestEffortGroup(student, enrolled),
			Status: StatusRejected,
			Reason: ReasonCloneError,
		}
	}

	if !enrolled {
		e.logWarn(fmt.Sprintf("login %q from %s is not in the roster", login, repo))
		return Record{
			Repo:   repo,
			Login:  orUnknown(login),
			Group:  GroupNotRegistered,
			Status: StatusRejected,
			Reason: ReasonLoginNotFound,
		}
	}

	result := evaluator.Evaluate(student.Group, e.Key, evaluator.NewDirSubmission(dest))
	status := StatusRejected
	if result.Approved {
		status = StatusApproved
	}
	return Record{
		Repo:   repo,
		Login:  student.Identifier,
		Group:  student.Group,
		Status: status,
		Reason: result.Reason,
	}
}

// notify delivers the record's notification when a notifier is
// configured and the record has a repository to notify on. Repositories
// whose login is not enrolled get no issue: the repository does not
// belong to a student of this course. Clone failures are also skipped;
// a repository the clone call could not reach is not worth an issue
// call. Delivery failures degrade nothing: the record already carries
// the verdict.
func (e *Engine) notify(ctx context.Context, rec Record) {
	if e.Notifier == nil || rec.Repo == "" {
		return
	}
	if rec.Reason == ReasonLoginNotFound || rec.Reason == ReasonCloneError {
		return
	}
	if err := e.Notifier.Notify(ctx, rec); err != nil {
		e.logWarn(fmt.Sprintf("notification failed for %s: %v", rec.Repo, err))
	}
}

// CloneDest returns the checkout path the engine uses for a repository.
func (e *Engine) CloneDest(repo string) string {
	return filepath.Join(e.Workdir, repo)
}

func orUnknown(login string) string {
	if login == "" {
		return ValueUnknown
	}
	return login
}

func bestEffortGroup(s roster.Student, enrolled bool) string {
	if enrolled {
		return s.Group
	}
	return ValueUnknown
}

func (e *Engine) logDebug(msg string) {
	if e.Log != nil {
		e.Log.LogDebug(msg)
	}
}

func (e *Engine) logInfo(msg string) {
	if e.Log != nil {
		e.Log.LogInfo(msg)
	}
}

func (e *Engine) logWarn(msg string) {
	if e.Log != nil {
		e.Log.LogWarn(msg)
	}
}

func (e *Engine) logError(msg string) {
	if e.Log != nil {
		e.Log.LogError(msg)
	}
}

// Summary aggregates a finished run for logging and exit-code decisions.
type Summary struct {
	Total    int
	Approved int
	Rejected int
}

// Summarize counts verdicts over a record sequence.
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		if r.Status == StatusApproved {
			s.Approved++
		} else {
			s.Rejected++
		}
	}
	return s
}
