package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mgarrido/repograder/internal/answerkey"
	"github.com/mgarrido/repograder/internal/config"
	"github.com/mgarrido/repograder/internal/repoindex"
	"github.com/mgarrido/repograder/internal/roster"
)

// Environment variables accepted as input sources when the corresponding
// file path is not configured. These match the variables the grading
// workflow exposes from its secrets.
const (
	rosterEnvVar    = "ALUMNOS_CSV"
	answerKeyEnvVar = "RESPUESTAS_JSON"
)

// loadRoster reads the roster from the configured file, falling back to
// the ALUMNOS_CSV environment variable. It returns the roster and the
// dropped input records.
func loadRoster(cfg *config.Config, log roster.Logger) (*roster.Roster, []roster.Skipped, error) {
	var raw string
	if cfg.RosterFile != "" {
		data, err := os.ReadFile(cfg.RosterFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read roster file: %w", err)
		}
		raw = string(data)
	} else {
		raw = os.Getenv(rosterEnvVar)
		if raw == "" {
			return nil, nil, fmt.Errorf("no roster source: set roster_file or the %s environment variable", rosterEnvVar)
		}
	}

	records, err := roster.ReadRecords(strings.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	r, skipped := roster.Load(records, log)
	return r, skipped, nil
}

// loadAnswerKey reads the answer key from the configured file, falling
// back to the RESPUESTAS_JSON environment variable.
func loadAnswerKey(cfg *config.Config) (*answerkey.Store, error) {
	if cfg.AnswerKeyFile != "" {
		return answerkey.LoadFile(cfg.AnswerKeyFile)
	}

	raw := os.Getenv(answerKeyEnvVar)
	if raw == "" {
		return nil, fmt.Errorf("no answer key source: set answer_key_file or the %s environment variable", answerKeyEnvVar)
	}
	return answerkey.Parse([]byte(raw))
}

// newExtractor builds the identifier extractor from configuration: the
// configured capture pattern when present, otherwise the default split
// after the last "-".
func newExtractor(cfg *config.Config) (*repoindex.Extractor, error) {
	if cfg.IdentifierPattern != "" {
		return repoindex.NewPatternExtractor(cfg.IdentifierPattern)
	}
	return repoindex.NewExtractor(), nil
}
