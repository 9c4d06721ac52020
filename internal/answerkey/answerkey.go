// Package answerkey holds the per-group grading key: for every group,
// an ordered list of exactly three expected answers. The store is loaded
// once before any evaluation and is immutable for the run.
package answerkey

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// SlotsPerGroup is the number of answer slots every group key must define.
const SlotsPerGroup = 3

// ExpectedAnswer is the grading spec for one answer slot: the conceptual
// type the answer must mention and the keywords of which at least one must
// appear. Both are matched case-insensitively as substrings.
type ExpectedAnswer struct {
	Type     string   `json:"tipo"`
	Keywords []string `json:"keywords"`
}

// Store maps uppercase group names to their ordered answer specs.
type Store struct {
	groups map[string][]ExpectedAnswer
}

// New builds a Store from an already-decoded mapping. Group names are
// uppercased so they align with roster group keys.
func New(groups map[string][]ExpectedAnswer) *Store {
	normalized := make(map[string][]ExpectedAnswer, len(groups))
	for name, answers := range groups {
		normalized[strings.ToUpper(name)] = answers
	}
	return &Store{groups: normalized}
}

// Parse decodes the JSON answer key document. The expected shape is
// {"A": [{"tipo": "...", "keywords": ["...", ...]}, ...], ...}.
func Parse(data []byte) (*Store, error) {
	var groups map[string][]ExpectedAnswer
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse answer key: %w", err)
	}
	return New(groups), nil
}

// LoadFile reads and parses the answer key from a JSON file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answer key file: %w", err)
	}
	return Parse(data)
}

// Lookup returns the ordered answer specs for a group. The group name is
// uppercased before lookup. The second return is false when the group has
// no entry; callers must surface that as a per-record failure, never a
// panic.
func (s *Store) Lookup(group string) ([]ExpectedAnswer, bool) {
	answers, ok := s.groups[strings.ToUpper(group)]
	return answers, ok
}

// Groups returns the group names present in the store, sorted for stable
// diagnostics output.
func (s *Store) Groups() []string {
	names := make([]string, 0, len(s.groups))
	for name := range s.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the structural invariants of the key: every group has
// exactly SlotsPerGroup answers, each with a non-empty type and at least
// one keyword. It returns all problems found, not just the first.
func (s *Store) Validate() []error {
	var errs []error
	for _, name := range s.Groups() {
		answers := s.groups[name]
		if len(answers) != SlotsPerGroup {
			errs = append(errs, fmt.Errorf("group %s: expected %d answers, got %d", name, SlotsPerGroup, len(answers)))
			continue
		}
		for i, a := range answers {
			if strings.TrimSpace(a.Type) == "" {
				errs = append(errs, fmt.Errorf("group %s, slot %d: empty type", name, i+1))
			}
			if len(a.Keywords) == 0 {
				errs = append(errs, fmt.Errorf("group %s, slot %d: no keywords", name, i+1))
			}
		}
	}
	return errs
}
