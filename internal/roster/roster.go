// Package roster normalizes raw enrollment records into a lookup table of
// students keyed by their external identifier (the hosting-service login).
//
// The loader never fails: malformed records are dropped with a recorded
// reason and the surviving records always produce a usable Roster.
package roster

import (
	"encoding/csv"
	"io"
	"strings"
)

// Skip reasons recorded for records that do not survive normalization.
const (
	SkipInvalidRecord = "INVALID_RECORD" // fewer than 4 fields
	SkipNoIdentifier  = "NO_IDENTIFIER"  // empty external identifier
	SkipNoGroup       = "NO_GROUP"       // empty or literal "null" group
)

// Student is one normalized roster entry. Instances are immutable after
// loading; the zero value is not meaningful.
type Student struct {
	Name       string // display name, trimmed
	IDNumber   string // institutional id number, trimmed
	Group      string // cohort key into the answer key, uppercased
	Identifier string // hosting-service login, lowercased (natural key)
}

// Skipped describes one dropped input record for diagnostics.
type Skipped struct {
	Reason string
	Fields []string
}

// Roster maps lowercased external identifiers to students while preserving
// the insertion order of first appearance. Duplicate identifiers overwrite
// the stored student but keep the original position (last write wins is the
// documented deduplication policy, matching the repository index).
type Roster struct {
	students map[string]Student
	order    []string
}

// Logger receives one trace line per dropped record. It is satisfied by
// logger.ConsoleLogger and logger.FileLogger; nil disables tracing.
type Logger interface {
	LogDebug(message string)
}

// Load normalizes raw delimited records into a Roster.
//
// The first record is treated as a header and skipped. Field order is
// (name, id_number, group, external_identifier); all fields are trimmed of
// surrounding whitespace. Records are dropped when they have fewer than 4
// fields, an empty identifier, or an empty or "null" group
// (case-insensitive). Load never fails; it returns the roster together
// with the dropped records so callers can report skip counts.
func Load(records [][]string, log Logger) (*Roster, []Skipped) {
	r := &Roster{students: make(map[string]Student)}
	var skipped []Skipped

	for i, rec := range records {
		if i == 0 {
			// Header row.
			continue
		}

		if len(rec) < 4 {
			skipped = append(skipped, Skipped{Reason: SkipInvalidRecord, Fields: rec})
			logSkip(log, SkipInvalidRecord, rec)
			continue
		}

		name := strings.TrimSpace(rec[0])
		idNumber := strings.TrimSpace(rec[1])
		group := strings.TrimSpace(rec[2])
		identifier := strings.TrimSpace(rec[3])

		if identifier == "" {
			skipped = append(skipped, Skipped{Reason: SkipNoIdentifier, Fields: rec})
			logSkip(log, SkipNoIdentifier, rec)
			continue
		}

		lowerGroup := strings.ToLower(group)
		if lowerGroup == "" || lowerGroup == "null" {
			skipped = append(skipped, Skipped{Reason: SkipNoGroup, Fields: rec})
			logSkip(log, SkipNoGroup, rec)
			continue
		}

		r.put(Student{
			Name:       name,
			IDNumber:   idNumber,
			Group:      strings.ToUpper(group),
			Identifier: strings.ToLower(identifier),
		})
	}

	return r, skipped
}

// ReadRecords parses the semicolon-delimited roster table from r.
// Rows may have varying field counts; shape validation happens in Load.
func ReadRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// put inserts a student keyed by identifier, preserving the position of the
// first occurrence on duplicates.
func (r *Roster) put(s Student) {
	if _, exists := r.students[s.Identifier]; !exists {
		r.order = append(r.order, s.Identifier)
	}
	r.students[s.Identifier] = s
}

// Lookup returns the student for the given identifier. The comparison is
// case-insensitive: the identifier is lowercased before lookup.
func (r *Roster) Lookup(identifier string) (Student, bool) {
	s, ok := r.students[strings.ToLower(identifier)]
	return s, ok
}

// Len returns the number of students in the roster.
func (r *Roster) Len() int {
	return len(r.students)
}

// Students returns all students in insertion order. The returned slice is
// freshly allocated; mutating it does not affect the roster.
func (r *Roster) Students() []Student {
	out := make([]Student, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.students[id])
	}
	return out
}

// Groups returns the distinct group names referenced by the roster, in
// first-appearance order. Used by validation to cross-check the answer key.
func (r *Roster) Groups() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, id := range r.order {
		g := r.students[id].Group
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	return groups
}

func logSkip(log Logger, reason string, fields []string) {
	if log == nil {
		return
	}
	log.LogDebug("skipping roster record (" + reason + "): " + strings.Join(fields, ";"))
}
