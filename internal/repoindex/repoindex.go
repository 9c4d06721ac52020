// Package repoindex derives student identifiers from repository names and
// builds the identifier-to-repository map used to reconcile the roster
// against the repositories actually submitted.
package repoindex

import (
	"fmt"
	"regexp"
	"strings"
)

// Extractor derives a candidate identifier from a repository name.
//
// The default extractor takes the lowercased segment after the last "-".
// That split is lossy when identifiers themselves contain "-", so an
// explicit capture pattern can be configured instead.
type Extractor struct {
	pattern *regexp.Regexp
}

// NewExtractor returns the default last-segment extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// NewPatternExtractor returns an extractor that applies the given regular
// expression to the repository name and uses its first capture group as the
// identifier. The pattern must contain at least one capture group.
func NewPatternExtractor(pattern string) (*Extractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid identifier pattern %q: %w", pattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("identifier pattern %q has no capture group", pattern)
	}
	return &Extractor{pattern: re}, nil
}

// Extract returns the lowercased candidate identifier for a repository
// name, or "" when the pattern does not match.
func (e *Extractor) Extract(name string) string {
	if e.pattern != nil {
		m := e.pattern.FindStringSubmatch(name)
		if m == nil {
			return ""
		}
		return strings.ToLower(m[1])
	}

	idx := strings.LastIndex(name, "-")
	if idx < 0 {
		return strings.ToLower(name)
	}
	return strings.ToLower(name[idx+1:])
}

// Index maps lowercased identifiers to repository names while preserving
// the discovery order of the input, which drives repo-driven iteration.
type Index struct {
	byIdentifier map[string]string
	names        []string
}

// Build constructs an Index from discovered repository names. When two
// names derive the same identifier the later one wins, mirroring the
// roster's last-write-wins policy. Names that yield an empty identifier
// are kept in the ordered name list (so repo-driven mode still reports
// them) but get no identifier mapping.
func Build(names []string, e *Extractor) *Index {
	idx := &Index{
		byIdentifier: make(map[string]string, len(names)),
		names:        append([]string(nil), names...),
	}
	for _, name := range names {
		if id := e.Extract(name); id != "" {
			idx.byIdentifier[id] = name
		}
	}
	return idx
}

// RepoFor returns the repository name submitted for the given identifier.
// The comparison is case-insensitive.
func (idx *Index) RepoFor(identifier string) (string, bool) {
	name, ok := idx.byIdentifier[strings.ToLower(identifier)]
	return name, ok
}

// Names returns the repository names in discovery order.
func (idx *Index) Names() []string {
	return idx.names
}

// Len returns the number of indexed identifiers.
func (idx *Index) Len() int {
	return len(idx.byIdentifier)
}

// FilterByPrefix returns the subset of names containing the course prefix,
// preserving order. Matching is a plain substring test: the hosting
// service may prepend the organization or a template slug to the name.
func FilterByPrefix(names []string, prefix string) []string {
	if prefix == "" {
		return append([]string(nil), names...)
	}
	var out []string
	for _, name := range names {
		if strings.Contains(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}
