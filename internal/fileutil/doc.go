// Package fileutil provides filesystem scanning helpers for the grader.
//
// Its single concern is discovering answer files inside a cloned
// repository's answers directory: flat (non-recursive) listing with
// extension and filename-pattern filtering, returning sorted paths so
// repeated scans of the same directory are deterministic.
package fileutil
