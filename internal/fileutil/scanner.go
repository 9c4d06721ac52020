package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ScanOptions configures the directory scanning behavior.
type ScanOptions struct {
	// Pattern is a regex pattern to match filenames (without extension).
	Pattern string
	// Extensions is a list of file extensions to include (e.g., ".txt").
	Extensions []string
}

// ScanResult contains the results of a directory scan.
type ScanResult struct {
	// Files contains the paths of all matched files, sorted.
	Files []string
}

// ScanDirectory lists the files directly inside dir matching the provided
// options. Subdirectories are not descended into: answer files live flat
// inside the answers directory.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	var patternRegex *regexp.Regexp
	if opts.Pattern != "" {
		patternRegex, err = regexp.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
	}

	// Extension map for fast lookup.
	extMap := make(map[string]bool)
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := &ScanResult{Files: make([]string, 0)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filename := entry.Name()

		if len(extMap) > 0 {
			ext := strings.ToLower(filepath.Ext(filename))
			if !extMap[ext] {
				continue
			}
		}

		if patternRegex != nil {
			nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))
			if !patternRegex.MatchString(nameWithoutExt) {
				continue
			}
		}

		result.Files = append(result.Files, filepath.Join(dir, filename))
	}

	// Sort files for consistent output.
	sort.Strings(result.Files)

	return result, nil
}
