// Package discover finds stack files below a directory.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultIgnoreDirs are directories skipped during traversal
var DefaultIgnoreDirs = []string{
	"node_modules", "vendor", ".git", "dist", "build", "bin", "tmp",
}

// DefaultPatterns match stack file names.
var DefaultPatterns = []string{"*.stack.yml", "*.stack.yaml", "*.stack.json"}

// Options configures directory traversal behavior
type Options struct {
	IgnoreDirs    []string // Directories to skip (default: DefaultIgnoreDirs)
	Patterns      []string // File name patterns to collect (default: DefaultPatterns)
	IncludeHidden bool     // Include hidden files and directories
}

// StackFiles returns the stack files below root in lexical order.
func StackFiles(root string, opts Options) ([]string, error) {
	ignoreDirs := opts.IgnoreDirs
	if len(ignoreDirs) == 0 {
		ignoreDirs = DefaultIgnoreDirs
	}
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && !opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && slices.Contains(ignoreDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		for _, pattern := range patterns {
			if matched, _ := filepath.Match(pattern, d.Name()); matched {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Expand replaces every directory in paths with the stack files below it.
// Other paths are kept as given, so a missing file still reaches the caller
// and is reported there.
func Expand(paths []string, opts Options) ([]string, error) {
	var out []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			out = append(out, path)
			continue
		}
		files, err := StackFiles(path, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}
