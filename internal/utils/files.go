package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandPatterns resolves directory arguments into the concrete set of
// directories containing Go files. A trailing "/..." walks the tree the way
// the go tool does; a plain path names exactly one directory. Results are
// absolute, deduplicated, and sorted.
func ExpandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	add := func(dir string) error {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", dir, err)
		}
		if !seen[abs] {
			seen[abs] = true
			dirs = append(dirs, abs)
		}
		return nil
	}

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			ok, err := containsGoFiles(pattern)
			if err != nil {
				return nil, err
			}
			if ok {
				if err := add(pattern); err != nil {
					return nil, err
				}
			}
			continue
		}

		base := strings.TrimSuffix(pattern, "/...")
		if base == "" || base == "." {
			base = "."
		}
		err := filepath.WalkDir(base, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() {
				return nil
			}
			name := entry.Name()
			if path != base && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			ok, err := containsGoFiles(path)
			if err != nil {
				return err
			}
			if ok {
				return add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", pattern, err)
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

// containsGoFiles reports whether a directory directly holds at least one
// non-test, non-generated Go file.
func containsGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, ".chassis.go") {
			continue
		}
		return true, nil
	}
	return false, nil
}

// WriteFile writes one generated unit, creating parent directories as needed.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
