package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pierremrtn/chassis/internal/generator"
)

// Cleaner removes generated units from a source tree
type Cleaner struct{}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean deletes every generated file under the given directory patterns and
// returns the removed paths, sorted.
func (c *Cleaner) Clean(patterns []string) ([]string, error) {
	var removed []string

	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/...") {
			base := strings.TrimSuffix(pattern, "/...")
			if base == "" {
				base = "."
			}
			if err := c.cleanTree(base, &removed); err != nil {
				return removed, err
			}
			continue
		}
		if err := c.cleanDirectory(pattern, &removed); err != nil {
			return removed, err
		}
	}

	sort.Strings(removed)
	return removed, nil
}

func (c *Cleaner) cleanTree(base string, removed *[]string) error {
	return filepath.WalkDir(base, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			return nil
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), generator.OutputSuffix) {
			return nil
		}
		return c.remove(path, removed)
	})
}

func (c *Cleaner) cleanDirectory(dir string, removed *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), generator.OutputSuffix) {
			continue
		}
		if err := c.remove(filepath.Join(dir, entry.Name()), removed); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cleaner) remove(path string, removed *[]string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	*removed = append(*removed, path)
	return nil
}
