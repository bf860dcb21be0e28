// Package walker enumerates candidate image files for a run. The engine
// treats its output as an opaque ordered list of paths.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BlueVenn6/image-quality-checker/pkg/imgformat"
)

// Walk collects the files a run should inspect. A directory root is
// filtered to supported image extensions and sorted lexicographically so
// processing order is deterministic; a file root is returned as-is, since
// explicitly naming a file always means "check this one". A root that
// cannot be read fails the whole run; unreadable entries below a readable
// root are skipped.
func Walk(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	if recursive {
		return walkTree(root)
	}
	return listDir(root)
}

func listDir(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		if candidate(entry.Name()) {
			files = append(files, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func walkTree(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// The root was already stat-ed; anything failing below it is
			// skipped rather than aborting the run.
			if path == root {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if candidate(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func candidate(name string) bool {
	return imgformat.SupportedExtension(strings.ToLower(filepath.Ext(name)))
}
