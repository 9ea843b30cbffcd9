package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/funvibe/serendipity/internal/config"
)

// ExtractModuleName derives a module name from a file path.
// It takes the base filename and removes any recognized source extension.
func ExtractModuleName(path string) string {
	name := filepath.Base(path)
	return config.TrimSourceExt(name)
}

// ExpandSources replaces every directory in paths with the source files it
// holds, sorted by name. Subdirectories are not searched. Plain file
// arguments are kept as given, whatever their extension.
func ExpandSources(paths []string) ([]string, error) {
	var out []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			out = append(out, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", path, err)
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && config.HasSourceExt(e.Name()) {
				found = append(found, filepath.Join(path, e.Name()))
			}
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no source files in %s", path)
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
