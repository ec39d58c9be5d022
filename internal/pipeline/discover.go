package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Discover lists the scan files directly inside inputDir whose extension
// (case-insensitive) is in extensions. Subdirectories are not descended into:
// plate folders are flat, and recursing could pull a previous run's merged
// output back in as input. Entries with other extensions are ignored
// silently, not reported.
//
// The returned paths are in lexicographic order of their raw names (the
// os.ReadDir order). This is the canonical discovery order: it decides which
// file wins a normalization collision and which index a variant gets in
// multi-combination output names.
func Discover(inputDir string, extensions []string) ([]string, error) {
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if exts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(inputDir, e.Name()))
		}
	}
	return files, nil
}
