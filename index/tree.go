package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/RichelynScott/claude-code-project-index/extractor"
	"github.com/RichelynScott/claude-code-project-index/utils"
)

// importantFiles are the manifest-style files worth showing in the tree
// alongside directories.
var importantFiles = map[string]bool{
	"README.md":        true,
	"package.json":     true,
	"requirements.txt": true,
	"Cargo.toml":       true,
	"go.mod":           true,
	"pom.xml":          true,
	"build.gradle":     true,
	"setup.py":         true,
	"pyproject.toml":   true,
	"Makefile":         true,
}

// GenerateTree renders a compact ASCII tree of the directory structure,
// depth-capped with a continuation marker.
func GenerateTree(rootPath string, maxDepth int) []string {
	lines := []string{"."}
	addTreeLevel(rootPath, "", 0, maxDepth, &lines)
	return lines
}

func addTreeLevel(dir, prefix string, depth, maxDepth int, lines *[]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var dirs, files []os.DirEntry
	for _, entry := range entries {
		if entry.IsDir() {
			if !utils.IsIgnoredDirName(entry.Name()) {
				dirs = append(dirs, entry)
			}
		} else if importantFiles[entry.Name()] {
			files = append(files, entry)
		}
	}

	if depth > maxDepth {
		if len(dirs) > 0 {
			*lines = append(*lines, prefix+"└── ...")
		}
		return
	}

	byName := func(items []os.DirEntry) {
		sort.Slice(items, func(i, j int) bool {
			return strings.ToLower(items[i].Name()) < strings.ToLower(items[j].Name())
		})
	}
	byName(dirs)
	byName(files)

	all := append(dirs, files...)
	for i, entry := range all {
		isLast := i == len(all)-1
		connector := "├── "
		if isLast {
			connector = "└── "
		}

		name := entry.Name()
		if entry.IsDir() {
			name += "/"
			if count := countCodeFiles(filepath.Join(dir, entry.Name())); count > 0 {
				name += fmt.Sprintf(" (%d files)", count)
			}
		}
		*lines = append(*lines, prefix+connector+name)

		if entry.IsDir() {
			nextPrefix := prefix + "│   "
			if isLast {
				nextPrefix = prefix + "    "
			}
			addTreeLevel(filepath.Join(dir, entry.Name()), nextPrefix, depth+1, maxDepth, lines)
		}
	}
}

// countCodeFiles counts code files recursively under dir, skipping ignored
// subtrees.
func countCodeFiles(dir string) int {
	count := 0
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && utils.IsIgnoredDirName(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if extractor.IsCodeFile(path) {
			count++
		}
		return nil
	})
	return count
}
