package index

import (
	"path"
	"strings"

	"github.com/RichelynScott/claude-code-project-index/index/models"
)

// resolveExtensions are tried in order when matching a resolved import base
// path against indexed files; the empty extension matches extensionless
// targets.
var resolveExtensions = []string{".py", ".js", ".ts", ".jsx", ".tsx", ""}

// ResolveDependencies converts each file's raw import strings into resolved
// intra-project edges. Relative references resolve against the importing
// file's directory; anything non-relative is recorded verbatim as an
// external dependency. Unresolvable relative imports are dropped, never
// fatal. Cycles and self-references are preserved as written.
func ResolveDependencies(idx *models.Index) {
	graph := make(map[string][]string)

	for _, filePath := range sortedFilePaths(idx) {
		record := idx.Files[filePath]
		if len(record.Imports) == 0 {
			continue
		}

		fileDir := path.Dir(filePath)
		var dependencies []string

		for _, imp := range record.Imports {
			if !strings.HasPrefix(imp, ".") {
				dependencies = append(dependencies, imp)
				continue
			}

			resolved := resolveRelative(fileDir, imp)
			for _, ext := range resolveExtensions {
				candidate := resolved + ext
				if _, ok := idx.Files[candidate]; ok {
					dependencies = append(dependencies, candidate)
					break
				}
			}
		}

		if len(dependencies) > 0 {
			graph[filePath] = dependencies
		}
	}

	if len(graph) > 0 {
		idx.DependencyGraph = graph
	}
}

// resolveRelative turns a relative import string into a slash path rooted at
// the project, without checking that anything exists there.
func resolveRelative(fileDir, imp string) string {
	switch {
	case strings.HasPrefix(imp, "./"):
		// Same directory
		return path.Join(fileDir, imp[2:])
	case strings.HasPrefix(imp, "../"):
		// Ascending reference: walk up one parent per ".." segment
		parts := strings.Split(imp, "/")
		targetDir := fileDir
		var remaining []string
		for _, part := range parts {
			if part == ".." {
				targetDir = path.Dir(targetDir)
			} else if part != "" {
				remaining = append(remaining, part)
			}
		}
		if len(remaining) == 0 {
			return targetDir
		}
		return path.Join(targetDir, path.Join(remaining...))
	default:
		// Package-style reference like "from . import x": the file's own
		// directory
		return fileDir
	}
}
