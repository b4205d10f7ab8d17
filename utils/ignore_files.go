package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// gitignoreCacheEntry holds cached gitignore patterns with metadata
type gitignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

// Global cache for gitignore patterns
var (
	gitignoreCache = make(map[string]*gitignoreCacheEntry)
	cacheMutex     sync.RWMutex
)

// ignoreDirs are directory names that are never indexed, regardless of
// gitignore contents.
var ignoreDirs = []string{
	".git",
	".svn",
	".hg",
	".idea",
	".vscode",
	".cache",
	".tox",
	".mypy_cache",
	".pytest_cache",
	".claude-index-backups",
	".index-cache",
	"node_modules",
	"__pycache__",
	"venv",
	".venv",
	"env",
	"build",
	"dist",
	"out",
	"target",
	"vendor",
	"bin",
	"obj",
	"coverage",
	".next",
	".nuxt",
}

// binarySuffixes are file suffixes that are always skipped.
var binarySuffixes = []string{
	".exe", ".dll", ".so", ".dylib", ".a", ".o",
	".pyc", ".pyo", ".class", ".jar",
	".zip", ".tar", ".gz", ".bz2", ".7z",
	".jpg", ".jpeg", ".png", ".gif", ".ico", ".svg", ".pdf",
	".mp3", ".wav", ".flac", ".ogg",
	".mp4", ".mkv", ".avi", ".mov", ".wmv",
	".woff", ".woff2", ".ttf", ".eot",
	".lock", ".sum", ".log", ".bak", ".tmp",
	".db", ".sqlite", ".sqlite3",
}

// GetGitignorePatterns reads and returns the patterns from the .gitignore
// file at the project root. If the file does not exist, it returns an empty
// pattern list. Results are cached and invalidated on modification time.
func GetGitignorePatterns(cwd string) ([]string, error) {
	gitignorePath := filepath.Join(cwd, ".gitignore")

	fileInfo, err := os.Stat(gitignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking .gitignore: %w", err)
	}

	// Check cache first
	cacheMutex.RLock()
	if cached, exists := gitignoreCache[gitignorePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.patterns, nil
		}
	}
	cacheMutex.RUnlock()

	ignorePatterns, err := readGitignore(gitignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	// Drop patterns this tool ignores unconditionally anyway
	var validPatterns []string
	for _, pattern := range ignorePatterns {
		if !IsDefaultIgnored(pattern) {
			validPatterns = append(validPatterns, pattern)
		}
	}

	cacheMutex.Lock()
	gitignoreCache[gitignorePath] = &gitignoreCacheEntry{
		patterns: validPatterns,
		modTime:  fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return validPatterns, nil
}

// IsDefaultIgnored reports whether any path segment names an always-ignored
// directory, a hidden directory, or a binary file suffix.
func IsDefaultIgnored(path string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")

	for _, part := range parts {
		lower := strings.ToLower(part)
		for _, dir := range ignoreDirs {
			if lower == dir {
				return true
			}
		}
		// Hidden entries are never indexed
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}

	leaf := strings.ToLower(parts[len(parts)-1])
	for _, suffix := range binarySuffixes {
		if strings.HasSuffix(leaf, suffix) {
			return true
		}
	}
	return false
}

// IsIgnoredDirName reports whether a bare directory name is always ignored.
func IsIgnoredDirName(name string) bool {
	lower := strings.ToLower(name)
	for _, dir := range ignoreDirs {
		if lower == dir {
			return true
		}
	}
	return strings.HasPrefix(name, ".")
}

// readGitignore reads the .gitignore file and returns the list of ignore patterns.
func readGitignore(gitignorePath string) ([]string, error) {
	content, err := os.ReadFile(gitignorePath)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	var patterns []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// IsGitIgnored checks if a file path matches any of the patterns in .gitignore.
func IsGitIgnored(path string, patterns []string) bool {
	for _, pattern := range patterns {
		match, _ := filepath.Match(pattern, path)
		if match {
			return true
		}
		// Match against the basename for patterns like "*.min.js"
		if match, _ := filepath.Match(pattern, filepath.Base(path)); match {
			return true
		}
		// Handle patterns like "dir/" that ignore entire directories
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern) {
			return true
		}
	}
	return false
}

// ClearGitignoreCache clears all cached gitignore patterns
func ClearGitignoreCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	gitignoreCache = make(map[string]*gitignoreCacheEntry)
}
