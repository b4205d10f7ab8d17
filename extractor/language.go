package extractor

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// parseableLanguages maps file extensions the extractor can fully parse to
// the language key used in snapshot stats.
var parseableLanguages = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".sh":   "shell",
	".bash": "shell",
}

// codeExtensions is the broader set of extensions counted as code when
// rendering the directory tree.
var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".sh": true, ".bash": true, ".go": true, ".rs": true, ".java": true,
	".c": true, ".h": true, ".cpp": true, ".hpp": true, ".cc": true,
	".cs": true, ".rb": true, ".php": true, ".swift": true, ".kt": true,
	".scala": true, ".lua": true, ".pl": true, ".r": true, ".zig": true,
}

// markdownExtensions are treated as documentation, not code.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".rst":      true,
	".txt":      true,
}

// languageFallback covers extensions chroma's registry does not match.
var languageFallback = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".sh":   "shell",
	".bash": "shell",
	".go":   "go",
	".rs":   "rust",
	".yml":  "yaml",
	".yaml": "yaml",
}

// LanguageName returns a lowercase language tag for a file path. Detection
// goes through chroma's lexer registry first so the naming matches what a
// human would call the language; unknown extensions degrade to the bare
// extension.
func LanguageName(path string) string {
	if lexer := lexers.Match(filepath.Base(path)); lexer != nil {
		name := strings.ToLower(lexer.Config().Name)
		// chroma calls shell scripts "bash"; the snapshot uses "shell"
		if name == "bash" {
			return "shell"
		}
		return name
	}

	ext := strings.ToLower(filepath.Ext(path))
	if name, ok := languageFallback[ext]; ok {
		return name
	}
	if ext != "" {
		return strings.TrimPrefix(ext, ".")
	}
	return "unknown"
}

// ParseableLanguage returns the stats key for a parseable file, or "" when
// the extractor has no grammar for it.
func ParseableLanguage(path string) string {
	return parseableLanguages[strings.ToLower(filepath.Ext(path))]
}

// IsCodeFile reports whether the extension counts as code in tree rendering.
func IsCodeFile(path string) bool {
	return codeExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsMarkdownFile reports whether the file belongs in the documentation map.
func IsMarkdownFile(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}
