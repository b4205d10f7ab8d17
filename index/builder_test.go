package index

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/RichelynScott/claude-code-project-index/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test a full build over a small project: records, stats, graphs, docs and
// purposes all populated
func TestBuilder_Build(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "README.md"), "# Demo\n\n## Architecture\n")
	writeFile(t, filepath.Join(root, "main.py"), `from utils.helpers import format_name

def main():
    print(format_name("x"))
`)
	writeFile(t, filepath.Join(root, "utils", "helpers.py"), `def format_name(name):
    return name.strip()
`)
	writeFile(t, filepath.Join(root, "assets", "style.css"), "body {}")

	builder := NewBuilder(extractor.New(nil))
	idx, skipped, err := builder.Build(root)
	require.NoError(t, err)

	assert.Equal(t, 0, skipped)
	assert.Equal(t, 3, idx.Stats.TotalFiles)
	assert.Equal(t, 2, idx.Stats.TotalDirectories)
	assert.Equal(t, 1, idx.Stats.MarkdownFiles)
	assert.Equal(t, 2, idx.Stats.FullyParsed["python"])
	assert.Equal(t, 1, idx.Stats.ListedOnly["css"])

	require.Contains(t, idx.Files, "main.py")
	main := idx.Files["main.py"]
	assert.True(t, main.Parsed)
	assert.Equal(t, "Application entry point", main.Purpose)
	require.Contains(t, main.Functions, "main")
	assert.Contains(t, main.Functions["main"].Calls, "format_name")

	require.Contains(t, idx.Files, "utils/helpers.py")
	helper := idx.Files["utils/helpers.py"].Functions["format_name"]
	require.NotNil(t, helper)
	assert.Equal(t, []string{"main"}, helper.CalledBy)

	// Python package import recorded verbatim as external
	assert.Contains(t, idx.DependencyGraph["main.py"], "utils.helpers")

	require.Contains(t, idx.DocumentationMap, "README.md")
	assert.Contains(t, idx.DocumentationMap["README.md"].ArchitectureHints, "Architecture")

	assert.Equal(t, "Utility functions", idx.DirectoryPurposes["utils"])
	assert.Equal(t, "Static assets", idx.DirectoryPurposes["assets"])

	assert.NotEmpty(t, idx.IndexedAt)
	assert.NotZero(t, idx.StalenessCheck)
	assert.Equal(t, ".", idx.ProjectStructure.Tree[0])
}

// Test ignored and oversized files are counted as skipped, not indexed
func TestBuilder_SkipRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "big.py"), strings.Repeat("# padding\n", 20000))
	writeFile(t, filepath.Join(root, "image.png"), "binary")
	writeFile(t, filepath.Join(root, ".gitignore"), "generated.py\n")
	writeFile(t, filepath.Join(root, "generated.py"), "x = 2\n")
	writeFile(t, filepath.Join(root, "__pycache__", "app.cpython-312.pyc"), "bytecode")

	builder := NewBuilder(extractor.New(nil))
	idx, skipped, err := builder.Build(root)
	require.NoError(t, err)

	assert.Contains(t, idx.Files, "app.py")
	assert.NotContains(t, idx.Files, "big.py")
	assert.NotContains(t, idx.Files, "image.png")
	assert.NotContains(t, idx.Files, "generated.py")
	assert.Equal(t, 1, idx.Stats.TotalFiles)
	// big.py, image.png, generated.py, and .gitignore itself
	assert.Equal(t, 4, skipped)
}

// Test the snapshot artifact from a previous run is never indexed
func TestBuilder_SkipsOwnOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.py"), "x = 1\n")
	writeFile(t, filepath.Join(root, "PROJECT_INDEX.json"), `{"indexed_at":"earlier"}`)

	builder := NewBuilder(extractor.New(nil))
	idx, _, err := builder.Build(root)
	require.NoError(t, err)

	assert.NotContains(t, idx.Files, "PROJECT_INDEX.json")
	assert.Equal(t, 1, idx.Stats.TotalFiles)

	changes := FileLevelChanges(nil, idx)
	assert.NotContains(t, changes.FilesAdded, "PROJECT_INDEX.json")
}

// Test the file cap stops the walk instead of failing it
func TestBuilder_MaxFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.py", "b.py", "c.py", "d.py"} {
		writeFile(t, filepath.Join(root, name), "x = 1\n")
	}

	builder := NewBuilder(extractor.New(nil))
	builder.MaxFiles = 2
	idx, _, err := builder.Build(root)
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Stats.TotalFiles)
}

// Test an unreadable root is the only fatal walk error
func TestBuilder_MissingRoot(t *testing.T) {
	builder := NewBuilder(extractor.New(nil))

	_, _, err := builder.Build(filepath.Join(t.TempDir(), "does-not-exist"))

	assert.Error(t, err)
}

// Test files with imports but no definitions stay unparsed
func TestBuilder_ImportsOnlyNotParsed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "reexport.py"), "import os\n")

	builder := NewBuilder(extractor.New(nil))
	idx, _, err := builder.Build(root)
	require.NoError(t, err)

	record := idx.Files["reexport.py"]
	require.NotNil(t, record)
	assert.False(t, record.Parsed)
	assert.Empty(t, record.Imports)
	// The stats still count it as parseable
	assert.Equal(t, 1, idx.Stats.FullyParsed["python"])
}
