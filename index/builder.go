package index

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/RichelynScott/claude-code-project-index/extractor"
	"github.com/RichelynScott/claude-code-project-index/index/models"
	"github.com/RichelynScott/claude-code-project-index/utils"
)

// Limits to keep a run fast and the snapshot small.
const (
	DefaultMaxFiles     = 10000
	DefaultMaxTreeDepth = 5
	DefaultMaxFileSize  = 100 * 1024
)

// DefaultOutputFile is the snapshot artifact name at the project root.
const DefaultOutputFile = "PROJECT_INDEX.json"

// stalenessWindow is how old a snapshot may get before downstream consumers
// should stop trusting it.
const stalenessWindow = 7 * 24 * time.Hour

// Builder walks a project root and produces a fully populated snapshot:
// file records from the extraction collaborator, the rendered tree, the
// documentation map, directory purposes, and both graphs.
type Builder struct {
	Extractor    *extractor.Extractor
	MaxFiles     int
	MaxTreeDepth int
	MaxFileSize  int64

	// OutputFile is the snapshot artifact this builder feeds; it is never
	// indexed itself.
	OutputFile string
}

// NewBuilder returns a Builder with the default limits.
func NewBuilder(ex *extractor.Extractor) *Builder {
	return &Builder{
		Extractor:    ex,
		MaxFiles:     DefaultMaxFiles,
		MaxTreeDepth: DefaultMaxTreeDepth,
		MaxFileSize:  DefaultMaxFileSize,
		OutputFile:   DefaultOutputFile,
	}
}

// Build constructs a new snapshot for rootDir. It returns the snapshot and
// the number of files skipped by ignore rules. Per-file extraction failures
// downgrade the file to listed-only; only an unreadable root is fatal.
func (b *Builder) Build(rootDir string) (*models.Index, int, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve project root: %w", err)
	}

	idx := models.NewIndex()
	idx.IndexedAt = time.Now().Format(time.RFC3339)
	idx.Root = absRoot
	idx.ProjectStructure.Tree = GenerateTree(absRoot, b.MaxTreeDepth)

	gitIgnorePatterns, err := utils.GetGitignorePatterns(absRoot)
	if err != nil {
		return nil, 0, err
	}

	fileCount := 0
	dirCount := 0
	skipped := 0
	directoryFiles := make(map[string][]string)

	walkErr := filepath.WalkDir(absRoot, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			if fullPath == absRoot {
				return err
			}
			// Unreadable subtree: skip it, keep indexing the rest
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, fullPath)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if utils.IsIgnoredDirName(d.Name()) || utils.IsDefaultIgnored(rel) {
				return filepath.SkipDir
			}
			dirCount++
			directoryFiles[rel] = []string{}
			return nil
		}

		if fileCount >= b.MaxFiles {
			return filepath.SkipAll
		}
		// The snapshot never indexes itself
		if rel == b.OutputFile {
			return nil
		}
		if utils.IsDefaultIgnored(rel) || utils.IsGitIgnored(rel, gitIgnorePatterns) {
			skipped++
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > b.MaxFileSize {
			skipped++
			return nil
		}

		if parent := path.Dir(rel); parent != "." {
			if _, tracked := directoryFiles[parent]; tracked {
				directoryFiles[parent] = append(directoryFiles[parent], d.Name())
			}
		}

		if extractor.IsMarkdownFile(rel) {
			content, err := os.ReadFile(fullPath)
			if err != nil {
				skipped++
				return nil
			}
			doc := extractor.ExtractMarkdownStructure(content)
			if len(doc.Sections) > 0 || len(doc.ArchitectureHints) > 0 {
				idx.DocumentationMap[rel] = doc
				idx.Stats.MarkdownFiles++
			}
			return nil
		}

		idx.Files[rel] = b.buildFileRecord(fullPath, rel, &idx.Stats)
		fileCount++
		return nil
	})
	if walkErr != nil {
		return nil, skipped, fmt.Errorf("failed to walk project root: %w", walkErr)
	}

	for dirPath, names := range directoryFiles {
		if len(names) == 0 {
			continue
		}
		if purpose := extractor.InferDirectoryPurpose(dirPath, names); purpose != "" {
			idx.DirectoryPurposes[dirPath] = purpose
		}
	}

	idx.Stats.TotalFiles = fileCount
	idx.Stats.TotalDirectories = dirCount

	ResolveDependencies(idx)
	BuildCallGraph(idx)

	idx.StalenessCheck = time.Now().Add(-stalenessWindow).Unix()
	return idx, skipped, nil
}

// buildFileRecord runs the extraction collaborator over one code file,
// updating the parsed/listed stats. Extraction failure lists the file
// without symbols rather than failing the run.
func (b *Builder) buildFileRecord(fullPath, rel string, stats *models.Stats) *models.FileRecord {
	language := extractor.LanguageName(rel)
	record := &models.FileRecord{Language: language}
	if purpose := extractor.InferFilePurpose(rel); purpose != "" {
		record.Purpose = purpose
	}

	langKey := extractor.ParseableLanguage(rel)
	if langKey == "" {
		stats.ListedOnly[language]++
		return record
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		stats.ListedOnly[language]++
		return record
	}

	ex, err := b.Extractor.Extract(fullPath, rel, content)
	if err != nil {
		stats.ListedOnly[language]++
		return record
	}

	// Symbols attach only when something was found; a file with imports but
	// no definitions stays unparsed.
	if len(ex.Functions) > 0 || len(ex.Classes) > 0 {
		if len(ex.Functions) > 0 {
			record.Functions = ex.Functions
		}
		if len(ex.Classes) > 0 {
			record.Classes = ex.Classes
		}
		record.Imports = ex.Imports
		record.Parsed = true
	}
	stats.FullyParsed[langKey]++
	return record
}

// sortedFilePaths returns the file keys of a snapshot in lexical order so
// graph construction is deterministic.
func sortedFilePaths(idx *models.Index) []string {
	paths := make([]string, 0, len(idx.Files))
	for p := range idx.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
