package models

import (
	"encoding/json"
	"fmt"
)

// Index is the persisted structural snapshot for one run. It is constructed
// fresh on every invocation and fully replaces the previous snapshot on disk.
type Index struct {
	IndexedAt         string                   `json:"indexed_at"`
	Root              string                   `json:"root"`
	ProjectStructure  ProjectStructure         `json:"project_structure"`
	DocumentationMap  map[string]*DocStructure `json:"documentation_map"`
	DirectoryPurposes map[string]string        `json:"directory_purposes"`
	Stats             Stats                    `json:"stats"`
	Files             map[string]*FileRecord   `json:"files"`
	DependencyGraph   map[string][]string      `json:"dependency_graph"`
	StalenessCheck    int64                    `json:"staleness_check"`
}

// NewIndex returns an Index with all maps initialized so the serialized form
// always carries every top-level key.
func NewIndex() *Index {
	return &Index{
		ProjectStructure: ProjectStructure{
			Type: "tree",
			Root: ".",
		},
		DocumentationMap:  make(map[string]*DocStructure),
		DirectoryPurposes: make(map[string]string),
		Stats: Stats{
			FullyParsed: make(map[string]int),
			ListedOnly:  make(map[string]int),
		},
		Files:           make(map[string]*FileRecord),
		DependencyGraph: make(map[string][]string),
	}
}

// ProjectStructure holds the pre-rendered directory tree.
type ProjectStructure struct {
	Type string   `json:"type"`
	Root string   `json:"root"`
	Tree []string `json:"tree"`
}

// Stats aggregates per-snapshot counters. FullyParsed and ListedOnly are
// keyed by language name.
type Stats struct {
	TotalFiles       int            `json:"total_files"`
	TotalDirectories int            `json:"total_directories"`
	FullyParsed      map[string]int `json:"fully_parsed"`
	ListedOnly       map[string]int `json:"listed_only"`
	MarkdownFiles    int            `json:"markdown_files"`
}

// ParsedCount sums the fully-parsed file counts across languages.
func (s Stats) ParsedCount() int {
	total := 0
	for _, n := range s.FullyParsed {
		total += n
	}
	return total
}

// FileRecord carries the per-file metadata produced by the extraction
// collaborator and enriched by the graph builders.
type FileRecord struct {
	Language  string             `json:"language"`
	Parsed    bool               `json:"parsed"`
	Purpose   string             `json:"purpose,omitempty"`
	Functions map[string]*Symbol `json:"functions,omitempty"`
	Classes   map[string]*Class  `json:"classes,omitempty"`
	Imports   []string           `json:"imports,omitempty"`
}

// Class groups methods keyed by bare method name.
type Class struct {
	Methods map[string]*Symbol `json:"methods"`
}

// DocStructure is the documentation-map entry for one markdown file.
type DocStructure struct {
	Sections          []string `json:"sections"`
	ArchitectureHints []string `json:"architecture_hints"`
}

// Symbol is a function or method record. It has two serialized shapes: a
// bare signature string while it carries no call edges, and a structured
// object once the extractor recorded outgoing calls or the call graph
// builder attached callers. Both shapes round-trip through JSON.
type Symbol struct {
	Signature string
	Calls     []string
	CalledBy  []string
}

// symbolJSON is the structured wire shape of a Symbol.
type symbolJSON struct {
	Signature string   `json:"signature,omitempty"`
	Calls     []string `json:"calls,omitempty"`
	CalledBy  []string `json:"called_by,omitempty"`
}

// Structured reports whether the symbol carries any call edge and therefore
// serializes as an object rather than a bare string.
func (s *Symbol) Structured() bool {
	return len(s.Calls) > 0 || len(s.CalledBy) > 0
}

func (s *Symbol) MarshalJSON() ([]byte, error) {
	if !s.Structured() {
		return json.Marshal(s.Signature)
	}
	return json.Marshal(symbolJSON{
		Signature: s.Signature,
		Calls:     s.Calls,
		CalledBy:  s.CalledBy,
	})
}

func (s *Symbol) UnmarshalJSON(data []byte) error {
	var sig string
	if err := json.Unmarshal(data, &sig); err == nil {
		*s = Symbol{Signature: sig}
		return nil
	}

	var obj symbolJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("symbol is neither a signature string nor an object: %w", err)
	}
	*s = Symbol{
		Signature: obj.Signature,
		Calls:     obj.Calls,
		CalledBy:  obj.CalledBy,
	}
	return nil
}

// FileChanges lists the file-level delta between two snapshots.
type FileChanges struct {
	FilesAdded    []string `json:"files_added"`
	FilesRemoved  []string `json:"files_removed"`
	FilesModified []string `json:"files_modified"`
}

// Significance levels reported by the change analyzer.
const (
	SignificanceAutoApproved         = "auto_approved"
	SignificanceRequiresConfirmation = "requires_confirmation"
)

// ChangeData is the structured result of comparing the new snapshot against
// the previous persisted one.
type ChangeData struct {
	OldStats          *Stats      `json:"old_stats"`
	NewStats          *Stats      `json:"new_stats"`
	FileChanges       FileChanges `json:"file_changes"`
	SignificanceLevel string      `json:"significance_level"`
	Notes             string      `json:"notes"`
}
