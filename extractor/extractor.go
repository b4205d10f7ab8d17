package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/RichelynScott/claude-code-project-index/index/models"
)

// Extraction is the per-file output of the extraction collaborator: symbol
// records with best-effort call lists plus raw import strings as written in
// source.
type Extraction struct {
	Functions map[string]*models.Symbol
	Classes   map[string]*models.Class
	Imports   []string
}

// Empty reports whether nothing was extracted.
func (e *Extraction) Empty() bool {
	return len(e.Functions) == 0 && len(e.Classes) == 0 && len(e.Imports) == 0
}

// Extractor turns file contents into Extraction records, consulting a cache
// keyed by file path when one is configured.
type Extractor struct {
	cache *Cache
}

// New returns an Extractor. A nil cache disables caching.
func New(cache *Cache) *Extractor {
	return &Extractor{cache: cache}
}

// Extract parses one source file. absPath is used only for cache lookups;
// dispatch is by the extension of relPath. Returns an error when the file's
// language is parseable but parsing failed; the caller downgrades such files
// to listed-only.
func (e *Extractor) Extract(absPath, relPath string, source []byte) (*Extraction, error) {
	if e.cache != nil {
		if cached, found := e.cache.Get(absPath); found {
			return cached, nil
		}
	}

	ext := strings.ToLower(filepath.Ext(relPath))
	var (
		result *Extraction
		err    error
	)
	switch ext {
	case ".py":
		result, err = extractPython(source)
	case ".js", ".jsx":
		result, err = extractJavaScript(source)
	case ".ts", ".tsx":
		result, err = extractTypeScript(source, ext)
	case ".sh", ".bash":
		result, err = extractShell(source)
	default:
		return nil, fmt.Errorf("no extractor for %q files", ext)
	}
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		// Cache write failures only cost a re-parse next run
		_ = e.cache.Set(absPath, result)
	}
	return result, nil
}

func newExtraction() *Extraction {
	return &Extraction{
		Functions: make(map[string]*models.Symbol),
		Classes:   make(map[string]*models.Class),
	}
}

// parse runs a tree-sitter grammar over the source and returns the root node.
func parse(lang *sitter.Language, source []byte) (*sitter.Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree := parser.Parse(nil, source)
	if tree == nil {
		return nil, fmt.Errorf("parser produced no syntax tree")
	}
	return tree.RootNode(), nil
}

// namedChildren collects the named children of a node.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		children = append(children, n.NamedChild(i))
	}
	return children
}

func fieldText(n *sitter.Node, field string, source []byte) string {
	if n == nil {
		return ""
	}
	child := n.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Content(source)
}

// appendUnique appends value to list unless already present, preserving
// first-seen order.
func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// walkSubtree visits every named node under root, including root itself.
func walkSubtree(root *sitter.Node, visit func(*sitter.Node)) {
	if root == nil {
		return
	}
	visit(root)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		walkSubtree(root.NamedChild(i), visit)
	}
}
