package extractor

import (
	"regexp"
	"strings"

	"github.com/RichelynScott/claude-code-project-index/index/models"
)

var (
	atxHeaderRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)

	// Words that mark a section as architecture-relevant for an assistant
	// deciding where code belongs.
	architectureKeywords = []string{
		"architecture", "structure", "design", "overview",
		"component", "module", "layer", "directory", "layout",
		"organization", "organisation",
	}
)

// ExtractMarkdownStructure pulls section headers and architecture-relevant
// hints out of a documentation file. Both slices empty means the file should
// be omitted from the documentation map.
func ExtractMarkdownStructure(content []byte) *models.DocStructure {
	doc := &models.DocStructure{
		Sections:          []string{},
		ArchitectureHints: []string{},
	}

	inCodeBlock := false
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}

		m := atxHeaderRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		title := m[2]
		doc.Sections = append(doc.Sections, title)

		lower := strings.ToLower(title)
		for _, kw := range architectureKeywords {
			if strings.Contains(lower, kw) {
				doc.ArchitectureHints = append(doc.ArchitectureHints, title)
				break
			}
		}
	}

	return doc
}
