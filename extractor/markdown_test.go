package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test headers become sections and architecture keywords become hints
func TestExtractMarkdownStructure(t *testing.T) {
	content := []byte(`# My Project

Intro paragraph.

## Architecture Overview

### Usage

## Directory Layout ##
`)
	doc := ExtractMarkdownStructure(content)

	assert.Equal(t, []string{"My Project", "Architecture Overview", "Usage", "Directory Layout"}, doc.Sections)
	assert.Equal(t, []string{"Architecture Overview", "Directory Layout"}, doc.ArchitectureHints)
}

// Test headers inside fenced code blocks are ignored
func TestExtractMarkdownStructure_SkipsCodeBlocks(t *testing.T) {
	content := []byte("# Real Header\n\n```\n# not a header\n```\n\n## Another\n")

	doc := ExtractMarkdownStructure(content)

	assert.Equal(t, []string{"Real Header", "Another"}, doc.Sections)
}

// Test a file with no headers produces an empty structure
func TestExtractMarkdownStructure_NoHeaders(t *testing.T) {
	doc := ExtractMarkdownStructure([]byte("just prose\n\nmore prose\n"))

	assert.Empty(t, doc.Sections)
	assert.Empty(t, doc.ArchitectureHints)
}
