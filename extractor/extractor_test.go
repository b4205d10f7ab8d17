package extractor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test dispatch by extension and the no-grammar error
func TestExtractor_Dispatch(t *testing.T) {
	ex := New(nil)

	result, err := ex.Extract("/x/script.py", "script.py", []byte("def f():\n    pass\n"))
	require.NoError(t, err)
	assert.Contains(t, result.Functions, "f")

	_, err = ex.Extract("/x/data.csv", "data.csv", []byte("a,b\n"))
	assert.Error(t, err)
}

// Test shell function definitions and their command calls
func TestExtractShell(t *testing.T) {
	source := []byte(`#!/bin/bash

build_index() {
    generate_tree "$1"
    jq . index.json
}
`)
	result, err := extractShell(source)
	require.NoError(t, err)

	require.Contains(t, result.Functions, "build_index")
	assert.Equal(t, "build_index()", result.Functions["build_index"].Signature)
	assert.Contains(t, result.Functions["build_index"].Calls, "generate_tree")
	assert.Contains(t, result.Functions["build_index"].Calls, "jq")
}

// Test cached extractions survive a round trip and invalidate on modification
func TestCache_RoundTripAndInvalidation(t *testing.T) {
	tempDir := t.TempDir()
	cache, err := NewCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	sourcePath := filepath.Join(tempDir, "mod.py")
	require.NoError(t, os.WriteFile(sourcePath, []byte("def f():\n    pass\n"), 0644))

	_, found := cache.Get(sourcePath)
	assert.False(t, found)

	ex := New(cache)
	first, err := ex.Extract(sourcePath, "mod.py", []byte("def f():\n    pass\n"))
	require.NoError(t, err)

	cached, found := cache.Get(sourcePath)
	require.True(t, found)
	assert.Equal(t, first.Functions["f"].Signature, cached.Functions["f"].Signature)

	// Modify the source: the entry must drop
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(sourcePath, []byte("def g():\n    pass\n"), 0644))

	_, found = cache.Get(sourcePath)
	assert.False(t, found)

	// Misses: the probe before Extract, the probe inside Extract, and the
	// post-modification probe
	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(3), misses)
}

// Test Clear empties the cache directory
func TestCache_Clear(t *testing.T) {
	tempDir := t.TempDir()
	cache, err := NewCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	sourcePath := filepath.Join(tempDir, "mod.py")
	require.NoError(t, os.WriteFile(sourcePath, []byte("x = 1\n"), 0644))
	require.NoError(t, cache.Set(sourcePath, &Extraction{}))

	require.NoError(t, cache.Clear())

	entries, err := os.ReadDir(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
