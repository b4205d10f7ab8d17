package index

import (
	"encoding/json"
	"fmt"

	"github.com/RichelynScott/claude-code-project-index/constants/lipgloss"
	"github.com/RichelynScott/claude-code-project-index/index/models"
)

// MaxIndexSize is the serialized-size budget for a snapshot.
const MaxIndexSize = 1024 * 1024

// maxTreeLines is how much of the rendered tree survives the first
// degradation step.
const maxTreeLines = 100

// Compress enforces the serialized-size budget by progressively degrading
// detail: first the directory tree is truncated, then unparsed file records
// are dropped one at a time. Fully-parsed records are never removed; if the
// budget still cannot be met the oversized snapshot is accepted as-is.
func Compress(idx *models.Index, maxSize int) *models.Index {
	size, err := serializedSize(idx)
	if err != nil || size <= maxSize {
		return idx
	}

	fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠️  Index too large (%d bytes), compressing...", size)))

	if len(idx.ProjectStructure.Tree) > maxTreeLines {
		idx.ProjectStructure.Tree = append(idx.ProjectStructure.Tree[:maxTreeLines], "... (truncated)")
	}

	for {
		size, err = serializedSize(idx)
		if err != nil || size <= maxSize {
			break
		}
		if !removeOneUnparsed(idx) {
			break
		}
	}
	return idx
}

func serializedSize(idx *models.Index) (int, error) {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// removeOneUnparsed drops a single not-fully-parsed file record, reporting
// whether one was found.
func removeOneUnparsed(idx *models.Index) bool {
	for path, record := range idx.Files {
		if !record.Parsed {
			delete(idx.Files, path)
			return true
		}
	}
	return false
}
