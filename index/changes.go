package index

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/RichelynScott/claude-code-project-index/constants/lipgloss"
	"github.com/RichelynScott/claude-code-project-index/index/models"
)

// Significance thresholds: deltas beyond these require operator confirmation
// before the new snapshot replaces the old one.
const (
	fileChangeThreshold   = 10
	dirChangeThreshold    = 5
	filesRemovedThreshold = 5
	parseRatioThreshold   = 0.2
)

// ReadIndex loads a persisted snapshot from disk.
func ReadIndex(path string) (*models.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx models.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	return &idx, nil
}

// FileLevelChanges computes the added/removed/modified file sets between two
// snapshots. A file counts as modified when its function or class count
// differs; body-only edits that keep the counts stable are reported
// unmodified, a deliberate cheap heuristic. A nil old snapshot reports all
// current files as added.
func FileLevelChanges(old, current *models.Index) models.FileChanges {
	changes := models.FileChanges{
		FilesAdded:    []string{},
		FilesRemoved:  []string{},
		FilesModified: []string{},
	}

	if old == nil {
		for path := range current.Files {
			changes.FilesAdded = append(changes.FilesAdded, path)
		}
		sort.Strings(changes.FilesAdded)
		return changes
	}

	for path := range current.Files {
		if _, ok := old.Files[path]; !ok {
			changes.FilesAdded = append(changes.FilesAdded, path)
		}
	}
	for path, oldRecord := range old.Files {
		newRecord, ok := current.Files[path]
		if !ok {
			changes.FilesRemoved = append(changes.FilesRemoved, path)
			continue
		}
		if len(oldRecord.Functions) != len(newRecord.Functions) ||
			len(oldRecord.Classes) != len(newRecord.Classes) {
			changes.FilesModified = append(changes.FilesModified, path)
		}
	}

	sort.Strings(changes.FilesAdded)
	sort.Strings(changes.FilesRemoved)
	sort.Strings(changes.FilesModified)
	return changes
}

// AnalyzeChanges diffs the new snapshot against the previously persisted one
// at previousPath and classifies the magnitude of change. A missing or
// unreadable previous snapshot auto-approves with all files reported as
// added; unreadability is surfaced as a distinct note.
func AnalyzeChanges(previousPath string, newIdx *models.Index) (bool, *models.ChangeData) {
	newStats := newIdx.Stats
	changeData := &models.ChangeData{
		NewStats:          &newStats,
		SignificanceLevel: models.SignificanceAutoApproved,
	}

	if previousPath == "" {
		fmt.Println("📝 Creating new index (no previous version)")
		changeData.FileChanges = FileLevelChanges(nil, newIdx)
		changeData.Notes = "Initial index creation"
		return false, changeData
	}

	oldIdx, err := ReadIndex(previousPath)
	if err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠️  Could not read previous index: %v", err)))
		changeData.FileChanges = FileLevelChanges(nil, newIdx)
		changeData.Notes = fmt.Sprintf("Could not read previous index: %v", err)
		return false, changeData
	}

	fmt.Println("\n🔍 Analyzing changes...")

	oldStats := oldIdx.Stats
	changeData.OldStats = &oldStats

	fileChange := newStats.TotalFiles - oldStats.TotalFiles
	dirChange := newStats.TotalDirectories - oldStats.TotalDirectories

	fmt.Println("📊 Statistics comparison:")
	fmt.Printf("   Files: %d → %d (%+d)\n", oldStats.TotalFiles, newStats.TotalFiles, fileChange)
	fmt.Printf("   Directories: %d → %d (%+d)\n", oldStats.TotalDirectories, newStats.TotalDirectories, dirChange)

	fileChanges := FileLevelChanges(oldIdx, newIdx)
	changeData.FileChanges = fileChanges
	printFileList("added", "+", fileChanges.FilesAdded)
	printFileList("removed", "-", fileChanges.FilesRemoved)
	printFileList("modified", "~", fileChanges.FilesModified)

	var reasons []string

	if abs(fileChange) > fileChangeThreshold {
		reasons = append(reasons, fmt.Sprintf("Large file count change: %d files", abs(fileChange)))
	}
	if abs(dirChange) > dirChangeThreshold {
		reasons = append(reasons, fmt.Sprintf("Large directory count change: %d directories", abs(dirChange)))
	}
	if len(fileChanges.FilesRemoved) > filesRemovedThreshold {
		reasons = append(reasons, fmt.Sprintf("Many files removed: %d", len(fileChanges.FilesRemoved)))
	}

	if oldStats.TotalFiles > 0 && newStats.TotalFiles > 0 {
		oldRatio := float64(oldStats.ParsedCount()) / float64(oldStats.TotalFiles)
		newRatio := float64(newStats.ParsedCount()) / float64(newStats.TotalFiles)
		if diff := newRatio - oldRatio; diff > parseRatioThreshold || diff < -parseRatioThreshold {
			reasons = append(reasons, fmt.Sprintf("Parsing ratio changed: %.1f%% → %.1f%%", oldRatio*100, newRatio*100))
		}
	}

	if len(reasons) > 0 {
		for _, reason := range reasons {
			fmt.Println(lipgloss.Yellow.Render("⚠️  " + reason))
		}
		changeData.SignificanceLevel = models.SignificanceRequiresConfirmation
		changeData.Notes = strings.Join(reasons, "; ")
		return true, changeData
	}

	changeData.Notes = fmt.Sprintf("Routine update: %+d files, %+d directories", fileChange, dirChange)
	fmt.Println(lipgloss.Green.Render("✅ Changes look reasonable"))
	return false, changeData
}

// printFileList shows up to five entries of a change list, eliding the rest.
func printFileList(label, marker string, files []string) {
	if len(files) == 0 {
		return
	}
	fmt.Printf("   📄 Files %s: %d\n", label, len(files))
	shown := files
	if len(files) > 5 {
		shown = files[:3]
	}
	for _, file := range shown {
		fmt.Printf("      %s %s\n", marker, file)
	}
	if len(files) > 5 {
		fmt.Printf("      ... and %d more\n", len(files)-3)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
