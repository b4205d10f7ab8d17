package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RichelynScott/claude-code-project-index/index/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test a backup is a verbatim copy and the pending entry records its size
func TestManager_CreateBackup(t *testing.T) {
	tempDir := t.TempDir()
	indexPath := filepath.Join(tempDir, "PROJECT_INDEX.json")
	content := []byte(`{"indexed_at":"2026-08-23T00:00:00Z"}`)
	require.NoError(t, os.WriteFile(indexPath, content, 0644))

	mgr := NewManager(filepath.Join(tempDir, ".claude-index-backups"), 10, tempDir)
	require.NoError(t, mgr.CreateBackup(indexPath))

	require.NotEmpty(t, mgr.BackupPath)
	copied, err := os.ReadFile(mgr.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, content, copied)
}

// Test a missing index is not an error on the first run
func TestManager_CreateBackupFirstRun(t *testing.T) {
	tempDir := t.TempDir()
	mgr := NewManager(filepath.Join(tempDir, ".claude-index-backups"), 10, tempDir)

	err := mgr.CreateBackup(filepath.Join(tempDir, "PROJECT_INDEX.json"))

	require.NoError(t, err)
	assert.Empty(t, mgr.BackupPath)
}

// Test rotation keeps the newest backups up to the cap and spares the log file
func TestManager_Rotate(t *testing.T) {
	tempDir := t.TempDir()
	backupDir := filepath.Join(tempDir, ".claude-index-backups")
	require.NoError(t, os.MkdirAll(backupDir, 0755))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		name := fmt.Sprintf("PROJECT_INDEX_2026082%d_%06d.json", i%10, i)
		path := filepath.Join(backupDir, name)
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
		stamp := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, stamp, stamp))
	}
	logPath := filepath.Join(backupDir, "PROJECT_INDEX_backups_log.json")
	require.NoError(t, os.WriteFile(logPath, []byte("{}"), 0644))

	mgr := NewManager(backupDir, 10, tempDir)
	require.NoError(t, mgr.Rotate())

	matches, err := filepath.Glob(filepath.Join(backupDir, "PROJECT_INDEX_*.json"))
	require.NoError(t, err)

	var kept []string
	for _, match := range matches {
		if filepath.Base(match) != "PROJECT_INDEX_backups_log.json" {
			kept = append(kept, match)
		}
	}
	assert.Equal(t, 10, len(kept))

	// The five oldest are gone
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("PROJECT_INDEX_2026082%d_%06d.json", i%10, i)
		_, err := os.Stat(filepath.Join(backupDir, name))
		assert.True(t, os.IsNotExist(err), "expected %s to be removed", name)
	}

	_, err = os.Stat(logPath)
	assert.NoError(t, err)
}

// Test the log round-trips through Save and a fresh Manager
func TestManager_LogRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	backupDir := filepath.Join(tempDir, ".claude-index-backups")

	mgr := NewManager(backupDir, 10, tempDir)
	require.NoError(t, mgr.CreateBackup(filepath.Join(tempDir, "missing.json")))

	change := &models.ChangeData{
		NewStats:          &models.Stats{TotalFiles: 3, TotalDirectories: 1},
		SignificanceLevel: models.SignificanceAutoApproved,
		Notes:             "Initial index creation",
		FileChanges: models.FileChanges{
			FilesAdded: []string{"a.py", "b.py", "c.py"},
		},
	}
	mgr.Complete(change, true)
	mgr.Save()

	reloaded := NewManager(backupDir, 10, tempDir)
	log := reloaded.Log()
	require.Equal(t, 1, len(log.Entries))

	entry := log.Entries[0]
	assert.True(t, entry.OperationSuccess)
	assert.Equal(t, models.SignificanceAutoApproved, entry.SignificanceLevel)
	assert.Equal(t, 3, entry.Changes.FilesAdded)
	assert.Contains(t, entry.Notes, "Initial index creation")
	assert.Equal(t, "1.0", log.LogVersion)
	assert.Equal(t, tempDir, log.ProjectPath)
}

// Test the log is capped at 100 entries, oldest dropped
func TestManager_LogTruncation(t *testing.T) {
	tempDir := t.TempDir()
	mgr := NewManager(filepath.Join(tempDir, ".claude-index-backups"), 10, tempDir)

	missing := filepath.Join(tempDir, "missing.json")
	for i := 0; i < 105; i++ {
		require.NoError(t, mgr.CreateBackup(missing))
		mgr.Complete(&models.ChangeData{Notes: fmt.Sprintf("run %d", i)}, true)
	}

	entries := mgr.Log().Entries
	require.Equal(t, 100, len(entries))
	assert.Contains(t, entries[0].Notes, "run 5")
	assert.Contains(t, entries[99].Notes, "run 104")
}

// Test a run whose save fails leaves the previous index byte for byte
// unchanged and persists a log entry marked unsuccessful
func TestManager_FailedSaveLogsFailure(t *testing.T) {
	tempDir := t.TempDir()
	backupDir := filepath.Join(tempDir, ".claude-index-backups")
	indexPath := filepath.Join(tempDir, "PROJECT_INDEX.json")

	original := []byte(`{"indexed_at":"2026-08-22T00:00:00Z"}`)
	require.NoError(t, os.WriteFile(indexPath, original, 0644))

	mgr := NewManager(backupDir, 10, tempDir)
	require.NoError(t, mgr.CreateBackup(indexPath))
	require.NotEmpty(t, mgr.BackupPath)

	// A directory squatting on the temp path makes the write fail mid-persist
	require.NoError(t, os.MkdirAll(indexPath+".tmp", 0755))

	err := SafeSaveIndex(models.NewIndex(), indexPath, mgr.BackupPath)
	require.Error(t, err)

	mgr.Complete(&models.ChangeData{
		NewStats:          &models.Stats{TotalFiles: 1},
		SignificanceLevel: models.SignificanceAutoApproved,
		Notes:             "Routine update: +0 files, +0 directories",
	}, false)
	mgr.Save()

	data, readErr := os.ReadFile(indexPath)
	require.NoError(t, readErr)
	assert.Equal(t, original, data)

	reloaded := NewManager(backupDir, 10, tempDir)
	require.Equal(t, 1, len(reloaded.Log().Entries))
	entry := reloaded.Log().Entries[0]
	assert.False(t, entry.OperationSuccess)
	assert.Contains(t, entry.Notes, "Success: false")
	assert.Equal(t, models.SignificanceAutoApproved, entry.SignificanceLevel)
}

// Test a failed backup copy records what went wrong instead of the
// no-previous-index note
func TestManager_CreateBackupFailureNote(t *testing.T) {
	tempDir := t.TempDir()
	indexPath := filepath.Join(tempDir, "PROJECT_INDEX.json")
	require.NoError(t, os.WriteFile(indexPath, []byte("{}"), 0644))

	// A file squatting on the backup directory path makes MkdirAll fail
	blocked := filepath.Join(tempDir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))

	mgr := NewManager(blocked, 10, tempDir)
	err := mgr.CreateBackup(indexPath)
	require.Error(t, err)

	mgr.Complete(nil, false)
	entries := mgr.Log().Entries
	require.Equal(t, 1, len(entries))
	assert.False(t, entries[0].OperationSuccess)
	assert.Contains(t, entries[0].Notes, "Backup failed")
	assert.NotContains(t, entries[0].Notes, "No existing index")
}

// Test a corrupt log file is replaced with a fresh one
func TestManager_CorruptLogReset(t *testing.T) {
	tempDir := t.TempDir()
	backupDir := filepath.Join(tempDir, ".claude-index-backups")
	require.NoError(t, os.MkdirAll(backupDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, "PROJECT_INDEX_backups_log.json"), []byte("not json"), 0644))

	mgr := NewManager(backupDir, 10, tempDir)

	assert.Empty(t, mgr.Log().Entries)
	assert.Equal(t, "1.0", mgr.Log().LogVersion)
}

// Test atomic save leaves a decodable index and no temp file behind
func TestSafeSaveIndex_Success(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "PROJECT_INDEX.json")

	idx := models.NewIndex()
	idx.IndexedAt = "2026-08-23T00:00:00Z"
	idx.Files["main.py"] = &models.FileRecord{Language: "Python", Parsed: true}

	require.NoError(t, SafeSaveIndex(idx, outputPath, ""))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	var decoded models.Index
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2026-08-23T00:00:00Z", decoded.IndexedAt)

	_, err = os.Stat(outputPath + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

// Test a failed write surfaces an error to the caller
func TestSafeSaveIndex_WriteFailure(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "no-such-dir", "PROJECT_INDEX.json")

	err := SafeSaveIndex(models.NewIndex(), outputPath, "")

	assert.Error(t, err)
}

// Test rollback restores the previous snapshot byte for byte
func TestRollback_RestoresBackup(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "PROJECT_INDEX.json")
	backupPath := filepath.Join(tempDir, "PROJECT_INDEX_20260823_000000.json")

	original := []byte(`{"indexed_at":"previous"}`)
	require.NoError(t, os.WriteFile(backupPath, original, 0644))
	require.NoError(t, os.WriteFile(outputPath, []byte("corrupted"), 0644))

	rollback(outputPath, backupPath)

	restored, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

// Test rollback is a no-op without a backup
func TestRollback_NoBackup(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "PROJECT_INDEX.json")
	require.NoError(t, os.WriteFile(outputPath, []byte("current"), 0644))

	rollback(outputPath, "")
	rollback(outputPath, filepath.Join(tempDir, "missing.json"))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("current"), data)
}
