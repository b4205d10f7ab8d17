package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/RichelynScott/claude-code-project-index/constants/lipgloss"
	"github.com/RichelynScott/claude-code-project-index/index/models"
)

const (
	// DefaultMaxBackups is the rotation cap for prior snapshots.
	DefaultMaxBackups = 10
	// maxLogEntries caps the append-only log.
	maxLogEntries = 100

	logFileName      = "PROJECT_INDEX_backups_log.json"
	backupNamePrefix = "PROJECT_INDEX_"
	logVersion       = "1.0"
)

// Entry records the effect of one pipeline run on the persisted snapshot.
type Entry struct {
	Timestamp         string             `json:"timestamp"`
	BackupFilename    string             `json:"backup_filename"`
	BackupSizeBytes   int64              `json:"backup_size_bytes"`
	PreviousStats     *models.Stats      `json:"previous_stats"`
	NewStats          *models.Stats      `json:"new_stats"`
	Changes           *ChangeCounts      `json:"changes"`
	FileChanges       models.FileChanges `json:"file_changes"`
	SignificanceLevel string             `json:"significance_level"`
	Notes             string             `json:"notes"`
	OperationSuccess  bool               `json:"operation_success"`
}

// ChangeCounts summarizes a run's file-level delta.
type ChangeCounts struct {
	FilesAdded       int `json:"files_added"`
	FilesRemoved     int `json:"files_removed"`
	FilesModified    int `json:"files_modified"`
	DirectoriesAdded int `json:"directories_added"`
}

// Log is the on-disk backup log document.
type Log struct {
	LogVersion  string  `json:"log_version"`
	CreatedAt   string  `json:"created_at"`
	ProjectPath string  `json:"project_path"`
	Description string  `json:"description"`
	MaxBackups  int     `json:"max_backups"`
	Entries     []Entry `json:"entries"`
}

// Manager owns the backup directory and the loaded log for the duration of
// one pipeline run: load at start, append, persist at the end. It is the
// sole writer of both.
type Manager struct {
	dir        string
	maxBackups int
	log        *Log

	// BackupPath is this run's verbatim copy of the previous snapshot, or
	// "" when there was nothing to back up.
	BackupPath string

	pending    Entry
	hasPending bool
}

// NewManager loads the existing backup log from dir, or initializes a fresh
// one. The directory is created on demand.
func NewManager(dir string, maxBackups int, projectPath string) *Manager {
	if maxBackups < 1 {
		maxBackups = DefaultMaxBackups
	}
	return &Manager{
		dir:        dir,
		maxBackups: maxBackups,
		log:        loadLog(dir, maxBackups, projectPath),
	}
}

// Dir returns the backup directory path.
func (m *Manager) Dir() string { return m.dir }

// Log returns the loaded backup log.
func (m *Manager) Log() *Log { return m.log }

func loadLog(dir string, maxBackups int, projectPath string) *Log {
	logPath := filepath.Join(dir, logFileName)
	if data, err := os.ReadFile(logPath); err == nil {
		var log Log
		if err := json.Unmarshal(data, &log); err == nil {
			return &log
		}
		fmt.Println(lipgloss.Yellow.Render("⚠️  Could not parse backup log, creating new one"))
	}
	return &Log{
		LogVersion:  logVersion,
		CreatedAt:   time.Now().Format(time.RFC3339),
		ProjectPath: projectPath,
		Description: "Backup log for PROJECT_INDEX.json - tracks changes made by the index command",
		MaxBackups:  maxBackups,
		Entries:     []Entry{},
	}
}

// CreateBackup copies the current persisted snapshot into the backup
// directory under a timestamp-derived name and enforces rotation. A missing
// snapshot (first run) is not an error. Backup failures are warnings; the
// pipeline continues without rollback protection.
func (m *Manager) CreateBackup(indexPath string) error {
	m.pending = Entry{
		Timestamp: time.Now().Format(time.RFC3339),
		Notes:     "No existing index to back up",
	}
	m.hasPending = true

	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		fmt.Println("ℹ️  No existing PROJECT_INDEX.json to backup")
		return nil
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		m.pending.Notes = fmt.Sprintf("Backup failed: %v", err)
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupName := fmt.Sprintf("%s%s.json", backupNamePrefix, time.Now().Format("20060102_150405"))
	backupPath := filepath.Join(m.dir, backupName)

	if err := copyFile(indexPath, backupPath); err != nil {
		m.pending.Notes = fmt.Sprintf("Backup failed: %v", err)
		return fmt.Errorf("backup failed: %w", err)
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		m.pending.Notes = fmt.Sprintf("Backup failed: %v", err)
		return fmt.Errorf("backup failed: %w", err)
	}

	m.BackupPath = backupPath
	m.pending.BackupFilename = backupName
	m.pending.BackupSizeBytes = info.Size()
	m.pending.Notes = "Backup created successfully"

	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("💾 Backup created: %s (%d bytes)", backupName, info.Size())))

	if err := m.Rotate(); err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠️  Backup rotation failed: %v", err)))
	}
	return nil
}

// Rotate deletes backup files beyond the configured cap, newest kept,
// ordered by modification time.
func (m *Manager) Rotate() error {
	pattern := filepath.Join(m.dir, backupNamePrefix+"*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	type backupFile struct {
		path    string
		modTime time.Time
	}
	var backups []backupFile
	for _, match := range matches {
		if filepath.Base(match) == logFileName {
			continue
		}
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		backups = append(backups, backupFile{path: match, modTime: info.ModTime()})
	}

	// Newest first
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].modTime.After(backups[j].modTime)
	})

	for _, old := range backups[min(m.maxBackups, len(backups)):] {
		if err := os.Remove(old.path); err != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠️  Could not remove %s: %v", filepath.Base(old.path), err)))
			continue
		}
		fmt.Printf("🗑️  Removed old backup: %s\n", filepath.Base(old.path))
	}
	return nil
}

// Complete fills this run's log entry with the change analysis results and
// the final outcome, and appends it to the log.
func (m *Manager) Complete(change *models.ChangeData, success bool) {
	if !m.hasPending {
		return
	}

	entry := m.pending
	entry.OperationSuccess = success

	if change != nil {
		entry.PreviousStats = change.OldStats
		entry.NewStats = change.NewStats
		entry.FileChanges = change.FileChanges
		entry.SignificanceLevel = change.SignificanceLevel

		counts := &ChangeCounts{
			FilesAdded:    len(change.FileChanges.FilesAdded),
			FilesRemoved:  len(change.FileChanges.FilesRemoved),
			FilesModified: len(change.FileChanges.FilesModified),
		}
		if change.OldStats != nil && change.NewStats != nil {
			counts.DirectoriesAdded = change.NewStats.TotalDirectories - change.OldStats.TotalDirectories
		}
		entry.Changes = counts

		if change.Notes != "" {
			if entry.Notes != "" {
				entry.Notes += " | "
			}
			entry.Notes += change.Notes
		}
	}
	if !success {
		entry.Notes += " | Success: false"
	}

	m.log.Entries = append(m.log.Entries, entry)
	if len(m.log.Entries) > maxLogEntries {
		m.log.Entries = m.log.Entries[len(m.log.Entries)-maxLogEntries:]
	}
	m.hasPending = false
}

// Save persists the backup log. Log I/O failures are warnings, not errors:
// backups are best-effort safety, not correctness-critical.
func (m *Manager) Save() {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠️  Could not save backup log: %v", err)))
		return
	}
	data, err := json.MarshalIndent(m.log, "", "  ")
	if err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠️  Could not encode backup log: %v", err)))
		return
	}
	if err := os.WriteFile(filepath.Join(m.dir, logFileName), data, 0644); err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠️  Could not save backup log: %v", err)))
	}
}
