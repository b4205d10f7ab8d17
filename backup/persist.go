package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/RichelynScott/claude-code-project-index/constants/lipgloss"
	"github.com/RichelynScott/claude-code-project-index/index/models"
)

// SafeSaveIndex persists the snapshot atomically: the JSON document is
// written to a temp file in the destination directory and renamed into
// place, so readers never observe a partial index. On failure the previous
// snapshot is restored from backupPath when one exists; a rollback failure
// is reported alongside the original error but not returned, the write
// error is what the caller acts on.
func SafeSaveIndex(idx *models.Index, outputPath, backupPath string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	tempPath := outputPath + ".tmp"
	if err := writeAndRename(tempPath, outputPath, data); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("❌ Error saving index: %v", err)))
		rollback(outputPath, backupPath)
		return err
	}
	return nil
}

func writeAndRename(tempPath, outputPath string, data []byte) error {
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(tempPath, outputPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace index: %w", err)
	}
	return nil
}

func rollback(outputPath, backupPath string) {
	if backupPath == "" {
		return
	}
	if _, err := os.Stat(backupPath); err != nil {
		return
	}
	if err := copyFile(backupPath, outputPath); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("❌ Could not restore backup: %v", err)))
		return
	}
	fmt.Println(lipgloss.Yellow.Render("🔄 Restored from backup"))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
