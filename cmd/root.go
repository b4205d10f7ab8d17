package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/RichelynScott/claude-code-project-index/backup"
	"github.com/RichelynScott/claude-code-project-index/config"
	"github.com/RichelynScott/claude-code-project-index/constants/lipgloss"
	"github.com/RichelynScott/claude-code-project-index/extractor"
	"github.com/RichelynScott/claude-code-project-index/index"
	"github.com/RichelynScott/claude-code-project-index/index/models"
	"github.com/RichelynScott/claude-code-project-index/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// RootDependencies holds the resolved configuration and collaborators for a run.
type RootDependencies struct {
	Config  *config.Config
	Cwd     string
	Manager *backup.Manager
	Builder *index.Builder
}

var rootCmd = &cobra.Command{
	Use:   "project-index",
	Short: "Generate a structural index of the current project",
	Long: `Scans the project tree and produces PROJECT_INDEX.json: a snapshot of the
directory structure, per-file functions, classes and imports, a resolved
dependency graph, and a bidirectional call graph. Before each rebuild the
previous index is backed up and significant changes require confirmation.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps := handleRootCommand(cmd)
		if deps == nil {
			return
		}
		handleIndexCommand(cmd, deps)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	showVersion, _ := cmd.Flags().GetBool("version")
	if showVersion {
		fmt.Println(config.DefaultConfig.Version)
		return nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	cfg := config.LoadConfigs(cmd, cwd)

	var cache *extractor.Cache
	if cfg.EnableCache {
		cache, err = extractor.NewCache(filepath.Join(cwd, ".index-cache"))
		if err != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠️  Cache disabled: %v", err)))
			cache = nil
		}
	}

	builder := index.NewBuilder(extractor.New(cache))
	if cfg.OutputFile != "" {
		builder.OutputFile = cfg.OutputFile
	}
	if cfg.MaxFiles > 0 {
		builder.MaxFiles = cfg.MaxFiles
	}
	if cfg.MaxTreeDepth > 0 {
		builder.MaxTreeDepth = cfg.MaxTreeDepth
	}

	return &RootDependencies{
		Config:  cfg,
		Cwd:     cwd,
		Manager: backup.NewManager(filepath.Join(cwd, cfg.BackupDir), cfg.MaxBackups, cwd),
		Builder: builder,
	}
}

func handleIndexCommand(cmd *cobra.Command, deps *RootDependencies) {
	showLog, _ := cmd.Flags().GetBool("show-backup-log")
	if showLog {
		printBackupLog(deps.Manager)
		return
	}

	resetCache, _ := cmd.Flags().GetBool("reset-cache")
	if resetCache {
		cache, err := extractor.NewCache(filepath.Join(deps.Cwd, ".index-cache"))
		if err == nil {
			err = cache.Clear()
		}
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error resetting cache: %v", err)))
			return
		}
		fmt.Println(lipgloss.Green.Render("✓ Extraction cache has been reset"))
		return
	}

	cleanup, _ := cmd.Flags().GetBool("cleanup-backups")
	if cleanup {
		if err := deps.Manager.Rotate(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Cleanup failed: %v", err)))
			return
		}
		fmt.Println(lipgloss.Green.Render("✅ Backup cleanup complete"))
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Println(lipgloss.BoxStyle.Render(fmt.Sprintf("📇 Indexing %s", deps.Cwd)))

	outputPath := filepath.Join(deps.Cwd, deps.Config.OutputFile)

	if err := deps.Manager.CreateBackup(outputPath); err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠️  %v", err)))
		fmt.Println(lipgloss.Yellow.Render("   Continuing without backup protection..."))
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)

	spinnerBuild, _ := spinner.Start("Indexing project...")
	idx, skipped, err := deps.Builder.Build(deps.Cwd)
	spinnerBuild.Stop()
	fmt.Print("\r")

	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("❌ Indexing failed: %v", err)))
		deps.Manager.Complete(nil, false)
		deps.Manager.Save()
		return
	}

	maxSize := deps.Config.MaxIndexSize
	if maxSize <= 0 {
		maxSize = index.MaxIndexSize
	}
	idx = index.Compress(idx, maxSize)

	significant, change := index.AnalyzeChanges(deps.Manager.BackupPath, idx)

	if significant {
		approved, err := utils.ConfirmPrompt(ctx, "Apply these changes?", bufio.NewReader(os.Stdin))
		if err != nil || !approved {
			fmt.Println(lipgloss.Yellow.Render("🔄 Update cancelled, keeping previous index"))
			deps.Manager.Complete(change, false)
			deps.Manager.Save()
			return
		}
	}

	if err := backup.SafeSaveIndex(idx, outputPath, deps.Manager.BackupPath); err != nil {
		deps.Manager.Complete(change, false)
		deps.Manager.Save()
		return
	}

	deps.Manager.Complete(change, true)
	deps.Manager.Save()

	printSummary(idx, skipped, deps.Config.OutputFile)
}

func printBackupLog(mgr *backup.Manager) {
	log := mgr.Log()
	fmt.Println(lipgloss.BlueSky.Render("📋 Backup log"))
	fmt.Printf("   Project: %s\n", log.ProjectPath)
	fmt.Printf("   Created: %s\n", log.CreatedAt)
	fmt.Printf("   Max backups: %d\n", log.MaxBackups)
	fmt.Printf("   Entries: %d\n", len(log.Entries))

	entries := log.Entries
	if len(entries) > 5 {
		entries = entries[len(entries)-5:]
	}
	for _, entry := range entries {
		status := "✅"
		if !entry.OperationSuccess {
			status = "❌"
		}
		fmt.Printf("   %s %s  %s  %s\n", status, entry.Timestamp, entry.SignificanceLevel, entry.Notes)
	}
}

func printSummary(idx *models.Index, skipped int, outputFile string) {
	stats := idx.Stats

	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("\n✅ Saved %s", outputFile)))

	if stats.TotalFiles == 0 {
		fmt.Println(lipgloss.Yellow.Render("⚠️  No files were indexed, check the ignore rules"))
		return
	}

	fmt.Println("📊 Index summary:")
	fmt.Printf("   Files: %d across %d directories\n", stats.TotalFiles, stats.TotalDirectories)
	fmt.Printf("   Markdown docs: %d\n", stats.MarkdownFiles)
	if skipped > 0 {
		fmt.Printf("   Skipped: %d (ignored or oversized)\n", skipped)
	}

	if len(stats.FullyParsed) > 0 {
		fmt.Println("   Parsed:")
		for _, lang := range sortedKeys(stats.FullyParsed) {
			fmt.Printf("      %s: %d\n", lang, stats.FullyParsed[lang])
		}
	}
	if len(stats.ListedOnly) > 0 {
		fmt.Println("   Listed only:")
		for _, lang := range sortedKeys(stats.ListedOnly) {
			fmt.Printf("      %s: %d\n", lang, stats.ListedOnly[lang])
		}
	}

	if len(idx.DocumentationMap) > 0 {
		fmt.Println("   📚 Documentation:")
		shown := 0
		for _, doc := range sortedKeys(idx.DocumentationMap) {
			if shown >= 3 {
				fmt.Printf("      ... and %d more\n", len(idx.DocumentationMap)-3)
				break
			}
			fmt.Printf("      %s (%d sections)\n", doc, len(idx.DocumentationMap[doc].Sections))
			shown++
		}
	}

	if len(idx.DirectoryPurposes) > 0 {
		fmt.Println("   📁 Directory purposes:")
		shown := 0
		for _, dir := range sortedKeys(idx.DirectoryPurposes) {
			if shown >= 5 {
				fmt.Printf("      ... and %d more\n", len(idx.DirectoryPurposes)-5)
				break
			}
			fmt.Printf("      %s: %s\n", dir, idx.DirectoryPurposes[dir])
			shown++
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
