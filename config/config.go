package config

import (
	"fmt"
	"os"

	"github.com/RichelynScott/claude-code-project-index/constants/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config represents the structure of the configuration file
type Config struct {
	Version      string `mapstructure:"version"`
	OutputFile   string `mapstructure:"output_file"`
	BackupDir    string `mapstructure:"backup_dir"`
	MaxBackups   int    `mapstructure:"max_backups"`
	MaxIndexSize int    `mapstructure:"max_index_size"`
	MaxFiles     int    `mapstructure:"max_files"`
	MaxTreeDepth int    `mapstructure:"max_tree_depth"`
	EnableCache  bool   `mapstructure:"enable_cache"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:      "0.2.0",
	OutputFile:   "PROJECT_INDEX.json",
	BackupDir:    ".claude-index-backups",
	MaxBackups:   10,
	MaxIndexSize: 1024 * 1024,
	MaxFiles:     10000,
	MaxTreeDepth: 5,
	EnableCache:  true,
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	// Set default values using Viper
	setDefaults()

	// Automatically read environment variables
	viper.AutomaticEnv()

	// Explicitly bind environment variables to config keys
	bindEnv()

	// Check if the user provided a config file
	if cfgFile != "" {
		// Use the config file from the flag
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		// Look for configuration files in the current directory
		viper.SetConfigName("index-config")
		viper.AddConfigPath(cwd)

		// Support both YAML and JSON formats
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				// No config file, continue with defaults
				_ = err
			}
		}
	}

	// Bind CLI flags to override config values
	bindFlags(rootCmd)

	// Unmarshal the configuration into the Config struct
	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("output_file", DefaultConfig.OutputFile)
	viper.SetDefault("backup_dir", DefaultConfig.BackupDir)
	viper.SetDefault("max_backups", DefaultConfig.MaxBackups)
	viper.SetDefault("max_index_size", DefaultConfig.MaxIndexSize)
	viper.SetDefault("max_files", DefaultConfig.MaxFiles)
	viper.SetDefault("max_tree_depth", DefaultConfig.MaxTreeDepth)
	viper.SetDefault("enable_cache", DefaultConfig.EnableCache)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("output_file", "INDEX_OUTPUT_FILE")
	_ = viper.BindEnv("backup_dir", "INDEX_BACKUP_DIR")
	_ = viper.BindEnv("max_backups", "INDEX_MAX_BACKUPS")
	_ = viper.BindEnv("max_index_size", "INDEX_MAX_SIZE")
	_ = viper.BindEnv("max_files", "INDEX_MAX_FILES")
	_ = viper.BindEnv("max_tree_depth", "INDEX_MAX_TREE_DEPTH")
	_ = viper.BindEnv("enable_cache", "INDEX_ENABLE_CACHE")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("output_file", rootCmd.PersistentFlags().Lookup("output_file"))
	_ = viper.BindPFlag("backup_dir", rootCmd.PersistentFlags().Lookup("backup_dir"))
	_ = viper.BindPFlag("max_backups", rootCmd.PersistentFlags().Lookup("max_backups"))
	_ = viper.BindPFlag("max_files", rootCmd.PersistentFlags().Lookup("max_files"))
	_ = viper.BindPFlag("max_tree_depth", rootCmd.PersistentFlags().Lookup("max_tree_depth"))
	_ = viper.BindPFlag("enable_cache", rootCmd.PersistentFlags().Lookup("enable_cache"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("output_file", DefaultConfig.OutputFile, "Name of the generated index file.")
	rootCmd.PersistentFlags().String("backup_dir", DefaultConfig.BackupDir, "Directory where index backups are stored.")
	rootCmd.PersistentFlags().Int("max_backups", DefaultConfig.MaxBackups, "Maximum number of index backups to keep before rotation.")
	rootCmd.PersistentFlags().Int("max_files", DefaultConfig.MaxFiles, "Maximum number of files to index before stopping the walk.")
	rootCmd.PersistentFlags().Int("max_tree_depth", DefaultConfig.MaxTreeDepth, "Maximum depth of the rendered directory tree.")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Enable or disable extraction caching for improved performance")

	// Maintenance flags
	rootCmd.Flags().Bool("show-backup-log", false, "Print the backup log summary and exit.")
	rootCmd.Flags().Bool("cleanup-backups", false, "Rotate old backups and exit.")
	rootCmd.Flags().Bool("reset-cache", false, "Clear the extraction cache and exit.")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}
