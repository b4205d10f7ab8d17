package extractor

import (
	"path/filepath"
	"strings"
)

// directoryPurposes maps well-known directory names to a short role label.
var directoryPurposes = map[string]string{
	"src":         "Source code",
	"lib":         "Library code",
	"test":        "Test suite",
	"tests":       "Test suite",
	"spec":        "Test suite",
	"docs":        "Documentation",
	"doc":         "Documentation",
	"examples":    "Example code",
	"scripts":     "Build and utility scripts",
	"tools":       "Development tools",
	"config":      "Configuration files",
	"configs":     "Configuration files",
	"utils":       "Utility functions",
	"helpers":     "Utility functions",
	"models":      "Data models",
	"controllers": "Request handlers",
	"handlers":    "Request handlers",
	"views":       "View layer",
	"templates":   "Templates",
	"static":      "Static assets",
	"assets":      "Static assets",
	"public":      "Public web assets",
	"api":         "API layer",
	"cmd":         "Command-line entry points",
	"internal":    "Internal packages",
	"pkg":         "Public packages",
	"migrations":  "Database migrations",
	"middleware":  "Middleware components",
	"services":    "Service layer",
	"components":  "UI components",
}

// InferFilePurpose returns a short role hint for a file, or "" when nothing
// can be said from the name alone.
func InferFilePurpose(path string) string {
	base := strings.ToLower(filepath.Base(path))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	switch {
	case stem == "main" || stem == "app" || stem == "application":
		return "Application entry point"
	case stem == "index":
		return "Package entry point"
	case stem == "setup" || base == "setup.py":
		return "Package setup and installation"
	case stem == "conftest":
		return "Test configuration"
	case strings.HasPrefix(stem, "test_") || strings.HasSuffix(stem, "_test") ||
		strings.HasSuffix(stem, ".test") || strings.HasSuffix(stem, ".spec"):
		return "Test suite"
	case stem == "config" || stem == "settings" || stem == "configuration":
		return "Configuration"
	case stem == "utils" || stem == "helpers" || stem == "util":
		return "Utility functions"
	case stem == "cli":
		return "Command-line interface"
	case stem == "constants":
		return "Shared constants"
	}
	return ""
}

// InferDirectoryPurpose returns a role label for a directory given its name
// and the names of the files it directly contains.
func InferDirectoryPurpose(dirPath string, fileNames []string) string {
	base := strings.ToLower(filepath.Base(dirPath))
	if purpose, ok := directoryPurposes[base]; ok {
		return purpose
	}

	if len(fileNames) == 0 {
		return ""
	}

	// A directory where most files look like tests is a test suite even
	// without a conventional name.
	testFiles := 0
	for _, name := range fileNames {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "test_") || strings.Contains(lower, "_test.") ||
			strings.Contains(lower, ".test.") || strings.Contains(lower, ".spec.") {
			testFiles++
		}
	}
	if testFiles*2 > len(fileNames) {
		return "Test suite"
	}
	return ""
}
