package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/swinslow/spdx-builder/internal/utils/file"
	"github.com/swinslow/spdx-builder/internal/utils/security"
	"github.com/swinslow/spdx-builder/internal/validate"
)

// GlobalConfig holds tool-level settings that apply across runs. Per-run
// settings (file lists, roots, package metadata) come from the command line.
type GlobalConfig struct {
	OutputDir       string        `yaml:"output_dir" json:"output_dir"`             // Directory where doc.spdx.json is written (default: .)
	NamespacePrefix string        `yaml:"namespace_prefix" json:"namespace_prefix"` // Prefix for document namespaces; should not end with "/"
	Scan            ScanConfig    `yaml:"scan" json:"scan"`                         // Hashing and license-scan behavior
	Logging         LoggingConfig `yaml:"logging" json:"logging"`                   // Logging behavior settings
}

// ScanConfig controls hashing and license scanning of listed files.
type ScanConfig struct {
	SHA256                 bool `yaml:"sha256" json:"sha256"`                                     // Also compute SHA-256 (SHA-1 is always computed)
	LinesScanned           int  `yaml:"lines_scanned" json:"lines_scanned"`                       // Lines scanned for SPDX-License-Identifier tags (0 = whole file)
	ConcludeFileLicenses   bool `yaml:"conclude_file_licenses" json:"conclude_file_licenses"`     // Conclude each file's license from its detected tag
	ConcludePackageLicense bool `yaml:"conclude_package_license" json:"conclude_package_license"` // Conclude package licenses from member files
}

// LoggingConfig controls basic logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`                   // debug, info (default), warn, error
	File  string `yaml:"file,omitempty" json:"file,omitempty"` // Optional log file path for teeing output to disk
}

var (
	globalInstance *GlobalConfig
	globalMutex    sync.RWMutex
	once           sync.Once
)

// SetGlobal sets the global config instance (call once at startup in main.go)
func SetGlobal(config *GlobalConfig) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalInstance = config
}

// Global returns the global config instance
func Global() *GlobalConfig {
	once.Do(func() {
		globalMutex.Lock()
		defer globalMutex.Unlock()
		if globalInstance == nil {
			globalInstance = DefaultGlobalConfig()
		}
	})

	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalInstance
}

// DefaultGlobalConfig returns a GlobalConfig with sensible defaults
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		OutputDir:       ".",
		NamespacePrefix: "",
		Scan: ScanConfig{
			SHA256:                 true,
			LinesScanned:           20,
			ConcludeFileLicenses:   true,
			ConcludePackageLicense: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// FindConfigFile looks for a config file in the conventional locations and
// returns the first match, or "" if none exists.
func FindConfigFile() string {
	if env := os.Getenv("SPDX_BUILDER_CONFIG"); env != "" {
		return env
	}
	candidates := []string{"spdx-builder.yaml", "spdx-builder.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", "spdx-builder", "config.yaml"))
	}
	for _, c := range candidates {
		if file.Exists(c) {
			return c
		}
	}
	return ""
}

// LoadGlobalConfig loads configuration from the specified path, falling back
// to defaults when the path is empty or missing.
func LoadGlobalConfig(configPath string) (*GlobalConfig, error) {
	config := DefaultGlobalConfig()

	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("accessing config file %s: %w", configPath, err)
	}

	// symlink protection on the config file itself
	data, err := security.SafeReadFile(configPath, security.RejectSymlinks)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}

		// Convert to JSON for schema validation
		jsonData, err := json.Marshal(config)
		if err != nil {
			return nil, fmt.Errorf("converting config to JSON for validation: %w", err)
		}
		if err := validate.ConfigJSON(jsonData); err != nil {
			return nil, fmt.Errorf("schema validation failed: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml)", ext)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// SaveGlobalConfig saves the configuration to the specified path
func (gc *GlobalConfig) SaveGlobalConfig(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is empty")
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	jsonData, err := json.Marshal(gc)
	if err != nil {
		return fmt.Errorf("converting config to JSON for validation: %w", err)
	}
	if err := validate.ConfigJSON(jsonData); err != nil {
		return fmt.Errorf("config validation failed before save: %w", err)
	}

	data, err := yaml.Marshal(gc)
	if err != nil {
		return fmt.Errorf("marshaling config to YAML: %w", err)
	}

	if err := security.SafeWriteFile(configPath, data, 0600, security.RejectSymlinks); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for invalid values
func (gc *GlobalConfig) Validate() error {
	if gc.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if gc.Scan.LinesScanned < 0 {
		return fmt.Errorf("scan.lines_scanned must be >= 0, got %d", gc.Scan.LinesScanned)
	}
	switch gc.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q (debug, info, warn, error)", gc.Logging.Level)
	}
	return nil
}
