package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swinslow/spdx-builder/internal/config"
	"github.com/swinslow/spdx-builder/internal/utils/logger"
	"github.com/swinslow/spdx-builder/internal/utils/security"
)

// Command-line flags that can override config file settings
var (
	configFile string // Path to config file
	logLevel   string // Empty means use config file value
)

func main() {
	configFilePath := configFile
	if configFilePath == "" {
		configFilePath = config.FindConfigFile()
	}

	globalConfig, err := config.LoadGlobalConfig(configFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(globalConfig)

	_, cleanup := logger.InitWithLevel(globalConfig.Logging.Level)
	defer cleanup()

	rootCmd := createRootCommand()
	security.AttachRecursive(rootCmd, security.DefaultLimits())

	// Handle log level override after flag parsing
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if logLevel != "" {
			globalConfig.Logging.Level = logLevel
			config.SetGlobal(globalConfig)
			logger.SetLogLevel(logLevel)
		}
	}

	if configFilePath != "" {
		logger.Logger().Infof("Using configuration from: %s", configFilePath)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// createRootCommand creates and configures the root cobra command with all
// subcommands
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spdx-builder",
		Short: "Build SPDX 2.2 SBOM documents from file lists",
		Long: `spdx-builder creates a Software Bill of Materials document conforming
to the SPDX 2.2 JSON schema from two flat lists of file paths: source files
and build/generated files.

Each listed file is hashed (SHA-1, optionally SHA-256) and scanned for an
SPDX-License-Identifier tag, and the resulting file and package records are
assembled into a single doc.spdx.json.

Use 'spdx-builder <command> --help' for more information about a command.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (debug, info, warn, error)")

	rootCmd.AddCommand(createBuildCommand())
	rootCmd.AddCommand(createValidateCommand())
	rootCmd.AddCommand(createConfigCommand())
	rootCmd.AddCommand(createVersionCommand())

	return rootCmd
}
