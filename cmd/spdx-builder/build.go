package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/swinslow/spdx-builder/internal/config"
	"github.com/swinslow/spdx-builder/internal/sbom"
	"github.com/swinslow/spdx-builder/internal/scan"
	"github.com/swinslow/spdx-builder/internal/utils/logger"
	"github.com/swinslow/spdx-builder/internal/validate"
)

// Build command flags
var (
	outputDir       string
	namespacePrefix string
	docName         string
	packageName     string
	packageVersion  string
	packageLicense  string
	supplierPerson  string
	supplierOrg     string
	pretty          bool
	compress        bool
	noSHA256        bool
	showProgress    bool
	scanLines       int
)

// createBuildCommand creates the build subcommand
func createBuildCommand() *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build [flags] SOURCES_LIST SRCDIR BUILDS_LIST BUILDDIR",
		Short: "Build an SPDX document from source and build file lists",
		Long: `Build a single SPDX 2.2 JSON document from two file lists.

SOURCES_LIST and BUILDS_LIST are text files with one relative path per line.
Paths in SOURCES_LIST resolve against SRCDIR; paths in BUILDS_LIST resolve
against BUILDDIR. The document contains one package per list, one file record
per listed path, and DESCRIBES/CONTAINS relationships tying them together.

A listed file that cannot be read aborts the run; no document is written.`,
		Args: cobra.ExactArgs(4),
		RunE: executeBuild,
	}

	buildCmd.Flags().StringVarP(&outputDir, "output", "o", "",
		"Path to SPDX output directory")
	buildCmd.Flags().StringVarP(&namespacePrefix, "namespace-prefix", "n", "",
		"Prefix for SPDX document namespaces")
	buildCmd.Flags().StringVar(&docName, "doc-name", "",
		"SPDX document name")
	buildCmd.Flags().StringVar(&packageName, "package-name", "",
		"Name prefix for the sources and builds packages")
	buildCmd.Flags().StringVar(&packageVersion, "package-version", "",
		"Version for the sources and builds packages")
	buildCmd.Flags().StringVar(&packageLicense, "package-license", "NOASSERTION",
		"Declared license for the packages")
	buildCmd.Flags().StringVar(&supplierPerson, "supplier-person", "",
		"Package supplier (person)")
	buildCmd.Flags().StringVar(&supplierOrg, "supplier-org", "",
		"Package supplier (organization)")
	buildCmd.Flags().BoolVarP(&pretty, "pretty", "p", false,
		"Pretty print JSON output")
	buildCmd.Flags().BoolVar(&compress, "compress", false,
		"Gzip the output document (doc.spdx.json.gz)")
	buildCmd.Flags().BoolVar(&noSHA256, "no-sha256", false,
		"Skip SHA-256 digests (SHA-1 is always computed)")
	buildCmd.Flags().BoolVar(&showProgress, "progress", false,
		"Show a per-file progress bar while hashing")
	buildCmd.Flags().IntVar(&scanLines, "scan-lines", -1,
		"Lines scanned for SPDX-License-Identifier tags (0 = whole file)")

	buildCmd.MarkFlagsMutuallyExclusive("supplier-person", "supplier-org")

	return buildCmd
}

// executeBuild handles the build command execution logic
func executeBuild(cmd *cobra.Command, args []string) error {
	cfg := config.Global()
	log := logger.Logger()

	out := cfg.OutputDir
	if cmd.Flags().Changed("output") {
		out = outputDir
	}

	nsPrefix := cfg.NamespacePrefix
	if cmd.Flags().Changed("namespace-prefix") {
		nsPrefix = namespacePrefix
	}
	if nsPrefix == "" {
		nsPrefix = "http://spdx.org/spdxdocs/" + uuid.New().String()
	}

	scanCfg := scan.Config{
		ConcludePackageLicense: cfg.Scan.ConcludePackageLicense,
		ConcludeFileLicenses:   cfg.Scan.ConcludeFileLicenses,
		NumLinesScanned:        cfg.Scan.LinesScanned,
		SHA256:                 cfg.Scan.SHA256 && !noSHA256,
		ShowProgress:           showProgress,
	}
	if cmd.Flags().Changed("scan-lines") {
		scanCfg.NumLinesScanned = scanLines
	}

	sourcesCfg := packageConfig(args[0], args[1], "sources")
	buildsCfg := packageConfig(args[2], args[3], "builds")

	sourcesPkg, err := scan.ScanPackage(scanCfg, sourcesCfg)
	if err != nil {
		return fmt.Errorf("scanning sources package: %w", err)
	}
	log.Infof("scanned %d source files from %s", len(sourcesPkg.Files), args[1])

	buildsPkg, err := scan.ScanPackage(scanCfg, buildsCfg)
	if err != nil {
		return fmt.Errorf("scanning builds package: %w", err)
	}
	log.Infof("scanned %d build files from %s", len(buildsPkg.Files), args[3])

	name := docName
	if name == "" {
		name = strings.TrimSpace(packageName + " SBOM")
		if name == "SBOM" {
			name = "spdx-builder SBOM"
		}
	}

	doc := sbom.Build(sbom.DocumentConfig{
		Name:      name,
		Namespace: nsPrefix + "/" + sbom.DefaultFilename,
		Created:   time.Now().UTC(),
	}, []*scan.PackageRecord{sourcesPkg, buildsPkg})

	// self-check against the SPDX 2.2 schema before anything hits disk
	data, err := sbom.Marshal(doc, false)
	if err != nil {
		return err
	}
	if err := validate.DocumentJSON(data); err != nil {
		return fmt.Errorf("generated document failed schema validation: %w", err)
	}

	path, err := sbom.Write(doc, out, sbom.WriteOptions{Pretty: pretty, Compress: compress})
	if err != nil {
		return err
	}
	log.Infof("wrote SPDX JSON document to %s", path)
	fmt.Printf("Wrote SPDX JSON document to %s\n", path)

	return nil
}

// packageConfig builds the scan configuration for one of the two fixed
// packages ("sources" or "builds").
func packageConfig(listPath, baseDir, kind string) scan.PackageConfig {
	return scan.PackageConfig{
		FileListPath:    listPath,
		BaseDir:         baseDir,
		Name:            strings.TrimSpace(packageName + " " + kind),
		Version:         packageVersion,
		SupplierPerson:  supplierPerson,
		SupplierOrg:     supplierOrg,
		SPDXID:          "SPDXRef-Package-" + kind,
		FileIDPrefix:    "SPDXRef-File-" + kind,
		DeclaredLicense: packageLicense,
		CopyrightText:   "NOASSERTION",
	}
}
