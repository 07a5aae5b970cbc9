// Package scan walks a package's file list, hashes each file and gathers the
// license data needed to build SPDX file and package records.
package scan

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/swinslow/spdx-builder/internal/filelist"
	"github.com/swinslow/spdx-builder/internal/license"
	"github.com/swinslow/spdx-builder/internal/utils/logger"
)

// MissingFileError reports a listed file that could not be read. It aborts
// the whole run; no partial document is produced.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("listed file %s cannot be read: %v", e.Path, e.Err)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// Config controls hashing and license scanning.
type Config struct {
	// ConcludePackageLicense auto-concludes each package's license from the
	// licenses of its files.
	ConcludePackageLicense bool

	// ConcludeFileLicenses auto-concludes each file's license from its
	// detected SPDX-License-Identifier tag.
	ConcludeFileLicenses bool

	// NumLinesScanned bounds the license tag scan (0 = whole file).
	NumLinesScanned int

	// SHA1 hashes are mandatory per SPDX 2.2; SHA256 adds a second digest.
	SHA256 bool

	// ShowProgress renders a per-file progress bar on stderr.
	ShowProgress bool
}

// DefaultConfig returns the scanning defaults.
func DefaultConfig() Config {
	return Config{
		ConcludePackageLicense: true,
		ConcludeFileLicenses:   true,
		NumLinesScanned:        20,
		SHA256:                 true,
	}
}

// PackageConfig describes one SPDX package to be assembled from a file list.
type PackageConfig struct {
	FileListPath string // path to the line-delimited list of member files
	BaseDir      string // root directory the listed paths resolve against

	Name    string
	Version string

	// Supplier is either a person or an organization, never both.
	SupplierPerson string
	SupplierOrg    string

	// SPDXID includes the "SPDXRef-" prefix, e.g. "SPDXRef-Package-sources".
	SPDXID string

	// FileIDPrefix is the per-package prefix for sequential file IDs,
	// e.g. "SPDXRef-File-sources".
	FileIDPrefix string

	DeclaredLicense string
	CopyrightText   string
}

// FileRecord is one listed file with its digests and license data. It is
// immutable once ScanPackage returns.
type FileRecord struct {
	RelPath string // as listed, relative to the package BaseDir
	AbsPath string

	// SPDXID includes the "SPDXRef-" prefix and is unique per document.
	SPDXID string

	SHA1   string // hex digest, always set
	SHA256 string // hex digest, empty unless Config.SHA256

	// FileType is the inferred SPDX file type: SOURCE, BINARY or OTHER.
	FileType string

	ConcludedLicense  string
	LicenseInfoInFile []string
	CopyrightText     string
}

// PackageRecord is an assembled package: its config plus the scanned files
// and the aggregate license data derived from them.
type PackageRecord struct {
	Cfg PackageConfig

	// VerificationCode per SPDX 2.2 section 3.9.
	VerificationCode string

	ConcludedLicense     string
	LicenseInfoFromFiles []string

	// Files in input-list order.
	Files []*FileRecord
}

// ScanPackage reads the package's file list, hashes and license-scans every
// member, and returns the assembled PackageRecord. The first unreadable file
// aborts the scan with a MissingFileError.
func ScanPackage(cfg Config, pkgCfg PackageConfig) (*PackageRecord, error) {
	log := logger.Logger()

	paths, err := filelist.Read(pkgCfg.FileListPath)
	if err != nil {
		return nil, err
	}

	baseDir, err := filepath.Abs(pkgCfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory %s: %w", pkgCfg.BaseDir, err)
	}

	pkg := &PackageRecord{
		Cfg:              pkgCfg,
		ConcludedLicense: license.NoAssertion,
	}

	var bar *progressbar.ProgressBar
	if cfg.ShowProgress {
		bar = newScanBar(len(paths), pkgCfg.Name)
	}

	for i, relPath := range paths {
		if bar != nil {
			bar.Describe(relPath)
		}

		f := &FileRecord{
			RelPath:          relPath,
			AbsPath:          filepath.Join(baseDir, relPath),
			SPDXID:           fmt.Sprintf("%s-%d", pkgCfg.FileIDPrefix, i+1),
			FileType:         fileTypeFor(relPath),
			ConcludedLicense: license.NoAssertion,
			CopyrightText:    license.NoAssertion,
		}

		sha1Hex, sha256Hex, err := hashFile(f.AbsPath)
		if err != nil {
			return nil, &MissingFileError{Path: f.AbsPath, Err: err}
		}
		f.SHA1 = sha1Hex
		if cfg.SHA256 {
			f.SHA256 = sha256Hex
		}

		expression, err := license.ExpressionData(f.AbsPath, cfg.NumLinesScanned)
		if err != nil {
			return nil, &MissingFileError{Path: f.AbsPath, Err: err}
		}
		if expression != "" {
			if cfg.ConcludeFileLicenses {
				f.ConcludedLicense = expression
			}
			f.LicenseInfoInFile = license.SplitExpression(expression)
		}

		log.Debugf("scanned %s sha1=%s license=%s", relPath, f.SHA1, f.ConcludedLicense)
		pkg.Files = append(pkg.Files, f)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	concluded, fromFiles := packageLicenses(pkg)
	if cfg.ConcludePackageLicense {
		pkg.ConcludedLicense = license.Normalize(concluded)
	}
	pkg.LicenseInfoFromFiles = fromFiles
	pkg.VerificationCode = verificationCode(pkg)

	return pkg, nil
}

// hashFile computes the SHA-1 and SHA-256 hex digests over one full read of
// the file at path.
func hashFile(path string) (string, string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	s1 := sha1.Sum(buf)
	s256 := sha256.Sum256(buf)
	return fmt.Sprintf("%x", s1), fmt.Sprintf("%x", s256), nil
}

// verificationCode calculates the SPDX Package Verification Code: the SHA-1
// of the sorted concatenation of the member files' SHA-1 digests (SPDX 2.2
// section 3.9).
func verificationCode(pkg *PackageRecord) string {
	hashes := make([]string, 0, len(pkg.Files))
	for _, f := range pkg.Files {
		hashes = append(hashes, f.SHA1)
	}
	sort.Strings(hashes)

	sum := sha1.Sum([]byte(strings.Join(hashes, "")))
	return fmt.Sprintf("%x", sum)
}

// packageLicenses extracts the de-duplicated, sorted lists of concluded and
// info-in-file licenses across the package's files.
func packageLicenses(pkg *PackageRecord) (concluded []string, fromFiles []string) {
	concludedSet := map[string]bool{}
	fromFilesSet := map[string]bool{}
	for _, f := range pkg.Files {
		concludedSet[f.ConcludedLicense] = true
		for _, licInfo := range f.LicenseInfoInFile {
			fromFilesSet[licInfo] = true
		}
	}
	for lic := range concludedSet {
		concluded = append(concluded, lic)
	}
	for lic := range fromFilesSet {
		fromFiles = append(fromFiles, lic)
	}
	sort.Strings(concluded)
	sort.Strings(fromFiles)
	return concluded, fromFiles
}

var sourceExts = map[string]bool{
	".c": true, ".h": true, ".cc": true, ".cpp": true, ".cxx": true,
	".hpp": true, ".hh": true, ".go": true, ".rs": true, ".py": true,
	".java": true, ".js": true, ".ts": true, ".rb": true, ".sh": true,
	".s": true, ".asm": true, ".ld": true, ".dts": true, ".dtsi": true,
}

var binaryExts = map[string]bool{
	".o": true, ".a": true, ".so": true, ".obj": true, ".lib": true,
	".dll": true, ".exe": true, ".elf": true, ".bin": true, ".ko": true,
	".img": true, ".hex": true,
}

// fileTypeFor infers the SPDX file type from the path's extension.
func fileTypeFor(relPath string) string {
	ext := strings.ToLower(filepath.Ext(relPath))
	switch {
	case sourceExts[ext]:
		return "SOURCE"
	case binaryExts[ext]:
		return "BINARY"
	default:
		return "OTHER"
	}
}

func newScanBar(total int, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionSetDescription(name),
	)
}
