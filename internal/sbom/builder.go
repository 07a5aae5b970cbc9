// Package sbom assembles SPDX 2.2 documents from scanned package records and
// writes them out as JSON.
package sbom

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spdx/tools-golang/spdx/v2/common"
	"github.com/spdx/tools-golang/spdx/v2/v2_2"

	"github.com/swinslow/spdx-builder/internal/config/version"
	"github.com/swinslow/spdx-builder/internal/license"
	"github.com/swinslow/spdx-builder/internal/scan"
)

const (
	// NoAssertion indicates that we don't claim anything about the value of a
	// given field.
	NoAssertion = "NOASSERTION"

	// SPDXRefPrefix is the prefix carried by the IDs in scan records;
	// tools-golang element IDs store the bare remainder.
	SPDXRefPrefix = "SPDXRef-"

	// DocumentID is the fixed identifier of the document element.
	DocumentID = "SPDXRef-DOCUMENT"
)

// DocumentConfig carries the caller-supplied document metadata.
type DocumentConfig struct {
	// Name of the document.
	Name string

	// Namespace is the unique URI for this document.
	Namespace string

	// ExtraCreators are appended after the standard Tool creator.
	ExtraCreators []common.Creator

	// Created is the document creation timestamp. Runs with equal inputs and
	// equal Created yield byte-identical JSON.
	Created time.Time
}

// Build assembles a single internally consistent SPDX 2.2 document from the
// given package records: the document DESCRIBES each package, and each
// package CONTAINS its files.
func Build(cfg DocumentConfig, pkgs []*scan.PackageRecord) *v2_2.Document {
	var files []*v2_2.File
	packages := make([]*v2_2.Package, 0, len(pkgs))
	relationships := make([]*v2_2.Relationship, 0, len(pkgs))

	for _, pkg := range pkgs {
		packages = append(packages, toSPDXPackage(pkg))
		relationships = append(relationships, &v2_2.Relationship{
			RefA:         common.MakeDocElementID("", elementID(DocumentID)),
			RefB:         common.MakeDocElementID("", elementID(pkg.Cfg.SPDXID)),
			Relationship: "DESCRIBES",
		})
		for _, f := range pkg.Files {
			files = append(files, toSPDXFile(f))
			relationships = append(relationships, &v2_2.Relationship{
				RefA:         common.MakeDocElementID("", elementID(pkg.Cfg.SPDXID)),
				RefB:         common.MakeDocElementID("", elementID(f.SPDXID)),
				Relationship: "CONTAINS",
			})
		}
	}

	creators := []common.Creator{
		{CreatorType: "Tool", Creator: version.CreatorTool()},
	}
	creators = append(creators, cfg.ExtraCreators...)

	return &v2_2.Document{
		SPDXVersion:       "SPDX-2.2",
		DataLicense:       "CC0-1.0",
		SPDXIdentifier:    common.ElementID(elementID(DocumentID)),
		DocumentName:      cfg.Name,
		DocumentNamespace: cfg.Namespace,
		CreationInfo: &v2_2.CreationInfo{
			Creators: creators,
			Created:  cfg.Created.UTC().Format("2006-01-02T15:04:05Z"),
		},
		Packages:      packages,
		Files:         files,
		Relationships: relationships,
		OtherLicenses: extractedLicensingInfos(pkgs),
	}
}

func toSPDXPackage(pkg *scan.PackageRecord) *v2_2.Package {
	p := &v2_2.Package{
		PackageName:             pkg.Cfg.Name,
		PackageSPDXIdentifier:   common.ElementID(elementID(pkg.Cfg.SPDXID)),
		PackageVersion:          pkg.Cfg.Version,
		PackageDownloadLocation: NoAssertion,
		FilesAnalyzed:           true,
		PackageVerificationCode: common.PackageVerificationCode{
			Value: pkg.VerificationCode,
		},
		PackageLicenseConcluded:     pkg.ConcludedLicense,
		PackageLicenseInfoFromFiles: pkg.LicenseInfoFromFiles,
		PackageLicenseDeclared:      pkg.Cfg.DeclaredLicense,
		PackageCopyrightText:        pkg.Cfg.CopyrightText,
	}

	// supplier is person XOR organization
	if pkg.Cfg.SupplierOrg != "" {
		p.PackageSupplier = &common.Supplier{
			SupplierType: "Organization",
			Supplier:     pkg.Cfg.SupplierOrg,
		}
	} else if pkg.Cfg.SupplierPerson != "" {
		p.PackageSupplier = &common.Supplier{
			SupplierType: "Person",
			Supplier:     pkg.Cfg.SupplierPerson,
		}
	}

	return p
}

func toSPDXFile(f *scan.FileRecord) *v2_2.File {
	checksums := []common.Checksum{
		{Algorithm: common.SHA1, Value: f.SHA1},
	}
	if f.SHA256 != "" {
		checksums = append(checksums, common.Checksum{
			Algorithm: common.SHA256, Value: f.SHA256,
		})
	}

	// a nil slice would marshal as JSON null, which the SPDX schema rejects;
	// emit an empty array instead
	licenseInfoInFiles := f.LicenseInfoInFile
	if licenseInfoInFiles == nil {
		licenseInfoInFiles = []string{}
	}

	return &v2_2.File{
		FileName:           f.RelPath,
		FileSPDXIdentifier: common.ElementID(elementID(f.SPDXID)),
		FileTypes:          []string{f.FileType},
		Checksums:          checksums,
		LicenseConcluded:   f.ConcludedLicense,
		LicenseInfoInFiles: licenseInfoInFiles,
		FileCopyrightText:  f.CopyrightText,
	}
}

// extractedLicensingInfos returns one OtherLicense per LicenseRef- ID seen in
// a package's declared license or its licenseInfoFromFiles. The extracted
// text is a placeholder; the tag scan only yields the ID.
func extractedLicensingInfos(pkgs []*scan.PackageRecord) []*v2_2.OtherLicense {
	refs := map[string]bool{}
	for _, pkg := range pkgs {
		for _, id := range license.SplitExpression(pkg.Cfg.DeclaredLicense) {
			if strings.HasPrefix(id, "LicenseRef-") {
				refs[id] = true
			}
		}
		for _, id := range pkg.LicenseInfoFromFiles {
			if strings.HasPrefix(id, "LicenseRef-") {
				refs[id] = true
			}
		}
	}
	if len(refs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(refs))
	for id := range refs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	infos := make([]*v2_2.OtherLicense, 0, len(ids))
	for _, id := range ids {
		infos = append(infos, &v2_2.OtherLicense{
			LicenseIdentifier: id,
			ExtractedText:     id,
			LicenseName:       id,
			LicenseComment: fmt.Sprintf(
				"Corresponds to the license ID `%s` detected in an SPDX-License-Identifier: tag.", id),
		})
	}
	return infos
}

// elementID strips the SPDXRef- prefix; tools-golang re-adds it when
// rendering JSON.
func elementID(id string) string {
	return strings.TrimPrefix(id, SPDXRefPrefix)
}
