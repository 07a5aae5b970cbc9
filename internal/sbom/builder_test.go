package sbom

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spdx/tools-golang/spdx/v2/common"

	"github.com/swinslow/spdx-builder/internal/scan"
)

func fixedTime() time.Time {
	return time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)
}

func testPackages() []*scan.PackageRecord {
	return []*scan.PackageRecord{
		{
			Cfg: scan.PackageConfig{
				Name:            "app sources",
				Version:         "1.2.3",
				SupplierOrg:     "Example Corp",
				SPDXID:          "SPDXRef-Package-sources",
				FileIDPrefix:    "SPDXRef-File-sources",
				DeclaredLicense: "Apache-2.0",
				CopyrightText:   "NOASSERTION",
			},
			VerificationCode:     "d6a770ba38583ed4bb4525bd96e50461655d2758",
			ConcludedLicense:     "MIT",
			LicenseInfoFromFiles: []string{"MIT"},
			Files: []*scan.FileRecord{
				{
					RelPath:           "src/main.c",
					SPDXID:            "SPDXRef-File-sources-1",
					SHA1:              "da39a3ee5e6b4b0d3255bfef95601890afd80709",
					SHA256:            "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
					FileType:          "SOURCE",
					ConcludedLicense:  "MIT",
					LicenseInfoInFile: []string{"MIT"},
					CopyrightText:     "NOASSERTION",
				},
			},
		},
		{
			Cfg: scan.PackageConfig{
				Name:            "app builds",
				Version:         "1.2.3",
				SupplierPerson:  "Jane Dev",
				SPDXID:          "SPDXRef-Package-builds",
				FileIDPrefix:    "SPDXRef-File-builds",
				DeclaredLicense: "LicenseRef-Proprietary-Blob",
				CopyrightText:   "NOASSERTION",
			},
			VerificationCode: "0000000000000000000000000000000000000000",
			ConcludedLicense: "NOASSERTION",
			Files: []*scan.FileRecord{
				{
					RelPath:          "main.o",
					SPDXID:           "SPDXRef-File-builds-1",
					SHA1:             "356a192b7913b04c54574d18c28d46e6395428ab",
					FileType:         "BINARY",
					ConcludedLicense: "NOASSERTION",
					CopyrightText:    "NOASSERTION",
				},
			},
		},
	}
}

func testDocConfig() DocumentConfig {
	return DocumentConfig{
		Name:      "app-sbom",
		Namespace: "http://spdx.org/spdxdocs/app-sbom-test",
		Created:   fixedTime(),
	}
}

func TestBuildDocumentMetadata(t *testing.T) {
	doc := Build(testDocConfig(), testPackages())

	if doc.SPDXVersion != "SPDX-2.2" {
		t.Errorf("SPDXVersion = %q", doc.SPDXVersion)
	}
	if doc.DataLicense != "CC0-1.0" {
		t.Errorf("DataLicense = %q", doc.DataLicense)
	}
	if doc.SPDXIdentifier != "DOCUMENT" {
		t.Errorf("SPDXIdentifier = %q, want DOCUMENT", doc.SPDXIdentifier)
	}
	if doc.DocumentName != "app-sbom" {
		t.Errorf("DocumentName = %q", doc.DocumentName)
	}
	if doc.CreationInfo.Created != "2026-08-23T10:30:00Z" {
		t.Errorf("Created = %q", doc.CreationInfo.Created)
	}

	wantCreators := []common.Creator{
		{CreatorType: "Tool", Creator: "spdx-builder-0.1.0"},
	}
	if diff := cmp.Diff(wantCreators, doc.CreationInfo.Creators); diff != "" {
		t.Errorf("creators mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildOneFileRecordPerInput(t *testing.T) {
	pkgs := testPackages()
	doc := Build(testDocConfig(), pkgs)

	if len(doc.Packages) != 2 {
		t.Fatalf("got %d packages, want 2", len(doc.Packages))
	}
	if len(doc.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(doc.Files))
	}
	if doc.Files[0].FileName != "src/main.c" || doc.Files[1].FileName != "main.o" {
		t.Errorf("file names wrong: %s, %s", doc.Files[0].FileName, doc.Files[1].FileName)
	}
	if len(doc.Files[0].Checksums) != 2 {
		t.Errorf("sources file should carry SHA1+SHA256, got %v", doc.Files[0].Checksums)
	}
	if len(doc.Files[1].Checksums) != 1 {
		t.Errorf("builds file should carry SHA1 only, got %v", doc.Files[1].Checksums)
	}
	if doc.Files[1].Checksums[0].Algorithm != common.SHA1 {
		t.Errorf("first checksum must be SHA1, got %v", doc.Files[1].Checksums[0].Algorithm)
	}
}

func TestBuildIdentifiersUniqueAndResolvable(t *testing.T) {
	doc := Build(testDocConfig(), testPackages())

	ids := map[common.ElementID]bool{doc.SPDXIdentifier: true}
	for _, p := range doc.Packages {
		if ids[p.PackageSPDXIdentifier] {
			t.Errorf("duplicate package ID %q", p.PackageSPDXIdentifier)
		}
		ids[p.PackageSPDXIdentifier] = true
	}
	for _, f := range doc.Files {
		if ids[f.FileSPDXIdentifier] {
			t.Errorf("duplicate file ID %q", f.FileSPDXIdentifier)
		}
		ids[f.FileSPDXIdentifier] = true
	}

	// every relationship endpoint resolves within the document
	for _, rel := range doc.Relationships {
		if !ids[rel.RefA.ElementRefID] {
			t.Errorf("dangling RefA %q in %s relationship", rel.RefA.ElementRefID, rel.Relationship)
		}
		if !ids[rel.RefB.ElementRefID] {
			t.Errorf("dangling RefB %q in %s relationship", rel.RefB.ElementRefID, rel.Relationship)
		}
	}
}

func TestBuildRelationshipShape(t *testing.T) {
	doc := Build(testDocConfig(), testPackages())

	var describes, contains int
	for _, rel := range doc.Relationships {
		switch rel.Relationship {
		case "DESCRIBES":
			describes++
			if rel.RefA.ElementRefID != "DOCUMENT" {
				t.Errorf("DESCRIBES must originate at the document, got %q", rel.RefA.ElementRefID)
			}
		case "CONTAINS":
			contains++
			if !strings.HasPrefix(string(rel.RefA.ElementRefID), "Package-") {
				t.Errorf("CONTAINS must originate at a package, got %q", rel.RefA.ElementRefID)
			}
		default:
			t.Errorf("unexpected relationship type %q", rel.Relationship)
		}
	}
	if describes != 2 {
		t.Errorf("got %d DESCRIBES, want 2", describes)
	}
	if contains != 2 {
		t.Errorf("got %d CONTAINS, want 2", contains)
	}
}

func TestBuildSupplier(t *testing.T) {
	doc := Build(testDocConfig(), testPackages())

	src := doc.Packages[0]
	if src.PackageSupplier == nil || src.PackageSupplier.SupplierType != "Organization" ||
		src.PackageSupplier.Supplier != "Example Corp" {
		t.Errorf("sources supplier wrong: %+v", src.PackageSupplier)
	}

	bld := doc.Packages[1]
	if bld.PackageSupplier == nil || bld.PackageSupplier.SupplierType != "Person" ||
		bld.PackageSupplier.Supplier != "Jane Dev" {
		t.Errorf("builds supplier wrong: %+v", bld.PackageSupplier)
	}
}

func TestBuildVerificationCodeAndLicenses(t *testing.T) {
	doc := Build(testDocConfig(), testPackages())

	src := doc.Packages[0]
	if src.PackageVerificationCode.Value != "d6a770ba38583ed4bb4525bd96e50461655d2758" {
		t.Errorf("verification code = %q", src.PackageVerificationCode.Value)
	}
	if !src.FilesAnalyzed {
		t.Error("FilesAnalyzed must be true")
	}
	if src.PackageLicenseConcluded != "MIT" || src.PackageLicenseDeclared != "Apache-2.0" {
		t.Errorf("license fields wrong: concluded=%q declared=%q",
			src.PackageLicenseConcluded, src.PackageLicenseDeclared)
	}
	if src.PackageDownloadLocation != NoAssertion {
		t.Errorf("download location = %q, want NOASSERTION", src.PackageDownloadLocation)
	}
}

func TestBuildExtractedLicensingInfos(t *testing.T) {
	doc := Build(testDocConfig(), testPackages())

	if len(doc.OtherLicenses) != 1 {
		t.Fatalf("got %d other licenses, want 1", len(doc.OtherLicenses))
	}
	ol := doc.OtherLicenses[0]
	if ol.LicenseIdentifier != "LicenseRef-Proprietary-Blob" {
		t.Errorf("LicenseIdentifier = %q", ol.LicenseIdentifier)
	}
	if ol.ExtractedText == "" {
		t.Error("ExtractedText must not be empty")
	}
}

func TestBuildNoLicenseRefsNoOtherLicenses(t *testing.T) {
	pkgs := testPackages()
	pkgs[1].Cfg.DeclaredLicense = "NOASSERTION"
	doc := Build(testDocConfig(), pkgs)

	if doc.OtherLicenses != nil {
		t.Errorf("expected no other licenses, got %v", doc.OtherLicenses)
	}
}
