package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const validDoc = `{
  "spdxVersion": "SPDX-2.2",
  "dataLicense": "CC0-1.0",
  "SPDXID": "SPDXRef-DOCUMENT",
  "name": "test-doc",
  "documentNamespace": "http://spdx.org/spdxdocs/test",
  "creationInfo": {
    "created": "2026-08-23T10:00:00Z",
    "creators": ["Tool: spdx-builder-0.1.0"]
  }
}`

func runValidate(t *testing.T, path string) error {
	t.Helper()
	cmd := createRootCommand()
	cmd.SetArgs([]string{"validate", path})
	return cmd.Execute()
}

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.spdx.json")
	if err := os.WriteFile(path, []byte(validDoc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := runValidate(t, path); err != nil {
		t.Errorf("expected valid document to pass, got: %v", err)
	}
}

func TestValidateCommandGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.spdx.json.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(validDoc)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if err := runValidate(t, path); err != nil {
		t.Errorf("expected gzipped document to pass, got: %v", err)
	}
}

func TestValidateCommandInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"spdxVersion": "SPDX-2.2"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := runValidate(t, path); err == nil {
		t.Error("expected invalid document to fail")
	}
}

func TestValidateCommandMissingFile(t *testing.T) {
	if err := runValidate(t, filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected missing file to fail")
	}
}
