package sbom

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	spdxjson "github.com/spdx/tools-golang/json"
	"github.com/spdx/tools-golang/spdx/v2/v2_2"

	"github.com/swinslow/spdx-builder/internal/utils/file"
)

// DefaultFilename is the document file name inside the output directory.
const DefaultFilename = "doc.spdx.json"

// OutputWriteError reports a failure to create the output directory or file.
// The run terminates without leaving a partial document behind.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("cannot write SPDX output %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// WriteOptions control serialization; neither option changes document
// semantics.
type WriteOptions struct {
	Pretty   bool // two-space indent
	Compress bool // gzip the output, appending .gz to the file name
}

// Marshal serializes the document to JSON. Output is a pure projection of
// doc: equal documents marshal to equal bytes.
func Marshal(doc *v2_2.Document, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if pretty {
		err = spdxjson.Write(doc, &buf, spdxjson.Indent("  "))
	} else {
		err = spdxjson.Write(doc, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("serializing SPDX document: %w", err)
	}
	return buf.Bytes(), nil
}

// Write serializes doc and writes it into outputDir, creating the directory
// if needed. The document lands under a temporary name and is renamed into
// place, so a failed run never leaves a partial doc.spdx.json. The final
// path is returned.
func Write(doc *v2_2.Document, outputDir string, opts WriteOptions) (string, error) {
	data, err := Marshal(doc, opts.Pretty)
	if err != nil {
		return "", err
	}

	if err := file.EnsureDir(outputDir); err != nil {
		return "", &OutputWriteError{Path: outputDir, Err: err}
	}

	name := DefaultFilename
	if opts.Compress {
		name += ".gz"
	}
	finalPath := filepath.Join(outputDir, name)

	tmp, err := os.CreateTemp(outputDir, ".doc.spdx.*")
	if err != nil {
		return "", &OutputWriteError{Path: finalPath, Err: err}
	}
	tmpPath := tmp.Name()

	if err := writePayload(tmp, data, opts.Compress); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", &OutputWriteError{Path: finalPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", &OutputWriteError{Path: finalPath, Err: err}
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", &OutputWriteError{Path: finalPath, Err: err}
	}
	return finalPath, nil
}

func writePayload(f *os.File, data []byte, compress bool) error {
	if !compress {
		_, err := f.Write(data)
		return err
	}

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		_ = gz.Close()
		return err
	}
	return gz.Close()
}
