// Package filelist parses the flat, line-delimited path lists that name the
// files going into an SPDX package.
package filelist

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/swinslow/spdx-builder/internal/utils/security"
)

// MalformedListError reports a list file that could not be parsed as
// line-delimited relative paths. It is fatal; the run must not proceed.
type MalformedListError struct {
	Path   string // list file path
	Line   int    // 1-based offending line, 0 when the whole file is at fault
	Reason string
	Err    error
}

func (e *MalformedListError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed file list %s:%d: %s", e.Path, e.Line, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed file list %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed file list %s: %s", e.Path, e.Reason)
}

func (e *MalformedListError) Unwrap() error { return e.Err }

// Read parses the list file at path and returns the listed relative paths in
// input order. Blank lines are skipped; trailing whitespace (including CR) is
// stripped. Absolute paths, NUL bytes and invalid UTF-8 make the list
// malformed.
func Read(path string) ([]string, error) {
	data, err := security.SafeReadFile(path, security.ResolveSymlinks)
	if err != nil {
		return nil, &MalformedListError{Path: path, Reason: "cannot read list file", Err: err}
	}

	if strings.IndexByte(string(data), 0) >= 0 {
		return nil, &MalformedListError{Path: path, Reason: "contains NUL bytes; not a text file"}
	}
	if !utf8.Valid(data) {
		return nil, &MalformedListError{Path: path, Reason: "not valid UTF-8"}
	}

	var paths []string
	for i, line := range strings.Split(string(data), "\n") {
		p := strings.TrimRight(line, " \t\r")
		if p == "" {
			continue
		}
		if filepath.IsAbs(p) {
			return nil, &MalformedListError{
				Path:   path,
				Line:   i + 1,
				Reason: fmt.Sprintf("absolute path %q not allowed; paths are relative to the package root", p),
			}
		}
		paths = append(paths, p)
	}
	return paths, nil
}
