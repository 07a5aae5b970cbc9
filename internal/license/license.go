// Package license finds SPDX-License-Identifier tags in file content and
// manipulates the resulting license expressions.
package license

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// NoAssertion is the SPDX value for "we make no claim about this field".
const NoAssertion = "NOASSERTION"

// Tag is the marker scanned for in file content.
const Tag = "SPDX-License-Identifier:"

var operatorRe = regexp.MustCompile(`(?i) AND | OR | WITH `)

// ParseLine returns the license expression from a line containing an
// SPDX-License-Identifier tag, with trailing comment marks stripped. The
// second return is false when the line carries no tag.
func ParseLine(line string) (string, bool) {
	_, after, found := strings.Cut(line, Tag)
	if !found {
		return "", false
	}
	expression := strings.TrimSpace(after)
	expression = strings.TrimRight(expression, "/*")
	return strings.TrimSpace(expression), true
}

// ExpressionData scans the first numLines lines of the file at path for an
// SPDX-License-Identifier tag and returns the first expression found, or ""
// when there is none. numLines == 0 scans the whole file. Binary content
// (invalid UTF-8) ends the scan without error.
func ExpressionData(path string, numLines int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for license scan: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineno := 0
	for scanner.Scan() {
		lineno++
		if numLines > 0 && lineno > numLines {
			break
		}
		line := scanner.Text()
		if !utf8.ValidString(line) {
			// binary content; nothing to conclude
			return "", nil
		}
		if expression, ok := ParseLine(line); ok {
			return expression, nil
		}
	}
	// scanner errors (e.g. token too long on binary blobs) end the scan
	// without an expression
	return "", nil
}

// SplitExpression parses a license expression into its sorted constituent
// identifiers, dropping parens, "+" marks and the AND/OR/WITH operators.
func SplitExpression(expression string) []string {
	cleaned := strings.NewReplacer("(", "", ")", "", "+", "").Replace(expression)
	cleaned = operatorRe.ReplaceAllString(cleaned, " ")

	var ids []string
	for _, id := range strings.Fields(cleaned) {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Normalize combines license expressions into one AND'd expression,
// parenthesizing compound members and dropping NONE/NOASSERTION. An empty
// input yields NOASSERTION.
func Normalize(expressions []string) string {
	if len(expressions) == 0 {
		return NoAssertion
	}
	if len(expressions) == 1 {
		return expressions[0]
	}

	var revised []string
	for _, lic := range expressions {
		if lic == "NONE" || lic == NoAssertion {
			continue
		}
		if strings.Contains(lic, " ") {
			revised = append(revised, "("+lic+")")
		} else {
			revised = append(revised, lic)
		}
	}
	if len(revised) == 0 {
		return NoAssertion
	}
	return strings.Join(revised, " AND ")
}
